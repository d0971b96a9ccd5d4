package mapdata

import (
	"context"

	"FortressVox/shared/util"
)

// InfoMapa descreve o mapa carregado no jogo.
type InfoMapa struct {
	NomeMundo string
	NomeSave  string

	// Tamanho em tiles.
	TamanhoX int32
	TamanhoY int32
	TamanhoZ int32

	// OffsetElevacao converte elevação exibida pelo jogo em z: z = elevação - offset.
	OffsetElevacao int32
}

// Area retorna a caixa horizontal completa do mapa no nível z.
func (i InfoMapa) Area(z int32) util.Caixa {
	return util.Caixa{
		Min: util.NewDFCoord(0, 0, z),
		Max: util.NewDFCoord(i.TamanhoX-1, i.TamanhoY-1, z),
	}
}

// ParaZ converte uma elevação exibida em coordenada z.
func (i InfoMapa) ParaZ(elevacao int32) int32 {
	return elevacao - i.OffsetElevacao
}

// Leitor é a fonte de dados do mapa. Erros que embrulham dfnet.ErrConexao ou
// dfnet.ErrVersao são terminais para a exportação.
type Leitor interface {
	Info(ctx context.Context) (InfoMapa, error)
	Materiais(ctx context.Context) (*Materiais, error)
	Estacao(ctx context.Context) (Estacao, error)
	// Flora devolve os raws de plantas e o tick atual do ano.
	Flora(ctx context.Context) (*Flora, error)

	// Tiles retorna o nível z recortado na área.
	Tiles(ctx context.Context, z int32, area util.Caixa) (*Nivel, error)

	// Edificios lista os edifícios que tocam o intervalo [zmin, zmax].
	Edificios(ctx context.Context, zmin, zmax int32) ([]Edificio, error)

	// Fluxos lista as células de fluxo ativas no nível z.
	Fluxos(ctx context.Context, z int32) ([]CelulaFluxo, error)
}
