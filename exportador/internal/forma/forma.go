// Package forma traduz tiles e edifícios em voxels dentro da subdivisão de
// um tile. Nada aqui conhece cor ou material: cada voxel sai marcado com um
// Papel e quem chama decide o perfil.
package forma

import (
	"cmp"
	"math/rand/v2"
	"slices"

	"FortressVox/shared/mapdata"
	"FortressVox/shared/util"
)

// Papel diz de onde o voxel vem dentro da forma.
type Papel uint8

const (
	Estrutural Papel = iota
	Rugoso
	Liso
	Crescimento
	Oculto
	// Interior é o miolo de paredes encostadas em outras paredes.
	Interior
	// Conteudo mostra os itens guardados num edifício.
	Conteudo
)

var nomesPapel = [...]string{"estrutural", "rugoso", "liso", "crescimento", "oculto", "interior", "conteúdo"}

func (p Papel) String() string {
	if int(p) < len(nomesPapel) {
		return nomesPapel[p]
	}
	return "papel inválido"
}

// Voxel é uma posição dentro do tile. Y=0 é a borda norte, Z=0 a base.
type Voxel struct {
	X, Y, Z uint8
	Papel   Papel
}

// Forma é uma lista de voxels ordenada por z, y, x, sem posições repetidas.
type Forma []Voxel

// Subdivisao é a resolução de um tile: H×H na horizontal, V na vertical.
type Subdivisao struct {
	H, V int
}

var SubdivisaoPadrao = Subdivisao{H: 3, V: 5}

func (s Subdivisao) Valida() bool {
	return s.H >= 1 && s.H <= 16 && s.V >= 1 && s.V <= 16
}

// Contexto é tudo que um resolvedor pode olhar.
type Contexto struct {
	Tile *mapdata.Tile
	// Vizinhos indexado por util.Direcao.
	Vizinhos [8]mapdata.TipoTile
	Acima    mapdata.TipoTile
	Abaixo   mapdata.TipoTile
	Sub      Subdivisao
	// Rand é a única fonte de aleatoriedade; vem semeado pela posição do tile.
	Rand *rand.Rand
}

func (c *Contexto) vizinho(d util.Direcao) mapdata.TipoTile {
	if int(d) < len(c.Vizinhos) {
		return c.Vizinhos[d]
	}
	return mapdata.TipoVazio
}

func (c *Contexto) paredeEm(d util.Direcao) bool {
	return ehParede(c.vizinho(d))
}

func ehParede(t mapdata.TipoTile) bool {
	return t == mapdata.TipoParede || t == mapdata.TipoFortificacao
}

func ehPlanta(t mapdata.TipoTile) bool {
	switch t {
	case mapdata.TipoTronco, mapdata.TipoGalho, mapdata.TipoGraveto:
		return true
	}
	return false
}

type resolvedor func(c *Contexto) Forma

// Uma entrada por variante de mapdata.TipoTile; o tamanho do array garante
// que nenhuma variante nova fique sem resolvedor.
var resolvedores = [mapdata.NumTiposTile]resolvedor{
	mapdata.TipoDesconhecido:    vazio,
	mapdata.TipoVazio:           vazio,
	mapdata.TipoPiso:            piso,
	mapdata.TipoParede:          parede,
	mapdata.TipoRampa:           rampa,
	mapdata.TipoTopoRampa:       vazio,
	mapdata.TipoEscadaSobe:      escada,
	mapdata.TipoEscadaDesce:     escada,
	mapdata.TipoEscadaSobeDesce: escada,
	mapdata.TipoFortificacao:    fortificacao,
	mapdata.TipoPedregulho:      pedregulho,
	mapdata.TipoSeixos:          seixos,
	mapdata.TipoLeitoRiacho:     piso,
	mapdata.TipoTronco:          tronco,
	mapdata.TipoGalho:           galho,
	mapdata.TipoGraveto:         graveto,
	mapdata.TipoArbusto:         arbusto,
	mapdata.TipoMuda:            muda,
}

// Resolver devolve a forma do tile do contexto. Tiles ocultos viram um cubo
// cheio com papel Oculto, exceto os vazios, que nunca geram voxels.
func Resolver(c Contexto) Forma {
	if c.Tile == nil || !c.Sub.Valida() {
		return nil
	}
	tipo := c.Tile.Tipo
	if int(tipo) >= len(resolvedores) || tipo == mapdata.TipoVazio {
		return nil
	}
	if c.Tile.Oculto {
		return cubo(c.Sub, Oculto)
	}
	if c.Rand == nil {
		c.Rand = rand.New(rand.NewPCG(0, 0))
	}
	return normalizar(resolvedores[tipo](&c))
}

func vazio(*Contexto) Forma { return nil }

func superficie(t *mapdata.Tile) Papel {
	if t.Rugoso() {
		return Rugoso
	}
	return Liso
}

func cubo(s Subdivisao, p Papel) Forma {
	f := make(Forma, 0, s.H*s.H*s.V)
	for z := 0; z < s.V; z++ {
		for y := 0; y < s.H; y++ {
			for x := 0; x < s.H; x++ {
				f = append(f, Voxel{X: uint8(x), Y: uint8(y), Z: uint8(z), Papel: p})
			}
		}
	}
	return f
}

func comparar(a, b Voxel) int {
	if c := cmp.Compare(a.Z, b.Z); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Y, b.Y); c != 0 {
		return c
	}
	return cmp.Compare(a.X, b.X)
}

// normalizar ordena e remove repetidos, mantendo a primeira ocorrência.
func normalizar(f Forma) Forma {
	if len(f) == 0 {
		return nil
	}
	slices.SortStableFunc(f, comparar)
	return slices.CompactFunc(f, func(a, b Voxel) bool { return comparar(a, b) == 0 })
}

// Girar roda a forma em quartos de volta no sentido horário vista de cima.
func Girar(f Forma, s Subdivisao, quartos int) Forma {
	quartos = ((quartos % 4) + 4) % 4
	if quartos == 0 || len(f) == 0 {
		return f
	}
	res := make(Forma, len(f))
	n := uint8(s.H - 1)
	for i, v := range f {
		for q := 0; q < quartos; q++ {
			v.X, v.Y = n-v.Y, v.X
		}
		res[i] = v
	}
	return normalizar(res)
}
