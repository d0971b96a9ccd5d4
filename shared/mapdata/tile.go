package mapdata

import (
	"FortressVox/shared/pkg/dfproto"
	"FortressVox/shared/util"
)

// TipoTile é o conjunto fechado de formas de tile que o conversor entende.
// Cada variante tem exatamente um resolvedor em exportador/internal/forma.
type TipoTile uint8

const (
	TipoDesconhecido TipoTile = iota
	TipoVazio
	TipoPiso
	TipoParede
	TipoRampa
	TipoTopoRampa
	TipoEscadaSobe
	TipoEscadaDesce
	TipoEscadaSobeDesce
	TipoFortificacao
	TipoPedregulho
	TipoSeixos
	TipoLeitoRiacho
	TipoTronco
	TipoGalho
	TipoGraveto
	TipoArbusto
	TipoMuda

	NumTiposTile = int(TipoMuda) + 1
)

var nomesTipoTile = [NumTiposTile]string{
	TipoDesconhecido:    "desconhecido",
	TipoVazio:           "vazio",
	TipoPiso:            "piso",
	TipoParede:          "parede",
	TipoRampa:           "rampa",
	TipoTopoRampa:       "topo de rampa",
	TipoEscadaSobe:      "escada (sobe)",
	TipoEscadaDesce:     "escada (desce)",
	TipoEscadaSobeDesce: "escada (sobe/desce)",
	TipoFortificacao:    "fortificação",
	TipoPedregulho:      "pedregulho",
	TipoSeixos:          "seixos",
	TipoLeitoRiacho:     "leito de riacho",
	TipoTronco:          "tronco",
	TipoGalho:           "galho",
	TipoGraveto:         "graveto",
	TipoArbusto:         "arbusto",
	TipoMuda:            "muda",
}

func (t TipoTile) String() string {
	if int(t) < NumTiposTile {
		return nomesTipoTile[t]
	}
	return "inválido"
}

// TipoDeForma converte o shape do RemoteFortressReader no tipo de tile.
func TipoDeForma(shape dfproto.TiletypeShape) TipoTile {
	switch shape {
	case dfproto.ShapeEmpty, dfproto.ShapeEndlessPit:
		return TipoVazio
	case dfproto.ShapeFloor, dfproto.ShapeBrookTop:
		return TipoPiso
	case dfproto.ShapeBoulder:
		return TipoPedregulho
	case dfproto.ShapePebbles:
		return TipoSeixos
	case dfproto.ShapeWall:
		return TipoParede
	case dfproto.ShapeFortification:
		return TipoFortificacao
	case dfproto.ShapeStairUp:
		return TipoEscadaSobe
	case dfproto.ShapeStairDown:
		return TipoEscadaDesce
	case dfproto.ShapeStairUpDown:
		return TipoEscadaSobeDesce
	case dfproto.ShapeRamp:
		return TipoRampa
	case dfproto.ShapeRampTop:
		return TipoTopoRampa
	case dfproto.ShapeBrookBed:
		return TipoLeitoRiacho
	case dfproto.ShapeTreeShape, dfproto.ShapeTrunkBranch:
		return TipoTronco
	case dfproto.ShapeBranch:
		return TipoGalho
	case dfproto.ShapeTwig:
		return TipoGraveto
	case dfproto.ShapeShrub:
		return TipoArbusto
	case dfproto.ShapeSapling:
		return TipoMuda
	default:
		return TipoDesconhecido
	}
}

// Respingo é uma mancha sobre o tile (sangue, neve, pó...).
type Respingo struct {
	Material   dfproto.MatPair
	Quantidade int32
	Estado     dfproto.MatterState
}

// Tile representa um único tile do mapa, já interpretado.
type Tile struct {
	Pos util.DFCoord

	Tipo      TipoTile
	Categoria dfproto.TiletypeMaterial
	Especial  dfproto.TiletypeSpecial
	Material  dfproto.MatPair

	// TiletypeID guarda o id bruto para mensagens de aviso.
	TiletypeID int32

	Oculto  bool
	Gravado bool
	Agua    int32
	Magma   int32

	Respingos []Respingo
}

// Liso indica superfície alisada pelos anões.
func (t *Tile) Liso() bool {
	return t.Especial == dfproto.SpecialSmooth || t.Especial == dfproto.SpecialSmoothDead
}

// Rugoso indica superfície natural. Construções e gelo nunca são rugosos.
func (t *Tile) Rugoso() bool {
	if t.Liso() {
		return false
	}
	return t.Categoria != dfproto.TilematConstruction && t.Categoria != dfproto.TilematFrozenLiquid
}

// Morto indica vegetação morta.
func (t *Tile) Morto() bool {
	return t.Especial == dfproto.SpecialDead || t.Especial == dfproto.SpecialSmoothDead ||
		t.Categoria == dfproto.TilematGrassDead
}

// Parede indica tiles que ocupam o volume inteiro e servem de apoio para rampas.
func (t *Tile) Parede() bool {
	return t.Tipo == TipoParede || t.Tipo == TipoFortificacao
}

// Vegetacao indica partes de plantas, exportadas num objeto separado.
func (t *Tile) Vegetacao() bool {
	switch t.Tipo {
	case TipoTronco, TipoGalho, TipoGraveto, TipoArbusto, TipoMuda:
		return true
	}
	return false
}

// Tiletypes resolve ids de tiletype recebidos nos blocos.
type Tiletypes map[int32]dfproto.Tiletype

func NovoTiletypes(list *dfproto.TiletypeList) Tiletypes {
	tt := make(Tiletypes, len(list.TiletypeList))
	for _, t := range list.TiletypeList {
		tt[t.ID] = t
	}
	return tt
}

// Aplicar preenche forma, categoria e acabamento de um tile a partir do id.
// Retorna false se o id não existe na lista.
func (tt Tiletypes) Aplicar(t *Tile, id int32) bool {
	t.TiletypeID = id
	def, ok := tt[id]
	if !ok {
		t.Tipo = TipoDesconhecido
		t.Categoria = dfproto.TilematNoMaterial
		t.Especial = dfproto.SpecialNoSpecial
		return false
	}
	t.Tipo = TipoDeForma(def.Shape)
	t.Categoria = def.Material
	t.Especial = def.Special
	return true
}
