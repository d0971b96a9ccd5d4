package mapdata

import (
	"sort"

	"FortressVox/shared/pkg/dfproto"
	"FortressVox/shared/util"
)

// Nivel guarda os tiles de um único nível z numa área retangular.
// Tiles fora da área são tratados como vazios.
type Nivel struct {
	Z     int32
	Area  util.Caixa // só X e Y são usados
	Tiles []Tile     // linha a linha: (y-Min.Y)*largura + (x-Min.X)
}

// NovoNivel cria um nível vazio cobrindo a área.
func NovoNivel(z int32, area util.Caixa) *Nivel {
	area.Min.Z, area.Max.Z = z, z
	n := &Nivel{Z: z, Area: area}
	if !area.Valida() {
		return n
	}
	n.Tiles = make([]Tile, int(area.Largura())*int(area.Altura()))
	for y := area.Min.Y; y <= area.Max.Y; y++ {
		for x := area.Min.X; x <= area.Max.X; x++ {
			t := &n.Tiles[n.indice(x, y)]
			t.Pos = util.NewDFCoord(x, y, z)
			t.Tipo = TipoVazio
		}
	}
	return n
}

func (n *Nivel) indice(x, y int32) int {
	return int(y-n.Area.Min.Y)*int(n.Area.Largura()) + int(x-n.Area.Min.X)
}

// Tile retorna o tile em (x, y) ou nil fora da área.
func (n *Nivel) Tile(x, y int32) *Tile {
	if n == nil || x < n.Area.Min.X || x > n.Area.Max.X || y < n.Area.Min.Y || y > n.Area.Max.Y {
		return nil
	}
	return &n.Tiles[n.indice(x, y)]
}

// ArmazenarBloco copia os tiles de um bloco do DFHack para o nível.
// Retorna as posições cujo id de tiletype não existe na lista.
func (n *Nivel) ArmazenarBloco(block *dfproto.MapBlock, tt Tiletypes) []util.DFCoord {
	var desconhecidos []util.DFCoord
	for yy := int32(0); yy < util.BlockSize; yy++ {
		for xx := int32(0); xx < util.BlockSize; xx++ {
			idx := int(xx + yy*util.BlockSize)
			t := n.Tile(block.MapX+xx, block.MapY+yy)
			if t == nil {
				continue
			}
			if idx < len(block.Tiles) {
				if !tt.Aplicar(t, block.Tiles[idx]) {
					desconhecidos = append(desconhecidos, t.Pos)
				}
			}
			if idx < len(block.Materials) {
				t.Material = block.Materials[idx]
			}
			if idx < len(block.Hidden) {
				t.Oculto = block.Hidden[idx]
			}
			if idx < len(block.Water) {
				t.Agua = util.Clamp(block.Water[idx], 0, 7)
			}
			if idx < len(block.Magma) {
				t.Magma = util.Clamp(block.Magma[idx], 0, 7)
			}
			t.Respingos = t.Respingos[:0]
			if idx < len(block.SpatterPile) {
				for _, sp := range block.SpatterPile[idx].Spatters {
					if sp.Amount <= 0 {
						continue
					}
					t.Respingos = append(t.Respingos, Respingo{
						Material:   sp.Material,
						Quantidade: sp.Amount,
						Estado:     sp.State,
					})
				}
			}
		}
	}
	return desconhecidos
}

// MarcarGravuras marca os tiles gravados deste nível. Gravuras escondidas e
// de outros níveis são ignoradas. Retorna quantos tiles foram marcados.
func (n *Nivel) MarcarGravuras(gs []dfproto.Engraving) int {
	marcados := 0
	for i := range gs {
		g := &gs[i]
		if g.Hidden || g.Pos.Z != n.Z {
			continue
		}
		if t := n.Tile(g.Pos.X, g.Pos.Y); t != nil && !t.Gravado {
			t.Gravado = true
			marcados++
		}
	}
	return marcados
}

// tamanhoCelulaIndice é o lado, em tiles, de cada balde do índice espacial.
const tamanhoCelulaIndice = util.BlockSize

type chaveCelula struct {
	X, Y, Z int32
}

// IndiceEdificios responde "qual edifício ocupa este tile?" em tempo
// constante. Os edifícios são distribuídos em baldes de 16x16 tiles por z.
type IndiceEdificios struct {
	edificios []Edificio
	celulas   map[chaveCelula][]int
}

// NovoIndiceEdificios indexa os edifícios; a ordem de entrada é preservada.
func NovoIndiceEdificios(eds []Edificio) *IndiceEdificios {
	idx := &IndiceEdificios{
		edificios: eds,
		celulas:   make(map[chaveCelula][]int),
	}
	for i := range eds {
		e := &eds[i]
		for z := e.Min.Z; z <= e.Max.Z; z++ {
			for cy := util.FloorDiv(e.Min.Y, tamanhoCelulaIndice); cy <= util.FloorDiv(e.Max.Y, tamanhoCelulaIndice); cy++ {
				for cx := util.FloorDiv(e.Min.X, tamanhoCelulaIndice); cx <= util.FloorDiv(e.Max.X, tamanhoCelulaIndice); cx++ {
					k := chaveCelula{cx, cy, z}
					idx.celulas[k] = append(idx.celulas[k], i)
				}
			}
		}
	}
	return idx
}

// Em retorna o edifício que ocupa a posição. Havendo sobreposição, vence o
// de maior id.
func (idx *IndiceEdificios) Em(p util.DFCoord) (*Edificio, bool) {
	k := chaveCelula{util.FloorDiv(p.X, tamanhoCelulaIndice), util.FloorDiv(p.Y, tamanhoCelulaIndice), p.Z}
	var achado *Edificio
	for _, i := range idx.celulas[k] {
		e := &idx.edificios[i]
		if e.Contem(p) && (achado == nil || e.ID > achado.ID) {
			achado = e
		}
	}
	return achado, achado != nil
}

// NoNivel lista os edifícios que tocam o nível z, ordenados por id.
func (idx *IndiceEdificios) NoNivel(z int32) []*Edificio {
	var res []*Edificio
	for i := range idx.edificios {
		e := &idx.edificios[i]
		if e.Min.Z <= z && z <= e.Max.Z {
			res = append(res, e)
		}
	}
	sort.Slice(res, func(a, b int) bool { return res[a].ID < res[b].ID })
	return res
}

// Todos retorna os edifícios indexados, ordenados por id.
func (idx *IndiceEdificios) Todos() []*Edificio {
	res := make([]*Edificio, len(idx.edificios))
	for i := range idx.edificios {
		res[i] = &idx.edificios[i]
	}
	sort.Slice(res, func(a, b int) bool { return res[a].ID < res[b].ID })
	return res
}

func (idx *IndiceEdificios) Len() int {
	return len(idx.edificios)
}
