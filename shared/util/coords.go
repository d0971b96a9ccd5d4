package util

import (
	"fmt"
)

// DFCoord representa uma coordenada no espaço do Dwarf Fortress.
// X = leste/oeste, Y = norte/sul (cresce para o sul), Z = nível vertical
type DFCoord struct {
	X, Y, Z int32
}

// NewDFCoord cria uma nova coordenada DF.
func NewDFCoord(x, y, z int32) DFCoord {
	return DFCoord{X: x, Y: y, Z: z}
}

// Add soma duas coordenadas.
func (c DFCoord) Add(other DFCoord) DFCoord {
	return DFCoord{X: c.X + other.X, Y: c.Y + other.Y, Z: c.Z + other.Z}
}

// Sub subtrai duas coordenadas.
func (c DFCoord) Sub(other DFCoord) DFCoord {
	return DFCoord{X: c.X - other.X, Y: c.Y - other.Y, Z: c.Z - other.Z}
}

func (c DFCoord) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.X, c.Y, c.Z)
}

// BlockSize é o tamanho de um bloco do mapa no DF (16x16x1).
const BlockSize = 16

// BlockCoord retorna a origem do bloco que contém esta coordenada.
func (c DFCoord) BlockCoord() DFCoord {
	return DFCoord{X: FloorDiv(c.X, BlockSize) * BlockSize, Y: FloorDiv(c.Y, BlockSize) * BlockSize, Z: c.Z}
}

// LocalCoord retorna a coordenada local dentro do bloco (0-15, 0-15).
func (c DFCoord) LocalCoord() DFCoord {
	bc := c.BlockCoord()
	return DFCoord{X: c.X - bc.X, Y: c.Y - bc.Y}
}

// Direcao é uma das oito direções horizontais, mais Nenhuma.
// A ordem segue o enum BuildingDirection do RemoteFortressReader.
type Direcao uint8

const (
	Norte Direcao = iota
	Leste
	Sul
	Oeste
	Nordeste
	Sudeste
	Sudoeste
	Noroeste
	Nenhuma
)

// Cardeais e Diagonais na ordem de desempate usada pelo conversor.
var (
	Cardeais  = [4]Direcao{Norte, Leste, Sul, Oeste}
	Diagonais = [4]Direcao{Nordeste, Sudeste, Sudoeste, Noroeste}
	Vizinhas8 = [8]Direcao{Norte, Leste, Sul, Oeste, Nordeste, Sudeste, Sudoeste, Noroeste}
)

var dirOffsets = [...]DFCoord{
	Norte:    {X: 0, Y: -1},
	Leste:    {X: 1, Y: 0},
	Sul:      {X: 0, Y: 1},
	Oeste:    {X: -1, Y: 0},
	Nordeste: {X: 1, Y: -1},
	Sudeste:  {X: 1, Y: 1},
	Sudoeste: {X: -1, Y: 1},
	Noroeste: {X: -1, Y: -1},
	Nenhuma:  {},
}

var dirNomes = [...]string{"N", "E", "S", "W", "NE", "SE", "SW", "NW", "-"}

func (d Direcao) String() string {
	if int(d) < len(dirNomes) {
		return dirNomes[d]
	}
	return fmt.Sprintf("Direcao(%d)", d)
}

// Offset retorna o deslocamento horizontal da direção.
func (d Direcao) Offset() DFCoord {
	if int(d) < len(dirOffsets) {
		return dirOffsets[d]
	}
	return DFCoord{}
}

// Cardeal indica se a direção é N, E, S ou W.
func (d Direcao) Cardeal() bool {
	return d <= Oeste
}

// QuartosDeVolta retorna quantas rotações de 90° (sentido horário, vista de
// cima) levam o norte até a direção. Só faz sentido para cardeais.
func (d Direcao) QuartosDeVolta() int {
	if d.Cardeal() {
		return int(d)
	}
	return 0
}

// Vizinho retorna a coordenada deslocada na direção especificada.
func (c DFCoord) Vizinho(d Direcao) DFCoord {
	return c.Add(d.Offset())
}

func (c DFCoord) Acima() DFCoord  { return DFCoord{X: c.X, Y: c.Y, Z: c.Z + 1} }
func (c DFCoord) Abaixo() DFCoord { return DFCoord{X: c.X, Y: c.Y, Z: c.Z - 1} }

// Caixa é um volume inclusivo de tiles.
type Caixa struct {
	Min, Max DFCoord
}

// Contem verifica se a coordenada está dentro da caixa (limites inclusivos).
func (b Caixa) Contem(c DFCoord) bool {
	return c.X >= b.Min.X && c.X <= b.Max.X &&
		c.Y >= b.Min.Y && c.Y <= b.Max.Y &&
		c.Z >= b.Min.Z && c.Z <= b.Max.Z
}

// Largura e Altura retornam as dimensões horizontais em tiles.
func (b Caixa) Largura() int32 { return b.Max.X - b.Min.X + 1 }
func (b Caixa) Altura() int32  { return b.Max.Y - b.Min.Y + 1 }

// Valida indica se Min <= Max em todos os eixos.
func (b Caixa) Valida() bool {
	return b.Min.X <= b.Max.X && b.Min.Y <= b.Max.Y && b.Min.Z <= b.Max.Z
}
