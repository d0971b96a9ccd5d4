package grade

import (
	"cmp"
	"slices"

	"FortressVox/exportador/internal/material"
	"FortressVox/exportador/internal/paleta"
)

// Prioridade decide quem fica com uma posição disputada. Empate: a última escrita.
type Prioridade uint8

const (
	PrioRespingo Prioridade = iota + 1
	PrioFluxo
	PrioLiquido
	PrioPreenchimento
	PrioEstrutural
)

// dono identifica o objeto de destino: uma Camada (>= 0) ou um edifício
// (-(índice+1)).
type dono int32

func donoCamada(c Camada) dono { return dono(c) }
func donoEdificio(i int) dono  { return dono(-(i + 1)) }

func (d dono) camada() (Camada, bool) { return Camada(d), d >= 0 }
func (d dono) edificio() (int, bool)  { return int(-d) - 1, d < 0 }

type celula struct {
	prio   Prioridade
	dono   dono
	perfil material.Perfil
}

type posicao struct {
	X, Y, Z int32
}

// buffer guarda no máximo uma célula por posição de um nível.
type buffer struct {
	celulas map[posicao]celula
}

func novoBuffer() *buffer {
	return &buffer{celulas: make(map[posicao]celula)}
}

func (b *buffer) escrever(p posicao, c celula) {
	if atual, ok := b.celulas[p]; ok && atual.prio > c.prio {
		return
	}
	b.celulas[p] = c
}

func compararPosicao(a, b posicao) int {
	if c := cmp.Compare(a.Z, b.Z); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Y, b.Y); c != 0 {
		return c
	}
	return cmp.Compare(a.X, b.X)
}

// esvaziar converte as células em voxels por dono, em ordem z, y, x,
// internalizando os perfis na sessão da paleta.
func (b *buffer) esvaziar(s *paleta.Sessao) map[dono][]Voxel {
	pos := make([]posicao, 0, len(b.celulas))
	for p := range b.celulas {
		pos = append(pos, p)
	}
	slices.SortFunc(pos, compararPosicao)
	res := make(map[dono][]Voxel)
	for _, p := range pos {
		c := b.celulas[p]
		res[c.dono] = append(res[c.dono], Voxel{X: p.X, Y: p.Y, Z: p.Z, Cor: s.Ref(c.perfil)})
	}
	b.celulas = nil
	return res
}
