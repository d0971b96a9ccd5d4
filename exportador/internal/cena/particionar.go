package cena

import (
	"FortressVox/exportador/internal/grade"
	"FortressVox/shared/util"
)

// LimitePadrao é o maior lado de um modelo .vox.
const LimitePadrao = 256

// Pedaco é um modelo folha: uma fatia da caixa do objeto com os voxels que
// caem nela, ainda em coordenadas globais.
type Pedaco struct {
	Min, Max [3]int32
	Voxels   []grade.Voxel
}

func (p Pedaco) Tamanho() [3]int32 {
	return [3]int32{p.Max[0] - p.Min[0] + 1, p.Max[1] - p.Min[1] + 1, p.Max[2] - p.Min[2] + 1}
}

// Particionar corta todos os objetos da cena.
func (c *Cena) Particionar(limite int) {
	c.Percorrer(func(_ []*Grupo, o *Objeto) {
		o.Pedacos = Particionar(o, limite)
	})
}

// Particionar divide o objeto enquanto algum eixo passar do limite: o eixo
// mais longo entre os excedentes é fatiado em partes iguais e cada parte é
// dividida de novo. Fatias sem voxels são descartadas. Limite fora de
// 1..256 vira 256.
func Particionar(o *Objeto, limite int) []Pedaco {
	if limite <= 0 || limite > LimitePadrao {
		limite = LimitePadrao
	}
	if len(o.Voxels) == 0 {
		return nil
	}
	return dividir(o.Min, o.Max, o.Voxels, int32(limite))
}

func coordenada(v grade.Voxel, eixo int) int32 {
	switch eixo {
	case 0:
		return v.X
	case 1:
		return v.Y
	}
	return v.Z
}

func dividir(lo, hi [3]int32, vs []grade.Voxel, limite int32) []Pedaco {
	if len(vs) == 0 {
		return nil
	}
	eixo, maior := -1, limite
	for i := range 3 {
		if t := hi[i] - lo[i] + 1; t > maior {
			eixo, maior = i, t
		}
	}
	if eixo < 0 {
		return []Pedaco{{Min: lo, Max: hi, Voxels: vs}}
	}

	n := util.CeilDiv(maior, limite)
	passo := util.CeilDiv(maior, n)
	partes := make([][]grade.Voxel, n)
	for _, v := range vs {
		k := (coordenada(v, eixo) - lo[eixo]) / passo
		partes[k] = append(partes[k], v)
	}
	var res []Pedaco
	for k := range partes {
		a, b := lo, hi
		a[eixo] = lo[eixo] + int32(k)*passo
		b[eixo] = min(a[eixo]+passo-1, hi[eixo])
		res = append(res, dividir(a, b, partes[k], limite)...)
	}
	return res
}
