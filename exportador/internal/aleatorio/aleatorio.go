// Package aleatorio gera fontes pseudoaleatórias estáveis por tile.
package aleatorio

import (
	"math/rand/v2"

	"FortressVox/shared/util"
)

// Canal separa usos independentes do mesmo tile.
type Canal uint64

const (
	CanalForma Canal = iota + 1
	CanalCor
	CanalRespingo
	CanalFluxo
	CanalLiquido
)

func splitmix(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// ParaTile devolve um gerador que depende só da semente, da posição e do canal.
func ParaTile(semente uint64, pos util.DFCoord, canal Canal) *rand.Rand {
	h := splitmix(semente)
	h = splitmix(h ^ uint64(uint32(pos.X)))
	h = splitmix(h ^ uint64(uint32(pos.Y)))
	h = splitmix(h ^ uint64(uint32(pos.Z)))
	h = splitmix(h ^ uint64(canal))
	return rand.New(rand.NewPCG(h, splitmix(h)))
}

// Chance retorna true com probabilidade num/den.
func Chance(r *rand.Rand, num, den int) bool {
	if den <= 0 || num <= 0 {
		return false
	}
	if num >= den {
		return true
	}
	return r.IntN(den) < num
}

// Probabilidade retorna true com probabilidade p.
func Probabilidade(r *rand.Rand, p float64) bool {
	if p <= 0 {
		return false
	}
	return r.Float64() < p
}
