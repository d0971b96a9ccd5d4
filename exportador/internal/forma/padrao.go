package forma

import (
	"fmt"
	"strings"

	"FortressVox/exportador/internal/aleatorio"
)

// Resolução base dos desenhos. Qualquer Subdivisao é amostrada a partir dela.
const (
	baseH = 3
	baseV = 5
)

// padrao é um desenho 3×3×5 indexado [camada a partir do topo][linha norte→sul][coluna oeste→leste].
type padrao [baseV][baseH][baseH]bool

// desenho monta um padrao a partir de cinco camadas do topo para a base,
// cada uma com três linhas separadas por espaço: "#.# ... ###".
func desenho(camadas ...string) padrao {
	if len(camadas) != baseV {
		panic(fmt.Sprintf("forma: desenho com %d camadas", len(camadas)))
	}
	var p padrao
	for c, s := range camadas {
		linhas := strings.Fields(s)
		if len(linhas) != baseH {
			panic(fmt.Sprintf("forma: camada %q", s))
		}
		for y, l := range linhas {
			if len(l) != baseH {
				panic(fmt.Sprintf("forma: linha %q", l))
			}
			for x := range baseH {
				p[c][y][x] = l[x] == '#'
			}
		}
	}
	return p
}

const nada = "... ... ..."

// camadaBase converte o z de uma Subdivisao na camada do desenho (0 = topo).
func camadaBase(z int, s Subdivisao) int {
	return baseV - 1 - z*baseV/s.V
}

// amostrar converte o desenho para a subdivisão pelo vizinho mais próximo.
func (p *padrao) amostrar(s Subdivisao, papel Papel) Forma {
	var f Forma
	for z := 0; z < s.V; z++ {
		c := camadaBase(z, s)
		for y := 0; y < s.H; y++ {
			py := y * baseH / s.H
			for x := 0; x < s.H; x++ {
				if p[c][py][x*baseH/s.H] {
					f = append(f, Voxel{X: uint8(x), Y: uint8(y), Z: uint8(z), Papel: papel})
				}
			}
		}
	}
	return f
}

// salpicar sorteia voxels nas camadas base [topo, base] com chance num/den.
func salpicar(c *Contexto, topo, base, num, den int, papel Papel) Forma {
	var f Forma
	for z := 0; z < c.Sub.V; z++ {
		cb := camadaBase(z, c.Sub)
		if cb < topo || cb > base {
			continue
		}
		for y := 0; y < c.Sub.H; y++ {
			for x := 0; x < c.Sub.H; x++ {
				if aleatorio.Chance(c.Rand, num, den) {
					f = append(f, Voxel{X: uint8(x), Y: uint8(y), Z: uint8(z), Papel: papel})
				}
			}
		}
	}
	return f
}
