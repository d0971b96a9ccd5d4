package paleta

import (
	"math"

	"FortressVox/exportador/internal/material"
)

// lab é uma cor em CIE L*a*b* (D65).
type lab struct {
	L, A, B float64
}

func linear(c uint8) float64 {
	v := float64(c) / 255
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

func paraLab(p material.Perfil) lab {
	r, g, b := linear(p.R), linear(p.G), linear(p.B)
	x := (0.4124564*r + 0.3575761*g + 0.1804375*b) / 0.95047
	y := 0.2126729*r + 0.7151522*g + 0.0721750*b
	z := (0.0193339*r + 0.1191920*g + 0.9503041*b) / 1.08883
	f := func(t float64) float64 {
		if t > 216.0/24389.0 {
			return math.Cbrt(t)
		}
		return (24389.0/27.0*t + 16) / 116
	}
	fx, fy, fz := f(x), f(y), f(z)
	return lab{L: 116*fy - 16, A: 500 * (fx - fy), B: 200 * (fy - fz)}
}

// deltaE76 é a distância euclidiana em Lab.
func deltaE76(a, b lab) float64 {
	dl, da, db := a.L-b.L, a.A-b.A, a.B-b.B
	return math.Sqrt(dl*dl + da*da + db*db)
}

// comparar define a ordem canônica dos perfis: cor, alfa e depois o físico.
func comparar(a, b material.Perfil) int {
	ka := [...]uint8{a.R, a.G, a.B, a.A, uint8(a.Tipo), a.Transparencia, a.Metalico, a.Rugosidade, a.Emissao, a.Fluxo, a.IOR, uint8(a.Meio), a.Densidade}
	kb := [...]uint8{b.R, b.G, b.B, b.A, uint8(b.Tipo), b.Transparencia, b.Metalico, b.Rugosidade, b.Emissao, b.Fluxo, b.IOR, uint8(b.Meio), b.Densidade}
	for i := range ka {
		if ka[i] != kb[i] {
			if ka[i] < kb[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}
