// Package material decide a cor e as propriedades físicas de cada voxel.
package material

import (
	"fmt"
	"math"
)

// Tipo é o _type do MATL no .vox.
type Tipo uint8

const (
	Difuso Tipo = iota
	Vidro
	Metal
	Emissivo
	Mistura
)

var nomesTipo = [...]string{"_diffuse", "_glass", "_metal", "_emit", "_blend"}

func (t Tipo) String() string {
	if int(t) < len(nomesTipo) {
		return nomesTipo[t]
	}
	return fmt.Sprintf("Tipo(%d)", t)
}

// ParseTipo aceita os nomes usados nas regras YAML.
func ParseTipo(s string) (Tipo, error) {
	switch s {
	case "", "difuso", "diffuse":
		return Difuso, nil
	case "vidro", "glass":
		return Vidro, nil
	case "metal":
		return Metal, nil
	case "emissivo", "emit":
		return Emissivo, nil
	case "mistura", "blend":
		return Mistura, nil
	}
	return 0, fmt.Errorf("tipo de material desconhecido: %q", s)
}

// Meio é o _media do MATL: como o volume transparente espalha a luz.
type Meio uint8

const (
	SemMeio Meio = iota
	Absorcao
	Dispersao
	MeioEmissivo
)

var nomesMeio = [...]string{"", "_absorb", "_scatter", "_emit"}

func (m Meio) String() string {
	if int(m) < len(nomesMeio) {
		return nomesMeio[m]
	}
	return fmt.Sprintf("Meio(%d)", m)
}

func ParseMeio(s string) (Meio, error) {
	switch s {
	case "":
		return SemMeio, nil
	case "absorcao", "absorb":
		return Absorcao, nil
	case "dispersao", "scatter":
		return Dispersao, nil
	case "emissivo", "emit":
		return MeioEmissivo, nil
	}
	return 0, fmt.Errorf("meio desconhecido: %q", s)
}

// Perfil é a entrada de paleta antes de receber um índice. Todos os campos
// são inteiros para que a igualdade seja exata e o valor sirva de chave.
// Percentuais vão de 0 a 100; Fluxo de 0 a 4.
type Perfil struct {
	R, G, B, A uint8

	Tipo          Tipo
	Transparencia uint8
	Metalico      uint8
	Rugosidade    uint8
	Emissao       uint8
	Fluxo         uint8
	IOR           uint8
	Meio          Meio
	Densidade     uint8
}

// MesmoFisico compara tudo menos a cor.
func (p Perfil) MesmoFisico(o Perfil) bool {
	p.R, p.G, p.B = o.R, o.G, o.B
	return p == o
}

// Transparente indica perfis pelos quais se enxerga o que há atrás.
func (p Perfil) Transparente() bool {
	return p.Tipo == Vidro && p.Transparencia > 0
}

func (p Perfil) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x %s", p.R, p.G, p.B, p.A, p.Tipo)
}

func paraLinear(c uint8) float64 {
	v := float64(c) / 255
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

func paraSRGB(v float64) uint8 {
	if v <= 0.0031308 {
		v *= 12.92
	} else {
		v = 1.055*math.Pow(v, 1/2.4) - 0.055
	}
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// escurecer multiplica a luminância linear por fator.
func (p Perfil) escurecer(fator float64) Perfil {
	p.R = paraSRGB(paraLinear(p.R) * fator)
	p.G = paraSRGB(paraLinear(p.G) * fator)
	p.B = paraSRGB(paraLinear(p.B) * fator)
	return p
}

// misturar aproxima a cor de (r, g, b) na proporção t.
func (p Perfil) misturar(r, g, b uint8, t float64) Perfil {
	mix := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a)*(1-t) + float64(b)*t))
	}
	p.R, p.G, p.B = mix(p.R, r), mix(p.G, g), mix(p.B, b)
	return p
}

// dessaturar puxa a cor para o cinza de mesma luminância.
func (p Perfil) dessaturar(t float64) Perfil {
	l := uint8(math.Round(0.299*float64(p.R) + 0.587*float64(p.G) + 0.114*float64(p.B)))
	return p.misturar(l, l, l, t)
}

// clarearMinimo evita cores quase pretas, que somem no render.
func (p Perfil) clarearMinimo(minimo uint8) Perfil {
	maior := max(p.R, p.G, p.B)
	if maior >= minimo {
		return p
	}
	d := minimo - maior
	p.R += d
	p.G += d
	p.B += d
	return p
}

func rgb(r, g, b uint8) Perfil {
	return Perfil{R: r, G: g, B: b, A: 255}
}
