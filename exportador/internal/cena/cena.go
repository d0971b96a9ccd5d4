// Package cena organiza a grade em objetos e grupos e corta os objetos
// grandes demais para um modelo .vox.
package cena

import (
	"cmp"
	"fmt"
	"slices"

	"FortressVox/exportador/internal/grade"
)

// Camada é uma camada do .vox, que pode ser ligada e desligada no editor.
type Camada struct {
	Nome   string
	Oculta bool
}

// CamadaConstrucoes vem depois das camadas de grade.Camada.
const CamadaConstrucoes = grade.NumCamadas

// Objeto é um conjunto de voxels com origem e camada próprias. Os voxels
// estão no espaço global; Min e Max formam a caixa do objeto.
type Objeto struct {
	Nome    string
	Camada  int
	Min     [3]int32
	Max     [3]int32
	Quartos int
	Voxels  []grade.Voxel

	// Pedacos é preenchido por Particionar.
	Pedacos []Pedaco
}

// Tamanho é a extensão da caixa em cada eixo.
func (o *Objeto) Tamanho() [3]int32 {
	return [3]int32{o.Max[0] - o.Min[0] + 1, o.Max[1] - o.Min[1] + 1, o.Max[2] - o.Min[2] + 1}
}

// Grupo é um nó de agrupamento da cena.
type Grupo struct {
	Nome    string
	Grupos  []*Grupo
	Objetos []*Objeto
}

// Cena é a árvore completa de uma exportação.
type Cena struct {
	Raiz    *Grupo
	Camadas []Camada
	Tamanho [3]int32
}

// Camadas lista as camadas fixas da cena: uma por grade.Camada e a das construções.
func Camadas() []Camada {
	res := make([]Camada, 0, grade.NumCamadas+1)
	for c := range grade.NumCamadas {
		cam := grade.Camada(c)
		res = append(res, Camada{Nome: cam.String(), Oculta: cam == grade.Ocultos})
	}
	return append(res, Camada{Nome: "construcoes"})
}

// Agrupar monta um grupo "nivel N" por z, com um objeto por camada não vazia
// e, abaixo do subgrupo "construcoes", um objeto por edifício.
func Agrupar(res grade.Resultado) *Cena {
	c := &Cena{Raiz: &Grupo{Nome: "mapa"}, Camadas: Camadas(), Tamanho: res.Tamanho}
	porZ := make(map[int32]*Grupo, len(res.Niveis))
	for _, n := range res.Niveis {
		g := &Grupo{Nome: fmt.Sprintf("nivel %d", n.Z)}
		for i, vs := range n.Camadas {
			if len(vs) == 0 {
				continue
			}
			o := &Objeto{Nome: grade.Camada(i).String(), Camada: i, Voxels: vs}
			o.Min, o.Max = caixa(vs)
			g.Objetos = append(g.Objetos, o)
		}
		porZ[n.Z] = g
		c.Raiz.Grupos = append(c.Raiz.Grupos, g)
	}

	cs := slices.Clone(res.Construcoes)
	slices.SortFunc(cs, func(a, b grade.Construcao) int { return cmp.Compare(a.ID, b.ID) })
	for _, con := range cs {
		g, ok := porZ[con.Z]
		if !ok {
			continue
		}
		sub := subgrupo(g, "construcoes")
		sub.Objetos = append(sub.Objetos, &Objeto{
			Nome:    nomeConstrucao(con),
			Camada:  CamadaConstrucoes,
			Min:     con.Min,
			Max:     con.Max,
			Quartos: con.Quartos,
			Voxels:  con.Voxels,
		})
	}
	return c
}

func subgrupo(g *Grupo, nome string) *Grupo {
	for _, s := range g.Grupos {
		if s.Nome == nome {
			return s
		}
	}
	s := &Grupo{Nome: nome}
	g.Grupos = append(g.Grupos, s)
	return s
}

func nomeConstrucao(c grade.Construcao) string {
	return fmt.Sprintf("%s %d", c.Tipo.Tipo, c.ID)
}

func caixa(vs []grade.Voxel) (lo, hi [3]int32) {
	lo = [3]int32{vs[0].X, vs[0].Y, vs[0].Z}
	hi = lo
	for _, v := range vs[1:] {
		lo = [3]int32{min(lo[0], v.X), min(lo[1], v.Y), min(lo[2], v.Z)}
		hi = [3]int32{max(hi[0], v.X), max(hi[1], v.Y), max(hi[2], v.Z)}
	}
	return lo, hi
}

// Percorrer visita os objetos em profundidade, na ordem de criação.
func (c *Cena) Percorrer(f func(caminho []*Grupo, o *Objeto)) {
	var andar func(g *Grupo, caminho []*Grupo)
	andar = func(g *Grupo, caminho []*Grupo) {
		caminho = append(caminho, g)
		for _, o := range g.Objetos {
			f(caminho, o)
		}
		for _, s := range g.Grupos {
			andar(s, caminho)
		}
	}
	andar(c.Raiz, nil)
}
