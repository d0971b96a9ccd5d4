package mapdata

import (
	"fmt"
	"sort"

	"FortressVox/shared/pkg/dfproto"
	"FortressVox/shared/util"
)

// DefinicaoMaterial é o que o DFHack informa sobre um material.
type DefinicaoMaterial struct {
	Par   dfproto.MatPair
	Token string // ex: "INORGANIC:GRANITE"
	Nome  string
	R     uint8
	G     uint8
	B     uint8
}

// Materiais é o catálogo de materiais do mundo, indexado pelo par.
type Materiais struct {
	defs map[dfproto.MatPair]DefinicaoMaterial
}

func NovoMateriais(defs []DefinicaoMaterial) *Materiais {
	m := &Materiais{defs: make(map[dfproto.MatPair]DefinicaoMaterial, len(defs))}
	for _, d := range defs {
		m.defs[d.Par] = d
	}
	return m
}

// MateriaisDeLista converte a resposta de GetMaterialList.
// Os nomes chegam em CP437.
func MateriaisDeLista(list *dfproto.MaterialList) *Materiais {
	defs := make([]DefinicaoMaterial, 0, len(list.MaterialList))
	for _, mat := range list.MaterialList {
		defs = append(defs, DefinicaoMaterial{
			Par:   mat.MatPair,
			Token: mat.ID,
			Nome:  util.DecodificarCP437(mat.Name),
			R:     uint8(util.Clamp(mat.StateColor.Red, 0, 255)),
			G:     uint8(util.Clamp(mat.StateColor.Green, 0, 255)),
			B:     uint8(util.Clamp(mat.StateColor.Blue, 0, 255)),
		})
	}
	return NovoMateriais(defs)
}

// Buscar retorna a definição de um material.
func (m *Materiais) Buscar(par dfproto.MatPair) (DefinicaoMaterial, bool) {
	if m == nil {
		return DefinicaoMaterial{}, false
	}
	d, ok := m.defs[par]
	return d, ok
}

// Nome retorna o nome legível do material ou seu token como fallback.
func (m *Materiais) Nome(par dfproto.MatPair) string {
	if d, ok := m.Buscar(par); ok {
		if d.Nome != "" {
			return d.Nome
		}
		if d.Token != "" {
			return d.Token
		}
	}
	return fmt.Sprintf("desconhecido (%d:%d)", par.MatType, par.MatIndex)
}

// Todos retorna as definições ordenadas pelo par.
func (m *Materiais) Todos() []DefinicaoMaterial {
	if m == nil {
		return nil
	}
	res := make([]DefinicaoMaterial, 0, len(m.defs))
	for _, d := range m.defs {
		res = append(res, d)
	}
	sort.Slice(res, func(i, j int) bool {
		a, b := res[i].Par, res[j].Par
		if a.MatType != b.MatType {
			return a.MatType < b.MatType
		}
		return a.MatIndex < b.MatIndex
	})
	return res
}

func (m *Materiais) Len() int {
	if m == nil {
		return 0
	}
	return len(m.defs)
}
