// Package paleta reduz os perfis de material de uma exportação às 255
// entradas que um arquivo .vox comporta.
package paleta

import (
	"slices"
	"sync"

	"FortressVox/exportador/internal/material"
)

// Capacidade é o número de entradas utilizáveis; o índice 0 é o vazio.
const Capacidade = 255

// Ref é o identificador estável de um perfil dentro de um Alocador.
type Ref uint32

// Entrada é uma linha da paleta final.
type Entrada struct {
	Indice uint8
	Perfil material.Perfil
	Usos   uint64
}

// Alocador é a paleta de uma exportação. Não é global: cada execução cria o
// seu e o passa adiante.
type Alocador struct {
	mu         sync.Mutex
	perfis     []material.Perfil
	usos       []uint64
	refs       map[material.Perfil]Ref
	tolerancia float64
	capacidade int

	finalizado bool
	indices    []uint8
	tabela     []Entrada
}

// NovoAlocador cria uma paleta. Perfis a menos de tolerancia (ΔE CIE76) e
// com o mesmo físico são fundidos; capacidade fora de 1..255 vira 255.
func NovoAlocador(tolerancia float64, capacidade int) *Alocador {
	if capacidade <= 0 || capacidade > Capacidade {
		capacidade = Capacidade
	}
	return &Alocador{
		refs:       make(map[material.Perfil]Ref),
		tolerancia: max(0, tolerancia),
		capacidade: capacidade,
	}
}

// Internalizar devolve o identificador do perfil, criando-o na primeira vez.
// Depois de Finalizar, perfis novos resolvem para o índice 0.
func (a *Alocador) Internalizar(p material.Perfil) Ref {
	a.mu.Lock()
	defer a.mu.Unlock()
	if r, ok := a.refs[p]; ok {
		return r
	}
	r := Ref(len(a.perfis))
	a.refs[p] = r
	a.perfis = append(a.perfis, p)
	a.usos = append(a.usos, 0)
	return r
}

// Perfil devolve o perfil original de um identificador.
func (a *Alocador) Perfil(r Ref) (material.Perfil, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if int(r) >= len(a.perfis) {
		return material.Perfil{}, false
	}
	return a.perfis[r], true
}

// Len é o número de perfis distintos internalizados.
func (a *Alocador) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.perfis)
}

// Finalizar monta a tabela final:
//  1. perfis com o mesmo físico e ΔE até a tolerância se fundem no de menor chave;
//  2. enquanto houver mais que a capacidade, o menos usado (empate: maior chave)
//     é absorvido pelo vizinho de menor ΔE (empate: menor chave);
//  3. os sobreviventes recebem índices 1..n na ordem canônica.
//
// Chamadas seguintes devolvem a mesma tabela.
func (a *Alocador) Finalizar() []Entrada {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.finalizado {
		return slices.Clone(a.tabela)
	}
	a.finalizado = true

	n := len(a.perfis)
	ordem := make([]int, n)
	for i := range ordem {
		ordem[i] = i
	}
	slices.SortFunc(ordem, func(i, j int) int { return comparar(a.perfis[i], a.perfis[j]) })

	labs := make([]lab, n)
	for i, p := range a.perfis {
		labs[i] = paraLab(p)
	}
	pai := make([]int, n)
	usos := slices.Clone(a.usos)
	for i := range pai {
		pai[i] = i
	}

	// 1. fusão perceptual
	vivos := make([]int, 0, n)
	for _, i := range ordem {
		melhor, dist := -1, 0.0
		for _, j := range vivos {
			if !a.perfis[i].MesmoFisico(a.perfis[j]) {
				continue
			}
			d := deltaE76(labs[i], labs[j])
			if d <= a.tolerancia && (melhor < 0 || d < dist) {
				melhor, dist = j, d
			}
		}
		if melhor >= 0 {
			pai[i] = melhor
			usos[melhor] += usos[i]
			continue
		}
		vivos = append(vivos, i)
	}

	// 2. despejo por uso
	for len(vivos) > a.capacidade {
		pos := 0
		for k := 1; k < len(vivos); k++ {
			// vivos está em ordem canônica: <= fica com a maior chave no empate
			if usos[vivos[k]] <= usos[vivos[pos]] {
				pos = k
			}
		}
		vitima := vivos[pos]
		vivos = slices.Delete(vivos, pos, pos+1)
		destino, dist := -1, 0.0
		for _, j := range vivos {
			d := deltaE76(labs[vitima], labs[j])
			if destino < 0 || d < dist {
				destino, dist = j, d
			}
		}
		pai[vitima] = destino
		usos[destino] += usos[vitima]
	}

	// 3. índices
	a.indices = make([]uint8, n)
	a.tabela = make([]Entrada, 0, len(vivos))
	for k, i := range vivos {
		idx := uint8(k + 1)
		a.indices[i] = idx
		a.tabela = append(a.tabela, Entrada{Indice: idx, Perfil: a.perfis[i], Usos: usos[i]})
	}
	for i := range a.indices {
		r := i
		for pai[r] != r {
			r = pai[r]
		}
		a.indices[i] = a.indices[r]
	}
	return slices.Clone(a.tabela)
}

// Indice resolve um identificador depois de Finalizar. Antes disso, ou para
// identificadores desconhecidos, devolve 0.
func (a *Alocador) Indice(r Ref) uint8 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.finalizado || int(r) >= len(a.indices) {
		return 0
	}
	return a.indices[r]
}

// Sessao é o cache de um worker: evita o lock a cada voxel e acumula os usos
// até Fechar.
type Sessao struct {
	a     *Alocador
	cache map[material.Perfil]Ref
	usos  map[Ref]uint64
}

func (a *Alocador) NovaSessao() *Sessao {
	return &Sessao{a: a, cache: make(map[material.Perfil]Ref), usos: make(map[Ref]uint64)}
}

// Ref internaliza o perfil e conta um uso.
func (s *Sessao) Ref(p material.Perfil) Ref {
	r, ok := s.cache[p]
	if !ok {
		r = s.a.Internalizar(p)
		s.cache[p] = r
	}
	s.usos[r]++
	return r
}

// Fechar repassa os usos acumulados ao alocador numa única seção crítica.
func (s *Sessao) Fechar() {
	if len(s.usos) == 0 {
		return
	}
	refs := make([]Ref, 0, len(s.usos))
	for r := range s.usos {
		refs = append(refs, r)
	}
	slices.Sort(refs)
	s.a.mu.Lock()
	for _, r := range refs {
		if int(r) < len(s.a.usos) {
			s.a.usos[r] += s.usos[r]
		}
	}
	s.a.mu.Unlock()
	clear(s.usos)
}
