// Package aviso coleta problemas de dados que não interrompem a exportação.
package aviso

import (
	"fmt"
	"sort"
	"sync"

	"FortressVox/shared/logger"
	"FortressVox/shared/util"
)

var log = logger.Com("aviso")

type Tipo uint8

const (
	TileDesconhecido Tipo = iota
	MaterialDesconhecido
	EdificioInvalido
	FluxoInvalido
)

var nomesTipo = [...]string{
	TileDesconhecido:     "tile desconhecido",
	MaterialDesconhecido: "material desconhecido",
	EdificioInvalido:     "edifício inválido",
	FluxoInvalido:        "fluxo inválido",
}

func (t Tipo) String() string {
	if int(t) < len(nomesTipo) {
		return nomesTipo[t]
	}
	return fmt.Sprintf("Tipo(%d)", t)
}

// Aviso é um problema localizado.
type Aviso struct {
	Tipo     Tipo
	Posicao  util.DFCoord
	Mensagem string
}

func (a Aviso) String() string {
	return fmt.Sprintf("%s em %v: %s", a.Tipo, a.Posicao, a.Mensagem)
}

// limitePorTipo evita que um mapa corrompido gere milhões de avisos.
const limitePorTipo = 1000

// Coletor acumula avisos de vários workers.
type Coletor struct {
	mu         sync.Mutex
	avisos     []Aviso
	contagem   map[Tipo]int
	descartado int
}

func NovoColetor() *Coletor {
	return &Coletor{contagem: make(map[Tipo]int)}
}

// Registrar adiciona um aviso. Além do limite por tipo, só a contagem cresce.
func (c *Coletor) Registrar(tipo Tipo, pos util.DFCoord, formato string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.contagem[tipo]++
	if c.contagem[tipo] > limitePorTipo {
		c.descartado++
		return
	}
	a := Aviso{Tipo: tipo, Posicao: pos, Mensagem: fmt.Sprintf(formato, args...)}
	c.avisos = append(c.avisos, a)
	// só o primeiro de cada tipo vai para o log; o resto fica no relatório
	if c.contagem[tipo] == 1 {
		log.WithField("tipo", tipo.String()).WithField("pos", pos).Warn(a.Mensagem)
	}
}

// Avisos retorna os avisos guardados em ordem determinística (z, y, x, tipo, mensagem).
func (c *Coletor) Avisos() []Aviso {
	c.mu.Lock()
	defer c.mu.Unlock()
	res := append([]Aviso(nil), c.avisos...)
	sort.SliceStable(res, func(i, j int) bool {
		a, b := res[i], res[j]
		if a.Posicao.Z != b.Posicao.Z {
			return a.Posicao.Z < b.Posicao.Z
		}
		if a.Posicao.Y != b.Posicao.Y {
			return a.Posicao.Y < b.Posicao.Y
		}
		if a.Posicao.X != b.Posicao.X {
			return a.Posicao.X < b.Posicao.X
		}
		if a.Tipo != b.Tipo {
			return a.Tipo < b.Tipo
		}
		return a.Mensagem < b.Mensagem
	})
	return res
}

// Contagem retorna o total por tipo, incluindo os descartados.
func (c *Coletor) Contagem() map[Tipo]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	res := make(map[Tipo]int, len(c.contagem))
	for k, v := range c.contagem {
		res[k] = v
	}
	return res
}

// Total retorna quantos avisos foram registrados.
func (c *Coletor) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.avisos) + c.descartado
}
