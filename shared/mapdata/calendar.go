package mapdata

import (
	"fmt"
	"strings"
)

// Calendário do DF: 12 meses de 28 dias, 1200 ticks por dia.
const (
	TicksPorAno = 403200
	TicksPorMes = TicksPorAno / 12
)

type Estacao uint8

const (
	Primavera Estacao = iota
	Verao
	Outono
	Inverno
)

var nomesEstacao = [...]string{"primavera", "verao", "outono", "inverno"}

func (e Estacao) String() string {
	if int(e) < len(nomesEstacao) {
		return nomesEstacao[e]
	}
	return fmt.Sprintf("Estacao(%d)", e)
}

// EstacaoDoTick converte cur_year_tick na estação. Cada estação tem três meses.
func EstacaoDoTick(tick int32) Estacao {
	if tick < 0 {
		tick = 0
	}
	mes := (tick % TicksPorAno) / TicksPorMes
	return Estacao(mes / 3)
}

// TickDaEstacao devolve o tick do meio da estação, usado quando a estação é
// forçada e o tick do jogo não vale.
func TickDaEstacao(e Estacao) int32 {
	return int32(e%4)*3*TicksPorMes + 3*TicksPorMes/2
}

// ParseEstacao aceita o nome em português (com ou sem acento) ou em inglês.
func ParseEstacao(s string) (Estacao, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "primavera", "spring":
		return Primavera, nil
	case "verao", "verão", "summer":
		return Verao, nil
	case "outono", "autumn", "fall":
		return Outono, nil
	case "inverno", "winter":
		return Inverno, nil
	}
	return 0, fmt.Errorf("estação desconhecida: %q", s)
}
