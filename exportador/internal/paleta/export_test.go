package paleta

import "FortressVox/exportador/internal/material"

// contar soma n usos ao perfil sem passar por uma Sessao.
func (a *Alocador) contar(r Ref, n uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if int(r) < len(a.usos) {
		a.usos[r] += n
	}
}

func deltaE(a, b material.Perfil) float64 {
	return deltaE76(paraLab(a), paraLab(b))
}
