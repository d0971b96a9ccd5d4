package aleatorio

import (
	"testing"

	"FortressVox/shared/util"
)

func TestParaTileEstavel(t *testing.T) {
	p := util.NewDFCoord(10, -3, 42)
	a := ParaTile(99, p, CanalForma)
	b := ParaTile(99, p, CanalForma)
	for i := 0; i < 20; i++ {
		if x, y := a.Uint64(), b.Uint64(); x != y {
			t.Fatalf("sorteio %d: %d != %d para a mesma semente e posição", i, x, y)
		}
	}
}

func TestParaTileIndependente(t *testing.T) {
	p := util.NewDFCoord(1, 2, 3)
	base := ParaTile(1, p, CanalForma).Uint64()
	outros := map[string]uint64{
		"semente": ParaTile(2, p, CanalForma).Uint64(),
		"posicao": ParaTile(1, util.NewDFCoord(2, 1, 3), CanalForma).Uint64(),
		"canal":   ParaTile(1, p, CanalCor).Uint64(),
	}
	for nome, v := range outros {
		if v == base {
			t.Errorf("mudar %s não mudou o sorteio", nome)
		}
	}
}

func TestChance(t *testing.T) {
	r := ParaTile(0, util.DFCoord{}, CanalFluxo)
	tests := []struct {
		num, den int
		want     bool
	}{
		{0, 10, false},
		{10, 10, true},
		{20, 10, true},
		{1, 0, false},
	}
	for _, tt := range tests {
		if got := Chance(r, tt.num, tt.den); got != tt.want {
			t.Errorf("Chance(%d, %d) = %v, want %v", tt.num, tt.den, got, tt.want)
		}
	}
	n := 0
	for i := 0; i < 10000; i++ {
		if Chance(r, 1, 4) {
			n++
		}
	}
	if n < 2200 || n > 2800 {
		t.Errorf("Chance(1, 4) em 10000 sorteios = %d, want perto de 2500", n)
	}
}

func TestProbabilidade(t *testing.T) {
	r := ParaTile(0, util.DFCoord{}, CanalRespingo)
	if Probabilidade(r, 0) || Probabilidade(r, -1) {
		t.Errorf("Probabilidade(<= 0) = true, want false")
	}
	if !Probabilidade(r, 1) {
		t.Errorf("Probabilidade(1) = false, want true")
	}
}
