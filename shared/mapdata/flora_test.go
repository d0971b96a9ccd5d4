package mapdata

import (
	"slices"
	"testing"

	"FortressVox/shared/pkg/dfproto"
	"FortressVox/shared/util"
)

func floraDeTeste() *Flora {
	fruta := dfproto.MatPair{MatType: 421, MatIndex: 0}
	folha := dfproto.MatPair{MatType: 420, MatIndex: 0}
	return FloraDeLista(&dfproto.PlantRawList{PlantRaws: []dfproto.PlantRaw{{
		ID: "MACIEIRA",
		Growths: []dfproto.TreeGrowth{
			{
				ID: "FOLHAS", Mat: folha, TimingStart: -1, TimingEnd: -1,
				LightBranches: true, Twigs: true,
				Prints: []dfproto.GrowthPrint{
					{Color: 2, TimingStart: -1, TimingEnd: 200000},
					{Color: 6, TimingStart: 200001, TimingEnd: -1},
				},
			},
			{
				ID: "FRUTA", Mat: fruta, TimingStart: 100000, TimingEnd: 250000, Twigs: true,
				Prints: []dfproto.GrowthPrint{{Color: 4, TimingStart: -1, TimingEnd: -1}},
			},
		},
	}}}, 0)
}

func TestBrotos(t *testing.T) {
	f := floraDeTeste()
	fruta := Broto{Material: dfproto.MatPair{MatType: 421}, Tom: -1}
	verde := Broto{Material: dfproto.MatPair{MatType: 420}, Tom: -1}
	seca := Broto{Material: dfproto.MatPair{MatType: 420}, Tom: 6}
	tests := []struct {
		nome   string
		planta int32
		parte  PartePlanta
		tick   int32
		want   []Broto
	}{
		{"graveto no inverno", 0, ParteGraveto, 50000, []Broto{verde}},
		{"graveto com fruta", 0, ParteGraveto, 150000, []Broto{verde, fruta}},
		{"folha seca", 0, ParteGalhoLeve | ParteGalhoPesado, 220000, []Broto{seca}},
		{"arbusto aceita tudo", 0, ParteArbusto, 150000, []Broto{verde, fruta}},
		{"tronco sem crescimento", 0, ParteTronco, 150000, nil},
		{"parte nenhuma", 0, 0, 150000, nil},
		{"planta fora da lista", 3, ParteGraveto, 150000, nil},
		{"índice negativo", -1, ParteGraveto, 150000, nil},
	}
	for _, tt := range tests {
		t.Run(tt.nome, func(t *testing.T) {
			if got := f.Brotos(tt.planta, tt.parte, tt.tick); !slices.Equal(got, tt.want) {
				t.Errorf("Brotos(%d, %v, %d) = %v, want %v", tt.planta, tt.parte, tt.tick, got, tt.want)
			}
		})
	}
	var nada *Flora
	if got := nada.Brotos(0, ParteGraveto, 0); got != nil {
		t.Errorf("(*Flora)(nil).Brotos() = %v, want nil", got)
	}
}

func TestParteDoTipo(t *testing.T) {
	tests := []struct {
		tipo TipoTile
		want PartePlanta
	}{
		{TipoTronco, ParteTronco},
		{TipoGalho, ParteGalhoLeve | ParteGalhoPesado},
		{TipoGraveto, ParteGraveto},
		{TipoMuda, ParteMuda},
		{TipoArbusto, ParteArbusto},
		{TipoParede, 0},
	}
	for _, tt := range tests {
		if got := ParteDoTipo(tt.tipo); got != tt.want {
			t.Errorf("ParteDoTipo(%v) = %v, want %v", tt.tipo, got, tt.want)
		}
	}
}

func TestMarcarGravuras(t *testing.T) {
	n := NovoNivel(4, util.Caixa{Min: util.NewDFCoord(0, 0, 4), Max: util.NewDFCoord(3, 3, 4)})
	gs := []dfproto.Engraving{
		{Pos: dfproto.Coord{X: 1, Y: 1, Z: 4}},
		{Pos: dfproto.Coord{X: 1, Y: 1, Z: 4}, IsFloor: true},
		{Pos: dfproto.Coord{X: 2, Y: 1, Z: 4}, Hidden: true},
		{Pos: dfproto.Coord{X: 3, Y: 1, Z: 5}},
		{Pos: dfproto.Coord{X: 40, Y: 1, Z: 4}},
	}
	if got := n.MarcarGravuras(gs); got != 1 {
		t.Errorf("MarcarGravuras() = %d, want 1", got)
	}
	for x := range int32(4) {
		if got, want := n.Tile(x, 1).Gravado, x == 1; got != want {
			t.Errorf("tile (%d,1).Gravado = %v, want %v", x, got, want)
		}
	}
}

func TestCorConsole(t *testing.T) {
	tests := []struct {
		i     int32
		token string
		ok    bool
	}{
		{0, "BLACK", true},
		{2, "GREEN", true},
		{6, "BROWN", true},
		{15, "WHITE", true},
		{16, "", false},
		{-1, "", false},
	}
	for _, tt := range tests {
		c, ok := CorConsole(tt.i)
		if ok != tt.ok || c.Token != tt.token {
			t.Errorf("CorConsole(%d) = %q, %v, want %q, %v", tt.i, c.Token, ok, tt.token, tt.ok)
		}
	}
}
