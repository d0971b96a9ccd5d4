package forma

import (
	"math/rand/v2"
	"slices"
	"testing"

	"FortressVox/shared/mapdata"
	"FortressVox/shared/pkg/dfproto"
	"FortressVox/shared/util"
)

func contexto(tipo mapdata.TipoTile) Contexto {
	return Contexto{
		Tile: &mapdata.Tile{Tipo: tipo, Categoria: dfproto.TilematStone},
		Sub:  SubdivisaoPadrao,
		Rand: rand.New(rand.NewPCG(1, 2)),
	}
}

func TestResolvedorParaCadaTipo(t *testing.T) {
	for i := 0; i < mapdata.NumTiposTile; i++ {
		if resolvedores[i] == nil {
			t.Errorf("tipo %v sem resolvedor", mapdata.TipoTile(i))
		}
	}
}

func TestFormasVazias(t *testing.T) {
	for _, tipo := range []mapdata.TipoTile{mapdata.TipoVazio, mapdata.TipoTopoRampa, mapdata.TipoDesconhecido} {
		c := contexto(tipo)
		if f := Resolver(c); len(f) != 0 {
			t.Errorf("Resolver(%v) = %d voxels, want 0", tipo, len(f))
		}
	}
	c := contexto(mapdata.TipoVazio)
	c.Tile.Oculto = true
	if f := Resolver(c); len(f) != 0 {
		t.Errorf("Resolver(vazio oculto) = %d voxels, want 0", len(f))
	}
}

func TestParede(t *testing.T) {
	c := contexto(mapdata.TipoParede)
	f := Resolver(c)
	if len(f) != 45 {
		t.Fatalf("parede isolada = %d voxels, want 45", len(f))
	}
	if n := f.contar(); n[Rugoso] != 45 {
		t.Errorf("parede isolada papéis = %v, want 45 rugosos", n)
	}

	c.Vizinhos[util.Leste] = mapdata.TipoParede
	// a coluna central e a do meio da borda leste, fora do topo e da base
	if n := Resolver(c).contar(); n[Interior] != 6 {
		t.Errorf("parede com vizinha a leste papéis = %v, want 6 interiores", n)
	}

	for d := range c.Vizinhos {
		c.Vizinhos[d] = mapdata.TipoParede
	}
	c.Acima, c.Abaixo = mapdata.TipoParede, mapdata.TipoParede
	if n := Resolver(c).contar(); n[Interior] != 45 {
		t.Errorf("parede cercada papéis = %v, want 45 interiores", n)
	}

	c.Vizinhos[util.Noroeste] = mapdata.TipoVazio
	if n := Resolver(c).contar(); n[Interior] != 40 {
		t.Errorf("parede sem diagonal NW papéis = %v, want 40 interiores", n)
	}
}

func TestParedeLisa(t *testing.T) {
	c := contexto(mapdata.TipoParede)
	c.Tile.Especial = dfproto.SpecialSmooth
	if n := Resolver(c).contar(); n[Liso] != 45 {
		t.Errorf("parede lisa papéis = %v, want 45 lisos", n)
	}
}

func TestOculto(t *testing.T) {
	c := contexto(mapdata.TipoPiso)
	c.Tile.Oculto = true
	f := Resolver(c)
	if n := f.contar(); len(f) != 45 || n[Oculto] != 45 {
		t.Errorf("piso oculto = %v, want 45 ocultos", n)
	}
}

func TestPisoSubdivisao(t *testing.T) {
	tests := []struct {
		sub  Subdivisao
		want int
	}{
		{Subdivisao{H: 3, V: 5}, 9},
		{Subdivisao{H: 6, V: 10}, 72},
		{Subdivisao{H: 1, V: 1}, 1},
		{Subdivisao{H: 4, V: 3}, 16},
	}
	for _, tt := range tests {
		c := contexto(mapdata.TipoPiso)
		c.Sub = tt.sub
		f := Resolver(c)
		if len(f) != tt.want {
			t.Errorf("piso em %v = %d voxels, want %d", tt.sub, len(f), tt.want)
		}
		for _, v := range f {
			if int(v.X) >= tt.sub.H || int(v.Y) >= tt.sub.H || int(v.Z) >= tt.sub.V {
				t.Errorf("piso em %v: voxel %v fora da subdivisão", tt.sub, v)
			}
		}
	}
}

func TestDirecaoRampa(t *testing.T) {
	P, V := mapdata.TipoParede, mapdata.TipoVazio
	tests := []struct {
		nome     string
		vizinhos [8]mapdata.TipoTile
		want     util.Direcao
	}{
		{"nenhuma", [8]mapdata.TipoTile{}, util.Nenhuma},
		{"sul", [8]mapdata.TipoTile{V, V, P, V, V, V, V, V}, util.Sul},
		{"cardeal antes da diagonal", [8]mapdata.TipoTile{V, V, V, P, P, V, V, V}, util.Oeste},
		{"leste antes de sul", [8]mapdata.TipoTile{V, P, P, V, V, V, V, V}, util.Leste},
		{"diagonal", [8]mapdata.TipoTile{V, V, V, V, V, P, P, V}, util.Sudeste},
		{"fortificação conta", [8]mapdata.TipoTile{mapdata.TipoFortificacao, V, V, V, V, V, V, V}, util.Norte},
	}
	for _, tt := range tests {
		if got := DirecaoRampa(tt.vizinhos); got != tt.want {
			t.Errorf("DirecaoRampa(%s) = %v, want %v", tt.nome, got, tt.want)
		}
	}
}

func TestRampa(t *testing.T) {
	c := contexto(mapdata.TipoRampa)
	if f := Resolver(c); len(f) != 9 {
		t.Errorf("rampa sem parede = %d voxels, want 9", len(f))
	}

	c.Vizinhos[util.Norte] = mapdata.TipoParede
	alturas := map[[2]uint8]int{}
	for _, v := range Resolver(c) {
		alturas[[2]uint8{v.X, v.Y}]++
	}
	for x := uint8(0); x < 3; x++ {
		for y, want := range []int{5, 3, 1} {
			if got := alturas[[2]uint8{x, uint8(y)}]; got != want {
				t.Errorf("rampa norte altura(%d,%d) = %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestEscada(t *testing.T) {
	tests := []struct {
		tipo mapdata.TipoTile
		want int
	}{
		{mapdata.TipoEscadaSobe, 21},
		{mapdata.TipoEscadaDesce, 3},
		{mapdata.TipoEscadaSobeDesce, 15},
	}
	for _, tt := range tests {
		c := contexto(tt.tipo)
		if f := Resolver(c); len(f) != tt.want {
			t.Errorf("Resolver(%v) = %d voxels, want %d", tt.tipo, len(f), tt.want)
		}
	}

	c0 := contexto(mapdata.TipoEscadaSobe)
	c1 := contexto(mapdata.TipoEscadaSobe)
	c1.Tile.Pos.Z = 1
	f0, f1 := Resolver(c0), Resolver(c1)
	if !slices.Equal(Girar(f0, SubdivisaoPadrao, 1), f1) {
		t.Errorf("escada em z=1 deveria ser a de z=0 girada um quarto de volta")
	}
	c4 := contexto(mapdata.TipoEscadaSobe)
	c4.Tile.Pos.Z = -4
	if !slices.Equal(Resolver(c4), f0) {
		t.Errorf("escada em z=-4 deveria repetir a de z=0")
	}
}

func TestFortificacao(t *testing.T) {
	c := contexto(mapdata.TipoFortificacao)
	if f := Resolver(c); len(f) != 35 {
		t.Errorf("fortificação isolada = %d voxels, want 35", len(f))
	}
	for _, d := range util.Cardeais {
		c.Vizinhos[d] = mapdata.TipoParede
	}
	// o centro das duas camadas de cima fica sempre aberto
	if f := Resolver(c); len(f) != 43 {
		t.Errorf("fortificação entre paredes = %d voxels, want 43", len(f))
	}
}

func TestDeterminismo(t *testing.T) {
	for _, tipo := range []mapdata.TipoTile{mapdata.TipoSeixos, mapdata.TipoGalho, mapdata.TipoArbusto} {
		a, b := contexto(tipo), contexto(tipo)
		if !slices.Equal(Resolver(a), Resolver(b)) {
			t.Errorf("Resolver(%v) não é determinístico com a mesma semente", tipo)
		}
	}
}

func TestTronco(t *testing.T) {
	c := contexto(mapdata.TipoTronco)
	if f := Resolver(c); len(f) != 29 {
		t.Errorf("tronco no chão = %d voxels, want 29", len(f))
	}
	c.Abaixo = mapdata.TipoTronco
	if f := Resolver(c); len(f) != 25 {
		t.Errorf("tronco sobre tronco = %d voxels, want 25", len(f))
	}
}

func TestGirar(t *testing.T) {
	f := Forma{{X: 1, Y: 0, Z: 0}}
	tests := []struct {
		quartos int
		want    Voxel
	}{
		{0, Voxel{X: 1, Y: 0}},
		{1, Voxel{X: 2, Y: 1}},
		{2, Voxel{X: 1, Y: 2}},
		{3, Voxel{X: 0, Y: 1}},
		{-1, Voxel{X: 0, Y: 1}},
	}
	for _, tt := range tests {
		got := Girar(f, SubdivisaoPadrao, tt.quartos)
		if len(got) != 1 || got[0] != tt.want {
			t.Errorf("Girar(%d) = %v, want %v", tt.quartos, got, tt.want)
		}
	}
}

func TestDirecaoParede(t *testing.T) {
	tests := []struct {
		nome    string
		paredes [8]bool
		want    util.Direcao
	}{
		{"nenhuma", [8]bool{}, util.Norte},
		{"oeste", [8]bool{util.Oeste: true}, util.Oeste},
		{"cantos desempatam", [8]bool{util.Leste: true, util.Sul: true, util.Sudoeste: true}, util.Sul},
		{"empate fica com o primeiro", [8]bool{util.Leste: true, util.Oeste: true}, util.Leste},
	}
	for _, tt := range tests {
		if got := DirecaoParede(tt.paredes); got != tt.want {
			t.Errorf("DirecaoParede(%s) = %v, want %v", tt.nome, got, tt.want)
		}
	}

	e := &mapdata.Edificio{Direcao: util.Sul}
	if got := Orientacao(e, [8]bool{util.Oeste: true}); got != util.Sul {
		t.Errorf("Orientacao com direção explícita = %v, want %v", got, util.Sul)
	}
}

func edificio(k dfproto.BuildingKind) *mapdata.Edificio {
	return &mapdata.Edificio{
		Tipo:    mapdata.TipoEdificio{Tipo: k},
		Direcao: util.Nenhuma,
	}
}

func TestEdificio(t *testing.T) {
	tests := []struct {
		nome string
		k    dfproto.BuildingKind
		want int
	}{
		{"cadeira", dfproto.BuildingChair, 1},
		{"mesa", dfproto.BuildingTable, 10},
		{"cama", dfproto.BuildingBed, 6},
		{"estátua", dfproto.BuildingStatue, 15},
		{"suporte", dfproto.BuildingSupport, 5},
		{"estoque", dfproto.BuildingStockpile, 0},
		{"zona", dfproto.BuildingCivzone, 0},
	}
	for _, tt := range tests {
		f := Edificio(ContextoEdificio{Edificio: edificio(tt.k), Sub: SubdivisaoPadrao})
		if len(f) != tt.want {
			t.Errorf("Edificio(%s) = %d voxels, want %d", tt.nome, len(f), tt.want)
		}
	}

	f := Edificio(ContextoEdificio{Edificio: edificio(dfproto.BuildingChair), Sub: SubdivisaoPadrao})
	if want := (Voxel{X: 1, Y: 1, Z: 1}); len(f) != 1 || f[0] != want {
		t.Errorf("cadeira = %v, want [%v]", f, want)
	}
}

func TestCamaGirada(t *testing.T) {
	f := Edificio(ContextoEdificio{Edificio: edificio(dfproto.BuildingBed), Sub: SubdivisaoPadrao})
	for _, v := range Girar(f, SubdivisaoPadrao, util.Leste.QuartosDeVolta()) {
		if v.X == 0 {
			t.Errorf("cama voltada para leste tem voxel %v na coluna oeste", v)
		}
	}
}

func TestPorta(t *testing.T) {
	c := ContextoEdificio{Edificio: edificio(dfproto.BuildingDoor), Sub: SubdivisaoPadrao}
	if f := Edificio(c); len(f) != 4 {
		t.Errorf("porta isolada = %d voxels, want 4", len(f))
	}
	c.Conexoes[util.Leste], c.Conexoes[util.Oeste] = true, true
	if f := Edificio(c); len(f) != 12 {
		t.Errorf("porta entre paredes = %d voxels, want 12", len(f))
	}
}

func TestPonte(t *testing.T) {
	e := edificio(dfproto.BuildingBridge)
	e.Min, e.Max = util.DFCoord{X: 0, Y: 0}, util.DFCoord{X: 2, Y: 0}
	e.Direcao = util.Leste
	meio := Edificio(ContextoEdificio{Edificio: e, Pos: util.DFCoord{X: 1}, Sub: SubdivisaoPadrao})
	// tabuleiro 9 + guarda-corpo norte 3 + guarda-corpo sul 3
	if len(meio) != 15 {
		t.Errorf("ponte leste-oeste = %d voxels, want 15", len(meio))
	}
	e.Direcao = util.Nenhuma
	if f := Edificio(ContextoEdificio{Edificio: e, Pos: util.DFCoord{X: 1}, Sub: SubdivisaoPadrao}); len(f) != 9 {
		t.Errorf("ponte sem direção = %d voxels, want 9", len(f))
	}
}

func TestGradeDePiso(t *testing.T) {
	a := Edificio(ContextoEdificio{Edificio: edificio(dfproto.BuildingGrateFloor), Pos: util.DFCoord{X: 0, Y: 0}, Sub: SubdivisaoPadrao})
	b := Edificio(ContextoEdificio{Edificio: edificio(dfproto.BuildingGrateFloor), Pos: util.DFCoord{X: 1, Y: 0}, Sub: SubdivisaoPadrao})
	// Em (0,0) os voxels ímpares em x e y são (1,1): 9-1 = 8.
	if len(a) != 8 {
		t.Errorf("grade em (0,0) = %d voxels, want 8", len(a))
	}
	// Em (1,0) as colunas globais 3,4,5: ímpares 3 e 5, linhas ímpares só y=1: 9-2 = 7.
	if len(b) != 7 {
		t.Errorf("grade em (1,0) = %d voxels, want 7", len(b))
	}
}
