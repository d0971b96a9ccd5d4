package material

import (
	"os"
	"path/filepath"
	"testing"

	"FortressVox/shared/mapdata"
	"FortressVox/shared/pkg/dfproto"
)

var (
	granito = dfproto.MatPair{MatType: 0, MatIndex: 1}
	vidro   = dfproto.MatPair{MatType: 3, MatIndex: 0}
	ferro   = dfproto.MatPair{MatType: 0, MatIndex: 2}
	carvao  = dfproto.MatPair{MatType: 0, MatIndex: 3}
	folha   = dfproto.MatPair{MatType: 419, MatIndex: 7}
	nenhum  = dfproto.MatPair{MatType: 9999, MatIndex: 9999}
)

func classificador() *Classificador {
	m := mapdata.NovoMateriais([]mapdata.DefinicaoMaterial{
		{Par: granito, Token: "INORGANIC:GRANITE", R: 160, G: 100, B: 90},
		{Par: vidro, Token: "GLASS_GREEN", R: 0, G: 200, B: 0},
		{Par: ferro, Token: "INORGANIC:IRON", R: 120, G: 120, B: 130},
		{Par: carvao, Token: "COAL", R: 2, G: 2, B: 2},
		{Par: folha, Token: "PLANT:OAK:LEAF", R: 20, G: 140, B: 20},
	})
	return NovoClassificador(m, nil)
}

func TestClassificarPuro(t *testing.T) {
	c := classificador()
	refs := []Ref{
		{Par: granito, Categoria: dfproto.TilematStone},
		{Par: granito, Categoria: dfproto.TilematStone, Escuro: true},
		{Par: folha},
		{Par: nenhum, Categoria: dfproto.TilematSoil},
	}
	for _, ref := range refs {
		for uso := Terreno; uso <= Poeira; uso++ {
			for est := mapdata.Primavera; est <= mapdata.Inverno; est++ {
				a, okA := c.Classificar(ref, uso, est)
				b, okB := c.Classificar(ref, uso, est)
				if a != b || okA != okB {
					t.Errorf("Classificar(%v, %v, %v) não é determinístico: %v/%v", ref, uso, est, a, b)
				}
			}
		}
	}
}

func TestClassificarTipos(t *testing.T) {
	c := classificador()
	tests := []struct {
		nome string
		ref  Ref
		uso  Uso
		want Tipo
	}{
		{"granito", Ref{Par: granito, Categoria: dfproto.TilematStone}, Terreno, Difuso},
		{"vidro", Ref{Par: vidro, Categoria: dfproto.TilematConstruction}, Construcao, Vidro},
		{"ferro", Ref{Par: ferro}, Construcao, Metal},
		{"gelo", Ref{Par: nenhum, Categoria: dfproto.TilematFrozenLiquid}, Terreno, Vidro},
		{"obsidiana", Ref{Par: nenhum, Categoria: dfproto.TilematLavaStone}, Terreno, Vidro},
		{"magma", Ref{}, Magma, Emissivo},
		{"fogueira", Ref{Categoria: dfproto.TilematCampfire}, Terreno, Emissivo},
	}
	for _, tt := range tests {
		p, _ := c.Classificar(tt.ref, tt.uso, mapdata.Verao)
		if p.Tipo != tt.want {
			t.Errorf("Classificar(%s).Tipo = %v, want %v", tt.nome, p.Tipo, tt.want)
		}
	}
}

func TestMaterialDesconhecido(t *testing.T) {
	c := classificador()
	p, ok := c.Classificar(Ref{Par: nenhum, Categoria: dfproto.TilematSoil}, Terreno, mapdata.Verao)
	if ok {
		t.Errorf("Classificar(desconhecido) ok = true, want false")
	}
	if want := PerfilCategoria(dfproto.TilematSoil); p != want {
		t.Errorf("Classificar(desconhecido) = %v, want %v", p, want)
	}
}

func TestInterior(t *testing.T) {
	c := classificador()
	if p, _ := c.Classificar(Ref{Par: granito, Categoria: dfproto.TilematStone}, Interior, mapdata.Verao); p != PerfilOculto {
		t.Errorf("interior de granito = %v, want %v", p, PerfilOculto)
	}
	if p, _ := c.Classificar(Ref{Par: vidro, Categoria: dfproto.TilematConstruction}, Interior, mapdata.Verao); !p.Transparente() {
		t.Errorf("interior de vidro = %v, want transparente", p)
	}
}

func brilho(p Perfil) int { return int(p.R) + int(p.G) + int(p.B) }

func TestVarianteEscura(t *testing.T) {
	c := classificador()
	claro, _ := c.Classificar(Ref{Par: granito, Categoria: dfproto.TilematStone}, Terreno, mapdata.Verao)
	escuro, _ := c.Classificar(Ref{Par: granito, Categoria: dfproto.TilematStone, Escuro: true}, Terreno, mapdata.Verao)
	if brilho(escuro) >= brilho(claro) {
		t.Errorf("variante escura %v não é mais escura que %v", escuro, claro)
	}
	if !escuro.MesmoFisico(claro) {
		t.Errorf("variante escura mudou propriedades físicas: %v", escuro)
	}
}

func TestSemPreto(t *testing.T) {
	c := classificador()
	p, _ := c.Classificar(Ref{Par: carvao, Categoria: dfproto.TilematMineral}, Terreno, mapdata.Verao)
	if max(p.R, p.G, p.B) < brilhoMinimo {
		t.Errorf("carvão = %v, want canal >= %d", p, brilhoMinimo)
	}
}

func TestEstacoes(t *testing.T) {
	c := classificador()
	ref := Ref{Par: folha}
	verao, _ := c.Classificar(ref, Folhagem, mapdata.Verao)
	outono, _ := c.Classificar(ref, Folhagem, mapdata.Outono)
	inverno, _ := c.Classificar(ref, Folhagem, mapdata.Inverno)
	if verao == outono || verao == inverno || outono == inverno {
		t.Errorf("folhagem igual entre estações: %v %v %v", verao, outono, inverno)
	}
	if outono.R <= verao.R {
		t.Errorf("folhagem de outono %v deveria ser mais avermelhada que %v", outono, verao)
	}

	morta, _ := c.Classificar(Ref{Par: folha, Morto: true}, Folhagem, mapdata.Verao)
	if morta != PerfilGramaMorta {
		t.Errorf("folhagem morta = %v, want %v", morta, PerfilGramaMorta)
	}

	grama, _ := c.Classificar(Ref{Par: nenhum, Categoria: dfproto.TilematGrassLight}, Terreno, mapdata.Verao)
	if grama != PerfilGramaClara {
		t.Errorf("grama clara no verão = %v, want %v", grama, PerfilGramaClara)
	}
}

func TestUsoDoFluxo(t *testing.T) {
	tests := []struct {
		tipo dfproto.FlowType
		want Uso
	}{
		{dfproto.FlowMist, Nevoa},
		{dfproto.FlowSteam, Nevoa},
		{dfproto.FlowSmoke, Fumaca},
		{dfproto.FlowDragonfire, Fogo},
		{dfproto.FlowMagmaMist, Magma},
		{dfproto.FlowMaterialDust, Poeira},
		{dfproto.FlowWeb, Poeira},
	}
	for _, tt := range tests {
		if got := UsoDoFluxo(tt.tipo); got != tt.want {
			t.Errorf("UsoDoFluxo(%v) = %v, want %v", tt.tipo, got, tt.want)
		}
	}
}

func TestCarregarRegras(t *testing.T) {
	padrao, err := CarregarRegras("")
	if err != nil {
		t.Fatalf("CarregarRegras(embutidas): %v", err)
	}
	if padrao.Len() == 0 {
		t.Errorf("regras embutidas vazias")
	}

	dir := t.TempDir()
	arq := filepath.Join(dir, "regras.yaml")
	conteudo := "regras:\n  - padrao: \"INORGANIC:GRANITE\"\n    cor: amber\n    tipo: metal\n    metalico: 40\n"
	if err := os.WriteFile(arq, []byte(conteudo), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := CarregarRegras(arq)
	if err != nil {
		t.Fatalf("CarregarRegras(%s): %v", arq, err)
	}
	c := NovoClassificador(classificador().materiais, r)
	p, ok := c.Classificar(Ref{Par: granito}, Construcao, mapdata.Verao)
	want := Perfil{R: 255, G: 191, B: 0, A: 255, Tipo: Metal, Metalico: 40}
	if !ok || p != want {
		t.Errorf("granito com regra do usuário = %v (%v), want %v", p, ok, want)
	}
}

func TestMetaisNasRegrasEmbutidas(t *testing.T) {
	regras, err := CarregarRegras("")
	if err != nil {
		t.Fatalf("CarregarRegras(embutidas): %v", err)
	}
	m := mapdata.NovoMateriais([]mapdata.DefinicaoMaterial{
		{Par: dfproto.MatPair{MatType: 0, MatIndex: 10}, Token: "INORGANIC:GOLD", R: 90, G: 90, B: 90},
		{Par: dfproto.MatPair{MatType: 0, MatIndex: 11}, Token: "INORGANIC:COPPER", R: 90, G: 90, B: 90},
		{Par: dfproto.MatPair{MatType: 0, MatIndex: 12}, Token: "INORGANIC:ROSE_GOLD", R: 90, G: 90, B: 90},
	})
	c := NovoClassificador(m, regras)
	tests := []struct {
		indice  int32
		r, g, b uint8
	}{
		{10, 212, 175, 55},
		{11, 184, 115, 51},
		{12, 212, 175, 55},
	}
	for _, tt := range tests {
		p, ok := c.Classificar(Ref{Par: dfproto.MatPair{MatType: 0, MatIndex: tt.indice}}, Construcao, mapdata.Verao)
		if !ok || p.R != tt.r || p.G != tt.g || p.B != tt.b || p.Tipo != Metal {
			t.Errorf("Classificar(0:%d) = %v (%v), want metal %d,%d,%d", tt.indice, p, ok, tt.r, tt.g, tt.b)
		}
	}
}

func TestRegrasInvalidas(t *testing.T) {
	tests := []struct {
		nome string
		yaml string
	}{
		{"padrão quebrado", "regras:\n  - padrao: \"[\"\n"},
		{"tipo", "regras:\n  - padrao: \"X\"\n    tipo: plasma\n"},
		{"cor", "regras:\n  - padrao: \"X\"\n    cor: \"#zz0000\"\n"},
		{"cor do DF", "regras:\n  - padrao: \"X\"\n    cor: NAO_EXISTE\n"},
		{"percentual", "regras:\n  - padrao: \"X\"\n    transparencia: 150\n"},
		{"yaml", "regras: [\n"},
	}
	for _, tt := range tests {
		if _, err := ParseRegras([]byte(tt.yaml)); err == nil {
			t.Errorf("ParseRegras(%s) err = nil, want erro", tt.nome)
		}
	}
}
