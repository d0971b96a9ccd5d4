package cena

import (
	"slices"
	"testing"

	"FortressVox/exportador/internal/grade"
	"FortressVox/shared/mapdata"
	"FortressVox/shared/pkg/dfproto"
)

func linha(n int32, y, z int32) []grade.Voxel {
	vs := make([]grade.Voxel, 0, n)
	for x := int32(0); x < n; x++ {
		vs = append(vs, grade.Voxel{X: x, Y: y, Z: z, Cor: 1})
	}
	return vs
}

func TestAgrupar(t *testing.T) {
	res := grade.Resultado{
		Tamanho: [3]int32{6, 3, 10},
		Niveis: []grade.Nivel{
			{Z: 40},
			{Z: 41},
		},
		Construcoes: []grade.Construcao{
			{ID: 9, Tipo: mapdata.TipoEdificio{Tipo: dfproto.BuildingTable}, Z: 41, Min: [3]int32{3, 0, 5}, Max: [3]int32{5, 2, 7}, Voxels: []grade.Voxel{{X: 4, Y: 1, Z: 7}}},
			{ID: 2, Tipo: mapdata.TipoEdificio{Tipo: dfproto.BuildingBed}, Z: 41, Min: [3]int32{0, 0, 5}, Max: [3]int32{2, 2, 9}, Quartos: 1, Voxels: []grade.Voxel{{X: 1, Y: 1, Z: 6}}},
		},
	}
	res.Niveis[0].Camadas[grade.Terreno] = linha(6, 0, 0)
	res.Niveis[0].Camadas[grade.Liquido] = linha(2, 1, 1)
	res.Niveis[1].Camadas[grade.Ocultos] = linha(3, 2, 5)

	c := Agrupar(res)
	if c.Tamanho != res.Tamanho {
		t.Errorf("Tamanho = %v, want %v", c.Tamanho, res.Tamanho)
	}
	if len(c.Raiz.Grupos) != 2 || c.Raiz.Grupos[0].Nome != "nivel 40" || c.Raiz.Grupos[1].Nome != "nivel 41" {
		t.Fatalf("grupos da raiz = %v, want nivel 40 e nivel 41", c.Raiz.Grupos)
	}

	n40 := c.Raiz.Grupos[0]
	var nomes []string
	for _, o := range n40.Objetos {
		nomes = append(nomes, o.Nome)
	}
	if !slices.Equal(nomes, []string{"terreno", "liquido"}) {
		t.Errorf("objetos do nível 40 = %v, want [terreno liquido]", nomes)
	}
	if o := n40.Objetos[0]; o.Min != [3]int32{0, 0, 0} || o.Max != [3]int32{5, 0, 0} {
		t.Errorf("caixa do terreno = %v..%v, want [0 0 0]..[5 0 0]", o.Min, o.Max)
	}

	n41 := c.Raiz.Grupos[1]
	if len(n41.Objetos) != 1 || n41.Objetos[0].Camada != int(grade.Ocultos) {
		t.Errorf("objetos do nível 41 = %v, want só ocultos", n41.Objetos)
	}
	if len(n41.Grupos) != 1 || n41.Grupos[0].Nome != "construcoes" {
		t.Fatalf("subgrupos do nível 41 = %v, want [construcoes]", n41.Grupos)
	}
	cs := n41.Grupos[0].Objetos
	if len(cs) != 2 || cs[0].Nome != "cama 2" || cs[1].Nome != "mesa 9" {
		t.Fatalf("construções = %v, want cama 2 e mesa 9", cs)
	}
	if cs[0].Quartos != 1 || cs[0].Camada != CamadaConstrucoes {
		t.Errorf("cama: Quartos %d Camada %d, want 1 e %d", cs[0].Quartos, cs[0].Camada, CamadaConstrucoes)
	}
	if cs[0].Min != [3]int32{0, 0, 5} || cs[0].Max != [3]int32{2, 2, 9} {
		t.Errorf("caixa da cama = %v..%v, want a da pegada", cs[0].Min, cs[0].Max)
	}
}

func TestCamadas(t *testing.T) {
	cs := Camadas()
	if len(cs) != grade.NumCamadas+1 {
		t.Fatalf("len(Camadas()) = %d, want %d", len(cs), grade.NumCamadas+1)
	}
	for i, c := range cs {
		if want := i == int(grade.Ocultos); c.Oculta != want {
			t.Errorf("camada %q oculta = %v, want %v", c.Nome, c.Oculta, want)
		}
	}
	if cs[CamadaConstrucoes].Nome != "construcoes" {
		t.Errorf("última camada = %q, want construcoes", cs[CamadaConstrucoes].Nome)
	}
}

func objetoCheio(x, y, z int32) *Objeto {
	var vs []grade.Voxel
	for k := int32(0); k < z; k++ {
		for j := int32(0); j < y; j++ {
			for i := int32(0); i < x; i++ {
				if (i+j+k)%3 == 0 {
					vs = append(vs, grade.Voxel{X: i, Y: j, Z: k, Cor: 1})
				}
			}
		}
	}
	o := &Objeto{Nome: "terreno", Voxels: vs}
	o.Min, o.Max = caixa(vs)
	return o
}

func TestParticionar(t *testing.T) {
	tests := []struct {
		x, y, z int32
		limite  int
		pedacos int
	}{
		{10, 10, 10, 256, 1},
		{600, 4, 3, 256, 3},
		{300, 300, 2, 256, 4},
		{20, 20, 20, 8, 27},
		{9, 9, 9, 0, 1},
	}
	for _, tt := range tests {
		o := objetoCheio(tt.x, tt.y, tt.z)
		ps := Particionar(o, tt.limite)
		if len(ps) != tt.pedacos {
			t.Errorf("Particionar(%dx%dx%d, %d) = %d pedaços, want %d", tt.x, tt.y, tt.z, tt.limite, len(ps), tt.pedacos)
		}
		limite := int32(tt.limite)
		if limite <= 0 {
			limite = LimitePadrao
		}
		vistos := make(map[grade.Voxel]int)
		for _, p := range ps {
			for i, lado := range p.Tamanho() {
				if lado > limite {
					t.Errorf("pedaço %v..%v com lado %d no eixo %d, want <= %d", p.Min, p.Max, lado, i, limite)
				}
			}
			for _, v := range p.Voxels {
				if v.X < p.Min[0] || v.X > p.Max[0] || v.Y < p.Min[1] || v.Y > p.Max[1] || v.Z < p.Min[2] || v.Z > p.Max[2] {
					t.Errorf("voxel %v fora do pedaço %v..%v", v, p.Min, p.Max)
				}
				vistos[v]++
			}
		}
		if len(vistos) != len(o.Voxels) {
			t.Errorf("%dx%dx%d: %d voxels distintos após partição, want %d", tt.x, tt.y, tt.z, len(vistos), len(o.Voxels))
		}
		for v, n := range vistos {
			if n != 1 {
				t.Errorf("voxel %v aparece %d vezes", v, n)
			}
		}
	}
}

func TestParticionarSemPedacosVazios(t *testing.T) {
	o := &Objeto{Voxels: []grade.Voxel{{X: 0}, {X: 999}}}
	o.Min, o.Max = caixa(o.Voxels)
	ps := Particionar(o, 256)
	if len(ps) != 2 {
		t.Fatalf("len(Particionar()) = %d, want 2", len(ps))
	}
	for _, p := range ps {
		if len(p.Voxels) != 1 {
			t.Errorf("pedaço %v..%v com %d voxels, want 1", p.Min, p.Max, len(p.Voxels))
		}
	}
}

func TestCenaParticionar(t *testing.T) {
	c := &Cena{Raiz: &Grupo{Grupos: []*Grupo{{Objetos: []*Objeto{objetoCheio(300, 2, 2)}}}}}
	c.Particionar(256)
	var total int
	c.Percorrer(func(_ []*Grupo, o *Objeto) { total += len(o.Pedacos) })
	if total != 2 {
		t.Errorf("pedaços na cena = %d, want 2", total)
	}
}
