package material

import (
	"fmt"

	"FortressVox/shared/mapdata"
	"FortressVox/shared/pkg/dfproto"
)

// Uso diz em que papel o material aparece; o mesmo par pode virar perfis
// diferentes como terreno, folhagem ou respingo.
type Uso uint8

const (
	Terreno Uso = iota
	// Interior é o miolo escondido de paredes: sai como Oculto, a menos que o
	// material seja transparente.
	Interior
	Oculto
	Agua
	Magma
	Nevoa
	Fumaca
	Miasma
	Fogo
	Folhagem
	Madeira
	Construcao
	Respingo
	Poeira
	// Conteudo colore os itens guardados em edifícios.
	Conteudo
	// Broto é o crescimento sazonal de plantas: flores, frutos, folhas novas.
	Broto
)

var nomesUso = [...]string{
	"terreno", "interior", "oculto", "água", "magma", "névoa", "fumaça", "miasma",
	"fogo", "folhagem", "madeira", "construção", "respingo", "poeira", "conteúdo",
	"broto",
}

func (u Uso) String() string {
	if int(u) < len(nomesUso) {
		return nomesUso[u]
	}
	return fmt.Sprintf("Uso(%d)", u)
}

// UsoDoFluxo escolhe o uso de uma célula de fluxo pelo tipo.
func UsoDoFluxo(t dfproto.FlowType) Uso {
	switch t {
	case dfproto.FlowMist, dfproto.FlowSeaFoam, dfproto.FlowSteam:
		return Nevoa
	case dfproto.FlowOceanWave:
		return Agua
	case dfproto.FlowMagmaMist:
		return Magma
	case dfproto.FlowFire, dfproto.FlowCampFire, dfproto.FlowDragonfire:
		return Fogo
	case dfproto.FlowMiasma:
		return Miasma
	case dfproto.FlowSmoke:
		return Fumaca
	}
	return Poeira
}

// Ref identifica o que deve ser classificado.
type Ref struct {
	Par       dfproto.MatPair
	Categoria dfproto.TiletypeMaterial
	// Escuro pede a variante escura das superfícies rugosas e gravadas.
	Escuro bool
	Morto  bool
	// Tom é a cor de console mais um para onde um broto puxa; zero mantém a
	// cor do material.
	Tom int32
}

// Materiais padrão, para o que o DF não informa cor.
var (
	PerfilOculto = Perfil{R: 0, G: 0, B: 0, A: 255}
	PerfilAgua   = Perfil{R: 0, G: 0, B: 255, A: 64, Tipo: Vidro, Transparencia: 50}
	PerfilNevoa  = Perfil{R: 255, G: 255, B: 255, A: 64, Tipo: Vidro, Transparencia: 75}
	PerfilMagma  = Perfil{R: 255, G: 0, B: 0, A: 64, Tipo: Emissivo, Emissao: 50, Fluxo: 2}
	PerfilFogo   = Perfil{R: 255, G: 174, B: 0, A: 64, Tipo: Emissivo, Emissao: 50, Fluxo: 2}
	PerfilFumaca = Perfil{R: 100, G: 100, B: 100, A: 64, Tipo: Vidro, Transparencia: 25}
	PerfilMiasma = Perfil{R: 208, G: 89, B: 255, A: 64, Tipo: Vidro, Transparencia: 25}
	PerfilLuz    = Perfil{R: 255, G: 240, B: 180, A: 255, Tipo: Emissivo, Emissao: 80, Fluxo: 3}

	PerfilGramaEscura = rgb(0, 102, 0)
	PerfilGramaClara  = rgb(0, 153, 51)
	PerfilGramaMorta  = rgb(102, 102, 0)
	PerfilPlanta      = rgb(0, 120, 0)
	PerfilMadeira     = rgb(75, 21, 0)
	PerfilRocha       = rgb(128, 128, 128)
)

// Cores de referência das estações.
var (
	corNeve   = [3]uint8{235, 235, 245}
	corOutono = [3]uint8{204, 102, 0}
	corBroto  = [3]uint8{150, 230, 120}
)

// PerfilCategoria é a cor usada quando o material do tile é desconhecido.
func PerfilCategoria(cat dfproto.TiletypeMaterial) Perfil {
	switch cat {
	case dfproto.TilematSoil:
		return rgb(120, 85, 50)
	case dfproto.TilematFeature:
		return rgb(110, 110, 120)
	case dfproto.TilematLavaStone:
		return rgb(40, 40, 48)
	case dfproto.TilematMineral:
		return rgb(150, 140, 130)
	case dfproto.TilematFrozenLiquid:
		return rgb(200, 200, 230)
	case dfproto.TilematConstruction:
		return rgb(150, 150, 150)
	case dfproto.TilematGrassLight:
		return PerfilGramaClara
	case dfproto.TilematGrassDark:
		return PerfilGramaEscura
	case dfproto.TilematGrassDry, dfproto.TilematGrassDead:
		return PerfilGramaMorta
	case dfproto.TilematPlant:
		return PerfilPlanta
	case dfproto.TilematHFS:
		return rgb(120, 0, 120)
	case dfproto.TilematAshes:
		return rgb(90, 90, 90)
	case dfproto.TilematDriftwood, dfproto.TilematRoot:
		return rgb(110, 80, 50)
	case dfproto.TilematPool, dfproto.TilematBrook, dfproto.TilematRiver:
		return rgb(100, 90, 70)
	case dfproto.TilematTreeMaterial:
		return PerfilMadeira
	case dfproto.TilematMushroom:
		return rgb(160, 120, 160)
	case dfproto.TilematUnderworld:
		return rgb(60, 0, 0)
	}
	return PerfilRocha
}

const brilhoMinimo = 24

// Classificador transforma referências de material em perfis. Não guarda
// estado mutável: pode ser usado por vários workers ao mesmo tempo.
type Classificador struct {
	materiais *mapdata.Materiais
	regras    *Regras
}

func NovoClassificador(m *mapdata.Materiais, r *Regras) *Classificador {
	if r == nil {
		r = RegrasPadrao()
	}
	return &Classificador{materiais: m, regras: r}
}

// base é a cor do DF mais a regra do token. ok=false se o par não existe.
func (c *Classificador) base(par dfproto.MatPair) (Perfil, bool) {
	def, ok := c.materiais.Buscar(par)
	if !ok {
		return Perfil{}, false
	}
	p := rgb(def.R, def.G, def.B)
	return c.regras.aplicar(def.Token, p), true
}

// Classificar devolve o perfil da referência no uso e estação dados.
// Para pares desconhecidos devolve o perfil da categoria e false.
func (c *Classificador) Classificar(ref Ref, uso Uso, est mapdata.Estacao) (Perfil, bool) {
	switch uso {
	case Oculto:
		return PerfilOculto, true
	case Agua:
		return PerfilAgua, true
	case Magma:
		return PerfilMagma, true
	case Nevoa:
		return PerfilNevoa, true
	case Fumaca:
		return PerfilFumaca, true
	case Miasma:
		return PerfilMiasma, true
	case Fogo:
		return PerfilFogo, true
	case Interior:
		p, ok := c.Classificar(ref, Terreno, est)
		if p.Transparente() {
			return p, ok
		}
		return PerfilOculto, ok
	case Folhagem:
		return c.folhagem(ref, est)
	case Madeira:
		p, ok := c.base(ref.Par)
		if !ok {
			p = PerfilMadeira
		}
		if ref.Morto {
			p = p.misturar(PerfilGramaMorta.R, PerfilGramaMorta.G, PerfilGramaMorta.B, 0.5)
		}
		return c.acabamento(p, ref), ok
	case Construcao, Conteudo:
		p, ok := c.base(ref.Par)
		if !ok {
			p = PerfilRocha
		}
		return c.acabamento(p, ref), ok
	case Broto:
		p, ok := c.base(ref.Par)
		if !ok {
			p = PerfilPlanta
		}
		if cor, achou := mapdata.CorConsole(ref.Tom - 1); ref.Tom > 0 && achou {
			p = p.misturar(cor.R, cor.G, cor.B, 0.5)
		}
		return c.acabamento(p, ref), ok
	case Respingo:
		p, ok := c.base(ref.Par)
		if !ok {
			p = PerfilRocha
		}
		if est == mapdata.Inverno {
			p = p.misturar(corNeve[0], corNeve[1], corNeve[2], 0.3)
		}
		return p.clarearMinimo(brilhoMinimo), ok
	case Poeira:
		p, ok := c.base(ref.Par)
		if !ok {
			p = PerfilRocha
		}
		p.Tipo, p.Transparencia = Vidro, 50
		return p.clarearMinimo(brilhoMinimo), ok
	}
	return c.terreno(ref, est)
}

func (c *Classificador) terreno(ref Ref, est mapdata.Estacao) (Perfil, bool) {
	switch ref.Categoria {
	case dfproto.TilematGrassLight, dfproto.TilematGrassDark, dfproto.TilematGrassDry, dfproto.TilematGrassDead:
		p := PerfilCategoria(ref.Categoria)
		if ref.Morto {
			p = PerfilGramaMorta
		}
		return c.acabamento(naEstacao(p, est), ref), true
	case dfproto.TilematFire:
		return PerfilFogo, true
	case dfproto.TilematCampfire:
		return PerfilLuz, true
	case dfproto.TilematMagma:
		return PerfilMagma, true
	}

	p, ok := c.base(ref.Par)
	if !ok {
		p = PerfilCategoria(ref.Categoria)
	}
	switch ref.Categoria {
	case dfproto.TilematFrozenLiquid:
		p.Tipo, p.IOR, p.Transparencia = Vidro, 50, 50
	case dfproto.TilematLavaStone:
		if p.Tipo == Difuso {
			p.Tipo, p.Rugosidade, p.Transparencia = Vidro, 5, 10
		}
	case dfproto.TilematStone, dfproto.TilematConstruction, dfproto.TilematMineral, dfproto.TilematFeature:
		if p.Tipo == Difuso {
			p = p.dessaturar(0.2)
		}
	}
	return c.acabamento(p, ref), ok
}

func (c *Classificador) folhagem(ref Ref, est mapdata.Estacao) (Perfil, bool) {
	if ref.Morto {
		return c.acabamento(PerfilGramaMorta, ref), true
	}
	p, ok := c.base(ref.Par)
	if !ok {
		p = PerfilPlanta
	}
	return c.acabamento(naEstacao(p, est), ref), ok
}

// naEstacao aplica o tom da estação à vegetação.
func naEstacao(p Perfil, est mapdata.Estacao) Perfil {
	switch est {
	case mapdata.Primavera:
		return p.misturar(corBroto[0], corBroto[1], corBroto[2], 0.15)
	case mapdata.Outono:
		return p.misturar(corOutono[0], corOutono[1], corOutono[2], 0.5)
	case mapdata.Inverno:
		return p.misturar(corNeve[0], corNeve[1], corNeve[2], 0.6)
	}
	return p
}

func (c *Classificador) acabamento(p Perfil, ref Ref) Perfil {
	p = p.clarearMinimo(brilhoMinimo)
	if ref.Escuro {
		p = p.escurecer(0.5)
	}
	return p
}
