package mapdata

import "FortressVox/shared/pkg/dfproto"

// PartePlanta marca as partes de uma planta em que um crescimento aparece.
type PartePlanta uint8

const (
	ParteGraveto PartePlanta = 1 << iota
	ParteGalhoLeve
	ParteGalhoPesado
	ParteTronco
	ParteRaiz
	ParteChapeu
	ParteMuda
	// ParteArbusto aceita qualquer crescimento da planta.
	ParteArbusto
)

// ParteDoTipo diz que parte da planta um tile de vegetação representa.
func ParteDoTipo(t TipoTile) PartePlanta {
	switch t {
	case TipoTronco:
		return ParteTronco
	case TipoGalho:
		return ParteGalhoLeve | ParteGalhoPesado
	case TipoGraveto:
		return ParteGraveto
	case TipoMuda:
		return ParteMuda
	case TipoArbusto:
		return ParteArbusto
	}
	return 0
}

// Janela é um intervalo de ticks do ano. Extremos negativos ficam abertos.
type Janela struct {
	Inicio, Fim int32
}

func (j Janela) Contem(tick int32) bool {
	return (j.Inicio < 0 || tick >= j.Inicio) && (j.Fim < 0 || tick <= j.Fim)
}

// Impressao é a cor de console que um crescimento mostra numa janela do ano.
type Impressao struct {
	Janela
	Cor int32
}

type Crescimento struct {
	Token    string
	Material dfproto.MatPair
	Janela
	Partes     PartePlanta
	Impressoes []Impressao
}

type Planta struct {
	Token        string
	Crescimentos []Crescimento
}

// Flora são os raws de plantas do mundo, indexados pelo mat_index dos tiles
// de vegetação, e o tick do ano em que foram lidos.
type Flora struct {
	Tick    int32
	Plantas []Planta
}

// Broto é um crescimento visível agora. Tom é a cor de console para onde o
// material puxa, ou -1 quando fica na cor própria.
type Broto struct {
	Material dfproto.MatPair
	Tom      int32
}

// Brotos lista os crescimentos da planta visíveis na parte e no tick dados.
func (f *Flora) Brotos(planta int32, parte PartePlanta, tick int32) []Broto {
	if f == nil || planta < 0 || int(planta) >= len(f.Plantas) || parte == 0 {
		return nil
	}
	var res []Broto
	for _, c := range f.Plantas[planta].Crescimentos {
		if !c.Contem(tick) {
			continue
		}
		if parte != ParteArbusto && c.Partes&parte == 0 {
			continue
		}
		res = append(res, Broto{Material: c.Material, Tom: c.tom(tick)})
	}
	return res
}

// tom compara a impressão atual com a mais antiga do ano: se diferem, o
// crescimento mudou de cor (fruta madura, folha seca).
func (c *Crescimento) tom(tick int32) int32 {
	var atual, fresca *Impressao
	for i := range c.Impressoes {
		p := &c.Impressoes[i]
		if atual == nil && p.Contem(tick) {
			atual = p
		}
		if fresca == nil || p.Inicio < fresca.Inicio {
			fresca = p
		}
	}
	if atual == nil || atual.Cor == fresca.Cor {
		return -1
	}
	return atual.Cor
}

// FloraDeLista converte a resposta de GetPlantList.
func FloraDeLista(l *dfproto.PlantRawList, tick int32) *Flora {
	f := &Flora{Tick: tick, Plantas: make([]Planta, len(l.PlantRaws))}
	for i, raw := range l.PlantRaws {
		p := Planta{Token: raw.ID}
		for _, g := range raw.Growths {
			c := Crescimento{
				Token:    g.ID,
				Material: g.Mat,
				Janela:   Janela{g.TimingStart, g.TimingEnd},
				Partes:   partesDoCrescimento(&g),
			}
			for _, pr := range g.Prints {
				c.Impressoes = append(c.Impressoes, Impressao{Janela{pr.TimingStart, pr.TimingEnd}, pr.Color})
			}
			p.Crescimentos = append(p.Crescimentos, c)
		}
		f.Plantas[i] = p
	}
	return f
}

func partesDoCrescimento(g *dfproto.TreeGrowth) PartePlanta {
	var p PartePlanta
	marcar := func(ok bool, parte PartePlanta) {
		if ok {
			p |= parte
		}
	}
	marcar(g.Twigs, ParteGraveto)
	marcar(g.LightBranches, ParteGalhoLeve)
	marcar(g.HeavyBranches, ParteGalhoPesado)
	marcar(g.Trunk, ParteTronco)
	marcar(g.Roots, ParteRaiz)
	marcar(g.Cap, ParteChapeu)
	marcar(g.Sapling, ParteMuda)
	return p
}
