package grade

import (
	"FortressVox/exportador/internal/forma"
	"FortressVox/exportador/internal/material"
	"FortressVox/shared/mapdata"
	"FortressVox/shared/pkg/dfproto"
	"FortressVox/shared/util"
)

// construcoes gera os fragmentos dos edifícios que tocam o nível.
func (w *trabalhador) construcoes() {
	w.edificios = w.g.indice.NoNivel(w.z)
	for i, e := range w.edificios {
		w.construcao(i, e)
	}
}

// rotacaoNoNo diz se o edifício pode sair voltado para o norte com a rotação
// no nó da cena: pegada de um tile, um só nível e H ímpar, para que o giro
// em torno do centro do modelo seja exato.
func rotacaoNoNo(e *mapdata.Edificio, s forma.Subdivisao) bool {
	return e.Min.X == e.Max.X && e.Min.Y == e.Max.Y && e.Min.Z == e.Max.Z && s.H%2 == 1
}

func (w *trabalhador) construcao(i int, e *mapdata.Edificio) {
	sub := w.g.in.Sub
	quartos := 0
	if forma.Orientavel(e.Tipo.Tipo) {
		quartos = forma.Orientacao(e, w.paredesEm(util.NewDFCoord(e.Min.X, e.Min.Y, w.z))).QuartosDeVolta()
	}
	noNo := quartos != 0 && rotacaoNoNo(e, sub)
	if noNo {
		w.quartos[e.ID] = quartos
	}

	ref := material.Ref{Par: e.Material, Categoria: dfproto.TilematConstruction}
	p, ok := w.classificar(ref, material.Construcao)
	avisado := false
	itens := conteudoUnico(e.Conteudo)
	k := 0

	for y := max(e.Min.Y, w.g.area.Min.Y); y <= min(e.Max.Y, w.g.area.Max.Y); y++ {
		for x := max(e.Min.X, w.g.area.Min.X); x <= min(e.Max.X, w.g.area.Max.X); x++ {
			pos := util.NewDFCoord(x, y, w.z)
			if !w.visivel(pos) {
				continue
			}
			c := forma.ContextoEdificio{Edificio: e, Pos: pos, Sub: sub}
			for _, d := range util.Cardeais {
				c.Conexoes[d] = w.conecta(e, pos.Vizinho(d))
			}
			f := forma.Edificio(c)
			if len(f) == 0 {
				continue
			}
			if !noNo {
				f = forma.Girar(f, sub, quartos)
			}
			if !ok && !avisado {
				w.avisarMaterial(pos, e.Material)
				avisado = true
			}
			for _, v := range f {
				perfil := p
				if v.Papel == forma.Conteudo && len(itens) > 0 {
					perfil, _ = w.classificar(material.Ref{Par: itens[k%len(itens)]}, material.Conteudo)
					k++
				}
				w.buf.escrever(w.global(pos, v), celula{prio: PrioEstrutural, dono: donoEdificio(i), perfil: perfil})
			}
		}
	}
}

// maxConteudo limita quantos materiais distintos de itens um edifício mostra.
const maxConteudo = 8

// conteudoUnico tira os materiais repetidos dos itens, mantendo a ordem.
func conteudoUnico(itens []dfproto.MatPair) []dfproto.MatPair {
	var res []dfproto.MatPair
	vistos := make(map[dfproto.MatPair]bool, len(itens))
	for _, m := range itens {
		if vistos[m] {
			continue
		}
		vistos[m] = true
		res = append(res, m)
		if len(res) == maxConteudo {
			break
		}
	}
	return res
}

// paredesEm marca as oito vizinhas de p que são paredes.
func (w *trabalhador) paredesEm(p util.DFCoord) [8]bool {
	var res [8]bool
	for _, d := range util.Vizinhas8 {
		t := w.t.nivel.Tile(p.Vizinho(d).X, p.Vizinho(d).Y)
		res[d] = t != nil && t.Parede()
	}
	return res
}

// conecta diz se o vizinho é parede ou edifício do mesmo tipo (portas em
// sequência, grades...).
func (w *trabalhador) conecta(e *mapdata.Edificio, p util.DFCoord) bool {
	if t := w.t.nivel.Tile(p.X, p.Y); t != nil && t.Parede() {
		return true
	}
	o, ok := w.g.indice.Em(p)
	return ok && o.ID != e.ID && o.Tipo.Tipo == e.Tipo.Tipo
}
