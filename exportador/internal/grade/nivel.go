package grade

import (
	"math/rand/v2"

	"FortressVox/exportador/internal/aleatorio"
	"FortressVox/exportador/internal/aviso"
	"FortressVox/exportador/internal/forma"
	"FortressVox/exportador/internal/material"
	"FortressVox/shared/mapdata"
	"FortressVox/shared/pkg/dfproto"
	"FortressVox/shared/util"
)

type chavePerfil struct {
	ref material.Ref
	uso material.Uso
}

type perfilClassificado struct {
	perfil material.Perfil
	ok     bool
}

// trabalhador é dono exclusivo de todos os buffers de um nível.
type trabalhador struct {
	g      *geracao
	t      trabalho
	z      int32
	buf    *buffer
	perfis map[chavePerfil]perfilClassificado

	edificios []*mapdata.Edificio
	quartos   map[int32]int
}

func (g *geracao) processar(t trabalho) saidaNivel {
	w := &trabalhador{
		g:       g,
		t:       t,
		z:       t.nivel.Z,
		buf:     novoBuffer(),
		perfis:  make(map[chavePerfil]perfilClassificado),
		quartos: make(map[int32]int),
	}
	a := g.area
	for y := a.Min.Y; y <= a.Max.Y; y++ {
		for x := a.Min.X; x <= a.Max.X; x++ {
			if tile := t.nivel.Tile(x, y); tile != nil {
				w.tile(tile)
			}
		}
	}
	w.fluxos()
	w.construcoes()
	return w.concluir()
}

// visivel diz se o tile entra na exportação além da cobertura de ocultos.
func (w *trabalhador) visivel(p util.DFCoord) bool {
	t := w.t.nivel.Tile(p.X, p.Y)
	return t == nil || !t.Oculto || w.g.in.IncluirOcultos
}

// global converte um voxel local do tile para o espaço da exportação.
func (w *trabalhador) global(p util.DFCoord, v forma.Voxel) posicao {
	h, sv := int32(w.g.in.Sub.H), int32(w.g.in.Sub.V)
	return posicao{
		X: (p.X-w.g.area.Min.X)*h + int32(v.X),
		Y: (w.g.area.Max.Y-p.Y)*h + (h - 1 - int32(v.Y)),
		Z: (w.z-w.g.in.Inferior)*sv + int32(v.Z),
	}
}

func (w *trabalhador) classificar(ref material.Ref, uso material.Uso) (material.Perfil, bool) {
	k := chavePerfil{ref, uso}
	if c, ok := w.perfis[k]; ok {
		return c.perfil, c.ok
	}
	p, ok := w.g.classif.Classificar(ref, uso, w.g.estacao)
	w.perfis[k] = perfilClassificado{p, ok}
	return p, ok
}

func tipoEm(n *mapdata.Nivel, p util.DFCoord) mapdata.TipoTile {
	if t := n.Tile(p.X, p.Y); t != nil {
		return t.Tipo
	}
	return mapdata.TipoVazio
}

func (w *trabalhador) rand(p util.DFCoord, c aleatorio.Canal) *rand.Rand {
	return aleatorio.ParaTile(w.g.in.Semente, p, c)
}

func (w *trabalhador) avisarMaterial(p util.DFCoord, par dfproto.MatPair) {
	w.g.in.Avisos.Registrar(aviso.MaterialDesconhecido, p, "material %d:%d sem definição", par.MatType, par.MatIndex)
}

// papelParaUso decide uso, prioridade e camada de um voxel da forma de um tile.
func papelParaUso(t *mapdata.Tile, p forma.Papel) (material.Uso, Prioridade, Camada) {
	camada := Terreno
	if t.Vegetacao() {
		camada = Vegetacao
	}
	switch p {
	case forma.Oculto:
		return material.Oculto, PrioEstrutural, Ocultos
	case forma.Interior:
		return material.Interior, PrioEstrutural, camada
	case forma.Crescimento:
		return material.Folhagem, PrioPreenchimento, camada
	case forma.Estrutural:
		if t.Vegetacao() {
			return material.Madeira, PrioEstrutural, camada
		}
		return material.Terreno, PrioEstrutural, camada
	}
	if t.Tipo == mapdata.TipoTronco {
		return material.Madeira, PrioPreenchimento, camada
	}
	return material.Terreno, PrioPreenchimento, camada
}

func (w *trabalhador) tile(t *mapdata.Tile) {
	if t.Tipo == mapdata.TipoDesconhecido {
		w.g.in.Avisos.Registrar(aviso.TileDesconhecido, t.Pos, "tiletype %d sem forma conhecida", t.TiletypeID)
	}
	if t.Oculto && !w.g.in.IncluirOcultos {
		return
	}
	c := forma.Contexto{
		Tile:   t,
		Sub:    w.g.in.Sub,
		Acima:  tipoEm(w.t.acima, t.Pos),
		Abaixo: tipoEm(w.t.abaixo, t.Pos),
		Rand:   w.rand(t.Pos, aleatorio.CanalForma),
	}
	for _, d := range util.Vizinhas8 {
		c.Vizinhos[d] = tipoEm(w.t.nivel, t.Pos.Vizinho(d))
	}
	f := forma.Resolver(c)

	cores := w.rand(t.Pos, aleatorio.CanalCor)
	var brotos []mapdata.Broto
	if t.Vegetacao() && !t.Morto() {
		brotos = w.g.flora.Brotos(t.Material.MatIndex, mapdata.ParteDoTipo(t.Tipo), w.g.tick)
	}
	avisado := false
	for _, v := range f {
		uso, prio, camada := papelParaUso(t, v.Papel)
		ref := material.Ref{Par: t.Material, Categoria: t.Categoria, Morto: t.Morto()}
		if v.Papel == forma.Rugoso || v.Papel == forma.Liso {
			ref.Escuro = escuro(t, v, w.g.in.Sub, cores)
		}
		if v.Papel == forma.Crescimento && len(brotos) > 0 && cores.IntN(5) == 0 {
			b := brotos[cores.IntN(len(brotos))]
			ref, uso = material.Ref{Par: b.Material, Tom: b.Tom + 1}, material.Broto
		}
		p, ok := w.classificar(ref, uso)
		if !ok && !avisado {
			w.avisarMaterial(t.Pos, t.Material)
			avisado = true
		}
		w.buf.escrever(w.global(t.Pos, v), celula{prio: prio, dono: donoCamada(camada), perfil: p})
	}
	if t.Oculto {
		return
	}
	w.liquido(t)
	w.chamas(t, f)
	w.respingos(t, f)
}

// escuro decide se um voxel de superfície usa a variante escura do material.
// Gravuras viram xadrez; pisos naturais ficam salpicados; paredes naturais
// mantêm a cor base.
func escuro(t *mapdata.Tile, v forma.Voxel, s forma.Subdivisao, r *rand.Rand) bool {
	impar := (int(v.X)+int(v.Y))%2 == 1
	switch {
	case t.Gravado && t.Parede():
		// camadas contadas a partir do topo; a de baixo fica lisa
		k := s.V - 1 - int(v.Z)
		if v.Z == 0 {
			return false
		}
		if k%4 == 1 {
			return !impar
		}
		return impar
	case t.Gravado:
		return !impar
	case t.Rugoso() && plano(t.Tipo):
		return r.IntN(2) == 0
	}
	return false
}

func plano(tipo mapdata.TipoTile) bool {
	switch tipo {
	case mapdata.TipoPiso, mapdata.TipoPedregulho, mapdata.TipoSeixos, mapdata.TipoLeitoRiacho:
		return true
	}
	return false
}

// liquido enche colunas até a altura proporcional ao nível 1..7.
func (w *trabalhador) liquido(t *mapdata.Tile) {
	uso, nivel := material.Agua, t.Agua
	if t.Magma > 0 {
		uso, nivel = material.Magma, t.Magma
	}
	if nivel <= 0 {
		return
	}
	s := w.g.in.Sub
	altura := util.CeilDiv(int(util.Clamp(nivel, 1, 7))*s.V, 7)
	p, _ := w.classificar(material.Ref{}, uso)
	for z := 0; z < altura; z++ {
		for y := 0; y < s.H; y++ {
			for x := 0; x < s.H; x++ {
				v := forma.Voxel{X: uint8(x), Y: uint8(y), Z: uint8(z)}
				w.buf.escrever(w.global(t.Pos, v), celula{prio: PrioLiquido, dono: donoCamada(Liquido), perfil: p})
			}
		}
	}
}

// topos devolve, por coluna (y*H+x), a camada livre logo acima do voxel
// mais alto da forma, ou -1 quando a coluna está vazia ou cheia até o topo.
func topos(f forma.Forma, s forma.Subdivisao) []int {
	res := make([]int, s.H*s.H)
	for i := range res {
		res[i] = -1
	}
	for _, v := range f {
		i := int(v.Y)*s.H + int(v.X)
		res[i] = max(res[i], int(v.Z)+1)
	}
	for i, z := range res {
		if z >= s.V {
			res[i] = -1
		}
	}
	return res
}

// chamas espalha voxels emissivos sobre tiles em chamas.
func (w *trabalhador) chamas(t *mapdata.Tile, f forma.Forma) {
	if t.Categoria != dfproto.TilematFire && t.Categoria != dfproto.TilematCampfire {
		return
	}
	s := w.g.in.Sub
	r := w.rand(t.Pos, aleatorio.CanalFluxo)
	p, _ := w.classificar(material.Ref{}, material.Fogo)
	for i, z0 := range topos(f, s) {
		if z0 < 0 {
			continue
		}
		for z := z0; z < min(z0+2, s.V); z++ {
			if !aleatorio.Chance(r, 1, 4) {
				continue
			}
			v := forma.Voxel{X: uint8(i % s.H), Y: uint8(i / s.H), Z: uint8(z)}
			w.buf.escrever(w.global(t.Pos, v), celula{prio: PrioFluxo, dono: donoCamada(Fluxos), perfil: p})
		}
	}
}

// chanceRespingo é a probabilidade de um voxel de respingo por coluna.
func chanceRespingo(r mapdata.Respingo) float64 {
	q := float64(r.Quantidade)
	switch r.Estado {
	case dfproto.MatterSolid:
		return q / 50000
	case dfproto.MatterPowder:
		return q / 100
	}
	return q / 512
}

// respingos pousa manchas sobre o voxel mais alto de cada coluna; no máximo
// uma por coluna, a primeira da lista que for sorteada.
func (w *trabalhador) respingos(t *mapdata.Tile, f forma.Forma) {
	if len(t.Respingos) == 0 || len(f) == 0 {
		return
	}
	s := w.g.in.Sub
	r := w.rand(t.Pos, aleatorio.CanalRespingo)
	for i, z := range topos(f, s) {
		if z < 0 {
			continue
		}
		for _, sp := range t.Respingos {
			if !aleatorio.Probabilidade(r, chanceRespingo(sp)) {
				continue
			}
			p, ok := w.classificar(material.Ref{Par: sp.Material}, material.Respingo)
			if !ok {
				w.avisarMaterial(t.Pos, sp.Material)
			}
			v := forma.Voxel{X: uint8(i % s.H), Y: uint8(i / s.H), Z: uint8(z)}
			w.buf.escrever(w.global(t.Pos, v), celula{prio: PrioRespingo, dono: donoCamada(Respingos), perfil: p})
			break
		}
	}
}

// fluxos preenche cada célula com densidade/200 de chance por voxel.
func (w *trabalhador) fluxos() {
	s := w.g.in.Sub
	for _, fl := range w.t.fluxos {
		if fl.Pos.Z != w.z || !w.g.area.Contem(fl.Pos) || !w.visivel(fl.Pos) {
			continue
		}
		if fl.Tipo < dfproto.FlowCampFire || fl.Tipo > dfproto.FlowItemCloud {
			w.g.in.Avisos.Registrar(aviso.FluxoInvalido, fl.Pos, "tipo de fluxo %d", fl.Tipo)
			continue
		}
		uso := material.UsoDoFluxo(fl.Tipo)
		p, ok := w.classificar(material.Ref{Par: fl.Material}, uso)
		if !ok {
			w.avisarMaterial(fl.Pos, fl.Material)
		}
		r := w.rand(fl.Pos, aleatorio.CanalFluxo)
		for z := 0; z < s.V; z++ {
			for y := 0; y < s.H; y++ {
				for x := 0; x < s.H; x++ {
					if !aleatorio.Chance(r, int(fl.Intensidade), 200) {
						continue
					}
					v := forma.Voxel{X: uint8(x), Y: uint8(y), Z: uint8(z)}
					w.buf.escrever(w.global(fl.Pos, v), celula{prio: PrioFluxo, dono: donoCamada(Fluxos), perfil: p})
				}
			}
		}
	}
}

// concluir resolve os perfis na paleta e separa os voxels por camada e edifício.
func (w *trabalhador) concluir() saidaNivel {
	sessao := w.g.in.Paleta.NovaSessao()
	defer sessao.Fechar()
	porDono := w.buf.esvaziar(sessao)

	res := saidaNivel{nivel: Nivel{Z: w.z}, fragmentos: make(map[int32]fragmento)}
	for d, vs := range porDono {
		if c, ok := d.camada(); ok {
			res.nivel.Camadas[c] = vs
			continue
		}
		i, _ := d.edificio()
		e := w.edificios[i]
		res.fragmentos[e.ID] = fragmento{voxels: vs, quartos: w.quartos[e.ID]}
	}
	return res
}
