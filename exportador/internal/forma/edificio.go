package forma

import (
	"FortressVox/shared/mapdata"
	"FortressVox/shared/pkg/dfproto"
	"FortressVox/shared/util"
)

// ContextoEdificio descreve um tile da pegada de um edifício.
type ContextoEdificio struct {
	Edificio *mapdata.Edificio
	Pos      util.DFCoord
	// Conexoes[d] para d cardeal: parede ou edifício do mesmo tipo ao lado.
	Conexoes [4]bool
	Sub      Subdivisao
}

// Desenhos voltados para o norte; Orientavel diz quais devem ser girados.
var desenhosEdificio = map[dfproto.BuildingKind]padrao{
	dfproto.BuildingChair:            desenho(nada, nada, nada, "... .#. ...", nada),
	dfproto.BuildingAnimalTrap:       desenho(nada, nada, nada, "... .#. ...", nada),
	dfproto.BuildingChain:            desenho(nada, nada, nada, "... .#. ...", nada),
	dfproto.BuildingDisplayFurniture: desenho(nada, nada, nada, "... .#. ...", nada),
	dfproto.BuildingOfferingPlace:    desenho(nada, nada, nada, "... .#. ...", nada),
	dfproto.BuildingTable:            desenho(nada, nada, "### ### ###", "... .#. ...", nada),
	dfproto.BuildingTractionBench:    desenho(nada, nada, "### ### ###", "... .#. ...", nada),
	dfproto.BuildingBed:              desenho(nada, nada, nada, "### ### ...", nada),
	dfproto.BuildingCoffin:           desenho(nada, nada, nada, "### ### ...", nada),
	dfproto.BuildingBox:              desenho(nada, nada, nada, ".#. ... ...", nada),
	dfproto.BuildingBookcase:         desenho("### ... ...", "### ### ...", "### ... ...", "### ### ...", nada),
	dfproto.BuildingCabinet:          desenho("### ... ...", "### ### ...", "### ... ...", "### ### ...", nada),
	dfproto.BuildingStatue:           desenho(nada, "... .#. ...", ".#. ### .#.", "### ### ###", nada),
	dfproto.BuildingGearAssembly:     desenho(nada, "... .#. ...", ".#. ### .#.", "### ### ###", nada),
	dfproto.BuildingWell:             desenho("... ### ...", "#.# ... #.#", "### #.# ###", "### #.# ###", nada),
	dfproto.BuildingArmorstand:       desenho(nada, "... .#. ...", ".#. ### ...", "... .#. ...", nada),
	dfproto.BuildingWeaponrack:       desenho(nada, "### ... ...", "#.# ... ...", "### ... ...", nada),
	dfproto.BuildingArcheryTarget:    desenho(nada, "### ... ...", "### ... ...", ".#. ... ...", nada),
	dfproto.BuildingHatch:            desenho(nada, nada, nada, "### ### ###", nada),
	dfproto.BuildingBarsVertical:     desenho("... .#. ...", "... .#. ...", "... .#. ...", "... .#. ...", "... .#. ..."),
	dfproto.BuildingGrateWall:        desenho("... .#. ...", "... .#. ...", "... .#. ...", "... .#. ...", "... .#. ..."),
	dfproto.BuildingSupport:          desenho("... .#. ...", "... .#. ...", "... .#. ...", "... .#. ...", "... .#. ..."),
	dfproto.BuildingAxleVertical:     desenho("... .#. ...", "... .#. ...", "... .#. ...", "... .#. ...", "... .#. ..."),
	dfproto.BuildingAxleHorizontal:   desenho(nada, nada, "... ### ...", nada, nada),
}

// Onde aparecem os itens guardados, para os tipos que os mostram.
var desenhosConteudo = map[dfproto.BuildingKind]padrao{
	dfproto.BuildingTable:            desenho(nada, "... .#. ...", nada, nada, nada),
	dfproto.BuildingDisplayFurniture: desenho(nada, nada, "... .#. ...", nada, nada),
	dfproto.BuildingBookcase:         desenho(nada, nada, "... #.# ...", nada, nada),
	dfproto.BuildingCabinet:          desenho(nada, nada, "... #.# ...", nada, nada),
	dfproto.BuildingWeaponrack:       desenho(nada, nada, ".#. ... ...", nada, nada),
}

// Orientavel indica se a forma do tipo depende da direção do edifício.
func Orientavel(k dfproto.BuildingKind) bool {
	switch k {
	case dfproto.BuildingBed, dfproto.BuildingBox, dfproto.BuildingBookcase, dfproto.BuildingCabinet,
		dfproto.BuildingArmorstand, dfproto.BuildingWeaponrack, dfproto.BuildingArcheryTarget:
		return true
	}
	return false
}

// Orientacao devolve para onde o edifício olha: a direção informada pelo
// jogo se for cardeal, senão o lado com mais paredes em volta.
func Orientacao(e *mapdata.Edificio, paredes [8]bool) util.Direcao {
	if e.Direcao.Cardeal() {
		return e.Direcao
	}
	return DirecaoParede(paredes)
}

// DirecaoParede pontua cada lado cardeal: 4 por parede encostada e 1 por
// diagonal vizinha. Empates ficam com o primeiro em N, E, S, W.
func DirecaoParede(paredes [8]bool) util.Direcao {
	cantos := [4][2]util.Direcao{
		util.Norte: {util.Noroeste, util.Nordeste},
		util.Leste: {util.Nordeste, util.Sudeste},
		util.Sul:   {util.Sudeste, util.Sudoeste},
		util.Oeste: {util.Sudoeste, util.Noroeste},
	}
	melhor, pontos := util.Norte, -1
	for _, d := range util.Cardeais {
		p := 0
		if paredes[d] {
			p += 4
		}
		for _, c := range cantos[d] {
			if paredes[c] {
				p++
			}
		}
		if p > pontos {
			melhor, pontos = d, p
		}
	}
	return melhor
}

// Edificio devolve a forma de um tile da pegada, ainda voltada para o norte.
// Tipos sem desenho (zonas, estoques, oficinas de outro porte...) dão forma vazia.
func Edificio(c ContextoEdificio) Forma {
	if c.Edificio == nil || !c.Sub.Valida() {
		return nil
	}
	k := c.Edificio.Tipo.Tipo
	if p, ok := desenhosEdificio[k]; ok {
		f := p.amostrar(c.Sub, Estrutural)
		if q, ok := desenhosConteudo[k]; ok && len(c.Edificio.Conteudo) > 0 {
			f = append(f, q.amostrar(c.Sub, Conteudo)...)
		}
		return normalizar(f)
	}
	switch k {
	case dfproto.BuildingDoor, dfproto.BuildingWindowGlass, dfproto.BuildingWindowGem, dfproto.BuildingFloodgate:
		return normalizar(porta(c))
	case dfproto.BuildingGrateFloor, dfproto.BuildingBarsFloor:
		return normalizar(grade(c))
	case dfproto.BuildingBridge:
		return normalizar(ponte(c))
	case dfproto.BuildingWorkshop, dfproto.BuildingFurnace:
		return normalizar(oficina(c))
	}
	return nil
}

// porta preenche o centro e se estende até as paredes ou portas vizinhas.
func porta(c ContextoEdificio) Forma {
	var p padrao
	for camada := 0; camada < baseV-1; camada++ {
		p[camada][1][1] = true
		p[camada][0][1] = c.Conexoes[util.Norte]
		p[camada][1][2] = c.Conexoes[util.Leste]
		p[camada][2][1] = c.Conexoes[util.Sul]
		p[camada][1][0] = c.Conexoes[util.Oeste]
	}
	return p.amostrar(c.Sub, Estrutural)
}

// grade é um xadrez contínuo entre tiles vizinhos, em coordenadas globais de voxel.
func grade(c ContextoEdificio) Forma {
	var f Forma
	h := c.Sub.H
	espessura := max(1, c.Sub.V/baseV)
	for z := 0; z < espessura; z++ {
		for y := 0; y < h; y++ {
			gy := int(c.Pos.Y)*h + y
			for x := 0; x < h; x++ {
				gx := int(c.Pos.X)*h + x
				if gx%2 == 0 || gy%2 == 0 {
					f = append(f, Voxel{X: uint8(x), Y: uint8(y), Z: uint8(z), Papel: Estrutural})
				}
			}
		}
	}
	return f
}

// ponte: tabuleiro na base e guarda-corpos nas bordas paralelas à travessia.
func ponte(c ContextoEdificio) Forma {
	var p padrao
	for y := range baseH {
		for x := range baseH {
			p[baseV-1][y][x] = true
		}
	}
	e := c.Edificio
	for i := range baseH {
		switch e.Direcao {
		case util.Norte, util.Sul:
			p[3][i][0] = p[3][i][0] || c.Pos.X == e.Min.X
			p[3][i][2] = p[3][i][2] || c.Pos.X == e.Max.X
		case util.Leste, util.Oeste:
			p[3][0][i] = p[3][0][i] || c.Pos.Y == e.Min.Y
			p[3][2][i] = p[3][2][i] || c.Pos.Y == e.Max.Y
		}
	}
	return p.amostrar(c.Sub, Estrutural)
}

// oficina: bancada no tile central, mureta na borda externa e pilares nos cantos.
func oficina(c ContextoEdificio) Forma {
	var p padrao
	e := c.Edificio
	norte, sul := c.Pos.Y == e.Min.Y, c.Pos.Y == e.Max.Y
	oeste, leste := c.Pos.X == e.Min.X, c.Pos.X == e.Max.X
	if !norte && !sul && !oeste && !leste {
		p[2] = [baseH][baseH]bool{{true, true, true}, {true, true, true}, {true, true, true}}
		p[3][1][1] = true
		return p.amostrar(c.Sub, Estrutural)
	}
	for i := range baseH {
		p[3][0][i] = p[3][0][i] || norte
		p[3][2][i] = p[3][2][i] || sul
		p[3][i][0] = p[3][i][0] || oeste
		p[3][i][2] = p[3][i][2] || leste
	}
	pilar := func(y, x int) {
		for camada := 0; camada < baseV-1; camada++ {
			p[camada][y][x] = true
		}
	}
	if norte && oeste {
		pilar(0, 0)
	}
	if norte && leste {
		pilar(0, 2)
	}
	if sul && oeste {
		pilar(2, 0)
	}
	if sul && leste {
		pilar(2, 2)
	}
	return p.amostrar(c.Sub, Estrutural)
}
