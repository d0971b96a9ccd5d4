package forma

import (
	"math"

	"FortressVox/shared/mapdata"
	"FortressVox/shared/util"
)

var (
	padraoPiso       = desenho(nada, nada, nada, nada, "### ### ###")
	padraoPedregulho = desenho(nada, nada, nada, "... .#. ...", "### ### ###")
)

func piso(c *Contexto) Forma {
	return padraoPiso.amostrar(c.Sub, superficie(c.Tile))
}

func pedregulho(c *Contexto) Forma {
	return padraoPedregulho.amostrar(c.Sub, superficie(c.Tile))
}

// seixos é um piso com pedrinhas soltas na camada logo acima.
func seixos(c *Contexto) Forma {
	p := superficie(c.Tile)
	f := padraoPiso.amostrar(c.Sub, p)
	return append(f, salpicar(c, baseV-2, baseV-2, 1, 6, p)...)
}

// parede é um cubo cheio. Numa parede encostada em outras, o que não aparece
// de lado vira Interior, a não ser na borda de cima ou de baixo quando não há
// parede ali. Paredes isoladas não têm interior.
func parede(c *Contexto) Forma {
	p := superficie(c.Tile)
	n := c.Sub.H - 1
	encostada := false
	for _, d := range util.Cardeais {
		encostada = encostada || c.paredeEm(d)
	}
	f := make(Forma, 0, c.Sub.H*c.Sub.H*c.Sub.V)
	for z := 0; z < c.Sub.V; z++ {
		expostoZ := (z == c.Sub.V-1 && !ehParede(c.Acima)) || (z == 0 && !ehParede(c.Abaixo))
		for y := 0; y <= n; y++ {
			for x := 0; x <= n; x++ {
				papel := p
				if encostada && !expostoZ && c.escondido(x, y, n) {
					papel = Interior
				}
				f = append(f, Voxel{X: uint8(x), Y: uint8(y), Z: uint8(z), Papel: papel})
			}
		}
	}
	return f
}

// escondido indica se a coluna (x, y) da parede não aparece de lado.
func (c *Contexto) escondido(x, y, n int) bool {
	var lados []util.Direcao
	if y == 0 {
		lados = append(lados, util.Norte)
	}
	if x == n {
		lados = append(lados, util.Leste)
	}
	if y == n {
		lados = append(lados, util.Sul)
	}
	if x == 0 {
		lados = append(lados, util.Oeste)
	}
	for _, d := range lados {
		if !c.paredeEm(d) {
			return false
		}
	}
	if len(lados) == 2 {
		return c.paredeEm(diagonalEntre(lados[0], lados[1]))
	}
	return true
}

func diagonalEntre(a, b util.Direcao) util.Direcao {
	if a > b {
		a, b = b, a
	}
	switch {
	case a == util.Norte && b == util.Leste:
		return util.Nordeste
	case a == util.Leste && b == util.Sul:
		return util.Sudeste
	case a == util.Sul && b == util.Oeste:
		return util.Sudoeste
	case a == util.Norte && b == util.Oeste:
		return util.Noroeste
	}
	return util.Nenhuma
}

// DirecaoRampa escolhe para onde a rampa sobe: a primeira parede cardeal
// (N, E, S, W), senão a primeira diagonal (NE, SE, SW, NW), senão Nenhuma.
func DirecaoRampa(vizinhos [8]mapdata.TipoTile) util.Direcao {
	for _, d := range util.Cardeais {
		if ehParede(vizinhos[d]) {
			return d
		}
	}
	for _, d := range util.Diagonais {
		if ehParede(vizinhos[d]) {
			return d
		}
	}
	return util.Nenhuma
}

// rampa sobe linearmente de 1 camada até V camadas no lado da parede.
func rampa(c *Contexto) Forma {
	p := superficie(c.Tile)
	dir := DirecaoRampa(c.Vizinhos)
	n := c.Sub.H - 1
	var f Forma
	for y := 0; y <= n; y++ {
		for x := 0; x <= n; x++ {
			h := 1
			if dir != util.Nenhuma {
				t := inclinacao(dir, x, y, n)
				h = 1 + int(math.Round(float64(c.Sub.V-1)*t))
			}
			for z := 0; z < h; z++ {
				f = append(f, Voxel{X: uint8(x), Y: uint8(y), Z: uint8(z), Papel: p})
			}
		}
	}
	return f
}

// inclinacao vai de 0 no lado oposto a 1 no lado da direção.
func inclinacao(d util.Direcao, x, y, n int) float64 {
	if n == 0 {
		return 1
	}
	norte := float64(n - y)
	sul := float64(y)
	leste := float64(x)
	oeste := float64(n - x)
	fn := float64(n)
	switch d {
	case util.Norte:
		return norte / fn
	case util.Sul:
		return sul / fn
	case util.Leste:
		return leste / fn
	case util.Oeste:
		return oeste / fn
	case util.Nordeste:
		return (norte + leste) / (2 * fn)
	case util.Sudeste:
		return (sul + leste) / (2 * fn)
	case util.Sudoeste:
		return (sul + oeste) / (2 * fn)
	case util.Noroeste:
		return (norte + oeste) / (2 * fn)
	}
	return 0
}

// padraoEscada monta a espiral: cada camada ocupa um lado diferente.
func padraoEscada(sobe, meio, desce, chao bool) padrao {
	var p padrao
	for i := range baseH {
		p[0][2][i] = sobe
		p[1][i][2] = meio
		p[2][0][i] = meio
		p[3][i][0] = meio
		p[4][0][i] = chao
		p[4][1][i] = chao
		p[4][2][i] = desce || chao
	}
	return p
}

var (
	escadaSobe      = padraoEscada(true, true, false, true)
	escadaDesce     = padraoEscada(false, false, true, false)
	escadaSobeDesce = padraoEscada(true, true, true, false)
)

// escada gira a espiral um quarto de volta por nível para que escadas
// empilhadas formem um caracol.
func escada(c *Contexto) Forma {
	var p *padrao
	switch c.Tile.Tipo {
	case mapdata.TipoEscadaSobe:
		p = &escadaSobe
	case mapdata.TipoEscadaDesce:
		p = &escadaDesce
	default:
		p = &escadaSobeDesce
	}
	f := p.amostrar(c.Sub, superficie(c.Tile))
	return Girar(f, c.Sub, int(c.Tile.Pos.Z%4))
}

// fortificacao: três camadas cheias e duas com seteiras voltadas para onde
// não há parede.
func fortificacao(c *Contexto) Forma {
	var p padrao
	for camada := 2; camada < baseV; camada++ {
		for y := range baseH {
			for x := range baseH {
				p[camada][y][x] = true
			}
		}
	}
	for camada := 0; camada < 2; camada++ {
		p[camada][0][0], p[camada][0][2], p[camada][2][0], p[camada][2][2] = true, true, true, true
		p[camada][0][1] = c.paredeEm(util.Norte)
		p[camada][1][2] = c.paredeEm(util.Leste)
		p[camada][2][1] = c.paredeEm(util.Sul)
		p[camada][1][0] = c.paredeEm(util.Oeste)
	}
	return p.amostrar(c.Sub, superficie(c.Tile))
}
