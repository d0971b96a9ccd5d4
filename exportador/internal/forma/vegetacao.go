package forma

import "FortressVox/shared/util"

var (
	padraoTronco     = desenho(".#. ### .#.", ".#. ### .#.", ".#. ### .#.", ".#. ### .#.", ".#. ### .#.")
	padraoTroncoBase = desenho(".#. ### .#.", ".#. ### .#.", ".#. ### .#.", ".#. ### .#.", "### ### ###")
	padraoGraveto    = desenho(".#. ### .#.", nada, nada, nada, nada)
	padraoArbusto    = desenho(nada, nada, nada, nada, "### ### ###")
	padraoMuda       = desenho(nada, nada, ".#. ### .#.", "... .#. ...", "... .#. ...")
)

// tronco é uma cruz em todas as camadas; apoiado no chão ganha uma base cheia.
func tronco(c *Contexto) Forma {
	if ehPlanta(c.Abaixo) {
		return padraoTronco.amostrar(c.Sub, Estrutural)
	}
	return padraoTroncoBase.amostrar(c.Sub, Estrutural)
}

// galho liga o centro aos vizinhos que também são planta, com folhas em volta.
func galho(c *Contexto) Forma {
	var p padrao
	p[2][1][1] = true
	p[2][0][1] = ehPlanta(c.vizinho(util.Norte))
	p[2][1][2] = ehPlanta(c.vizinho(util.Leste))
	p[2][2][1] = ehPlanta(c.vizinho(util.Sul))
	p[2][1][0] = ehPlanta(c.vizinho(util.Oeste))
	f := p.amostrar(c.Sub, Estrutural)
	return append(f, salpicar(c, 1, 3, 1, 5, Crescimento)...)
}

func graveto(c *Contexto) Forma {
	f := padraoGraveto.amostrar(c.Sub, Estrutural)
	return append(f, salpicar(c, 1, 3, 1, 5, Crescimento)...)
}

func arbusto(c *Contexto) Forma {
	f := padraoArbusto.amostrar(c.Sub, Crescimento)
	return append(f, salpicar(c, 3, 3, 1, 7, Crescimento)...)
}

func muda(c *Contexto) Forma {
	return padraoMuda.amostrar(c.Sub, Crescimento)
}
