package vox

import (
	"bufio"
	"fmt"
	"io"

	"FortressVox/exportador/internal/cena"
	"FortressVox/exportador/internal/paleta"
	"FortressVox/shared/logger"
)

var log = logger.Com("vox")

// Indexador resolve os identificadores da grade em índices da paleta final.
type Indexador interface {
	Indice(r paleta.Ref) uint8
}

type tipoNo uint8

const (
	transformacao tipoNo = iota
	grupo
	forma
)

type no struct {
	tipo   tipoNo
	attrs  dicionario
	quadro dicionario
	filho  int32
	camada int32
	filhos []int32
	modelo int32
}

type modelo struct {
	tam    [3]int32
	voxels []byte
}

type escritor struct {
	idx     Indexador
	origem  [3]int32
	nos     []no
	modelos []modelo
}

// Escrever grava a cena em w. Objetos ainda não particionados são cortados
// com o limite padrão. A origem do arquivo fica no centro do mapa em X e Y
// e no chão do nível mais baixo.
func Escrever(w io.Writer, c *cena.Cena, tabela []paleta.Entrada, idx Indexador) error {
	e := &escritor{idx: idx, origem: [3]int32{c.Tamanho[0] / 2, c.Tamanho[1] / 2, 0}}

	raiz := e.novo(no{tipo: transformacao, camada: -1, quadro: dicionario{}})
	e.nos[raiz].filho = e.grupo(c.Raiz)

	var filhos bloco
	for _, m := range e.modelos {
		var tam bloco
		tam.i32(m.tam[0])
		tam.i32(m.tam[1])
		tam.i32(m.tam[2])
		if err := chunk(&filhos, "SIZE", tam.Bytes(), nil); err != nil {
			return err
		}
		if err := chunk(&filhos, "XYZI", m.voxels, nil); err != nil {
			return err
		}
	}
	for id, n := range e.nos {
		if err := escreverNo(&filhos, int32(id), n); err != nil {
			return err
		}
	}
	for id, cam := range c.Camadas {
		var b bloco
		b.i32(int32(id))
		d := dicionario{{"_name", cam.Nome}}
		if cam.Oculta {
			d = append(d, par{"_hidden", "1"})
		}
		b.dict(d)
		b.i32(-1)
		if err := chunk(&filhos, "LAYR", b.Bytes(), nil); err != nil {
			return err
		}
	}
	if err := chunk(&filhos, "RGBA", cores(tabela), nil); err != nil {
		return err
	}
	for _, ent := range tabela {
		var b bloco
		b.i32(int32(ent.Indice))
		b.dict(propriedades(ent))
		if err := chunk(&filhos, "MATL", b.Bytes(), nil); err != nil {
			return err
		}
	}

	bw := bufio.NewWriter(w)
	var cab bloco
	cab.WriteString(Magica)
	cab.i32(Versao)
	if _, err := bw.Write(cab.Bytes()); err != nil {
		return err
	}
	if err := chunk(bw, "MAIN", nil, filhos.Bytes()); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("gravando .vox: %w", err)
	}
	log.WithField("modelos", len(e.modelos)).WithField("nos", len(e.nos)).Debug("cena gravada")
	return nil
}

func (e *escritor) novo(n no) int32 {
	e.nos = append(e.nos, n)
	return int32(len(e.nos) - 1)
}

// grupo cria o nGRP de g e, abaixo dele, os objetos e depois os subgrupos.
func (e *escritor) grupo(g *cena.Grupo) int32 {
	id := e.novo(no{tipo: grupo})
	for _, o := range g.Objetos {
		if t, ok := e.objeto(o); ok {
			e.nos[id].filhos = append(e.nos[id].filhos, t)
		}
	}
	for _, s := range g.Grupos {
		t := e.novo(no{tipo: transformacao, attrs: dicionario{{"_name", s.Nome}}, quadro: dicionario{}})
		e.nos[t].filho = e.grupo(s)
		e.nos[id].filhos = append(e.nos[id].filhos, t)
	}
	return id
}

// centro é onde o MagicaVoxel põe o meio de um modelo com essa caixa.
func centro(lo, hi [3]int32) [3]int32 {
	var c [3]int32
	for i := range c {
		c[i] = lo[i] + (hi[i]-lo[i]+1)/2
	}
	return c
}

func sub(a, b [3]int32) [3]int32 {
	return [3]int32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func quadro(t [3]int32, quartos int) dicionario {
	var d dicionario
	if quartos%4 != 0 {
		d = append(d, par{"_r", fmt.Sprint(Rotacao(quartos))})
	}
	return append(d, par{"_t", fmt.Sprintf("%d %d %d", t[0], t[1], t[2])})
}

// objeto cria o nTRN do objeto. Com um só pedaço ele aponta direto para o
// nSHP; com vários, para um nGRP cujos filhos são deslocados a partir do
// centro do objeto.
func (e *escritor) objeto(o *cena.Objeto) (int32, bool) {
	pedacos := o.Pedacos
	if pedacos == nil {
		pedacos = cena.Particionar(o, cena.LimitePadrao)
	}
	if len(pedacos) == 0 {
		return 0, false
	}
	camada := int32(o.Camada)
	t := e.novo(no{tipo: transformacao, attrs: dicionario{{"_name", o.Nome}}, camada: camada})
	if len(pedacos) == 1 {
		p := pedacos[0]
		e.nos[t].quadro = quadro(sub(centro(p.Min, p.Max), e.origem), o.Quartos)
		e.nos[t].filho = e.forma(p)
		return t, true
	}

	pivo := centro(o.Min, o.Max)
	e.nos[t].quadro = quadro(sub(pivo, e.origem), o.Quartos)
	g := e.novo(no{tipo: grupo})
	e.nos[t].filho = g
	for _, p := range pedacos {
		pt := e.novo(no{tipo: transformacao, camada: camada, quadro: quadro(sub(centro(p.Min, p.Max), pivo), 0)})
		e.nos[pt].filho = e.forma(p)
		e.nos[g].filhos = append(e.nos[g].filhos, pt)
	}
	return t, true
}

// forma registra o modelo do pedaço e cria o nSHP que o usa.
func (e *escritor) forma(p cena.Pedaco) int32 {
	var b bloco
	b.i32(0)
	n := int32(0)
	for _, v := range p.Voxels {
		i := e.idx.Indice(v.Cor)
		if i == 0 {
			continue
		}
		b.WriteByte(byte(v.X - p.Min[0]))
		b.WriteByte(byte(v.Y - p.Min[1]))
		b.WriteByte(byte(v.Z - p.Min[2]))
		b.WriteByte(i)
		n++
	}
	dados := b.Bytes()
	dados[0], dados[1], dados[2], dados[3] = byte(n), byte(n>>8), byte(n>>16), byte(n>>24)

	id := int32(len(e.modelos))
	e.modelos = append(e.modelos, modelo{tam: p.Tamanho(), voxels: dados})
	return e.novo(no{tipo: forma, modelo: id})
}

func escreverNo(w io.Writer, id int32, n no) error {
	var b bloco
	b.i32(id)
	b.dict(n.attrs)
	switch n.tipo {
	case transformacao:
		b.i32(n.filho)
		b.i32(-1)
		b.i32(n.camada)
		b.i32(1)
		b.dict(n.quadro)
		return chunk(w, "nTRN", b.Bytes(), nil)
	case grupo:
		b.i32(int32(len(n.filhos)))
		for _, f := range n.filhos {
			b.i32(f)
		}
		return chunk(w, "nGRP", b.Bytes(), nil)
	default:
		b.i32(1)
		b.i32(n.modelo)
		b.dict(nil)
		return chunk(w, "nSHP", b.Bytes(), nil)
	}
}

// cores monta o RGBA: o índice i ocupa a posição i-1.
func cores(tabela []paleta.Entrada) []byte {
	rgba := make([]byte, 256*4)
	for _, ent := range tabela {
		if ent.Indice == 0 {
			continue
		}
		o := (int(ent.Indice) - 1) * 4
		p := ent.Perfil
		rgba[o], rgba[o+1], rgba[o+2], rgba[o+3] = p.R, p.G, p.B, p.A
	}
	return rgba
}

func propriedades(ent paleta.Entrada) dicionario {
	p := ent.Perfil
	rough, ior, d := p.Rugosidade, p.IOR, p.Densidade
	if rough == 0 {
		rough = 10
	}
	if ior == 0 {
		ior = 30
	}
	if d == 0 {
		d = 5
	}
	res := dicionario{
		{"_type", p.Tipo.String()},
		{"_rough", formatarFracao(rough)},
		{"_ior", formatarFracao(ior)},
	}
	if p.Metalico > 0 {
		res = append(res, par{"_metal", formatarFracao(p.Metalico)})
	}
	if p.Emissao > 0 {
		res = append(res, par{"_emit", formatarFracao(p.Emissao)}, par{"_flux", fmt.Sprint(p.Fluxo)})
	}
	if p.Transparencia > 0 {
		res = append(res, par{"_trans", formatarFracao(p.Transparencia)}, par{"_alpha", formatarFracao(p.Transparencia)})
	}
	res = append(res, par{"_d", formatarFracao(d)})
	if m := p.Meio.String(); m != "" {
		res = append(res, par{"_media", m})
	}
	return res
}
