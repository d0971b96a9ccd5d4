// Package grade transforma um intervalo de níveis do mapa em voxels já
// resolvidos por prioridade e separados por camada e por edifício.
package grade

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/alitto/pond/v2"

	"FortressVox/exportador/internal/aviso"
	"FortressVox/exportador/internal/forma"
	"FortressVox/exportador/internal/material"
	"FortressVox/exportador/internal/paleta"
	"FortressVox/shared/logger"
	"FortressVox/shared/mapdata"
	"FortressVox/shared/util"
)

// ErrLimitesInvalidos indica inferior > superior ou um intervalo fora do mapa.
var ErrLimitesInvalidos = errors.New("limites de altitude inválidos")

// Voxel é uma célula no espaço global de voxels da exportação: X para leste,
// Y para o norte e Z para cima, todos a partir de 0.
type Voxel struct {
	X, Y, Z int32
	Cor     paleta.Ref
}

// Camada é o objeto de um nível onde o voxel vai parar.
type Camada uint8

const (
	Terreno Camada = iota
	Liquido
	Vegetacao
	Fluxos
	Ocultos
	Respingos

	NumCamadas = int(Respingos) + 1
)

var nomesCamada = [NumCamadas]string{"terreno", "liquido", "vegetacao", "fluxos", "ocultos", "respingos"}

func (c Camada) String() string {
	if int(c) < NumCamadas {
		return nomesCamada[c]
	}
	return fmt.Sprintf("Camada(%d)", c)
}

// Nivel guarda as camadas de um z, cada uma ordenada por z, y, x.
type Nivel struct {
	Z       int32
	Camadas [NumCamadas][]Voxel
}

// Construcao reúne todos os voxels de um edifício, de todos os níveis que ele
// toca. Quartos > 0 pede rotação no nó em vez de voxels já girados; nesse
// caso os voxels estão voltados para o norte e Min/Max cobrem a pegada.
type Construcao struct {
	ID      int32
	Tipo    mapdata.TipoEdificio
	Z       int32 // primeiro nível exportado com voxels do edifício
	Min     [3]int32
	Max     [3]int32
	Quartos int
	Voxels  []Voxel
}

// Entrada são os parâmetros de uma construção de grade.
type Entrada struct {
	Leitor mapdata.Leitor

	// Inferior e Superior são níveis z, inclusivos.
	Inferior, Superior int32
	// Area recorta o mapa na horizontal; vazia usa o mapa inteiro.
	Area util.Caixa

	Sub            forma.Subdivisao
	IncluirOcultos bool
	Semente        uint64
	// Estacao força a estação; nil usa a do jogo.
	Estacao *mapdata.Estacao

	Regras        *material.Regras
	Paleta        *paleta.Alocador
	Trabalhadores int
	Avisos        *aviso.Coletor

	// Progresso é chamado de dentro dos workers a cada nível concluído e não
	// deve bloquear.
	Progresso func(feitos, total int)
}

// Resultado é a grade completa, pronta para agrupar.
type Resultado struct {
	Info     mapdata.InfoMapa
	Area     util.Caixa
	Inferior int32
	Superior int32
	Sub      forma.Subdivisao
	Estacao  mapdata.Estacao

	// Tamanho é a extensão global em voxels.
	Tamanho [3]int32

	Niveis      []Nivel
	Construcoes []Construcao
}

// Construtor monta grades. O valor zero serve.
type Construtor struct{}

var log = logger.Com("grade")

// Construir busca os níveis em ordem e os processa em paralelo, um worker por
// nível. Erros do leitor interrompem tudo; problemas de dados viram avisos.
func (Construtor) Construir(ctx context.Context, in Entrada) (Resultado, error) {
	if in.Inferior > in.Superior {
		return Resultado{}, fmt.Errorf("%w: inferior %d > superior %d", ErrLimitesInvalidos, in.Inferior, in.Superior)
	}
	if in.Leitor == nil || in.Paleta == nil {
		return Resultado{}, errors.New("grade: leitor e paleta são obrigatórios")
	}
	if in.Sub == (forma.Subdivisao{}) {
		in.Sub = forma.SubdivisaoPadrao
	}
	if !in.Sub.Valida() {
		return Resultado{}, fmt.Errorf("subdivisão inválida %dx%d", in.Sub.H, in.Sub.V)
	}
	if in.Avisos == nil {
		in.Avisos = aviso.NovoColetor()
	}
	if in.Trabalhadores <= 0 {
		in.Trabalhadores = 1
	}

	info, err := in.Leitor.Info(ctx)
	if err != nil {
		return Resultado{}, fmt.Errorf("lendo informações do mapa: %w", err)
	}
	if in.Inferior < 0 || (info.TamanhoZ > 0 && in.Superior >= info.TamanhoZ) {
		return Resultado{}, fmt.Errorf("%w: %d..%d fora de 0..%d", ErrLimitesInvalidos, in.Inferior, in.Superior, info.TamanhoZ-1)
	}
	area := in.Area
	if area == (util.Caixa{}) {
		area = info.Area(0)
	}
	if !area.Valida() {
		return Resultado{}, fmt.Errorf("%w: área %v..%v", ErrLimitesInvalidos, area.Min, area.Max)
	}
	area.Min.Z, area.Max.Z = in.Inferior, in.Superior

	mats, err := in.Leitor.Materiais(ctx)
	if err != nil {
		return Resultado{}, fmt.Errorf("lendo materiais: %w", err)
	}
	var estacao mapdata.Estacao
	if in.Estacao != nil {
		estacao = *in.Estacao
	} else if estacao, err = in.Leitor.Estacao(ctx); err != nil {
		return Resultado{}, fmt.Errorf("lendo estação: %w", err)
	}

	flora, err := in.Leitor.Flora(ctx)
	if err != nil {
		return Resultado{}, fmt.Errorf("lendo plantas: %w", err)
	}
	if flora == nil {
		flora = &mapdata.Flora{Tick: mapdata.TickDaEstacao(estacao)}
	}
	tick := flora.Tick
	if in.Estacao != nil {
		tick = mapdata.TickDaEstacao(estacao)
	}

	brutos, err := in.Leitor.Edificios(ctx, in.Inferior, in.Superior)
	if err != nil {
		return Resultado{}, fmt.Errorf("lendo edifícios: %w", err)
	}
	eds := filtrarEdificios(brutos, area, in.Avisos)
	idx := mapdata.NovoIndiceEdificios(eds)

	g := &geracao{
		in:      in,
		info:    info,
		area:    area,
		estacao: estacao,
		flora:   flora,
		tick:    tick,
		classif: material.NovoClassificador(mats, in.Regras),
		indice:  idx,
		total:   int(in.Superior - in.Inferior + 1),
	}
	log.WithField("niveis", g.total).WithField("edificios", idx.Len()).Debug("construindo grade")

	saidas, err := g.executar(ctx)
	if err != nil {
		return Resultado{}, err
	}

	h, v := int32(in.Sub.H), int32(in.Sub.V)
	res := Resultado{
		Info:     info,
		Area:     area,
		Inferior: in.Inferior,
		Superior: in.Superior,
		Sub:      in.Sub,
		Estacao:  estacao,
		Tamanho:  [3]int32{area.Largura() * h, area.Altura() * h, int32(g.total) * v},
	}
	res.Niveis, res.Construcoes = g.juntar(saidas)
	return res, nil
}

// filtrarEdificios descarta os que não existem mais, os inválidos (com aviso)
// e os que não tocam a área.
func filtrarEdificios(brutos []mapdata.Edificio, area util.Caixa, avisos *aviso.Coletor) []mapdata.Edificio {
	var res []mapdata.Edificio
	for _, e := range brutos {
		if !e.Existe {
			continue
		}
		if err := e.Validar(); err != nil {
			avisos.Registrar(aviso.EdificioInvalido, e.Min, "%v", err)
			continue
		}
		toca := e.Max.X >= area.Min.X && e.Min.X <= area.Max.X &&
			e.Max.Y >= area.Min.Y && e.Min.Y <= area.Max.Y &&
			e.Max.Z >= area.Min.Z && e.Min.Z <= area.Max.Z
		if toca {
			res = append(res, e)
		}
	}
	return res
}

// geracao é o estado compartilhado (somente leitura) entre os workers.
type geracao struct {
	in      Entrada
	info    mapdata.InfoMapa
	area    util.Caixa
	estacao mapdata.Estacao
	flora   *mapdata.Flora
	tick    int32
	classif *material.Classificador
	indice  *mapdata.IndiceEdificios
	total   int

	mu     sync.Mutex
	feitos int
}

// trabalho é tudo que um worker precisa para um nível. abaixo e acima podem
// ser nil fora do mapa.
type trabalho struct {
	abaixo, nivel, acima *mapdata.Nivel
	fluxos               []mapdata.CelulaFluxo
}

type saidaNivel struct {
	nivel      Nivel
	fragmentos map[int32]fragmento
}

// fragmento é a parte de um edifício gerada num nível.
type fragmento struct {
	voxels  []Voxel
	quartos int
}

// executar busca nível a nível, com um de folga acima e abaixo para o
// contexto vertical, e entrega cada nível completo a um worker do pool.
func (g *geracao) executar(ctx context.Context) ([]saidaNivel, error) {
	in := g.in
	pool := pond.NewPool(in.Trabalhadores)
	defer pool.StopAndWait()

	saidas := make([]saidaNivel, g.total)
	var wg sync.WaitGroup

	buscar := func(z int32) (*mapdata.Nivel, error) {
		if z < 0 || (g.info.TamanhoZ > 0 && z >= g.info.TamanhoZ) {
			return nil, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := in.Leitor.Tiles(ctx, z, g.area)
		if err != nil {
			return nil, fmt.Errorf("lendo nível %d: %w", z, err)
		}
		return n, nil
	}

	var (
		abaixo, atual *mapdata.Nivel
		err           error
	)
	if abaixo, err = buscar(in.Inferior - 1); err != nil {
		return nil, err
	}
	if atual, err = buscar(in.Inferior); err != nil {
		return nil, err
	}
	for z := in.Inferior; z <= in.Superior; z++ {
		acima, err := buscar(z + 1)
		if err != nil {
			wg.Wait()
			return nil, err
		}
		fluxos, err := in.Leitor.Fluxos(ctx, z)
		if err != nil {
			wg.Wait()
			return nil, fmt.Errorf("lendo fluxos do nível %d: %w", z, err)
		}
		t := trabalho{abaixo: abaixo, nivel: atual, acima: acima, fluxos: fluxos}
		i := int(z - in.Inferior)
		wg.Add(1)
		pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			saidas[i] = g.processar(t)
			g.avancar()
		})
		abaixo, atual = atual, acima
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return saidas, nil
}

func (g *geracao) avancar() {
	g.mu.Lock()
	g.feitos++
	feitos := g.feitos
	g.mu.Unlock()
	if g.in.Progresso != nil {
		g.in.Progresso(feitos, g.total)
	}
}

// juntar separa os níveis e concatena, na ordem dos níveis, os fragmentos
// de cada edifício.
func (g *geracao) juntar(saidas []saidaNivel) ([]Nivel, []Construcao) {
	niveis := make([]Nivel, len(saidas))
	for i, s := range saidas {
		niveis[i] = s.nivel
	}
	var res []Construcao
	for _, e := range g.indice.Todos() {
		c := Construcao{ID: e.ID, Tipo: e.Tipo}
		primeiro := true
		for i, s := range saidas {
			f, ok := s.fragmentos[e.ID]
			if !ok || len(f.voxels) == 0 {
				continue
			}
			if primeiro {
				c.Z = g.in.Inferior + int32(i)
				c.Quartos = f.quartos
				primeiro = false
			}
			c.Voxels = append(c.Voxels, f.voxels...)
		}
		if primeiro {
			continue
		}
		c.Min, c.Max = caixaVoxels(c.Voxels)
		if c.Quartos != 0 {
			c.Min, c.Max = g.caixaPegada(e, c.Z)
		}
		res = append(res, c)
	}
	return niveis, res
}

func caixaVoxels(vs []Voxel) (lo, hi [3]int32) {
	lo = [3]int32{vs[0].X, vs[0].Y, vs[0].Z}
	hi = lo
	for _, v := range vs[1:] {
		lo = [3]int32{min(lo[0], v.X), min(lo[1], v.Y), min(lo[2], v.Z)}
		hi = [3]int32{max(hi[0], v.X), max(hi[1], v.Y), max(hi[2], v.Z)}
	}
	return lo, hi
}

// caixaPegada é o volume em voxels da pegada do edifício no nível z.
func (g *geracao) caixaPegada(e *mapdata.Edificio, z int32) (lo, hi [3]int32) {
	h, v := int32(g.in.Sub.H), int32(g.in.Sub.V)
	lo = [3]int32{
		(e.Min.X - g.area.Min.X) * h,
		(g.area.Max.Y - e.Max.Y) * h,
		(z - g.in.Inferior) * v,
	}
	hi = [3]int32{
		(e.Max.X-g.area.Min.X+1)*h - 1,
		(g.area.Max.Y-e.Min.Y+1)*h - 1,
		lo[2] + v - 1,
	}
	return lo, hi
}
