package mapdata

import (
	"context"
	"sort"
	"sync"

	"FortressVox/shared/util"
)

// Snapshot é uma cópia congelada de tudo que um Leitor entregou.
type Snapshot struct {
	Info      InfoMapa
	Materiais []DefinicaoMaterial
	Estacao   Estacao
	Flora     *Flora
	Niveis    map[int32]*Nivel
	Edificios []Edificio
	Fluxos    map[int32][]CelulaFluxo
}

func novoSnapshot(info InfoMapa) *Snapshot {
	return &Snapshot{
		Info:   info,
		Niveis: make(map[int32]*Nivel),
		Fluxos: make(map[int32][]CelulaFluxo),
	}
}

// LeitorMemoria serve um Snapshot. É usado para reexportar gravações e nos testes.
type LeitorMemoria struct {
	mu   sync.RWMutex
	snap *Snapshot
	mats *Materiais
}

// NovoLeitorMemoria cria um leitor vazio para um mapa do tamanho informado.
func NovoLeitorMemoria(info InfoMapa) *LeitorMemoria {
	return &LeitorMemoria{snap: novoSnapshot(info)}
}

// LeitorDeSnapshot serve um snapshot carregado de disco.
func LeitorDeSnapshot(s *Snapshot) *LeitorMemoria {
	if s.Niveis == nil {
		s.Niveis = make(map[int32]*Nivel)
	}
	if s.Fluxos == nil {
		s.Fluxos = make(map[int32][]CelulaFluxo)
	}
	return &LeitorMemoria{snap: s, mats: NovoMateriais(s.Materiais)}
}

// DefinirTile grava um tile; tiles não definidos são vazios.
func (l *LeitorMemoria) DefinirTile(t Tile) {
	l.mu.Lock()
	defer l.mu.Unlock()
	n, ok := l.snap.Niveis[t.Pos.Z]
	if !ok {
		n = NovoNivel(t.Pos.Z, l.snap.Info.Area(t.Pos.Z))
		l.snap.Niveis[t.Pos.Z] = n
	}
	if dst := n.Tile(t.Pos.X, t.Pos.Y); dst != nil {
		*dst = t
	}
}

func (l *LeitorMemoria) AdicionarEdificio(e Edificio) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.snap.Edificios = append(l.snap.Edificios, e)
}

func (l *LeitorMemoria) AdicionarFluxo(f CelulaFluxo) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.snap.Fluxos[f.Pos.Z] = append(l.snap.Fluxos[f.Pos.Z], f)
}

func (l *LeitorMemoria) AdicionarMaterial(d DefinicaoMaterial) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.snap.Materiais = append(l.snap.Materiais, d)
	l.mats = nil
}

func (l *LeitorMemoria) DefinirEstacao(e Estacao) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.snap.Estacao = e
}

// DefinirFlora troca os raws de plantas servidos.
func (l *LeitorMemoria) DefinirFlora(f *Flora) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.snap.Flora = f
}

func (l *LeitorMemoria) Info(context.Context) (InfoMapa, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snap.Info, nil
}

func (l *LeitorMemoria) Materiais(context.Context) (*Materiais, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.mats == nil {
		l.mats = NovoMateriais(l.snap.Materiais)
	}
	return l.mats, nil
}

func (l *LeitorMemoria) Estacao(context.Context) (Estacao, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snap.Estacao, nil
}

// Flora devolve a flora gravada, ou uma vazia no tick da estação quando o
// snapshot não tem raws de plantas.
func (l *LeitorMemoria) Flora(context.Context) (*Flora, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.snap.Flora == nil {
		return &Flora{Tick: TickDaEstacao(l.snap.Estacao)}, nil
	}
	return l.snap.Flora, nil
}

func (l *LeitorMemoria) Tiles(ctx context.Context, z int32, area util.Caixa) (*Nivel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	res := NovoNivel(z, area)
	orig, ok := l.snap.Niveis[z]
	if !ok {
		return res, nil
	}
	for i := range res.Tiles {
		dst := &res.Tiles[i]
		if src := orig.Tile(dst.Pos.X, dst.Pos.Y); src != nil {
			*dst = *src
		}
	}
	return res, nil
}

func (l *LeitorMemoria) Edificios(ctx context.Context, zmin, zmax int32) ([]Edificio, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	var res []Edificio
	for _, e := range l.snap.Edificios {
		if e.Max.Z >= zmin && e.Min.Z <= zmax {
			res = append(res, e)
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (l *LeitorMemoria) Fluxos(ctx context.Context, z int32) ([]CelulaFluxo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]CelulaFluxo(nil), l.snap.Fluxos[z]...), nil
}
