// Package dfhack implementa mapdata.Leitor sobre o RemoteFortressReader.
package dfhack

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"FortressVox/shared/logger"
	"FortressVox/shared/mapdata"
	"FortressVox/shared/pkg/dfclient"
	"FortressVox/shared/pkg/dfnet"
	"FortressVox/shared/pkg/dfproto"
	"FortressVox/shared/util"
)

// BlocosPorRequisicao é o padrão de blocks_needed em GetBlockList.
const BlocosPorRequisicao = 100

// Opcoes ajustam a conexão e a leitura.
type Opcoes struct {
	dfnet.Opcoes
	BlocosPorRequisicao int32
	// Pausar pausa o jogo durante cada leitura de blocos e depois devolve o
	// estado anterior.
	Pausar bool
	// Cache, se presente, guarda o catálogo de materiais do mundo.
	Cache *mapdata.Cache
}

// Leitor busca os dados do mapa de um Dwarf Fortress em execução.
type Leitor struct {
	rfr    *dfclient.RemoteFortressService
	fechar func()
	blocos int32
	pausar bool
	cache  *mapdata.Cache
	log    *logrus.Entry

	mu        sync.Mutex
	info      *mapdata.InfoMapa
	tiletypes mapdata.Tiletypes
	fluxos    map[int32][]mapdata.CelulaFluxo
}

var _ mapdata.Leitor = (*Leitor)(nil)

// Conectar abre a conexão com o DFHack em endereco.
func Conectar(ctx context.Context, endereco string, op Opcoes) (*Leitor, error) {
	raw, err := dfnet.NewRawClient(ctx, endereco, op.Opcoes)
	if err != nil {
		return nil, err
	}
	l := Novo(dfclient.NewRemoteFortressService(raw), op)
	l.fechar = raw.Close
	return l, nil
}

// Novo usa um serviço já conectado.
func Novo(rfr *dfclient.RemoteFortressService, op Opcoes) *Leitor {
	if op.BlocosPorRequisicao <= 0 {
		op.BlocosPorRequisicao = BlocosPorRequisicao
	}
	return &Leitor{
		rfr:    rfr,
		blocos: op.BlocosPorRequisicao,
		pausar: op.Pausar,
		cache:  op.Cache,
		log:    logger.Com("dfhack"),
		fluxos: make(map[int32][]mapdata.CelulaFluxo),
	}
}

func (l *Leitor) Close() {
	if l.fechar != nil {
		l.fechar()
	}
}

// Info lê GetMapInfo. O offset de elevação é block_pos_z - 100.
func (l *Leitor) Info(ctx context.Context) (mapdata.InfoMapa, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.info != nil {
		return *l.info, nil
	}
	mi, err := l.rfr.GetMapInfo(ctx)
	if err != nil {
		return mapdata.InfoMapa{}, err
	}
	nome := mi.WorldNameEnglish
	if nome == "" {
		nome = mi.WorldName
	}
	info := mapdata.InfoMapa{
		NomeMundo:      util.DecodificarCP437(nome),
		NomeSave:       mi.SaveName,
		TamanhoX:       mi.BlockSizeX * util.BlockSize,
		TamanhoY:       mi.BlockSizeY * util.BlockSize,
		TamanhoZ:       mi.BlockSizeZ,
		OffsetElevacao: mi.BlockPosZ - 100,
	}
	l.info = &info
	l.log.WithFields(logrus.Fields{
		"mundo":   info.NomeMundo,
		"tamanho": fmt.Sprintf("%dx%dx%d", info.TamanhoX, info.TamanhoY, info.TamanhoZ),
	}).Info("mapa carregado")
	return info, nil
}

// Materiais lê o catálogo do jogo e o guarda no cache, quando houver.
func (l *Leitor) Materiais(ctx context.Context) (*mapdata.Materiais, error) {
	lista, err := l.rfr.GetMaterialList(ctx)
	if err != nil {
		return nil, err
	}
	m := mapdata.MateriaisDeLista(lista)
	if l.cache != nil {
		info, err := l.Info(ctx)
		if err != nil {
			return nil, err
		}
		if err := l.cache.SalvarMateriais(info.NomeMundo, m); err != nil {
			l.log.WithError(err).Warn("falha ao guardar materiais no cache")
		}
	}
	return m, nil
}

// Estacao deriva a estação do tick do ano corrente.
func (l *Leitor) Estacao(ctx context.Context) (mapdata.Estacao, error) {
	wm, err := l.rfr.GetWorldMapCenter(ctx)
	if err != nil {
		return 0, err
	}
	return mapdata.EstacaoDoTick(wm.CurYearTick), nil
}

// Flora lê os raws de plantas junto com o tick atual.
func (l *Leitor) Flora(ctx context.Context) (*mapdata.Flora, error) {
	wm, err := l.rfr.GetWorldMapCenter(ctx)
	if err != nil {
		return nil, err
	}
	lista, err := l.rfr.GetPlantRawList(ctx)
	if err != nil {
		return nil, err
	}
	l.log.WithField("especies", len(lista.PlantRaws)).Debug("raws de plantas carregados")
	return mapdata.FloraDeLista(lista, wm.CurYearTick), nil
}

func (l *Leitor) carregarTiletypes(ctx context.Context) (mapdata.Tiletypes, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.tiletypes != nil {
		return l.tiletypes, nil
	}
	lista, err := l.rfr.GetTiletypeList(ctx)
	if err != nil {
		return nil, err
	}
	l.tiletypes = mapdata.NovoTiletypes(lista)
	return l.tiletypes, nil
}

// leitura junta os blocos e as gravuras de uma sequência de GetBlockList.
type leitura struct {
	blocos   []dfproto.MapBlock
	gravuras []dfproto.Engraving
}

// pausarJogo pausa o DF se ele estiver rodando e devolve a função que desfaz
// isso. Um jogo que já estava pausado fica como está.
func (l *Leitor) pausarJogo(ctx context.Context) (func(), error) {
	pausado, err := l.rfr.GetPauseState(ctx)
	if err != nil {
		return nil, err
	}
	if pausado {
		return func() {}, nil
	}
	if err := l.rfr.SetPauseState(ctx, true); err != nil {
		return nil, err
	}
	return func() {
		// a leitura pode ter sido cancelada; o jogo volta a rodar mesmo assim
		if err := l.rfr.SetPauseState(context.WithoutCancel(ctx), false); err != nil {
			l.log.WithError(err).Warn("falha ao despausar o jogo")
		}
	}, nil
}

// buscarBlocos zera os hashes do plugin e pede blocos até vir uma lista sem
// tiles. Sem o reset, blocos que não mudaram desde a última leitura não
// seriam reenviados.
func (l *Leitor) buscarBlocos(ctx context.Context, area util.Caixa, zmin, zmax int32) (leitura, error) {
	if l.pausar {
		retomar, err := l.pausarJogo(ctx)
		if err != nil {
			return leitura{}, fmt.Errorf("pausando o jogo: %w", err)
		}
		defer retomar()
	}
	if err := l.rfr.ResetMapHashes(ctx); err != nil {
		return leitura{}, err
	}
	req := &dfproto.BlockRequest{
		BlocksNeeded: l.blocos,
		MinX:         area.Min.X / util.BlockSize,
		MaxX:         area.Max.X/util.BlockSize + 1,
		MinY:         area.Min.Y / util.BlockSize,
		MaxY:         area.Max.Y/util.BlockSize + 1,
		MinZ:         zmin,
		MaxZ:         zmax + 1,
	}
	var res leitura
	for {
		if err := ctx.Err(); err != nil {
			return leitura{}, err
		}
		lista, err := l.rfr.GetBlockList(ctx, req)
		if err != nil {
			return leitura{}, err
		}
		vazia := true
		for i := range lista.MapBlocks {
			if len(lista.MapBlocks[i].Tiles) > 0 {
				vazia = false
				break
			}
		}
		res.gravuras = append(res.gravuras, lista.Engravings...)
		if vazia {
			return res, nil
		}
		res.blocos = append(res.blocos, lista.MapBlocks...)
	}
}

// Tiles lê o nível z. Os fluxos vindos nos mesmos blocos ficam guardados
// para a chamada de Fluxos.
func (l *Leitor) Tiles(ctx context.Context, z int32, area util.Caixa) (*mapdata.Nivel, error) {
	tt, err := l.carregarTiletypes(ctx)
	if err != nil {
		return nil, err
	}
	lido, err := l.buscarBlocos(ctx, area, z, z)
	if err != nil {
		return nil, fmt.Errorf("blocos do nível %d: %w", z, err)
	}
	blocos := lido.blocos
	n := mapdata.NovoNivel(z, area)
	var fluxos []mapdata.CelulaFluxo
	desconhecidos := 0
	for i := range blocos {
		b := &blocos[i]
		if b.MapZ != z {
			continue
		}
		desconhecidos += len(n.ArmazenarBloco(b, tt))
		for j := range b.Flows {
			if f, ok := mapdata.FluxoDeInfo(&b.Flows[j]); ok && f.Pos.Z == z {
				fluxos = append(fluxos, f)
			}
		}
	}
	if desconhecidos > 0 {
		l.log.WithFields(logrus.Fields{"z": z, "tiles": desconhecidos}).Debug("tiletypes fora da lista")
	}
	if g := n.MarcarGravuras(lido.gravuras); g > 0 {
		l.log.WithFields(logrus.Fields{"z": z, "gravuras": g}).Debug("tiles gravados")
	}
	l.mu.Lock()
	l.fluxos[z] = fluxos
	l.mu.Unlock()
	return n, nil
}

// Fluxos devolve os fluxos lidos junto com o nível z, ou busca os blocos se
// Tiles ainda não passou por ele.
func (l *Leitor) Fluxos(ctx context.Context, z int32) ([]mapdata.CelulaFluxo, error) {
	l.mu.Lock()
	fs, ok := l.fluxos[z]
	delete(l.fluxos, z)
	l.mu.Unlock()
	if ok {
		return fs, nil
	}
	info, err := l.Info(ctx)
	if err != nil {
		return nil, err
	}
	lido, err := l.buscarBlocos(ctx, info.Area(z), z, z)
	if err != nil {
		return nil, fmt.Errorf("fluxos do nível %d: %w", z, err)
	}
	blocos := lido.blocos
	for i := range blocos {
		for j := range blocos[i].Flows {
			if f, ok := mapdata.FluxoDeInfo(&blocos[i].Flows[j]); ok && f.Pos.Z == z {
				fs = append(fs, f)
			}
		}
	}
	return fs, nil
}

// Edificios varre os blocos do intervalo e junta as instâncias, sem
// repetição e em ordem de id.
func (l *Leitor) Edificios(ctx context.Context, zmin, zmax int32) ([]mapdata.Edificio, error) {
	info, err := l.Info(ctx)
	if err != nil {
		return nil, err
	}
	lido, err := l.buscarBlocos(ctx, info.Area(zmin), zmin, zmax)
	if err != nil {
		return nil, fmt.Errorf("edifícios: %w", err)
	}
	blocos := lido.blocos
	vistos := make(map[int32]bool)
	var res []mapdata.Edificio
	for i := range blocos {
		for j := range blocos[i].Buildings {
			inst := &blocos[i].Buildings[j]
			if vistos[inst.Index] {
				continue
			}
			vistos[inst.Index] = true
			if e, ok := mapdata.EdificioDeInstancia(inst); ok {
				res = append(res, e)
			}
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}
