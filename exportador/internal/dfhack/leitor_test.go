package dfhack

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"

	"FortressVox/shared/mapdata"
	"FortressVox/shared/pkg/dfclient"
	"FortressVox/shared/pkg/dfnet/dfnettest"
	"FortressVox/shared/pkg/dfproto"
	"FortressVox/shared/util"
)

type mensagem interface{ Marshal() ([]byte, error) }

func responder(m mensagem) dfnettest.Handler {
	return func([]byte) ([]byte, error) { return m.Marshal() }
}

// fakeRFR entrega cada bloco uma vez depois de ResetMapHashes, como o plugin.
type fakeRFR struct {
	mu       sync.Mutex
	blocos   []dfproto.MapBlock
	gravuras []dfproto.Engraving
	enviados bool

	pausado bool
	pausas  []bool
}

func (f *fakeRFR) estadoPausa([]byte) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return (&dfproto.SingleBool{Value: f.pausado}).Marshal()
}

func (f *fakeRFR) pausar(req []byte) ([]byte, error) {
	var b dfproto.SingleBool
	if err := b.Unmarshal(req); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.pausado = b.Value
	f.pausas = append(f.pausas, b.Value)
	f.mu.Unlock()
	return (&dfproto.EmptyMessage{}).Marshal()
}

func (f *fakeRFR) reset([]byte) ([]byte, error) {
	f.mu.Lock()
	f.enviados = false
	f.mu.Unlock()
	return (&dfproto.EmptyMessage{}).Marshal()
}

func (f *fakeRFR) lista([]byte) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l := &dfproto.BlockList{}
	if !f.enviados {
		l.MapBlocks = f.blocos
		l.Engravings = f.gravuras
		f.enviados = true
	}
	return l.Marshal()
}

func iniciar(t *testing.T, blocos []dfproto.MapBlock) (*Leitor, *dfnettest.Servidor) {
	t.Helper()
	return iniciarCom(t, &fakeRFR{blocos: blocos})
}

func iniciarCom(t *testing.T, rfr *fakeRFR) (*Leitor, *dfnettest.Servidor) {
	t.Helper()
	s, err := dfnettest.Novo()
	if err != nil {
		t.Fatalf("servidor falso: %v", err)
	}
	t.Cleanup(s.Close)

	p := dfclient.PluginName
	s.Registrar(p, "GetMapInfo", responder(&dfproto.MapInfo{
		BlockSizeX: 2, BlockSizeY: 2, BlockSizeZ: 3, BlockPosZ: 150, WorldNameEnglish: "Urist",
	}))
	s.Registrar(p, "GetTiletypeList", responder(&dfproto.TiletypeList{TiletypeList: []dfproto.Tiletype{
		{ID: 0, Shape: dfproto.ShapeEmpty},
		{ID: 1, Shape: dfproto.ShapeWall, Material: dfproto.TilematStone},
	}}))
	s.Registrar(p, "GetMaterialList", responder(&dfproto.MaterialList{MaterialList: []dfproto.MaterialDefinition{
		{MatPair: dfproto.MatPair{MatType: 0, MatIndex: 1}, ID: "INORGANIC:GRANITE", StateColor: dfproto.ColorDefinition{Red: 160, Green: 120, Blue: 110}},
	}}))
	s.Registrar(p, "GetWorldMapCenter", responder(&dfproto.WorldMap{CurYearTick: 120000}))
	s.Registrar(p, "ResetMapHashes", rfr.reset)
	s.Registrar(p, "GetBlockList", rfr.lista)
	s.Registrar(p, "GetPauseState", rfr.estadoPausa)
	s.Registrar(p, "SetPauseState", rfr.pausar)
	s.Registrar(p, "GetPlantRawList", responder(&dfproto.PlantRawList{PlantRaws: []dfproto.PlantRaw{
		{ID: "MORANGO", Growths: []dfproto.TreeGrowth{{
			ID: "FRUTA", Mat: dfproto.MatPair{MatType: 421, MatIndex: 0},
			TimingStart: 100000, TimingEnd: -1, Twigs: true,
			Prints: []dfproto.GrowthPrint{{Color: 2, TimingStart: -1, TimingEnd: 150000}, {Color: 4, TimingStart: 150001, TimingEnd: -1}},
		}}},
	}}))

	l, err := Conectar(context.Background(), s.Addr, Opcoes{})
	if err != nil {
		t.Fatalf("Conectar: %v", err)
	}
	t.Cleanup(l.Close)
	return l, s
}

func bloco(x, y, z int32) dfproto.MapBlock {
	b := dfproto.MapBlock{MapX: x, MapY: y, MapZ: z, Tiles: make([]int32, util.BlockSize*util.BlockSize)}
	b.Materials = make([]dfproto.MatPair, len(b.Tiles))
	return b
}

func TestInfo(t *testing.T) {
	l, s := iniciar(t, nil)
	info, err := l.Info(context.Background())
	if err != nil {
		t.Fatalf("Info() erro: %v", err)
	}
	want := mapdata.InfoMapa{NomeMundo: "Urist", TamanhoX: 32, TamanhoY: 32, TamanhoZ: 3, OffsetElevacao: 50}
	if info != want {
		t.Errorf("Info() = %+v, want %+v", info, want)
	}
	l.Info(context.Background())
	if n := s.Chamadas(dfclient.PluginName, "GetMapInfo"); n != 1 {
		t.Errorf("GetMapInfo chamado %d vezes, want 1", n)
	}
}

func TestEstacao(t *testing.T) {
	l, _ := iniciar(t, nil)
	est, err := l.Estacao(context.Background())
	if err != nil {
		t.Fatalf("Estacao() erro: %v", err)
	}
	if want := mapdata.EstacaoDoTick(120000); est != want {
		t.Errorf("Estacao() = %v, want %v", est, want)
	}
}

func TestMateriaisNoCache(t *testing.T) {
	cache, err := mapdata.AbrirCache(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	l, _ := iniciar(t, nil)
	l.cache = cache
	m, err := l.Materiais(context.Background())
	if err != nil {
		t.Fatalf("Materiais() erro: %v", err)
	}
	if m.Len() != 1 {
		t.Errorf("Materiais().Len() = %d, want 1", m.Len())
	}
	salvo, err := cache.CarregarMateriais("Urist")
	if err != nil || salvo.Len() != 1 {
		t.Errorf("CarregarMateriais() = %v, %v; want 1 material", salvo, err)
	}
}

func TestTilesEFluxos(t *testing.T) {
	b := bloco(16, 0, 1)
	b.Tiles[0] = 1
	b.Materials[0] = dfproto.MatPair{MatType: 0, MatIndex: 1}
	b.Tiles[1] = 99
	b.Flows = []dfproto.FlowInfo{
		{Type: dfproto.FlowMist, Density: 50, Pos: dfproto.Coord{X: 18, Y: 0, Z: 1}},
		{Type: dfproto.FlowSmoke, Density: 0, Pos: dfproto.Coord{X: 19, Y: 0, Z: 1}},
	}
	outro := bloco(16, 0, 2)
	outro.Tiles[0] = 1

	l, s := iniciar(t, []dfproto.MapBlock{b, outro})
	ctx := context.Background()
	area := util.Caixa{Min: util.NewDFCoord(16, 0, 1), Max: util.NewDFCoord(31, 15, 1)}
	n, err := l.Tiles(ctx, 1, area)
	if err != nil {
		t.Fatalf("Tiles() erro: %v", err)
	}
	if tile := n.Tile(16, 0); tile.Tipo != mapdata.TipoParede || tile.Material.MatIndex != 1 {
		t.Errorf("tile (16,0) = %+v, want parede de granito", tile)
	}
	if tile := n.Tile(17, 0); tile.Tipo != mapdata.TipoDesconhecido {
		t.Errorf("tile (17,0) = %v, want desconhecido", tile.Tipo)
	}
	if tile := n.Tile(18, 0); tile.Tipo != mapdata.TipoVazio {
		t.Errorf("tile (18,0) = %v, want vazio", tile.Tipo)
	}
	if got := s.Chamadas(dfclient.PluginName, "ResetMapHashes"); got != 1 {
		t.Errorf("ResetMapHashes chamado %d vezes, want 1", got)
	}

	antes := s.Chamadas(dfclient.PluginName, "GetBlockList")
	fs, err := l.Fluxos(ctx, 1)
	if err != nil {
		t.Fatalf("Fluxos() erro: %v", err)
	}
	if len(fs) != 1 || fs[0].Tipo != dfproto.FlowMist || fs[0].Pos != util.NewDFCoord(18, 0, 1) {
		t.Errorf("Fluxos(1) = %+v, want só a névoa em (18,0,1)", fs)
	}
	if depois := s.Chamadas(dfclient.PluginName, "GetBlockList"); depois != antes {
		t.Errorf("Fluxos buscou blocos de novo (%d -> %d chamadas)", antes, depois)
	}
}

func TestEdificiosSemRepeticao(t *testing.T) {
	mesa := dfproto.BuildingInstance{
		Index: 7, PosXMin: 2, PosYMin: 2, PosZMin: 0, PosXMax: 2, PosYMax: 2, PosZMax: 0,
		HasType: true, BuildingType: dfproto.BuildingType{BuildingType: int32(dfproto.BuildingTable)},
		BuildingFlags: dfproto.BuildingFlagExists,
	}
	sala := dfproto.BuildingInstance{Index: 3, IsRoom: true}
	a := bloco(0, 0, 0)
	a.Tiles[0] = 1
	a.Buildings = []dfproto.BuildingInstance{mesa, sala}
	b := bloco(16, 0, 0)
	b.Tiles[0] = 1
	b.Buildings = []dfproto.BuildingInstance{mesa}

	l, _ := iniciar(t, []dfproto.MapBlock{a, b})
	es, err := l.Edificios(context.Background(), 0, 1)
	if err != nil {
		t.Fatalf("Edificios() erro: %v", err)
	}
	if len(es) != 1 || es[0].ID != 7 || !es[0].Existe {
		t.Errorf("Edificios() = %+v, want só a mesa 7", es)
	}
}

func TestGravuras(t *testing.T) {
	b := bloco(0, 0, 1)
	b.Tiles[0], b.Tiles[1] = 1, 1
	l, _ := iniciarCom(t, &fakeRFR{
		blocos: []dfproto.MapBlock{b},
		gravuras: []dfproto.Engraving{
			{Pos: dfproto.Coord{X: 0, Y: 0, Z: 1}, Quality: 3},
			{Pos: dfproto.Coord{X: 1, Y: 0, Z: 1}, Hidden: true},
			{Pos: dfproto.Coord{X: 2, Y: 0, Z: 2}},
		},
	})
	area := util.Caixa{Min: util.NewDFCoord(0, 0, 1), Max: util.NewDFCoord(15, 15, 1)}
	n, err := l.Tiles(context.Background(), 1, area)
	if err != nil {
		t.Fatalf("Tiles() erro: %v", err)
	}
	tests := []struct {
		x    int32
		want bool
	}{
		{0, true},
		{1, false},
		{2, false},
	}
	for _, tt := range tests {
		if got := n.Tile(tt.x, 0).Gravado; got != tt.want {
			t.Errorf("tile (%d,0).Gravado = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestPausaDuranteLeitura(t *testing.T) {
	area := util.Caixa{Min: util.NewDFCoord(0, 0, 0), Max: util.NewDFCoord(15, 15, 0)}
	tests := []struct {
		nome    string
		pausado bool
		falhar  bool
		want    []bool
	}{
		{"rodando", false, false, []bool{true, false}},
		{"já pausado", true, false, nil},
		{"erro na leitura", false, true, []bool{true, false}},
	}
	for _, tt := range tests {
		t.Run(tt.nome, func(t *testing.T) {
			rfr := &fakeRFR{blocos: []dfproto.MapBlock{bloco(0, 0, 0)}, pausado: tt.pausado}
			l, s := iniciarCom(t, rfr)
			l.pausar = true
			if tt.falhar {
				s.Registrar(dfclient.PluginName, "GetBlockList", func([]byte) ([]byte, error) {
					return nil, errors.New("bloco ilegível")
				})
			}
			_, err := l.Tiles(context.Background(), 0, area)
			if (err != nil) != tt.falhar {
				t.Fatalf("Tiles() erro = %v, want falha %v", err, tt.falhar)
			}
			rfr.mu.Lock()
			defer rfr.mu.Unlock()
			if !slices.Equal(rfr.pausas, tt.want) {
				t.Errorf("SetPauseState = %v, want %v", rfr.pausas, tt.want)
			}
			if rfr.pausado != tt.pausado {
				t.Errorf("jogo terminou pausado = %v, want %v", rfr.pausado, tt.pausado)
			}
		})
	}
}

func TestFlora(t *testing.T) {
	l, _ := iniciar(t, nil)
	f, err := l.Flora(context.Background())
	if err != nil {
		t.Fatalf("Flora() erro: %v", err)
	}
	if f.Tick != 120000 || len(f.Plantas) != 1 || f.Plantas[0].Token != "MORANGO" {
		t.Fatalf("Flora() = %+v, want MORANGO no tick 120000", f)
	}
	brotos := f.Brotos(0, mapdata.ParteGraveto, f.Tick)
	want := []mapdata.Broto{{Material: dfproto.MatPair{MatType: 421, MatIndex: 0}, Tom: -1}}
	if !slices.Equal(brotos, want) {
		t.Errorf("Brotos(0, graveto, %d) = %v, want %v", f.Tick, brotos, want)
	}
}
