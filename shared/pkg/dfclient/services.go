package dfclient

import (
	"context"
	"fmt"

	"FortressVox/shared/pkg/dfnet"
	"FortressVox/shared/pkg/dfproto"
)

// RemoteFortressService abstrai as chamadas do plugin RemoteFortressReader.
type RemoteFortressService struct {
	net *dfnet.RawClient
}

func NewRemoteFortressService(net *dfnet.RawClient) *RemoteFortressService {
	return &RemoteFortressService{net: net}
}

const PluginName = "RemoteFortressReader"

// Assinaturas de métodos para Bind automático
var signatures = map[string][2]string{
	"GetTiletypeList":   {"dfproto.EmptyMessage", "RemoteFortressReader.TiletypeList"},
	"GetBlockList":      {"RemoteFortressReader.BlockRequest", "RemoteFortressReader.BlockList"},
	"GetMaterialList":   {"dfproto.EmptyMessage", "RemoteFortressReader.MaterialList"},
	"GetMapInfo":        {"dfproto.EmptyMessage", "RemoteFortressReader.MapInfo"},
	"GetWorldMapCenter": {"dfproto.EmptyMessage", "RemoteFortressReader.WorldMap"},
	"ResetMapHashes":    {"dfproto.EmptyMessage", "dfproto.EmptyMessage"},
	"GetPlantRawList":   {"dfproto.EmptyMessage", "RemoteFortressReader.PlantRawList"},
	"GetPauseState":     {"dfproto.EmptyMessage", "RemoteFortressReader.SingleBool"},
	"SetPauseState":     {"RemoteFortressReader.SingleBool", "dfproto.EmptyMessage"},
}

func (s *RemoteFortressService) call(ctx context.Context, method string, req interface{ Marshal() ([]byte, error) }, resp interface{ Unmarshal([]byte) error }) error {
	sig, ok := signatures[method]
	if !ok {
		return fmt.Errorf("método desconhecido: %s", method)
	}

	id, err := s.net.BindMethod(ctx, method, sig[0], sig[1], PluginName)
	if err != nil {
		return err
	}

	reqData, err := req.Marshal()
	if err != nil {
		return err
	}

	respData, err := s.net.CallRaw(ctx, id, reqData)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}

	if err := resp.Unmarshal(respData); err != nil {
		return fmt.Errorf("%s: %w: resposta ilegível: %v", method, dfnet.ErrVersao, err)
	}
	return nil
}

// --- Wrappers de Serviço ---

func (s *RemoteFortressService) GetTiletypeList(ctx context.Context) (*dfproto.TiletypeList, error) {
	resp := &dfproto.TiletypeList{}
	err := s.call(ctx, "GetTiletypeList", &dfproto.EmptyMessage{}, resp)
	return resp, err
}

func (s *RemoteFortressService) GetMaterialList(ctx context.Context) (*dfproto.MaterialList, error) {
	resp := &dfproto.MaterialList{}
	err := s.call(ctx, "GetMaterialList", &dfproto.EmptyMessage{}, resp)
	return resp, err
}

// GetMapInfo retorna informações básicas sobre o tamanho e posição do mapa atual.
func (s *RemoteFortressService) GetMapInfo(ctx context.Context) (*dfproto.MapInfo, error) {
	var resp dfproto.MapInfo
	err := s.call(ctx, "GetMapInfo", &dfproto.EmptyMessage{}, &resp)
	return &resp, err
}

func (s *RemoteFortressService) GetWorldMapCenter(ctx context.Context) (*dfproto.WorldMap, error) {
	resp := &dfproto.WorldMap{}
	err := s.call(ctx, "GetWorldMapCenter", &dfproto.EmptyMessage{}, resp)
	return resp, err
}

// ResetMapHashes faz o plugin reenviar todos os blocos, mesmo os que não mudaram.
func (s *RemoteFortressService) ResetMapHashes(ctx context.Context) error {
	return s.call(ctx, "ResetMapHashes", &dfproto.EmptyMessage{}, &dfproto.EmptyMessage{})
}

func (s *RemoteFortressService) GetBlockList(ctx context.Context, req *dfproto.BlockRequest) (*dfproto.BlockList, error) {
	resp := &dfproto.BlockList{}
	err := s.call(ctx, "GetBlockList", req, resp)
	return resp, err
}

// GetPlantRawList lista as espécies de plantas com seus crescimentos sazonais.
func (s *RemoteFortressService) GetPlantRawList(ctx context.Context) (*dfproto.PlantRawList, error) {
	resp := &dfproto.PlantRawList{}
	err := s.call(ctx, "GetPlantRawList", &dfproto.EmptyMessage{}, resp)
	return resp, err
}

func (s *RemoteFortressService) GetPauseState(ctx context.Context) (bool, error) {
	resp := &dfproto.SingleBool{}
	err := s.call(ctx, "GetPauseState", &dfproto.EmptyMessage{}, resp)
	return resp.Value, err
}

// SetPauseState pausa ou despausa o jogo.
func (s *RemoteFortressService) SetPauseState(ctx context.Context, pausado bool) error {
	return s.call(ctx, "SetPauseState", &dfproto.SingleBool{Value: pausado}, &dfproto.EmptyMessage{})
}
