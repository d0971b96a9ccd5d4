package mapdata

import (
	"fmt"

	"FortressVox/shared/pkg/dfproto"
	"FortressVox/shared/util"
)

// TipoEdificio identifica o tipo de uma construção (building_type + subtipo).
type TipoEdificio struct {
	Tipo    dfproto.BuildingKind
	Subtipo int32
}

// Edificio representa uma construção existente no mapa.
type Edificio struct {
	ID int32

	// Limites espaciais inclusivos (DFCoords)
	Min util.DFCoord
	Max util.DFCoord

	Tipo     TipoEdificio
	Material dfproto.MatPair
	Conteudo []dfproto.MatPair
	Direcao  util.Direcao
	Existe   bool
}

// Contem indica se a posição está dentro da área ocupada.
func (e *Edificio) Contem(p util.DFCoord) bool {
	return util.Caixa{Min: e.Min, Max: e.Max}.Contem(p)
}

// Validar confere a consistência da área ocupada.
func (e *Edificio) Validar() error {
	if !(util.Caixa{Min: e.Min, Max: e.Max}).Valida() {
		return fmt.Errorf("edifício %d com limites invertidos %v..%v", e.ID, e.Min, e.Max)
	}
	return nil
}

// EdificioDeInstancia converte a instância do RemoteFortressReader.
// Salas (is_room) não ocupam volume e voltam com ok=false.
func EdificioDeInstancia(b *dfproto.BuildingInstance) (Edificio, bool) {
	if b.IsRoom {
		return Edificio{}, false
	}
	e := Edificio{
		ID:       b.Index,
		Min:      util.NewDFCoord(b.PosXMin, b.PosYMin, b.PosZMin),
		Max:      util.NewDFCoord(b.PosXMax, b.PosYMax, b.PosZMax),
		Material: b.Material,
		Existe:   b.BuildingFlags&dfproto.BuildingFlagExists != 0,
		Direcao:  util.Nenhuma,
	}
	if b.HasType {
		e.Tipo = TipoEdificio{
			Tipo:    dfproto.BuildingKind(b.BuildingType.BuildingType),
			Subtipo: b.BuildingType.BuildingSubtype,
		}
	} else {
		e.Tipo = TipoEdificio{Tipo: dfproto.BuildingNone}
	}
	if b.Direction >= dfproto.BuildingDirNorth && b.Direction < dfproto.BuildingDirNone {
		e.Direcao = util.Direcao(b.Direction)
	}
	for _, item := range b.Items {
		if item.Mode == dfproto.BuildingItemModeBuild {
			continue
		}
		e.Conteudo = append(e.Conteudo, item.Item.Material)
	}
	return e, true
}

// CelulaFluxo é uma célula de fluxo (névoa, fumaça, fogo...) num tile.
type CelulaFluxo struct {
	Pos         util.DFCoord
	Tipo        dfproto.FlowType
	Intensidade int32
	Material    dfproto.MatPair
}

// FluxoDeInfo converte o fluxo do RemoteFortressReader.
// Fluxos mortos ou sem densidade voltam com ok=false.
func FluxoDeInfo(f *dfproto.FlowInfo) (CelulaFluxo, bool) {
	if f.Dead || f.Density <= 0 {
		return CelulaFluxo{}, false
	}
	return CelulaFluxo{
		Pos:         util.NewDFCoord(f.Pos.X, f.Pos.Y, f.Pos.Z),
		Tipo:        f.Type,
		Intensidade: util.Clamp(f.Density, 0, 100),
		Material:    f.Material,
	}, true
}
