package dfproto

import (
	"fmt"

	"FortressVox/shared/pkg/protowire"
)

// --- Enums do RemoteFortressReader ---

type TiletypeShape int32

const (
	ShapeNoShape       TiletypeShape = -1
	ShapeEmpty         TiletypeShape = 0
	ShapeFloor         TiletypeShape = 1
	ShapeBoulder       TiletypeShape = 2
	ShapePebbles       TiletypeShape = 3
	ShapeWall          TiletypeShape = 4
	ShapeFortification TiletypeShape = 5
	ShapeStairUp       TiletypeShape = 6
	ShapeStairDown     TiletypeShape = 7
	ShapeStairUpDown   TiletypeShape = 8
	ShapeRamp          TiletypeShape = 9
	ShapeRampTop       TiletypeShape = 10
	ShapeBrookBed      TiletypeShape = 11
	ShapeBrookTop      TiletypeShape = 12
	ShapeTreeShape     TiletypeShape = 13
	ShapeSapling       TiletypeShape = 14
	ShapeShrub         TiletypeShape = 15
	ShapeEndlessPit    TiletypeShape = 16
	ShapeBranch        TiletypeShape = 17
	ShapeTrunkBranch   TiletypeShape = 18
	ShapeTwig          TiletypeShape = 19
)

type TiletypeMaterial int32

const (
	TilematNoMaterial   TiletypeMaterial = -1
	TilematAir          TiletypeMaterial = 0
	TilematSoil         TiletypeMaterial = 1
	TilematStone        TiletypeMaterial = 2
	TilematFeature      TiletypeMaterial = 3
	TilematLavaStone    TiletypeMaterial = 4
	TilematMineral      TiletypeMaterial = 5
	TilematFrozenLiquid TiletypeMaterial = 6
	TilematConstruction TiletypeMaterial = 7
	TilematGrassLight   TiletypeMaterial = 8
	TilematGrassDark    TiletypeMaterial = 9
	TilematGrassDry     TiletypeMaterial = 10
	TilematGrassDead    TiletypeMaterial = 11
	TilematPlant        TiletypeMaterial = 12
	TilematHFS          TiletypeMaterial = 13
	TilematCampfire     TiletypeMaterial = 14
	TilematFire         TiletypeMaterial = 15
	TilematAshes        TiletypeMaterial = 16
	TilematMagma        TiletypeMaterial = 17
	TilematDriftwood    TiletypeMaterial = 18
	TilematPool         TiletypeMaterial = 19
	TilematBrook        TiletypeMaterial = 20
	TilematRiver        TiletypeMaterial = 21
	TilematRoot         TiletypeMaterial = 22
	TilematTreeMaterial TiletypeMaterial = 23
	TilematMushroom     TiletypeMaterial = 24
	TilematUnderworld   TiletypeMaterial = 25
)

type TiletypeSpecial int32

const (
	SpecialNoSpecial   TiletypeSpecial = -1
	SpecialNormal      TiletypeSpecial = 0
	SpecialRiverSource TiletypeSpecial = 1
	SpecialWaterfall   TiletypeSpecial = 2
	SpecialSmooth      TiletypeSpecial = 3
	SpecialFurrowed    TiletypeSpecial = 4
	SpecialWet         TiletypeSpecial = 5
	SpecialDead        TiletypeSpecial = 6
	SpecialWorn1       TiletypeSpecial = 7
	SpecialWorn2       TiletypeSpecial = 8
	SpecialWorn3       TiletypeSpecial = 9
	SpecialTrack       TiletypeSpecial = 10
	SpecialSmoothDead  TiletypeSpecial = 11
)

type MatterState int32

const (
	MatterSolid   MatterState = 0
	MatterLiquid  MatterState = 1
	MatterGas     MatterState = 2
	MatterPowder  MatterState = 3
	MatterPaste   MatterState = 4
	MatterPressed MatterState = 5
)

type FlowType int32

const (
	FlowCampFire      FlowType = -1
	FlowMiasma        FlowType = 0
	FlowSteam         FlowType = 1
	FlowMist          FlowType = 2
	FlowMaterialDust  FlowType = 3
	FlowMagmaMist     FlowType = 4
	FlowSmoke         FlowType = 5
	FlowDragonfire    FlowType = 6
	FlowFire          FlowType = 7
	FlowWeb           FlowType = 8
	FlowMaterialGas   FlowType = 9
	FlowMaterialVapor FlowType = 10
	FlowOceanWave     FlowType = 11
	FlowSeaFoam       FlowType = 12
	FlowItemCloud     FlowType = 13
)

type BuildingDirection int32

const (
	BuildingDirNorth     BuildingDirection = 0
	BuildingDirEast      BuildingDirection = 1
	BuildingDirSouth     BuildingDirection = 2
	BuildingDirWest      BuildingDirection = 3
	BuildingDirNortheast BuildingDirection = 4
	BuildingDirSoutheast BuildingDirection = 5
	BuildingDirSouthwest BuildingDirection = 6
	BuildingDirNorthwest BuildingDirection = 7
	BuildingDirNone      BuildingDirection = 8
)

// BuildingFlagExists é o bit "exists" de building_flags.
const BuildingFlagExists uint32 = 1

// --- Tipos básicos ---

type Coord struct {
	X, Y, Z int32
}

func (c *Coord) Marshal() ([]byte, error) {
	e := protowire.NewEncoder()
	e.EncodeVarintForce(1, int64(c.X))
	e.EncodeVarintForce(2, int64(c.Y))
	e.EncodeVarintForce(3, int64(c.Z))
	return e.Bytes(), nil
}

func (c *Coord) Unmarshal(data []byte) error {
	return protowire.Visit(data, func(d *protowire.Decoder, field int, _ protowire.Type) (bool, error) {
		var err error
		switch field {
		case 1:
			c.X, err = d.ReadInt32()
		case 2:
			c.Y, err = d.ReadInt32()
		case 3:
			c.Z, err = d.ReadInt32()
		default:
			return false, nil
		}
		return true, err
	})
}

// MatPair identifica um material: tipo e índice, como no DF.
type MatPair struct {
	MatType  int32
	MatIndex int32
}

func (m *MatPair) Marshal() ([]byte, error) {
	e := protowire.NewEncoder()
	e.EncodeVarintForce(1, int64(m.MatType))
	e.EncodeVarintForce(2, int64(m.MatIndex))
	return e.Bytes(), nil
}

func (m *MatPair) Unmarshal(data []byte) error {
	return protowire.Visit(data, func(d *protowire.Decoder, field int, _ protowire.Type) (bool, error) {
		var err error
		switch field {
		case 1:
			m.MatType, err = d.ReadInt32()
		case 2:
			m.MatIndex, err = d.ReadInt32()
		default:
			return false, nil
		}
		return true, err
	})
}

type ColorDefinition struct {
	Red, Green, Blue int32
}

func (c *ColorDefinition) Marshal() ([]byte, error) {
	e := protowire.NewEncoder()
	e.EncodeVarintForce(1, int64(c.Red))
	e.EncodeVarintForce(2, int64(c.Green))
	e.EncodeVarintForce(3, int64(c.Blue))
	return e.Bytes(), nil
}

func (c *ColorDefinition) Unmarshal(data []byte) error {
	return protowire.Visit(data, func(d *protowire.Decoder, field int, _ protowire.Type) (bool, error) {
		var err error
		switch field {
		case 1:
			c.Red, err = d.ReadInt32()
		case 2:
			c.Green, err = d.ReadInt32()
		case 3:
			c.Blue, err = d.ReadInt32()
		default:
			return false, nil
		}
		return true, err
	})
}

func marshalSub(e *protowire.Encoder, field int, m interface{ Marshal() ([]byte, error) }) {
	sub, _ := m.Marshal()
	e.EncodeSubmessage(field, sub)
}

// --- Tiletypes ---

type Tiletype struct {
	ID        int32
	Name      string
	Caption   string
	Shape     TiletypeShape
	Special   TiletypeSpecial
	Material  TiletypeMaterial
	Variant   int32
	Direction string
}

func (t *Tiletype) Marshal() ([]byte, error) {
	e := protowire.NewEncoder()
	e.EncodeVarintForce(1, int64(t.ID))
	e.EncodeString(2, t.Name)
	e.EncodeString(3, t.Caption)
	e.EncodeVarintForce(4, int64(t.Shape))
	e.EncodeVarintForce(5, int64(t.Special))
	e.EncodeVarintForce(6, int64(t.Material))
	e.EncodeVarint(7, int64(t.Variant))
	e.EncodeString(8, t.Direction)
	return e.Bytes(), nil
}

func (t *Tiletype) Unmarshal(data []byte) error {
	return protowire.Visit(data, func(d *protowire.Decoder, field int, _ protowire.Type) (bool, error) {
		var (
			err error
			v   int32
		)
		switch field {
		case 1:
			t.ID, err = d.ReadInt32()
		case 2:
			t.Name, err = d.ReadString()
		case 3:
			t.Caption, err = d.ReadString()
		case 4:
			v, err = d.ReadInt32()
			t.Shape = TiletypeShape(v)
		case 5:
			v, err = d.ReadInt32()
			t.Special = TiletypeSpecial(v)
		case 6:
			v, err = d.ReadInt32()
			t.Material = TiletypeMaterial(v)
		case 7:
			t.Variant, err = d.ReadInt32()
		case 8:
			t.Direction, err = d.ReadString()
		default:
			return false, nil
		}
		return true, err
	})
}

type TiletypeList struct {
	TiletypeList []Tiletype
}

func (l *TiletypeList) Marshal() ([]byte, error) {
	e := protowire.NewEncoder()
	for i := range l.TiletypeList {
		marshalSub(e, 1, &l.TiletypeList[i])
	}
	return e.Bytes(), nil
}

func (l *TiletypeList) Unmarshal(data []byte) error {
	return protowire.Visit(data, func(d *protowire.Decoder, field int, _ protowire.Type) (bool, error) {
		if field != 1 {
			return false, nil
		}
		var t Tiletype
		err := d.ReadMessage(&t)
		l.TiletypeList = append(l.TiletypeList, t)
		return true, err
	})
}

// --- Materiais ---

type MaterialDefinition struct {
	MatPair    MatPair
	ID         string
	Name       string
	StateColor ColorDefinition
}

func (m *MaterialDefinition) Marshal() ([]byte, error) {
	e := protowire.NewEncoder()
	marshalSub(e, 1, &m.MatPair)
	e.EncodeString(2, m.ID)
	e.EncodeString(3, m.Name)
	marshalSub(e, 4, &m.StateColor)
	return e.Bytes(), nil
}

func (m *MaterialDefinition) Unmarshal(data []byte) error {
	return protowire.Visit(data, func(d *protowire.Decoder, field int, _ protowire.Type) (bool, error) {
		var err error
		switch field {
		case 1:
			err = d.ReadMessage(&m.MatPair)
		case 2:
			m.ID, err = d.ReadString()
		case 3:
			m.Name, err = d.ReadString()
		case 4:
			err = d.ReadMessage(&m.StateColor)
		default:
			return false, nil
		}
		return true, err
	})
}

type MaterialList struct {
	MaterialList []MaterialDefinition
}

func (l *MaterialList) Marshal() ([]byte, error) {
	e := protowire.NewEncoder()
	for i := range l.MaterialList {
		marshalSub(e, 1, &l.MaterialList[i])
	}
	return e.Bytes(), nil
}

func (l *MaterialList) Unmarshal(data []byte) error {
	return protowire.Visit(data, func(d *protowire.Decoder, field int, _ protowire.Type) (bool, error) {
		if field != 1 {
			return false, nil
		}
		var m MaterialDefinition
		err := d.ReadMessage(&m)
		l.MaterialList = append(l.MaterialList, m)
		return true, err
	})
}

// --- Edifícios ---

type BuildingType struct {
	BuildingType    int32
	BuildingSubtype int32
	BuildingCustom  int32
}

func (b *BuildingType) Marshal() ([]byte, error) {
	e := protowire.NewEncoder()
	e.EncodeVarintForce(1, int64(b.BuildingType))
	e.EncodeVarintForce(2, int64(b.BuildingSubtype))
	e.EncodeVarintForce(3, int64(b.BuildingCustom))
	return e.Bytes(), nil
}

func (b *BuildingType) Unmarshal(data []byte) error {
	return protowire.Visit(data, func(d *protowire.Decoder, field int, _ protowire.Type) (bool, error) {
		var err error
		switch field {
		case 1:
			b.BuildingType, err = d.ReadInt32()
		case 2:
			b.BuildingSubtype, err = d.ReadInt32()
		case 3:
			b.BuildingCustom, err = d.ReadInt32()
		default:
			return false, nil
		}
		return true, err
	})
}

// Item traz só o que o exportador usa de um item: posição e materiais.
type Item struct {
	ID       int32
	Pos      Coord
	Type     MatPair
	Material MatPair
}

func (it *Item) Marshal() ([]byte, error) {
	e := protowire.NewEncoder()
	e.EncodeVarint(1, int64(it.ID))
	marshalSub(e, 2, &it.Pos)
	marshalSub(e, 5, &it.Type)
	marshalSub(e, 6, &it.Material)
	return e.Bytes(), nil
}

func (it *Item) Unmarshal(data []byte) error {
	return protowire.Visit(data, func(d *protowire.Decoder, field int, _ protowire.Type) (bool, error) {
		var err error
		switch field {
		case 1:
			it.ID, err = d.ReadInt32()
		case 2:
			err = d.ReadMessage(&it.Pos)
		case 5:
			err = d.ReadMessage(&it.Type)
		case 6:
			err = d.ReadMessage(&it.Material)
		default:
			return false, nil
		}
		return true, err
	})
}

// BuildingItemModeBuild marca itens usados na construção (os demais são conteúdo).
const BuildingItemModeBuild int32 = 2

type BuildingItem struct {
	Item Item
	Mode int32
}

func (b *BuildingItem) Marshal() ([]byte, error) {
	e := protowire.NewEncoder()
	marshalSub(e, 1, &b.Item)
	e.EncodeVarint(2, int64(b.Mode))
	return e.Bytes(), nil
}

func (b *BuildingItem) Unmarshal(data []byte) error {
	return protowire.Visit(data, func(d *protowire.Decoder, field int, _ protowire.Type) (bool, error) {
		var err error
		switch field {
		case 1:
			err = d.ReadMessage(&b.Item)
		case 2:
			b.Mode, err = d.ReadInt32()
		default:
			return false, nil
		}
		return true, err
	})
}

type BuildingInstance struct {
	Index         int32
	PosXMin       int32
	PosYMin       int32
	PosZMin       int32
	PosXMax       int32
	PosYMax       int32
	PosZMax       int32
	BuildingType  BuildingType
	HasType       bool
	Material      MatPair
	BuildingFlags uint32
	IsRoom        bool
	Direction     BuildingDirection
	Items         []BuildingItem
	Active        int32
}

func (b *BuildingInstance) Marshal() ([]byte, error) {
	e := protowire.NewEncoder()
	e.EncodeVarintForce(1, int64(b.Index))
	e.EncodeVarintForce(2, int64(b.PosXMin))
	e.EncodeVarintForce(3, int64(b.PosYMin))
	e.EncodeVarintForce(4, int64(b.PosZMin))
	e.EncodeVarintForce(5, int64(b.PosXMax))
	e.EncodeVarintForce(6, int64(b.PosYMax))
	e.EncodeVarintForce(7, int64(b.PosZMax))
	if b.HasType {
		marshalSub(e, 8, &b.BuildingType)
	}
	marshalSub(e, 9, &b.Material)
	e.EncodeVarint(10, int64(b.BuildingFlags))
	e.EncodeBool(11, b.IsRoom)
	e.EncodeVarintForce(13, int64(b.Direction))
	for i := range b.Items {
		marshalSub(e, 14, &b.Items[i])
	}
	e.EncodeVarint(15, int64(b.Active))
	return e.Bytes(), nil
}

func (b *BuildingInstance) Unmarshal(data []byte) error {
	b.Direction = BuildingDirNone
	return protowire.Visit(data, func(d *protowire.Decoder, field int, _ protowire.Type) (bool, error) {
		var (
			err error
			v   int64
		)
		switch field {
		case 1:
			b.Index, err = d.ReadInt32()
		case 2:
			b.PosXMin, err = d.ReadInt32()
		case 3:
			b.PosYMin, err = d.ReadInt32()
		case 4:
			b.PosZMin, err = d.ReadInt32()
		case 5:
			b.PosXMax, err = d.ReadInt32()
		case 6:
			b.PosYMax, err = d.ReadInt32()
		case 7:
			b.PosZMax, err = d.ReadInt32()
		case 8:
			b.HasType = true
			err = d.ReadMessage(&b.BuildingType)
		case 9:
			err = d.ReadMessage(&b.Material)
		case 10:
			v, err = d.ReadVarint()
			b.BuildingFlags = uint32(v)
		case 11:
			b.IsRoom, err = d.ReadBool()
		case 13:
			v, err = d.ReadVarint()
			b.Direction = BuildingDirection(v)
		case 14:
			var item BuildingItem
			err = d.ReadMessage(&item)
			b.Items = append(b.Items, item)
		case 15:
			b.Active, err = d.ReadInt32()
		default:
			return false, nil
		}
		return true, err
	})
}

// --- Respingos e fluxos ---

type Spatter struct {
	Material MatPair
	Amount   int32
	State    MatterState
	Item     MatPair
}

func (s *Spatter) Marshal() ([]byte, error) {
	e := protowire.NewEncoder()
	marshalSub(e, 1, &s.Material)
	e.EncodeVarint(2, int64(s.Amount))
	e.EncodeVarint(3, int64(s.State))
	marshalSub(e, 4, &s.Item)
	return e.Bytes(), nil
}

func (s *Spatter) Unmarshal(data []byte) error {
	return protowire.Visit(data, func(d *protowire.Decoder, field int, _ protowire.Type) (bool, error) {
		var (
			err error
			v   int32
		)
		switch field {
		case 1:
			err = d.ReadMessage(&s.Material)
		case 2:
			s.Amount, err = d.ReadInt32()
		case 3:
			v, err = d.ReadInt32()
			s.State = MatterState(v)
		case 4:
			err = d.ReadMessage(&s.Item)
		default:
			return false, nil
		}
		return true, err
	})
}

type SpatterPile struct {
	Spatters []Spatter
}

func (p *SpatterPile) Marshal() ([]byte, error) {
	e := protowire.NewEncoder()
	for i := range p.Spatters {
		marshalSub(e, 1, &p.Spatters[i])
	}
	return e.Bytes(), nil
}

func (p *SpatterPile) Unmarshal(data []byte) error {
	return protowire.Visit(data, func(d *protowire.Decoder, field int, _ protowire.Type) (bool, error) {
		if field != 1 {
			return false, nil
		}
		var s Spatter
		err := d.ReadMessage(&s)
		p.Spatters = append(p.Spatters, s)
		return true, err
	})
}

type FlowInfo struct {
	Index    int32
	Type     FlowType
	Density  int32
	Pos      Coord
	Dest     Coord
	Material MatPair
	Dead     bool
}

func (f *FlowInfo) Marshal() ([]byte, error) {
	e := protowire.NewEncoder()
	e.EncodeVarint(1, int64(f.Index))
	e.EncodeVarintForce(2, int64(f.Type))
	e.EncodeVarint(3, int64(f.Density))
	marshalSub(e, 4, &f.Pos)
	marshalSub(e, 5, &f.Dest)
	marshalSub(e, 9, &f.Material)
	e.EncodeBool(11, f.Dead)
	return e.Bytes(), nil
}

func (f *FlowInfo) Unmarshal(data []byte) error {
	return protowire.Visit(data, func(d *protowire.Decoder, field int, _ protowire.Type) (bool, error) {
		var (
			err error
			v   int32
		)
		switch field {
		case 1:
			f.Index, err = d.ReadInt32()
		case 2:
			v, err = d.ReadInt32()
			f.Type = FlowType(v)
		case 3:
			f.Density, err = d.ReadInt32()
		case 4:
			err = d.ReadMessage(&f.Pos)
		case 5:
			err = d.ReadMessage(&f.Dest)
		case 9:
			err = d.ReadMessage(&f.Material)
		case 11:
			f.Dead, err = d.ReadBool()
		default:
			return false, nil
		}
		return true, err
	})
}

// --- Blocos ---

// MapBlock é um bloco 16x16x1. Os arrays por tile são indexados por x + y*16.
type MapBlock struct {
	MapX, MapY, MapZ int32
	Tiles            []int32
	Materials        []MatPair
	Magma            []int32
	Water            []int32
	Hidden           []bool
	Outside          []bool
	Buildings        []BuildingInstance
	SpatterPile      []SpatterPile
	Flows            []FlowInfo
}

func (b *MapBlock) Marshal() ([]byte, error) {
	e := protowire.NewEncoder()
	e.EncodeVarintForce(1, int64(b.MapX))
	e.EncodeVarintForce(2, int64(b.MapY))
	e.EncodeVarintForce(3, int64(b.MapZ))
	e.EncodeRepeatedVarint(4, b.Tiles)
	for i := range b.Materials {
		marshalSub(e, 5, &b.Materials[i])
	}
	e.EncodeRepeatedVarint(9, b.Magma)
	e.EncodeRepeatedVarint(10, b.Water)
	e.EncodeRepeatedBool(11, b.Hidden)
	e.EncodeRepeatedBool(14, b.Outside)
	for i := range b.Buildings {
		marshalSub(e, 19, &b.Buildings[i])
	}
	for i := range b.SpatterPile {
		marshalSub(e, 25, &b.SpatterPile[i])
	}
	for i := range b.Flows {
		marshalSub(e, 30, &b.Flows[i])
	}
	return e.Bytes(), nil
}

func (b *MapBlock) Unmarshal(data []byte) error {
	return protowire.Visit(data, func(d *protowire.Decoder, field int, typ protowire.Type) (bool, error) {
		var err error
		switch field {
		case 1:
			b.MapX, err = d.ReadInt32()
		case 2:
			b.MapY, err = d.ReadInt32()
		case 3:
			b.MapZ, err = d.ReadInt32()
		case 4:
			b.Tiles, err = d.ReadRepeatedInt32(typ, b.Tiles)
		case 5:
			var m MatPair
			err = d.ReadMessage(&m)
			b.Materials = append(b.Materials, m)
		case 9:
			b.Magma, err = d.ReadRepeatedInt32(typ, b.Magma)
		case 10:
			b.Water, err = d.ReadRepeatedInt32(typ, b.Water)
		case 11:
			b.Hidden, err = d.ReadRepeatedBool(typ, b.Hidden)
		case 14:
			b.Outside, err = d.ReadRepeatedBool(typ, b.Outside)
		case 19:
			var bi BuildingInstance
			err = d.ReadMessage(&bi)
			b.Buildings = append(b.Buildings, bi)
		case 25:
			var sp SpatterPile
			err = d.ReadMessage(&sp)
			b.SpatterPile = append(b.SpatterPile, sp)
		case 30:
			var f FlowInfo
			err = d.ReadMessage(&f)
			b.Flows = append(b.Flows, f)
		default:
			return false, nil
		}
		return true, err
	})
}

type BlockList struct {
	MapBlocks  []MapBlock
	MapX       int32
	MapY       int32
	Engravings []Engraving
}

func (l *BlockList) Marshal() ([]byte, error) {
	e := protowire.NewEncoder()
	for i := range l.MapBlocks {
		marshalSub(e, 1, &l.MapBlocks[i])
	}
	e.EncodeVarint(2, int64(l.MapX))
	e.EncodeVarint(3, int64(l.MapY))
	for i := range l.Engravings {
		marshalSub(e, 4, &l.Engravings[i])
	}
	return e.Bytes(), nil
}

func (l *BlockList) Unmarshal(data []byte) error {
	return protowire.Visit(data, func(d *protowire.Decoder, field int, _ protowire.Type) (bool, error) {
		var err error
		switch field {
		case 1:
			var b MapBlock
			err = d.ReadMessage(&b)
			l.MapBlocks = append(l.MapBlocks, b)
		case 2:
			l.MapX, err = d.ReadInt32()
		case 3:
			l.MapY, err = d.ReadInt32()
		case 4:
			var g Engraving
			err = d.ReadMessage(&g)
			l.Engravings = append(l.Engravings, g)
		default:
			return false, nil
		}
		return true, err
	})
}

// Engraving é uma gravura feita pelos anões num piso ou parede.
type Engraving struct {
	Pos     Coord
	Quality int32
	Tile    int32
	IsFloor bool
	Hidden  bool
}

func (g *Engraving) Marshal() ([]byte, error) {
	e := protowire.NewEncoder()
	marshalSub(e, 1, &g.Pos)
	e.EncodeVarint(2, int64(g.Quality))
	e.EncodeVarint(3, int64(g.Tile))
	e.EncodeBool(5, g.IsFloor)
	e.EncodeBool(10, g.Hidden)
	return e.Bytes(), nil
}

func (g *Engraving) Unmarshal(data []byte) error {
	return protowire.Visit(data, func(d *protowire.Decoder, field int, _ protowire.Type) (bool, error) {
		var err error
		switch field {
		case 1:
			err = d.ReadMessage(&g.Pos)
		case 2:
			g.Quality, err = d.ReadInt32()
		case 3:
			g.Tile, err = d.ReadInt32()
		case 5:
			g.IsFloor, err = d.ReadBool()
		case 10:
			g.Hidden, err = d.ReadBool()
		default:
			return false, nil
		}
		return true, err
	})
}

// BlockRequest pede blocos numa região em coordenadas de bloco (max exclusivo).
type BlockRequest struct {
	BlocksNeeded int32
	MinX, MaxX   int32
	MinY, MaxY   int32
	MinZ, MaxZ   int32
	ForceReload  bool
}

func (r *BlockRequest) Marshal() ([]byte, error) {
	e := protowire.NewEncoder()
	e.EncodeVarint(1, int64(r.BlocksNeeded))
	e.EncodeVarintForce(2, int64(r.MinX))
	e.EncodeVarintForce(3, int64(r.MaxX))
	e.EncodeVarintForce(4, int64(r.MinY))
	e.EncodeVarintForce(5, int64(r.MaxY))
	e.EncodeVarintForce(6, int64(r.MinZ))
	e.EncodeVarintForce(7, int64(r.MaxZ))
	e.EncodeBool(8, r.ForceReload)
	return e.Bytes(), nil
}

func (r *BlockRequest) Unmarshal(data []byte) error {
	return protowire.Visit(data, func(d *protowire.Decoder, field int, _ protowire.Type) (bool, error) {
		var err error
		switch field {
		case 1:
			r.BlocksNeeded, err = d.ReadInt32()
		case 2:
			r.MinX, err = d.ReadInt32()
		case 3:
			r.MaxX, err = d.ReadInt32()
		case 4:
			r.MinY, err = d.ReadInt32()
		case 5:
			r.MaxY, err = d.ReadInt32()
		case 6:
			r.MinZ, err = d.ReadInt32()
		case 7:
			r.MaxZ, err = d.ReadInt32()
		case 8:
			r.ForceReload, err = d.ReadBool()
		default:
			return false, nil
		}
		return true, err
	})
}

// --- Mapa e mundo ---

type MapInfo struct {
	BlockSizeX       int32
	BlockSizeY       int32
	BlockSizeZ       int32
	BlockPosX        int32
	BlockPosY        int32
	BlockPosZ        int32
	WorldName        string
	WorldNameEnglish string
	SaveName         string
}

func (m *MapInfo) Marshal() ([]byte, error) {
	e := protowire.NewEncoder()
	e.EncodeVarintForce(1, int64(m.BlockSizeX))
	e.EncodeVarintForce(2, int64(m.BlockSizeY))
	e.EncodeVarintForce(3, int64(m.BlockSizeZ))
	e.EncodeVarintForce(4, int64(m.BlockPosX))
	e.EncodeVarintForce(5, int64(m.BlockPosY))
	e.EncodeVarintForce(6, int64(m.BlockPosZ))
	e.EncodeString(7, m.WorldName)
	e.EncodeString(8, m.WorldNameEnglish)
	e.EncodeString(9, m.SaveName)
	return e.Bytes(), nil
}

func (m *MapInfo) Unmarshal(data []byte) error {
	return protowire.Visit(data, func(d *protowire.Decoder, field int, _ protowire.Type) (bool, error) {
		var err error
		switch field {
		case 1:
			m.BlockSizeX, err = d.ReadInt32()
		case 2:
			m.BlockSizeY, err = d.ReadInt32()
		case 3:
			m.BlockSizeZ, err = d.ReadInt32()
		case 4:
			m.BlockPosX, err = d.ReadInt32()
		case 5:
			m.BlockPosY, err = d.ReadInt32()
		case 6:
			m.BlockPosZ, err = d.ReadInt32()
		case 7:
			m.WorldName, err = d.ReadString()
		case 8:
			m.WorldNameEnglish, err = d.ReadString()
		case 9:
			m.SaveName, err = d.ReadString()
		default:
			return false, nil
		}
		return true, err
	})
}

// WorldMap traz apenas o nome do mundo e o calendário.
type WorldMap struct {
	WorldWidth  int32
	WorldHeight int32
	Name        string
	NameEnglish string
	CurYear     int32
	CurYearTick int32
}

func (w *WorldMap) Marshal() ([]byte, error) {
	e := protowire.NewEncoder()
	e.EncodeVarintForce(1, int64(w.WorldWidth))
	e.EncodeVarintForce(2, int64(w.WorldHeight))
	e.EncodeString(3, w.Name)
	e.EncodeString(4, w.NameEnglish)
	e.EncodeVarint(20, int64(w.CurYear))
	e.EncodeVarint(21, int64(w.CurYearTick))
	return e.Bytes(), nil
}

func (w *WorldMap) Unmarshal(data []byte) error {
	return protowire.Visit(data, func(d *protowire.Decoder, field int, _ protowire.Type) (bool, error) {
		var err error
		switch field {
		case 1:
			w.WorldWidth, err = d.ReadInt32()
		case 2:
			w.WorldHeight, err = d.ReadInt32()
		case 3:
			w.Name, err = d.ReadString()
		case 4:
			w.NameEnglish, err = d.ReadString()
		case 20:
			w.CurYear, err = d.ReadInt32()
		case 21:
			w.CurYearTick, err = d.ReadInt32()
		default:
			return false, nil
		}
		return true, err
	})
}

// BuildingKind é o valor de BuildingType.building_type (enum df::building_type).
type BuildingKind int32

const (
	BuildingNone             BuildingKind = -1
	BuildingChair            BuildingKind = 0
	BuildingBed              BuildingKind = 1
	BuildingTable            BuildingKind = 2
	BuildingCoffin           BuildingKind = 3
	BuildingFarmPlot         BuildingKind = 4
	BuildingFurnace          BuildingKind = 5
	BuildingTradeDepot       BuildingKind = 6
	BuildingShop             BuildingKind = 7
	BuildingDoor             BuildingKind = 8
	BuildingFloodgate        BuildingKind = 9
	BuildingBox              BuildingKind = 10
	BuildingWeaponrack       BuildingKind = 11
	BuildingArmorstand       BuildingKind = 12
	BuildingWorkshop         BuildingKind = 13
	BuildingCabinet          BuildingKind = 14
	BuildingStatue           BuildingKind = 15
	BuildingWindowGlass      BuildingKind = 16
	BuildingWindowGem        BuildingKind = 17
	BuildingWell             BuildingKind = 18
	BuildingBridge           BuildingKind = 19
	BuildingRoadDirt         BuildingKind = 20
	BuildingRoadPaved        BuildingKind = 21
	BuildingSiegeEngine      BuildingKind = 22
	BuildingTrap             BuildingKind = 23
	BuildingAnimalTrap       BuildingKind = 24
	BuildingSupport          BuildingKind = 25
	BuildingArcheryTarget    BuildingKind = 26
	BuildingChain            BuildingKind = 27
	BuildingCage             BuildingKind = 28
	BuildingStockpile        BuildingKind = 29
	BuildingCivzone          BuildingKind = 30
	BuildingWeapon           BuildingKind = 31
	BuildingWagon            BuildingKind = 32
	BuildingScrewPump        BuildingKind = 33
	BuildingConstruction     BuildingKind = 34
	BuildingHatch            BuildingKind = 35
	BuildingGrateWall        BuildingKind = 36
	BuildingGrateFloor       BuildingKind = 37
	BuildingBarsVertical     BuildingKind = 38
	BuildingBarsFloor        BuildingKind = 39
	BuildingGearAssembly     BuildingKind = 40
	BuildingAxleHorizontal   BuildingKind = 41
	BuildingAxleVertical     BuildingKind = 42
	BuildingWaterWheel       BuildingKind = 43
	BuildingWindmill         BuildingKind = 44
	BuildingTractionBench    BuildingKind = 45
	BuildingSlab             BuildingKind = 46
	BuildingNest             BuildingKind = 47
	BuildingNestBox          BuildingKind = 48
	BuildingHive             BuildingKind = 49
	BuildingRollers          BuildingKind = 50
	BuildingInstrument       BuildingKind = 51
	BuildingBookcase         BuildingKind = 52
	BuildingDisplayFurniture BuildingKind = 53
	BuildingOfferingPlace    BuildingKind = 54
)

var nomesEdificio = [...]string{
	"cadeira",
	"cama",
	"mesa",
	"caixao",
	"plantacao",
	"fornalha",
	"entreposto",
	"loja",
	"porta",
	"comporta",
	"bau",
	"armario de armas",
	"suporte de armadura",
	"oficina",
	"gabinete",
	"estatua",
	"janela de vidro",
	"janela de gema",
	"poco",
	"ponte",
	"estrada de terra",
	"estrada pavimentada",
	"maquina de cerco",
	"armadilha",
	"armadilha de animal",
	"suporte",
	"alvo de tiro",
	"corrente",
	"jaula",
	"estoque",
	"zona",
	"arma",
	"carroca",
	"bomba de parafuso",
	"construcao",
	"alcapao",
	"grade de parede",
	"grade de piso",
	"barras verticais",
	"barras de piso",
	"engrenagem",
	"eixo horizontal",
	"eixo vertical",
	"roda d'agua",
	"moinho de vento",
	"banco de tracao",
	"lapide",
	"ninho",
	"caixa de ninho",
	"colmeia",
	"roletes",
	"instrumento",
	"estante",
	"expositor",
	"altar",
}

// String devolve um nome curto, usado para nomear objetos na cena.
func (k BuildingKind) String() string {
	if k >= 0 && int(k) < len(nomesEdificio) {
		return nomesEdificio[k]
	}
	return fmt.Sprintf("edificio(%d)", int32(k))
}
