package dfproto

import "FortressVox/shared/pkg/protowire"

// PlantRawList é a resposta de GetPlantRawList, na ordem dos índices de planta.
type PlantRawList struct {
	PlantRaws []PlantRaw
}

func (l *PlantRawList) Marshal() ([]byte, error) {
	e := protowire.NewEncoder()
	for i := range l.PlantRaws {
		marshalSub(e, 1, &l.PlantRaws[i])
	}
	return e.Bytes(), nil
}

func (l *PlantRawList) Unmarshal(data []byte) error {
	return protowire.Visit(data, func(d *protowire.Decoder, field int, _ protowire.Type) (bool, error) {
		if field != 1 {
			return false, nil
		}
		var p PlantRaw
		err := d.ReadMessage(&p)
		l.PlantRaws = append(l.PlantRaws, p)
		return true, err
	})
}

// PlantRaw - definição de uma espécie de planta
type PlantRaw struct {
	Index   int32
	ID      string
	Name    string
	Growths []TreeGrowth
	Tile    int32
}

func (p *PlantRaw) Marshal() ([]byte, error) {
	e := protowire.NewEncoder()
	e.EncodeVarint(1, int64(p.Index))
	e.EncodeString(2, p.ID)
	e.EncodeString(3, p.Name)
	for i := range p.Growths {
		marshalSub(e, 4, &p.Growths[i])
	}
	e.EncodeVarint(5, int64(p.Tile))
	return e.Bytes(), nil
}

func (p *PlantRaw) Unmarshal(data []byte) error {
	return protowire.Visit(data, func(d *protowire.Decoder, field int, _ protowire.Type) (bool, error) {
		var err error
		switch field {
		case 1:
			p.Index, err = d.ReadInt32()
		case 2:
			p.ID, err = d.ReadString()
		case 3:
			p.Name, err = d.ReadString()
		case 4:
			var g TreeGrowth
			err = d.ReadMessage(&g)
			p.Growths = append(p.Growths, g)
		case 5:
			p.Tile, err = d.ReadInt32()
		default:
			return false, nil
		}
		return true, err
	})
}

// TreeGrowth - crescimento de uma árvore/planta. Timings negativos valem o
// ano inteiro.
type TreeGrowth struct {
	Index       int32
	ID          string
	Name        string
	Mat         MatPair
	Prints      []GrowthPrint
	TimingStart int32
	TimingEnd   int32

	Twigs         bool
	LightBranches bool
	HeavyBranches bool
	Trunk         bool
	Roots         bool
	Cap           bool
	Sapling       bool
}

func (g *TreeGrowth) Marshal() ([]byte, error) {
	e := protowire.NewEncoder()
	e.EncodeVarint(1, int64(g.Index))
	e.EncodeString(2, g.ID)
	e.EncodeString(3, g.Name)
	marshalSub(e, 4, &g.Mat)
	for i := range g.Prints {
		marshalSub(e, 5, &g.Prints[i])
	}
	e.EncodeVarint(6, int64(g.TimingStart))
	e.EncodeVarint(7, int64(g.TimingEnd))
	e.EncodeBool(8, g.Twigs)
	e.EncodeBool(9, g.LightBranches)
	e.EncodeBool(10, g.HeavyBranches)
	e.EncodeBool(11, g.Trunk)
	e.EncodeBool(12, g.Roots)
	e.EncodeBool(13, g.Cap)
	e.EncodeBool(14, g.Sapling)
	return e.Bytes(), nil
}

func (g *TreeGrowth) Unmarshal(data []byte) error {
	return protowire.Visit(data, func(d *protowire.Decoder, field int, _ protowire.Type) (bool, error) {
		var err error
		switch field {
		case 1:
			g.Index, err = d.ReadInt32()
		case 2:
			g.ID, err = d.ReadString()
		case 3:
			g.Name, err = d.ReadString()
		case 4:
			err = d.ReadMessage(&g.Mat)
		case 5:
			var p GrowthPrint
			err = d.ReadMessage(&p)
			g.Prints = append(g.Prints, p)
		case 6:
			g.TimingStart, err = d.ReadInt32()
		case 7:
			g.TimingEnd, err = d.ReadInt32()
		case 8:
			g.Twigs, err = d.ReadBool()
		case 9:
			g.LightBranches, err = d.ReadBool()
		case 10:
			g.HeavyBranches, err = d.ReadBool()
		case 11:
			g.Trunk, err = d.ReadBool()
		case 12:
			g.Roots, err = d.ReadBool()
		case 13:
			g.Cap, err = d.ReadBool()
		case 14:
			g.Sapling, err = d.ReadBool()
		default:
			return false, nil
		}
		return true, err
	})
}

// GrowthPrint - aparência visual de um crescimento. Color é uma das 16 cores
// de console.
type GrowthPrint struct {
	Priority    int32
	Color       int32
	TimingStart int32
	TimingEnd   int32
	Tile        int32
}

func (p *GrowthPrint) Marshal() ([]byte, error) {
	e := protowire.NewEncoder()
	e.EncodeVarint(1, int64(p.Priority))
	e.EncodeVarintForce(2, int64(p.Color))
	e.EncodeVarint(3, int64(p.TimingStart))
	e.EncodeVarint(4, int64(p.TimingEnd))
	e.EncodeVarint(5, int64(p.Tile))
	return e.Bytes(), nil
}

func (p *GrowthPrint) Unmarshal(data []byte) error {
	return protowire.Visit(data, func(d *protowire.Decoder, field int, _ protowire.Type) (bool, error) {
		var err error
		switch field {
		case 1:
			p.Priority, err = d.ReadInt32()
		case 2:
			p.Color, err = d.ReadInt32()
		case 3:
			p.TimingStart, err = d.ReadInt32()
		case 4:
			p.TimingEnd, err = d.ReadInt32()
		case 5:
			p.Tile, err = d.ReadInt32()
		default:
			return false, nil
		}
		return true, err
	})
}

// SingleBool - mensagem com apenas um bool
type SingleBool struct {
	Value bool
}

func (s *SingleBool) Marshal() ([]byte, error) {
	e := protowire.NewEncoder()
	e.EncodeVarintForce(1, boolVarint(s.Value))
	return e.Bytes(), nil
}

func (s *SingleBool) Unmarshal(data []byte) error {
	return protowire.Visit(data, func(d *protowire.Decoder, field int, _ protowire.Type) (bool, error) {
		if field != 1 {
			return false, nil
		}
		var err error
		s.Value, err = d.ReadBool()
		return true, err
	})
}

func boolVarint(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
