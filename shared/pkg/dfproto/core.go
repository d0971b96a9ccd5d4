// Package dfproto contém as mensagens protobuf do DFHack usadas pelo exportador,
// codificadas à mão sobre shared/pkg/protowire.
// Baseado em: dfhack/library/proto/CoreProtocol.proto e
// plugins/remotefortressreader/proto/RemoteFortressReader.proto
package dfproto

import (
	"strings"

	"FortressVox/shared/pkg/protowire"
)

// EmptyMessage representa uma mensagem vazia (sem campos).
type EmptyMessage struct{}

func (m *EmptyMessage) Marshal() ([]byte, error) {
	return []byte{}, nil
}

func (m *EmptyMessage) Unmarshal(data []byte) error {
	return protowire.Visit(data, func(*protowire.Decoder, int, protowire.Type) (bool, error) {
		return false, nil
	})
}

// CoreBindRequest vincula um método RPC de um plugin.
//
//	message CoreBindRequest {
//	  required string method = 1;
//	  required string input_msg = 2;
//	  required string output_msg = 3;
//	  optional string plugin = 4;
//	}
type CoreBindRequest struct {
	Method    string
	InputMsg  string
	OutputMsg string
	Plugin    string
}

func (m *CoreBindRequest) Marshal() ([]byte, error) {
	e := protowire.NewEncoder()
	e.EncodeStringForce(1, m.Method)
	e.EncodeStringForce(2, m.InputMsg)
	e.EncodeStringForce(3, m.OutputMsg)
	e.EncodeString(4, m.Plugin)
	return e.Bytes(), nil
}

func (m *CoreBindRequest) Unmarshal(data []byte) error {
	return protowire.Visit(data, func(d *protowire.Decoder, field int, _ protowire.Type) (bool, error) {
		var err error
		switch field {
		case 1:
			m.Method, err = d.ReadString()
		case 2:
			m.InputMsg, err = d.ReadString()
		case 3:
			m.OutputMsg, err = d.ReadString()
		case 4:
			m.Plugin, err = d.ReadString()
		default:
			return false, nil
		}
		return true, err
	})
}

// CoreBindReply é a resposta do bind.
//
//	message CoreBindReply {
//	  required int32 assigned_id = 1;
//	}
type CoreBindReply struct {
	AssignedID int32
}

func (m *CoreBindReply) Marshal() ([]byte, error) {
	e := protowire.NewEncoder()
	e.EncodeVarintForce(1, int64(m.AssignedID))
	return e.Bytes(), nil
}

func (m *CoreBindReply) Unmarshal(data []byte) error {
	return protowire.Visit(data, func(d *protowire.Decoder, field int, _ protowire.Type) (bool, error) {
		if field != 1 {
			return false, nil
		}
		var err error
		m.AssignedID, err = d.ReadInt32()
		return true, err
	})
}

// CoreTextFragment é um trecho de texto colorido do console do DFHack.
type CoreTextFragment struct {
	Text  string
	Color int32
}

func (m *CoreTextFragment) Marshal() ([]byte, error) {
	e := protowire.NewEncoder()
	e.EncodeStringForce(1, m.Text)
	e.EncodeVarint(2, int64(m.Color))
	return e.Bytes(), nil
}

func (m *CoreTextFragment) Unmarshal(data []byte) error {
	return protowire.Visit(data, func(d *protowire.Decoder, field int, _ protowire.Type) (bool, error) {
		var err error
		switch field {
		case 1:
			m.Text, err = d.ReadString()
		case 2:
			m.Color, err = d.ReadInt32()
		default:
			return false, nil
		}
		return true, err
	})
}

// CoreTextNotification chega com o código RPC_REPLY_TEXT durante uma chamada.
//
//	message CoreTextNotification {
//	  repeated CoreTextFragment fragments = 1;
//	}
type CoreTextNotification struct {
	Fragments []CoreTextFragment
}

func (m *CoreTextNotification) Marshal() ([]byte, error) {
	e := protowire.NewEncoder()
	for i := range m.Fragments {
		sub, _ := m.Fragments[i].Marshal()
		e.EncodeSubmessage(1, sub)
	}
	return e.Bytes(), nil
}

func (m *CoreTextNotification) Unmarshal(data []byte) error {
	return protowire.Visit(data, func(d *protowire.Decoder, field int, _ protowire.Type) (bool, error) {
		if field != 1 {
			return false, nil
		}
		var frag CoreTextFragment
		if err := d.ReadMessage(&frag); err != nil {
			return true, err
		}
		m.Fragments = append(m.Fragments, frag)
		return true, nil
	})
}

// Texto junta os fragmentos num único texto.
func (m *CoreTextNotification) Texto() string {
	var b strings.Builder
	for _, f := range m.Fragments {
		b.WriteString(f.Text)
	}
	return strings.TrimSpace(b.String())
}
