// Package protowire embrulha google.golang.org/protobuf/encoding/protowire
// num Encoder/Decoder no estilo usado pelas mensagens de dfproto.
// Os campos repetidos aceitam tanto a forma empacotada quanto a expandida,
// já que o RemoteFortressReader usa proto2 sem [packed=true].
package protowire

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Type é o tipo de fio de um campo.
type Type = protowire.Type

// Tipos de fio reexportados para os switches de dfproto.
const (
	WireVarint          = protowire.VarintType
	Wire64Bit           = protowire.Fixed64Type
	WireLengthDelimited = protowire.BytesType
	Wire32Bit           = protowire.Fixed32Type
)

// ErrTipoInesperado indica que um campo chegou com tipo de fio incompatível.
var ErrTipoInesperado = errors.New("tipo de fio inesperado")

// ---------- ENCODER ----------

// Encoder acumula bytes no formato protobuf.
type Encoder struct {
	buf []byte
}

func NewEncoder() *Encoder {
	return &Encoder{buf: make([]byte, 0, 64)}
}

func (e *Encoder) Bytes() []byte {
	return e.buf
}

// EncodeVarint omite zeros, como o valor default de campos opcionais.
func (e *Encoder) EncodeVarint(field int, v int64) {
	if v == 0 {
		return
	}
	e.EncodeVarintForce(field, v)
}

// EncodeVarintForce codifica mesmo zero (campos required do proto2).
func (e *Encoder) EncodeVarintForce(field int, v int64) {
	e.buf = protowire.AppendTag(e.buf, protowire.Number(field), protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, uint64(v))
}

func (e *Encoder) EncodeBool(field int, v bool) {
	if !v {
		return
	}
	e.buf = protowire.AppendTag(e.buf, protowire.Number(field), protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, protowire.EncodeBool(v))
}

func (e *Encoder) EncodeString(field int, v string) {
	if v == "" {
		return
	}
	e.EncodeStringForce(field, v)
}

func (e *Encoder) EncodeStringForce(field int, v string) {
	e.buf = protowire.AppendTag(e.buf, protowire.Number(field), protowire.BytesType)
	e.buf = protowire.AppendString(e.buf, v)
}

// EncodeSubmessage grava uma submensagem já serializada. Submensagens vazias
// também são gravadas, pois a presença do campo tem significado.
func (e *Encoder) EncodeSubmessage(field int, sub []byte) {
	e.buf = protowire.AppendTag(e.buf, protowire.Number(field), protowire.BytesType)
	e.buf = protowire.AppendBytes(e.buf, sub)
}

func (e *Encoder) EncodeFloat(field int, v float32) {
	if v == 0 {
		return
	}
	e.buf = protowire.AppendTag(e.buf, protowire.Number(field), protowire.Fixed32Type)
	e.buf = protowire.AppendFixed32(e.buf, math.Float32bits(v))
}

// EncodeRepeatedVarint grava cada elemento com sua própria tag (forma expandida).
func (e *Encoder) EncodeRepeatedVarint(field int, values []int32) {
	for _, v := range values {
		e.EncodeVarintForce(field, int64(v))
	}
}

// EncodeRepeatedBool grava cada elemento com sua própria tag.
func (e *Encoder) EncodeRepeatedBool(field int, values []bool) {
	for _, v := range values {
		e.buf = protowire.AppendTag(e.buf, protowire.Number(field), protowire.VarintType)
		e.buf = protowire.AppendVarint(e.buf, protowire.EncodeBool(v))
	}
}

// ---------- DECODER ----------

// Decoder lê campos sequencialmente de um buffer.
type Decoder struct {
	buf []byte
}

func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Done indica que todo o buffer foi consumido.
func (d *Decoder) Done() bool {
	return len(d.buf) == 0
}

func (d *Decoder) avancar(n int) error {
	if n < 0 {
		return fmt.Errorf("protobuf corrompido: %w", protowire.ParseError(n))
	}
	d.buf = d.buf[n:]
	return nil
}

// ReadTag lê o número do campo e o tipo de fio.
func (d *Decoder) ReadTag() (int, Type, error) {
	num, typ, n := protowire.ConsumeTag(d.buf)
	if err := d.avancar(n); err != nil {
		return 0, 0, err
	}
	return int(num), typ, nil
}

func (d *Decoder) ReadVarint() (int64, error) {
	v, n := protowire.ConsumeVarint(d.buf)
	if err := d.avancar(n); err != nil {
		return 0, err
	}
	return int64(v), nil
}

// ReadInt32 lê um varint truncado para int32 (negativos vêm com 10 bytes).
func (d *Decoder) ReadInt32() (int32, error) {
	v, err := d.ReadVarint()
	return int32(v), err
}

func (d *Decoder) ReadBool() (bool, error) {
	v, n := protowire.ConsumeVarint(d.buf)
	if err := d.avancar(n); err != nil {
		return false, err
	}
	return protowire.DecodeBool(v), nil
}

func (d *Decoder) ReadBytes() ([]byte, error) {
	v, n := protowire.ConsumeBytes(d.buf)
	if err := d.avancar(n); err != nil {
		return nil, err
	}
	return v, nil
}

func (d *Decoder) ReadString() (string, error) {
	b, err := d.ReadBytes()
	return string(b), err
}

func (d *Decoder) ReadFloat() (float32, error) {
	v, n := protowire.ConsumeFixed32(d.buf)
	if err := d.avancar(n); err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// SkipField descarta o valor de um campo desconhecido.
func (d *Decoder) SkipField(field int, typ Type) error {
	n := protowire.ConsumeFieldValue(protowire.Number(field), typ, d.buf)
	return d.avancar(n)
}

// ReadRepeatedInt32 acrescenta a dst um elemento (forma expandida) ou todos
// os elementos de um bloco empacotado, conforme o tipo de fio.
func (d *Decoder) ReadRepeatedInt32(typ Type, dst []int32) ([]int32, error) {
	switch typ {
	case protowire.VarintType:
		v, err := d.ReadInt32()
		if err != nil {
			return dst, err
		}
		return append(dst, v), nil
	case protowire.BytesType:
		data, err := d.ReadBytes()
		if err != nil {
			return dst, err
		}
		for len(data) > 0 {
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return dst, fmt.Errorf("protobuf corrompido: %w", protowire.ParseError(n))
			}
			dst = append(dst, int32(v))
			data = data[n:]
		}
		return dst, nil
	default:
		return dst, ErrTipoInesperado
	}
}

// ReadRepeatedBool funciona como ReadRepeatedInt32 para campos bool.
func (d *Decoder) ReadRepeatedBool(typ Type, dst []bool) ([]bool, error) {
	ints, err := d.ReadRepeatedInt32(typ, nil)
	for _, v := range ints {
		dst = append(dst, v != 0)
	}
	return dst, err
}

// ReadMessage decodifica uma submensagem delimitada.
func (d *Decoder) ReadMessage(m interface{ Unmarshal([]byte) error }) error {
	data, err := d.ReadBytes()
	if err != nil {
		return err
	}
	return m.Unmarshal(data)
}

// Visit percorre todos os campos de data. fn retorna false para campos que
// não reconhece; esses são descartados.
func Visit(data []byte, fn func(d *Decoder, field int, typ Type) (bool, error)) error {
	d := NewDecoder(data)
	for !d.Done() {
		field, typ, err := d.ReadTag()
		if err != nil {
			return err
		}
		ok, err := fn(d, field, typ)
		if err != nil {
			return fmt.Errorf("campo %d: %w", field, err)
		}
		if !ok {
			if err := d.SkipField(field, typ); err != nil {
				return err
			}
		}
	}
	return nil
}
