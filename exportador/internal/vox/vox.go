// Package vox grava cenas no formato .vox do MagicaVoxel (versão 150, com
// grafo de cena, camadas e materiais).
package vox

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	Magica = "VOX "
	Versao = 150
)

// par é uma entrada de DICT; a ordem de gravação é a da lista.
type par struct {
	chave, valor string
}

type dicionario []par

// bloco acumula o conteúdo de um chunk em little endian.
type bloco struct {
	bytes.Buffer
}

func (b *bloco) i32(v int32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], uint32(v))
	b.Write(tmp[:])
}

func (b *bloco) texto(s string) {
	b.i32(int32(len(s)))
	b.WriteString(s)
}

func (b *bloco) dict(d dicionario) {
	b.i32(int32(len(d)))
	for _, p := range d {
		b.texto(p.chave)
		b.texto(p.valor)
	}
}

// chunk grava id, tamanho do conteúdo, tamanho dos filhos, conteúdo e filhos.
func chunk(w io.Writer, id string, conteudo, filhos []byte) error {
	var cab [12]byte
	copy(cab[:4], id)
	binary.LittleEndian.PutUint32(cab[4:8], uint32(len(conteudo)))
	binary.LittleEndian.PutUint32(cab[8:12], uint32(len(filhos)))
	if _, err := w.Write(cab[:]); err != nil {
		return err
	}
	if _, err := w.Write(conteudo); err != nil {
		return err
	}
	_, err := w.Write(filhos)
	return err
}

// Rotacao codifica quartos de volta no sentido horário (vista de cima) no
// byte "_r": índice da coluna não nula das linhas 0 e 1 nos bits 0..3 e o
// sinal de cada linha nos bits 4..6.
func Rotacao(quartos int) byte {
	m := mgl32.Rotate3DZ(-float32(quartos) * math.Pi / 2)
	var r byte
	for linha := 0; linha < 3; linha++ {
		for col := 0; col < 3; col++ {
			v := m.At(linha, col)
			if math.Abs(float64(v)) < 0.5 {
				continue
			}
			if linha < 2 {
				r |= byte(col) << (2 * linha)
			}
			if v < 0 {
				r |= 1 << (4 + linha)
			}
		}
	}
	return r
}

func formatarFracao(v uint8) string {
	return strconv.FormatFloat(float64(v)/100, 'f', -1, 32)
}
