package mapdata

import (
	"bufio"
	"context"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"FortressVox/shared/util"
)

// VersaoSnapshot muda quando o formato gravado deixa de ser compatível.
const VersaoSnapshot = 1

// CabecalhoSnapshot é a primeira linha (JSON) de um arquivo de snapshot,
// legível sem decodificar o gob.
type CabecalhoSnapshot struct {
	Versao    int       `json:"versao"`
	Mundo     string    `json:"mundo"`
	Gravado   time.Time `json:"gravado"`
	NivelZMin int32     `json:"z_min"`
	NivelZMax int32     `json:"z_max"`
}

// Gravador repassa as chamadas a outro Leitor e guarda cada resposta.
type Gravador struct {
	Leitor

	mu   sync.Mutex
	snap *Snapshot
}

func NovoGravador(l Leitor) *Gravador {
	return &Gravador{Leitor: l}
}

func (g *Gravador) garantir(info InfoMapa) *Snapshot {
	if g.snap == nil {
		g.snap = novoSnapshot(info)
	}
	return g.snap
}

func (g *Gravador) Info(ctx context.Context) (InfoMapa, error) {
	info, err := g.Leitor.Info(ctx)
	if err != nil {
		return info, err
	}
	g.mu.Lock()
	g.garantir(info).Info = info
	g.mu.Unlock()
	return info, nil
}

func (g *Gravador) Materiais(ctx context.Context) (*Materiais, error) {
	m, err := g.Leitor.Materiais(ctx)
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	g.garantir(InfoMapa{}).Materiais = m.Todos()
	g.mu.Unlock()
	return m, nil
}

func (g *Gravador) Estacao(ctx context.Context) (Estacao, error) {
	e, err := g.Leitor.Estacao(ctx)
	if err != nil {
		return e, err
	}
	g.mu.Lock()
	g.garantir(InfoMapa{}).Estacao = e
	g.mu.Unlock()
	return e, nil
}

func (g *Gravador) Flora(ctx context.Context) (*Flora, error) {
	f, err := g.Leitor.Flora(ctx)
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	g.garantir(InfoMapa{}).Flora = f
	g.mu.Unlock()
	return f, nil
}

func (g *Gravador) Tiles(ctx context.Context, z int32, area util.Caixa) (*Nivel, error) {
	n, err := g.Leitor.Tiles(ctx, z, area)
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	g.garantir(InfoMapa{}).Niveis[z] = n
	g.mu.Unlock()
	return n, nil
}

func (g *Gravador) Edificios(ctx context.Context, zmin, zmax int32) ([]Edificio, error) {
	eds, err := g.Leitor.Edificios(ctx, zmin, zmax)
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	s := g.garantir(InfoMapa{})
	vistos := make(map[int32]bool, len(s.Edificios))
	for _, e := range s.Edificios {
		vistos[e.ID] = true
	}
	for _, e := range eds {
		if !vistos[e.ID] {
			s.Edificios = append(s.Edificios, e)
		}
	}
	g.mu.Unlock()
	return eds, nil
}

func (g *Gravador) Fluxos(ctx context.Context, z int32) ([]CelulaFluxo, error) {
	fl, err := g.Leitor.Fluxos(ctx, z)
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	g.garantir(InfoMapa{}).Fluxos[z] = fl
	g.mu.Unlock()
	return fl, nil
}

// Snapshot retorna o que foi gravado até agora.
func (g *Gravador) Snapshot() *Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.garantir(InfoMapa{})
}

// nivelZstd traduz o nível de compressão da configuração (1 a 4).
func nivelZstd(n int) zstd.EncoderLevel {
	switch {
	case n <= 1:
		return zstd.SpeedFastest
	case n == 2:
		return zstd.SpeedDefault
	case n == 3:
		return zstd.SpeedBetterCompression
	default:
		return zstd.SpeedBestCompression
	}
}

// EscreverSnapshot grava o cabeçalho JSON e o snapshot em gob, tudo em zstd.
func EscreverSnapshot(w io.Writer, snap *Snapshot, nivelCompressao int) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(nivelZstd(nivelCompressao)))
	if err != nil {
		return err
	}

	bw := bufio.NewWriterSize(enc, 256*1024)
	cab := CabecalhoSnapshot{
		Versao:  VersaoSnapshot,
		Mundo:   snap.Info.NomeMundo,
		Gravado: time.Now().UTC(),
	}
	primeiro := true
	for z := range snap.Niveis {
		if primeiro || z < cab.NivelZMin {
			cab.NivelZMin = z
		}
		if primeiro || z > cab.NivelZMax {
			cab.NivelZMax = z
		}
		primeiro = false
	}
	hb, _ := json.Marshal(cab)
	if _, err := bw.Write(append(hb, '\n')); err != nil {
		enc.Close()
		return err
	}
	if err := gob.NewEncoder(bw).Encode(snap); err != nil {
		enc.Close()
		return fmt.Errorf("gob encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// LerSnapshot lê o formato de EscreverSnapshot.
func LerSnapshot(r io.Reader) (*Snapshot, CabecalhoSnapshot, error) {
	var cab CabecalhoSnapshot
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, cab, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)
	linha, err := br.ReadBytes('\n')
	if err != nil {
		return nil, cab, fmt.Errorf("cabeçalho do snapshot: %w", err)
	}
	if err := json.Unmarshal(linha, &cab); err != nil {
		return nil, cab, fmt.Errorf("cabeçalho do snapshot: %w", err)
	}
	if cab.Versao != VersaoSnapshot {
		return nil, cab, fmt.Errorf("snapshot versão %d não suportada (esperada %d)", cab.Versao, VersaoSnapshot)
	}

	var snap Snapshot
	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return nil, cab, fmt.Errorf("gob decode: %w", err)
	}
	return &snap, cab, nil
}

// SalvarSnapshot grava o snapshot num arquivo, criando o diretório.
func SalvarSnapshot(caminho string, snap *Snapshot, nivelCompressao int) error {
	if err := os.MkdirAll(filepath.Dir(caminho), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(caminho, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if err := EscreverSnapshot(f, snap, nivelCompressao); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// AbrirSnapshot carrega um arquivo de snapshot como Leitor.
func AbrirSnapshot(caminho string) (*LeitorMemoria, CabecalhoSnapshot, error) {
	f, err := os.Open(caminho)
	if err != nil {
		return nil, CabecalhoSnapshot{}, err
	}
	defer f.Close()
	snap, cab, err := LerSnapshot(f)
	if err != nil {
		return nil, cab, fmt.Errorf("%s: %w", caminho, err)
	}
	return LeitorDeSnapshot(snap), cab, nil
}
