package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"FortressVox/exportador/internal/exportacao"
	"FortressVox/exportador/internal/forma"
	"FortressVox/shared/mapdata"
	"FortressVox/shared/pkg/dfproto"
	"FortressVox/shared/util"
)

func mapaDeTeste() *mapdata.LeitorMemoria {
	granito := mapdata.DefinicaoMaterial{Par: dfproto.MatPair{MatType: 0, MatIndex: 1}, Token: "INORGANIC:GRANITE", R: 160, G: 120, B: 110}
	l := mapdata.NovoLeitorMemoria(mapdata.InfoMapa{NomeMundo: "Urist", TamanhoX: 2, TamanhoY: 2, TamanhoZ: 3, OffsetElevacao: 10})
	l.AdicionarMaterial(granito)
	l.DefinirEstacao(mapdata.Outono)
	for z := range int32(3) {
		l.DefinirTile(mapdata.Tile{
			Pos:       util.NewDFCoord(0, 0, z),
			Tipo:      mapdata.TipoParede,
			Categoria: dfproto.TilematStone,
			Material:  granito.Par,
		})
	}
	return l
}

// executar roda a CLI com uma configuração que mantém o cache em dir.
func executar(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cfg := filepath.Join(dir, "config.json")
	conteudo := fmt.Sprintf(`{"cache_db": %q, "diretorio_saida": %q}`, filepath.Join(dir, "cache.db"), dir)
	if err := os.WriteFile(cfg, []byte(conteudo), 0o644); err != nil {
		t.Fatal(err)
	}
	var saida bytes.Buffer
	raiz := novaRaiz()
	raiz.SetOut(&saida)
	raiz.SetErr(&bytes.Buffer{})
	raiz.SetArgs(append(args, "--config", cfg))
	err := raiz.ExecuteContext(context.Background())
	return saida.String(), err
}

func TestGravarLimites(t *testing.T) {
	tests := []struct {
		nome string
		lim  limites
		want []int32
		err  error
	}{
		{"elevação", limites{inferior: 11, superior: 12}, []int32{0, 1, 2}, nil},
		{"z", limites{inferior: 0, superior: 0, z: true}, []int32{0, 1}, nil},
		{"meio", limites{inferior: 1, superior: 1, z: true}, []int32{0, 1, 2}, nil},
		{"invertido", limites{inferior: 2, superior: 1, z: true}, nil, exportacao.ErrLimitesInvalidos},
		{"fora do mapa", limites{inferior: 0, superior: 3, z: true}, nil, exportacao.ErrLimitesInvalidos},
	}
	for _, tt := range tests {
		t.Run(tt.nome, func(t *testing.T) {
			snap, err := gravar(context.Background(), mapaDeTeste(), tt.lim)
			if !errors.Is(err, tt.err) {
				t.Fatalf("gravar(%+v) erro = %v, want %v", tt.lim, err, tt.err)
			}
			if err != nil {
				return
			}
			if len(snap.Niveis) != len(tt.want) {
				t.Errorf("gravar(%+v) = %d níveis, want %d", tt.lim, len(snap.Niveis), len(tt.want))
			}
			for _, z := range tt.want {
				if snap.Niveis[z] == nil {
					t.Errorf("gravar(%+v) sem o nível %d", tt.lim, z)
				}
			}
			if len(snap.Materiais) != 1 || snap.Estacao != mapdata.Outono {
				t.Errorf("gravar(%+v) materiais = %d, estação = %v; want 1, outono", tt.lim, len(snap.Materiais), snap.Estacao)
			}
		})
	}
}

func TestExportarDeSnapshot(t *testing.T) {
	dir := t.TempDir()
	snap, err := gravar(context.Background(), mapaDeTeste(), limites{inferior: 0, superior: 2, z: true})
	if err != nil {
		t.Fatalf("gravar() erro: %v", err)
	}
	arquivo := filepath.Join(dir, "urist.snap.zst")
	if err := mapdata.SalvarSnapshot(arquivo, snap, 1); err != nil {
		t.Fatalf("SalvarSnapshot() erro: %v", err)
	}

	out, err := executar(t, dir, "exportar", "--snapshot", arquivo, "--inferior", "10", "--superior", "12", "--estacao", "inverno")
	if err != nil {
		t.Fatalf("exportar erro: %v", err)
	}
	vox := filepath.Join(dir, "urist-0-2.vox")
	if _, err := os.Stat(vox); err != nil {
		t.Fatalf("arquivo %s não foi criado: %v", vox, err)
	}
	for _, want := range []string{vox, "z 0..2, inverno", "voxels:"} {
		if !strings.Contains(out, want) {
			t.Errorf("saída sem %q:\n%s", want, out)
		}
	}

	out, err = executar(t, dir, "info", "--snapshot", arquivo)
	if err != nil {
		t.Fatalf("info erro: %v", err)
	}
	for _, want := range []string{"mundo:        Urist", "2x2x3 tiles", "elevações:    10..12", "urist-0-2.vox"} {
		if !strings.Contains(out, want) {
			t.Errorf("info sem %q:\n%s", want, out)
		}
	}
}

func TestExportarSemLimites(t *testing.T) {
	if _, err := executar(t, t.TempDir(), "exportar", "--snapshot", "x"); err == nil {
		t.Error("exportar sem --inferior/--superior não falhou")
	}
}

func TestSnapshotIgualAoVivo(t *testing.T) {
	l := mapaDeTeste()
	for z := range int32(2) {
		l.DefinirTile(mapdata.Tile{
			Pos:       util.NewDFCoord(1, 1, z),
			Tipo:      mapdata.TipoTronco,
			Categoria: dfproto.TilematTreeMaterial,
			Material:  dfproto.MatPair{MatType: 0, MatIndex: 1},
		})
	}
	snap, err := gravar(context.Background(), l, limites{inferior: 1, superior: 1, z: true})
	if err != nil {
		t.Fatalf("gravar() erro: %v", err)
	}
	dir := t.TempDir()
	exportar := func(nome string, leitor mapdata.Leitor) exportacao.Relatorio {
		t.Helper()
		rel, err := exportacao.Exportar(context.Background(), exportacao.Parametros{
			Leitor: leitor, Inferior: 1, Superior: 1, Saida: filepath.Join(dir, nome), Sub: forma.SubdivisaoPadrao,
		})
		if err != nil {
			t.Fatalf("Exportar(%s) erro: %v", nome, err)
		}
		return rel
	}
	vivo := exportar("vivo.vox", l)
	gravado := exportar("gravado.vox", mapdata.LeitorDeSnapshot(snap))
	if vivo.Voxels != gravado.Voxels || vivo.Cores != gravado.Cores {
		t.Errorf("snapshot = %d voxels, %d cores; ao vivo = %d voxels, %d cores", gravado.Voxels, gravado.Cores, vivo.Voxels, vivo.Cores)
	}
}

func TestPainelIndisponivel(t *testing.T) {
	ocupado, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ocupado.Close()

	p := exportacao.Parametros{Leitor: mapaDeTeste(), Inferior: 0, Superior: 2, Saida: filepath.Join(t.TempDir(), "urist.vox")}
	rel, err := exportarComProgresso(context.Background(), p, ocupado.Addr().String())
	if err != nil {
		t.Fatalf("exportarComProgresso(porta ocupada) erro: %v", err)
	}
	if rel.Voxels == 0 {
		t.Errorf("exportação sem voxels com o painel indisponível")
	}
}
