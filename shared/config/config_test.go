package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadArquivoAusente(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nao-existe.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SubdivisaoHorizontal != 3 || cfg.SubdivisaoVertical != 5 {
		t.Errorf("subdivisão = %dx%d, want 3x5", cfg.SubdivisaoHorizontal, cfg.SubdivisaoVertical)
	}
	if !cfg.PausarJogo {
		t.Error("PausarJogo = false, want padrão true")
	}
}

func TestLoadSobrescreveParcial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"dfhack_port": 5001, "incluir_ocultos": false, "pausar_jogo": false}`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DFHackPort != 5001 {
		t.Errorf("DFHackPort = %d, want 5001", cfg.DFHackPort)
	}
	if cfg.IncluirOcultos {
		t.Error("IncluirOcultos = true, want false")
	}
	if cfg.PausarJogo {
		t.Error("PausarJogo = true, want false")
	}
	if cfg.LimiteModelo != 256 {
		t.Errorf("LimiteModelo = %d, want padrão 256", cfg.LimiteModelo)
	}
}

func TestLoadRejeitaInvalido(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"porta fora do intervalo", `{"dfhack_port": 70000}`},
		{"limite acima do formato", `{"limite_modelo": 512}`},
		{"campo desconhecido", `{"janela": 1}`},
		{"formato de log", `{"log_formato": "xml"}`},
		{"pausa não booleana", `{"pausar_jogo": "sim"}`},
	}
	for _, tt := range tests {
		path := filepath.Join(t.TempDir(), "config.json")
		if err := os.WriteFile(path, []byte(tt.doc), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("%s: Load aceitou %s", tt.name, tt.doc)
		}
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")
	cfg := DefaultConfig()
	cfg.Semente = 42
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Semente != 42 {
		t.Errorf("Semente = %d, want 42", got.Semente)
	}
}
