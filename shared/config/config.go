package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Config armazena as configurações do FortressVox.
type Config struct {
	// DFHack
	DFHackHost          string `json:"dfhack_host"`
	DFHackPort          int    `json:"dfhack_port"`
	TimeoutConexaoSeg   int    `json:"timeout_conexao_seg"`
	TimeoutLeituraSeg   int    `json:"timeout_leitura_seg"`
	BlocosPorRequisicao int32  `json:"blocos_por_requisicao"`
	PausarJogo          bool   `json:"pausar_jogo"` // pausa o DF enquanto os blocos são lidos

	// Voxelização
	SubdivisaoHorizontal int     `json:"subdivisao_horizontal"`
	SubdivisaoVertical   int     `json:"subdivisao_vertical"`
	LimiteModelo         int     `json:"limite_modelo"`
	ToleranciaPaleta     float64 `json:"tolerancia_paleta"`
	IncluirOcultos       bool    `json:"incluir_ocultos"`
	Trabalhadores        int     `json:"trabalhadores"`
	Semente              uint64  `json:"semente"`
	RegrasMateriais      string  `json:"regras_materiais"` // vazio = tabela embutida

	// Persistência
	CacheDB         string `json:"cache_db"`
	NivelCompressao int    `json:"nivel_compressao"` // 1 (rápido) a 4 (melhor)
	DiretorioSaida  string `json:"diretorio_saida"`

	// Observabilidade
	LogNivel    string `json:"log_nivel"`
	LogFormato  string `json:"log_formato"`
	ProgressoWS string `json:"progresso_ws"` // ex: "127.0.0.1:8090"; vazio desativa
}

// DefaultConfig retorna a configuração padrão.
func DefaultConfig() *Config {
	return &Config{
		DFHackHost:          "127.0.0.1",
		DFHackPort:          5000,
		TimeoutConexaoSeg:   15,
		TimeoutLeituraSeg:   60,
		BlocosPorRequisicao: 100,
		PausarJogo:          true,

		SubdivisaoHorizontal: 3,
		SubdivisaoVertical:   5,
		LimiteModelo:         256,
		ToleranciaPaleta:     2.0,
		IncluirOcultos:       true,
		Trabalhadores:        4,

		CacheDB:         filepath.Join("cache", "fortressvox.db"),
		NivelCompressao: 2,
		DiretorioSaida:  ".",

		LogNivel:   "info",
		LogFormato: "text",
	}
}

// Endereco retorna host:porta do DFHack.
func (c *Config) Endereco() string {
	return fmt.Sprintf("%s:%d", c.DFHackHost, c.DFHackPort)
}

//go:embed config.schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compilarSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource("config.schema.json", bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = c.Compile("config.schema.json")
	})
	return schema, schemaErr
}

// configPath retorna o caminho padrão: config.json ao lado do executável.
func configPath() string {
	execDir, err := os.Executable()
	if err != nil {
		return "config.json"
	}
	return filepath.Join(filepath.Dir(execDir), "config.json")
}

// Load carrega as configurações de um arquivo JSON.
// Caminho vazio usa config.json ao lado do executável. Se o arquivo não
// existir, retorna as configurações padrão.
func Load(caminho string) (*Config, error) {
	if caminho == "" {
		caminho = configPath()
	}
	cfg := DefaultConfig()

	data, err := os.ReadFile(caminho)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("falha ao ler %s: %w", caminho, err)
	}

	if err := Validar(data); err != nil {
		return nil, fmt.Errorf("%s inválido: %w", caminho, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("falha ao decodificar %s: %w", caminho, err)
	}
	return cfg, nil
}

// Validar confere um documento JSON contra o schema embutido.
func Validar(data []byte) error {
	s, err := compilarSchema()
	if err != nil {
		return fmt.Errorf("schema de configuração: %w", err)
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	return s.Validate(doc)
}

// Save salva as configurações em um arquivo JSON.
func (c *Config) Save(caminho string) error {
	if caminho == "" {
		caminho = configPath()
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(caminho), 0755); err != nil {
		return err
	}
	return os.WriteFile(caminho, data, 0644)
}
