package material

import (
	_ "embed"
	"encoding/hex"
	"fmt"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"FortressVox/shared/mapdata"
)

//go:embed regras.yaml
var regrasEmbutidas []byte

// Regra associa um glob de token a um tipo de material.
type Regra struct {
	Padrao        string `yaml:"padrao"`
	Tipo          string `yaml:"tipo"`
	Cor           string `yaml:"cor"`
	Transparencia uint8  `yaml:"transparencia"`
	Metalico      uint8  `yaml:"metalico"`
	Rugosidade    uint8  `yaml:"rugosidade"`
	Emissao       uint8  `yaml:"emissao"`
	Fluxo         uint8  `yaml:"fluxo"`
	IOR           uint8  `yaml:"ior"`
	Meio          string `yaml:"meio"`
	Densidade     uint8  `yaml:"densidade"`
}

type arquivoRegras struct {
	Regras []Regra `yaml:"regras"`
}

// Regras é a tabela já validada, na ordem do arquivo.
type Regras struct {
	lista []regraCompilada
}

type regraCompilada struct {
	padrao string
	fisico Perfil
	cor    *[3]uint8
}

func (r *Regras) Len() int {
	if r == nil {
		return 0
	}
	return len(r.lista)
}

// CarregarRegras lê um arquivo YAML de regras. Caminho vazio usa a tabela embutida.
func CarregarRegras(caminho string) (*Regras, error) {
	if caminho == "" {
		return ParseRegras(regrasEmbutidas)
	}
	raw, err := os.ReadFile(caminho)
	if err != nil {
		return nil, err
	}
	r, err := ParseRegras(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", caminho, err)
	}
	return r, nil
}

// RegrasPadrao devolve a tabela embutida.
func RegrasPadrao() *Regras {
	r, err := ParseRegras(regrasEmbutidas)
	if err != nil {
		panic(fmt.Sprintf("material: regras embutidas inválidas: %v", err))
	}
	return r
}

func ParseRegras(raw []byte) (*Regras, error) {
	var arq arquivoRegras
	if err := yaml.Unmarshal(raw, &arq); err != nil {
		return nil, fmt.Errorf("regras de material: %w", err)
	}
	res := &Regras{lista: make([]regraCompilada, 0, len(arq.Regras))}
	for i, r := range arq.Regras {
		c, err := compilar(r)
		if err != nil {
			return nil, fmt.Errorf("regra %d (%q): %w", i+1, r.Padrao, err)
		}
		res.lista = append(res.lista, c)
	}
	return res, nil
}

func compilar(r Regra) (regraCompilada, error) {
	if r.Padrao == "" {
		return regraCompilada{}, fmt.Errorf("padrão vazio")
	}
	if _, err := path.Match(r.Padrao, ""); err != nil {
		return regraCompilada{}, err
	}
	tipo, err := ParseTipo(r.Tipo)
	if err != nil {
		return regraCompilada{}, err
	}
	meio, err := ParseMeio(r.Meio)
	if err != nil {
		return regraCompilada{}, err
	}
	if r.Transparencia > 100 || r.Metalico > 100 || r.Rugosidade > 100 || r.Emissao > 100 || r.Densidade > 100 {
		return regraCompilada{}, fmt.Errorf("percentual acima de 100")
	}
	if r.Fluxo > 4 {
		return regraCompilada{}, fmt.Errorf("fluxo %d fora de 0..4", r.Fluxo)
	}
	c := regraCompilada{
		padrao: r.Padrao,
		fisico: Perfil{
			Tipo:          tipo,
			Transparencia: r.Transparencia,
			Metalico:      r.Metalico,
			Rugosidade:    r.Rugosidade,
			Emissao:       r.Emissao,
			Fluxo:         r.Fluxo,
			IOR:           r.IOR,
			Meio:          meio,
			Densidade:     r.Densidade,
		},
	}
	if r.Cor != "" {
		cor, err := parseCor(r.Cor)
		if err != nil {
			return regraCompilada{}, err
		}
		c.cor = &cor
	}
	return c, nil
}

// parseCor aceita "#rrggbb" ou um token de cor do DF.
func parseCor(s string) ([3]uint8, error) {
	if strings.HasPrefix(s, "#") {
		b, err := hex.DecodeString(s[1:])
		if err != nil || len(b) != 3 {
			return [3]uint8{}, fmt.Errorf("cor inválida: %q", s)
		}
		return [3]uint8{b[0], b[1], b[2]}, nil
	}
	c, ok := mapdata.CorDF(strings.ToUpper(s))
	if !ok {
		return [3]uint8{}, fmt.Errorf("cor do DF desconhecida: %q", s)
	}
	return [3]uint8{c.R, c.G, c.B}, nil
}

// aplicar devolve o perfil com a primeira regra que casar com o token.
func (r *Regras) aplicar(token string, p Perfil) Perfil {
	if r == nil || token == "" {
		return p
	}
	for _, regra := range r.lista {
		if ok, _ := path.Match(regra.padrao, token); !ok {
			continue
		}
		f := regra.fisico
		f.R, f.G, f.B, f.A = p.R, p.G, p.B, p.A
		if regra.cor != nil {
			f.R, f.G, f.B = regra.cor[0], regra.cor[1], regra.cor[2]
		}
		return f
	}
	return p
}
