// Package logger centraliza o logrus usado por todos os componentes.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log é a instância global. Começa com os padrões do logrus para que pacotes
// usados em testes possam logar sem Init.
var Log = logrus.New()

// Init configura nível e formato. As variáveis LOG_LEVEL e LOG_FORMAT,
// quando presentes, têm prioridade sobre os valores da configuração.
func Init(nivel, formato string, saida io.Writer) {
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok {
		nivel = v
	}
	if v, ok := os.LookupEnv("LOG_FORMAT"); ok {
		formato = v
	}

	level, err := logrus.ParseLevel(nivel)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	if strings.ToLower(formato) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if saida == nil {
		saida = os.Stderr
	}
	Log.SetOutput(saida)
}

// Com retorna uma entrada marcada com o componente que está logando.
func Com(componente string) *logrus.Entry {
	return Log.WithField("componente", componente)
}
