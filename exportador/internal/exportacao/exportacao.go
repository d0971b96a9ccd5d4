// Package exportacao liga a grade, a cena e o gravador .vox numa única
// chamada que produz um arquivo ou falha sem deixar nada para trás.
package exportacao

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"FortressVox/exportador/internal/aviso"
	"FortressVox/exportador/internal/cena"
	"FortressVox/exportador/internal/forma"
	"FortressVox/exportador/internal/grade"
	"FortressVox/exportador/internal/material"
	"FortressVox/exportador/internal/paleta"
	"FortressVox/exportador/internal/vox"
	"FortressVox/shared/logger"
	"FortressVox/shared/mapdata"
	"FortressVox/shared/util"
)

var (
	// ErrLimitesInvalidos: inferior > superior ou intervalo fora do mapa.
	ErrLimitesInvalidos = grade.ErrLimitesInvalidos
	// ErrCancelado embrulha o erro do contexto quando a exportação é interrompida.
	ErrCancelado = errors.New("exportação cancelada")
)

var log = logger.Com("exportacao")

// Etapa identifica a fase corrente para quem acompanha o progresso.
type Etapa string

const (
	EtapaNiveis    Etapa = "niveis"
	EtapaCena      Etapa = "cena"
	EtapaGravacao  Etapa = "gravacao"
	EtapaConcluida Etapa = "concluida"
)

// Progresso é um evento de andamento. Feitos e Total só valem em EtapaNiveis.
type Progresso struct {
	Etapa  Etapa `json:"etapa"`
	Feitos int   `json:"feitos"`
	Total  int   `json:"total"`
}

// Parametros descrevem uma exportação.
type Parametros struct {
	Leitor mapdata.Leitor

	// Inferior e Superior são inclusivos. Com Elevacao, são as elevações
	// exibidas pelo jogo e passam pelo offset do mapa.
	Inferior, Superior int32
	Elevacao           bool
	Area               util.Caixa

	// Saida é o caminho do .vox. Vazio gera <mundo>-<inf>-<sup>.vox em Diretorio.
	Saida     string
	Diretorio string

	IncluirOcultos bool
	Estacao        *mapdata.Estacao

	Sub              forma.Subdivisao
	LimiteModelo     int
	ToleranciaPaleta float64
	Trabalhadores    int
	Semente          uint64
	Regras           *material.Regras

	// Cache, quando presente, recebe uma linha no histórico.
	Cache *mapdata.Cache
	// Progresso não deve bloquear.
	Progresso func(Progresso)
}

// Relatorio resume uma exportação concluída.
type Relatorio struct {
	Arquivo     string
	Mundo       string
	Inferior    int32 // z
	Superior    int32 // z
	Estacao     mapdata.Estacao
	Voxels      int
	Modelos     int
	Cores       int
	Construcoes int
	Avisos      []aviso.Aviso
	Contagem    map[aviso.Tipo]int
	TotalAvisos int
	Duracao     time.Duration
}

// Exportar monta a grade, agrupa, particiona e grava o .vox. Só erros de
// conexão, de E/S, de limites ou o cancelamento interrompem; problemas de
// dados ficam em Relatorio.Avisos.
func Exportar(ctx context.Context, p Parametros) (Relatorio, error) {
	inicio := time.Now()
	if p.Inferior > p.Superior {
		return Relatorio{}, fmt.Errorf("%w: inferior %d > superior %d", ErrLimitesInvalidos, p.Inferior, p.Superior)
	}
	if p.Leitor == nil {
		return Relatorio{}, errors.New("exportacao: leitor ausente")
	}
	avisar := func(ev Progresso) {
		if p.Progresso != nil {
			p.Progresso(ev)
		}
	}

	inf, sup := p.Inferior, p.Superior
	if p.Elevacao {
		info, err := p.Leitor.Info(ctx)
		if err != nil {
			return Relatorio{}, interrompido(ctx, fmt.Errorf("lendo informações do mapa: %w", err))
		}
		inf, sup = info.ParaZ(inf), info.ParaZ(sup)
	}

	alocador := paleta.NovoAlocador(p.ToleranciaPaleta, paleta.Capacidade)
	avisos := aviso.NovoColetor()
	res, err := grade.Construtor{}.Construir(ctx, grade.Entrada{
		Leitor:         p.Leitor,
		Inferior:       inf,
		Superior:       sup,
		Area:           p.Area,
		Sub:            p.Sub,
		IncluirOcultos: p.IncluirOcultos,
		Semente:        p.Semente,
		Estacao:        p.Estacao,
		Regras:         p.Regras,
		Paleta:         alocador,
		Trabalhadores:  p.Trabalhadores,
		Avisos:         avisos,
		Progresso: func(feitos, total int) {
			avisar(Progresso{Etapa: EtapaNiveis, Feitos: feitos, Total: total})
		},
	})
	if err != nil {
		return Relatorio{}, interrompido(ctx, err)
	}

	avisar(Progresso{Etapa: EtapaCena})
	c := cena.Agrupar(res)
	c.Particionar(p.LimiteModelo)
	tabela := alocador.Finalizar()

	rel := Relatorio{
		Mundo:       res.Info.NomeMundo,
		Inferior:    res.Inferior,
		Superior:    res.Superior,
		Estacao:     res.Estacao,
		Cores:       len(tabela),
		Construcoes: len(res.Construcoes),
	}
	c.Percorrer(func(_ []*cena.Grupo, o *cena.Objeto) {
		rel.Voxels += len(o.Voxels)
		rel.Modelos += len(o.Pedacos)
	})

	if err := ctx.Err(); err != nil {
		return Relatorio{}, interrompido(ctx, err)
	}

	rel.Arquivo = p.Saida
	if rel.Arquivo == "" {
		nome := fmt.Sprintf("%s-%d-%d.vox", util.NomeArquivo(res.Info.NomeMundo), res.Inferior, res.Superior)
		rel.Arquivo = filepath.Join(p.Diretorio, nome)
	}
	avisar(Progresso{Etapa: EtapaGravacao})
	if err := gravarAtomico(rel.Arquivo, func(f *os.File) error {
		return vox.Escrever(f, c, tabela, alocador)
	}); err != nil {
		return Relatorio{}, fmt.Errorf("gravando %s: %w", rel.Arquivo, err)
	}

	rel.Avisos = avisos.Avisos()
	rel.Contagem = avisos.Contagem()
	rel.TotalAvisos = avisos.Total()
	rel.Duracao = time.Since(inicio)

	if p.Cache != nil {
		err := p.Cache.RegistrarExportacao(&mapdata.ExportacaoModel{
			Mundo:    rel.Mundo,
			Inferior: rel.Inferior,
			Superior: rel.Superior,
			Arquivo:  rel.Arquivo,
			Voxels:   rel.Voxels,
			Modelos:  rel.Modelos,
			Cores:    rel.Cores,
			Avisos:   rel.TotalAvisos,
			Duracao:  rel.Duracao,
		})
		if err != nil {
			log.WithError(err).Warn("não foi possível registrar a exportação no histórico")
		}
	}

	avisar(Progresso{Etapa: EtapaConcluida})
	log.WithFields(logrus.Fields{
		"arquivo": rel.Arquivo,
		"voxels":  rel.Voxels,
		"modelos": rel.Modelos,
		"cores":   rel.Cores,
		"avisos":  rel.TotalAvisos,
		"duracao": rel.Duracao.Round(time.Millisecond),
	}).Info("exportação concluída")
	return rel, nil
}

// interrompido marca com ErrCancelado os erros causados pelo contexto.
func interrompido(ctx context.Context, err error) error {
	if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return fmt.Errorf("%w: %w", ErrCancelado, err)
	}
	return err
}

// gravarAtomico escreve num temporário no mesmo diretório, sincroniza e
// renomeia. Em qualquer falha o temporário é removido e o destino não muda.
func gravarAtomico(caminho string, escrever func(*os.File) error) (err error) {
	dir := filepath.Dir(caminho)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(caminho)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()

	if err = escrever(f); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, caminho)
}
