package main

import (
	"context"
	"fmt"
	"io"
	"maps"
	"path/filepath"
	"slices"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"FortressVox/exportador/internal/dfhack"
	"FortressVox/exportador/internal/exportacao"
	"FortressVox/exportador/internal/forma"
	"FortressVox/exportador/internal/material"
	"FortressVox/exportador/internal/progresso"
	"FortressVox/shared/config"
	"FortressVox/shared/logger"
	"FortressVox/shared/mapdata"
	"FortressVox/shared/pkg/dfnet"
	"FortressVox/shared/util"
)

var log = logger.Com("exportador")

// limites são comuns a exportar e gravar.
type limites struct {
	inferior, superior int32
	z                  bool
}

func (l *limites) registrar(cmd *cobra.Command) {
	cmd.Flags().Int32Var(&l.inferior, "inferior", 0, "nível mais baixo (inclusivo)")
	cmd.Flags().Int32Var(&l.superior, "superior", 0, "nível mais alto (inclusivo)")
	cmd.Flags().BoolVar(&l.z, "z", false, "limites em coordenada z em vez da elevação exibida pelo jogo")
	cmd.MarkFlagRequired("inferior")
	cmd.MarkFlagRequired("superior")
}

type opcoesExportar struct {
	limites
	saida         string
	ocultos       bool
	estacao       string
	snapshot      string
	progressoWS   string
	trabalhadores int
	semente       uint64
}

func exportarCmd(g *opcoesGlobais) *cobra.Command {
	o := &opcoesExportar{}
	cmd := &cobra.Command{
		Use:   "exportar",
		Short: "Gera o .vox de um intervalo de níveis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executarExportar(cmd, g.cfg, o)
		},
	}
	o.limites.registrar(cmd)
	f := cmd.Flags()
	f.StringVarP(&o.saida, "saida", "o", "", "arquivo .vox (padrão: <mundo>-<inferior>-<superior>.vox no diretório de saída)")
	f.BoolVar(&o.ocultos, "ocultos", true, "incluir tiles ainda não revelados")
	f.StringVar(&o.estacao, "estacao", "", "força a estação (primavera, verao, outono, inverno)")
	f.StringVar(&o.snapshot, "snapshot", "", "lê de um snapshot gravado em vez do DFHack")
	f.StringVar(&o.progressoWS, "progresso-ws", "", "endereço para publicar o progresso via WebSocket (ex: 127.0.0.1:8090)")
	f.IntVar(&o.trabalhadores, "trabalhadores", 0, "níveis montados em paralelo")
	f.Uint64Var(&o.semente, "semente", 0, "semente das variações aleatórias")
	return cmd
}

func executarExportar(cmd *cobra.Command, cfg *config.Config, o *opcoesExportar) error {
	ctx := cmd.Context()
	fl := cmd.Flags()
	if fl.Changed("ocultos") {
		cfg.IncluirOcultos = o.ocultos
	}
	if fl.Changed("progresso-ws") {
		cfg.ProgressoWS = o.progressoWS
	}
	if fl.Changed("trabalhadores") {
		cfg.Trabalhadores = o.trabalhadores
	}
	if fl.Changed("semente") {
		cfg.Semente = o.semente
	}

	var est *mapdata.Estacao
	if o.estacao != "" {
		e, err := mapdata.ParseEstacao(o.estacao)
		if err != nil {
			return err
		}
		est = &e
	}
	regras, err := material.CarregarRegras(cfg.RegrasMateriais)
	if err != nil {
		return fmt.Errorf("regras de materiais: %w", err)
	}

	cache := abrirCache(cfg)
	if cache != nil {
		defer cache.Close()
	}
	leitor, fechar, err := abrirLeitor(ctx, cfg, o.snapshot, cache)
	if err != nil {
		return err
	}
	defer fechar()

	rel, err := exportarComProgresso(ctx, exportacao.Parametros{
		Leitor:           leitor,
		Inferior:         o.inferior,
		Superior:         o.superior,
		Elevacao:         !o.z,
		Saida:            o.saida,
		Diretorio:        cfg.DiretorioSaida,
		IncluirOcultos:   cfg.IncluirOcultos,
		Estacao:          est,
		Sub:              forma.Subdivisao{H: cfg.SubdivisaoHorizontal, V: cfg.SubdivisaoVertical},
		LimiteModelo:     cfg.LimiteModelo,
		ToleranciaPaleta: cfg.ToleranciaPaleta,
		Trabalhadores:    cfg.Trabalhadores,
		Semente:          cfg.Semente,
		Regras:           regras,
		Cache:            cache,
	}, cfg.ProgressoWS)
	if err != nil {
		return err
	}
	imprimirRelatorio(cmd.OutOrStdout(), rel)
	return nil
}

// exportarComProgresso roda a exportação e, com endereco, o hub de progresso
// ao lado. O hub para quando a exportação termina.
func exportarComProgresso(ctx context.Context, p exportacao.Parametros, endereco string) (exportacao.Relatorio, error) {
	if endereco == "" {
		return exportacao.Exportar(ctx, p)
	}
	hub := progresso.NovoHub()
	p.Progresso = func(ev exportacao.Progresso) { hub.Publicar(ev) }

	g, gctx := errgroup.WithContext(ctx)
	hubCtx, pararHub := context.WithCancel(gctx)
	defer pararHub()

	g.Go(func() error {
		hub.Executar(hubCtx)
		return nil
	})
	g.Go(func() error {
		// sem o painel a exportação segue normalmente
		if err := hub.Servir(hubCtx, endereco); err != nil {
			log.WithError(err).WithField("endereco", endereco).Warn("painel de progresso indisponível")
		}
		return nil
	})
	var rel exportacao.Relatorio
	g.Go(func() error {
		defer pararHub()
		var err error
		rel, err = exportacao.Exportar(gctx, p)
		return err
	})
	if err := g.Wait(); err != nil {
		return exportacao.Relatorio{}, err
	}
	if n := hub.Descartes(); n > 0 {
		log.WithField("eventos", n).Debug("eventos de progresso descartados")
	}
	return rel, nil
}

func imprimirRelatorio(w io.Writer, rel exportacao.Relatorio) {
	fmt.Fprintf(w, "arquivo:      %s\n", rel.Arquivo)
	fmt.Fprintf(w, "mundo:        %s (z %d..%d, %s)\n", rel.Mundo, rel.Inferior, rel.Superior, rel.Estacao)
	fmt.Fprintf(w, "voxels:       %d em %d modelos, %d cores\n", rel.Voxels, rel.Modelos, rel.Cores)
	fmt.Fprintf(w, "construções:  %d\n", rel.Construcoes)
	fmt.Fprintf(w, "duração:      %s\n", rel.Duracao.Round(time.Millisecond))
	if rel.TotalAvisos == 0 {
		return
	}
	fmt.Fprintf(w, "avisos:       %d\n", rel.TotalAvisos)
	for _, t := range slices.Sorted(maps.Keys(rel.Contagem)) {
		fmt.Fprintf(w, "  %-22s %d\n", t, rel.Contagem[t])
	}
}

type opcoesGravar struct {
	limites
	saida    string
	snapshot string
}

func gravarCmd(g *opcoesGlobais) *cobra.Command {
	o := &opcoesGravar{}
	cmd := &cobra.Command{
		Use:   "gravar",
		Short: "Grava um snapshot comprimido de um intervalo de níveis para exportar depois sem o jogo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executarGravar(cmd, g.cfg, o)
		},
	}
	o.limites.registrar(cmd)
	cmd.Flags().StringVarP(&o.saida, "saida", "o", "", "arquivo do snapshot (padrão: <mundo>-<inferior>-<superior>.snap.zst)")
	cmd.Flags().StringVar(&o.snapshot, "snapshot", "", "regrava a partir de outro snapshot")
	return cmd
}

func executarGravar(cmd *cobra.Command, cfg *config.Config, o *opcoesGravar) error {
	ctx := cmd.Context()
	cache := abrirCache(cfg)
	if cache != nil {
		defer cache.Close()
	}
	leitor, fechar, err := abrirLeitor(ctx, cfg, o.snapshot, cache)
	if err != nil {
		return err
	}
	defer fechar()

	snap, err := gravar(ctx, leitor, o.limites)
	if err != nil {
		return err
	}
	caminho := o.saida
	if caminho == "" {
		nome := fmt.Sprintf("%s-%d-%d.snap.zst", util.NomeArquivo(snap.Info.NomeMundo), o.inferior, o.superior)
		caminho = filepath.Join(cfg.DiretorioSaida, nome)
	}
	if err := mapdata.SalvarSnapshot(caminho, snap, cfg.NivelCompressao); err != nil {
		return fmt.Errorf("gravando %s: %w", caminho, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "snapshot:     %s (%d níveis, %d edifícios)\n", caminho, len(snap.Niveis), len(snap.Edificios))
	return nil
}

// gravar lê tudo o que uma exportação do intervalo pediria e devolve o que
// foi lido.
func gravar(ctx context.Context, l mapdata.Leitor, lim limites) (*mapdata.Snapshot, error) {
	g := mapdata.NovoGravador(l)
	info, err := g.Info(ctx)
	if err != nil {
		return nil, err
	}
	inf, sup := lim.inferior, lim.superior
	if !lim.z {
		inf, sup = info.ParaZ(inf), info.ParaZ(sup)
	}
	if inf > sup || inf < 0 || sup >= info.TamanhoZ {
		return nil, fmt.Errorf("%w: z %d..%d num mapa de %d níveis", exportacao.ErrLimitesInvalidos, inf, sup, info.TamanhoZ)
	}
	if _, err := g.Materiais(ctx); err != nil {
		return nil, err
	}
	if _, err := g.Estacao(ctx); err != nil {
		return nil, err
	}
	if _, err := g.Flora(ctx); err != nil {
		return nil, err
	}
	// a exportação olha um nível acima e um abaixo do intervalo
	for z := max(inf-1, 0); z <= min(sup+1, info.TamanhoZ-1); z++ {
		if _, err := g.Tiles(ctx, z, info.Area(z)); err != nil {
			return nil, err
		}
		if z >= inf && z <= sup {
			if _, err := g.Fluxos(ctx, z); err != nil {
				return nil, err
			}
		}
		log.WithField("z", z).Debug("nível gravado")
	}
	if _, err := g.Edificios(ctx, inf, sup); err != nil {
		return nil, err
	}
	return g.Snapshot(), nil
}

func infoCmd(g *opcoesGlobais) *cobra.Command {
	var snapshot string
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Mostra o mundo carregado, o cache de materiais e as últimas exportações",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executarInfo(cmd, g.cfg, snapshot)
		},
	}
	cmd.Flags().StringVar(&snapshot, "snapshot", "", "lê de um snapshot gravado em vez do DFHack")
	return cmd
}

func executarInfo(cmd *cobra.Command, cfg *config.Config, snapshot string) error {
	ctx := cmd.Context()
	w := cmd.OutOrStdout()
	cache := abrirCache(cfg)
	if cache != nil {
		defer cache.Close()
	}
	leitor, fechar, err := abrirLeitor(ctx, cfg, snapshot, cache)
	if err != nil {
		return err
	}
	defer fechar()

	info, err := leitor.Info(ctx)
	if err != nil {
		return err
	}
	est, err := leitor.Estacao(ctx)
	if err != nil {
		return err
	}
	mats, err := leitor.Materiais(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "mundo:        %s\n", info.NomeMundo)
	if info.NomeSave != "" {
		fmt.Fprintf(w, "save:         %s\n", info.NomeSave)
	}
	fmt.Fprintf(w, "tamanho:      %dx%dx%d tiles\n", info.TamanhoX, info.TamanhoY, info.TamanhoZ)
	fmt.Fprintf(w, "elevações:    %d..%d (z 0..%d)\n", info.OffsetElevacao, info.OffsetElevacao+info.TamanhoZ-1, info.TamanhoZ-1)
	fmt.Fprintf(w, "estação:      %s\n", est)
	fmt.Fprintf(w, "materiais:    %d\n", mats.Len())

	if cache == nil {
		fmt.Fprintln(w, "cache:        desativado")
		return nil
	}
	salvos, err := cache.CarregarMateriais(info.NomeMundo)
	if err != nil {
		return err
	}
	versao, _, err := cache.Metadado("FormatVersion")
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "cache:        %s (formato %s, %d materiais do mundo)\n", cfg.CacheDB, versao, salvos.Len())
	hs, err := cache.Historico(info.NomeMundo, 5)
	if err != nil {
		return err
	}
	for _, h := range hs {
		fmt.Fprintf(w, "  %s  z %d..%d  %d voxels  %s\n", h.CreatedAt.Local().Format("2006-01-02 15:04"), h.Inferior, h.Superior, h.Voxels, h.Arquivo)
	}
	return nil
}

// abrirCache devolve nil, com um aviso no log, se o banco não abrir. O cache
// nunca impede uma exportação.
func abrirCache(cfg *config.Config) *mapdata.Cache {
	if cfg.CacheDB == "" {
		return nil
	}
	c, err := mapdata.AbrirCache(cfg.CacheDB)
	if err != nil {
		log.WithError(err).Warn("cache indisponível, seguindo sem histórico")
		return nil
	}
	return c
}

// abrirLeitor escolhe entre um snapshot e o DFHack ao vivo.
func abrirLeitor(ctx context.Context, cfg *config.Config, snapshot string, cache *mapdata.Cache) (mapdata.Leitor, func(), error) {
	if snapshot != "" {
		l, cab, err := mapdata.AbrirSnapshot(snapshot)
		if err != nil {
			return nil, nil, err
		}
		log.WithFields(logrus.Fields{
			"snapshot": snapshot,
			"mundo":    cab.Mundo,
			"gravado":  cab.Gravado.Format(time.RFC3339),
		}).Info("snapshot carregado")
		return l, func() {}, nil
	}
	l, err := dfhack.Conectar(ctx, cfg.Endereco(), dfhack.Opcoes{
		Opcoes: dfnet.Opcoes{
			TimeoutConexao: time.Duration(cfg.TimeoutConexaoSeg) * time.Second,
			TimeoutLeitura: time.Duration(cfg.TimeoutLeituraSeg) * time.Second,
		},
		BlocosPorRequisicao: cfg.BlocosPorRequisicao,
		Pausar:              cfg.PausarJogo,
		Cache:               cache,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("conectando ao DFHack em %s: %w", cfg.Endereco(), err)
	}
	return l, l.Close, nil
}
