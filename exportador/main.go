package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"FortressVox/shared/config"
	"FortressVox/shared/logger"
)

// opcoesGlobais valem para todos os subcomandos.
type opcoesGlobais struct {
	config string
	cfg    *config.Config
}

func main() {
	// Ctrl+C cancela a leitura em andamento sem deixar arquivo parcial
	ctx, parar := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer parar()

	if err := novaRaiz().ExecuteContext(ctx); err != nil {
		parar()
		os.Exit(1)
	}
}

func novaRaiz() *cobra.Command {
	g := &opcoesGlobais{}
	raiz := &cobra.Command{
		Use:          "exportador",
		Short:        "Exporta um trecho de um mapa do Dwarf Fortress para MagicaVoxel (.vox)",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(g.config)
			if err != nil {
				return err
			}
			g.cfg = cfg
			logger.Init(cfg.LogNivel, cfg.LogFormato, cmd.ErrOrStderr())
			return nil
		},
	}
	raiz.PersistentFlags().StringVar(&g.config, "config", "", "arquivo de configuração JSON (padrão: config.json ao lado do executável)")

	raiz.AddCommand(exportarCmd(g))
	raiz.AddCommand(gravarCmd(g))
	raiz.AddCommand(infoCmd(g))
	return raiz
}
