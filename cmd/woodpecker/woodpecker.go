package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bondappetit/woodpecker/internal/config"
	"github.com/bondappetit/woodpecker/internal/metrics"
	"github.com/bondappetit/woodpecker/internal/pipeline"
	"github.com/bondappetit/woodpecker/internal/source"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "woodpecker",
	Short: "Runs the configured data pipelines on their schedules",
	RunE:  run,
	// config errors are reported once by main
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "config.json", "path to config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("woodpecker failed")
		os.Exit(1)
	}
}

func run(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	registry := pipeline.NewRegistry()
	sources := make([]*source.Source, 0, len(cfg.Sources))
	for _, sc := range cfg.Sources {
		handler, err := pipeline.Build(registry, sc.Handlers)
		if err != nil {
			return err
		}
		s, err := source.New(sc.Name, sc.Duration(), handler)
		if err != nil {
			return err
		}
		sources = append(sources, s)
	}

	metrics.Serve(cfg.MetricsPort)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	for _, s := range sources {
		s := s
		g.Go(func() error {
			return s.Start(ctx)
		})
	}
	log.Info().Int("sources", len(sources)).Msg("woodpecker started")
	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
