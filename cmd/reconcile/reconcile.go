package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/bondappetit/woodpecker/client/wisewolves"
	"github.com/bondappetit/woodpecker/internal/chain"
	"github.com/bondappetit/woodpecker/internal/config"
	"github.com/bondappetit/woodpecker/internal/reconcile"
)

var (
	configPath string
	network    string
)

var rootCmd = &cobra.Command{
	Use:           "reconcile",
	Short:         "Reconciles the brokerage portfolio against the depositary contract",
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "config.json", "path to config file")
	rootCmd.Flags().StringVarP(&network, "network", "n", "development", "network name")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("reconciliation failed")
		os.Exit(1)
	}
}

func run(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.ForReconciliation(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := chain.Dial(ctx, cfg.Blockchain.Provider, cfg.Blockchain.Sender, cfg.Blockchain.SettleDelay())
	if err != nil {
		return err
	}
	address, err := chain.Resolve(network, cfg.Blockchain.Depositary)
	if err != nil {
		return err
	}
	depositary, err := client.Depositary(address)
	if err != nil {
		return err
	}

	gateway := wisewolves.New(cfg.Portfolio.Options.URL)
	engine := reconcile.New(reconcile.Config{
		Login:      cfg.Portfolio.Options.Login,
		Password:   cfg.Portfolio.Options.Password,
		Code:       cfg.Portfolio.Options.Code,
		Client:     cfg.Portfolio.Options.Client,
		Deny:       cfg.Portfolio.Options.Deny,
		Currencies: cfg.Portfolio.Options.Currencies,
	}, gateway, depositary)

	log.Info().Str("network", network).Str("depositary", address).Msg("reconciliation started")
	return engine.Run(ctx)
}
