package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/bondappetit/woodpecker/client/wisewolves"
	"github.com/bondappetit/woodpecker/internal/metrics"
)

var ErrClientNotFound = errors.New("client not found")

// Gateway is the brokerage read surface the engine drives.
type Gateway interface {
	LoginStep1(ctx context.Context, login, password string) (wisewolves.AuthKey, error)
	LoginStep2(ctx context.Context, code, userKey string) (wisewolves.Session, error)
	GeneralInfo(ctx context.Context, session wisewolves.Session) (wisewolves.GeneralInfo, error)
	ClientData(ctx context.Context, session wisewolves.Session, clientID string) (wisewolves.ClientData, error)
}

// Depositary is the on-chain asset store being reconciled.
// Put and Remove wait for their transaction to settle before returning.
type Depositary interface {
	Assets(ctx context.Context) ([]OnChainAsset, error)
	Put(ctx context.Context, asset Asset) error
	Remove(ctx context.Context, id string) error
}

// Config selects the brokerage client and filters for one engine.
type Config struct {
	Login    string
	Password string
	Code     string
	Client   string
	// Deny lists currency codes and ISINs excluded from reconciliation.
	Deny []string
	// Currencies is the allowed set for cash positions, USD when empty.
	Currencies []string
}

// Engine reconciles the brokerage portfolio against the depositary contract.
type Engine struct {
	cfg        Config
	gateway    Gateway
	depositary Depositary
}

func New(cfg Config, gateway Gateway, depositary Depositary) *Engine {
	if len(cfg.Currencies) == 0 {
		cfg.Currencies = []string{ReportingCurrency}
	}
	return &Engine{
		cfg:        cfg,
		gateway:    gateway,
		depositary: depositary,
	}
}

// Run executes one reconciliation pass to completion.
//
// The assets snapshot is read once; an external writer mutating the contract
// mid-run makes the computed remove set stale. Known limitation, the single
// configured account is expected to be the only writer.
func (e *Engine) Run(ctx context.Context) error {
	key, err := e.gateway.LoginStep1(ctx, e.cfg.Login, e.cfg.Password)
	if err != nil {
		return fmt.Errorf("login step 1 failed: %w", err)
	}
	session, err := e.gateway.LoginStep2(ctx, e.cfg.Code, key.UserKey)
	if err != nil {
		return fmt.Errorf("login step 2 failed: %w", err)
	}

	info, err := e.gateway.GeneralInfo(ctx, session)
	if err != nil {
		return err
	}
	var client *wisewolves.Client
	for i := range info.Clients {
		if info.Clients[i].ID == e.cfg.Client {
			client = &info.Clients[i]
			break
		}
	}
	if client == nil {
		return fmt.Errorf("%w: general info for %q", ErrClientNotFound, e.cfg.Client)
	}
	data, err := e.gateway.ClientData(ctx, session, client.ID)
	if err != nil {
		return err
	}

	desired := append(
		MoneyRecords(data.MoneyDetails, e.cfg.Currencies, e.cfg.Deny),
		BondRecords(data.Portfolio, e.cfg.Deny)...)
	warnDuplicates(desired)

	onchain, err := e.depositary.Assets(ctx)
	if err != nil {
		return err
	}

	for _, asset := range Removals(onchain, desired) {
		log.Info().Str("asset", asset.ID).Msg("remove asset")
		if err := e.depositary.Remove(ctx, asset.ID); err != nil {
			return err
		}
	}
	for _, record := range desired {
		if record.Err != nil {
			log.Warn().Err(record.Err).Str("asset", record.Asset.ID).Msg("skip invalid asset")
			metrics.Observer.Records.WithLabelValues("invalid").Inc()
			continue
		}
		log.Info().
			Str("asset", record.Asset.ID).
			Str("amount", record.Asset.Amount).
			Str("price", record.Asset.Price).
			Int64("updated-at", record.Asset.UpdatedAt).
			Msg("update asset")
		if err := e.depositary.Put(ctx, record.Asset); err != nil {
			return err
		}
		metrics.Observer.Records.WithLabelValues("ok").Inc()
	}
	return nil
}

// warnDuplicates surfaces id collisions between cash and bond records.
// The collision is left as-is, both records are submitted in order.
func warnDuplicates(desired []Record) {
	seen := make(map[string]struct{}, len(desired))
	for _, record := range desired {
		if _, ok := seen[record.Asset.ID]; ok {
			log.Warn().Str("asset", record.Asset.ID).Msg("duplicate asset id in desired set")
		}
		seen[record.Asset.ID] = struct{}{}
	}
}
