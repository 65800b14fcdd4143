package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/bondappetit/woodpecker/internal/pipeline"
)

// Config is the full config file surface.
// The daemon reads the sources, the reconciliation command reads the
// blockchain and portfolio blocks; one file can carry both.
type Config struct {
	Sources     []Source    `json:"sources" validate:"omitempty,dive"`
	Blockchain  *Blockchain `json:"blockchain" validate:"omitempty"`
	Portfolio   *Portfolio  `json:"portfolio" validate:"omitempty"`
	MetricsPort int         `json:"metricsPort" validate:"gte=0"`
}

// Source declares one scheduled pipeline.
type Source struct {
	Name string `json:"name" validate:"required"`
	// Interval is the repeat interval in milliseconds, 1000 at least.
	Interval int64 `json:"interval" validate:"gte=1000"`
	// Handlers is the ordered stage chain, each entry a name or {name, options}.
	Handlers []pipeline.StageConfig `json:"handlers" validate:"required,min=1"`
}

// Blockchain holds the node endpoint and signing credentials.
type Blockchain struct {
	Provider   string `json:"provider" validate:"required"`
	Depositary string `json:"depositary"`
	Sender     string `json:"sender" validate:"required"`
	// Delay is the settling pause after each write in milliseconds.
	Delay int64 `json:"delay" validate:"gte=0"`
}

// Portfolio selects and configures the brokerage gateway.
type Portfolio struct {
	Type    string           `json:"type" validate:"required"`
	Options PortfolioOptions `json:"options"`
}

// PortfolioOptions are the WiseWolves gateway credentials and filters.
type PortfolioOptions struct {
	URL        string   `json:"url" validate:"required"`
	Login      string   `json:"login" validate:"required"`
	Password   string   `json:"password" validate:"required"`
	Code       string   `json:"code" validate:"required"`
	Client     string   `json:"client" validate:"required"`
	Deny       []string `json:"deny"`
	Currencies []string `json:"currencies"`
}

// defaultDelay settles transactions when the config does not say otherwise.
const defaultDelay = 5 * time.Second

// SettleDelay is the pause applied after each mined write.
func (b Blockchain) SettleDelay() time.Duration {
	if b.Delay == 0 {
		return defaultDelay
	}
	return time.Duration(b.Delay) * time.Millisecond
}

// Duration returns the source repeat interval.
func (s Source) Duration() time.Duration {
	return time.Duration(s.Interval) * time.Millisecond
}

// Load reads and validates the config file.
// A bare top-level array is accepted as a plain source list.
// Any failure here is fatal for the process, before any I/O is attempted.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config file %q not found: %w", path, err)
	}
	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		var sources []Source
		if err2 := json.Unmarshal(b, &sources); err2 != nil {
			return Config{}, fmt.Errorf("invalid json structure on config file %q: %w", path, err)
		}
		cfg = Config{Sources: sources}
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config %q: %w", path, err)
	}
	log.Info().Str("path", path).Int("sources", len(cfg.Sources)).Msg("loaded config")
	return cfg, nil
}

// ForReconciliation checks the blocks the reconciliation command depends on.
func (c Config) ForReconciliation() error {
	if c.Blockchain == nil {
		return fmt.Errorf("invalid blockchain client configuration")
	}
	if c.Portfolio == nil || c.Portfolio.Type != "WiseWolves" {
		return fmt.Errorf("undefined gateway or invalid gateway configuration")
	}
	return nil
}
