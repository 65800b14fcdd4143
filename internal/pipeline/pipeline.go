package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bondappetit/woodpecker/internal/api"
)

var ErrUnknownHandler = errors.New("handler not found")

// StageConfig is one entry of a source's handler chain.
// In config files it is either a bare handler name or a {name, options} object.
type StageConfig struct {
	Name    string          `json:"name"`
	Options json.RawMessage `json:"options"`
}

func (s *StageConfig) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err == nil {
		s.Name = name
		s.Options = nil
		return nil
	}
	var cfg struct {
		Name    string          `json:"name"`
		Options json.RawMessage `json:"options"`
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return err
	}
	s.Name = cfg.Name
	s.Options = cfg.Options
	return nil
}

// NewRegistry returns the static table of built-in handlers.
func NewRegistry() api.Registry {
	return api.Registry{
		"echo":         Echo,
		"field":        Field,
		"httpRequest":  HTTPRequest,
		"json":         JSON,
		"log":          Log,
		"oracleUpdate": OracleUpdate,
	}
}

// Build composes the configured stages into a single handler.
// Stages execute in declared order; the composition wires continuations
// back-to-front, starting from a terminal no-op sink.
// An unregistered stage name fails the build before any stage runs.
func Build(reg api.Registry, stages []StageConfig) (api.Handler, error) {
	next := api.Sink()
	for i := len(stages) - 1; i >= 0; i-- {
		factory, ok := reg[stages[i].Name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownHandler, stages[i].Name)
		}
		handler, err := factory(stages[i].Options, next)
		if err != nil {
			return nil, fmt.Errorf("could not build stage %q: %w", stages[i].Name, err)
		}
		next = handler
	}
	return next, nil
}
