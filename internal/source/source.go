package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/bondappetit/woodpecker/internal/api"
	"github.com/bondappetit/woodpecker/internal/metrics"
)

var ErrBadInterval = errors.New("invalid source interval")

// MinInterval is the lowest accepted repeat interval.
const MinInterval = time.Second

// Source owns one pipeline and its repeat interval.
type Source struct {
	name     string
	interval time.Duration
	pipeline api.Handler
}

// New creates a source. Intervals below MinInterval are a configuration error.
func New(name string, interval time.Duration, pipeline api.Handler) (*Source, error) {
	if interval < MinInterval {
		return nil, fmt.Errorf("%w for %q: %s", ErrBadInterval, name, interval)
	}
	return &Source{
		name:     name,
		interval: interval,
		pipeline: pipeline,
	}, nil
}

func (s *Source) Name() string {
	return s.name
}

// Run executes one pass of the pipeline with an empty seed value.
func (s *Source) Run(ctx context.Context) error {
	id := uuid.New().String()
	log.Info().Str("source", s.name).Str("run", id).Msg("run source")
	err := s.pipeline(ctx, nil)
	if err != nil {
		metrics.Observer.Runs.WithLabelValues(s.name, "error").Inc()
		return err
	}
	metrics.Observer.Runs.WithLabelValues(s.name, "ok").Inc()
	return nil
}

// Start blocks, repeating the source until the context is cancelled.
// The next run is scheduled a full interval after the previous one completed,
// so two runs of the same source never overlap. A failed run is logged and the
// loop moves on to the next scheduled run.
func (s *Source) Start(ctx context.Context) error {
	timer := time.NewTimer(s.interval)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
		if err := s.Run(ctx); err != nil {
			log.Error().Err(err).Str("source", s.name).Msg("source run failed")
		}
		timer.Reset(s.interval)
	}
}
