package pipeline

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/bondappetit/woodpecker/internal/api"
)

// Log prints the incoming value and forwards it unchanged.
func Log(_ json.RawMessage, next api.Handler) (api.Handler, error) {
	return func(ctx context.Context, data interface{}) error {
		log.Info().Interface("data", data).Msg("pipeline value")
		return next(ctx, data)
	}, nil
}
