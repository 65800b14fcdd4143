package pipeline

import (
	"context"
	"encoding/json"

	"github.com/bondappetit/woodpecker/internal/api"
)

// EchoOptions configure the echo stage.
type EchoOptions struct {
	Data interface{} `json:"data"`
}

// Echo ignores its input and forwards the configured literal value.
// It is typically the first stage, seeding the chain with a constant.
func Echo(options json.RawMessage, next api.Handler) (api.Handler, error) {
	var opts EchoOptions
	if len(options) > 0 {
		if err := json.Unmarshal(options, &opts); err != nil {
			return nil, err
		}
	}
	return func(ctx context.Context, _ interface{}) error {
		return next(ctx, opts.Data)
	}, nil
}
