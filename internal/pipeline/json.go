package pipeline

import (
	"context"
	"encoding/json"

	"github.com/bondappetit/woodpecker/internal/api"
)

// JSON parses a string value as json and forwards the parsed value.
// Anything that is not a string passes through untouched,
// so the stage can sit after sources that already produce structured data.
func JSON(_ json.RawMessage, next api.Handler) (api.Handler, error) {
	return func(ctx context.Context, data interface{}) error {
		raw, ok := data.(string)
		if !ok {
			return next(ctx, data)
		}
		var value interface{}
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			return err
		}
		return next(ctx, value)
	}, nil
}
