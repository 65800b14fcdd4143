package api

import (
	"context"
	"encoding/json"
)

// Handler processes one pipeline value.
// It forwards a value to the next stage at its own discretion:
// zero calls short-circuit the rest of the chain, multiple calls fan out.
type Handler func(ctx context.Context, data interface{}) error

// Factory builds a handler from its raw config options
// and the continuation to invoke with the produced value.
type Factory func(options json.RawMessage, next Handler) (Handler, error)

// Registry maps a handler name to its factory.
// It is a closed table built once at startup,
// so unknown names surface before any stage runs.
type Registry map[string]Factory

// Sink returns the terminal continuation closing a pipeline.
func Sink() Handler {
	return func(_ context.Context, _ interface{}) error {
		return nil
	}
}
