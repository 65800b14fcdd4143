package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/PaesslerAG/jsonpath"

	"github.com/bondappetit/woodpecker/internal/api"
)

const (
	ElementAll   = "all"
	ElementFirst = "first"
	ElementLast  = "last"
)

// FieldOptions configure the field stage.
type FieldOptions struct {
	// Path is the json path query evaluated against the incoming value.
	Path string `json:"path"`
	// Element narrows a multi-match result to one element: all, first or last.
	Element string `json:"element"`
}

// Field evaluates a json path query against the incoming value and forwards
// the matches. With element first/last only that single match is forwarded.
func Field(options json.RawMessage, next api.Handler) (api.Handler, error) {
	var opts FieldOptions
	if err := json.Unmarshal(options, &opts); err != nil {
		return nil, err
	}
	if opts.Element == "" {
		opts.Element = ElementAll
	}
	switch opts.Element {
	case ElementAll, ElementFirst, ElementLast:
	default:
		return nil, fmt.Errorf("invalid element %q", opts.Element)
	}
	return func(ctx context.Context, data interface{}) error {
		result, err := jsonpath.Get(opts.Path, data)
		if err != nil {
			return fmt.Errorf("could not query %q: %w", opts.Path, err)
		}
		if matches, ok := result.([]interface{}); ok && opts.Element != ElementAll {
			if len(matches) == 0 {
				result = nil
			} else if opts.Element == ElementFirst {
				result = matches[0]
			} else {
				result = matches[len(matches)-1]
			}
		}
		return next(ctx, result)
	}, nil
}
