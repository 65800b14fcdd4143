package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/bondappetit/woodpecker/internal/api"
)

// HTTPRequestOptions configure the httpRequest stage.
type HTTPRequestOptions struct {
	Request RequestSpec `json:"request"`
}

// RequestSpec describes the outgoing request.
type RequestSpec struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
	Data    interface{}       `json:"data"`
}

// HTTPRequest issues the configured request and forwards the response body.
// Transport and non-2xx errors propagate and abort the run.
func HTTPRequest(options json.RawMessage, next api.Handler) (api.Handler, error) {
	var opts HTTPRequestOptions
	if err := json.Unmarshal(options, &opts); err != nil {
		return nil, err
	}
	if opts.Request.URL == "" {
		return nil, fmt.Errorf("missing request url")
	}
	if opts.Request.Method == "" {
		opts.Request.Method = http.MethodGet
	}
	client := resty.New()
	return func(ctx context.Context, _ interface{}) error {
		req := client.R().SetContext(ctx).SetHeaders(opts.Request.Headers)
		if opts.Request.Data != nil {
			req.SetBody(opts.Request.Data)
		}
		res, err := req.Execute(opts.Request.Method, opts.Request.URL)
		if err != nil {
			return fmt.Errorf("request %q failed: %w", opts.Request.URL, err)
		}
		if res.IsError() {
			return fmt.Errorf("request %q error: %d %s", opts.Request.URL, res.StatusCode(), res.String())
		}
		return next(ctx, res.String())
	}, nil
}
