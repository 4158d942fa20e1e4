package publishers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/samvad-dashboard/pkg/contracts"
	"github.com/samvad-hq/samvad-dashboard/pkg/httpclient"
)

// httpPublisher delivers events to a webhook through the dashboard HTTP client.
type httpPublisher struct {
	id      string
	method  contracts.Method
	headers map[string]string
	client  *httpclient.Client
	log     Logger
}

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}
	method, ok := contracts.ParseMethod(cfg.HTTP.Method)
	if !ok {
		method = contracts.MethodPost
	}

	headers := make(map[string]string, len(cfg.HTTP.Headers)+1)
	for k, v := range cfg.HTTP.Headers {
		headers[k] = v
	}
	headers["Content-Type"] = "application/json"

	log = ensureLogger(log)
	timeout := time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second
	return &httpPublisher{
		id:      cfg.ID,
		method:  method,
		headers: headers,
		client: httpclient.New(cfg.HTTP.URL,
			httpclient.WithTransport(httpclient.NewRestyTransport(timeout)),
			httpclient.WithLogger(log),
		),
		log: log,
	}, nil
}

func (h *httpPublisher) ID() string   { return h.id }
func (h *httpPublisher) Type() string { return TypeHTTP }

// Publish sends the event as the JSON body of one webhook call. Any non-2xx answer is an error.
func (h *httpPublisher) Publish(ctx context.Context, evt Event) error {
	_, err := httpclient.SendRequest[any](ctx, h.client, contracts.Request[Event]{
		Method:  h.method,
		Body:    evt,
		Headers: h.headers,
	})
	if err == nil {
		return nil
	}

	fields := map[string]any{"publisher_id": h.id, "event_id": evt.ID}
	var reqErr *httpclient.RequestError
	if errors.As(err, &reqErr) {
		fields["status"] = reqErr.Status
		fields["failure_kind"] = reqErr.Kind.String()
	}
	h.log.WarnObj("http publisher rejected event", "publisher_http_error", fields)
	return fmt.Errorf("deliver to %s: %w", h.client.BaseAddress(), err)
}
