package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/samvad-hq/samvad-dashboard/internal/app"
	"github.com/samvad-hq/samvad-dashboard/internal/config"
	"github.com/samvad-hq/samvad-dashboard/internal/logger"
	"github.com/samvad-hq/samvad-dashboard/pkg/catalog"
	"github.com/samvad-hq/samvad-dashboard/pkg/contracts"
	"github.com/samvad-hq/samvad-dashboard/pkg/httpclient"
	"github.com/spf13/cobra"
)

type sendOptions struct {
	endpoint string
	method   string
	headers  []string
	params   []string
	data     string
	base     string
	catalog  string
	id       string
	verbose  bool
}

func newSendCmd() *cobra.Command {
	var opts sendOptions
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send one request and print the payload",
		Long: `Send a single request through the dashboard client and print the payload as JSON.
Failures print the normalized error message and exit non-zero.

Example:
  dashctl send --endpoint /api/users --param page=2
  dashctl send --endpoint /api/users --method POST -H 'X-Trace: 1' --data '{"name":"a"}'
  dashctl send --catalog configs/requests.yaml --id summary`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSend(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.endpoint, "endpoint", "e", "", "Path appended to the base address")
	f.StringVarP(&opts.method, "method", "X", string(contracts.MethodGet), "HTTP method")
	f.StringArrayVarP(&opts.headers, "header", "H", nil, "Header as 'Name: value' (repeatable)")
	f.StringArrayVarP(&opts.params, "param", "p", nil, "Query parameter as key=value (repeatable)")
	f.StringVarP(&opts.data, "data", "d", "", "JSON request body")
	f.StringVar(&opts.base, "base", "", "Base address (defaults to api_base_url)")
	f.StringVar(&opts.catalog, "catalog", "", "Request catalog file")
	f.StringVar(&opts.id, "id", "", "Catalog entry to send")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Log request tracing to stdout")
	return cmd
}

func runSend(cmd *cobra.Command, opts sendOptions) error {
	req, err := opts.request()
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.base != "" {
		cfg.APIBaseURL = opts.base
	}

	var log logger.Logger = logger.NopLogger{}
	if opts.verbose {
		cfg.LogLevel = "debug"
		zl, err := logger.Init(cfg)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer logger.Close()
		log = zl
	}

	payload, err := httpclient.SendRequest[any](cmd.Context(), app.NewClient(cfg, log), req)
	if err != nil {
		return err
	}
	return printPayload(cmd.OutOrStdout(), payload)
}

// request builds the outgoing request from flags or from a catalog entry.
func (o sendOptions) request() (contracts.Request[any], error) {
	if o.id != "" || o.catalog != "" {
		return o.catalogRequest()
	}
	if o.endpoint == "" {
		return contracts.Request[any]{}, errors.New("--endpoint is required (or use --catalog with --id)")
	}

	method, ok := contracts.ParseMethod(o.method)
	if !ok {
		return contracts.Request[any]{}, fmt.Errorf("unsupported method %q", o.method)
	}
	headers, err := parseHeaders(o.headers)
	if err != nil {
		return contracts.Request[any]{}, err
	}
	params, err := parseParams(o.params)
	if err != nil {
		return contracts.Request[any]{}, err
	}

	var body any
	if o.data != "" {
		if err := json.Unmarshal([]byte(o.data), &body); err != nil {
			return contracts.Request[any]{}, fmt.Errorf("--data is not valid JSON: %w", err)
		}
	}

	return contracts.Request[any]{
		Endpoint: o.endpoint,
		Method:   method,
		Body:     body,
		Headers:  headers,
		Params:   params,
	}, nil
}

func (o sendOptions) catalogRequest() (contracts.Request[any], error) {
	if o.catalog == "" || o.id == "" {
		return contracts.Request[any]{}, errors.New("--catalog and --id must be used together")
	}
	if o.endpoint != "" {
		return contracts.Request[any]{}, errors.New("--endpoint cannot be combined with --catalog")
	}
	cat, err := catalog.Load(o.catalog)
	if err != nil {
		return contracts.Request[any]{}, fmt.Errorf("load catalog: %w", err)
	}
	entry, ok := cat.ByID(o.id)
	if !ok {
		return contracts.Request[any]{}, fmt.Errorf("catalog has no request %q", o.id)
	}
	return entry.Request(), nil
}

func parseHeaders(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(raw))
	for _, h := range raw {
		name, value, ok := strings.Cut(h, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header %q (want 'Name: value')", h)
		}
		out[name] = strings.TrimSpace(value)
	}
	return out, nil
}

// parseParams returns nil when no params were given so the client sends none.
func parseParams(raw []string) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(raw))
	for _, p := range raw {
		key, value, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid param %q (want key=value)", p)
		}
		out[key] = value
	}
	return out, nil
}

// printPayload writes text payloads verbatim and everything else as indented JSON.
func printPayload(w io.Writer, payload any) error {
	if s, ok := payload.(string); ok {
		_, err := fmt.Fprintln(w, s)
		return err
	}
	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
