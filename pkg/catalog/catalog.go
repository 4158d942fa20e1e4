package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/samvad-hq/samvad-dashboard/pkg/contracts"
	"gopkg.in/yaml.v3"
)

// Package catalog loads named dashboard requests from YAML/JSON files.

// Entry is one named request declared in a catalog file.
type Entry struct {
	ID       string            `json:"id" yaml:"id"`
	Endpoint string            `json:"endpoint" yaml:"endpoint"`
	Method   string            `json:"method" yaml:"method"`
	Headers  map[string]string `json:"headers" yaml:"headers"`
	Params   map[string]any    `json:"params" yaml:"params"`
	Body     any               `json:"body" yaml:"body"`
	Enabled  *bool             `json:"enabled" yaml:"enabled"`
}

type catalogFile struct {
	Requests []Entry `json:"requests" yaml:"requests"`
}

// Catalog is an immutable, indexed set of entries.
type Catalog struct {
	mu      sync.RWMutex
	entries []Entry
	idx     map[string]Entry
}

// Load reads and validates a catalog file.
func Load(path string) (*Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("catalog file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Parse(raw, filepath.Ext(path))
}

// Parse decodes catalog content; ext selects the decoder (".yaml", ".yml", ".json") or,
// when empty, every decoder is tried in turn.
func Parse(data []byte, ext string) (*Catalog, error) {
	file, err := decodeCatalog(data, ext)
	if err != nil {
		return nil, err
	}
	if len(file.Requests) == 0 {
		return nil, errors.New("catalog file contains no requests entries")
	}

	c := &Catalog{
		entries: make([]Entry, len(file.Requests)),
		idx:     make(map[string]Entry, len(file.Requests)),
	}
	for i := range file.Requests {
		e := sanitizeEntry(file.Requests[i])
		if err := validateEntry(e); err != nil {
			return nil, fmt.Errorf("requests[%d]: %w", i, err)
		}
		if _, exists := c.idx[e.ID]; exists {
			return nil, fmt.Errorf("duplicate request id %q", e.ID)
		}
		c.entries[i] = e
		c.idx[e.ID] = e
	}
	return c, nil
}

type unmarshalFn func([]byte, any) error

func decodeCatalog(data []byte, ext string) (catalogFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	var errs []error
	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var file catalogFile
		if err := d.fn(data, &file); err != nil {
			errs = append(errs, fmt.Errorf("decode %s catalog: %w", d.name, err))
			continue
		}
		return file, nil
	}
	if len(errs) == 0 {
		return catalogFile{}, fmt.Errorf("catalog file extension %q not recognized (expected YAML or JSON)", ext)
	}
	return catalogFile{}, errors.Join(errs...)
}

func sanitizeEntry(e Entry) Entry {
	e.ID = strings.TrimSpace(e.ID)
	e.Endpoint = strings.TrimSpace(e.Endpoint)
	e.Method = strings.ToUpper(strings.TrimSpace(e.Method))
	if e.Method == "" {
		e.Method = string(contracts.MethodGet)
	}
	if e.Enabled == nil {
		def := true
		e.Enabled = &def
	}
	if len(e.Headers) > 0 {
		headers := make(map[string]string, len(e.Headers))
		for k, v := range e.Headers {
			if key := strings.TrimSpace(k); key != "" {
				headers[key] = strings.TrimSpace(v)
			}
		}
		e.Headers = headers
	}
	return e
}

func validateEntry(e Entry) error {
	if e.ID == "" {
		return errors.New("id is required")
	}
	if e.Endpoint == "" {
		return fmt.Errorf("endpoint is required for request %q", e.ID)
	}
	if _, ok := contracts.ParseMethod(e.Method); !ok {
		return fmt.Errorf("unsupported method %q for request %q", e.Method, e.ID)
	}
	return nil
}

// ByID returns the entry with the given id.
func (c *Catalog) ByID(id string) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Entry{}, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.idx[id]
	return e, ok
}

// All returns every entry in file order.
func (c *Catalog) All() []Entry {
	if c == nil {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Enabled returns the entries that are switched on.
func (c *Catalog) Enabled() []Entry {
	all := c.All()
	out := make([]Entry, 0, len(all))
	for _, e := range all {
		if e.EnabledValue() {
			out = append(out, e)
		}
	}
	return out
}

// EnabledValue reports the enabled flag, defaulting to true.
func (e Entry) EnabledValue() bool {
	if e.Enabled == nil {
		return true
	}
	return *e.Enabled
}

// Request converts the entry into the contract the HTTP client consumes.
// Params stay nil when the entry declares none.
func (e Entry) Request() contracts.Request[any] {
	method, ok := contracts.ParseMethod(e.Method)
	if !ok {
		method = contracts.MethodGet
	}
	var params map[string]any
	if e.Params != nil {
		params = make(map[string]any, len(e.Params))
		for k, v := range e.Params {
			params[k] = v
		}
	}
	return contracts.Request[any]{
		Endpoint: e.Endpoint,
		Method:   method,
		Body:     e.Body,
		Headers:  e.Headers,
		Params:   params,
	}
}
