package catalog

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/samvad-hq/samvad-dashboard/pkg/contracts"
)

func TestLoadCatalogYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "requests.yaml")
	raw := `
requests:
  - id: dashboard-summary
    endpoint: /dashboard/summary
    headers:
      Content-Type: application/json
    params:
      search: query
      page: 1
  - id: create-widget
    endpoint: /widgets
    method: post
    body:
      name: Test
  - id: disabled
    endpoint: /legacy
    enabled: false
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.All()) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(c.All()))
	}
	if enabled := c.Enabled(); len(enabled) != 2 {
		t.Fatalf("expected 2 enabled entries, got %d", len(enabled))
	}

	summary, ok := c.ByID("dashboard-summary")
	if !ok {
		t.Fatalf("dashboard-summary missing")
	}
	req := summary.Request()
	if req.Method != contracts.MethodGet {
		t.Fatalf("default method = %s", req.Method)
	}
	if !reflect.DeepEqual(req.Params, map[string]any{"search": "query", "page": 1}) {
		t.Fatalf("params = %#v", req.Params)
	}

	widget, _ := c.ByID("create-widget")
	req = widget.Request()
	if req.Method != contracts.MethodPost {
		t.Fatalf("method = %s", req.Method)
	}
	if req.Params != nil {
		t.Fatalf("params must stay nil, got %#v", req.Params)
	}
	if !reflect.DeepEqual(req.Body, map[string]any{"name": "Test"}) {
		t.Fatalf("body = %#v", req.Body)
	}
}

func TestParseCatalogJSON(t *testing.T) {
	c, err := Parse([]byte(`{"requests":[{"id":"a","endpoint":"/a","body":null}]}`), ".json")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	e, _ := c.ByID("a")
	if e.Request().Body != nil {
		t.Fatalf("expected nil body")
	}
}

func TestParseCatalogRejectsInvalidEntries(t *testing.T) {
	cases := map[string]string{
		"missing id":       "requests:\n  - endpoint: /a\n",
		"missing endpoint": "requests:\n  - id: a\n",
		"bad method":       "requests:\n  - id: a\n    endpoint: /a\n    method: TRACE\n",
		"duplicate":        "requests:\n  - id: a\n    endpoint: /a\n  - id: a\n    endpoint: /b\n",
		"empty":            "requests: []\n",
	}
	for name, raw := range cases {
		if _, err := Parse([]byte(raw), ".yaml"); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoadCatalogEmptyPath(t *testing.T) {
	if _, err := Load("  "); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
