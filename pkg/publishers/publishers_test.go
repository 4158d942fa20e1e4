package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistryEnabledFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: http2
    type: HTTP
    http:
      url: " https://example.com/2 "
      method: put
  - id: topic
    type: sns
    sns:
      topic_arn: arn:aws:sns:us-east-1:123:outcomes
      region: us-east-1
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 2 || enabled[0].ID != "http2" || enabled[1].ID != "topic" {
		t.Fatalf("unexpected enabled set %#v", enabled)
	}
	http2, _ := reg.ByID("http2")
	if http2.Type != TypeHTTP || http2.HTTP.URL != "https://example.com/2" || http2.HTTP.Method != "PUT" {
		t.Fatalf("normalize failed: %#v", http2.HTTP)
	}
	if http2.HTTP.TimeoutSeconds != httpDefaultTimeoutSeconds {
		t.Fatalf("default timeout not applied: %d", http2.HTTP.TimeoutSeconds)
	}
}

func TestValidatePublisherConfigRejectsMissingBlocks(t *testing.T) {
	cases := []PublisherConfig{
		{ID: "h1", Type: TypeHTTP},
		{ID: "s1", Type: TypeSNS, SNS: &SNSPublisherConfig{Region: "us-east-1"}},
		{ID: "q1", Type: TypeSQS, SQS: &SQSPublisherConfig{QueueURL: "u"}},
		{ID: "g1", Type: TypeGCPPubSub, GCP: &GCPQueueConfig{ProjectID: "p"}},
	}
	for _, cfg := range cases {
		if err := cfg.validate(); err == nil {
			t.Errorf("%s: expected validation error", cfg.ID)
		}
	}
}

func TestParseRegistryWithoutExtension(t *testing.T) {
	reg, err := ParseRegistry([]byte(`{"publishers":[{"id":"hook","type":"http","http":{"url":"http://sink"}}]}`), "")
	if err != nil {
		t.Fatalf("ParseRegistry: %v", err)
	}
	if cfg, ok := reg.ByID(" hook "); !ok || cfg.HTTP.Method != "POST" {
		t.Fatalf("unexpected config %#v", cfg)
	}
}

func TestParseRegistryRejectsDuplicates(t *testing.T) {
	raw := "publishers:\n  - {id: a, type: http, http: {url: x}}\n  - {id: a, type: http, http: {url: y}}\n"
	if _, err := ParseRegistry([]byte(raw), ".yaml"); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}
