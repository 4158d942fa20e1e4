package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/samvad-hq/samvad-dashboard/pkg/contracts"
)

func TestRestyTransportSendsExchange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/users" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Errorf("page param = %q", got)
		}
		if got := r.Header.Get("X-Test"); got != "1" {
			t.Errorf("missing header, got %q", got)
		}
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		if err := json.Unmarshal(raw, &body); err != nil || body["name"] != "Test" {
			t.Errorf("unexpected body %s (%v)", raw, err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":1,"name":"Test"}`))
	}))
	defer srv.Close()

	tr := NewRestyTransport(2 * time.Second)
	res, err := tr.Exchange(context.Background(), Exchange{
		Method:  contracts.MethodPost,
		Headers: map[string]string{"X-Test": "1", "Content-Type": "application/json"},
		Data:    map[string]string{"name": "Test"},
		URL:     srv.URL + "/users",
		Params:  map[string]any{"page": 2},
	})
	if err != nil {
		t.Fatalf("Exchange: %v", err)
	}
	want := map[string]any{"id": float64(1), "name": "Test"}
	if !reflect.DeepEqual(res.Data, want) {
		t.Fatalf("data = %#v", res.Data)
	}
	if res.Status != http.StatusOK {
		t.Fatalf("status = %d", res.Status)
	}
}

func TestRestyTransportNon2xxIsResponseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Bad Request"}`))
	}))
	defer srv.Close()

	_, err := NewRestyTransport(time.Second).Exchange(context.Background(), Exchange{
		Method: contracts.MethodGet,
		URL:    srv.URL,
	})
	var respErr *ResponseError
	if !errors.As(err, &respErr) {
		t.Fatalf("expected *ResponseError, got %v", err)
	}
	if respErr.Status != http.StatusBadRequest {
		t.Fatalf("status = %d", respErr.Status)
	}
	if !reflect.DeepEqual(respErr.Data, map[string]any{"error": "Bad Request"}) {
		t.Fatalf("data = %#v", respErr.Data)
	}
}

func TestRestyTransportConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewRestyTransport(time.Second).Exchange(context.Background(), Exchange{
		Method: contracts.MethodGet,
		URL:    url,
	})
	if err == nil {
		t.Fatalf("expected connection error")
	}
	var respErr *ResponseError
	if errors.As(err, &respErr) {
		t.Fatalf("connection failures must not carry a response")
	}
}

func TestClientOverRestyEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte("Test data"))
		default:
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"missing"}`))
		}
	}))
	defer srv.Close()

	c := New(srv.URL, WithTransport(NewRestyTransport(time.Second)))

	got, err := SendRequest[string](context.Background(), c, contracts.Request[any]{
		Endpoint: "/ok",
		Method:   contracts.MethodGet,
	})
	if err != nil || got != "Test data" {
		t.Fatalf("got %q err %v", got, err)
	}

	_, err = SendRequest[string](context.Background(), c, contracts.Request[any]{
		Endpoint: "/missing",
		Method:   contracts.MethodGet,
	})
	if err == nil || err.Error() != "Request failed with status 404: [object Object]" {
		t.Fatalf("got %v", err)
	}
}

func TestDecodeBody(t *testing.T) {
	if got := decodeBody("application/json", nil); got != "" {
		t.Fatalf("empty body = %#v", got)
	}
	if got := decodeBody("application/json; charset=utf-8", []byte(`[1,"a"]`)); !reflect.DeepEqual(got, []any{float64(1), "a"}) {
		t.Fatalf("json body = %#v", got)
	}
	if got := decodeBody("application/json", []byte(`{broken`)); got != "{broken" {
		t.Fatalf("broken json = %#v", got)
	}
	if got := decodeBody("text/plain", []byte(`{"a":1}`)); got != `{"a":1}` {
		t.Fatalf("text body = %#v", got)
	}
}
