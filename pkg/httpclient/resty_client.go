package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// RestyTransport adapts resty.Client to the Transport interface.
type RestyTransport struct {
	client *resty.Client
}

// NewRestyTransport creates a RestyTransport whose underlying client gives up after timeout.
// A zero timeout leaves resty's default (no deadline).
func NewRestyTransport(timeout time.Duration) *RestyTransport {
	c := resty.New()
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return &RestyTransport{client: c}
}

// Exchange performs one HTTP round trip. Any non-2xx answer is returned as *ResponseError.
func (r *RestyTransport) Exchange(ctx context.Context, ex Exchange) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	req := r.client.R().SetContext(ctx)
	if len(ex.Headers) > 0 {
		req.SetHeaders(ex.Headers)
	}
	if !isNilData(ex.Data) {
		req.SetBody(ex.Data)
	}
	for k, v := range ex.Params {
		req.SetQueryParam(k, fmt.Sprint(v))
	}

	resp, err := req.Execute(string(ex.Method), ex.URL)
	if err != nil {
		return nil, err
	}

	data := decodeBody(resp.Header().Get("Content-Type"), resp.Body())
	if !resp.IsSuccess() {
		return nil, &ResponseError{
			Status:  resp.StatusCode(),
			Data:    data,
			Message: fmt.Sprintf("Request failed with status code %d", resp.StatusCode()),
		}
	}
	return &Result{Data: data, Status: resp.StatusCode()}, nil
}

// decodeBody turns a response body into a payload: JSON documents become generic values,
// everything else (and JSON that does not parse) stays text. An empty body is "".
func decodeBody(contentType string, body []byte) any {
	if len(body) == 0 {
		return ""
	}
	if strings.Contains(strings.ToLower(contentType), "json") {
		var v any
		if err := json.Unmarshal(body, &v); err == nil {
			return v
		}
	}
	return string(body)
}

func isNilData(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
