package httpclient

import (
	"context"

	"github.com/samvad-hq/samvad-dashboard/pkg/contracts"
)

// Exchange is the single network round trip the client asks a Transport to perform.
// Params is nil when the caller supplied none.
type Exchange struct {
	Method  contracts.Method
	Headers map[string]string
	Data    any
	URL     string
	Params  map[string]any
}

// Result is what a successful exchange yields. Data is the payload handed back to callers.
type Result struct {
	Data   any
	Status int
}

// Transport performs exchanges so callers can inject fakes or different HTTP stacks.
// A failure carrying a remote response is reported as *ResponseError; anything else is
// treated as a failure without a response.
type Transport interface {
	Exchange(ctx context.Context, ex Exchange) (*Result, error)
}

// Logger defines the logging surface the client relies on.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) InfoObj(string, string, interface{})  {}
func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) WarnObj(string, string, interface{})  {}
func (noopLogger) ErrorObj(string, string, interface{}) {}

func ensureLogger(log Logger) Logger {
	if log == nil {
		return noopLogger{}
	}
	return log
}
