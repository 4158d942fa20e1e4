package publishers

import (
	"github.com/samvad-hq/samvad-dashboard/internal/logger"
	"github.com/samvad-hq/samvad-dashboard/pkg/httpclient"
)

// Logger is the structured logging surface sinks share with the HTTP client.
type Logger = httpclient.Logger

func ensureLogger(log Logger) Logger {
	if log == nil {
		return logger.NopLogger{}
	}
	return log
}
