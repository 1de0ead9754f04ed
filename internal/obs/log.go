package obs

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	loggerMu sync.Mutex
	logger   = zerolog.New(os.Stdout).With().Timestamp().Logger()
)

// Logger returns the shared structured logger used across the service.
func Logger() zerolog.Logger {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	return logger
}

// SetOutput redirects the shared logger. Tests use it to capture log lines.
func SetOutput(w io.Writer) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = zerolog.New(w).With().Timestamp().Logger()
}
