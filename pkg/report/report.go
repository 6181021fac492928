// Package report wires optional crash reporting. It activates only when a
// DSN is present in the environment, so local and CI runs stay silent.
package report

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
)

const flushTimeout = 2 * time.Second

// Setup initializes crash reporting from the SENTRY_DSN environment
// variable. An empty DSN disables reporting and is not an error.
func Setup(logger *slog.Logger, release string) (bool, error) {
	dsn := os.Getenv("SENTRY_DSN")
	if dsn == "" {
		return false, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Release:     release,
		Environment: os.Getenv("SENTRY_ENVIRONMENT"),
	})
	if err != nil {
		return false, fmt.Errorf("initialize crash reporting: %w", err)
	}

	logger.Info("crash reporting enabled")
	return true, nil
}

// Flush drains buffered events before shutdown. Safe to call when Setup
// never ran or was disabled.
func Flush() {
	sentry.Flush(flushTimeout)
}

// CaptureError forwards an error to the reporter if one is configured.
func CaptureError(err error) {
	if err == nil {
		return
	}
	sentry.CaptureException(err)
}
