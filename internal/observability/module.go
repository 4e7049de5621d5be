// Package observability provides the shared zap logger.
package observability

import (
	"os"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

var Module = fx.Module("observability",
	fx.Provide(NewLogger),
)

// FxLogger routes fx lifecycle events through the shared zap logger.
func FxLogger(log *zap.Logger) fxevent.Logger {
	return &fxevent.ZapLogger{Logger: log.Named("fx")}
}

func NewLogger() (*zap.Logger, error) {
	if strings.EqualFold(os.Getenv("LOG_MODE"), "development") {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
