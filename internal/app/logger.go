package app

import (
	"fmt"
	"os"
	"strings"

	"service-dispatch/internal/config"
	"service-dispatch/internal/logx"
)

// NewLogger builds the process logger for the configured backend.
func NewLogger(cfg *config.Config) (logx.Logger, error) {
	switch strings.ToLower(cfg.Log.Backend) {
	case "", "slog":
		return logx.NewSlog(os.Stdout, cfg.Log.Format, cfg.Log.Level), nil
	case "zap":
		return logx.NewZap(cfg.Log.Level)
	default:
		return nil, fmt.Errorf("unknown log backend %q", cfg.Log.Backend)
	}
}
