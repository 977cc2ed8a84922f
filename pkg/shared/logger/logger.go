package logger

import (
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/diffguard/diffguard/pkg/shared/config"
)

// NewLogger creates a named hclog.Logger. The DIFFGUARD_LOG_LEVEL environment
// variable wins over the configured level; both default to INFO.
func NewLogger(cfg *config.Config, name string) hclog.Logger {
	var logLevel hclog.Level

	if logLevelEnv := os.Getenv("DIFFGUARD_LOG_LEVEL"); logLevelEnv != "" {
		logLevel = getLogLevel(strings.ToUpper(logLevelEnv))
	} else if cfg != nil && cfg.Logger.Level != "" {
		logLevel = getLogLevel(strings.ToUpper(cfg.Logger.Level))
	} else {
		logLevel = hclog.Info
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:        name,
		DisableTime: true,
		Output:      os.Stderr,
		Level:       logLevel,
	})
}

func getLogLevel(levelStr string) hclog.Level {
	switch levelStr {
	case "TRACE":
		return hclog.Trace
	case "DEBUG":
		return hclog.Debug
	case "INFO":
		return hclog.Info
	case "WARN":
		return hclog.Warn
	case "ERROR":
		return hclog.Error
	default:
		return hclog.Info
	}
}
