package config

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

// SetupLogging applies the log section to the global logrus logger.
func SetupLogging(cfg LogConfig) error {
	level, err := log.ParseLevel(strings.TrimSpace(cfg.Level))
	if err != nil {
		return fmt.Errorf("invalid log.level %q: %w", cfg.Level, err)
	}
	log.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "", "text":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("invalid log.format %q", cfg.Format)
	}
	return nil
}
