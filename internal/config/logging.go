package config

import (
	"strings"

	"github.com/labstack/gommon/log"
)

// SetupLogging applies LOG_LEVEL to the shared gommon logger.
func SetupLogging(cfg *Config) {
	log.SetLevel(ParseLevel(cfg.LogLevel))
	log.SetHeader("${time_rfc3339} ${level} ${short_file}:${line}")
}

// ParseLevel maps a level name to a gommon level, defaulting to INFO.
func ParseLevel(name string) log.Lvl {
	switch strings.ToLower(name) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	}
	return log.INFO
}
