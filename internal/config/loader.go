package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration for the classbot service.
type Config struct {
	TelegramToken     string
	SQLiteDSN         string
	HTTPPort          int
	TickInterval      time.Duration
	MaxSlots          int
	RecordingDuration time.Duration
	UTCOffsetHours    int
}

// Load parses configuration values from the current process environment.
//
// Optional fields fall back to defaults; required and malformed values are
// collected and reported together so a misconfigured deployment fails with
// one complete message.
func Load() (Config, error) {
	cfg := Config{
		SQLiteDSN:         "file:classbot.db?_foreign_keys=on",
		HTTPPort:          8080,
		TickInterval:      30 * time.Second,
		MaxSlots:          33,
		RecordingDuration: time.Hour,
		UTCOffsetHours:    3,
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	if token := strings.TrimSpace(os.Getenv("CLASSBOT_TELEGRAM_TOKEN")); token == "" {
		missing = append(missing, "CLASSBOT_TELEGRAM_TOKEN")
	} else {
		cfg.TelegramToken = token
	}

	if dsn := strings.TrimSpace(os.Getenv("CLASSBOT_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if portValue := strings.TrimSpace(os.Getenv("CLASSBOT_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "CLASSBOT_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if tickValue := strings.TrimSpace(os.Getenv("CLASSBOT_TICK_INTERVAL")); tickValue != "" {
		tick, err := time.ParseDuration(tickValue)
		if err != nil || tick <= 0 {
			invalid = append(invalid, "CLASSBOT_TICK_INTERVAL")
		} else {
			cfg.TickInterval = tick
		}
	}

	if slotsValue := strings.TrimSpace(os.Getenv("CLASSBOT_MAX_SLOTS")); slotsValue != "" {
		slots, err := strconv.Atoi(slotsValue)
		if err != nil || slots <= 0 {
			invalid = append(invalid, "CLASSBOT_MAX_SLOTS")
		} else {
			cfg.MaxSlots = slots
		}
	}

	if durationValue := strings.TrimSpace(os.Getenv("CLASSBOT_RECORDING_DURATION")); durationValue != "" {
		duration, err := time.ParseDuration(durationValue)
		if err != nil || duration <= 0 {
			invalid = append(invalid, "CLASSBOT_RECORDING_DURATION")
		} else {
			cfg.RecordingDuration = duration
		}
	}

	if offsetValue := strings.TrimSpace(os.Getenv("CLASSBOT_UTC_OFFSET_HOURS")); offsetValue != "" {
		offset, err := strconv.Atoi(offsetValue)
		if err != nil || offset < -12 || offset > 14 {
			invalid = append(invalid, "CLASSBOT_UTC_OFFSET_HOURS")
		} else {
			cfg.UTCOffsetHours = offset
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables are not set: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("environment variables have invalid values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// Location returns the fixed application timezone derived from the
// configured UTC offset. The service intentionally runs on one fixed zone.
func (c Config) Location() *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", c.UTCOffsetHours), c.UTCOffsetHours*60*60)
}
