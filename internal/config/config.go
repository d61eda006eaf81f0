// Package config reads runtime settings from the environment. Call
// godotenv.Load first if a .env file should be honoured.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"calculator-widget/internal/calculator"
)

// Config holds the settings shared by the HTTP and terminal shells.
type Config struct {
	// Addr is the HTTP listen address (ADDR).
	Addr string

	// ErrorClearDelay is how long the error marker stays up
	// (CALC_ERROR_CLEAR_DELAY, Go duration syntax).
	ErrorClearDelay time.Duration

	// SessionTTL expires idle HTTP sessions (CALC_SESSION_TTL).
	SessionTTL time.Duration

	// SessionSweep is the janitor interval (CALC_SESSION_SWEEP).
	SessionSweep time.Duration

	// ToneTableFile optionally overrides the cue table (TONE_TABLE_FILE).
	ToneTableFile string

	// TonePlayerCmd plays rendered WAV cues from stdin, e.g. "aplay -q"
	// (TONE_PLAYER_CMD). Empty means silent.
	TonePlayerCmd string

	// LogsExport enables OTLP log export (OTEL_LOGS_ENABLED).
	LogsExport bool

	// LogFile redirects logs away from stderr (CALC_LOG_FILE).
	LogFile string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:            ":8080",
		ErrorClearDelay: calculator.DefaultClearDelay,
		SessionTTL:      calculator.DefaultSessionTTL,
		SessionSweep:    time.Minute,
	}
}

// Load overlays environment variables on Default.
func Load() (Config, error) {
	return load(os.LookupEnv)
}

func load(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if v, ok := lookup("ADDR"); ok && v != "" {
		cfg.Addr = v
	}
	if v, ok := lookup("TONE_TABLE_FILE"); ok {
		cfg.ToneTableFile = v
	}
	if v, ok := lookup("TONE_PLAYER_CMD"); ok {
		cfg.TonePlayerCmd = v
	}
	if v, ok := lookup("CALC_LOG_FILE"); ok {
		cfg.LogFile = v
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"CALC_ERROR_CLEAR_DELAY", &cfg.ErrorClearDelay},
		{"CALC_SESSION_TTL", &cfg.SessionTTL},
		{"CALC_SESSION_SWEEP", &cfg.SessionSweep},
	}
	for _, d := range durations {
		v, ok := lookup(d.key)
		if !ok || v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", d.key, err)
		}
		if parsed <= 0 {
			return Config{}, fmt.Errorf("%s: must be positive, got %s", d.key, v)
		}
		*d.dst = parsed
	}

	if v, ok := lookup("OTEL_LOGS_ENABLED"); ok && v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("OTEL_LOGS_ENABLED: %w", err)
		}
		cfg.LogsExport = enabled
	}

	return cfg, nil
}
