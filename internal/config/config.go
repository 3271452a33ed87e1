package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	// DefaultListenAddr is the default UDP address the observer captures from.
	DefaultListenAddr = ":22023"
	// DefaultMaxDatagramBytes bounds the size of a single UDP read.
	DefaultMaxDatagramBytes = 64 * 1024
	// DefaultBroadcastAddr is the default address the websocket fan-out listens on.
	DefaultBroadcastAddr = ":8787"

	// DefaultLogLevel controls verbosity for observer logs.
	DefaultLogLevel = "info"
	// DefaultLogPath is where structured logs are written.
	DefaultLogPath = "crewwire.log"
	// DefaultLogMaxSizeMB caps the size of a single log file before rotation.
	DefaultLogMaxSizeMB = 100
	// DefaultLogMaxBackups limits retained rotated log files.
	DefaultLogMaxBackups = 10
	// DefaultLogMaxAgeDays controls how long rotated log files are kept on disk.
	DefaultLogMaxAgeDays = 7
	// DefaultLogCompress toggles gzip compression for rotated log files.
	DefaultLogCompress = true

	// DefaultCaptureDir is where raw datagram captures are written.
	DefaultCaptureDir = "captures"
	// DefaultCaptureMaxSizeMB caps a single capture file before rotation.
	DefaultCaptureMaxSizeMB = 50
	// DefaultCaptureEnabled controls whether datagram capture runs by default.
	DefaultCaptureEnabled = false
)

// Config captures all runtime tunables for the observer service.
type Config struct {
	ListenAddr       string
	MaxDatagramBytes int
	BroadcastAddr    string
	Logging          LoggingConfig
	CaptureDir       string
	CaptureMaxSizeMB int
	CaptureEnabled   bool
}

// LoggingConfig captures structured logging configuration options.
type LoggingConfig struct {
	Level      string
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Load reads the observer configuration from environment variables, applying sane
// defaults and accumulating descriptive errors for invalid overrides.
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:       getString("CREWWIRE_LISTEN_ADDR", DefaultListenAddr),
		MaxDatagramBytes: DefaultMaxDatagramBytes,
		BroadcastAddr:    getString("CREWWIRE_BROADCAST_ADDR", DefaultBroadcastAddr),
		Logging: LoggingConfig{
			Level:      strings.TrimSpace(getString("CREWWIRE_LOG_LEVEL", DefaultLogLevel)),
			Path:       strings.TrimSpace(getString("CREWWIRE_LOG_PATH", DefaultLogPath)),
			MaxSizeMB:  DefaultLogMaxSizeMB,
			MaxBackups: DefaultLogMaxBackups,
			MaxAgeDays: DefaultLogMaxAgeDays,
			Compress:   DefaultLogCompress,
		},
		CaptureDir:       strings.TrimSpace(getString("CREWWIRE_CAPTURE_DIR", DefaultCaptureDir)),
		CaptureMaxSizeMB: DefaultCaptureMaxSizeMB,
		CaptureEnabled:   DefaultCaptureEnabled,
	}

	var problems []string

	//1.- Parse every optional override, accumulating problems instead of failing fast.
	if raw := strings.TrimSpace(os.Getenv("CREWWIRE_MAX_DATAGRAM_BYTES")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			problems = append(problems, fmt.Sprintf("CREWWIRE_MAX_DATAGRAM_BYTES must be a positive integer, got %q", raw))
		} else {
			cfg.MaxDatagramBytes = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("CREWWIRE_LOG_MAX_SIZE_MB")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			problems = append(problems, fmt.Sprintf("CREWWIRE_LOG_MAX_SIZE_MB must be a positive integer, got %q", raw))
		} else {
			cfg.Logging.MaxSizeMB = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("CREWWIRE_LOG_MAX_BACKUPS")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			problems = append(problems, fmt.Sprintf("CREWWIRE_LOG_MAX_BACKUPS must be a non-negative integer, got %q", raw))
		} else {
			cfg.Logging.MaxBackups = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("CREWWIRE_LOG_MAX_AGE_DAYS")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			problems = append(problems, fmt.Sprintf("CREWWIRE_LOG_MAX_AGE_DAYS must be a non-negative integer, got %q", raw))
		} else {
			cfg.Logging.MaxAgeDays = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("CREWWIRE_LOG_COMPRESS")); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			problems = append(problems, fmt.Sprintf("CREWWIRE_LOG_COMPRESS must be a boolean value, got %q", raw))
		} else {
			cfg.Logging.Compress = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("CREWWIRE_CAPTURE_MAX_SIZE_MB")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			problems = append(problems, fmt.Sprintf("CREWWIRE_CAPTURE_MAX_SIZE_MB must be a positive integer, got %q", raw))
		} else {
			cfg.CaptureMaxSizeMB = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("CREWWIRE_CAPTURE_ENABLED")); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			problems = append(problems, fmt.Sprintf("CREWWIRE_CAPTURE_ENABLED must be a boolean value, got %q", raw))
		} else {
			cfg.CaptureEnabled = value
		}
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf(strings.Join(problems, "; "))
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
