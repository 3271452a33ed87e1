package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CREWWIRE_LISTEN_ADDR", "")
	t.Setenv("CREWWIRE_MAX_DATAGRAM_BYTES", "")
	t.Setenv("CREWWIRE_BROADCAST_ADDR", "")
	t.Setenv("CREWWIRE_LOG_LEVEL", "")
	t.Setenv("CREWWIRE_LOG_PATH", "")
	t.Setenv("CREWWIRE_LOG_MAX_SIZE_MB", "")
	t.Setenv("CREWWIRE_LOG_MAX_BACKUPS", "")
	t.Setenv("CREWWIRE_LOG_MAX_AGE_DAYS", "")
	t.Setenv("CREWWIRE_LOG_COMPRESS", "")
	t.Setenv("CREWWIRE_CAPTURE_DIR", "")
	t.Setenv("CREWWIRE_CAPTURE_MAX_SIZE_MB", "")
	t.Setenv("CREWWIRE_CAPTURE_ENABLED", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.ListenAddr != DefaultListenAddr {
		t.Fatalf("expected default listen addr %q, got %q", DefaultListenAddr, cfg.ListenAddr)
	}
	if cfg.MaxDatagramBytes != DefaultMaxDatagramBytes {
		t.Fatalf("expected default max datagram bytes %d, got %d", DefaultMaxDatagramBytes, cfg.MaxDatagramBytes)
	}
	if cfg.BroadcastAddr != DefaultBroadcastAddr {
		t.Fatalf("expected default broadcast addr %q, got %q", DefaultBroadcastAddr, cfg.BroadcastAddr)
	}
	if cfg.Logging.Level != DefaultLogLevel {
		t.Fatalf("expected default log level %q, got %q", DefaultLogLevel, cfg.Logging.Level)
	}
	if cfg.Logging.Path != DefaultLogPath {
		t.Fatalf("expected default log path %q, got %q", DefaultLogPath, cfg.Logging.Path)
	}
	if cfg.Logging.MaxSizeMB != DefaultLogMaxSizeMB {
		t.Fatalf("expected default log max size %d, got %d", DefaultLogMaxSizeMB, cfg.Logging.MaxSizeMB)
	}
	if cfg.Logging.MaxBackups != DefaultLogMaxBackups {
		t.Fatalf("expected default log max backups %d, got %d", DefaultLogMaxBackups, cfg.Logging.MaxBackups)
	}
	if cfg.Logging.MaxAgeDays != DefaultLogMaxAgeDays {
		t.Fatalf("expected default log max age %d, got %d", DefaultLogMaxAgeDays, cfg.Logging.MaxAgeDays)
	}
	if cfg.Logging.Compress != DefaultLogCompress {
		t.Fatalf("expected default log compress %t, got %t", DefaultLogCompress, cfg.Logging.Compress)
	}
	if cfg.CaptureDir != DefaultCaptureDir {
		t.Fatalf("expected default capture dir %q, got %q", DefaultCaptureDir, cfg.CaptureDir)
	}
	if cfg.CaptureMaxSizeMB != DefaultCaptureMaxSizeMB {
		t.Fatalf("expected default capture max size %d, got %d", DefaultCaptureMaxSizeMB, cfg.CaptureMaxSizeMB)
	}
	if cfg.CaptureEnabled != DefaultCaptureEnabled {
		t.Fatalf("expected capture disabled by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CREWWIRE_LISTEN_ADDR", "0.0.0.0:22023")
	t.Setenv("CREWWIRE_MAX_DATAGRAM_BYTES", "2048")
	t.Setenv("CREWWIRE_BROADCAST_ADDR", "127.0.0.1:9001")
	t.Setenv("CREWWIRE_LOG_LEVEL", "debug")
	t.Setenv("CREWWIRE_LOG_PATH", "/var/log/crewwire.log")
	t.Setenv("CREWWIRE_LOG_MAX_SIZE_MB", "512")
	t.Setenv("CREWWIRE_LOG_MAX_BACKUPS", "4")
	t.Setenv("CREWWIRE_LOG_MAX_AGE_DAYS", "2")
	t.Setenv("CREWWIRE_LOG_COMPRESS", "false")
	t.Setenv("CREWWIRE_CAPTURE_DIR", "/var/run/crewwire/captures")
	t.Setenv("CREWWIRE_CAPTURE_MAX_SIZE_MB", "10")
	t.Setenv("CREWWIRE_CAPTURE_ENABLED", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.ListenAddr != "0.0.0.0:22023" {
		t.Fatalf("unexpected listen addr: %q", cfg.ListenAddr)
	}
	if cfg.MaxDatagramBytes != 2048 {
		t.Fatalf("expected overridden max datagram bytes, got %d", cfg.MaxDatagramBytes)
	}
	if cfg.BroadcastAddr != "127.0.0.1:9001" {
		t.Fatalf("unexpected broadcast addr %q", cfg.BroadcastAddr)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected overridden log level debug, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Path != "/var/log/crewwire.log" {
		t.Fatalf("unexpected log path %q", cfg.Logging.Path)
	}
	if cfg.Logging.MaxSizeMB != 512 {
		t.Fatalf("expected log max size 512, got %d", cfg.Logging.MaxSizeMB)
	}
	if cfg.Logging.MaxBackups != 4 {
		t.Fatalf("expected log max backups 4, got %d", cfg.Logging.MaxBackups)
	}
	if cfg.Logging.MaxAgeDays != 2 {
		t.Fatalf("expected log max age 2, got %d", cfg.Logging.MaxAgeDays)
	}
	if cfg.Logging.Compress {
		t.Fatalf("expected log compression disabled")
	}
	if cfg.CaptureDir != "/var/run/crewwire/captures" {
		t.Fatalf("unexpected capture dir %q", cfg.CaptureDir)
	}
	if cfg.CaptureMaxSizeMB != 10 {
		t.Fatalf("expected capture max size 10, got %d", cfg.CaptureMaxSizeMB)
	}
	if !cfg.CaptureEnabled {
		t.Fatalf("expected capture enabled override")
	}
}

func TestLoadReturnsValidationErrors(t *testing.T) {
	t.Setenv("CREWWIRE_MAX_DATAGRAM_BYTES", "-5")
	t.Setenv("CREWWIRE_LOG_MAX_SIZE_MB", "-1")
	t.Setenv("CREWWIRE_LOG_MAX_BACKUPS", "-2")
	t.Setenv("CREWWIRE_LOG_MAX_AGE_DAYS", "-3")
	t.Setenv("CREWWIRE_LOG_COMPRESS", "notabool")
	t.Setenv("CREWWIRE_CAPTURE_MAX_SIZE_MB", "0")
	t.Setenv("CREWWIRE_CAPTURE_ENABLED", "notabool")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error from invalid configuration, got nil")
	}

	for _, want := range []string{
		"CREWWIRE_MAX_DATAGRAM_BYTES",
		"CREWWIRE_LOG_MAX_SIZE_MB",
		"CREWWIRE_LOG_MAX_BACKUPS",
		"CREWWIRE_LOG_MAX_AGE_DAYS",
		"CREWWIRE_LOG_COMPRESS",
		"CREWWIRE_CAPTURE_MAX_SIZE_MB",
		"CREWWIRE_CAPTURE_ENABLED",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected error to mention %s, got %q", want, err.Error())
		}
	}
}

func TestLoadBlankListenAddrFallsBackToDefault(t *testing.T) {
	t.Setenv("CREWWIRE_LISTEN_ADDR", "   ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.ListenAddr != DefaultListenAddr {
		t.Fatalf("expected blank override to fall back to default, got %q", cfg.ListenAddr)
	}
}
