package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wippyai/d3d12-capture/capture"
	"github.com/wippyai/d3d12-capture/errors"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
capture:
  compression: zstd
  application: game.exe
decode:
  workers: 16
log:
  level: debug
  development: true
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Capture.Compression != "zstd" || cfg.Capture.Application != "game.exe" {
		t.Errorf("capture = %+v", cfg.Capture)
	}
	if !cfg.Capture.Checksum || cfg.Capture.PointerSize != 8 {
		t.Errorf("absent keys lost their defaults: %+v", cfg.Capture)
	}
	if cfg.Decode.Workers != 16 || cfg.Decode.MaxBlobSize != capture.DefaultMaxBlockSize {
		t.Errorf("decode = %+v", cfg.Decode)
	}
	if cfg.Dump.Interactive != "auto" {
		t.Errorf("dump = %+v", cfg.Dump)
	}

	opts := cfg.RecorderOptions()
	if opts.Compression != capture.CompressionZstd || !opts.Checksum || opts.Application != "game.exe" {
		t.Errorf("RecorderOptions = %+v", opts)
	}
	if cfg.ReaderOptions().MaxBlockSize != capture.DefaultMaxBlockSize {
		t.Errorf("ReaderOptions = %+v", cfg.ReaderOptions())
	}
	if _, err := cfg.Log.Logger(); err != nil {
		t.Errorf("Logger: %v", err)
	}
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Capture.Compression != "lz4" {
		t.Errorf("compression = %q", cfg.Capture.Compression)
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("capture:\n  compresion: lz4\n"))
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Phase != errors.PhaseConfig || e.Kind != errors.KindInvalidData {
		t.Fatalf("unknown key = %v", err)
	}
}

func TestValidateReportsEveryField(t *testing.T) {
	_, err := Parse([]byte(`
capture:
  compression: brotli
  pointer_size: 4
decode:
  workers: 0
  max_blob_size: -1
log:
  level: loud
dump:
  interactive: sometimes
`))
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, path := range []string{
		"capture.compression", "capture.pointer_size", "decode.workers",
		"decode.max_blob_size", "log.level", "dump.interactive",
	} {
		if !strings.Contains(err.Error(), path) {
			t.Errorf("error does not mention %s: %v", path, err)
		}
	}
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Phase != errors.PhaseConfig {
		t.Errorf("error phase: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "capture.yaml")
	if err := os.WriteFile(path, []byte("dump:\n  interactive: never\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(EnvVar, path)
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Dump.Interactive != "never" {
		t.Errorf("interactive = %q", cfg.Dump.Interactive)
	}

	t.Setenv(EnvVar, "")
	cfg, err = Load()
	if err != nil || cfg.Dump.Interactive != "auto" {
		t.Errorf("Load without env = %+v, %v", cfg, err)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}
}
