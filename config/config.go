// Package config loads capture tool configuration.
//
// Configuration comes from a single YAML file named by the --config flag or
// the D3D12CAPTURE_CONFIG environment variable. There is no discovery.
// Keys absent from the file keep their defaults; unknown keys are errors.
package config

import (
	"bytes"
	stderrors "errors"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/d3d12-capture/capture"
	"github.com/wippyai/d3d12-capture/codec"
	"github.com/wippyai/d3d12-capture/errors"
)

// EnvVar names the environment variable holding the config file path.
const EnvVar = "D3D12CAPTURE_CONFIG"

// Config is the complete tool configuration.
type Config struct {
	Capture CaptureConfig `yaml:"capture"`
	Decode  DecodeConfig  `yaml:"decode"`
	Log     LogConfig     `yaml:"log"`
	Dump    DumpConfig    `yaml:"dump"`
}

// CaptureConfig controls how capture files are written.
type CaptureConfig struct {
	// Compression is none, lz4 or zstd.
	Compression string `yaml:"compression"`
	// Checksum adds a BLAKE3 checksum to every block.
	Checksum bool `yaml:"checksum"`
	// PointerSize is the sentinel width. Only 8 is accepted.
	PointerSize int `yaml:"pointer_size"`
	// Application is recorded in the file header.
	Application string `yaml:"application"`
}

// DecodeConfig controls how capture files are read.
type DecodeConfig struct {
	Workers     int `yaml:"workers"`
	MaxBlobSize int `yaml:"max_blob_size"`
}

// LogConfig selects the zap logger built by the tools.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DumpConfig controls capdump output.
type DumpConfig struct {
	// Interactive is auto, always or never. Auto opens the browser when
	// stdout is a terminal.
	Interactive string `yaml:"interactive"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Capture: CaptureConfig{
			Compression: "lz4",
			Checksum:    true,
			PointerSize: codec.PointerSize,
		},
		Decode: DecodeConfig{
			Workers:     4,
			MaxBlobSize: capture.DefaultMaxBlockSize,
		},
		Log: LogConfig{
			Level: "info",
		},
		Dump: DumpConfig{
			Interactive: "auto",
		},
	}
}

// Load reads the file named by D3D12CAPTURE_CONFIG, or returns the
// defaults when it is unset.
func Load() (*Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads and validates the configuration file at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindNotFound, err, "read "+path)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "parse yaml")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error
	bad := func(path string, value any, detail string) {
		errs = append(errs, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Path(path).
			Value(value).
			Detail("%s", detail).
			Build())
	}

	if _, err := capture.ParseCompression(c.Capture.Compression); err != nil {
		bad("capture.compression", c.Capture.Compression, "must be none, lz4 or zstd")
	}
	if c.Capture.PointerSize != codec.PointerSize {
		bad("capture.pointer_size", c.Capture.PointerSize, "only 8-byte pointers are supported")
	}
	if c.Decode.Workers < 1 {
		bad("decode.workers", c.Decode.Workers, "must be at least 1")
	}
	if c.Decode.MaxBlobSize < 1 || c.Decode.MaxBlobSize > codec.MaxBlobSize {
		bad("decode.max_blob_size", c.Decode.MaxBlobSize, "out of range")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		bad("log.level", c.Log.Level, "must be debug, info, warn or error")
	}
	switch c.Dump.Interactive {
	case "auto", "always", "never":
	default:
		bad("dump.interactive", c.Dump.Interactive, "must be auto, always or never")
	}
	return stderrors.Join(errs...)
}

// RecorderOptions converts the capture section for capture.NewRecorder.
func (c *Config) RecorderOptions() capture.Options {
	comp, _ := capture.ParseCompression(c.Capture.Compression)
	return capture.Options{
		Application: c.Capture.Application,
		Compression: comp,
		Checksum:    c.Capture.Checksum,
	}
}

// ReaderOptions converts the decode section for capture.NewReader.
func (c *Config) ReaderOptions() capture.ReaderOptions {
	return capture.ReaderOptions{MaxBlockSize: c.Decode.MaxBlobSize}
}

// Logger builds the zap logger described by the log section.
func (c LogConfig) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "log.level")
	}
	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
