// Copyright 2026 The bitflipped Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Hard bounds. Values outside these ranges are never accepted.
const (
	MinSizeGB = 1
	// MaxSizeGB is one pebibyte.
	MaxSizeGB = 1024 * 1024

	MinDelaySeconds = 1
	// MaxDelaySeconds is one year.
	MaxDelaySeconds = 365 * 86400
)

// Sanity thresholds. Values beyond these need Force.
const (
	SafeSizeGB       = 8
	SafeDelaySeconds = 5
)

// DefaultSizeGB and DefaultDelaySeconds are used when neither the
// config file nor the command line sets a value.
const (
	DefaultSizeGB       = 1
	DefaultDelaySeconds = 30
)

// BytesPerGB is the multiplier applied to SizeGB.
const BytesPerGB = 1 << 30

// Config is the resolved run configuration. It is not modified after
// Validate and SanityCheck pass.
type Config struct {
	// SizeGB is the buffer size in gigabytes (GiB).
	SizeGB uint64 `yaml:"size_gb"`

	// DelaySeconds is the wait before each sweep.
	DelaySeconds uint64 `yaml:"delay_seconds"`

	// Force bypasses SanityCheck.
	Force bool `yaml:"force"`

	// RequireLock makes a failed mlock fatal instead of a warning.
	RequireLock bool `yaml:"require_lock"`
}

// Default returns the configuration used when nothing is specified.
func Default() *Config {
	return &Config{
		SizeGB:       DefaultSizeGB,
		DelaySeconds: DefaultDelaySeconds,
	}
}

// SizeBytes returns the buffer size in bytes. Only meaningful after
// Validate: MaxSizeGB * BytesPerGB fits comfortably in a uint64.
func (c *Config) SizeBytes() uint64 {
	return c.SizeGB * BytesPerGB
}

// Delay returns the wait before each sweep.
func (c *Config) Delay() time.Duration {
	return time.Duration(c.DelaySeconds) * time.Second
}

// Validate checks the hard bounds.
func (c *Config) Validate() error {
	if c.SizeGB < MinSizeGB || c.SizeGB > MaxSizeGB {
		return &Error{
			Kind:  KindRange,
			Field: "size_gb",
			Err:   fmt.Errorf("size %d GB is outside [%d, %d]", c.SizeGB, MinSizeGB, MaxSizeGB),
		}
	}
	if c.DelaySeconds < MinDelaySeconds || c.DelaySeconds > MaxDelaySeconds {
		return &Error{
			Kind:  KindRange,
			Field: "delay_seconds",
			Err:   fmt.Errorf("delay %d seconds is outside [%d, %d]", c.DelaySeconds, MinDelaySeconds, MaxDelaySeconds),
		}
	}
	return nil
}

// SanityCheck rejects configurations that are valid but likely a
// mistake: more than SafeSizeGB of memory, or sweeping more often than
// every SafeDelaySeconds. Force disables the check.
func (c *Config) SanityCheck() error {
	if c.Force {
		return nil
	}
	if c.SizeGB > SafeSizeGB {
		return &Error{
			Kind:  KindSanity,
			Field: "size_gb",
			Err:   fmt.Errorf("requested %d GB allocation, more than %d GB", c.SizeGB, SafeSizeGB),
			Hint:  "Use -f to force if you are really sure this is what you want.",
		}
	}
	if c.DelaySeconds < SafeDelaySeconds {
		return &Error{
			Kind:  KindSanity,
			Field: "delay_seconds",
			Err:   fmt.Errorf("requested %d second delay, less than %d seconds", c.DelaySeconds, SafeDelaySeconds),
			Hint:  "Use -f to force if you are really sure this is what you want.",
		}
	}
	return nil
}

// LoadFile reads a YAML file over Default. Unknown keys are rejected so
// a typo cannot silently fall back to a default. An empty file yields
// the defaults.
//
// LoadFile does not validate; callers run Validate after applying
// command-line overrides.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Kind: KindFile, Err: fmt.Errorf("reading config file: %w", err)}
	}

	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, &Error{Kind: KindParse, Err: fmt.Errorf("parsing %s: %w", path, err)}
	}

	return cfg, nil
}
