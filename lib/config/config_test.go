// Copyright 2026 The bitflipped Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.SizeGB != 1 {
		t.Errorf("SizeGB = %d, want 1", cfg.SizeGB)
	}
	if cfg.DelaySeconds != 30 {
		t.Errorf("DelaySeconds = %d, want 30", cfg.DelaySeconds)
	}
	if cfg.Force || cfg.RequireLock {
		t.Error("Force and RequireLock should default to false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config fails Validate: %v", err)
	}
	if err := cfg.SanityCheck(); err != nil {
		t.Errorf("default config fails SanityCheck: %v", err)
	}
}

func TestSizeBytesAndDelay(t *testing.T) {
	cfg := &Config{SizeGB: 3, DelaySeconds: 45}
	if got := cfg.SizeBytes(); got != 3*1073741824 {
		t.Errorf("SizeBytes() = %d, want %d", got, uint64(3*1073741824))
	}
	if got := cfg.Delay(); got != 45*time.Second {
		t.Errorf("Delay() = %v, want 45s", got)
	}

	largest := &Config{SizeGB: MaxSizeGB}
	if got := largest.SizeBytes(); got != 1<<50 {
		t.Errorf("SizeBytes() at MaxSizeGB = %d, want %d", got, uint64(1<<50))
	}
}

func TestValidate_Bounds(t *testing.T) {
	tests := []struct {
		name    string
		sizeGB  uint64
		delay   uint64
		wantErr bool
		field   string
	}{
		{"minimum size", 1, 30, false, ""},
		{"maximum size", 1048576, 30, false, ""},
		{"zero size", 0, 30, true, "size_gb"},
		{"size above maximum", 1048577, 30, true, "size_gb"},
		{"minimum delay", 1, 1, false, ""},
		{"maximum delay", 1, 31536000, false, ""},
		{"zero delay", 1, 0, true, "delay_seconds"},
		{"delay above maximum", 1, 31536001, true, "delay_seconds"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := &Config{SizeGB: test.sizeGB, DelaySeconds: test.delay}
			err := cfg.Validate()
			if !test.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var configError *Error
			if !errors.As(err, &configError) {
				t.Fatalf("expected *Error, got %T: %v", err, err)
			}
			if configError.Kind != KindRange {
				t.Errorf("Kind = %q, want %q", configError.Kind, KindRange)
			}
			if configError.Field != test.field {
				t.Errorf("Field = %q, want %q", configError.Field, test.field)
			}
		})
	}
}

func TestSanityCheck(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"eight gigabytes allowed", Config{SizeGB: 8, DelaySeconds: 30}, false},
		{"sixteen gigabytes rejected", Config{SizeGB: 16, DelaySeconds: 30}, true},
		{"sixteen gigabytes forced", Config{SizeGB: 16, DelaySeconds: 30, Force: true}, false},
		{"five seconds allowed", Config{SizeGB: 1, DelaySeconds: 5}, false},
		{"four seconds rejected", Config{SizeGB: 1, DelaySeconds: 4}, true},
		{"one second forced", Config{SizeGB: 1, DelaySeconds: 1, Force: true}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.cfg.SanityCheck()
			if !test.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var configError *Error
			if !errors.As(err, &configError) {
				t.Fatalf("expected *Error, got %T: %v", err, err)
			}
			if configError.Kind != KindSanity {
				t.Errorf("Kind = %q, want %q", configError.Kind, KindSanity)
			}
			if !strings.Contains(err.Error(), "-f") {
				t.Errorf("error should tell the operator about -f: %q", err.Error())
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	t.Run("all fields", func(t *testing.T) {
		path := writeConfig(t, "size_gb: 4\ndelay_seconds: 60\nforce: true\nrequire_lock: true\n")

		cfg, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile() error: %v", err)
		}
		want := Config{SizeGB: 4, DelaySeconds: 60, Force: true, RequireLock: true}
		if *cfg != want {
			t.Errorf("LoadFile() = %+v, want %+v", *cfg, want)
		}
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		path := writeConfig(t, "delay_seconds: 10\n")

		cfg, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile() error: %v", err)
		}
		if cfg.SizeGB != DefaultSizeGB {
			t.Errorf("SizeGB = %d, want default %d", cfg.SizeGB, DefaultSizeGB)
		}
		if cfg.DelaySeconds != 10 {
			t.Errorf("DelaySeconds = %d, want 10", cfg.DelaySeconds)
		}
	})

	t.Run("empty file", func(t *testing.T) {
		cfg, err := LoadFile(writeConfig(t, ""))
		if err != nil {
			t.Fatalf("LoadFile() error: %v", err)
		}
		if *cfg != *Default() {
			t.Errorf("LoadFile(empty) = %+v, want defaults", *cfg)
		}
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := LoadFile(writeConfig(t, "size_gigs: 4\n"))
		assertKind(t, err, KindParse)
	})

	t.Run("negative value", func(t *testing.T) {
		_, err := LoadFile(writeConfig(t, "size_gb: -1\n"))
		assertKind(t, err, KindParse)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
		assertKind(t, err, KindFile)
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("error should wrap os.ErrNotExist: %v", err)
		}
	})
}

func TestError_Hint(t *testing.T) {
	plain := &Error{Kind: KindRange, Err: errors.New("bad size")}
	if plain.Error() != "bad size" {
		t.Errorf("Error() = %q, want %q", plain.Error(), "bad size")
	}

	hinted := &Error{Kind: KindSanity, Err: errors.New("too big"), Hint: "use -f"}
	if hinted.Error() != "too big\n\nuse -f" {
		t.Errorf("Error() = %q, want %q", hinted.Error(), "too big\n\nuse -f")
	}

	usage := Usage(errors.New("unknown flag: -x"))
	if usage.Kind != KindUsage {
		t.Errorf("Usage().Kind = %q, want %q", usage.Kind, KindUsage)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bitflipped.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func assertKind(t *testing.T, err error, want Kind) {
	t.Helper()
	var configError *Error
	if !errors.As(err, &configError) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if configError.Kind != want {
		t.Errorf("Kind = %q, want %q", configError.Kind, want)
	}
}
