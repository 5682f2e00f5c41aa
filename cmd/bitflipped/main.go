// Copyright 2026 The bitflipped Authors
// SPDX-License-Identifier: Apache-2.0

// bitflipped watches a block of RAM for spontaneous bit flips.
//
// It maps a zero-filled region outside the Go heap, locks it into
// physical memory, and then every --delay seconds sums every byte. The
// program itself never writes to the region after allocation, so any
// non-zero sum is a hardware fault (or radiation, or a kernel bug). The
// first such sweep prints a report and ends the run with exit code 2.
//
// The process otherwise runs until SIGINT or SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/bitflipped/bitflipped/lib/clock"
	"github.com/bitflipped/bitflipped/lib/config"
	"github.com/bitflipped/bitflipped/lib/hwinfo"
	"github.com/bitflipped/bitflipped/lib/process"
	"github.com/bitflipped/bitflipped/lib/report"
	"github.com/bitflipped/bitflipped/lib/version"
)

func main() {
	process.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// invocation is the parsed command line.
type invocation struct {
	config   *config.Config
	logLevel string
	help     bool
	version  bool
}

func run(args []string, stdout, stderr io.Writer) error {
	flagSet := newFlagSet()
	parsed, err := parseArgs(flagSet, args)
	if err != nil {
		var configError *config.Error
		if errors.As(err, &configError) && configError.Kind == config.KindUsage {
			printHelp(stderr, flagSet)
		}
		return process.WithCode(process.ExitConfig, err)
	}

	if parsed.help {
		printHelp(stdout, flagSet)
		return nil
	}
	if parsed.version {
		version.Print(stdout, "bitflipped")
		return nil
	}

	logger, err := newLogger(stderr, parsed.logLevel)
	if err != nil {
		return process.WithCode(process.ExitConfig, config.Usage(err))
	}

	cfg := parsed.config
	logger.Info("configuration accepted",
		"size_gb", cfg.SizeGB,
		"delay_seconds", cfg.DelaySeconds,
		"force", cfg.Force,
		"require_lock", cfg.RequireLock,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	probe := &session{
		Size:        cfg.SizeBytes(),
		Delay:       cfg.Delay(),
		RequireLock: cfg.RequireLock,
		Clock:       clock.Real(),
		Probe:       hwinfo.ProbeMemory,
		Report:      report.New(stdout, stderr),
		Logger:      logger,
	}
	return probe.run(ctx)
}

func newFlagSet() *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("bitflipped", pflag.ContinueOnError)
	// Errors are reported by run, together with the help text.
	flagSet.SetOutput(io.Discard)
	flagSet.Uint64P("gigabytes", "g", config.DefaultSizeGB, "memory allocation size in GB")
	flagSet.Uint64P("delay", "d", config.DefaultDelaySeconds, "delay in seconds between checks")
	flagSet.BoolP("force", "f", false, "force acceptance of questionable parameters")
	flagSet.Bool("require-lock", false, "exit if the buffer cannot be locked into RAM")
	flagSet.String("config", "", "read settings from this YAML file; flags override it")
	flagSet.String("log-level", "info", "log level: debug, info, warn, error")
	flagSet.BoolP("help", "h", false, "show help")
	flagSet.Bool("version", false, "print version information")
	return flagSet
}

// parseArgs parses args and resolves the final configuration: defaults,
// then the --config file, then flags given on the command line. The
// result has passed Validate and SanityCheck unless help or version was
// requested.
func parseArgs(flagSet *pflag.FlagSet, args []string) (*invocation, error) {
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return &invocation{help: true}, nil
		}
		return nil, config.Usage(err)
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return nil, config.Usage(fmt.Errorf("unexpected argument: %s", rest[0]))
	}

	parsed := &invocation{}
	parsed.help, _ = flagSet.GetBool("help")
	parsed.version, _ = flagSet.GetBool("version")
	if parsed.help || parsed.version {
		return parsed, nil
	}
	parsed.logLevel, _ = flagSet.GetString("log-level")

	cfg := config.Default()
	if path, _ := flagSet.GetString("config"); path != "" {
		loaded, err := config.LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if flagSet.Changed("gigabytes") {
		cfg.SizeGB, _ = flagSet.GetUint64("gigabytes")
	}
	if flagSet.Changed("delay") {
		cfg.DelaySeconds, _ = flagSet.GetUint64("delay")
	}
	if flagSet.Changed("force") {
		cfg.Force, _ = flagSet.GetBool("force")
	}
	if flagSet.Changed("require-lock") {
		cfg.RequireLock, _ = flagSet.GetBool("require-lock")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.SanityCheck(); err != nil {
		return nil, err
	}

	parsed.config = cfg
	return parsed, nil
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `bitflipped watches a zero-filled block of RAM for bit flips.

Usage:
  bitflipped [flags]

Every --delay seconds the whole block is summed. The sum stays zero
unless memory changed underneath the program; the first non-zero sum
is reported and the process exits with status 2.

Sizes above %d GB and delays below %d seconds are refused without -f.

Exit status:
  0  stopped by SIGINT or SIGTERM, no corruption seen
  1  invalid flags or configuration
  2  corruption detected
  3  buffer could not be allocated (or locked, with --require-lock)
  4  internal failure

Flags:
`, config.SafeSizeGB, config.SafeDelaySeconds)
	flagSet.SetOutput(w)
	flagSet.PrintDefaults()
	flagSet.SetOutput(io.Discard)
}
