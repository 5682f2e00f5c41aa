// Copyright 2026 The bitflipped Authors
// SPDX-License-Identifier: Apache-2.0

// Package config defines the probe's run configuration and its
// validation rules.
//
// A [Config] starts from [Default] (1 GiB, 30 seconds), optionally has
// a YAML file merged over it via [LoadFile], and then has command-line
// flags applied by the binary. Two checks run before anything is
// allocated:
//
//   - [Config.Validate] enforces hard bounds: 1 to 1048576 gigabytes
//     and 1 to 31536000 seconds between sweeps.
//   - [Config.SanityCheck] rejects requests above 8 GiB or below 5
//     seconds unless Force is set.
//
// Every failure is an [*Error] whose Kind tells the caller what went
// wrong and whose Hint tells the operator how to fix it.
//
// There is no environment variable lookup and no config discovery: the
// only file read is the one named on the command line.
//
// This package depends on gopkg.in/yaml.v3 and no internal packages.
package config
