// Copyright 2024 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package config holds the command-line configuration of the enclave
// simulator tools.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Log output formats.
const (
	FormatTerminal = "terminal"
	FormatLogfmt   = "logfmt"
	FormatJSON     = "json"
)

// Config is the tool configuration. Priority: flags > environment > file > defaults.
type Config struct {
	Log     LogConfig     `toml:"log"`
	Enclave EnclaveConfig `toml:"enclave"`
}

// LogConfig configures the root logger.
type LogConfig struct {
	Verbosity  int    `toml:"verbosity"` // 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=trace
	Format     string `toml:"format"`
	File       string `toml:"file"` // rotated log file; empty logs to stderr
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

// EnclaveConfig holds defaults for enclave operations.
type EnclaveConfig struct {
	DefaultSigner string `toml:"default_signer"`
	PolicyVersion string `toml:"policy_version"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Verbosity:  3,
			Format:     FormatTerminal,
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
		Enclave: EnclaveConfig{
			DefaultSigner: "lab",
			PolicyVersion: "v1",
		},
	}
}

// Load reads a TOML configuration file on top of the defaults. Unknown keys
// are rejected so that typos do not go unnoticed.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}
