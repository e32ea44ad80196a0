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

package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variables consulted by ApplyEnvironment.
const (
	EnvVerbosity = "ENCLAVESIM_VERBOSITY"
	EnvLogFormat = "ENCLAVESIM_LOG_FORMAT"
	EnvLogFile   = "ENCLAVESIM_LOG_FILE"
	EnvSigner    = "ENCLAVESIM_SIGNER"
)

// ApplyEnvironment overrides file values with environment variables.
func (c *Config) ApplyEnvironment() error {
	if v := os.Getenv(EnvVerbosity); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s=%q: %w", EnvVerbosity, v, err)
		}
		c.Log.Verbosity = n
	}
	c.Log.Format = getEnvOrDefault(EnvLogFormat, c.Log.Format)
	c.Log.File = getEnvOrDefault(EnvLogFile, c.Log.File)
	c.Enclave.DefaultSigner = getEnvOrDefault(EnvSigner, c.Enclave.DefaultSigner)
	return nil
}

// Validate checks the configuration for values the tools cannot use.
func (c *Config) Validate() error {
	if c.Log.Verbosity < 0 || c.Log.Verbosity > 5 {
		return fmt.Errorf("log verbosity %d out of range [0, 5]", c.Log.Verbosity)
	}
	switch c.Log.Format {
	case FormatTerminal, FormatLogfmt, FormatJSON:
	default:
		return fmt.Errorf("unsupported log format %q", c.Log.Format)
	}
	if c.Log.File != "" && c.Log.MaxSizeMB <= 0 {
		return fmt.Errorf("log max_size_mb must be positive, got %d", c.Log.MaxSizeMB)
	}
	if c.Log.MaxBackups < 0 {
		return fmt.Errorf("log max_backups must not be negative, got %d", c.Log.MaxBackups)
	}
	return nil
}

// getEnvOrDefault retrieves an environment variable or returns a default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
