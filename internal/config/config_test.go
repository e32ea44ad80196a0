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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enclavesim.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[log]
verbosity = 4
format = "json"

[enclave]
default_signer = "vendor"
`), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Log.Verbosity)
	assert.Equal(t, FormatJSON, cfg.Log.Format)
	assert.Equal(t, "vendor", cfg.Enclave.DefaultSigner)
	// Untouched keys keep their defaults.
	assert.Equal(t, "v1", cfg.Enclave.PolicyVersion)
	assert.Equal(t, 100, cfg.Log.MaxSizeMB)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[log\n"), 0600))
	_, err = Load(bad)
	assert.Error(t, err)

	unknown := filepath.Join(dir, "unknown.toml")
	require.NoError(t, os.WriteFile(unknown, []byte("[log]\ncolour = true\n"), 0600))
	_, err = Load(unknown)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.colour")
}

func TestApplyEnvironment(t *testing.T) {
	t.Setenv(EnvVerbosity, "5")
	t.Setenv(EnvLogFormat, FormatLogfmt)
	t.Setenv(EnvSigner, "ci")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnvironment())
	assert.Equal(t, 5, cfg.Log.Verbosity)
	assert.Equal(t, FormatLogfmt, cfg.Log.Format)
	assert.Equal(t, "ci", cfg.Enclave.DefaultSigner)
	assert.Equal(t, "", cfg.Log.File)

	t.Setenv(EnvVerbosity, "loud")
	assert.Error(t, Default().ApplyEnvironment())
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"silent", func(c *Config) { c.Log.Verbosity = 0 }, true},
		{"negative verbosity", func(c *Config) { c.Log.Verbosity = -1 }, false},
		{"verbosity too high", func(c *Config) { c.Log.Verbosity = 6 }, false},
		{"unknown format", func(c *Config) { c.Log.Format = "xml" }, false},
		{"file without size", func(c *Config) { c.Log.File = "x.log"; c.Log.MaxSizeMB = 0 }, false},
		{"negative backups", func(c *Config) { c.Log.MaxBackups = -1 }, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
