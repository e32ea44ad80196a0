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

// enclavesim exercises the simulated enclave primitives from the command line.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/mccoysc/enclavesim/internal/config"
)

var (
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	verbosityFlag = &cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=trace",
	}
	logFormatFlag = &cli.StringFlag{
		Name:  "log.format",
		Usage: "Log format to use (terminal, logfmt, json)",
	}
	logFileFlag = &cli.StringFlag{
		Name:  "log.file",
		Usage: "Write logs to a rotated file instead of stderr",
	}
)

// Keys into the app metadata.
const (
	cfgKey = "config"
	logKey = "log.closer"
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "enclavesim",
		Usage: "simulated enclave measurement, attestation and sealing",
		Description: "A teaching simulation. Measurements are plain SHA-256 digests, quote " +
			"signatures can be forged by anyone and sealing is a reversible XOR.",
		Flags: []cli.Flag{configFlag, verbosityFlag, logFormatFlag, logFileFlag},
		Before: func(ctx *cli.Context) error {
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}
			ctx.App.Metadata[cfgKey] = cfg
			if closer := setupLogging(cfg.Log, ctx.App.ErrWriter); closer != nil {
				ctx.App.Metadata[logKey] = closer
			}
			return nil
		},
		After: func(ctx *cli.Context) error {
			if closer, ok := ctx.App.Metadata[logKey].(io.Closer); ok {
				delete(ctx.App.Metadata, logKey)
				return closer.Close()
			}
			return nil
		},
		Commands: []*cli.Command{
			measureCommand,
			ecallCommand,
			ocallCommand,
			quoteCommand,
			attestCommand,
			verifyQuoteCommand,
			sealCommand,
			unsealCommand,
		},
	}
}

// loadConfig layers the config file, the environment and the global flags.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx.String(configFlag.Name))
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnvironment(); err != nil {
		return nil, err
	}
	if ctx.IsSet(verbosityFlag.Name) {
		cfg.Log.Verbosity = ctx.Int(verbosityFlag.Name)
	}
	if ctx.IsSet(logFormatFlag.Name) {
		cfg.Log.Format = ctx.String(logFormatFlag.Name)
	}
	if ctx.IsSet(logFileFlag.Name) {
		cfg.Log.File = ctx.String(logFileFlag.Name)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func appConfig(ctx *cli.Context) *config.Config {
	if cfg, ok := ctx.App.Metadata[cfgKey].(*config.Config); ok {
		return cfg
	}
	return config.Default()
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Debug("Command failed", "err", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
