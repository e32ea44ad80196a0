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

package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mccoysc/enclavesim/internal/config"
)

// setupLogging installs the root log handler described by cfg. Logs go to
// stderr, or to a rotated file when one is configured. The returned closer
// releases the log file and is nil when logging to stderr.
func setupLogging(cfg config.LogConfig, stderr io.Writer) io.Closer {
	var (
		output   = stderr
		useColor = false
		closer   io.Closer
	)
	if cfg.File != "" {
		rotated := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			Compress:   true,
		}
		output, closer = rotated, rotated
	} else if stderr == io.Writer(os.Stderr) {
		fd := os.Stderr.Fd()
		useColor = (isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)) && os.Getenv("TERM") != "dumb"
		if useColor {
			output = colorable.NewColorableStderr()
		}
	}
	log.SetDefault(log.NewLogger(newHandler(cfg, output, useColor)))
	return closer
}

func newHandler(cfg config.LogConfig, output io.Writer, useColor bool) slog.Handler {
	if cfg.Verbosity == 0 {
		return log.DiscardHandler()
	}
	lvl := log.FromLegacyLevel(cfg.Verbosity)
	switch cfg.Format {
	case config.FormatJSON:
		return log.JSONHandlerWithLevel(output, lvl)
	case config.FormatLogfmt:
		return log.LogfmtHandlerWithLevel(output, lvl)
	default:
		return log.NewTerminalHandlerWithLevel(output, lvl, useColor)
	}
}
