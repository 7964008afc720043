// Copyright 2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logging wires zerolog the way cmd/root.go does for interactive
// output, plus four rotated level files (debug/info/warn/error) a
// daemon process needs that a one-shot CLI invocation never did.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	defaultMaxBytes = 10 * 1024 * 1024
	defaultMaxAge   = 7 * 24 * time.Hour
)

// levelWriter routes each event to its own rotating file based on level,
// implementing zerolog.LevelWriter so a single multi-writer can fan events
// out to whichever of the four files matches.
type levelWriter struct {
	debug, info, warn, err *rotatingFile
}

func (w *levelWriter) Write(p []byte) (int, error) {
	return w.info.Write(p)
}

func (w *levelWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	switch level {
	case zerolog.DebugLevel:
		return w.debug.Write(p)
	case zerolog.WarnLevel:
		return w.warn.Write(p)
	case zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel:
		return w.err.Write(p)
	default:
		return w.info.Write(p)
	}
}

// Init configures the global zerolog logger to write to the console and
// to dir/{date}_{level}.log, rotated at 10MiB and pruned after 7 days.
func Init(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	lw := &levelWriter{
		debug: newRotatingFile(dir, "debug", defaultMaxBytes, defaultMaxAge),
		info:  newRotatingFile(dir, "info", defaultMaxBytes, defaultMaxAge),
		warn:  newRotatingFile(dir, "warn", defaultMaxBytes, defaultMaxAge),
		err:   newRotatingFile(dir, "error", defaultMaxBytes, defaultMaxAge),
	}

	console := zerolog.ConsoleWriter{Out: os.Stderr}
	multi := zerolog.MultiLevelWriter(lw, console)

	zerolog.TimeFieldFormat = time.RFC3339
	logger := zerolog.New(multi).With().Timestamp().Caller().Logger()
	log.Logger = logger
	return nil
}

// Logger returns the process-wide configured logger, mirroring
// rs/zerolog/log.Logger for callers that prefer an explicit return value
// over the package-level global.
func Logger() zerolog.Logger {
	return log.Logger
}

var _ io.Writer = (*levelWriter)(nil)
