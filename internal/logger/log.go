// SPDX-FileCopyrightText: The mudwatch authors
//
// SPDX-License-Identifier: MIT

// Package logger wraps log/slog with the defaults used throughout mudwatch.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// Logger is a type wrapper for slog.Logger.
type Logger struct {
	*slog.Logger
}

// New returns a Logger writing to STDERR with the given log level.
func New(level slog.Level) *Logger {
	return NewLogger(level, os.Stderr)
}

// NewLogger returns a Logger writing to the given output with the given log level.
func NewLogger(level slog.Level, output io.Writer) *Logger {
	return &Logger{slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: level}))}
}

// Err returns a slog.Attr for an error value.
func Err(err error) slog.Attr {
	return slog.Any("error", err)
}
