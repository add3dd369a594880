// Package log holds the wallet's zerolog loggers.
//
// Command output is written to stdout, so every logger writes to stderr
// (and optionally a JSON log file). Packages log through the component
// loggers, which are rebuilt whenever Init is called.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Root is the logger the component loggers derive from.
var Root zerolog.Logger

// Component loggers.
var (
	Wallet   zerolog.Logger
	RPC      zerolog.Logger
	Keystore zerolog.Logger
	Storage  zerolog.Logger
	CLI      zerolog.Logger
)

var levels = map[string]zerolog.Level{
	"debug": zerolog.DebugLevel,
	"info":  zerolog.InfoLevel,
	"warn":  zerolog.WarnLevel,
	"error": zerolog.ErrorLevel,
}

func init() {
	setRoot(New(os.Stderr, "warn", false))
}

// Init replaces the root logger. A non-empty file receives a JSON copy of
// every entry in addition to stderr.
func Init(level string, jsonOutput bool, file string) error {
	var out io.Writer = stderrWriter(jsonOutput)
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		out = zerolog.MultiLevelWriter(out, f)
	}
	setRoot(build(out, level))
	return nil
}

// New returns a logger writing to w, colored unless jsonOutput is set.
func New(w io.Writer, level string, jsonOutput bool) zerolog.Logger {
	if !jsonOutput {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	return build(w, level)
}

// ValidLevel reports whether level names a supported log level.
func ValidLevel(level string) bool {
	_, ok := levels[strings.ToLower(level)]
	return ok
}

func parseLevel(level string) zerolog.Level {
	if l, ok := levels[strings.ToLower(level)]; ok {
		return l
	}
	return zerolog.InfoLevel
}

func stderrWriter(jsonOutput bool) io.Writer {
	if jsonOutput {
		return os.Stderr
	}
	return zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
}

func build(w io.Writer, level string) zerolog.Logger {
	return zerolog.New(w).Level(parseLevel(level)).With().Timestamp().Logger()
}

func setRoot(l zerolog.Logger) {
	Root = l
	Wallet = component("wallet")
	RPC = component("rpc")
	Keystore = component("keystore")
	Storage = component("storage")
	CLI = component("cli")
}

func component(name string) zerolog.Logger {
	return Root.With().Str("component", name).Logger()
}
