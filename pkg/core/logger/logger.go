//go:build !logless

// Package logger is graphinfer's diagnostic logger. cmd/compare is the
// module's only CLI surface and it only ever reports a failed run at error
// level, so this trims the teacher's general-purpose zerolog facade down to
// that one call shape (Error().Err(...).Str(...).Msg(...)) instead of
// carrying the full debug/info/warn taxonomy a multi-subsystem robot stack
// needs.
package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// Log is the package-level logger, console-formatted to stderr and tagged
// with the component that produced the message.
var Log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Str("component", "compare").Logger()

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}
