// Package logging defines the structured-warning sink the codec reports
// decode failures and stalled packet assembly through, and a zerolog-backed
// implementation of it.
package logging

import "github.com/rs/zerolog"

// Field is one structured key/value pair attached to a log line.
type Field struct {
	Key   string
	Value interface{}
}

// Logger is the only logging capability the codec depends on. Callers who
// don't care about these warnings wire Nop.
type Logger interface {
	Warn(msg string, fields ...Field)
}

// Nop discards every message. It is the default for tests and for callers
// that have no log sink to offer.
type Nop struct{}

func (Nop) Warn(string, ...Field) {}

// Zerolog adapts a zerolog.Logger to the Logger interface.
type Zerolog struct {
	log zerolog.Logger
}

func NewZerolog(log zerolog.Logger) *Zerolog {
	return &Zerolog{log: log}
}

func (z *Zerolog) Warn(msg string, fields ...Field) {
	ev := z.log.Warn()
	for _, f := range fields {
		ev = ev.Interface(f.Key, f.Value)
	}
	ev.Msg(msg)
}
