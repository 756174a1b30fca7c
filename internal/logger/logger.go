// Package logger builds the service's zerolog loggers.
package logger

import (
	"io"
	"os"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	zpkgerrors "github.com/rs/zerolog/pkgerrors"
)

type stackTracer interface{ StackTrace() pkgerrors.StackTrace }

var installOnce sync.Once

// installMarshalers makes .Stack() render pkg/errors stacks, attaching one
// to plain errors that lack it.
func installMarshalers() {
	installOnce.Do(func() {
		zerolog.ErrorStackMarshaler = func(err error) interface{} {
			if _, ok := err.(stackTracer); !ok {
				err = pkgerrors.WithStack(err)
			}
			return zpkgerrors.MarshalStack(err)
		}
	})
}

// New returns an info-level JSON logger on stdout tagged with serviceName.
func New(serviceName string) zerolog.Logger {
	return NewWithWriter(os.Stdout, serviceName, zerolog.InfoLevel)
}

// NewWithWriter returns a JSON logger writing to w at the given level.
func NewWithWriter(w io.Writer, serviceName string, level zerolog.Level) zerolog.Logger {
	installMarshalers()
	return zerolog.New(w).Level(level).With().
		Str("service", serviceName).
		Timestamp().
		Logger()
}
