// Package logger provides a convenience function to constructing a logger
// for use. This is required not just for applications but for testing.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New constructs a Sugared Logger that writes to stdout and
// provides human readable timestamps.
func New(service string, outputPaths ...string) (*zap.SugaredLogger, error) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "ts"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.DisableStacktrace = true
	config.InitialFields = map[string]any{
		"service": service,
	}

	config.OutputPaths = []string{"stdout"}
	if len(outputPaths) > 0 {
		config.OutputPaths = outputPaths
	}

	log, err := config.Build()
	if err != nil {
		return nil, err
	}

	return log.Sugar(), nil
}

// NewEventHandler adapts the logger into the event handler signature used
// by the blockchain packages. Every formatted event is also handed to the
// optional sinks.
func NewEventHandler(log *zap.SugaredLogger, sinks ...func(string)) func(v string, args ...any) {
	return func(v string, args ...any) {
		s := v
		if len(args) > 0 {
			s = fmt.Sprintf(v, args...)
		}

		log.Infow(s, "traceid", "00000000-0000-0000-0000-000000000000")

		for _, sink := range sinks {
			sink(s)
		}
	}
}
