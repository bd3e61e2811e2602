package auth

import (
	"github.com/rs/zerolog"
)

type zerologLogger struct {
	logger zerolog.Logger
}

var _ Logger = zerologLogger{}

// NewZerologLogger adapts a zerolog logger to Logger. Args are read as
// key/value pairs; errors are attached with Err.
func NewZerologLogger(logger zerolog.Logger) Logger {
	return zerologLogger{logger: logger}
}

func (l zerologLogger) Debug(msg string, args ...any) {
	withFields(l.logger.Debug(), args).Msg(msg)
}

func (l zerologLogger) Info(msg string, args ...any) {
	withFields(l.logger.Info(), args).Msg(msg)
}

func (l zerologLogger) Warn(msg string, args ...any) {
	withFields(l.logger.Warn(), args).Msg(msg)
}

func (l zerologLogger) Error(msg string, args ...any) {
	withFields(l.logger.Error(), args).Msg(msg)
}

func withFields(evt *zerolog.Event, args []any) *zerolog.Event {
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = "arg"
		}

		if i+1 >= len(args) {
			evt = evt.Interface(key, nil)
			break
		}

		if err, ok := args[i+1].(error); ok && key == "error" {
			evt = evt.Err(err)
			continue
		}

		evt = evt.Interface(key, args[i+1])
	}
	return evt
}
