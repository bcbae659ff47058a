// Package stdlogger adapts the global zerolog logger to the printf style
// logger interfaces of third party clients (resty, gorm).
package stdlogger

import (
	"github.com/rs/zerolog/log"
)

// Logger forwards printf style calls to zerolog.
type Logger struct {
	component string
}

// New returns a Logger. An optional component name is attached to every entry.
func New(component ...string) *Logger {
	l := &Logger{}
	if len(component) > 0 {
		l.component = component[0]
	}

	return l
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, v ...any) {
	log.Debug().Str("component", l.component).Msgf(format, v...)
}

// Infof logs at info level.
func (l *Logger) Infof(format string, v ...any) {
	log.Info().Str("component", l.component).Msgf(format, v...)
}

// Warningf logs at warn level.
func (l *Logger) Warningf(format string, v ...any) {
	log.Warn().Str("component", l.component).Msgf(format, v...)
}

// Warnf logs at warn level.
func (l *Logger) Warnf(format string, v ...any) {
	l.Warningf(format, v...)
}

// Errorf logs at error level.
func (l *Logger) Errorf(format string, v ...any) {
	log.Error().Str("component", l.component).Msgf(format, v...)
}

// Printf logs at info level, used by gorm.
func (l *Logger) Printf(format string, v ...any) {
	l.Infof(format, v...)
}
