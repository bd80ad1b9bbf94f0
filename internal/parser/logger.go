package parser

import (
	"fmt"
	"io"
	"strings"
)

// Logger is the ambient diagnostics sink the loader and parser write to:
// info at block-load start/end, debug per top-level term, warn on
// OEM-defined region spaces. A nil *Logger is valid and discards
// everything, so callers that don't care about diagnostics can pass nil
// instead of threading a no-op implementation through.
type Logger struct {
	w io.Writer
}

// NewLogger wraps w.
func NewLogger(w io.Writer) *Logger {
	return &Logger{w: w}
}

func (l *Logger) sink() io.Writer {
	if l == nil || l.w == nil {
		return io.Discard
	}
	return l.w
}

// writeTagged formats the line and writes it to w with level prepended to
// every line the format string produces, so a message that spans more than
// one line keeps its level tag on each of them.
func writeTagged(w io.Writer, level, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	for _, line := range strings.Split(msg, "\n") {
		fmt.Fprintf(w, "[%s] %s\n", level, line)
	}
}

func (l *Logger) Infof(format string, args ...interface{}) {
	writeTagged(l.sink(), "info", format, args...)
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	writeTagged(l.sink(), "debug", format, args...)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	writeTagged(l.sink(), "warn", format, args...)
}
