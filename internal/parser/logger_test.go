package parser

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerLevelPrefixes(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)

	l.Infof("loaded %d terms", 3)
	l.Debugf("term %s", "Scope")
	l.Warnf("region space %x treated as Other", 0x80)

	got := buf.String()
	for _, want := range []string{
		"[info] loaded 3 terms\n",
		"[debug] term Scope\n",
		"[warn] region space 80 treated as Other\n",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("output %q missing line %q", got, want)
		}
	}
}

func TestLoggerNilIsSilent(t *testing.T) {
	var l *Logger
	l.Infof("should not panic")
}
