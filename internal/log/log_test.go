package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelInfo)
	l.Debugf("[TEST] invisible")
	l.Infof("[TEST] visible info")
	l.Errorf("[TEST] visible error")

	out := buf.String()
	if strings.Contains(out, "invisible") {
		t.Fatalf("debug line logged at info level: %q", out)
	}
	if !strings.Contains(out, "visible info") || !strings.Contains(out, "visible error") {
		t.Fatalf("info/error lines missing: %q", out)
	}
}

func TestLevelNoneSilences(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelNone)
	l.Debugf("a")
	l.Infof("b")
	l.Warnf("c")
	l.Errorf("d")
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelError)
	l.Infof("[TEST] before")
	l.SetLevel(LevelDebug)
	l.Debugf("[TEST] after")

	out := buf.String()
	if strings.Contains(out, "before") {
		t.Fatalf("info logged at error level: %q", out)
	}
	if !strings.Contains(out, "after") {
		t.Fatalf("debug missing after SetLevel: %q", out)
	}
	if l.Level() != LevelDebug {
		t.Fatalf("Level()=%s want DEBUG", l.Level())
	}
}

func TestLevelFromString(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"Error":   LevelError,
		"none":    LevelNone,
		"bogus":   LevelDebug,
		"WARNING": LevelDebug,
	}
	for in, want := range cases {
		if got := LevelFromString(in); got != want {
			t.Fatalf("LevelFromString(%q)=%s want %s", in, got, want)
		}
	}
}
