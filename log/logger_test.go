package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	type spec struct {
		name     string
		expLevel Level
		expErr   bool
	}
	specs := []spec{
		{"debug", Debug, false},
		{"INFO", Info, false},
		{" notice ", Notice, false},
		{"Warning", Warning, false},
		{"error", Error, false},
		{"chatty", Notice, true},
	}

	for index, s := range specs {
		level, err := ParseLevel(s.name)
		if s.expErr {
			if err == nil {
				t.Fatalf("[spec %d] expected an error parsing %q", index, s.name)
			}
			continue
		}
		if err != nil {
			t.Fatalf("[spec %d] unexpected error: %v", index, err)
		}
		if level != s.expLevel {
			t.Fatalf("[spec %d] expected level %d; got %d", index, s.expLevel, level)
		}
	}
}

func TestSinkAndLevel(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(&bytes.Buffer{})

	logger := New("test")

	SetLevel(Warning)
	logger.Info("hidden message")
	if strings.Contains(buf.String(), "hidden message") {
		t.Fatalf("expected info message to be filtered at warning level; got %q", buf.String())
	}

	SetLevel(Debug)
	logger.Debugf("visible %d", 42)
	if !strings.Contains(buf.String(), "visible 42") {
		t.Fatalf("expected debug message to be written at debug level; got %q", buf.String())
	}

	SetLevel(Notice)
}
