package blog

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerFanOut(t *testing.T) {
	var bufA, bufB bytes.Buffer
	l := New()
	l.Attach(WriterSink{W: &bufA})
	l.Attach(WriterSink{W: &bufB})

	l.Infof("fat", "mounted %d clusters", 42)

	for _, b := range []*bytes.Buffer{&bufA, &bufB} {
		line := b.String()
		if !strings.Contains(line, "[INFO ][fat]") {
			t.Fatalf("missing tag/badge in line: %q", line)
		}
		if !strings.Contains(line, "mounted 42 clusters") {
			t.Fatalf("missing message in line: %q", line)
		}
	}
}

func TestLoggerFatalInvokesHalt(t *testing.T) {
	var buf bytes.Buffer
	l := New()
	l.Attach(WriterSink{W: &buf})

	halted := false
	l.SetHaltFunc(func() { halted = true })

	l.Fatalf("stage3", "paging setup failed")

	if !halted {
		t.Fatal("Fatalf did not invoke halt")
	}
	if !strings.Contains(buf.String(), "[FATAL][stage3]") {
		t.Fatalf("missing fatal tag: %q", buf.String())
	}
}

func TestLoggerNoSinksDoesNotPanic(t *testing.T) {
	l := New()
	l.Warnf("vesa", "no matching mode")
}
