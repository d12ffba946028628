package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestCollector_LogsMetrics(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c := New(zap.New(core))

	c.IncCounter("repertoire_syncs_total", 2)
	c.SetGauge("repertoire_stored_games", 40)
	c.ObserveHistogram("repertoire_fetch_duration_seconds", 1.5)

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("logged %d entries, want 3", len(entries))
	}
	for i, want := range []string{"counter", "gauge", "histogram"} {
		if entries[i].Message != want {
			t.Errorf("entry %d message = %q, want %q", i, entries[i].Message, want)
		}
		if entries[i].LoggerName != "stats" {
			t.Errorf("entry %d logger = %q, want stats", i, entries[i].LoggerName)
		}
	}
	if got := entries[0].ContextMap()["delta"]; got != int64(2) {
		t.Errorf("delta = %v, want 2", got)
	}
}

func TestCollector_WithLevel(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	c := New(zap.New(core))

	c.IncCounter("dropped", 1)
	if logs.Len() != 0 {
		t.Fatalf("debug entry was logged at info level")
	}

	c.WithLevel(zapcore.InfoLevel).IncCounter("kept", 1)
	if logs.Len() != 1 {
		t.Errorf("logged %d entries, want 1", logs.Len())
	}
}

func TestNew_NilLogger(t *testing.T) {
	c := New(nil)
	c.IncCounter("x", 1)
}
