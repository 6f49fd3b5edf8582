package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("sink down") }

func TestMultiHandler_RespectsEachLevel(t *testing.T) {
	var debugBuf, warnBuf bytes.Buffer
	h := NewMultiHandler(
		slog.NewTextHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&warnBuf, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)
	log := slog.New(h).With("conn.id", "abc").WithGroup("peer")

	log.Debug("debug line", "port", 5555)
	log.Warn("warn line")

	if !strings.Contains(debugBuf.String(), "debug line") || !strings.Contains(debugBuf.String(), "warn line") {
		t.Errorf("Expected debug handler to receive both lines, got %q", debugBuf.String())
	}
	if strings.Contains(warnBuf.String(), "debug line") {
		t.Errorf("Expected warn handler to skip debug records, got %q", warnBuf.String())
	}
	if !strings.Contains(warnBuf.String(), "conn.id=abc") || !strings.Contains(debugBuf.String(), "peer.port=5555") {
		t.Errorf("Expected attrs and groups to reach every handler, got %q / %q", debugBuf.String(), warnBuf.String())
	}
}

func TestMultiHandler_Enabled(t *testing.T) {
	h := NewMultiHandler(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("Expected info to be disabled")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("Expected error to be enabled")
	}
}

func TestMultiHandler_JoinsErrors(t *testing.T) {
	var buf bytes.Buffer
	text := slog.NewTextHandler(&buf, nil)
	h := NewMultiHandler(failingHandler{text}, text)

	err := h.Handle(context.Background(), slog.NewRecord(time.Time{}, slog.LevelInfo, "hello", 0))
	if err == nil || !strings.Contains(err.Error(), "sink down") {
		t.Errorf("Expected joined error, got %v", err)
	}
	if !strings.Contains(buf.String(), "hello") {
		t.Error("Expected the healthy handler to still receive the record")
	}
}

func TestInit_SetsDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	Init(&buf, slog.LevelWarn)
	slog.Info("hidden")
	slog.Warn("shown")

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("Unexpected output %q", buf.String())
	}
}
