package cli

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestMultiLevelHandlerIndependentLevels(t *testing.T) {
	warnBuf := &bytes.Buffer{}
	debugBuf := &bytes.Buffer{}

	warnHandler := slog.NewTextHandler(warnBuf, &slog.HandlerOptions{Level: slog.LevelWarn})
	debugHandler := slog.NewTextHandler(debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug})

	logger := slog.New(NewMultiLevelHandler(warnHandler, debugHandler))

	logger.Debug("quiet detail")
	logger.Warn("loud problem")

	if strings.Contains(warnBuf.String(), "quiet detail") {
		t.Error("Warn-level handler received a debug record")
	}
	if !strings.Contains(warnBuf.String(), "loud problem") {
		t.Error("Warn-level handler missed a warn record")
	}
	if !strings.Contains(debugBuf.String(), "quiet detail") {
		t.Error("Debug-level handler missed a debug record")
	}
	if !strings.Contains(debugBuf.String(), "loud problem") {
		t.Error("Debug-level handler missed a warn record")
	}
}

func TestMultiLevelHandlerEnabled(t *testing.T) {
	warnHandler := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})
	debugHandler := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelDebug})

	combined := NewMultiLevelHandler(warnHandler, debugHandler)

	if !combined.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Handler should be enabled at debug when any member is")
	}

	warnOnly := NewMultiLevelHandler(warnHandler)
	if warnOnly.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Warn-only handler should not be enabled at debug")
	}
}

func TestMultiLevelHandlerWithAttrs(t *testing.T) {
	buf := &bytes.Buffer{}
	base := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo})

	logger := slog.New(NewMultiLevelHandler(base).WithAttrs([]slog.Attr{slog.String("component", "decoder")}))
	logger.Info("attached attrs")

	if !strings.Contains(buf.String(), "component=decoder") {
		t.Errorf("Attrs missing from record: %s", buf.String())
	}
}
