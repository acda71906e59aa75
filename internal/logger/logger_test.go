package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewWithWriterRespectsLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf, "warn")

	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Fatalf("expected info to be filtered, got: %s", output)
	}
	if !strings.Contains(output, "shown") {
		t.Fatalf("expected warn output, got: %s", output)
	}
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	if ParseLevel("verbose") != zerolog.InfoLevel {
		t.Fatalf("expected info fallback")
	}
	if ParseLevel(" DEBUG ") != zerolog.DebugLevel {
		t.Fatalf("expected debug level")
	}
}

func TestFromContextReturnsStoredLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithContext(context.Background(), NewWithWriter(buf, "info"))

	log := FromContext(ctx)
	log.Info().Str("request_id", "abc").Msg("test")

	if !strings.Contains(buf.String(), `"request_id":"abc"`) {
		t.Fatalf("expected output from stored logger, got: %s", buf.String())
	}
}

func TestFromContextDefault(t *testing.T) {
	log := FromContext(context.Background())
	if log.GetLevel() == zerolog.Disabled {
		t.Fatalf("expected default logger to be enabled")
	}
}
