package logger

import (
	"bytes"
	"context"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	err := Init()
	if err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}
}

func TestLoggerWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithWriter(&buf); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	ctx := context.Background()
	Get().Info(ctx, "test message", String("k", "v"))

	out := buf.String()
	if !bytes.Contains([]byte(out), []byte("test message")) {
		t.Fatalf("expected message in output, got %q", out)
	}
	if !bytes.Contains([]byte(out), []byte("k=v")) {
		t.Fatalf("expected field in output, got %q", out)
	}
	if !bytes.Contains([]byte(out), []byte("source=")) {
		t.Fatalf("expected caller in output, got %q", out)
	}
}

func TestLoggerNilWriter(t *testing.T) {
	if err := InitWithWriter(nil); err == nil {
		t.Fatal("expected error for nil sink")
	}
}

func TestLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithWriter(&buf); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	ctx := context.Background()
	Get().Debug(ctx, "hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug should be filtered at info level, got %q", buf.String())
	}

	if err := SetLevelString("debug"); err != nil {
		t.Fatalf("set level: %v", err)
	}
	Get().Debug(ctx, "shown")
	if !bytes.Contains(buf.Bytes(), []byte("shown")) {
		t.Fatalf("expected debug line, got %q", buf.String())
	}

	if err := SetLevelString("verbose"); err == nil {
		t.Fatal("expected error for unknown level")
	}
	_ = SetLevelString("info")
}

func TestLoggerNamed(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithWriter(&buf); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	Named("dispatch").With(String("call_id", "abc")).Info(context.Background(), "test message")
	if !bytes.Contains(buf.Bytes(), []byte("logger=dispatch")) {
		t.Fatalf("expected logger name, got %q", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("call_id=abc")) {
		t.Fatalf("expected bound field, got %q", buf.String())
	}
}
