package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Modes(t *testing.T) {
	for _, mode := range []string{"dev", "prod", " PROD ", ""} {
		log, err := New(mode)
		if err != nil {
			t.Fatalf("mode %q: %v", mode, err)
		}
		if log.SugaredLogger == nil {
			t.Fatalf("mode %q: nil sugared logger", mode)
		}
	}

	prod, _ := New("prod")
	if prod.SugaredLogger.Desugar().Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("prod logger must not emit debug")
	}
	dev, _ := New("dev")
	if !dev.SugaredLogger.Desugar().Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("dev logger must emit debug")
	}
}

func TestWith_CarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := &Logger{SugaredLogger: zap.New(core).Sugar()}

	log.With("week", "2024-06-02").Info("exported", "format", "xlsx")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["week"] != "2024-06-02" || fields["format"] != "xlsx" {
		t.Fatalf("unexpected fields %v", fields)
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatalf("expected a nop logger")
	}
	log := Nop()
	if OrNop(log) != log {
		t.Fatalf("expected the given logger back")
	}
	OrNop(nil).Error("discarded")
}
