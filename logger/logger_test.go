package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestModuleTagAppearsInOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New("cpu/mips", &buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	log.Info("tlb refill", "vaddr", "0x1000")

	out := buf.String()
	if !strings.Contains(out, "cpu/mips:") {
		t.Errorf("output missing module tag: %q", out)
	}
	if !strings.Contains(out, "tlb refill") {
		t.Errorf("output missing message: %q", out)
	}
}

func TestDebugReachesPrimarySink(t *testing.T) {
	var buf bytes.Buffer
	log := New("cpu/ppc", &buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	log.Debug("quiet detail")
	if !strings.Contains(buf.String(), "quiet detail") {
		t.Errorf("primary sink should still receive debug records: %q", buf.String())
	}
}
