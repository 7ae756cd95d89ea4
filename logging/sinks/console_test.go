package sinks

import (
	"bytes"
	"strings"
	"testing"

	"hexcrawl-substrate/logging"
)

func TestConsoleSinkColorsWarnAndErrorWhenEnabled(t *testing.T) {
	var buf bytes.Buffer
	sink := NewConsoleSink(&buf, logging.ConsoleConfig{UseColor: true})

	if err := sink.Write(logging.Event{Type: "command_rejected", Severity: logging.SeverityError}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), "\x1b[31merror\x1b[0m") {
		t.Fatalf("expected a red-coded error label, got %q", buf.String())
	}
}

func TestConsoleSinkOmitsColorCodesWhenDisabled(t *testing.T) {
	var buf bytes.Buffer
	sink := NewConsoleSink(&buf, logging.ConsoleConfig{UseColor: false})

	if err := sink.Write(logging.Event{Type: "command_rejected", Severity: logging.SeverityError}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected no ANSI codes, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "severity=error") {
		t.Fatalf("expected plain severity label, got %q", buf.String())
	}
}
