package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsMatchesByKindAcrossDistinctInstances(t *testing.T) {
	sentinel := New(KindInvalidCommand, "sim: invalid command")
	wrapped := fmt.Errorf("context: %w", sentinel)

	reconstructed := New(KindInvalidCommand, "a completely different message")
	if !errors.Is(wrapped, reconstructed) {
		t.Fatalf("expected errors.Is to match by Kind regardless of message or instance")
	}
}

func TestIsRejectsDifferentKind(t *testing.T) {
	a := New(KindInvalidCommand, "x")
	b := New(KindInvalidEvent, "x")
	if errors.Is(a, b) {
		t.Fatalf("expected distinct Kinds to not match")
	}
}

func TestIsRejectsNonSubstrateError(t *testing.T) {
	a := New(KindHashMismatch, "x")
	if errors.Is(a, errors.New("plain error")) {
		t.Fatalf("expected a plain error to never match a SubstrateError")
	}
}

func TestErrorIncludesKindAndMessage(t *testing.T) {
	err := New(KindSchemaInvalid, "bad shape")
	got := err.Error()
	if got != "schema_invalid: bad shape" {
		t.Fatalf("unexpected Error() string: %q", got)
	}
}

func TestErrorOmitsColonWhenMessageEmpty(t *testing.T) {
	err := New(KindNotApplicable, "")
	if err.Error() != "not_applicable" {
		t.Fatalf("unexpected Error() string for empty message: %q", err.Error())
	}
}
