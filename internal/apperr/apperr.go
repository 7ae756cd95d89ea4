// Package apperr defines the substrate's typed error kinds (spec.md §7):
// every fallible operation returns a plain error, and the fatal/structural
// kinds below are the ones callers distinguish with errors.Is rather than
// string matching.
package apperr

import "fmt"

// Kind tags a SubstrateError with the spec.md §7 condition it represents.
type Kind int

const (
	KindHashMismatch Kind = iota
	KindSchemaVersionUnsupported
	KindSchemaInvalid
	KindDuplicateModule
	KindConflictingTaskRegistration
	KindRunawayEventFanout
	KindInvalidCommand
	KindInvalidEvent
	KindInvalidArgument
	KindNotApplicable
)

func (k Kind) String() string {
	switch k {
	case KindHashMismatch:
		return "hash_mismatch"
	case KindSchemaVersionUnsupported:
		return "schema_version_unsupported"
	case KindSchemaInvalid:
		return "schema_invalid"
	case KindDuplicateModule:
		return "duplicate_module"
	case KindConflictingTaskRegistration:
		return "conflicting_task_registration"
	case KindRunawayEventFanout:
		return "runaway_event_fanout"
	case KindInvalidCommand:
		return "invalid_command"
	case KindInvalidEvent:
		return "invalid_event"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindNotApplicable:
		return "not_applicable"
	default:
		return "unknown"
	}
}

// SubstrateError is a typed, kind-tagged error. Sentinel values of this type
// are what callers compare against with errors.Is; Is matches on Kind alone,
// so a freshly constructed SubstrateError of the same Kind (e.g. one
// reconstructed across a process boundary) still compares equal to the
// package-level sentinel.
type SubstrateError struct {
	Kind Kind
	Msg  string
}

// New constructs a SubstrateError of the given kind.
func New(kind Kind, msg string) *SubstrateError {
	return &SubstrateError{Kind: kind, Msg: msg}
}

func (e *SubstrateError) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Is reports whether target is a SubstrateError of the same Kind,
// independent of pointer identity or message text.
func (e *SubstrateError) Is(target error) bool {
	other, ok := target.(*SubstrateError)
	if !ok {
		return false
	}
	return other.Kind == e.Kind
}
