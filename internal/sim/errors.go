package sim

import "hexcrawl-substrate/internal/apperr"

// Sentinel error kinds from spec.md §7. Callers use errors.Is against these
// to distinguish fatal registration/runaway conditions from the non-fatal
// structural rejections recorded as forensic outcomes instead.
var (
	ErrInvalidArgument             = apperr.New(apperr.KindInvalidArgument, "sim: invalid argument")
	ErrDuplicateModule             = apperr.New(apperr.KindDuplicateModule, "sim: duplicate module")
	ErrConflictingTaskRegistration = apperr.New(apperr.KindConflictingTaskRegistration, "sim: conflicting task registration")
	ErrRunawayEventFanout          = apperr.New(apperr.KindRunawayEventFanout, "sim: runaway event fanout")
	ErrInvalidCommand              = apperr.New(apperr.KindInvalidCommand, "sim: invalid command")
	ErrInvalidEvent                = apperr.New(apperr.KindInvalidEvent, "sim: invalid event")
	ErrNotApplicable               = apperr.New(apperr.KindNotApplicable, "sim: not applicable")
)
