package save

import "hexcrawl-substrate/internal/apperr"

// Error kinds from spec.md §7, fatal on load.
var (
	ErrHashMismatch             = apperr.New(apperr.KindHashMismatch, "save: hash mismatch")
	ErrSchemaVersionUnsupported = apperr.New(apperr.KindSchemaVersionUnsupported, "save: unsupported schema_version")
	ErrSchemaInvalid            = apperr.New(apperr.KindSchemaInvalid, "save: invalid payload structure")
)
