package codec

import "fmt"

// ValidateJSONSafe walks raw (as produced by encoding/json.Unmarshal into
// any, or hand-built Go values) and fails if it contains anything other than
// null, bool, a string, a finite number, an array of the same, or an object
// with string keys mapping to the same. This mirrors the original
// implementation's recursive _validate_json_value and backs both
// set_rules_state (spec.md §4.5) and structural command/event param checks
// (spec.md §4.9, §7).
func ValidateJSONSafe(raw any, fieldName string) error {
	_, err := FromAny(normalizeAny(raw))
	if err != nil {
		return fmt.Errorf("%s: %w", fieldName, err)
	}
	return nil
}
