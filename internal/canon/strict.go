package canon

import "fmt"

// CheckKnownFields reports ErrUnknownField if v (a decoded object, per
// Decode) carries any key outside allowed. Signed payloads and policy
// documents are rejected outright if they carry a key the schema does
// not name (§4.2, §9).
func CheckKnownFields(v any, allowed map[string]bool) error {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	for k := range obj {
		if !allowed[k] {
			return fmt.Errorf("%w: %q", ErrUnknownField, k)
		}
	}
	return nil
}
