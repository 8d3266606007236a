package symptom

import "strings"

// Tokens callers use to mean "no value". Matched case-insensitively after
// trimming.
var nullTokens = map[string]struct{}{
	"none": {},
	"null": {},
	"n/a":  {},
	"na":   {},
	"nil":  {},
	"":     {},
}

// rawNotesFallbacks are alternate free-text fields checked, in order, when a
// draft arrives without raw notes.
var rawNotesFallbacks = []string{"description", "notes", "summary", "context"}

// IsNullToken reports whether value is a string spelling of "no value".
func IsNullToken(value any) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	_, found := nullTokens[strings.ToLower(strings.TrimSpace(s))]
	return found
}

// NormalizeDraft canonicalizes a raw entry draft before validation:
// null-token strings become nil (or an empty list for the associated
// symptoms field), the associated symptoms field is coerced to a list, and
// raw notes fall back to the first populated alternate free-text field.
// The input is not mutated. Normalizing twice gives the same result as once.
func NormalizeDraft(draft map[string]any) map[string]any {
	out := cloneMap(draft)

	details, ok := out[FieldDetails].(map[string]any)
	if !ok || details == nil {
		return out
	}
	details = cloneMap(details)
	out[FieldDetails] = details

	for key, value := range details {
		if !IsNullToken(value) {
			continue
		}
		if key == FieldAssociatedSymptoms {
			details[key] = []any{}
		} else {
			details[key] = nil
		}
	}

	switch v := details[FieldAssociatedSymptoms].(type) {
	case nil:
		details[FieldAssociatedSymptoms] = []any{}
	case string:
		details[FieldAssociatedSymptoms] = []any{v}
	case []any:
		// already a list
	case []string:
		coerced := make([]any, 0, len(v))
		for _, s := range v {
			coerced = append(coerced, s)
		}
		details[FieldAssociatedSymptoms] = coerced
	default:
		details[FieldAssociatedSymptoms] = []any{}
	}

	ensureRawNotes(details)
	return out
}

// ensureRawNotes fills raw_notes from the first non-blank alternate field.
func ensureRawNotes(details map[string]any) {
	if notes, ok := details[FieldRawNotes].(string); ok && strings.TrimSpace(notes) != "" {
		return
	}

	for _, field := range rawNotesFallbacks {
		value, ok := details[field].(string)
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		details[FieldRawNotes] = strings.TrimSpace(value)
		return
	}
}

func cloneMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		if nested, ok := v.(map[string]any); ok {
			out[k] = cloneMap(nested)
			continue
		}
		out[k] = v
	}
	return out
}
