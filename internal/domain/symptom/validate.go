package symptom

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ValidationError reports every violated constraint at once. Validation is
// all-or-nothing: a draft with any violation produces no Entry.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid symptom entry: %s", strings.Join(e.Violations, "; "))
}

// ParseEntry validates a normalized draft and builds the typed Entry.
// Callers must run NormalizeDraft first.
func ParseEntry(draft map[string]any) (Entry, error) {
	v := &violations{}

	var entry Entry
	entry.Timestamp = parseTimestamp(draft[FieldTimestamp], v)
	entry.UserID, _ = optionalString(draft, FieldUserID, v)

	details, ok := draft[FieldDetails].(map[string]any)
	if !ok || details == nil {
		v.addf("%s is required", FieldDetails)
		return Entry{}, v.err()
	}
	entry.Details = parseDetails(details, v)

	if env, ok := draft[FieldEnvironmental].(map[string]any); ok && env != nil {
		entry.Environmental = parseEnvironmental(env, v)
	}
	entry.Tags = parseStringList(draft[FieldTags], FieldTags, v)

	if err := v.err(); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

func parseDetails(details map[string]any, v *violations) Details {
	var d Details

	symptom, ok := optionalString(details, FieldSymptom, v)
	if !ok || strings.TrimSpace(symptom) == "" {
		v.addf("%s.%s is required", FieldDetails, FieldSymptom)
	}
	d.Symptom = symptom

	severity, ok := intValue(details[FieldSeverity])
	if !ok {
		v.addf("%s.%s must be an integer", FieldDetails, FieldSeverity)
	} else if severity < SeverityMin || severity > SeverityMax {
		v.addf("%s.%s must be between %d and %d", FieldDetails, FieldSeverity, SeverityMin, SeverityMax)
	}
	d.Severity = severity

	if raw, present := details[FieldLengthMinutes]; present && raw != nil {
		minutes, ok := intValue(raw)
		if !ok {
			v.addf("%s.%s must be an integer", FieldDetails, FieldLengthMinutes)
		} else if minutes < 0 {
			v.addf("%s.%s must not be negative", FieldDetails, FieldLengthMinutes)
		} else {
			d.LengthMinutes = &minutes
		}
	}

	d.Cause, _ = optionalString(details, FieldCause, v)
	d.MediationAttempt, _ = optionalString(details, FieldMediationAttempt, v)
	d.OnMedication = optionalBool(details, FieldOnMedication, v)
	d.RawNotes, _ = optionalString(details, FieldRawNotes, v)
	d.EventComplete = optionalBool(details, FieldEventComplete, v)
	d.OnsetType, _ = optionalString(details, FieldOnsetType, v)
	d.IntensityPattern, _ = optionalString(details, FieldIntensityPattern, v)
	d.ReliefFactors, _ = optionalString(details, FieldReliefFactors, v)

	d.AssociatedSymptoms = parseStringList(details[FieldAssociatedSymptoms], FieldAssociatedSymptoms, v)
	if d.AssociatedSymptoms == nil {
		d.AssociatedSymptoms = []string{}
	}

	return d
}

func parseEnvironmental(env map[string]any, v *violations) *Environmental {
	var e Environmental
	e.Location, _ = optionalString(env, FieldLocation, v)
	e.ActivityContext, _ = optionalString(env, FieldActivityContext, v)

	if raw, present := env[FieldEnvironmentalFactors]; present && raw != nil {
		factors, ok := raw.(map[string]any)
		if !ok {
			v.addf("%s.%s must be a mapping", FieldEnvironmental, FieldEnvironmentalFactors)
		} else {
			e.EnvironmentalFactors = factors
		}
	}
	return &e
}

func parseTimestamp(raw any, v *violations) string {
	if raw == nil {
		v.addf("%s is required", FieldTimestamp)
		return ""
	}
	s, ok := raw.(string)
	if !ok || strings.TrimSpace(s) == "" {
		v.addf("%s is required", FieldTimestamp)
		return ""
	}

	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if _, err := time.Parse(layout, s); err == nil {
			return s
		}
	}
	v.addf("%s must be an ISO 8601 timestamp", FieldTimestamp)
	return ""
}

func parseStringList(raw any, field string, v *violations) []string {
	switch list := raw.(type) {
	case nil:
		return nil
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				v.addf("%s must contain only strings", field)
				return nil
			}
			out = append(out, s)
		}
		return out
	default:
		v.addf("%s must be a list of strings", field)
		return nil
	}
}

func optionalString(m map[string]any, key string, v *violations) (string, bool) {
	raw, present := m[key]
	if !present || raw == nil {
		return "", false
	}
	s, ok := raw.(string)
	if !ok {
		v.addf("%s must be a string", key)
		return "", false
	}
	return s, true
}

func optionalBool(m map[string]any, key string, v *violations) *bool {
	raw, present := m[key]
	if !present || raw == nil {
		return nil
	}
	b, ok := raw.(bool)
	if !ok {
		v.addf("%s must be a boolean", key)
		return nil
	}
	return &b
}

func intValue(raw any) (int, bool) {
	switch n := raw.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}

type violations struct {
	items []string
}

func (v *violations) addf(format string, args ...any) {
	v.items = append(v.items, fmt.Sprintf(format, args...))
}

func (v *violations) err() error {
	if len(v.items) == 0 {
		return nil
	}
	return &ValidationError{Violations: v.items}
}
