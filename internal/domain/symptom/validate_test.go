package symptom

import (
	"errors"
	"strings"
	"testing"
)

func validDraft() map[string]any {
	return map[string]any{
		FieldTimestamp: "2026-08-01T10:00:00Z",
		FieldDetails: map[string]any{
			FieldSymptom:  "headache",
			FieldSeverity: 5,
		},
	}
}

func TestParseEntryValid(t *testing.T) {
	draft := validDraft()
	details := draft[FieldDetails].(map[string]any)
	details[FieldLengthMinutes] = float64(45)
	details[FieldOnMedication] = true
	draft[FieldTags] = []any{"morning", "work"}

	entry, err := ParseEntry(draft)
	if err != nil {
		t.Fatalf("ParseEntry() error = %v", err)
	}
	if entry.Details.Symptom != "headache" || entry.Details.Severity != 5 {
		t.Fatalf("ParseEntry() details = %+v", entry.Details)
	}
	if entry.Details.LengthMinutes == nil || *entry.Details.LengthMinutes != 45 {
		t.Fatalf("ParseEntry() length_minutes = %v", entry.Details.LengthMinutes)
	}
	if entry.Details.OnMedication == nil || !*entry.Details.OnMedication {
		t.Fatalf("ParseEntry() on_medication = %v", entry.Details.OnMedication)
	}
	if len(entry.Tags) != 2 {
		t.Fatalf("ParseEntry() tags = %#v", entry.Tags)
	}
}

func TestParseEntrySeverityBounds(t *testing.T) {
	for _, severity := range []int{SeverityMin, SeverityMax} {
		draft := validDraft()
		draft[FieldDetails].(map[string]any)[FieldSeverity] = severity
		if _, err := ParseEntry(draft); err != nil {
			t.Fatalf("ParseEntry() severity=%d error = %v", severity, err)
		}
	}

	for _, severity := range []int{0, 11} {
		draft := validDraft()
		draft[FieldDetails].(map[string]any)[FieldSeverity] = severity
		_, err := ParseEntry(draft)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("ParseEntry() severity=%d error = %v, want ValidationError", severity, err)
		}
	}
}

func TestParseEntryCollectsAllViolations(t *testing.T) {
	draft := map[string]any{
		FieldDetails: map[string]any{
			FieldSymptom:  "   ",
			FieldSeverity: 99,
		},
	}

	_, err := ParseEntry(draft)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("ParseEntry() error = %v, want ValidationError", err)
	}
	if len(verr.Violations) != 3 {
		t.Fatalf("ParseEntry() violations = %#v, want missing timestamp, blank symptom, severity range", verr.Violations)
	}
}

func TestParseEntryMissingDetails(t *testing.T) {
	_, err := ParseEntry(map[string]any{FieldTimestamp: "2026-08-01T10:00:00Z"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("ParseEntry() error = %v, want ValidationError", err)
	}
	if !strings.Contains(verr.Error(), FieldDetails) {
		t.Fatalf("ParseEntry() error = %v", verr)
	}
}

func TestParseEntryRejectsBadTypes(t *testing.T) {
	draft := validDraft()
	details := draft[FieldDetails].(map[string]any)
	details[FieldOnMedication] = "yes"
	details[FieldLengthMinutes] = "long"
	details[FieldAssociatedSymptoms] = []any{"nausea", 4}

	_, err := ParseEntry(draft)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("ParseEntry() error = %v, want ValidationError", err)
	}
	if len(verr.Violations) != 3 {
		t.Fatalf("ParseEntry() violations = %#v", verr.Violations)
	}
}

func TestParseEntryNegativeDuration(t *testing.T) {
	draft := validDraft()
	draft[FieldDetails].(map[string]any)[FieldLengthMinutes] = -5

	_, err := ParseEntry(draft)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("ParseEntry() error = %v, want ValidationError", err)
	}
}

func TestParseEntryTimestampFormats(t *testing.T) {
	for _, ts := range []string{"2026-08-01T10:00:00Z", "2026-08-01T10:00:00+02:00", "2026-08-01T10:00:00", "2026-08-01"} {
		draft := validDraft()
		draft[FieldTimestamp] = ts
		if _, err := ParseEntry(draft); err != nil {
			t.Fatalf("ParseEntry() timestamp=%q error = %v", ts, err)
		}
	}

	draft := validDraft()
	draft[FieldTimestamp] = "yesterday"
	if _, err := ParseEntry(draft); err == nil {
		t.Fatalf("ParseEntry() expected error for non-ISO timestamp")
	}
}

func TestAppendFollowUp(t *testing.T) {
	got := AppendFollowUp("bad headache", "better now")
	if got != "bad headache\n\nFollow-up: better now" {
		t.Fatalf("AppendFollowUp() = %q", got)
	}
	if !strings.HasPrefix(got, "bad headache") {
		t.Fatalf("AppendFollowUp() lost original text: %q", got)
	}

	if got := AppendFollowUp("", "resolved"); got != "Follow-up: resolved" {
		t.Fatalf("AppendFollowUp() empty = %q", got)
	}
}
