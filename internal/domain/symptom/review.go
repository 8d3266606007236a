package symptom

import (
	"fmt"
	"strings"
)

// ReviewPrompt renders a human-readable confirmation prompt for an entry
// before it is saved.
func ReviewPrompt(entry Entry) string {
	d := entry.Details

	location := ""
	activity := ""
	factors := ""
	if env := entry.Environmental; env != nil {
		location = env.Location
		activity = env.ActivityContext
		if len(env.EnvironmentalFactors) > 0 {
			factors = fmt.Sprintf("%v", env.EnvironmentalFactors)
		}
	}

	var b strings.Builder
	b.WriteString("Please review the following symptom entry for accuracy before saving:\n\n")
	fmt.Fprintf(&b, "Symptom: %s\n", d.Symptom)
	fmt.Fprintf(&b, "Severity: %d\n", d.Severity)
	fmt.Fprintf(&b, "Timestamp: %s\n", entry.Timestamp)
	fmt.Fprintf(&b, "Length (min): %s\n", formatOptionalInt(d.LengthMinutes))
	fmt.Fprintf(&b, "Location: %s\n", location)
	fmt.Fprintf(&b, "Cause: %s\n", d.Cause)
	fmt.Fprintf(&b, "Mediation Attempt: %s\n", d.MediationAttempt)
	fmt.Fprintf(&b, "On Medication: %s\n", formatOptionalBool(d.OnMedication))
	fmt.Fprintf(&b, "Raw Notes: %s\n", d.RawNotes)
	fmt.Fprintf(&b, "Event Complete: %s\n", formatOptionalBool(d.EventComplete))
	fmt.Fprintf(&b, "Onset Type: %s\n", d.OnsetType)
	fmt.Fprintf(&b, "Intensity Pattern: %s\n", d.IntensityPattern)
	fmt.Fprintf(&b, "Associated Symptoms: %s\n", strings.Join(d.AssociatedSymptoms, ", "))
	fmt.Fprintf(&b, "Relief Factors: %s\n", d.ReliefFactors)
	fmt.Fprintf(&b, "Environmental Factors: %s\n", factors)
	fmt.Fprintf(&b, "Activity Context: %s\n", activity)
	fmt.Fprintf(&b, "Tags: %s\n", strings.Join(entry.Tags, ", "))
	b.WriteString("\nIs this information correct?")

	return b.String()
}

func formatOptionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", *v)
}

func formatOptionalBool(v *bool) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%t", *v)
}
