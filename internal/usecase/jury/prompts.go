package jury

import (
	"encoding/json"
	"fmt"
	"strings"

	"symptomminder/internal/domain/symptom"
	"symptomminder/internal/errs"
	"symptomminder/internal/ports"
)

const comparisonPromptTemplate = `Compare the following raw user notes with the finalized structured symptom entry.
- Identify any information in the notes that is missing or misrepresented in the entry.
- Rate the faithfulness of the structured entry to the user's notes on a scale of 1-10.
- Provide a brief summary of any discrepancies.

Raw Notes:
%s

Structured Entry (JSON):
%s`

const aggregationPromptTemplate = `You are an expert reviewer. Several different models have acted as a 'jury' to compare raw user notes and a structured symptom entry. Below are their findings. Please compile a markdown table summarizing each model's findings side by side, including missing/misrepresented info, faithfulness rating, and summary of discrepancies.

---

%s

Table columns: Model, Missing/Misrepresented Info, Faithfulness Rating, Summary of Discrepancies.`

// BuildComparisonPrompt interpolates the raw notes and the JSON-serialized
// entry into the fixed comparison template sent to every panel member.
func BuildComparisonPrompt(rawNotes string, entry symptom.Entry) (string, error) {
	doc, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return "", errs.Wrap(err, "marshal entry for comparison prompt")
	}
	return fmt.Sprintf(comparisonPromptTemplate, rawNotes, string(doc)), nil
}

// buildAggregationPrompt embeds every panel member's labeled report, failed
// members included, so the aggregator knows a model failed.
func buildAggregationPrompt(outputs []ports.PanelOutput) string {
	sections := make([]string, 0, len(outputs))
	for _, out := range outputs {
		sections = append(sections, fmt.Sprintf("### %s\n\n%s", out.ModelLabel, out.Report))
	}
	return fmt.Sprintf(aggregationPromptTemplate, strings.Join(sections, "\n\n"))
}
