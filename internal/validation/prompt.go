package validation

import (
	"fmt"
	"strings"

	"cadenza/internal/dictionary"
)

const rubric = `You are reviewing an entry for a music dictionary.
Score it from 0 to 100 against these criteria:
- the concise definition is one accurate sentence a student understands
- the detailed definition adds history, usage and context without padding
- the etymology and pronunciation, when present, are correct
- the definition matches the declared term type and language
- the references point at pages about this exact term

Respond with JSON only:
{"score": <0-100>, "definition_clarity": <0-100>, "accuracy_verification": <0-100>,
 "issues": ["..."], "suggestions": ["..."]}`

func buildPrompt(entry dictionary.Entry) string {
	var b strings.Builder
	b.WriteString(rubric)
	b.WriteString("\n\nEntry:\n")
	fmt.Fprintf(&b, "Term: %s\n", entry.Term)
	fmt.Fprintf(&b, "Type: %s\n", entry.Type)
	if entry.Language != "" {
		fmt.Fprintf(&b, "Language: %s\n", entry.Language)
	}
	fmt.Fprintf(&b, "Concise: %s\n", entry.Definition.Concise)
	fmt.Fprintf(&b, "Detailed: %s\n", entry.Definition.Detailed)
	if entry.Definition.Etymology != "" {
		fmt.Fprintf(&b, "Etymology: %s\n", entry.Definition.Etymology)
	}
	if ipa := entry.Definition.IPA(); ipa != "" {
		fmt.Fprintf(&b, "Pronunciation: %s\n", ipa)
	}
	if entry.Definition.UsageExample != "" {
		fmt.Fprintf(&b, "Usage: %s\n", entry.Definition.UsageExample)
	}
	b.WriteString("\nReferences:\n")
	if entry.References.HasWikipedia() {
		fmt.Fprintf(&b, "Wikipedia: %s\n", entry.References.Wikipedia.URL)
		if entry.References.Wikipedia.Extract != "" {
			fmt.Fprintf(&b, "Extract: %s\n", entry.References.Wikipedia.Extract)
		}
	} else {
		b.WriteString("Wikipedia: missing\n")
	}
	fmt.Fprintf(&b, "Videos: %d\n", len(entry.References.Videos()))
	fmt.Fprintf(&b, "Reference completeness: %d/100\n", ReferenceCompleteness(entry.References))
	return b.String()
}
