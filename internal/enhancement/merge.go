package enhancement

import (
	"strings"

	"cadenza/internal/dictionary"
)

// mergeDefinition applies the merge rules and reports whether anything changed.
func mergeDefinition(current, improved dictionary.Definition, focus focusSet, humanVerified bool) (dictionary.Definition, bool) {
	restricted := humanVerified || !focus.empty()
	take := func(field, old, next string) string {
		next = strings.TrimSpace(next)
		if next == "" || next == old {
			return old
		}
		if strings.TrimSpace(old) == "" || !restricted || focus.targets(field) {
			return next
		}
		return old
	}

	merged := current
	merged.Concise = take(FocusConcise, current.Concise, improved.Concise)
	merged.Detailed = take(FocusDetailed, current.Detailed, improved.Detailed)
	merged.Etymology = take(FocusEtymology, current.Etymology, improved.Etymology)
	merged.UsageExample = take(FocusUsageExample, current.UsageExample, improved.UsageExample)
	if ipa := take(FocusPronunciation, current.IPA(), improved.IPA()); ipa != current.IPA() {
		merged.Pronunciation = &dictionary.Pronunciation{IPA: ipa}
	} else if current.Pronunciation != nil {
		p := *current.Pronunciation
		merged.Pronunciation = &p
	}

	changed := merged.Concise != current.Concise ||
		merged.Detailed != current.Detailed ||
		merged.Etymology != current.Etymology ||
		merged.UsageExample != current.UsageExample ||
		merged.IPA() != current.IPA()
	return merged, changed
}

// appendUnique adds values not already present, comparing case-insensitively.
func appendUnique(existing []string, values ...string) []string {
	seen := make(map[string]bool, len(existing))
	for _, value := range existing {
		seen[strings.ToLower(value)] = true
	}
	out := existing
	for _, value := range values {
		key := strings.ToLower(value)
		if value == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, value)
	}
	return out
}
