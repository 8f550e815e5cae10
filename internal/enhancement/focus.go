package enhancement

import "strings"

// Focus areas understood by Enhance.
const (
	FocusConcise       = "concise"
	FocusDetailed      = "detailed"
	FocusEtymology     = "etymology"
	FocusPronunciation = "pronunciation"
	FocusUsageExample  = "usage_example"
	FocusDefinition    = "definition"
	FocusReferences    = "references"
)

var focusAliases = map[string]string{
	"concise":       FocusConcise,
	"summary":       FocusConcise,
	"detailed":      FocusDetailed,
	"detail":        FocusDetailed,
	"etymology":     FocusEtymology,
	"pronunciation": FocusPronunciation,
	"ipa":           FocusPronunciation,
	"usage_example": FocusUsageExample,
	"usage":         FocusUsageExample,
	"example":       FocusUsageExample,
	"definition":    FocusDefinition,
	"references":    FocusReferences,
	"reference":     FocusReferences,
	"wikipedia":     FocusReferences,
}

// focusSet is the normalized set of requested focus areas.
type focusSet map[string]bool

// parseFocus normalizes focus areas; unknown names are returned separately.
func parseFocus(areas []string) (focusSet, []string) {
	set := make(focusSet)
	var unknown []string
	for _, area := range areas {
		key := strings.ToLower(strings.TrimSpace(area))
		key = strings.ReplaceAll(key, "-", "_")
		if key == "" {
			continue
		}
		canonical, ok := focusAliases[key]
		if !ok {
			unknown = append(unknown, area)
			continue
		}
		set[canonical] = true
	}
	return set, unknown
}

func (f focusSet) empty() bool { return len(f) == 0 }

// targets reports whether field (a definition field) is explicitly targeted.
func (f focusSet) targets(field string) bool {
	return f[field] || f[FocusDefinition]
}

func (f focusSet) names() []string {
	order := []string{FocusConcise, FocusDetailed, FocusEtymology, FocusPronunciation, FocusUsageExample, FocusDefinition, FocusReferences}
	var out []string
	for _, name := range order {
		if f[name] {
			out = append(out, name)
		}
	}
	return out
}
