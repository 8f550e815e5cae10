package generation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cadenza/internal/dictionary"
	"cadenza/internal/language"
	"cadenza/internal/services"
	"cadenza/internal/services/llm"
	"cadenza/internal/validation"
)

// Draft is the parsed output of one drafting call.
type Draft struct {
	Definition   dictionary.Definition
	RelatedTerms []string
	Categories   []string
}

type draftResponse struct {
	Concise       string          `json:"concise"`
	Detailed      string          `json:"detailed"`
	Etymology     string          `json:"etymology"`
	Pronunciation json.RawMessage `json:"pronunciation"`
	UsageExample  string          `json:"usage_example"`
	RelatedTerms  []string        `json:"related_terms"`
	Categories    []string        `json:"categories"`
}

// ParseDraft decodes a drafting response. Errors carry services.ErrParse.
func ParseDraft(response string) (Draft, error) {
	var parsed draftResponse
	if err := llm.DecodeLLMJSON(response, &parsed); err != nil {
		return Draft{}, err
	}
	def := dictionary.Definition{
		Concise:      strings.TrimSpace(parsed.Concise),
		Detailed:     strings.TrimSpace(parsed.Detailed),
		Etymology:    strings.TrimSpace(parsed.Etymology),
		UsageExample: strings.TrimSpace(parsed.UsageExample),
	}
	if ipa := parsePronunciation(parsed.Pronunciation); ipa != "" {
		def.Pronunciation = &dictionary.Pronunciation{IPA: ipa}
	}
	if def.IsEmpty() {
		return Draft{}, services.Wrap(services.ErrParse, "generation", "draft", "definition is empty", nil)
	}
	return Draft{
		Definition:   def,
		RelatedTerms: trimAll(parsed.RelatedTerms),
		Categories:   trimAll(parsed.Categories),
	}, nil
}

// parsePronunciation accepts {"ipa": "..."} or a bare string.
func parsePronunciation(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var obj dictionary.Pronunciation
	if err := json.Unmarshal(raw, &obj); err == nil {
		return strings.TrimSpace(obj.IPA)
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return strings.TrimSpace(text)
	}
	return ""
}

func trimAll(values []string) []string {
	var out []string
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			out = append(out, value)
		}
	}
	return out
}

func isParseFailure(err error) bool {
	return errors.Is(err, services.ErrParse)
}

func draftPrompt(req Request, attempt int, feedback *validation.Result) string {
	var b strings.Builder
	b.WriteString("Write a music dictionary entry.\n")
	fmt.Fprintf(&b, "Term: %s\nType: %s\n", req.Term, req.Type)
	if req.Language != "" {
		fmt.Fprintf(&b, "Source language: %s\n", language.DisplayName(req.Language))
	}
	b.WriteString(`
The concise definition is one sentence. The detailed definition is two to four
sentences covering meaning, history and practical use. Include etymology and IPA
pronunciation when the term comes from a language other than English.

Respond with JSON only:
{"concise": "...", "detailed": "...", "etymology": "...", "pronunciation": {"ipa": "..."},
 "usage_example": "...", "related_terms": ["..."], "categories": ["..."]}
`)
	if attempt > 1 && feedback != nil {
		fmt.Fprintf(&b, "\nA previous draft scored %d/100. Fix these problems:\n", feedback.Score)
		for _, issue := range feedback.Issues {
			fmt.Fprintf(&b, "- issue: %s\n", issue)
		}
		for _, suggestion := range feedback.Suggestions {
			fmt.Fprintf(&b, "- suggestion: %s\n", suggestion)
		}
	}
	return b.String()
}
