package references

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"cadenza/internal/dictionary"
	"cadenza/internal/logging"
	"cadenza/internal/services/llm"
	"cadenza/internal/textutil"
)

// Phrases are the cleaned lookup inputs for one term.
type Phrases struct {
	Wikipedia string
	Video     string
	// Composer is the composer the completion step named for a work, if any.
	Composer string
	// FromAI is false when the completion step failed and only local cleaning ran.
	FromAI bool
}

var errNoCompleter = errors.New("completion service not configured")

var (
	lessonSuffix = regexp.MustCompile(`(?i)\s+(music\s+)?(lessons?|tutorials?)$`)
	// The captured name must match a known composer before anything is cut.
	byAttribution  = regexp.MustCompile(`^(.+)\s+[Bb]y\s+([\p{L}.'\- ]+)$`)
	possessiveHead = regexp.MustCompile(`^([\p{L}.\- ]+?)['’]s\s+(.+)$`)
	colonHead      = regexp.MustCompile(`^([\p{L}.\- ]+?)\s*:\s+(.+)$`)
	// A trailing name-only parenthetical is an encyclopedia disambiguator.
	parenComposer = regexp.MustCompile(`\s*\(([\p{Lu}][\p{L}.\-]*\s*)+\)$`)
)

type phraseResponse struct {
	WikipediaQuery string `json:"wikipedia_query"`
	VideoQuery     string `json:"video_query"`
	Composer       string `json:"composer"`
}

func (r *Resolver) phrases(ctx context.Context, term string, termType dictionary.TermType) Phrases {
	logger := logging.WithContext(ctx, r.logger)
	out := Phrases{}

	var completion llm.Completion
	err := errNoCompleter
	if r.completer != nil {
		completion, err = r.completer.Complete(ctx, phrasePrompt(term, termType), r.model, r.options)
	}
	if err == nil {
		var parsed phraseResponse
		if err = llm.DecodeLLMJSON(completion.Response, &parsed); err == nil {
			out.Wikipedia = parsed.WikipediaQuery
			out.Video = parsed.VideoQuery
			out.Composer = strings.TrimSpace(parsed.Composer)
			out.FromAI = true
		}
	}
	if err != nil {
		logging.WarnWithContext(ctx, logger, "search phrase generation failed; using local cleaning", "phrase_fallback",
			logging.String(logging.FieldImpact, "search phrase built from the raw term"),
			logging.Error(err),
		)
	}

	out.Wikipedia = CleanPhrase(out.Wikipedia, term, termType, out.Composer)
	out.Video = cleanVideoPhrase(out.Video, out.Wikipedia, termType)
	return out
}

// CleanPhrase applies the local cleaning rules to phrase, falling back to term
// when phrase is empty or cleans down to nothing. For works, attributions to
// one of composers are removed.
func CleanPhrase(phrase, term string, termType dictionary.TermType, composers ...string) string {
	cleaned := cleanCommon(phrase)
	if cleaned == "" {
		cleaned = cleanCommon(term)
	}
	if termType.NamesWork() {
		if stripped := StripAttribution(cleaned, composers...); stripped != "" {
			cleaned = stripped
		}
	}
	if termType == dictionary.TypeComposer && len(strings.Fields(cleaned)) == 1 {
		cleaned += " composer"
	}
	return cleaned
}

// StripAttribution removes a composer attribution from a work title. With
// composer "Mozart", "The Magic Flute by Mozart", "Mozart's The Magic Flute"
// and "Mozart: The Magic Flute" all become "The Magic Flute". A "by", possessive
// or colon form is only cut when its name matches one of composers by full
// name or surname, so "Variations on a Theme by Haydn" survives when the
// composer is Brahms. A trailing name-only parenthetical such as
// "Messiah (Handel)" is always dropped.
func StripAttribution(title string, composers ...string) string {
	out := strings.TrimSpace(title)
	if m := byAttribution.FindStringSubmatch(out); m != nil && namesComposer(m[2], composers) {
		out = strings.TrimSpace(m[1])
	}
	if m := possessiveHead.FindStringSubmatch(out); m != nil && namesComposer(m[1], composers) {
		out = strings.TrimSpace(m[2])
	}
	if m := colonHead.FindStringSubmatch(out); m != nil && namesComposer(m[1], composers) {
		out = strings.TrimSpace(m[2])
	}
	out = parenComposer.ReplaceAllString(out, "")
	return strings.TrimSpace(out)
}

// HasAttribution reports whether StripAttribution would change title.
func HasAttribution(title string, composers ...string) bool {
	trimmed := strings.TrimSpace(title)
	return trimmed != "" && StripAttribution(trimmed, composers...) != trimmed
}

// namesComposer reports whether name is one of composers, compared folded by
// full name or by surname.
func namesComposer(name string, composers []string) bool {
	name = textutil.NormalizeTerm(name)
	if name == "" {
		return false
	}
	surname := lastField(name)
	for _, composer := range composers {
		composer = textutil.NormalizeTerm(composer)
		if composer == "" {
			continue
		}
		if composer == name || lastField(composer) == surname {
			return true
		}
	}
	return false
}

func lastField(value string) string {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

func cleanCommon(value string) string {
	value = textutil.CollapseSpaces(strings.Trim(strings.TrimSpace(value), `"'`+"`"))
	for {
		next := strings.TrimSpace(lessonSuffix.ReplaceAllString(value, ""))
		if next == value || next == "" {
			return value
		}
		value = next
	}
}

func cleanVideoPhrase(video, wikiPhrase string, termType dictionary.TermType) string {
	video = textutil.CollapseSpaces(strings.Trim(strings.TrimSpace(video), `"'`))
	if video != "" {
		return video
	}
	switch termType {
	case dictionary.TypeInstrument:
		return wikiPhrase + " instrument demonstration"
	case dictionary.TypeComposer:
		return strings.TrimSuffix(wikiPhrase, " composer") + " composer biography"
	case dictionary.TypeWork:
		return wikiPhrase + " performance"
	default:
		return wikiPhrase + " music explained"
	}
}

func phrasePrompt(term string, termType dictionary.TermType) string {
	var b strings.Builder
	b.WriteString("Produce search phrases for a music dictionary reference lookup.\n")
	fmt.Fprintf(&b, "Term: %s\nType: %s\n\n", term, termType)
	b.WriteString("Rules:\n")
	b.WriteString("- wikipedia_query is the title of the encyclopedia article about this exact term.\n")
	b.WriteString("- Drop generic words such as \"music lessons\" or \"tutorial\".\n")
	if termType.NamesWork() {
		b.WriteString("- The term names a work: never include the composer's name.\n")
		b.WriteString("- composer is the full name of the work's composer, or empty when unknown.\n")
	}
	if termType == dictionary.TypeComposer {
		b.WriteString("- Add \"composer\" only when the name alone is ambiguous.\n")
	}
	b.WriteString("- video_query finds an educational video about the term.\n\n")
	if termType.NamesWork() {
		b.WriteString(`Respond with JSON only: {"wikipedia_query": "...", "video_query": "...", "composer": "..."}`)
	} else {
		b.WriteString(`Respond with JSON only: {"wikipedia_query": "...", "video_query": "..."}`)
	}
	return b.String()
}
