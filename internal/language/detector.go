package language

import (
	"sort"
	"strings"
	"unicode/utf8"

	"cadenza/internal/textutil"
)

// None is the language code reported when a term cannot be classified.
const None = ""

// Method identifies how a detection result was reached.
type Method string

const (
	// MethodPattern means a curated term list recognized the term.
	MethodPattern Method = "pattern"
	// MethodFallback means only the orthographic heuristic (or nothing) applied.
	MethodFallback Method = "fallback"
)

const (
	confidenceExact        = 0.95
	confidenceSharedExact  = 0.9
	confidenceVariant      = 0.75
	confidencePhraseBase   = 0.7
	confidencePhraseSpread = 0.15
	confidenceCueBase      = 0.2
	confidenceCueStep      = 0.08
	confidenceCueCap       = 0.45
	confidenceNumeric      = 0.1
	confidenceUnknown      = 0.1
	minStemRunes           = 4
)

// Detection is the outcome of classifying one term.
type Detection struct {
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
	Method     Method  `json:"method"`
	// Matched is the curated form that produced a pattern match, when any.
	Matched string `json:"matched,omitempty"`
}

// IsNone reports whether no language was assigned.
func (d Detection) IsNone() bool {
	return d.Language == None
}

type termInfo struct {
	direction bool
	ambiguous []string
}

type termList struct {
	code     string
	entries  map[string]termInfo
	stems    map[string]string
	suffixes []string
}

// Detector classifies terms against the curated lists. The zero value is not
// usable; construct with NewDetector.
type Detector struct {
	lists []*termList
	cues  []orthographicCue
}

// NewDetector builds a detector over the curated vocabularies.
func NewDetector() *Detector {
	lists := make([]*termList, 0, len(termSources))
	for _, src := range termSources {
		lists = append(lists, buildTermList(src))
	}
	return &Detector{lists: lists, cues: orthographicCues}
}

func buildTermList(src termSource) *termList {
	list := &termList{
		code:     src.code,
		entries:  make(map[string]termInfo, len(src.directions)+len(src.terms)),
		stems:    make(map[string]string),
		suffixes: append([]string(nil), src.suffixes...),
	}
	add := func(term string, direction bool) {
		key := textutil.NormalizeTerm(term)
		if key == "" {
			return
		}
		info := list.entries[key]
		info.direction = info.direction || direction
		info.ambiguous = append(info.ambiguous, src.ambiguous[term]...)
		list.entries[key] = info
		if strings.Contains(key, " ") {
			return
		}
		list.stems[key] = key
		if stem := stripFinalVowel(key); utf8.RuneCountInString(stem) >= minStemRunes {
			if _, taken := list.stems[stem]; !taken {
				list.stems[stem] = key
			}
		}
	}
	for _, term := range src.directions {
		add(term, true)
	}
	for _, term := range src.terms {
		add(term, false)
	}
	sort.SliceStable(list.suffixes, func(i, j int) bool {
		return len(list.suffixes[i]) > len(list.suffixes[j])
	})
	return list
}

func stripFinalVowel(word string) string {
	last, size := utf8.DecodeLastRuneInString(word)
	switch last {
	case 'a', 'e', 'i', 'o', 'u':
		return word[:len(word)-size]
	}
	return word
}

// Detect classifies a single term. It never fails: unrecognized input yields a
// low-confidence fallback result.
func (d *Detector) Detect(term string) Detection {
	if strings.TrimSpace(term) == "" {
		return Detection{Language: None, Confidence: 0, Method: MethodFallback}
	}
	if textutil.IsNumeric(term) {
		return Detection{Language: None, Confidence: confidenceNumeric, Method: MethodFallback}
	}
	key := textutil.NormalizeTerm(term)
	if key == "" {
		return Detection{Language: None, Confidence: 0, Method: MethodFallback}
	}
	if det, ok := d.exact(key); ok {
		return det
	}
	if !strings.Contains(key, " ") {
		if det, ok := d.variant(key); ok {
			return det
		}
	} else if det, ok := d.phrase(key); ok {
		return det
	}
	return d.fallback(term)
}

// DetectMany classifies each term independently and preserves input order.
func (d *Detector) DetectMany(terms []string) []Detection {
	out := make([]Detection, len(terms))
	for i, term := range terms {
		out[i] = d.Detect(term)
	}
	return out
}

func (d *Detector) exact(key string) (Detection, bool) {
	var (
		matched []*termList
		infos   []termInfo
	)
	for _, list := range d.lists {
		if info, ok := list.entries[key]; ok {
			matched = append(matched, list)
			infos = append(infos, info)
		}
	}
	switch len(matched) {
	case 0:
		return Detection{}, false
	case 1:
		return Detection{Language: matched[0].code, Confidence: confidenceExact, Method: MethodPattern, Matched: key}, true
	}

	// A documented ambiguity accepts any listed language; priority order picks one.
	for _, info := range infos {
		if len(info.ambiguous) > 0 {
			return Detection{Language: matched[0].code, Confidence: confidenceSharedExact, Method: MethodPattern, Matched: key}, true
		}
	}
	for i, list := range matched {
		if list.code == "it" && infos[i].direction {
			return Detection{Language: "it", Confidence: confidenceExact, Method: MethodPattern, Matched: key}, true
		}
	}
	return Detection{Language: matched[0].code, Confidence: confidenceSharedExact, Method: MethodPattern, Matched: key}, true
}

func (d *Detector) variant(key string) (Detection, bool) {
	for _, list := range d.lists {
		if base, ok := list.variantOf(key); ok {
			return Detection{Language: list.code, Confidence: confidenceVariant, Method: MethodPattern, Matched: base}, true
		}
	}
	return Detection{}, false
}

func (l *termList) variantOf(word string) (string, bool) {
	for _, suffix := range l.suffixes {
		if !strings.HasSuffix(word, suffix) || len(word) == len(suffix) {
			continue
		}
		stem := word[:len(word)-len(suffix)]
		if utf8.RuneCountInString(stem) < minStemRunes {
			continue
		}
		if base, ok := l.stems[stem]; ok && base != word {
			return base, true
		}
	}
	return "", false
}

func (l *termList) recognizes(word string) bool {
	if _, ok := l.entries[word]; ok {
		return true
	}
	_, ok := l.variantOf(word)
	return ok
}

// phrase votes multi-word terms token by token; a language must cover at least
// half of the tokens.
func (d *Detector) phrase(key string) (Detection, bool) {
	tokens := strings.Fields(key)
	if len(tokens) == 0 {
		return Detection{}, false
	}
	var (
		best      *termList
		bestCount int
	)
	for _, list := range d.lists {
		count := 0
		for _, token := range tokens {
			if list.recognizes(token) {
				count++
			}
		}
		if count > bestCount {
			best, bestCount = list, count
		}
	}
	if best == nil || bestCount*2 < len(tokens) {
		return Detection{}, false
	}
	coverage := float64(bestCount) / float64(len(tokens))
	return Detection{
		Language:   best.code,
		Confidence: confidencePhraseBase + confidencePhraseSpread*coverage,
		Method:     MethodPattern,
	}, true
}

func (d *Detector) fallback(term string) Detection {
	lowered := strings.ToLower(strings.TrimSpace(term))
	words := strings.Fields(lowered)
	bestCode := None
	bestHits := 0
	for _, cue := range d.cues {
		hits := 0
		for _, fragment := range cue.contains {
			if strings.Contains(lowered, fragment) {
				hits++
			}
		}
		for _, word := range words {
			for _, suffix := range cue.suffixes {
				if strings.HasSuffix(word, suffix) && len(word) > len(suffix) {
					hits++
					break
				}
			}
		}
		if hits > bestHits {
			bestCode, bestHits = cue.code, hits
		}
	}
	if bestHits == 0 {
		return Detection{Language: None, Confidence: confidenceUnknown, Method: MethodFallback}
	}
	confidence := confidenceCueBase + confidenceCueStep*float64(bestHits)
	if confidence > confidenceCueCap {
		confidence = confidenceCueCap
	}
	return Detection{Language: bestCode, Confidence: confidence, Method: MethodFallback}
}
