package dictionary

import (
	"strings"
	"time"

	"cadenza/internal/textutil"
)

// TermType tags what kind of musical concept a term names.
type TermType string

const (
	TypeInstrument   TermType = "instrument"
	TypeTechnique    TermType = "technique"
	TypeTempo        TermType = "tempo"
	TypeDynamic      TermType = "dynamic"
	TypeArticulation TermType = "articulation"
	TypeGenre        TermType = "genre"
	TypeForm         TermType = "form"
	TypeComposer     TermType = "composer"
	TypeWork         TermType = "work"
	TypeTheory       TermType = "theory"
	TypeGeneral      TermType = "general"
)

var termTypes = []TermType{
	TypeInstrument, TypeTechnique, TypeTempo, TypeDynamic, TypeArticulation,
	TypeGenre, TypeForm, TypeComposer, TypeWork, TypeTheory, TypeGeneral,
}

// TermTypes returns every recognized type tag.
func TermTypes() []TermType {
	return append([]TermType(nil), termTypes...)
}

// ParseTermType maps a free-form tag to a TermType; unknown or empty input is general.
func ParseTermType(value string) TermType {
	value = strings.ToLower(strings.TrimSpace(value))
	switch value {
	case "opera", "symphony", "piece", "composition":
		return TypeWork
	case "dynamics":
		return TypeDynamic
	case "person", "musician":
		return TypeComposer
	}
	for _, t := range termTypes {
		if string(t) == value {
			return t
		}
	}
	return TypeGeneral
}

// NamesWork reports whether entries of this type describe a named composition.
func (t TermType) NamesWork() bool {
	return t == TypeWork
}

// Pronunciation holds optional phonetic guidance.
type Pronunciation struct {
	IPA string `json:"ipa,omitempty"`
}

// Definition is the core payload of an entry.
type Definition struct {
	Concise       string         `json:"concise"`
	Detailed      string         `json:"detailed"`
	Etymology     string         `json:"etymology,omitempty"`
	Pronunciation *Pronunciation `json:"pronunciation,omitempty"`
	UsageExample  string         `json:"usage_example,omitempty"`
}

// IsEmpty reports whether neither the concise nor the detailed text is present.
func (d Definition) IsEmpty() bool {
	return strings.TrimSpace(d.Concise) == "" && strings.TrimSpace(d.Detailed) == ""
}

// IPA returns the pronunciation string, if any.
func (d Definition) IPA() string {
	if d.Pronunciation == nil {
		return ""
	}
	return d.Pronunciation.IPA
}

// WikipediaReference points at the encyclopedia page backing an entry.
type WikipediaReference struct {
	URL          string    `json:"url"`
	Title        string    `json:"title,omitempty"`
	Extract      string    `json:"extract"`
	LastVerified time.Time `json:"last_verified"`
	// Fallback is true when the URL was constructed without a successful lookup.
	Fallback bool `json:"fallback,omitempty"`
}

// Video is one educational video reference.
type Video struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
	Query string `json:"query,omitempty"`
}

// YouTubeReferences groups video references hosted on YouTube.
type YouTubeReferences struct {
	EducationalVideos []Video `json:"educational_videos"`
}

// MediaReferences groups non-encyclopedic references.
type MediaReferences struct {
	YouTube *YouTubeReferences `json:"youtube,omitempty"`
}

// ReferenceSet is everything an entry cites.
type ReferenceSet struct {
	Wikipedia *WikipediaReference `json:"wikipedia,omitempty"`
	Media     *MediaReferences    `json:"media,omitempty"`
}

// HasWikipedia reports whether a Wikipedia URL is present.
func (r ReferenceSet) HasWikipedia() bool {
	return r.Wikipedia != nil && strings.TrimSpace(r.Wikipedia.URL) != ""
}

// Videos returns the educational videos, if any.
func (r ReferenceSet) Videos() []Video {
	if r.Media == nil || r.Media.YouTube == nil {
		return nil
	}
	return r.Media.YouTube.EducationalVideos
}

// IsEmpty reports whether no reference of any kind is present.
func (r ReferenceSet) IsEmpty() bool {
	return !r.HasWikipedia() && len(r.Videos()) == 0
}

// ConfidenceLevel buckets the overall quality score.
type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

// ConfidenceFor maps an overall score to its confidence bucket.
func ConfidenceFor(overall int) ConfidenceLevel {
	switch {
	case overall >= 85:
		return ConfidenceHigh
	case overall >= 70:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// QualityScore records the last automated quality assessment. Overall is the
// only field consulted by the generation gate.
type QualityScore struct {
	Overall               int             `json:"overall"`
	DefinitionClarity     int             `json:"definition_clarity"`
	ReferenceCompleteness int             `json:"reference_completeness"`
	AccuracyVerification  int             `json:"accuracy_verification"`
	LastAICheck           time.Time       `json:"last_ai_check"`
	HumanVerified         bool            `json:"human_verified"`
	ConfidenceLevel       ConfidenceLevel `json:"confidence_level,omitempty"`
}

// Metadata carries usage information maintained by the store.
type Metadata struct {
	SearchFrequency int        `json:"search_frequency"`
	RelatedTerms    []string   `json:"related_terms,omitempty"`
	Categories      []string   `json:"categories,omitempty"`
	LastAccessed    *time.Time `json:"last_accessed,omitempty"`
}

// Entry is a single term's full dictionary record. ID is assigned once at
// generation and never changes; Version starts at 1 and grows by one per
// enhancement.
type Entry struct {
	ID             string       `json:"id"`
	Term           string       `json:"term"`
	NormalizedTerm string       `json:"normalized_term"`
	Type           TermType     `json:"type"`
	Language       string       `json:"language"`
	Definition     Definition   `json:"definition"`
	References     ReferenceSet `json:"references"`
	Metadata       Metadata     `json:"metadata"`
	QualityScore   QualityScore `json:"quality_score"`
	Version        int          `json:"version"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// NormalizeTerm returns the store key form of a term.
func NormalizeTerm(term string) string {
	return textutil.NormalizeTerm(term)
}

// Clone returns a deep copy so callers can mutate without aliasing slices or pointers.
func (e Entry) Clone() Entry {
	out := e
	if e.Definition.Pronunciation != nil {
		p := *e.Definition.Pronunciation
		out.Definition.Pronunciation = &p
	}
	if e.References.Wikipedia != nil {
		w := *e.References.Wikipedia
		out.References.Wikipedia = &w
	}
	if e.References.Media != nil {
		m := MediaReferences{}
		if e.References.Media.YouTube != nil {
			m.YouTube = &YouTubeReferences{
				EducationalVideos: append([]Video(nil), e.References.Media.YouTube.EducationalVideos...),
			}
		}
		out.References.Media = &m
	}
	out.Metadata.RelatedTerms = append([]string(nil), e.Metadata.RelatedTerms...)
	out.Metadata.Categories = append([]string(nil), e.Metadata.Categories...)
	if e.Metadata.LastAccessed != nil {
		ts := *e.Metadata.LastAccessed
		out.Metadata.LastAccessed = &ts
	}
	return out
}
