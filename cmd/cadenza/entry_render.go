package main

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	textlang "golang.org/x/text/language"

	"cadenza/internal/dictionary"
	"cadenza/internal/language"
)

var titleCaser = cases.Title(textlang.Und)

func typeLabel(termType dictionary.TermType) string {
	if termType == "" {
		termType = dictionary.TypeGeneral
	}
	return titleCaser.String(string(termType))
}

func languageLabel(code string) string {
	if strings.TrimSpace(code) == "" {
		return language.DisplayName(code)
	}
	if name := language.DisplayName(code); name != "" && !strings.EqualFold(name, code) {
		return fmt.Sprintf("%s (%s)", name, code)
	}
	return code
}

// renderEntry formats one entry for the terminal.
func renderEntry(entry *dictionary.Entry, colorize bool) string {
	var b strings.Builder
	for _, line := range renderSectionHeader(entry.Term, colorize) {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "%s · %s", typeLabel(entry.Type), languageLabel(entry.Language))
	if ipa := entry.Definition.IPA(); ipa != "" {
		fmt.Fprintf(&b, " · %s", ipa)
	}
	b.WriteString("\n\n")

	writeField(&b, "Concise", entry.Definition.Concise)
	writeField(&b, "Detailed", entry.Definition.Detailed)
	writeField(&b, "Etymology", entry.Definition.Etymology)
	writeField(&b, "Example", entry.Definition.UsageExample)
	if len(entry.Metadata.RelatedTerms) > 0 {
		writeField(&b, "Related", strings.Join(entry.Metadata.RelatedTerms, ", "))
	}
	if len(entry.Metadata.Categories) > 0 {
		writeField(&b, "Categories", strings.Join(entry.Metadata.Categories, ", "))
	}

	b.WriteString("\nReferences\n")
	if wiki := entry.References.Wikipedia; wiki != nil && wiki.URL != "" {
		note := ""
		if wiki.Fallback {
			note = " (unverified)"
		}
		fmt.Fprintf(&b, "%sWikipedia: %s%s\n", statusIndent, wiki.URL, note)
	}
	for _, video := range entry.References.Videos() {
		fmt.Fprintf(&b, "%sVideo:     %s\n", statusIndent, video.URL)
	}

	b.WriteString("\nQuality\n")
	score := entry.QualityScore
	level := score.ConfidenceLevel
	if level == "" {
		level = dictionary.ConfidenceFor(score.Overall)
	}
	b.WriteString(renderStatusLine("Overall", confidenceKind(level), fmt.Sprintf("%d/100 (%s)", score.Overall, level), colorize))
	b.WriteByte('\n')
	fmt.Fprintf(&b, "%s%-*s %d\n", statusIndent, statusLabelWidth, "Clarity:", score.DefinitionClarity)
	fmt.Fprintf(&b, "%s%-*s %d\n", statusIndent, statusLabelWidth, "References:", score.ReferenceCompleteness)
	fmt.Fprintf(&b, "%s%-*s %d\n", statusIndent, statusLabelWidth, "Accuracy:", score.AccuracyVerification)
	fmt.Fprintf(&b, "%s%-*s %s\n", statusIndent, statusLabelWidth, "Human verified:", yesNo(score.HumanVerified))

	fmt.Fprintf(&b, "\nid %s · version %d · updated %s\n", entry.ID, entry.Version, formatTimestamp(entry.UpdatedAt))
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	fmt.Fprintf(b, "%s:\n%s%s\n", label, statusIndent, value)
}

func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format("2006-01-02 15:04")
}
