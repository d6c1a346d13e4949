package diff

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"renderdiff/internal/model"
)

const (
	// Fragments shorter than this are too generic to be meaningful
	// evidence of client-rendered text.
	minFragmentLen = 15

	// Containment is tested on at most this many leading characters of
	// each fragment, so trailing punctuation or truncation differences do
	// not mask a match.
	fragmentProbeLen = 60

	maxJSOnlyText = 30
)

var sentenceBoundary = regexp.MustCompile(`[.!?]+`)

// Compare produces the field-level diff of a baseline (unscripted) snapshot
// a against a rendered snapshot b. Output ordering is deterministic, the
// same pair always yields an identical report.
func Compare(a, b *model.PageSnapshot) *model.DiffReport {
	d := &model.DiffReport{
		WordCount:  delta(a.WordCount, b.WordCount),
		TextLength: delta(a.TextLength, b.TextLength),
		Headings:   delta(a.HeadingCount, b.HeadingCount),
		Images:     delta(a.ImageCount, b.ImageCount),
		Links:      delta(a.LinkCount, b.LinkCount),
		Scripts:    delta(a.ScriptCount, b.ScriptCount),
		JSONLD:     delta(a.JSONLDCount, b.JSONLDCount),

		JSOnlyHeadings:      headingDiff(a.Headings, b.Headings),
		JSOnlyElements:      elementDiff(a.SelectorCounts, b.SelectorCounts),
		JSOnlyInternalLinks: linkDiff(a.InternalLinks, b.InternalLinks),
		JSOnlyExternalLinks: linkDiff(a.ExternalLinks, b.ExternalLinks),
		MetaChanges:         metaDiff(a, b),
		JSOnlyText:          textDiff(a.VisibleText, b.VisibleText),

		ClientRenderedRatio: ClientRenderedRatio(a.WordCount, b.WordCount),
	}
	return d
}

func delta(before, after int) model.Delta {
	d := model.Delta{
		Before: before,
		After:  after,
		Abs:    after - before,
	}
	switch {
	case before != 0:
		d.Pct = float64(after-before) / float64(before) * 100
	case after != 0:
		d.Unbounded = true
	}
	return d
}

// ClientRenderedRatio estimates the share of the rendered word count that
// did not exist before script execution. The result is always in [0, 100].
func ClientRenderedRatio(baselineWords, renderedWords int) float64 {
	if baselineWords == 0 {
		if renderedWords > 0 {
			return 100
		}
		return 0
	}
	if renderedWords == 0 {
		return 0
	}
	ratio := float64(renderedWords-baselineWords) / float64(renderedWords) * 100
	if ratio < 0 {
		return 0
	}
	return ratio
}

// headingDiff reports h1-h4 headings present in the rendered snapshot whose
// lowercase text is absent at the same level in the baseline.
func headingDiff(a, b map[int][]string) []string {
	var out []string
	for level := 1; level <= 4; level++ {
		baseline := make(map[string]bool, len(a[level]))
		for _, text := range a[level] {
			baseline[strings.ToLower(text)] = true
		}
		for _, text := range b[level] {
			if !baseline[strings.ToLower(text)] {
				out = append(out, fmt.Sprintf("H%d: %s", level, text))
			}
		}
	}
	return out
}

// elementDiff records structural tags whose count grew after script
// execution; tags missing from the baseline count as zero.
func elementDiff(a, b map[string]int) []model.ElementDelta {
	tags := make([]string, 0, len(b))
	for tag := range b {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	var out []model.ElementDelta
	for _, tag := range tags {
		if inc := b[tag] - a[tag]; inc > 0 {
			out = append(out, model.ElementDelta{Tag: tag, Increase: inc})
		}
	}
	return out
}

// linkDiff is the set difference b minus a, in b's order. Both inputs are
// already capped sets, so differences beyond the cap are invisible; that is
// an accepted approximation of this analyzer.
func linkDiff(a, b []string) []string {
	baseline := make(map[string]bool, len(a))
	for _, link := range a {
		baseline[link] = true
	}
	var out []string
	for _, link := range b {
		if !baseline[link] {
			out = append(out, link)
		}
	}
	return out
}

func metaDiff(a, b *model.PageSnapshot) []string {
	var out []string
	if a.MetaTitle != b.MetaTitle {
		out = append(out, fmt.Sprintf("Title changed: %q -> %q", a.MetaTitle, b.MetaTitle))
	}
	// Descriptions can be long and may carry user-visible copy; report the
	// change without the values.
	if a.MetaDescription != b.MetaDescription {
		out = append(out, "Meta description changed after rendering")
	}
	if a.Canonical != b.Canonical {
		out = append(out, fmt.Sprintf("Canonical URL changed: %q -> %q", a.Canonical, b.Canonical))
	}
	if a.OGTitle != b.OGTitle {
		out = append(out, fmt.Sprintf("OG title changed: %q -> %q", a.OGTitle, b.OGTitle))
	}
	if a.JSONLDCount != b.JSONLDCount {
		out = append(out, fmt.Sprintf("Structured data (JSON-LD) blocks: %d -> %d", a.JSONLDCount, b.JSONLDCount))
	}
	if a.HTMLVersion != b.HTMLVersion {
		out = append(out, fmt.Sprintf("Document doctype changed: %s -> %s", a.HTMLVersion, b.HTMLVersion))
	}
	return out
}

// textDiff finds sentence-like fragments of the rendered text whose leading
// characters do not occur anywhere in the baseline text. This is a substring
// containment heuristic: reordered or paraphrased content is not detected.
func textDiff(baselineText, renderedText string) []string {
	baselineLower := strings.ToLower(baselineText)

	var out []string
	seen := make(map[string]bool)
	for _, fragment := range sentenceBoundary.Split(renderedText, -1) {
		fragment = strings.TrimSpace(fragment)
		if len(fragment) < minFragmentLen {
			continue
		}
		probe := strings.ToLower(fragment)
		if runes := []rune(probe); len(runes) > fragmentProbeLen {
			// Character count, not bytes: a byte slice could split a
			// multibyte rune and shorten the probe for non-ASCII text.
			probe = string(runes[:fragmentProbeLen])
		}
		if strings.Contains(baselineLower, probe) || seen[probe] {
			continue
		}
		seen[probe] = true
		out = append(out, fragment)
		if len(out) >= maxJSOnlyText {
			break
		}
	}
	return out
}
