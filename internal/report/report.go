package report

import (
	"fmt"
	"strings"

	"renderdiff/internal/diff"
	"renderdiff/internal/model"
)

// Display caps keep the text report readable; the underlying diff keeps the
// full (already capped) sets.
const (
	maxInternalLinksShown = 20
	maxExternalLinksShown = 15
	maxTextFragmentsShown = 15
)

// imageDeltaHint is the image-count increase past which the lazy-loading
// recommendation is emitted.
const imageDeltaHint = 3

// Build assembles the full differential report: headline risk, numeric
// comparison, meta changes, JS-only headings/elements/links/text, and
// conditional recommendations.
func Build(url string, a, b *model.PageSnapshot, d *model.DiffReport, tier model.RiskTier) string {
	var sb strings.Builder

	sb.WriteString("JAVASCRIPT RENDERING IMPACT ANALYSIS\n")
	sb.WriteString("====================================\n")
	fmt.Fprintf(&sb, "URL: %s\n", url)
	fmt.Fprintf(&sb, "Document type: %s\n\n", b.HTMLVersion)

	fmt.Fprintf(&sb, "RISK: %s (%.1f%% of visible text is client-rendered)\n",
		strings.ToUpper(string(tier)), d.ClientRenderedRatio)
	fmt.Fprintf(&sb, "      %s\n\n", diff.Label(tier, diff.DefaultRiskBands))

	sb.WriteString("CONTENT METRICS (raw HTML vs rendered):\n")
	fmt.Fprintf(&sb, "  %-18s %10s %10s   %s\n", "Metric", "Raw", "Rendered", "Delta")
	sb.WriteString("  " + strings.Repeat("-", 58) + "\n")
	writeMetric(&sb, "Word count", d.WordCount)
	writeMetric(&sb, "Text length", d.TextLength)
	writeMetric(&sb, "Headings", d.Headings)
	writeMetric(&sb, "Images", d.Images)
	writeMetric(&sb, "Links", d.Links)
	writeMetric(&sb, "Scripts", d.Scripts)
	writeMetric(&sb, "JSON-LD blocks", d.JSONLD)
	sb.WriteString("\n")

	sb.WriteString("META / SEO TAG CHANGES:\n")
	if len(d.MetaChanges) == 0 {
		sb.WriteString("  No meta tag changes detected.\n")
	} else {
		for _, change := range d.MetaChanges {
			fmt.Fprintf(&sb, "  - %s\n", change)
		}
	}
	sb.WriteString("\n")

	if len(d.JSOnlyHeadings) > 0 {
		fmt.Fprintf(&sb, "HEADINGS ONLY PRESENT AFTER RENDERING (%d):\n", len(d.JSOnlyHeadings))
		for _, heading := range d.JSOnlyHeadings {
			fmt.Fprintf(&sb, "  - %s\n", heading)
		}
		sb.WriteString("\n")
	}

	if len(d.JSOnlyElements) > 0 {
		sb.WriteString("ELEMENT COUNT CHANGES:\n")
		for _, el := range d.JSOnlyElements {
			fmt.Fprintf(&sb, "  - <%s>: +%d\n", el.Tag, el.Increase)
		}
		sb.WriteString("\n")
	}

	writeLinkSection(&sb, "INTERNAL LINKS ONLY PRESENT AFTER RENDERING",
		d.JSOnlyInternalLinks, maxInternalLinksShown)
	writeLinkSection(&sb, "EXTERNAL LINKS ONLY PRESENT AFTER RENDERING",
		d.JSOnlyExternalLinks, maxExternalLinksShown)

	if len(d.JSOnlyText) > 0 {
		fmt.Fprintf(&sb, "TEXT ONLY PRESENT AFTER RENDERING (sample of %d):\n",
			min(len(d.JSOnlyText), maxTextFragmentsShown))
		for i, fragment := range d.JSOnlyText {
			if i >= maxTextFragmentsShown {
				break
			}
			fmt.Fprintf(&sb, "  - %q\n", fragment)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("RECOMMENDATIONS:\n")
	for _, rec := range recommendations(d) {
		fmt.Fprintf(&sb, "  - %s\n", rec)
	}

	return sb.String()
}

func writeMetric(sb *strings.Builder, name string, d model.Delta) {
	fmt.Fprintf(sb, "  %-18s %10d %10d   %s\n", name, d.Before, d.After, formatDelta(d))
}

func formatDelta(d model.Delta) string {
	if d.Unbounded {
		return fmt.Sprintf("%+d (new)", d.Abs)
	}
	return fmt.Sprintf("%+d (%+.1f%%)", d.Abs, d.Pct)
}

func writeLinkSection(sb *strings.Builder, title string, links []string, limit int) {
	if len(links) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s (%d):\n", title, len(links))
	for i, link := range links {
		if i >= limit {
			fmt.Fprintf(sb, "  ... and %d more\n", len(links)-limit)
			break
		}
		fmt.Fprintf(sb, "  - %s\n", link)
	}
	sb.WriteString("\n")
}

func recommendations(d *model.DiffReport) []string {
	var recs []string

	if d.ClientRenderedRatio > 25 {
		recs = append(recs, "A large share of the page text only exists after script execution. "+
			"Consider server-side rendering or prerendering so crawlers and non-scripting clients see the full content.")
	}
	if len(d.JSOnlyHeadings) > 0 {
		recs = append(recs, "Headings added by scripts are invisible to non-scripting consumers; "+
			"ship the document outline in the initial HTML.")
	}
	if d.Images.Abs > imageDeltaHint {
		recs = append(recs, "Several images appear only after rendering, likely lazy-loaded via scripts. "+
			"Use native loading=\"lazy\" with real <img> tags so they remain crawlable.")
	}
	if len(d.JSOnlyInternalLinks) > 0 || len(d.JSOnlyExternalLinks) > 0 {
		recs = append(recs, "Links injected by scripts may never be discovered by crawlers; "+
			"include primary navigation and key links in the raw markup.")
	}
	if len(d.MetaChanges) > 0 {
		recs = append(recs, "Meta/SEO tags change after rendering; crawlers that skip script execution "+
			"will index the raw values. Emit final meta tags server-side.")
	}

	if len(recs) == 0 {
		recs = append(recs, "No significant rendering gap detected; the page serves its content without scripting.")
	}
	return recs
}

// BuildSingleSnapshot is the degraded output when no headless-browser
// capability is available: a summary of the unscripted capture only, with an
// explanation and remediation instructions.
func BuildSingleSnapshot(url string, a *model.PageSnapshot) string {
	var sb strings.Builder

	sb.WriteString("SINGLE-SNAPSHOT ANALYSIS (RENDERING UNAVAILABLE)\n")
	sb.WriteString("================================================\n")
	sb.WriteString("No headless browser is available in this environment, so only the raw,\n")
	sb.WriteString("unscripted HTML was analyzed. Install Chrome or Chromium (or set\n")
	sb.WriteString("CHROME_PATH) to enable the full rendering comparison.\n\n")

	fmt.Fprintf(&sb, "URL: %s\n", url)
	fmt.Fprintf(&sb, "Document type: %s\n\n", a.HTMLVersion)

	fmt.Fprintf(&sb, "Word count: %d\n", a.WordCount)
	fmt.Fprintf(&sb, "Headings: %d\n", a.HeadingCount)
	fmt.Fprintf(&sb, "Images: %d\n", a.ImageCount)
	fmt.Fprintf(&sb, "Links: %d (internal: %d, external: %d)\n",
		a.LinkCount, len(a.InternalLinks), len(a.ExternalLinks))
	fmt.Fprintf(&sb, "Structured data (JSON-LD) blocks: %d\n\n", a.JSONLDCount)

	fmt.Fprintf(&sb, "Title: %s\n", a.MetaTitle)
	fmt.Fprintf(&sb, "Meta description: %s\n", a.MetaDescription)
	fmt.Fprintf(&sb, "Canonical: %s\n", a.Canonical)

	return sb.String()
}
