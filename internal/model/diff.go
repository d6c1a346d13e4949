package model

// Delta is the change of a single numeric metric between the baseline and
// rendered snapshots. When the baseline value is zero and the rendered value
// is not, the percentage is meaningless and Unbounded is set instead.
type Delta struct {
	Before    int     `json:"before"`
	After     int     `json:"after"`
	Abs       int     `json:"abs"`
	Pct       float64 `json:"pct"`
	Unbounded bool    `json:"unbounded"`
}

// DiffReport is the read-only result of comparing a baseline (unscripted)
// snapshot against a rendered one.
type DiffReport struct {
	WordCount  Delta `json:"word_count"`
	TextLength Delta `json:"text_length"`
	Headings   Delta `json:"headings"`
	Images     Delta `json:"images"`
	Links      Delta `json:"links"`
	Scripts    Delta `json:"scripts"`
	JSONLD     Delta `json:"jsonld"`

	// JSOnlyHeadings holds "H<level>: <text>" entries for h1-h4 headings
	// present only in the rendered snapshot (case-insensitive per level).
	JSOnlyHeadings []string `json:"js_only_headings"`

	// JSOnlyElements lists structural tags whose count grew after script
	// execution, with the increase.
	JSOnlyElements []ElementDelta `json:"js_only_elements"`

	JSOnlyInternalLinks []string `json:"js_only_internal_links"`
	JSOnlyExternalLinks []string `json:"js_only_external_links"`

	MetaChanges []string `json:"meta_changes"`

	// JSOnlyText is a bounded, deduplicated sample of sentence-like
	// fragments found only in the rendered snapshot's visible text.
	JSOnlyText []string `json:"js_only_text"`

	// ClientRenderedRatio estimates the percentage of the rendered
	// snapshot's visible text attributable to script execution. Always
	// within [0, 100].
	ClientRenderedRatio float64 `json:"client_rendered_ratio"`
}

// ElementDelta records a structural tag whose count increased.
type ElementDelta struct {
	Tag      string `json:"tag"`
	Increase int    `json:"increase"`
}

// RiskTier classifies how much content is invisible to non-scripting
// consumers.
type RiskTier string

const (
	RiskLow      RiskTier = "low"
	RiskModerate RiskTier = "moderate"
	RiskHigh     RiskTier = "high"
	RiskCritical RiskTier = "critical"
)
