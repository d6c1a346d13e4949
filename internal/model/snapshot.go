package model

// PageSnapshot is a normalized structural summary of one markup capture.
// It is a pure function of the markup string and the page URL; it carries
// no network state and can be compared or serialized on its own.
type PageSnapshot struct {
	VisibleText string `json:"visible_text"`
	TextLength  int    `json:"text_length"`
	WordCount   int    `json:"word_count"`

	// Headings maps heading level (1-6) to the trimmed, non-empty text of
	// each heading at that level, in document order.
	Headings     map[int][]string `json:"headings"`
	HeadingCount int              `json:"heading_count"`

	ImageCount  int `json:"image_count"`
	LinkCount   int `json:"link_count"`
	ScriptCount int `json:"script_count"`
	JSONLDCount int `json:"jsonld_count"`

	// Link sets are deduplicated in first-occurrence order and capped at
	// MaxLinksPerSet entries each.
	InternalLinks []string `json:"internal_links"`
	ExternalLinks []string `json:"external_links"`

	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`
	Canonical       string `json:"canonical"`
	OGTitle         string `json:"og_title"`
	HTMLVersion     string `json:"html_version"`

	// SelectorCounts holds per-tag element counts for the structural tag
	// table (main, article, section, ...).
	SelectorCounts map[string]int `json:"selector_counts"`
}

// MaxLinksPerSet caps each of InternalLinks and ExternalLinks.
const MaxLinksPerSet = 50
