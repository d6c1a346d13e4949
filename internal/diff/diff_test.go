package diff

import (
	"reflect"
	"strings"
	"testing"

	"renderdiff/internal/model"
)

func TestDelta(t *testing.T) {
	tests := []struct {
		name          string
		before, after int
		wantAbs       int
		wantPct       float64
		wantUnbounded bool
	}{
		{"increase", 100, 150, 50, 50, false},
		{"decrease", 200, 100, -100, -50, false},
		{"no change", 10, 10, 0, 0, false},
		{"from zero to zero", 0, 0, 0, 0, false},
		{"from zero", 0, 40, 40, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := delta(tt.before, tt.after)
			if d.Abs != tt.wantAbs {
				t.Errorf("Abs = %d, want %d", d.Abs, tt.wantAbs)
			}
			if d.Pct != tt.wantPct {
				t.Errorf("Pct = %v, want %v", d.Pct, tt.wantPct)
			}
			if d.Unbounded != tt.wantUnbounded {
				t.Errorf("Unbounded = %v, want %v", d.Unbounded, tt.wantUnbounded)
			}
		})
	}
}

func TestClientRenderedRatio(t *testing.T) {
	tests := []struct {
		name               string
		baseline, rendered int
		want               float64
	}{
		{"no baseline no rendered", 0, 0, 0},
		{"no baseline", 0, 800, 100},
		{"identical", 500, 500, 0},
		{"rendered shrinks", 500, 300, 0},
		{"rendered zero", 500, 0, 0},
		{"half client rendered", 400, 800, 50},
		{"quarter client rendered", 300, 400, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClientRenderedRatio(tt.baseline, tt.rendered)
			if got != tt.want {
				t.Errorf("ClientRenderedRatio(%d, %d) = %v, want %v", tt.baseline, tt.rendered, got, tt.want)
			}
			if got < 0 || got > 100 {
				t.Errorf("ratio %v outside [0, 100]", got)
			}
		})
	}
}

func TestHeadingDiff(t *testing.T) {
	tests := []struct {
		name string
		a, b map[int][]string
		want []string
	}{
		{
			name: "identical sets yield empty diff",
			a:    map[int][]string{1: {"Title"}, 2: {"Pricing"}},
			b:    map[int][]string{1: {"Title"}, 2: {"Pricing"}},
			want: nil,
		},
		{
			name: "case insensitive match",
			a:    map[int][]string{2: {"pricing"}},
			b:    map[int][]string{2: {"PRICING"}},
			want: nil,
		},
		{
			name: "new h2 after rendering",
			a:    map[int][]string{2: {"Pricing"}},
			b:    map[int][]string{2: {"Pricing", "FAQ"}},
			want: []string{"H2: FAQ"},
		},
		{
			name: "same text at different level is new",
			a:    map[int][]string{2: {"Pricing"}},
			b:    map[int][]string{3: {"Pricing"}},
			want: []string{"H3: Pricing"},
		},
		{
			name: "levels above h4 ignored",
			a:    map[int][]string{},
			b:    map[int][]string{5: {"Footnote"}, 6: {"Fine print"}},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := headingDiff(tt.a, tt.b)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("headingDiff() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestElementDiff(t *testing.T) {
	a := map[string]int{"section": 2, "nav": 1}
	b := map[string]int{"section": 5, "nav": 1, "iframe": 2}

	got := elementDiff(a, b)
	want := []model.ElementDelta{
		{Tag: "iframe", Increase: 2},
		{Tag: "section", Increase: 3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("elementDiff() = %v, want %v", got, want)
	}
}

func TestLinkDiffDisjoint(t *testing.T) {
	a := []string{"https://e.com/a", "https://e.com/b"}
	b := []string{"https://e.com/b", "https://e.com/c", "https://e.com/d"}

	got := linkDiff(a, b)
	want := []string{"https://e.com/c", "https://e.com/d"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("linkDiff() = %v, want %v", got, want)
	}

	shared := make(map[string]bool)
	for _, link := range a {
		shared[link] = true
	}
	for _, link := range got {
		if shared[link] {
			t.Errorf("linkDiff() reported %q, present in both sets", link)
		}
	}
}

func TestMetaDiff(t *testing.T) {
	a := &model.PageSnapshot{
		MetaTitle:       "Before",
		MetaDescription: "old secret description",
		HTMLVersion:     "HTML5",
	}
	b := &model.PageSnapshot{
		MetaTitle:       "After",
		MetaDescription: "new secret description",
		HTMLVersion:     "HTML5",
		JSONLDCount:     2,
	}

	got := metaDiff(a, b)
	if len(got) != 3 {
		t.Fatalf("metaDiff() = %v, want 3 changes", got)
	}
	for _, change := range got {
		if strings.Contains(change, "secret") {
			t.Errorf("description values must not be reported: %q", change)
		}
	}
	if !strings.Contains(got[0], `"Before"`) || !strings.Contains(got[0], `"After"`) {
		t.Errorf("title change should report both values, got %q", got[0])
	}
}

func TestTextDiff(t *testing.T) {
	baseline := "Welcome to our site. We sell fine products across the world."
	rendered := "Welcome to our site. We sell fine products across the world. " +
		"Delivery is available in over forty countries today. Short. " +
		"Delivery is available in over forty countries today."

	got := textDiff(baseline, rendered)
	want := []string{"Delivery is available in over forty countries today"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("textDiff() = %v, want %v", got, want)
	}
}

func TestTextDiffMultibyteText(t *testing.T) {
	// The shared head is 20 three-byte runes, 60 bytes. Truncating the probe
	// by bytes would stop at the head alone, find it in the baseline, and
	// miss the fragment; truncating by characters keeps part of the tail.
	head := strings.Repeat("日", 20)
	fragment := head + " only the rendered capture carries this continuation text"
	baseline := "Intro sentence for the baseline. " + head + ". Closing line."
	rendered := baseline + " " + fragment + "."

	got := textDiff(baseline, rendered)
	want := []string{fragment}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("textDiff() = %v, want %v", got, want)
	}
}

func TestTextDiffCap(t *testing.T) {
	var rendered strings.Builder
	for i := 0; i < 50; i++ {
		rendered.WriteString("This is uniquely numbered sentence number ")
		rendered.WriteString(strings.Repeat("x", i+1))
		rendered.WriteString(". ")
	}

	got := textDiff("", rendered.String())
	if len(got) > maxJSOnlyText {
		t.Errorf("textDiff() returned %d fragments, cap is %d", len(got), maxJSOnlyText)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		ratio float64
		want  model.RiskTier
	}{
		{0, model.RiskLow},
		{4.9, model.RiskLow},
		{5, model.RiskModerate},
		{24.9, model.RiskModerate},
		{25, model.RiskHigh},
		{49.9, model.RiskHigh},
		{50, model.RiskCritical},
		{100, model.RiskCritical},
	}

	for _, tt := range tests {
		if got := Classify(tt.ratio, DefaultRiskBands); got != tt.want {
			t.Errorf("Classify(%v) = %v, want %v", tt.ratio, got, tt.want)
		}
	}
}

func TestCompareIdempotent(t *testing.T) {
	a := &model.PageSnapshot{
		VisibleText:    "Hello world from the baseline capture of this page.",
		WordCount:      9,
		TextLength:     52,
		Headings:       map[int][]string{1: {"Hello"}},
		HeadingCount:   1,
		InternalLinks:  []string{"https://e.com/a"},
		SelectorCounts: map[string]int{"section": 1},
	}
	b := &model.PageSnapshot{
		VisibleText:    "Hello world from the baseline capture of this page. Plus a client rendered sentence here.",
		WordCount:      15,
		TextLength:     91,
		Headings:       map[int][]string{1: {"Hello"}, 2: {"Extra"}},
		HeadingCount:   2,
		InternalLinks:  []string{"https://e.com/a", "https://e.com/b"},
		SelectorCounts: map[string]int{"section": 3, "iframe": 1},
	}

	first := Compare(a, b)
	second := Compare(a, b)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Compare() is not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}
