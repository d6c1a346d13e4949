// Package tool exposes the differential rendering analyzer behind the
// agent-facing invocation contract: one call per URL, one formatted text
// report back, and every failure resolved to a returned "ERROR ..." string
// rather than an error crossing the boundary.
package tool

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"renderdiff/internal/diff"
	"renderdiff/internal/fetch"
	"renderdiff/internal/log"
	"renderdiff/internal/render"
	"renderdiff/internal/report"
	"renderdiff/internal/snapshot"
)

// Request is one invocation of the analyzer.
type Request struct {
	URL string `json:"url"`

	// WaitForSelector is an optional CSS selector the renderer waits on
	// best-effort before capturing.
	WaitForSelector string `json:"waitForSelector,omitempty"`

	// WaitMs overrides the settle delay; values below the 3000 ms floor are
	// raised to it.
	WaitMs int `json:"waitMs,omitempty"`
}

// RenderDiff compares a page as crawlers see it against its fully rendered
// form. It holds only the renderer capability; every invocation is
// independent.
type RenderDiff struct {
	renderer render.Renderer
}

func NewRenderDiff(r render.Renderer) *RenderDiff {
	return &RenderDiff{renderer: r}
}

// Analyze runs the full pipeline: fetch -> extract, render -> extract,
// diff, classify, report. The baseline fetch is fatal (no rendering phase is
// attempted without it); a missing browser capability degrades to a
// single-snapshot report.
func (t *RenderDiff) Analyze(ctx context.Context, req Request) string {
	start := time.Now()

	rawHTML, err := fetch.RawHTML(ctx, req.URL)
	if err != nil {
		var statusErr *fetch.StatusError
		if errors.As(err, &statusErr) {
			return fmt.Sprintf("ERROR: HTTP %d fetching raw HTML for %s", statusErr.StatusCode, req.URL)
		}
		return fmt.Sprintf("ERROR fetching raw HTML for %s: %v", req.URL, err)
	}

	baseline, err := snapshot.Extract(rawHTML, req.URL)
	if err != nil {
		return fmt.Sprintf("ERROR parsing content from %s: %v", req.URL, err)
	}

	renderedHTML, err := t.renderer.Render(ctx, req.URL, render.Options{
		WaitForSelector: req.WaitForSelector,
		SettleDelay:     time.Duration(req.WaitMs) * time.Millisecond,
	})
	if err != nil {
		if errors.Is(err, render.ErrUnavailable) {
			log.Logger.Warn("renderer unavailable, producing single-snapshot report",
				zap.String("url", req.URL))
			return report.BuildSingleSnapshot(req.URL, baseline)
		}
		return fmt.Sprintf("ERROR rendering %s: %v", req.URL, err)
	}

	rendered, err := snapshot.Extract(renderedHTML, req.URL)
	if err != nil {
		return fmt.Sprintf("ERROR parsing rendered content from %s: %v", req.URL, err)
	}

	d := diff.Compare(baseline, rendered)
	tier := diff.Classify(d.ClientRenderedRatio, diff.DefaultRiskBands)

	log.Logger.Info("analysis complete",
		zap.String("url", req.URL),
		zap.String("risk", string(tier)),
		zap.Float64("client_rendered_ratio", d.ClientRenderedRatio),
		zap.Duration("duration", time.Since(start)),
	)

	return report.Build(req.URL, baseline, rendered, d, tier)
}
