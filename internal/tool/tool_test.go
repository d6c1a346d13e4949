package tool

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"renderdiff/internal/render"
)

// stubRenderer returns canned markup and records whether it was invoked.
type stubRenderer struct {
	html   string
	err    error
	called bool
}

func (s *stubRenderer) Render(ctx context.Context, url string, opts render.Options) (string, error) {
	s.called = true
	if s.err != nil {
		return "", s.err
	}
	return s.html, nil
}

func serveHTML(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func page(words int, headings string) string {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	sb.WriteString(headings)
	sb.WriteString("<p>")
	for i := 0; i < words; i++ {
		fmt.Fprintf(&sb, "word%d ", i)
	}
	sb.WriteString("</p></body></html>")
	return sb.String()
}

func TestAnalyzeIdenticalContent(t *testing.T) {
	markup := page(500, "<h1>Title</h1><h2>Pricing</h2>")
	server := serveHTML(t, markup, http.StatusOK)
	defer server.Close()

	rd := NewRenderDiff(&stubRenderer{html: markup})
	out := rd.Analyze(context.Background(), Request{URL: server.URL})

	if !strings.Contains(out, "RISK: LOW (0.0% of visible text is client-rendered)") {
		t.Errorf("identical content must be low risk at 0%%, got:\n%s", out)
	}
	if strings.Contains(out, "HEADINGS ONLY PRESENT AFTER RENDERING") {
		t.Error("identical headings must not produce a JS-only heading section")
	}
	if !strings.Contains(out, "No meta tag changes detected.") {
		t.Error("identical meta must report no changes")
	}
}

func TestAnalyzeFullyClientRendered(t *testing.T) {
	server := serveHTML(t, "<html><body></body></html>", http.StatusOK)
	defer server.Close()

	rd := NewRenderDiff(&stubRenderer{html: page(800, "")})
	out := rd.Analyze(context.Background(), Request{URL: server.URL})

	if !strings.Contains(out, "RISK: CRITICAL (100.0% of visible text is client-rendered)") {
		t.Errorf("empty baseline vs rendered text must be critical at 100%%, got:\n%s", out)
	}
}

func TestAnalyzeNewHeadingAfterRendering(t *testing.T) {
	baseline := page(50, "<h2>Pricing</h2>")
	rendered := page(50, "<h2>Pricing</h2><h2>FAQ</h2>")

	server := serveHTML(t, baseline, http.StatusOK)
	defer server.Close()

	rd := NewRenderDiff(&stubRenderer{html: rendered})
	out := rd.Analyze(context.Background(), Request{URL: server.URL})

	if !strings.Contains(out, "H2: FAQ") {
		t.Errorf("expected H2: FAQ in JS-only headings, got:\n%s", out)
	}
	if strings.Contains(out, "H2: Pricing") {
		t.Error("heading present in both captures must not be reported")
	}
}

func TestAnalyzeHTTPErrorSkipsRendering(t *testing.T) {
	server := serveHTML(t, "missing", http.StatusNotFound)
	defer server.Close()

	stub := &stubRenderer{html: "<html></html>"}
	rd := NewRenderDiff(stub)
	out := rd.Analyze(context.Background(), Request{URL: server.URL})

	want := fmt.Sprintf("ERROR: HTTP 404 fetching raw HTML for %s", server.URL)
	if out != want {
		t.Errorf("Analyze() = %q, want %q", out, want)
	}
	if stub.called {
		t.Error("rendering must not be attempted when the baseline fetch fails")
	}
}

func TestAnalyzeTransportError(t *testing.T) {
	server := serveHTML(t, "", http.StatusOK)
	server.Close() // refuse connections

	rd := NewRenderDiff(&stubRenderer{})
	out := rd.Analyze(context.Background(), Request{URL: server.URL})

	if !strings.HasPrefix(out, "ERROR fetching raw HTML for "+server.URL+": ") {
		t.Errorf("Analyze() = %q, want transport ERROR string", out)
	}
}

func TestAnalyzeRendererUnavailableDegrades(t *testing.T) {
	server := serveHTML(t, page(120, "<h1>Only Snapshot</h1>"), http.StatusOK)
	defer server.Close()

	rd := NewRenderDiff(render.Unavailable{})
	out := rd.Analyze(context.Background(), Request{URL: server.URL})

	if !strings.Contains(out, "SINGLE-SNAPSHOT ANALYSIS (RENDERING UNAVAILABLE)") {
		t.Errorf("missing degraded-mode marker, got:\n%s", out)
	}
	if strings.HasPrefix(out, "ERROR") {
		t.Error("capability absence must degrade, not error")
	}
}

func TestAnalyzeNavigationError(t *testing.T) {
	server := serveHTML(t, page(10, ""), http.StatusOK)
	defer server.Close()

	rd := NewRenderDiff(&stubRenderer{err: fmt.Errorf("net::ERR_NAME_NOT_RESOLVED")})
	out := rd.Analyze(context.Background(), Request{URL: server.URL})

	want := fmt.Sprintf("ERROR rendering %s: net::ERR_NAME_NOT_RESOLVED", server.URL)
	if out != want {
		t.Errorf("Analyze() = %q, want %q", out, want)
	}
}
