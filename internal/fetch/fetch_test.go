package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRawHTMLSuccess(t *testing.T) {
	const body = "<html><body>ok</body></html>"

	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	got, err := RawHTML(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("RawHTML() error = %v", err)
	}
	if got != body {
		t.Errorf("RawHTML() = %q, want %q", got, body)
	}
	if gotUA != CrawlerUserAgent {
		t.Errorf("User-Agent = %q, want crawler UA", gotUA)
	}
}

func TestRawHTMLFollowsRedirects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/final" {
			_, _ = w.Write([]byte("landed"))
			return
		}
		http.Redirect(w, r, "/final", http.StatusMovedPermanently)
	}))
	defer server.Close()

	got, err := RawHTML(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("RawHTML() error = %v", err)
	}
	if got != "landed" {
		t.Errorf("RawHTML() = %q, want %q", got, "landed")
	}
}

func TestRawHTMLStatusError(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
	}{
		{"not found", http.StatusNotFound},
		{"server error", http.StatusInternalServerError},
		{"forbidden", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			_, err := RawHTML(context.Background(), server.URL)
			var statusErr *StatusError
			if !errors.As(err, &statusErr) {
				t.Fatalf("RawHTML() error = %v, want *StatusError", err)
			}
			if statusErr.StatusCode != tt.statusCode {
				t.Errorf("StatusCode = %d, want %d", statusErr.StatusCode, tt.statusCode)
			}
		})
	}
}

func TestRawHTMLTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	_, err := RawHTML(context.Background(), server.URL)
	if err == nil {
		t.Fatal("RawHTML() expected transport error, got nil")
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		t.Errorf("transport failure must not be a *StatusError, got %v", err)
	}
}
