package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"renderdiff/internal/cache"
	"renderdiff/internal/tool"
	"renderdiff/internal/util"
	"renderdiff/pkg/response"
)

type Handler struct {
	analyzer *tool.RenderDiff
}

func New(analyzer *tool.RenderDiff) *Handler {
	return &Handler{analyzer: analyzer}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]string{"status": "ok"}, "")
}

// Analyze runs the differential rendering analysis for the url query
// parameter and returns the text report. Failure reports (the ERROR strings
// of the tool contract) are passed through as the body with a gateway
// status, and are never cached.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	url := r.URL.Query().Get("url")
	if url == "" {
		response.Error(w, http.StatusBadRequest, "missing 'url' query parameter")
		return
	}
	if !util.IsValidURL(url) {
		response.Error(w, http.StatusBadRequest, "invalid 'url' format")
		return
	}

	selector := r.URL.Query().Get("wait_for_selector")
	waitMs := 0
	if raw := r.URL.Query().Get("wait_ms"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			waitMs = parsed
		}
	}

	cacheKey := url + "|" + selector + "|" + strconv.Itoa(waitMs)
	if cache.Store != nil {
		if cached, found := cache.Store.Get(cacheKey); found {
			response.Text(w, http.StatusOK, cached.(string))
			return
		}
	}

	report := h.analyzer.Analyze(r.Context(), tool.Request{
		URL:             url,
		WaitForSelector: selector,
		WaitMs:          waitMs,
	})

	if strings.HasPrefix(report, "ERROR") {
		response.Text(w, http.StatusBadGateway, report)
		return
	}

	if cache.Store != nil {
		cache.Store.SetDefault(cacheKey, report)
	}
	response.Text(w, http.StatusOK, report)
}

func Metrics() http.Handler {
	return promhttp.Handler()
}
