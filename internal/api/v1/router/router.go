package router

import (
	"net/http"

	"golang.org/x/time/rate"

	"renderdiff/internal/api/v1/handler"
	"renderdiff/internal/api/v1/middleware"
	"renderdiff/internal/config"
	"renderdiff/internal/log"
)

func New(h *handler.Handler) http.Handler {
	appName := "renderdiff"
	apiVersion := "v1"
	basePath := "/" + appName + "/api/" + apiVersion

	mux := http.NewServeMux()

	register := func(path string, hf http.HandlerFunc) {
		mux.HandleFunc(basePath+path, hf)
	}

	register("/health", h.HealthCheck)
	register("/analyze", h.Analyze)

	var inner http.Handler = mux
	if config.AppConfig.BasicAuthUser != "" && config.AppConfig.BasicAuthPass != "" {
		inner = middleware.BasicAuth(config.AppConfig.BasicAuthUser, config.AppConfig.BasicAuthPass)(inner)
	}

	rateLimit := middleware.RateLimit(
		rate.Limit(config.AppConfig.RateLimitRPS),
		config.AppConfig.RateLimitBurst,
	)

	return middleware.RecoverPanic(
		log.Logger,
		middleware.Logging(
			middleware.Metrics(
				rateLimit(inner),
			),
		),
	)
}

func NewMetricsRouter() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler.Metrics())
	return mux
}
