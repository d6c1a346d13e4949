package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"renderdiff/internal/util"
)

const (
	clientIdleTTL = 5 * time.Minute
	evictInterval = time.Minute
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientRegistry tracks one token bucket per client address and evicts
// buckets idle past clientIdleTTL.
type clientRegistry struct {
	mu      sync.Mutex
	clients map[string]*client
	rps     rate.Limit
	burst   int
}

func newClientRegistry(rps rate.Limit, burst int) *clientRegistry {
	cr := &clientRegistry{
		clients: make(map[string]*client),
		rps:     rps,
		burst:   burst,
	}
	go cr.evictLoop()
	return cr
}

func (cr *clientRegistry) evictLoop() {
	for {
		time.Sleep(evictInterval)
		cr.mu.Lock()
		for key, c := range cr.clients {
			if time.Since(c.lastSeen) > clientIdleTTL {
				delete(cr.clients, key)
			}
		}
		cr.mu.Unlock()
	}
}

func (cr *clientRegistry) allow(key string) bool {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	c, ok := cr.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(cr.rps, cr.burst)}
		cr.clients[key] = c
	}
	c.lastSeen = time.Now()
	return c.limiter.Allow()
}

// RateLimit throttles requests per client address. Clients behind a proxy are
// keyed by X-Forwarded-For, not by the proxy's own address.
func RateLimit(rps rate.Limit, burst int) func(http.Handler) http.Handler {
	registry := newClientRegistry(rps, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !registry.allow(util.GetClientIPAddress(r)) {
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
