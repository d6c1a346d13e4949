package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Store caches finished report text per request key at the HTTP layer; the
// analyzer itself stays stateless per invocation.
var Store *gocache.Cache

func Init(ttl time.Duration) {
	Store = gocache.New(ttl, 15*time.Minute)
}
