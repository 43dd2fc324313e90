package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// ThrottleGate admits at most one hit per key per window. Keys expire on
// their own; callers never clean up.
type ThrottleGate struct {
	window time.Duration
	cache  *cache.Cache
}

func NewThrottleGate(window time.Duration) *ThrottleGate {
	return &ThrottleGate{
		window: window,
		cache:  cache.New(window, 10*window),
	}
}

// Allow reports whether the key is outside its window. The first caller in a
// window wins; everyone else is throttled until the entry expires.
func (g *ThrottleGate) Allow(key string) bool {
	return g.cache.Add(key, struct{}{}, g.window) == nil
}
