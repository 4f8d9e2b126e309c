package main

import (
	"net"
	"sync"

	"golang.org/x/time/rate"
)

// Per-IP token buckets. Entries are created on first sight and kept for
// the life of the process.
var (
	limiterMu    sync.Mutex
	limiters     = make(map[string]*rate.Limiter)
	limiterRate  = rate.Limit(1)
	limiterBurst = 10
)

func setRateLimit(rps float64) {
	limiterMu.Lock()
	defer limiterMu.Unlock()
	limiterRate = rate.Limit(rps)
	limiters = make(map[string]*rate.Limiter)
}

// rateLimitAllow reports whether the client behind remoteAddr may issue
// another request right now.
func rateLimitAllow(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}

	limiterMu.Lock()
	defer limiterMu.Unlock()

	limiter, ok := limiters[host]
	if !ok {
		limiter = rate.NewLimiter(limiterRate, limiterBurst)
		limiters[host] = limiter
	}
	return limiter.Allow()
}
