package main

import "testing"

func TestRateLimitAllowPerHost(t *testing.T) {
	setRateLimit(0.001)
	defer setRateLimit(1000)

	allowed := 0
	for i := 0; i < limiterBurst+5; i++ {
		if rateLimitAllow("198.51.100.1:5000") {
			allowed++
		}
	}
	if allowed != limiterBurst {
		t.Errorf("allowed %d requests, want burst of %d", allowed, limiterBurst)
	}

	// A different host gets its own bucket.
	if !rateLimitAllow("198.51.100.2:5000") {
		t.Error("fresh host should be allowed")
	}
}

func TestRateLimitAllowSharesBucketAcrossPorts(t *testing.T) {
	setRateLimit(0.001)
	defer setRateLimit(1000)

	for i := 0; i < limiterBurst; i++ {
		rateLimitAllow("198.51.100.7:1000")
	}
	if rateLimitAllow("198.51.100.7:2000") {
		t.Error("same host on a new port should share the exhausted bucket")
	}
}

func TestRateLimitAllowBareHost(t *testing.T) {
	setRateLimit(1000)
	if !rateLimitAllow("no-port-here") {
		t.Error("address without a port should still be limited by host string")
	}
}
