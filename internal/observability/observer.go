package observability

import "time"

// Call outcomes reported to the observer.
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Observer receives the lookup-path and worker-path signals. It is
// passed explicitly into each component at construction; no package
// holds an observer singleton.
type Observer interface {
	// CacheHit records a lookup served from the cache
	CacheHit(city string)
	// CacheMiss records a lookup that fell through to the provider
	CacheMiss(city string)
	// ProviderCall records one upstream call with its outcome and latency
	ProviderCall(outcome string, elapsed time.Duration)
	// PublishFailure records a cache-population message that could not be enqueued
	PublishFailure()
	// CacheWrite records one worker write attempt with its outcome
	CacheWrite(outcome string)
}

// NopObserver discards every signal. Default for tests.
type NopObserver struct{}

func (NopObserver) CacheHit(string)                    {}
func (NopObserver) CacheMiss(string)                   {}
func (NopObserver) ProviderCall(string, time.Duration) {}
func (NopObserver) PublishFailure()                    {}
func (NopObserver) CacheWrite(string)                  {}
