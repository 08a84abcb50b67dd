package orchestration

import (
	"sync"
	"time"
)

// defaultSilenceThreshold is both the silence duration that ends an
// utterance and the interval at which the capture session polls the
// detector.
const defaultSilenceThreshold = 2000 * time.Millisecond

// endpointDetector decides when the user has stopped talking based on the
// silence elapsed since the last transcript fragment. It never signals a
// stop before speech has started, so leading silence does not cut a capture
// short; an overall session timeout is the caller's policy.
type endpointDetector struct {
	mu sync.Mutex

	threshold      time.Duration
	speechStarted  bool
	lastSpeechTime time.Time
}

func newEndpointDetector(threshold time.Duration) *endpointDetector {
	if threshold <= 0 {
		threshold = defaultSilenceThreshold
	}
	return &endpointDetector{threshold: threshold}
}

// Update records a transcript fragment. Interim and final fragments both
// count as speech activity.
func (d *endpointDetector) Update(_ bool, at time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.speechStarted = true
	d.lastSpeechTime = at
}

// ShouldStop reports whether speech has started and at least the silence
// threshold has elapsed since the last fragment.
func (d *endpointDetector) ShouldStop(now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.speechStarted {
		return false
	}

	return now.Sub(d.lastSpeechTime) >= d.threshold
}

func (d *endpointDetector) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.speechStarted = false
	d.lastSpeechTime = time.Time{}
}
