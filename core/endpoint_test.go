package orchestration

import (
	"testing"
	"time"
)

func TestEndpointDetectorStaysQuietBeforeSpeech(t *testing.T) {
	detector := newEndpointDetector(2 * time.Second)

	now := time.Now()
	if detector.ShouldStop(now) {
		t.Fatalf("expected no stop before any speech")
	}
	if detector.ShouldStop(now.Add(time.Hour)) {
		t.Fatalf("expected leading silence never to stop the capture")
	}
}

func TestEndpointDetectorStopsAfterSilenceThreshold(t *testing.T) {
	detector := newEndpointDetector(2 * time.Second)

	start := time.Now()
	detector.Update(false, start)

	if detector.ShouldStop(start.Add(1999 * time.Millisecond)) {
		t.Fatalf("expected no stop just under the threshold")
	}
	if !detector.ShouldStop(start.Add(2 * time.Second)) {
		t.Fatalf("expected stop exactly at the threshold")
	}
	if !detector.ShouldStop(start.Add(3 * time.Second)) {
		t.Fatalf("expected stop past the threshold")
	}
}

func TestEndpointDetectorFragmentsPostponeTheStop(t *testing.T) {
	detector := newEndpointDetector(2 * time.Second)

	start := time.Now()
	detector.Update(false, start)
	detector.Update(true, start.Add(1500*time.Millisecond))

	if detector.ShouldStop(start.Add(3 * time.Second)) {
		t.Fatalf("expected the later fragment to reset the silence window")
	}
	if !detector.ShouldStop(start.Add(3500 * time.Millisecond)) {
		t.Fatalf("expected stop once silence is measured from the last fragment")
	}
}

func TestEndpointDetectorReset(t *testing.T) {
	detector := newEndpointDetector(time.Second)

	start := time.Now()
	detector.Update(true, start)
	detector.Reset()

	if detector.ShouldStop(start.Add(time.Hour)) {
		t.Fatalf("expected reset to forget earlier speech")
	}
}
