package orchestration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/surajmsd1/aisearch-core/core/audio"
	"github.com/surajmsd1/aisearch-core/core/events"
	"github.com/surajmsd1/aisearch-core/core/speechtotext"
)

// ErrCaptureCancelled resolves a capture session that was aborted before an
// utterance was finalized.
var ErrCaptureCancelled = errors.New("capture session cancelled")

type captureOutcome struct {
	transcript string
	err        error
}

// captureSession wraps one listening attempt: it starts transcription,
// accumulates finalized fragments into the running utterance, keeps the
// latest interim text for live display, and resolves once the endpoint
// detector decides the user stopped talking. Interim text not yet finalized
// at stop time is discarded; it is not part of the committed utterance.
//
// A session resolves exactly once, with either the accumulated transcript
// or an error.
type captureSession struct {
	id string

	client       SpeechToText
	detector     *endpointDetector
	pollInterval time.Duration
	encodingInfo audio.EncodingInfo
	emitEvent    eventEmitter

	mu       sync.Mutex
	segments []string
	interim  string

	done        chan captureOutcome
	resolveOnce sync.Once
	stopPolling context.CancelFunc
}

func newCaptureSession(client SpeechToText, silenceThreshold time.Duration, encodingInfo audio.EncodingInfo, emitEvent eventEmitter) *captureSession {
	if emitEvent == nil {
		emitEvent = noopEventEmitter
	}
	if silenceThreshold <= 0 {
		silenceThreshold = defaultSilenceThreshold
	}

	return &captureSession{
		id:           uuid.NewString(),
		client:       client,
		detector:     newEndpointDetector(silenceThreshold),
		pollInterval: silenceThreshold,
		encodingInfo: encodingInfo,
		emitEvent:    emitEvent,
		done:         make(chan captureOutcome, 1),
	}
}

// Start opens the transcription stream and begins endpoint polling. A start
// failure is returned directly and the session is left unresolved-free: the
// caller may retry with a fresh session.
func (s *captureSession) Start(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("no speech-to-text client configured")
	}

	if err := s.client.Transcribe(ctx,
		speechtotext.WithFragmentCallback(s.onFragment),
		speechtotext.WithErrorCallback(s.onError),
		speechtotext.WithEncodingInfo(s.encodingInfo),
	); err != nil {
		return fmt.Errorf("failed to start capture: %w", err)
	}

	pollCtx, cancel := context.WithCancel(ctx)
	s.stopPolling = cancel
	go s.pollEndpoint(pollCtx)

	return nil
}

// Await blocks until the session resolves or the context is cancelled.
func (s *captureSession) Await(ctx context.Context) (string, error) {
	select {
	case outcome := <-s.done:
		return outcome.transcript, outcome.err
	case <-ctx.Done():
		s.Cancel()
		return "", ctx.Err()
	}
}

// Cancel aborts the session. Safe to call multiple times and after the
// session resolved.
func (s *captureSession) Cancel() {
	s.resolve(captureOutcome{err: ErrCaptureCancelled})
}

// SendAudio forwards a raw audio frame into the transcription stream.
func (s *captureSession) SendAudio(audio []byte) error {
	return s.client.SendAudio(audio)
}

// Interim returns the latest non-final transcript text.
func (s *captureSession) Interim() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interim
}

func (s *captureSession) onFragment(text string, isFinal bool) {
	s.detector.Update(isFinal, time.Now())

	s.mu.Lock()
	if isFinal {
		s.segments = append(s.segments, text)
		s.interim = ""
	} else {
		s.interim = text
	}
	s.mu.Unlock()

	if isFinal {
		s.emitEvent(events.NewUserTranscriptSegment(text))
		s.emitEvent(events.NewUserTranscriptInterimUpdated(""))
	} else {
		s.emitEvent(events.NewUserTranscriptInterimUpdated(text))
	}
}

func (s *captureSession) onError(err error) {
	s.resolve(captureOutcome{err: fmt.Errorf("capture failed: %w", err)})
}

func (s *captureSession) pollEndpoint(ctx context.Context) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if s.detector.ShouldStop(now) {
				s.finish()
				return
			}
		}
	}
}

func (s *captureSession) finish() {
	s.mu.Lock()
	transcript := strings.TrimSpace(strings.Join(s.segments, " "))
	s.mu.Unlock()

	s.resolve(captureOutcome{transcript: transcript})
}

func (s *captureSession) resolve(outcome captureOutcome) {
	s.resolveOnce.Do(func() {
		if s.stopPolling != nil {
			s.stopPolling()
		}
		if err := s.client.StopStream(); err != nil {
			logger.Warn("failed to stop transcription stream", "error", err)
		}
		if outcome.err == nil {
			s.emitEvent(events.NewUserTranscriptFinal(outcome.transcript))
		}
		s.done <- outcome
	})
}
