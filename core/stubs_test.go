package orchestration

import (
	"context"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/surajmsd1/aisearch-core/core/audio"
	"github.com/surajmsd1/aisearch-core/core/llms"
	"github.com/surajmsd1/aisearch-core/core/speechtotext"
	"github.com/surajmsd1/aisearch-core/core/texttospeech"
)

// eventually polls a condition until it holds or the timeout elapses.
func eventually(t *testing.T, timeout time.Duration, condition func() bool, message string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v: %s", timeout, message)
}

type stubSpeechToText struct {
	mu      sync.Mutex
	options speechtotext.TranscriptionOptions

	startErr        error
	transcribeCalls int
	stopCalls       int
	sentFrames      int
}

func (s *stubSpeechToText) Transcribe(_ context.Context, opts ...speechtotext.TranscriptionOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.startErr != nil {
		return s.startErr
	}

	options := speechtotext.TranscriptionOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	s.options = options
	s.transcribeCalls++
	return nil
}

func (s *stubSpeechToText) SendAudio([]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sentFrames++
	return nil
}

func (s *stubSpeechToText) StopStream() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopCalls++
	return nil
}

func (s *stubSpeechToText) Streams() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcribeCalls
}

func (s *stubSpeechToText) Stops() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopCalls
}

// Fragment drives the registered fragment callback, mimicking a transcript
// message from the transcription service.
func (s *stubSpeechToText) Fragment(text string, isFinal bool) {
	s.mu.Lock()
	callback := s.options.FragmentCallback
	s.mu.Unlock()

	if callback != nil {
		callback(text, isFinal)
	}
}

// FailStream drives the registered error callback.
func (s *stubSpeechToText) FailStream(err error) {
	s.mu.Lock()
	callback := s.options.ErrorCallback
	s.mu.Unlock()

	if callback != nil {
		callback(err)
	}
}

type textChunk struct{ text string }

func (c textChunk) FinishReason() *string { return nil }
func (c textChunk) Content() string       { return c.text }

type usageChunk struct{ usage llms.Usage }

func (c usageChunk) FinishReason() *string { return nil }
func (c usageChunk) Usage() llms.Usage     { return c.usage }

type stubStream struct {
	chunks []llms.StreamChunk
	err    error

	// pauseAfter, when positive, stalls the stream after that many chunks
	// until resume is closed, mimicking a slow generation service
	pauseAfter int
	resume     chan struct{}
}

func (s stubStream) Chunks(ctx context.Context) func(func(llms.StreamChunk, error) bool) {
	return func(yield func(llms.StreamChunk, error) bool) {
		for i, chunk := range s.chunks {
			if s.pauseAfter > 0 && i == s.pauseAfter {
				select {
				case <-s.resume:
				case <-ctx.Done():
					return
				}
			}
			if !yield(chunk, nil) {
				return
			}
		}
		if s.err != nil {
			yield(nil, s.err)
		}
	}
}

type stubLLM struct {
	mu      sync.Mutex
	streams []stubStream
	prompts []string
}

func (l *stubLLM) PromptWithStream(_ context.Context, prompt string, _ ...llms.StreamingPromptOption) llms.Stream {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.prompts = append(l.prompts, prompt)
	if len(l.streams) == 0 {
		return stubStream{}
	}
	stream := l.streams[0]
	l.streams = l.streams[1:]
	return stream
}

func (l *stubLLM) Prompts() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	prompts := make([]string, len(l.prompts))
	copy(prompts, l.prompts)
	return prompts
}

type stubTextToSpeech struct {
	mu  sync.Mutex
	err error
}

func (s *stubTextToSpeech) Synthesize(_ context.Context, text string, _ ...texttospeech.SynthesisOption) (*texttospeech.Synthesis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	return &texttospeech.Synthesis{
		Audio:      []byte(text),
		Characters: utf8.RuneCountInString(text),
	}, nil
}

type stubAudioOutput struct {
	mu     sync.Mutex
	played []string

	playErr error
	// gate, when set, blocks every Play call until released
	gate chan struct{}
}

func (s *stubAudioOutput) Play(ctx context.Context, audioData []byte) error {
	s.mu.Lock()
	gate := s.gate
	s.played = append(s.played, string(audioData))
	err := s.playErr
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (s *stubAudioOutput) EncodingInfo() audio.EncodingInfo {
	return audio.GetDefaultEncodingInfo()
}

func (s *stubAudioOutput) Played() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	played := make([]string, len(s.played))
	copy(played, s.played)
	return played
}
