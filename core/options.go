package orchestration

import (
	"context"
	"time"

	"github.com/surajmsd1/aisearch-core/core/audio"
	"github.com/surajmsd1/aisearch-core/core/llms"
	"github.com/surajmsd1/aisearch-core/core/speechtotext"
	"github.com/surajmsd1/aisearch-core/core/taxonomy"
	"github.com/surajmsd1/aisearch-core/core/texttospeech"
)

// StreamingLLM produces a streamed model response for a prompt.
type StreamingLLM interface {
	PromptWithStream(ctx context.Context, prompt string, opts ...llms.StreamingPromptOption) llms.Stream
}

// SpeechToText is a live transcription stream over raw audio frames.
type SpeechToText interface {
	Transcribe(ctx context.Context, opts ...speechtotext.TranscriptionOption) error
	SendAudio(audio []byte) error
	StopStream() error
}

// TextToSpeech converts text into playable audio.
type TextToSpeech interface {
	Synthesize(ctx context.Context, text string, opts ...texttospeech.SynthesisOption) (*texttospeech.Synthesis, error)
}

// AudioInput is a microphone-like source of raw audio frames.
type AudioInput interface {
	Stream(ctx context.Context, onAudio func([]byte)) error
	EncodingInfo() audio.EncodingInfo
}

// AudioOutput plays raw audio, blocking until playback completed.
type AudioOutput interface {
	Play(ctx context.Context, audio []byte) error
	EncodingInfo() audio.EncodingInfo
}

// OrchestratorOption configures a new Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithStreamingLLM sets the model client used to narrow utterances to a
// service.
func WithStreamingLLM(llm StreamingLLM) OrchestratorOption {
	return func(o *Orchestrator) { o.llm = llm }
}

// WithSpeechToTextClient sets the live transcription client.
func WithSpeechToTextClient(client SpeechToText) OrchestratorOption {
	return func(o *Orchestrator) { o.speechToText = client }
}

// WithTextToSpeechClient sets the synthesis client.
func WithTextToSpeechClient(client TextToSpeech) OrchestratorOption {
	return func(o *Orchestrator) { o.textToSpeech = client }
}

// WithAudioInput sets the audio frame source.
func WithAudioInput(input AudioInput) OrchestratorOption {
	return func(o *Orchestrator) { o.audioInput = input }
}

// WithAudioOutput sets the playback sink.
func WithAudioOutput(output AudioOutput) OrchestratorOption {
	return func(o *Orchestrator) { o.audioOutput = output }
}

// WithTaxonomy replaces the built-in service taxonomy.
func WithTaxonomy(services taxonomy.Taxonomy) OrchestratorOption {
	return func(o *Orchestrator) { o.services = services }
}

// WithSilenceThreshold overrides how long the user must stay silent before
// an utterance is considered finished.
func WithSilenceThreshold(threshold time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		if threshold > 0 {
			o.silenceThreshold = threshold
		}
	}
}

// WithSettleDelay overrides the pause between the end of assistant playback
// and the automatic start of the next listening phase.
func WithSettleDelay(delay time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		if delay >= 0 {
			o.settleDelay = delay
		}
	}
}

type orchestrateOptions struct {
	onInterimTranscription func(transcript string)
	onTranscription        func(transcript string)
	onResponse             func(segment string)
	onResponseEnd          func(response string)
	onSpeakingStateChanged func(speaking bool)
	onStateChanged         func(from, to DialogueState)
	onServiceMatched       func(result TerminalResult)
	onUsageUpdated         func(usage UsageSnapshot)
}

// OrchestrateOption attaches callbacks to one Orchestrate run.
type OrchestrateOption func(*orchestrateOptions)

// WithInterimTranscriptionCallback reports live transcript text before it is
// finalized. An empty string clears the interim display.
func WithInterimTranscriptionCallback(callback func(transcript string)) OrchestrateOption {
	return func(o *orchestrateOptions) { o.onInterimTranscription = callback }
}

// WithTranscriptionCallback reports each finalized user utterance.
func WithTranscriptionCallback(callback func(transcript string)) OrchestrateOption {
	return func(o *orchestrateOptions) { o.onTranscription = callback }
}

// WithResponseCallback reports assistant response text as it streams in.
func WithResponseCallback(callback func(segment string)) OrchestrateOption {
	return func(o *orchestrateOptions) { o.onResponse = callback }
}

// WithResponseEndCallback reports the complete assistant response once the
// stream finished.
func WithResponseEndCallback(callback func(response string)) OrchestrateOption {
	return func(o *orchestrateOptions) { o.onResponseEnd = callback }
}

// WithSpeakingStateChangedCallback reports playback starting and stopping.
func WithSpeakingStateChangedCallback(callback func(speaking bool)) OrchestrateOption {
	return func(o *orchestrateOptions) { o.onSpeakingStateChanged = callback }
}

// WithStateChangedCallback reports dialogue state transitions.
func WithStateChangedCallback(callback func(from, to DialogueState)) OrchestrateOption {
	return func(o *orchestrateOptions) { o.onStateChanged = callback }
}

// WithServiceMatchedCallback reports the terminal category/subcategory match.
func WithServiceMatchedCallback(callback func(result TerminalResult)) OrchestrateOption {
	return func(o *orchestrateOptions) { o.onServiceMatched = callback }
}

// WithUsageUpdatedCallback reports cumulative usage after every update.
func WithUsageUpdatedCallback(callback func(usage UsageSnapshot)) OrchestrateOption {
	return func(o *orchestrateOptions) { o.onUsageUpdated = callback }
}
