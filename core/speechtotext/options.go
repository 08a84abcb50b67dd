// Package speechtotext defines the option contract between the dialogue
// core and live transcription clients.
package speechtotext

import "github.com/surajmsd1/aisearch-core/core/audio"

type TranscriptionOptions struct {
	// FragmentCallback receives every transcript fragment. isFinal marks
	// fragments committed to the utterance; non-final fragments are interim
	// text that may still change.
	FragmentCallback func(text string, isFinal bool)
	// SpeechStartedCallback fires when the service first detects speech.
	SpeechStartedCallback func()
	// ErrorCallback receives transport errors observed after a session
	// started.
	ErrorCallback func(error)

	EncodingInfo audio.EncodingInfo
}

type TranscriptionOption func(*TranscriptionOptions)

func WithFragmentCallback(callback func(text string, isFinal bool)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.FragmentCallback = callback
	}
}

func WithSpeechStartedCallback(callback func()) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.SpeechStartedCallback = callback
	}
}

func WithErrorCallback(callback func(error)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.ErrorCallback = callback
	}
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.EncodingInfo = encodingInfo
	}
}
