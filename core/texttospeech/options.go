// Package texttospeech defines the option contract between the dialogue
// core and speech synthesis clients.
package texttospeech

import "github.com/surajmsd1/aisearch-core/core/audio"

// Synthesis is the result of synthesizing one text chunk.
type Synthesis struct {
	// Audio is raw playable audio in the requested encoding.
	Audio []byte
	// Characters is the usage figure for the chunk.
	Characters int
}

type SynthesisOptions struct {
	// Voice selects the synthesis voice/model.
	Voice string
	// Speed is a playback speed multiplier; zero means service default.
	Speed float64

	EncodingInfo audio.EncodingInfo
}

type SynthesisOption func(*SynthesisOptions)

func WithVoice(voice string) SynthesisOption {
	return func(o *SynthesisOptions) {
		o.Voice = voice
	}
}

func WithSpeed(speed float64) SynthesisOption {
	return func(o *SynthesisOptions) {
		o.Speed = speed
	}
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) SynthesisOption {
	return func(o *SynthesisOptions) {
		o.EncodingInfo = encodingInfo
	}
}
