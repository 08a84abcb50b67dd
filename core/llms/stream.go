package llms

import "context"

// Stream is an in-flight streamed generation request. Chunks is an
// iterator-style sequence of stream chunks terminated by an end-of-stream
// (the iterator simply returns).
type Stream interface {
	Chunks(context.Context) func(func(StreamChunk, error) bool)
}

type StreamChunk interface {
	FinishReason() *string
}

// StreamContentChunk carries an incremental fragment of generated text.
type StreamContentChunk interface {
	StreamChunk
	Content() string
}

// StreamUsageChunk carries token-usage metadata, typically reported once at
// the end of a stream.
type StreamUsageChunk interface {
	StreamChunk
	Usage() Usage
}

// Usage holds token counts reported by the generation service for one
// request.
type Usage struct {
	// InputTokens represents the number of input tokens.
	InputTokens int
	// OutputTokens represents the number of output tokens.
	OutputTokens int
	// TotalTokens represents the total number of tokens used.
	TotalTokens int
}
