package events

const (
	// KindAssistantResponseSegment identifies streamed assistant response text.
	KindAssistantResponseSegment Kind = "assistant_response.segment"
	// KindAssistantResponseFinal identifies assistant response stream completion.
	KindAssistantResponseFinal Kind = "assistant_response.final"
	// KindAssistantPlaybackStarted identifies start of playback for one chunk.
	KindAssistantPlaybackStarted Kind = "assistant_playback.started"
	// KindAssistantPlaybackEnded identifies end of playback for one chunk.
	KindAssistantPlaybackEnded Kind = "assistant_playback.ended"
)

// AssistantResponseSegment carries a streamed assistant response text segment.
type AssistantResponseSegment struct {
	Base
	Segment string
}

func NewAssistantResponseSegment(segment string) AssistantResponseSegment {
	return AssistantResponseSegment{Base: NewBase(KindAssistantResponseSegment), Segment: segment}
}

// AssistantResponseFinal carries the full assistant response once streaming
// is finished.
type AssistantResponseFinal struct {
	Base
	Response string
}

func NewAssistantResponseFinal(response string) AssistantResponseFinal {
	return AssistantResponseFinal{Base: NewBase(KindAssistantResponseFinal), Response: response}
}

// AssistantPlaybackStarted marks the start of playback of a synthesized
// chunk.
type AssistantPlaybackStarted struct {
	Base
	Text string
}

func NewAssistantPlaybackStarted(text string) AssistantPlaybackStarted {
	return AssistantPlaybackStarted{Base: NewBase(KindAssistantPlaybackStarted), Text: text}
}

// AssistantPlaybackEnded marks the end of playback of a synthesized chunk,
// whether it played out fully or failed.
type AssistantPlaybackEnded struct {
	Base
	Text string
}

func NewAssistantPlaybackEnded(text string) AssistantPlaybackEnded {
	return AssistantPlaybackEnded{Base: NewBase(KindAssistantPlaybackEnded), Text: text}
}
