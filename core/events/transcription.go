package events

const (
	// KindUserTranscriptInterimUpdated identifies live, not yet finalized
	// transcript text for the current utterance.
	KindUserTranscriptInterimUpdated Kind = "user_transcript.interim_updated"
	// KindUserTranscriptSegment identifies a finalized transcript segment
	// committed to the running utterance.
	KindUserTranscriptSegment Kind = "user_transcript.segment"
	// KindUserTranscriptFinal identifies the complete utterance resolved by a
	// capture session.
	KindUserTranscriptFinal Kind = "user_transcript.final"
)

// UserTranscriptInterimUpdated carries the latest interim transcript. An
// empty transcript clears the interim display.
type UserTranscriptInterimUpdated struct {
	Base
	Transcript string
}

func NewUserTranscriptInterimUpdated(transcript string) UserTranscriptInterimUpdated {
	return UserTranscriptInterimUpdated{Base: NewBase(KindUserTranscriptInterimUpdated), Transcript: transcript}
}

// UserTranscriptSegment carries a finalized transcript segment.
type UserTranscriptSegment struct {
	Base
	Segment string
}

func NewUserTranscriptSegment(segment string) UserTranscriptSegment {
	return UserTranscriptSegment{Base: NewBase(KindUserTranscriptSegment), Segment: segment}
}

// UserTranscriptFinal carries the finalized utterance for one capture
// session.
type UserTranscriptFinal struct {
	Base
	Transcript string
}

func NewUserTranscriptFinal(transcript string) UserTranscriptFinal {
	return UserTranscriptFinal{Base: NewBase(KindUserTranscriptFinal), Transcript: transcript}
}
