package events

import "testing"

func TestConstructorsEmitExpectedKinds(t *testing.T) {
	testCases := []struct {
		name     string
		event    Event
		expected Kind
	}{
		{name: "user interim updated", event: NewUserTranscriptInterimUpdated("text"), expected: KindUserTranscriptInterimUpdated},
		{name: "user transcript segment", event: NewUserTranscriptSegment("seg"), expected: KindUserTranscriptSegment},
		{name: "user transcript final", event: NewUserTranscriptFinal("text"), expected: KindUserTranscriptFinal},
		{name: "assistant response segment", event: NewAssistantResponseSegment("seg"), expected: KindAssistantResponseSegment},
		{name: "assistant response final", event: NewAssistantResponseFinal("text"), expected: KindAssistantResponseFinal},
		{name: "assistant playback started", event: NewAssistantPlaybackStarted("text"), expected: KindAssistantPlaybackStarted},
		{name: "assistant playback ended", event: NewAssistantPlaybackEnded("text"), expected: KindAssistantPlaybackEnded},
		{name: "dialogue state changed", event: NewDialogueStateChanged("idle", "listening", "session started"), expected: KindDialogueStateChanged},
		{name: "listening skipped", event: NewListeningSkipped("assistant is speaking"), expected: KindListeningSkipped},
		{name: "service matched", event: NewServiceMatched("housing", "shelter for men"), expected: KindServiceMatched},
		{name: "usage updated", event: NewUsageUpdated(1, 2, 3), expected: KindUsageUpdated},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := testCase.event.Kind(); got != testCase.expected {
				t.Fatalf("expected kind %q, got %q", testCase.expected, got)
			}
			if testCase.event.Timestamp().IsZero() {
				t.Fatalf("expected a non-zero timestamp")
			}
		})
	}
}

func TestServiceMatchedCarriesThePair(t *testing.T) {
	event := NewServiceMatched("food", "groceries")
	if event.Category != "food" || event.Subcategory != "groceries" {
		t.Fatalf("unexpected service match %+v", event)
	}
}
