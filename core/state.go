package orchestration

// DialogueState is the orchestrator-level conversation state. Exactly one
// state is active at a time; Listening and Speaking are mutually exclusive
// by construction of the transition table.
type DialogueState string

const (
	// StateIdle means no capture, generation or playback is in flight.
	StateIdle DialogueState = "idle"
	// StateListening means a capture session is live.
	StateListening DialogueState = "listening"
	// StateAwaitingResponse means an utterance was sent to the generation
	// service and no speakable chunk has arrived yet.
	StateAwaitingResponse DialogueState = "awaiting-response"
	// StateSpeaking means synthesized chunks are being played.
	StateSpeaking DialogueState = "speaking"
	// StateTerminated means a terminal service match was produced; the
	// session is over and no further listening phase is entered.
	StateTerminated DialogueState = "terminated"
)

func (s DialogueState) String() string { return string(s) }

var validTransitions = map[DialogueState][]DialogueState{
	StateIdle:             {StateListening},
	StateListening:        {StateAwaitingResponse, StateListening, StateIdle},
	StateAwaitingResponse: {StateSpeaking, StateTerminated, StateIdle},
	StateSpeaking:         {StateListening, StateTerminated, StateIdle},
	StateTerminated:       {},
}

func transitionValid(from, to DialogueState) bool {
	// explicit reset is allowed from anywhere
	if to == StateIdle {
		return true
	}

	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// InvalidTransitionError reports a refused dialogue state transition.
type InvalidTransitionError struct {
	From DialogueState
	To   DialogueState
}

func (e *InvalidTransitionError) Error() string {
	return "invalid dialogue state transition from " + e.From.String() + " to " + e.To.String()
}
