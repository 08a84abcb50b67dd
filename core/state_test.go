package orchestration

import "testing"

func TestTransitionTableAllowsTheDialogueLoop(t *testing.T) {
	loop := []struct{ from, to DialogueState }{
		{StateIdle, StateListening},
		{StateListening, StateAwaitingResponse},
		{StateAwaitingResponse, StateSpeaking},
		{StateSpeaking, StateListening},
		{StateListening, StateListening},
		{StateAwaitingResponse, StateTerminated},
		{StateSpeaking, StateTerminated},
	}

	for _, transition := range loop {
		if !transitionValid(transition.from, transition.to) {
			t.Fatalf("expected %s -> %s to be valid", transition.from, transition.to)
		}
	}
}

func TestTransitionTableKeepsListeningAndSpeakingApart(t *testing.T) {
	if transitionValid(StateSpeaking, StateSpeaking) {
		t.Fatalf("expected speaking not to re-enter itself")
	}
	if transitionValid(StateIdle, StateSpeaking) {
		t.Fatalf("expected speaking to be reachable only through a response")
	}
	if transitionValid(StateListening, StateSpeaking) {
		t.Fatalf("expected no direct listening -> speaking transition")
	}
}

func TestTransitionTableTerminatedIsAbsorbing(t *testing.T) {
	for _, to := range []DialogueState{StateListening, StateAwaitingResponse, StateSpeaking, StateTerminated} {
		if transitionValid(StateTerminated, to) {
			t.Fatalf("expected terminated -> %s to be refused", to)
		}
	}
}

func TestTransitionTableResetIsAlwaysAllowed(t *testing.T) {
	for _, from := range []DialogueState{StateIdle, StateListening, StateAwaitingResponse, StateSpeaking, StateTerminated} {
		if !transitionValid(from, StateIdle) {
			t.Fatalf("expected %s -> idle to be allowed", from)
		}
	}
}

func TestInvalidTransitionErrorNamesBothStates(t *testing.T) {
	err := &InvalidTransitionError{From: StateTerminated, To: StateListening}
	want := "invalid dialogue state transition from terminated to listening"
	if err.Error() != want {
		t.Fatalf("unexpected error message %q", err.Error())
	}
}
