package orchestration

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/surajmsd1/aisearch-core/core/llms"
)

type dialogueFixture struct {
	stt    *stubSpeechToText
	llm    *stubLLM
	tts    *stubTextToSpeech
	output *stubAudioOutput

	orchestrator *Orchestrator

	mu      sync.Mutex
	states  []DialogueState
	matched []TerminalResult
	usage   UsageSnapshot

	sessionErr chan error
}

func newDialogueFixture(t *testing.T, streams ...stubStream) *dialogueFixture {
	t.Helper()

	f := &dialogueFixture{
		stt:        &stubSpeechToText{},
		llm:        &stubLLM{streams: streams},
		tts:        &stubTextToSpeech{},
		output:     &stubAudioOutput{},
		sessionErr: make(chan error, 1),
	}
	f.orchestrator = NewOrchestrator(
		WithStreamingLLM(f.llm),
		WithSpeechToTextClient(f.stt),
		WithTextToSpeechClient(f.tts),
		WithAudioOutput(f.output),
		WithSilenceThreshold(20*time.Millisecond),
		WithSettleDelay(5*time.Millisecond),
	)
	return f
}

func (f *dialogueFixture) run(ctx context.Context, t *testing.T) {
	t.Helper()

	go func() {
		f.sessionErr <- f.orchestrator.Orchestrate(ctx,
			WithStateChangedCallback(func(_, to DialogueState) {
				f.mu.Lock()
				f.states = append(f.states, to)
				f.mu.Unlock()
			}),
			WithServiceMatchedCallback(func(result TerminalResult) {
				f.mu.Lock()
				f.matched = append(f.matched, result)
				f.mu.Unlock()
			}),
			WithUsageUpdatedCallback(func(usage UsageSnapshot) {
				f.mu.Lock()
				f.usage = usage
				f.mu.Unlock()
			}),
		)
	}()

	eventually(t, time.Second, func() bool { return f.stt.Streams() >= 1 },
		"orchestrate should open a transcription stream")
}

func (f *dialogueFixture) speak(t *testing.T, utterance string) {
	t.Helper()
	f.stt.Fragment(utterance, true)
}

func (f *dialogueFixture) visitedStates() []DialogueState {
	f.mu.Lock()
	defer f.mu.Unlock()

	states := make([]DialogueState, len(f.states))
	copy(states, f.states)
	return states
}

const menSheltersPayload = `{"Category": "housing", "Subcategory": "menshelters"}`

func TestOrchestrateRunsASingleTurnToTermination(t *testing.T) {
	f := newDialogueFixture(t, stubStream{chunks: []llms.StreamChunk{
		textChunk{"You can go to a men's shelter. "},
		textChunk{menSheltersPayload},
		usageChunk{llms.Usage{InputTokens: 10, OutputTokens: 20, TotalTokens: 30}},
	}})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	f.run(ctx, t)

	f.speak(t, "I need a shelter for men")

	if err := <-f.sessionErr; err != nil {
		t.Fatalf("unexpected session error: %v", err)
	}

	if got := f.orchestrator.State(); got != StateTerminated {
		t.Fatalf("expected terminated state, got %s", got)
	}

	result := f.orchestrator.Result()
	if result == nil {
		t.Fatalf("expected a terminal result")
	}
	if result.Category != "housing" || result.Subcategory != "menshelters" {
		t.Fatalf("unexpected result %+v", result)
	}

	played := f.output.Played()
	if len(played) != 1 || played[0] != "You can go to a men's shelter. " {
		t.Fatalf("expected only the sentence before the payload to be spoken, got %q", played)
	}

	usage := f.orchestrator.Usage()
	if usage.InputTokens != 10 || usage.OutputTokens != 20 {
		t.Fatalf("unexpected token usage %+v", usage)
	}
	if usage.SynthesizedCharacters != len("You can go to a men's shelter. ") {
		t.Fatalf("unexpected synthesized characters %d", usage.SynthesizedCharacters)
	}

	prompts := f.llm.Prompts()
	if len(prompts) != 1 {
		t.Fatalf("expected a single generation request, got %d", len(prompts))
	}
	if !strings.Contains(prompts[0], `Current user response: "I need a shelter for men"`) {
		t.Fatalf("expected the utterance in the prompt, got %q", prompts[0])
	}
	if !strings.Contains(prompts[0], `Here is the conversation context: ""`) {
		t.Fatalf("expected an empty context for the first turn, got %q", prompts[0])
	}

	states := f.visitedStates()
	want := []DialogueState{StateListening, StateAwaitingResponse, StateSpeaking, StateTerminated}
	if len(states) != len(want) {
		t.Fatalf("unexpected state sequence %v", states)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Fatalf("unexpected state sequence %v, want %v", states, want)
		}
	}
}

func TestOrchestrateAdvancesToTheNextListeningPhase(t *testing.T) {
	f := newDialogueFixture(t,
		stubStream{chunks: []llms.StreamChunk{textChunk{"Do you have children?"}}},
		stubStream{chunks: []llms.StreamChunk{textChunk{menSheltersPayload}}},
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	f.run(ctx, t)

	f.speak(t, "I need housing")

	eventually(t, 2*time.Second, func() bool { return f.stt.Streams() >= 2 },
		"playback should advance into a second listening phase")

	f.speak(t, "No children, just me")

	if err := <-f.sessionErr; err != nil {
		t.Fatalf("unexpected session error: %v", err)
	}

	prompts := f.llm.Prompts()
	if len(prompts) != 2 {
		t.Fatalf("expected two generation requests, got %d", len(prompts))
	}
	if !strings.Contains(prompts[1], "User: I need housing. AI: Do you have children?.") {
		t.Fatalf("expected the second prompt to carry the conversation context, got %q", prompts[1])
	}
	if !strings.Contains(prompts[1], `Current user response: "No children, just me"`) {
		t.Fatalf("expected the second utterance in the prompt, got %q", prompts[1])
	}

	history := f.orchestrator.History()
	if len(history) != 3 {
		t.Fatalf("expected two user turns and one assistant turn, got %d", len(history))
	}
	if history[1].Speaker != SpeakerAssistant || history[1].Text != "Do you have children?" {
		t.Fatalf("unexpected assistant history entry %+v", history[1])
	}
}

func TestOrchestrateRefusesListeningWhileSpeaking(t *testing.T) {
	gate := make(chan struct{})
	f := newDialogueFixture(t,
		stubStream{chunks: []llms.StreamChunk{textChunk{"Let me think about that one."}}},
	)
	f.output.gate = gate

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	f.run(ctx, t)

	f.speak(t, "I need help")

	eventually(t, 2*time.Second, func() bool { return f.orchestrator.IsSpeaking() },
		"playback should be in flight")

	if err := f.orchestrator.startListening(ctx, "test"); err != nil {
		t.Fatalf("expected a refused listening attempt to be a no-op, got %v", err)
	}
	if f.stt.Streams() != 1 {
		t.Fatalf("expected no new transcription stream while speaking, got %d", f.stt.Streams())
	}
	if f.orchestrator.IsRecording() {
		t.Fatalf("expected recording and speaking to stay mutually exclusive")
	}

	close(gate)
	eventually(t, 2*time.Second, func() bool { return f.stt.Streams() == 2 },
		"listening should resume after playback settles")
	cancel()
}

func TestOrchestrateDoesNotListenDuringAGenerationLull(t *testing.T) {
	resume := make(chan struct{})
	f := newDialogueFixture(t, stubStream{
		chunks: []llms.StreamChunk{
			textChunk{"First sentence. "},
			textChunk{"Second sentence. "},
			textChunk{menSheltersPayload},
		},
		pauseAfter: 1,
		resume:     resume,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	f.run(ctx, t)

	f.speak(t, "I need housing")

	eventually(t, 2*time.Second, func() bool {
		return len(f.output.Played()) == 1 && !f.orchestrator.IsSpeaking()
	}, "the first sentence should finish playing while the stream stalls")

	// well past the settle delay
	time.Sleep(20 * f.orchestrator.settleDelay)

	if f.stt.Streams() != 1 {
		t.Fatalf("expected no new transcription stream mid-response, got %d", f.stt.Streams())
	}
	if f.orchestrator.IsRecording() {
		t.Fatalf("expected the microphone to stay closed while the response is in flight")
	}
	if got := f.orchestrator.State(); got != StateSpeaking {
		t.Fatalf("expected the dialogue to stay in speaking, got %s", got)
	}

	close(resume)
	if err := <-f.sessionErr; err != nil {
		t.Fatalf("unexpected session error: %v", err)
	}

	if f.stt.Streams() != 1 {
		t.Fatalf("expected the session to end without reopening capture, got %d streams", f.stt.Streams())
	}
	played := f.output.Played()
	if len(played) != 2 || played[1] != "Second sentence. " {
		t.Fatalf("unexpected playback %q", played)
	}
}

func TestSendPromptWithoutASessionIsRefused(t *testing.T) {
	orchestrator := NewOrchestrator(WithStreamingLLM(&stubLLM{}))

	if err := orchestrator.SendPrompt(context.Background(), "hello"); err == nil {
		t.Fatalf("expected SendPrompt to be refused without a running session")
	}
	if got := orchestrator.State(); got != StateIdle {
		t.Fatalf("expected the orchestrator to stay idle, got %s", got)
	}
}

func TestOrchestrateApologizesAndReturnsToIdleOnStreamFailure(t *testing.T) {
	f := newDialogueFixture(t, stubStream{err: errors.New("upstream 500")})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	f.run(ctx, t)

	f.speak(t, "I need a dentist")

	eventually(t, 2*time.Second, func() bool {
		played := f.output.Played()
		return len(played) == 1 && played[0] == apologyText
	}, "the apology should be spoken")

	eventually(t, 2*time.Second, func() bool { return f.orchestrator.State() == StateIdle },
		"the dialogue should return to idle after the apology")

	if f.orchestrator.Result() != nil {
		t.Fatalf("expected no terminal result after a failed turn")
	}
}

func TestOrchestrateIgnoresEmptyUtterances(t *testing.T) {
	f := newDialogueFixture(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	f.run(ctx, t)

	// interim-only speech resolves to an empty utterance
	f.stt.Fragment("uh", false)

	eventually(t, 2*time.Second, func() bool { return f.stt.Streams() >= 2 },
		"an empty utterance should restart listening")

	if prompts := f.llm.Prompts(); len(prompts) != 0 {
		t.Fatalf("expected no generation request for an empty utterance, got %q", prompts)
	}
	if got := f.orchestrator.State(); got != StateListening {
		t.Fatalf("expected to stay in listening, got %s", got)
	}
}

func TestSendPromptFollowsTheSpokenPath(t *testing.T) {
	f := newDialogueFixture(t, stubStream{chunks: []llms.StreamChunk{textChunk{menSheltersPayload}}})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	f.run(ctx, t)

	if err := f.orchestrator.SendPrompt(ctx, "a shelter for men please"); err != nil {
		t.Fatalf("unexpected SendPrompt error: %v", err)
	}

	if err := <-f.sessionErr; err != nil {
		t.Fatalf("unexpected session error: %v", err)
	}

	result := f.orchestrator.Result()
	if result == nil || result.Subcategory != "menshelters" {
		t.Fatalf("unexpected result %+v", result)
	}

	history := f.orchestrator.History()
	if len(history) != 1 || history[0].Speaker != SpeakerUser || history[0].Text != "a shelter for men please" {
		t.Fatalf("unexpected history %+v", history)
	}
}

func TestSendPromptIsRefusedAfterTermination(t *testing.T) {
	f := newDialogueFixture(t, stubStream{chunks: []llms.StreamChunk{textChunk{menSheltersPayload}}})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	f.run(ctx, t)

	f.speak(t, "men's shelter")
	if err := <-f.sessionErr; err != nil {
		t.Fatalf("unexpected session error: %v", err)
	}

	if err := f.orchestrator.SendPrompt(ctx, "one more thing"); err == nil {
		t.Fatalf("expected SendPrompt to be refused after termination")
	}
}

func TestResetReturnsToIdleAndClearsTheConversation(t *testing.T) {
	f := newDialogueFixture(t, stubStream{chunks: []llms.StreamChunk{textChunk{menSheltersPayload}}})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	f.run(ctx, t)

	f.speak(t, "men's shelter")
	if err := <-f.sessionErr; err != nil {
		t.Fatalf("unexpected session error: %v", err)
	}

	usageBefore := f.orchestrator.Usage()
	f.orchestrator.Reset()

	if got := f.orchestrator.State(); got != StateIdle {
		t.Fatalf("expected idle after reset, got %s", got)
	}
	if f.orchestrator.Result() != nil {
		t.Fatalf("expected the result to be cleared")
	}
	if len(f.orchestrator.History()) != 0 {
		t.Fatalf("expected the conversation to be cleared")
	}
	if f.orchestrator.Usage() != usageBefore {
		t.Fatalf("expected usage counters to survive a reset")
	}
}
