// Package orchestration drives a spoken conversation that narrows the
// user's need down to a single entry of a service taxonomy. It owns the
// dialogue state machine, the conversation history and the usage counters;
// capture, generation, synthesis and playback are pluggable clients.
package orchestration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/surajmsd1/aisearch-core/core/audio"
	"github.com/surajmsd1/aisearch-core/core/events"
	"github.com/surajmsd1/aisearch-core/core/llms"
	"github.com/surajmsd1/aisearch-core/core/taxonomy"
)

// defaultSettleDelay is the pause between the end of assistant playback and
// the automatic start of the next listening phase.
const defaultSettleDelay = 1000 * time.Millisecond

const apologyText = "Sorry, there was an error processing your request."

// Orchestrator runs one dialogue session. It is the sole writer of the
// conversation history, the terminal result and the usage counters;
// sub-components report back through callbacks instead of sharing state.
type Orchestrator struct {
	llm          StreamingLLM
	speechToText SpeechToText
	textToSpeech TextToSpeech
	audioInput   AudioInput
	audioOutput  AudioOutput

	services         taxonomy.Taxonomy
	silenceThreshold time.Duration
	settleDelay      time.Duration
	instructions     string

	mu       sync.Mutex
	state    DialogueState
	capture  *captureSession
	result   *TerminalResult
	speaking bool

	// responding is true while a generation stream for the current turn is
	// still producing; it keeps a queue drain during a stream lull from
	// being mistaken for the end of the response.
	responding       bool
	advanceScheduled bool

	conversation activeConversation
	usage        usageCounters
	queue        *synthesisQueue
	emitEvent    eventEmitter

	sessionDone     chan struct{}
	sessionDoneOnce sync.Once
	cancelSession   context.CancelFunc
	closeOnce       sync.Once
}

// NewOrchestrator assembles an orchestrator from its clients. Every client
// is optional at construction time; operations that need a missing one fail
// with an error instead.
func NewOrchestrator(opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		services:         taxonomy.Default(),
		silenceThreshold: defaultSilenceThreshold,
		settleDelay:      defaultSettleDelay,
		state:            StateIdle,
		emitEvent:        noopEventEmitter,
		sessionDone:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.instructions = buildInstructions(o.services)
	return o
}

// Orchestrate runs the session until a service has been matched and spoken,
// or the context is cancelled. It starts the audio input stream, enters the
// first listening phase and then advances the dialogue on its own.
func (o *Orchestrator) Orchestrate(ctx context.Context, opts ...OrchestrateOption) error {
	options := orchestrateOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	ctx, cancel := context.WithCancel(ctx)
	o.mu.Lock()
	o.cancelSession = cancel
	o.emitEvent = newCallbackEventEmitter(options)
	o.mu.Unlock()

	queue := newSynthesisQueue(ctx, o.textToSpeech, o.audioOutput, o.emitEvent,
		func(speaking bool) {
			o.mu.Lock()
			o.speaking = speaking
			o.mu.Unlock()
			if options.onSpeakingStateChanged != nil {
				options.onSpeakingStateChanged(speaking)
			}
		},
		func(characters int) {
			o.usage.addSynthesizedCharacters(characters)
			o.emitUsage()
		},
		func(autoAdvance bool) { o.handleDrained(ctx, autoAdvance) },
	)
	o.mu.Lock()
	o.queue = queue
	o.mu.Unlock()
	defer queue.Close()

	if o.audioInput != nil {
		go o.streamAudioInput(ctx)
	}

	if err := o.startListening(ctx, "session started"); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-o.sessionDone:
		return nil
	}
}

// SendPrompt feeds a typed utterance into the dialogue, bypassing capture.
// It follows the same path as a spoken utterance, so the conversation,
// state machine and terminal detection behave identically.
func (o *Orchestrator) SendPrompt(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("empty prompt")
	}

	o.mu.Lock()
	if o.queue == nil {
		o.mu.Unlock()
		return fmt.Errorf("no session running")
	}
	if o.state == StateTerminated || o.result != nil {
		o.mu.Unlock()
		return fmt.Errorf("session already terminated")
	}
	if o.state == StateAwaitingResponse || o.speaking {
		o.mu.Unlock()
		return fmt.Errorf("a response is already in flight")
	}
	capture := o.capture
	o.capture = nil
	o.mu.Unlock()

	if capture != nil {
		capture.Cancel()
	}

	// a typed utterance passes through the same listening gate as speech
	if err := o.transition(StateListening, "typed utterance"); err != nil {
		return err
	}

	o.emitEvent(events.NewUserTranscriptFinal(text))
	return o.handleUtterance(ctx, text)
}

// Reset aborts whatever is in flight and returns the orchestrator to Idle
// with an empty conversation. Usage counters keep accumulating across
// resets.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	capture := o.capture
	o.capture = nil
	o.result = nil
	o.mu.Unlock()

	if capture != nil {
		capture.Cancel()
	}
	o.conversation.clear()
	if err := o.transition(StateIdle, "reset"); err != nil {
		logger.Warn("failed to reset dialogue state", "error", err)
	}
}

// Close tears the session down.
func (o *Orchestrator) Close() {
	o.closeOnce.Do(func() {
		o.mu.Lock()
		cancel := o.cancelSession
		capture := o.capture
		o.capture = nil
		o.mu.Unlock()

		if capture != nil {
			capture.Cancel()
		}
		if cancel != nil {
			cancel()
		}
		o.signalSessionDone()
	})
}

// State returns the current dialogue state.
func (o *Orchestrator) State() DialogueState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// IsRecording reports whether a capture session is live.
func (o *Orchestrator) IsRecording() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.capture != nil && o.state == StateListening
}

// IsSpeaking reports whether assistant audio is playing right now.
func (o *Orchestrator) IsSpeaking() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.speaking
}

// Result returns the matched service, or nil while the session is still
// going.
func (o *Orchestrator) Result() *TerminalResult {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.result == nil {
		return nil
	}
	result := *o.result
	return &result
}

// Usage returns a snapshot of cumulative usage counters.
func (o *Orchestrator) Usage() UsageSnapshot {
	return o.usage.Snapshot()
}

// History returns the committed conversation so far.
func (o *Orchestrator) History() []Utterance {
	return o.conversation.History()
}

// transition is the single place dialogue state changes. Invalid
// transitions are refused with an error and leave the state untouched.
func (o *Orchestrator) transition(to DialogueState, reason string) error {
	o.mu.Lock()
	from := o.state
	if from == to {
		o.mu.Unlock()
		return nil
	}
	if !transitionValid(from, to) {
		o.mu.Unlock()
		return &InvalidTransitionError{From: from, To: to}
	}
	o.state = to
	o.mu.Unlock()

	logger.Info("dialogue state changed",
		"from", from.String(), "to", to.String(), "reason", reason)
	o.emitEvent(events.NewDialogueStateChanged(from.String(), to.String(), reason))
	return nil
}

func (o *Orchestrator) streamAudioInput(ctx context.Context) {
	err := o.audioInput.Stream(ctx, func(frame []byte) {
		o.mu.Lock()
		capture := o.capture
		o.mu.Unlock()
		// frames outside a listening phase are dropped
		if capture == nil {
			return
		}
		if err := capture.SendAudio(frame); err != nil {
			logger.Debug("dropped audio frame", "error", err)
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("audio input stream failed", "error", err)
	}
}

// startListening opens a new capture session. Listening is refused, not
// queued, while the assistant is speaking or after the session terminated.
func (o *Orchestrator) startListening(ctx context.Context, reason string) error {
	o.mu.Lock()
	if o.state == StateTerminated || o.result != nil {
		o.mu.Unlock()
		o.emitEvent(events.NewListeningSkipped("session terminated"))
		return nil
	}
	if o.speaking {
		o.mu.Unlock()
		o.emitEvent(events.NewListeningSkipped("assistant is speaking"))
		return nil
	}
	stray := o.capture
	o.capture = nil
	o.mu.Unlock()

	if stray != nil {
		stray.Cancel()
	}

	if err := o.transition(StateListening, reason); err != nil {
		return err
	}

	capture := newCaptureSession(o.speechToText, o.silenceThreshold, o.inputEncoding(), o.emitEvent)
	if err := capture.Start(ctx); err != nil {
		if terr := o.transition(StateIdle, "capture start failed"); terr != nil {
			logger.Warn("failed to leave listening state", "error", terr)
		}
		return err
	}

	o.mu.Lock()
	o.capture = capture
	o.mu.Unlock()

	go o.awaitCapture(ctx, capture)
	return nil
}

func (o *Orchestrator) awaitCapture(ctx context.Context, capture *captureSession) {
	transcript, err := capture.Await(ctx)

	o.mu.Lock()
	if o.capture == capture {
		o.capture = nil
	}
	o.mu.Unlock()

	switch {
	case errors.Is(err, ErrCaptureCancelled) || errors.Is(err, context.Canceled):
		return
	case err != nil:
		o.apologize(err)
	case transcript == "":
		// an empty utterance restarts listening instead of burning a
		// generation round-trip
		if lerr := o.startListening(ctx, "empty utterance"); lerr != nil {
			o.apologize(lerr)
		}
	default:
		if herr := o.handleUtterance(ctx, transcript); herr != nil {
			o.apologize(herr)
		}
	}
}

func (o *Orchestrator) handleUtterance(ctx context.Context, utterance string) error {
	// the context blob deliberately excludes the utterance it accompanies
	conversationContext := o.conversation.Render()
	o.conversation.append(SpeakerUser, utterance)

	if err := o.transition(StateAwaitingResponse, "utterance committed"); err != nil {
		return err
	}

	o.mu.Lock()
	o.responding = true
	o.mu.Unlock()

	go o.generate(ctx, conversationContext, utterance)
	return nil
}

func (o *Orchestrator) generate(ctx context.Context, conversationContext, utterance string) {
	// playback can finish before this stream does, so the drained hook
	// defers the advance decision back here
	defer func() {
		o.mu.Lock()
		o.responding = false
		o.mu.Unlock()
		o.maybeAutoAdvance(ctx)
	}()

	if o.llm == nil {
		o.apologize(fmt.Errorf("no generation client configured"))
		return
	}

	ctx, span := tracer.Start(ctx, "orchestration.generate")
	defer span.End()

	stream := o.llm.PromptWithStream(ctx,
		buildPrompt(conversationContext, utterance),
		llms.WithInstructions(o.instructions),
	)

	parser := newResponseParser()
	for chunk, err := range stream.Chunks(ctx) {
		if err != nil {
			o.apologize(fmt.Errorf("generation stream failed: %w", err))
			return
		}

		switch c := chunk.(type) {
		case llms.StreamContentChunk:
			o.emitEvent(events.NewAssistantResponseSegment(c.Content()))
			o.handleParseEvent(parser.Feed(c.Content()))
		case llms.StreamUsageChunk:
			usage := c.Usage()
			o.usage.addTokens(usage.InputTokens, usage.OutputTokens)
			o.emitUsage()
		}
	}

	if !parser.TerminalSeen() {
		if leftover, ok := parser.Flush(); ok {
			o.speakChunk(leftover, true)
		}
		o.conversation.append(SpeakerAssistant, parser.Accumulated())
	}
	o.emitEvent(events.NewAssistantResponseFinal(parser.Accumulated()))
}

func (o *Orchestrator) handleParseEvent(event parseEvent) {
	switch e := event.(type) {
	case parseChunk:
		o.speakChunk(e.text, true)
	case parseTerminal:
		o.finalize(e.result, e.trailing)
	}
}

// speakChunk enqueues one speakable unit. The first chunk of a response
// moves the dialogue from AwaitingResponse to Speaking; chunks arriving in
// any other state are dropped rather than played over a live capture.
func (o *Orchestrator) speakChunk(text string, autoAdvance bool) {
	if strings.TrimSpace(text) == "" {
		return
	}

	o.mu.Lock()
	state := o.state
	queue := o.queue
	o.mu.Unlock()
	if queue == nil {
		logger.Warn("dropped speakable chunk, no session running")
		return
	}

	switch state {
	case StateAwaitingResponse:
		if err := o.transition(StateSpeaking, "first speakable chunk"); err != nil {
			logger.Warn("failed to enter speaking state", "error", err)
			return
		}
	case StateSpeaking:
	default:
		logger.Warn("dropped speakable chunk outside a response turn",
			"state", state.String())
		return
	}

	queue.Enqueue(text, autoAdvance)
}

// finalize records the matched service and ends the dialogue. Buffered text
// preceding the terminal payload is still spoken, without advancing to
// another listening phase afterwards.
func (o *Orchestrator) finalize(result TerminalResult, trailing string) {
	o.mu.Lock()
	if o.result != nil {
		o.mu.Unlock()
		return
	}
	o.result = &result
	o.mu.Unlock()

	if err := o.transition(StateTerminated, "service matched"); err != nil {
		logger.Warn("failed to terminate dialogue", "error", err)
	}
	o.emitEvent(events.NewServiceMatched(result.Category, result.Subcategory))

	if strings.TrimSpace(trailing) != "" {
		o.queue.Enqueue(trailing, false)
		return
	}
	if o.queue.Idle() {
		o.signalSessionDone()
	}
}

// apologize is the shared error path: the failure is logged, a short spoken
// apology is queued without auto-advance, and the dialogue returns to Idle
// so the user can explicitly start over.
func (o *Orchestrator) apologize(cause error) {
	logger.Error("dialogue turn failed", "error", cause)

	if err := o.transition(StateIdle, "error"); err != nil {
		logger.Warn("failed to return to idle", "error", err)
	}
	if o.queue != nil {
		o.queue.Enqueue(apologyText, false)
	}
}

// handleDrained runs whenever the synthesis queue empties. The dialogue
// state is revalidated here rather than trusted from enqueue time, since it
// may have changed while audio was playing.
func (o *Orchestrator) handleDrained(ctx context.Context, autoAdvance bool) {
	o.mu.Lock()
	terminated := o.state == StateTerminated || o.result != nil
	o.mu.Unlock()

	if terminated {
		o.signalSessionDone()
		return
	}
	if autoAdvance {
		o.maybeAutoAdvance(ctx)
	}
}

// maybeAutoAdvance starts the next listening phase once the assistant has
// genuinely finished its turn: the generation stream has completed and no
// synthesized audio is pending. A drain during a stream lull fails the
// responding check here and the advance is retried when the stream ends.
func (o *Orchestrator) maybeAutoAdvance(ctx context.Context) {
	o.mu.Lock()
	blocked := o.responding || o.advanceScheduled ||
		o.state != StateSpeaking || o.result != nil ||
		o.queue == nil || !o.queue.Idle()
	if blocked {
		o.mu.Unlock()
		return
	}
	o.advanceScheduled = true
	o.mu.Unlock()

	// the settle delay must not stall the queue worker
	go func() {
		defer func() {
			o.mu.Lock()
			o.advanceScheduled = false
			o.mu.Unlock()
		}()

		select {
		case <-ctx.Done():
			return
		case <-time.After(o.settleDelay):
		}

		if err := o.startListening(ctx, "assistant finished speaking"); err != nil {
			o.apologize(err)
		}
	}()
}

func (o *Orchestrator) emitUsage() {
	snapshot := o.usage.Snapshot()
	o.emitEvent(events.NewUsageUpdated(
		snapshot.InputTokens, snapshot.OutputTokens, snapshot.SynthesizedCharacters))
}

func (o *Orchestrator) inputEncoding() audio.EncodingInfo {
	if o.audioInput != nil {
		if info := o.audioInput.EncodingInfo(); !info.IsZero() {
			return info
		}
	}
	return audio.GetDefaultEncodingInfo()
}

func (o *Orchestrator) signalSessionDone() {
	o.sessionDoneOnce.Do(func() { close(o.sessionDone) })
}
