package orchestration

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/surajmsd1/aisearch-core/core/events"
	"github.com/surajmsd1/aisearch-core/core/texttospeech"
)

// ErrQueueClosed is returned for enqueues after the queue shut down.
var ErrQueueClosed = errors.New("synthesis queue closed")

// ErrQueueFull is returned when the item buffer is exhausted.
var ErrQueueFull = errors.New("synthesis queue full")

const synthesisQueueCapacity = 64

type synthesisItem struct {
	text        string
	autoAdvance bool
	done        chan error
}

// synthesisQueue synthesizes and plays back text chunks strictly in enqueue
// order, one playback at a time. Every item resolves exactly once, success
// or failure alike, so callers never wait forever on a failed chunk. The
// speaking flag is raised only while audio is actually playing and is
// cleared unconditionally, including on playback errors.
type synthesisQueue struct {
	tts    TextToSpeech
	output AudioOutput

	emitEvent          eventEmitter
	onSpeakingChanged  func(speaking bool)
	onChunkSynthesized func(characters int)
	onDrained          func(autoAdvance bool)

	mu      sync.Mutex
	pending int
	closed  bool

	items      chan synthesisItem
	closeOnce  sync.Once
	workerDone chan struct{}
}

func newSynthesisQueue(
	ctx context.Context,
	tts TextToSpeech,
	output AudioOutput,
	emitEvent eventEmitter,
	onSpeakingChanged func(bool),
	onChunkSynthesized func(int),
	onDrained func(bool),
) *synthesisQueue {
	if emitEvent == nil {
		emitEvent = noopEventEmitter
	}

	q := &synthesisQueue{
		tts:                tts,
		output:             output,
		emitEvent:          emitEvent,
		onSpeakingChanged:  onSpeakingChanged,
		onChunkSynthesized: onChunkSynthesized,
		onDrained:          onDrained,
		items:              make(chan synthesisItem, synthesisQueueCapacity),
		workerDone:         make(chan struct{}),
	}
	go q.work(ctx)
	return q
}

// Enqueue schedules text for synthesis and playback. The returned channel
// resolves once playback of this chunk finished or failed. The channel send
// stays under the lock so it cannot race the close in Close; the buffered
// channel keeps it from blocking there.
func (q *synthesisQueue) Enqueue(text string, autoAdvance bool) <-chan error {
	done := make(chan error, 1)
	item := synthesisItem{text: text, autoAdvance: autoAdvance, done: done}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		done <- ErrQueueClosed
		return done
	}
	select {
	case q.items <- item:
		q.pending++
	default:
		q.mu.Unlock()
		done <- ErrQueueFull
		return done
	}
	q.mu.Unlock()
	return done
}

// Idle reports whether nothing is queued or playing.
func (q *synthesisQueue) Idle() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending == 0
}

// Close stops accepting items and waits for the worker to exit. Items
// already queued are still processed, unless the queue context was
// cancelled, in which case they resolve with the context error.
func (q *synthesisQueue) Close() {
	q.closeOnce.Do(func() {
		q.mu.Lock()
		q.closed = true
		q.mu.Unlock()
		close(q.items)
		<-q.workerDone
	})
}

func (q *synthesisQueue) work(ctx context.Context) {
	defer close(q.workerDone)

	for item := range q.items {
		var err error
		if ctx.Err() != nil {
			err = ctx.Err()
		} else {
			err = q.process(ctx, item)
		}
		item.done <- err

		q.mu.Lock()
		q.pending--
		drained := q.pending == 0
		q.mu.Unlock()

		if drained && q.onDrained != nil {
			q.onDrained(item.autoAdvance)
		}
	}
}

func (q *synthesisQueue) process(ctx context.Context, item synthesisItem) error {
	synthesis, err := q.tts.Synthesize(ctx, item.text,
		texttospeech.WithEncodingInfo(q.output.EncodingInfo()),
	)
	if err != nil {
		logger.Warn("failed to synthesize chunk", "error", err)
		return fmt.Errorf("failed to synthesize chunk: %w", err)
	}

	if q.onChunkSynthesized != nil {
		q.onChunkSynthesized(synthesis.Characters)
	}

	q.setSpeaking(true)
	q.emitEvent(events.NewAssistantPlaybackStarted(item.text))
	defer func() {
		q.emitEvent(events.NewAssistantPlaybackEnded(item.text))
		q.setSpeaking(false)
	}()

	if err := q.output.Play(ctx, synthesis.Audio); err != nil {
		logger.Warn("failed to play back chunk", "error", err)
		return fmt.Errorf("failed to play back chunk: %w", err)
	}
	return nil
}

func (q *synthesisQueue) setSpeaking(speaking bool) {
	if q.onSpeakingChanged != nil {
		q.onSpeakingChanged(speaking)
	}
}
