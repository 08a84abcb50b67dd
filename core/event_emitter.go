package orchestration

import "github.com/surajmsd1/aisearch-core/core/events"

type eventEmitter func(events.Event)

func noopEventEmitter(events.Event) {}

// newCallbackEventEmitter fans internal events out to the per-call callbacks
// an Orchestrate caller registered. Unhandled event kinds are dropped.
func newCallbackEventEmitter(opts orchestrateOptions) eventEmitter {
	return func(event events.Event) {
		switch e := event.(type) {
		case events.UserTranscriptInterimUpdated:
			if opts.onInterimTranscription != nil {
				opts.onInterimTranscription(e.Transcript)
			}
		case events.UserTranscriptFinal:
			if opts.onTranscription != nil {
				opts.onTranscription(e.Transcript)
			}
		case events.AssistantResponseSegment:
			if opts.onResponse != nil {
				opts.onResponse(e.Segment)
			}
		case events.AssistantResponseFinal:
			if opts.onResponseEnd != nil {
				opts.onResponseEnd(e.Response)
			}
		case events.DialogueStateChanged:
			if opts.onStateChanged != nil {
				opts.onStateChanged(DialogueState(e.From), DialogueState(e.To))
			}
		case events.ServiceMatched:
			if opts.onServiceMatched != nil {
				opts.onServiceMatched(TerminalResult{Category: e.Category, Subcategory: e.Subcategory})
			}
		case events.UsageUpdated:
			if opts.onUsageUpdated != nil {
				opts.onUsageUpdated(UsageSnapshot{
					InputTokens:           e.InputTokens,
					OutputTokens:          e.OutputTokens,
					SynthesizedCharacters: e.SynthesizedCharacters,
				})
			}
		}
	}
}
