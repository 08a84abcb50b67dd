package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	orchestration "github.com/surajmsd1/aisearch-core/core"
)

// OrchestrateOptions wires orchestrator callbacks to a running bubbletea
// program. Callbacks fire on orchestrator goroutines; p.Send is safe to
// call from any of them.
func OrchestrateOptions(p *tea.Program) []orchestration.OrchestrateOption {
	return []orchestration.OrchestrateOption{
		orchestration.WithInterimTranscriptionCallback(func(transcript string) {
			p.Send(interimTranscriptMsg{transcript: transcript})
		}),
		orchestration.WithTranscriptionCallback(func(transcript string) {
			p.Send(transcriptMsg{transcript: transcript})
		}),
		orchestration.WithResponseCallback(func(segment string) {
			p.Send(responseSegmentMsg{segment: segment})
		}),
		orchestration.WithResponseEndCallback(func(response string) {
			p.Send(responseEndMsg{response: response})
		}),
		orchestration.WithSpeakingStateChangedCallback(func(speaking bool) {
			p.Send(speakingMsg{speaking: speaking})
		}),
		orchestration.WithStateChangedCallback(func(from, to orchestration.DialogueState) {
			p.Send(stateMsg{from: from, to: to})
		}),
		orchestration.WithServiceMatchedCallback(func(result orchestration.TerminalResult) {
			p.Send(serviceMatchedMsg{result: result})
		}),
		orchestration.WithUsageUpdatedCallback(func(usage orchestration.UsageSnapshot) {
			p.Send(usageMsg{usage: usage})
		}),
	}
}

// SessionEnded notifies the program that Orchestrate returned.
func SessionEnded(p *tea.Program, err error) {
	p.Send(sessionEndedMsg{err: err})
}
