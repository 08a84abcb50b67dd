package tui

import (
	orchestration "github.com/surajmsd1/aisearch-core/core"
)

// Messages produced by the orchestration adapter and consumed by the model.

type interimTranscriptMsg struct{ transcript string }

type transcriptMsg struct{ transcript string }

type responseSegmentMsg struct{ segment string }

type responseEndMsg struct{ response string }

type speakingMsg struct{ speaking bool }

type stateMsg struct{ from, to orchestration.DialogueState }

type serviceMatchedMsg struct{ result orchestration.TerminalResult }

type usageMsg struct{ usage orchestration.UsageSnapshot }

// sessionEndedMsg reports that Orchestrate returned.
type sessionEndedMsg struct{ err error }
