package events

const (
	// KindDialogueStateChanged identifies orchestrator state transitions.
	KindDialogueStateChanged Kind = "dialogue.state_changed"
	// KindListeningSkipped identifies a refused attempt to start listening.
	KindListeningSkipped Kind = "dialogue.listening_skipped"
	// KindServiceMatched identifies the terminal category/subcategory match.
	KindServiceMatched Kind = "dialogue.service_matched"
	// KindUsageUpdated identifies a usage counter update.
	KindUsageUpdated Kind = "dialogue.usage_updated"
)

// DialogueStateChanged records a transition of the orchestrator state
// machine.
type DialogueStateChanged struct {
	Base
	From   string
	To     string
	Reason string
}

func NewDialogueStateChanged(from, to, reason string) DialogueStateChanged {
	return DialogueStateChanged{Base: NewBase(KindDialogueStateChanged), From: from, To: to, Reason: reason}
}

// ListeningSkipped is emitted when a listening phase was requested but the
// orchestrator refused to start one. Skipping is not an error: listening is
// forbidden while speaking or after a service has been matched.
type ListeningSkipped struct {
	Base
	Reason string
}

func NewListeningSkipped(reason string) ListeningSkipped {
	return ListeningSkipped{Base: NewBase(KindListeningSkipped), Reason: reason}
}

// ServiceMatched carries the terminal category/subcategory pair that ends
// the conversation.
type ServiceMatched struct {
	Base
	Category    string
	Subcategory string
}

func NewServiceMatched(category, subcategory string) ServiceMatched {
	return ServiceMatched{Base: NewBase(KindServiceMatched), Category: category, Subcategory: subcategory}
}

// UsageUpdated carries cumulative usage counts.
type UsageUpdated struct {
	Base
	InputTokens           int
	OutputTokens          int
	SynthesizedCharacters int
}

func NewUsageUpdated(inputTokens, outputTokens, synthesizedCharacters int) UsageUpdated {
	return UsageUpdated{
		Base:                  NewBase(KindUsageUpdated),
		InputTokens:           inputTokens,
		OutputTokens:          outputTokens,
		SynthesizedCharacters: synthesizedCharacters,
	}
}
