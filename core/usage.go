package orchestration

import "sync"

// UsageSnapshot is a point-in-time view of cumulative usage.
type UsageSnapshot struct {
	InputTokens           int
	OutputTokens          int
	SynthesizedCharacters int
}

// usageCounters tracks monotonically increasing usage figures. Only the
// orchestrator writes to it; sub-components report figures through
// callbacks instead of mutating shared state.
type usageCounters struct {
	mu sync.Mutex

	inputTokens           int
	outputTokens          int
	synthesizedCharacters int
}

func (u *usageCounters) addTokens(input, output int) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if input > 0 {
		u.inputTokens += input
	}
	if output > 0 {
		u.outputTokens += output
	}
}

func (u *usageCounters) addSynthesizedCharacters(characters int) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if characters > 0 {
		u.synthesizedCharacters += characters
	}
}

func (u *usageCounters) Snapshot() UsageSnapshot {
	u.mu.Lock()
	defer u.mu.Unlock()

	return UsageSnapshot{
		InputTokens:           u.inputTokens,
		OutputTokens:          u.outputTokens,
		SynthesizedCharacters: u.synthesizedCharacters,
	}
}
