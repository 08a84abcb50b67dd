package orchestration

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Speaker identifies who produced an utterance.
type Speaker string

const (
	SpeakerUser      Speaker = "User"
	SpeakerAssistant Speaker = "AI"
)

// Utterance is one committed conversation entry.
type Utterance struct {
	ID      string
	Speaker Speaker
	Text    string
}

// activeConversation is the append-only conversation history for one
// session. It grows monotonically until the session terminates or is reset;
// there is deliberately no cap on its growth.
type activeConversation struct {
	mu         sync.RWMutex
	utterances []Utterance
}

func (c *activeConversation) append(speaker Speaker, text string) Utterance {
	c.mu.Lock()
	defer c.mu.Unlock()

	utterance := Utterance{
		ID:      uuid.NewString(),
		Speaker: speaker,
		Text:    text,
	}
	c.utterances = append(c.utterances, utterance)
	return utterance
}

// History returns a copy of the committed utterances in order.
func (c *activeConversation) History() []Utterance {
	c.mu.RLock()
	defer c.mu.RUnlock()

	history := make([]Utterance, len(c.utterances))
	copy(history, c.utterances)
	return history
}

// Render flattens the conversation into the single text blob embedded in
// each generation request.
func (c *activeConversation) Render() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	parts := make([]string, 0, len(c.utterances))
	for _, utterance := range c.utterances {
		parts = append(parts, fmt.Sprintf("%s: %s.", utterance.Speaker, utterance.Text))
	}
	return strings.Join(parts, " ")
}

func (c *activeConversation) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.utterances = nil
}
