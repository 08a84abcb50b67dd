package llms

// MessageRole identifies the author of a conversation message.
type MessageRole string

const (
	MessageRoleSystem    MessageRole = "system"
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// Message is a single message passed to a generation request.
type Message struct {
	Role    MessageRole
	Content string
}

type StreamingPromptOptions struct {
	// Instructions is the system prompt prepended to the request.
	Instructions string
	// Messages is prior conversation context sent before the prompt itself.
	Messages []Message
}

type StreamingPromptOption func(*StreamingPromptOptions)

// WithInstructions sets the system prompt for the request.
func WithInstructions(instructions string) StreamingPromptOption {
	return func(o *StreamingPromptOptions) {
		o.Instructions = instructions
	}
}

// WithMessages sets prior conversation messages for the request.
func WithMessages(messages ...Message) StreamingPromptOption {
	return func(o *StreamingPromptOptions) {
		o.Messages = messages
	}
}
