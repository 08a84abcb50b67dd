package openai

import (
	"encoding/json"
	"testing"

	"github.com/surajmsd1/aisearch-core/core/llms"
)

func TestToMessagesPrependsInstructionsAsSystemMessage(t *testing.T) {
	messages := toMessages("be brief", []llms.Message{
		{Role: llms.MessageRoleUser, Content: "hello"},
		{Role: llms.MessageRoleAssistant, Content: "hi, how can I help?"},
	})

	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}
	if messages[0].Role != messageRoleSystem || messages[0].Content != "be brief" {
		t.Fatalf("unexpected system message: %+v", messages[0])
	}
	if messages[1].Role != messageRoleUser || messages[1].Content != "hello" {
		t.Fatalf("unexpected user message: %+v", messages[1])
	}
	if messages[2].Role != messageRoleAssistant || messages[2].Content != "hi, how can I help?" {
		t.Fatalf("unexpected assistant message: %+v", messages[2])
	}
}

func TestToMessagesWithoutInstructions(t *testing.T) {
	messages := toMessages("", []llms.Message{
		{Role: llms.MessageRoleUser, Content: "hello"},
	})

	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}
	if messages[0].Role != messageRoleUser {
		t.Fatalf("unexpected message: %+v", messages[0])
	}
}

func TestRequestBodySerializesStreamOptions(t *testing.T) {
	body, err := json.Marshal(requestBody{
		Model:         "gpt-4o-mini",
		Messages:      toMessages("sys", nil),
		Stream:        true,
		StreamOptions: &streamOptions{IncludeUsage: true},
	})
	if err != nil {
		t.Fatalf("unexpected marshal error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("unexpected unmarshal error: %v", err)
	}
	if decoded["model"] != "gpt-4o-mini" || decoded["stream"] != true {
		t.Fatalf("unexpected body %v", decoded)
	}
	options, ok := decoded["stream_options"].(map[string]any)
	if !ok || options["include_usage"] != true {
		t.Fatalf("expected stream options with usage enabled, got %v", decoded["stream_options"])
	}
}

func TestStreamingResponseBodyParsesDeltaAndUsage(t *testing.T) {
	payload := `{"choices":[{"delta":{"role":"assistant","content":"Hel"}}],"usage":{"prompt_tokens":12,"completion_tokens":3,"total_tokens":15}}`

	var body streamingResponseBody
	if err := json.Unmarshal([]byte(payload), &body); err != nil {
		t.Fatalf("unexpected unmarshal error: %v", err)
	}

	if len(body.Choices) != 1 || body.Choices[0].Delta.Content != "Hel" {
		t.Fatalf("unexpected choices %+v", body.Choices)
	}
	if body.Usage == nil || body.Usage.PromptTokens != 12 || body.Usage.CompletionTokens != 3 {
		t.Fatalf("unexpected usage %+v", body.Usage)
	}
}
