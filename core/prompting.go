package orchestration

import (
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/surajmsd1/aisearch-core/core/taxonomy"
)

// buildInstructions renders the system prompt for the session: the
// assistant's role, the taxonomy it may choose from, and the terminal
// payload contract described by the JSON schema of TerminalResult.
func buildInstructions(services taxonomy.Taxonomy) string {
	reflector := jsonschema.Reflector{DoNotReference: true}
	schema, _ := reflector.Reflect(TerminalResult{}).MarshalJSON()

	return fmt.Sprintf(`You are an assistant designed to help people find the services they need. Your responses are spoken, so keep them short, about 12 words. Don't give the user options at the start of the conversation. Based on the user's responses, determine the categories and subcategories from the following options:
%s
If the user's input is unclear or could apply to multiple subcategories, ask clarifying questions to understand which subcategory they are looking for. For example, if the user mentions housing, confirm if they have children for family housing, or ask questions to figure out if they need to go to men's shelters or women's shelters. Ask just enough questions to get enough context to be certain that the option you select is right for them.
If what they are looking for is not in the list, let them know that option isn't available, and try to help them find something else.
Once you are sure of the category and subcategory without any assumptions, output a single JSON object matching this schema:
%s
The object must use exactly the keys "Category" and "Subcategory". Emitting it stops the conversation and shows the user the result. Feel free to stop the conversation after the first request. For example: if they say they are looking for a shelter for men, there is no need to ask them a follow up question.`,
		services.Describe(), string(schema))
}

// buildPrompt renders one user turn: the conversation so far plus the
// current response, mirroring how the conversation context is threaded
// through each request.
func buildPrompt(conversationContext, utterance string) string {
	return fmt.Sprintf("Here is the conversation context: %q. Current user response: %q.",
		conversationContext, utterance)
}
