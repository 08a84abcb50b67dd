package orchestration

import "regexp"

// TerminalResult is the structured service match embedded in generated text
// that ends the conversation. Once set it is immutable.
type TerminalResult struct {
	Category    string `json:"Category"`
	Subcategory string `json:"Subcategory"`
}

// terminalPattern matches the JSON payload the generation service is
// instructed to emit once it is confident of a match. Extraction by pattern
// over free text is brittle but reproduces the established contract; it is
// isolated here so the rest of the core only sees TryExtractTerminal.
var terminalPattern = regexp.MustCompile(`\{\s*"Category":\s*"(.*?)",\s*"Subcategory":\s*"(.*?)"\s*\}`)

// TryExtractTerminal scans accumulated generated text for a terminal
// payload. It returns the result and the byte offset at which the payload
// starts. Payloads with an empty category or subcategory are not terminal
// and are skipped.
func TryExtractTerminal(text string) (result TerminalResult, start int, ok bool) {
	for _, match := range terminalPattern.FindAllStringSubmatchIndex(text, -1) {
		category := text[match[2]:match[3]]
		subcategory := text[match[4]:match[5]]
		if category == "" || subcategory == "" {
			continue
		}

		return TerminalResult{Category: category, Subcategory: subcategory}, match[0], true
	}

	return TerminalResult{}, 0, false
}
