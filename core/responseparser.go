package orchestration

import "strings"

// sentenceFlushThreshold is the sentence buffer length above which a chunk
// is flushed even without sentence-ending punctuation, so long clauses do
// not delay synthesis indefinitely.
const sentenceFlushThreshold = 50

// parseEvent is the outcome of feeding one generation fragment to the
// response parser.
type parseEvent interface{ isParseEvent() }

// parseContinuing means the fragment was buffered and nothing is speakable
// yet.
type parseContinuing struct{}

// parseChunk carries a sentence-sized unit ready for synthesis.
type parseChunk struct{ text string }

// parseTerminal carries the detected service match plus any buffered,
// not-yet-spoken text preceding it.
type parseTerminal struct {
	result   TerminalResult
	trailing string
}

func (parseContinuing) isParseEvent() {}
func (parseChunk) isParseEvent()      {}
func (parseTerminal) isParseEvent()   {}

// responseParser segments one streamed generation response into speakable
// chunks while watching the accumulated text for a terminal payload. The
// terminal check runs before chunk emission on every fragment so the
// conversation stops as soon as a match is detectable, even mid-sentence.
//
// Every character fed in ends up in exactly one emitted chunk, in the
// terminal trailing text, or inside the terminal payload itself; nothing is
// dropped or duplicated on flush boundaries.
type responseParser struct {
	accumulator strings.Builder
	sentence    strings.Builder

	// emitted counts accumulator bytes already handed out as chunks.
	emitted      int
	terminalSeen bool
}

func newResponseParser() *responseParser {
	return &responseParser{}
}

// Feed appends one generation fragment and returns what became speakable.
// After a terminal payload has been seen all further fragments are ignored.
func (p *responseParser) Feed(fragment string) parseEvent {
	if p.terminalSeen {
		return parseContinuing{}
	}

	p.accumulator.WriteString(fragment)
	p.sentence.WriteString(fragment)

	accumulated := p.accumulator.String()
	if result, start, ok := TryExtractTerminal(accumulated); ok {
		p.terminalSeen = true
		trailing := ""
		if start >= p.emitted {
			trailing = accumulated[p.emitted:start]
			p.emitted = start
		}
		return parseTerminal{result: result, trailing: trailing}
	}

	buffered := p.sentence.String()
	speakable, held := buffered, ""
	if hold := terminalHoldback(buffered); hold != -1 {
		speakable, held = buffered[:hold], buffered[hold:]
	}
	if speakable == "" {
		return parseContinuing{}
	}

	if endsSentence(speakable) || len(speakable) > sentenceFlushThreshold {
		p.sentence.Reset()
		p.sentence.WriteString(held)
		p.emitted += len(speakable)
		return parseChunk{text: speakable}
	}

	return parseContinuing{}
}

// Flush returns buffered text left over once the stream has ended. It
// returns false when there is nothing to speak or a terminal payload
// already consumed the remainder.
func (p *responseParser) Flush() (string, bool) {
	if p.terminalSeen || p.sentence.Len() == 0 {
		return "", false
	}

	buffered := p.sentence.String()
	p.sentence.Reset()
	p.emitted += len(buffered)
	return buffered, true
}

// Accumulated returns the full response text received so far.
func (p *responseParser) Accumulated() string {
	return p.accumulator.String()
}

// TerminalSeen reports whether a terminal payload has been detected.
func (p *responseParser) TerminalSeen() bool {
	return p.terminalSeen
}

// endsSentence reports whether text ends in sentence-terminal punctuation,
// optionally followed by whitespace.
func endsSentence(text string) bool {
	trimmed := strings.TrimRight(text, " \t\n\r")
	if trimmed == "" {
		return false
	}

	switch trimmed[len(trimmed)-1] {
	case '.', '!', '?':
		return true
	}
	return false
}

// terminalHoldback returns the offset of the earliest position in text from
// which a terminal payload may still be forming, or -1 when all of text is
// safe to hand to synthesis. Payload fragments arrive token by token, so a
// flush must never cut through text a later fragment could complete into a
// match.
func terminalHoldback(text string) int {
	for idx := strings.IndexByte(text, '{'); idx != -1; {
		if viableTerminalPrefix(text[idx:]) {
			return idx
		}
		next := strings.IndexByte(text[idx+1:], '{')
		if next == -1 {
			return -1
		}
		idx += 1 + next
	}
	return -1
}

// viableTerminalPrefix reports whether text, starting at a '{', could still
// grow into a terminal payload as further fragments arrive. It walks the
// payload skeleton accepted by terminalPattern; running out of input before
// a structural mismatch means viable.
func viableTerminalPrefix(text string) bool {
	rest := text

	literal := func(lit string) (viable, complete bool) {
		if len(rest) < len(lit) {
			return strings.HasPrefix(lit, rest), false
		}
		if !strings.HasPrefix(rest, lit) {
			return false, false
		}
		rest = rest[len(lit):]
		return true, true
	}
	space := func() { rest = strings.TrimLeft(rest, " \t\r\n") }

	// field consumes free text up to the closing sequence. Field text
	// cannot span lines.
	field := func(closing string) (viable, complete bool) {
		end := strings.Index(rest, closing)
		newline := strings.IndexByte(rest, '\n')
		if end == -1 {
			return newline == -1, false
		}
		if newline != -1 && newline < end {
			return false, false
		}
		rest = rest[end:]
		return true, true
	}

	steps := []func() (bool, bool){
		func() (bool, bool) { return literal("{") },
		func() (bool, bool) { space(); return literal(`"Category":`) },
		func() (bool, bool) { space(); return literal(`"`) },
		func() (bool, bool) { return field(`",`) },
		func() (bool, bool) { return literal(`",`) },
		func() (bool, bool) { space(); return literal(`"Subcategory":`) },
		func() (bool, bool) { space(); return literal(`"`) },
		func() (bool, bool) { return field(`"`) },
		func() (bool, bool) { return literal(`"`) },
		func() (bool, bool) { space(); return literal("}") },
	}
	for _, step := range steps {
		viable, complete := step()
		if !viable {
			return false
		}
		if !complete {
			return true
		}
	}
	return true
}
