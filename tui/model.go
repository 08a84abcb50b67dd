// Package tui renders a live dialogue session in the terminal: the
// conversation so far, interim transcription, the streaming assistant
// response, usage counters and the final service match.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	orchestration "github.com/surajmsd1/aisearch-core/core"
)

const defaultWidth = 80

type conversationLine struct {
	speaker string
	text    string
}

// Model is the bubbletea model for one dialogue session.
type Model struct {
	state    orchestration.DialogueState
	speaking bool

	lines    []conversationLine
	interim  string
	response strings.Builder

	result *orchestration.TerminalResult
	usage  orchestration.UsageSnapshot
	err    error
	ended  bool

	spinner  spinner.Model
	viewport viewport.Model
	ready    bool
	width    int

	// submit receives typed utterances; it must not block the UI loop
	submit func(text string)
	input  textinput.Model
	typing bool
}

func NewModel(submit func(text string)) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	input := textinput.New()
	input.Placeholder = "type your answer"
	input.Prompt = "> "

	return Model{
		state:   orchestration.StateIdle,
		spinner: s,
		width:   defaultWidth,
		submit:  submit,
		input:   input,
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.typing {
			return m.updateTyping(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "t":
			if !m.ended && m.result == nil {
				m.typing = true
				return m, m.input.Focus()
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-6)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 6
		}
		m.refreshViewport()

	case interimTranscriptMsg:
		m.interim = msg.transcript

	case transcriptMsg:
		m.interim = ""
		m.lines = append(m.lines, conversationLine{speaker: "You", text: msg.transcript})
		m.refreshViewport()

	case responseSegmentMsg:
		m.response.WriteString(msg.segment)
		m.refreshViewport()

	case responseEndMsg:
		m.response.Reset()
		if msg.response != "" {
			m.lines = append(m.lines, conversationLine{speaker: "Assistant", text: msg.response})
		}
		m.refreshViewport()

	case speakingMsg:
		m.speaking = msg.speaking

	case stateMsg:
		m.state = msg.to

	case serviceMatchedMsg:
		result := msg.result
		m.result = &result
		m.refreshViewport()

	case usageMsg:
		m.usage = msg.usage

	case sessionEndedMsg:
		m.ended = true
		m.err = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.ready {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// updateTyping handles keys while the text entry line is open.
func (m Model) updateTyping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyEsc:
		m.typing = false
		m.input.Blur()
		m.input.Reset()
		return m, nil

	case tea.KeyEnter:
		text := strings.TrimSpace(m.input.Value())
		m.typing = false
		m.input.Blur()
		m.input.Reset()
		if text != "" && m.submit != nil {
			m.submit(text)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("AI Search"))
	b.WriteString("\n")

	if m.ready {
		b.WriteString(m.viewport.View())
	} else {
		b.WriteString(m.renderConversation())
	}
	b.WriteString("\n")

	if m.interim != "" {
		b.WriteString(interimStyle.Render(wordwrap.String(m.interim, m.width)))
		b.WriteString("\n")
	}

	if m.typing {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	hint := "t to type · q to quit"
	if m.typing {
		hint = "enter to send · esc to cancel"
	}
	b.WriteString(footerStyle.Render(fmt.Sprintf(
		"tokens in %d · out %d · synthesized chars %d · %s",
		m.usage.InputTokens, m.usage.OutputTokens, m.usage.SynthesizedCharacters, hint)))

	return b.String()
}

func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderConversation())
	m.viewport.GotoBottom()
}

func (m Model) renderConversation() string {
	var b strings.Builder
	for _, line := range m.lines {
		style := userStyle
		if line.speaker == "Assistant" {
			style = assistantStyle
		}
		b.WriteString(style.Render(line.speaker + ":"))
		b.WriteString(" ")
		b.WriteString(wordwrap.String(line.text, m.width-2))
		b.WriteString("\n")
	}

	if streaming := m.response.String(); streaming != "" {
		b.WriteString(assistantStyle.Render("Assistant:"))
		b.WriteString(" ")
		b.WriteString(wordwrap.String(streaming, m.width-2))
		b.WriteString("\n")
	}

	if m.result != nil {
		b.WriteString("\n")
		b.WriteString(resultStyle.Render(fmt.Sprintf(
			"Matched service: %s / %s", m.result.Category, m.result.Subcategory)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderStatus() string {
	if m.err != nil {
		return errorStyle.Render("error: " + m.err.Error())
	}

	switch {
	case m.speaking:
		return statusStyle.Render(m.spinner.View() + "speaking...")
	case m.state == orchestration.StateListening:
		return statusStyle.Render(m.spinner.View() + "listening...")
	case m.state == orchestration.StateAwaitingResponse:
		return statusStyle.Render(m.spinner.View() + "thinking...")
	case m.state == orchestration.StateTerminated:
		return statusStyle.Render("done")
	default:
		return statusStyle.Render("idle")
	}
}
