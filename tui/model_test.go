package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func typeRunes(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}
	return m
}

func TestTypedUtteranceIsSubmitted(t *testing.T) {
	var submitted []string
	m := NewModel(func(text string) { submitted = append(submitted, text) })

	m = typeRunes(t, m, "t")
	if !m.typing {
		t.Fatalf("expected 't' to open the text entry line")
	}

	m = typeRunes(t, m, "shelter for men")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	if len(submitted) != 1 || submitted[0] != "shelter for men" {
		t.Fatalf("unexpected submissions %q", submitted)
	}
	if m.typing {
		t.Fatalf("expected the text entry line to close after submit")
	}
	if m.input.Value() != "" {
		t.Fatalf("expected the input to be cleared after submit")
	}
}

func TestTypedEntryCapturesQuitKeysWhileOpen(t *testing.T) {
	m := NewModel(nil)

	m = typeRunes(t, m, "t")
	m = typeRunes(t, m, "q")
	if !m.typing {
		t.Fatalf("expected 'q' to be typed, not to quit")
	}
	if m.input.Value() != "q" {
		t.Fatalf("unexpected input value %q", m.input.Value())
	}
}

func TestTypedEntryEscapeCancelsWithoutSubmitting(t *testing.T) {
	var submitted []string
	m := NewModel(func(text string) { submitted = append(submitted, text) })

	m = typeRunes(t, m, "t")
	m = typeRunes(t, m, "never mind")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)

	if m.typing {
		t.Fatalf("expected escape to close the text entry line")
	}
	if len(submitted) != 0 {
		t.Fatalf("expected nothing to be submitted, got %q", submitted)
	}
}
