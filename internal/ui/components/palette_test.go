package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

type otherMsg struct{}

func TestCaptureOnlyTakesKeys(t *testing.T) {
	t.Parallel()
	p := NewPalette()
	if _, _, captured := p.Capture(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}); captured {
		t.Fatalf("a closed palette must not capture")
	}

	p.Open()
	var captured bool
	p, _, captured = p.Capture(otherMsg{})
	if captured {
		t.Fatalf("non-key messages must pass through")
	}
	for _, r := range "goto 3" {
		p, _, captured = p.Capture(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		if !captured {
			t.Fatalf("key %q should be captured", r)
		}
	}
	p, cmd, captured := p.Capture(tea.KeyMsg{Type: tea.KeyEnter})
	if !captured || p.Visible() {
		t.Fatalf("enter should close the palette")
	}
	msg, ok := cmd().(PaletteSubmitMsg)
	if !ok || msg.Input != "goto 3" {
		t.Fatalf("unexpected submit %#v", cmd())
	}
}

func TestCaptureEscCancels(t *testing.T) {
	t.Parallel()
	p := NewPalette()
	p.Open()
	p, cmd, captured := p.Capture(tea.KeyMsg{Type: tea.KeyEsc})
	if !captured || p.Visible() {
		t.Fatalf("esc should close the palette")
	}
	if _, ok := cmd().(PaletteCancelMsg); !ok {
		t.Fatalf("expected a cancel message")
	}
}

func TestCloseIsSilent(t *testing.T) {
	t.Parallel()
	p := NewPalette()
	p.Open()
	p.Close()
	if p.Visible() || p.View() != "" {
		t.Fatalf("closed palette should render nothing")
	}
}
