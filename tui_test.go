package main

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestModel(cancelled *int) model {
	return newModel(
		func() (ARGB, bool, error) { return ARGB{}, false, nil },
		func() { *cancelled++ },
		FormatHex,
	)
}

func TestModel_Picked(t *testing.T) {
	var cancels int
	m := newTestModel(&cancels)

	next, cmd := m.Update(pickedMsg{color: Opaque(255, 128, 0), ok: true})
	got := next.(model)
	if got.state != stateDone {
		t.Fatalf("expected stateDone, got %v", got.state)
	}
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if !strings.Contains(got.View(), "#ff8000") {
		t.Errorf("expected the view to show the color, got %q", got.View())
	}
	if cancels != 0 {
		t.Errorf("expected no cancel, got %d", cancels)
	}
}

func TestModel_PickCancelledOrFailed(t *testing.T) {
	var cancels int
	m := newTestModel(&cancels)

	next, _ := m.Update(pickedMsg{ok: false})
	if next.(model).state != stateCancelled {
		t.Errorf("expected stateCancelled, got %v", next.(model).state)
	}

	next, _ = m.Update(pickedMsg{err: errors.New("grab failed")})
	got := next.(model)
	if got.state != stateFailed {
		t.Fatalf("expected stateFailed, got %v", got.state)
	}
	if !strings.Contains(got.View(), "grab failed") {
		t.Errorf("expected the error in the view, got %q", got.View())
	}
}

func TestModel_KeyCancels(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
	} {
		var cancels int
		m := newTestModel(&cancels)

		next, cmd := m.Update(key)
		if next.(model).state != stateCancelled {
			t.Errorf("%s: expected stateCancelled, got %v", key, next.(model).state)
		}
		if cancels != 1 {
			t.Errorf("%s: expected one cancel, got %d", key, cancels)
		}
		if cmd == nil {
			t.Errorf("%s: expected a quit command", key)
		}
	}
}

func TestModel_LatePickIgnored(t *testing.T) {
	var cancels int
	m := newTestModel(&cancels)
	m.state = stateCancelled

	next, cmd := m.Update(pickedMsg{color: White, ok: true})
	if next.(model).state != stateCancelled || cmd != nil {
		t.Error("expected a pick after cancelling to be ignored")
	}
}
