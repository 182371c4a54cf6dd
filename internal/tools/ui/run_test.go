package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestModelUpdateAndViewStates(t *testing.T) {
	m := model{title: "migrate up", action: func(context.Context) ([]string, error) { return nil, nil }}
	if view := m.View(); !strings.Contains(view, "Running") {
		t.Fatalf("expected running view, got %q", view)
	}

	updated, _ := m.Update(actionMsg{details: []string{"schema up to date"}, err: nil})
	mu := updated.(model)
	if !mu.done || mu.err != nil || len(mu.details) != 1 {
		t.Fatalf("unexpected success update state: %+v", mu)
	}
	if view := mu.View(); !strings.Contains(view, "OK") || !strings.Contains(view, "schema up to date") {
		t.Fatalf("expected ok view, got %q", view)
	}

	updated, _ = m.Update(actionMsg{details: nil, err: errors.New("boom")})
	me := updated.(model)
	if !me.done || me.err == nil {
		t.Fatalf("unexpected error update state: %+v", me)
	}
	if view := me.View(); !strings.Contains(view, "FAILED") {
		t.Fatalf("expected failed view, got %q", view)
	}
}

func TestModelCtrlCInterrupts(t *testing.T) {
	m := model{title: "seed apply"}
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	mi := updated.(model)
	if !mi.done || mi.err == nil {
		t.Fatalf("ctrl+c should finish with an error: %+v", mi)
	}
	if cmd == nil {
		t.Fatal("ctrl+c should quit the program")
	}
}
