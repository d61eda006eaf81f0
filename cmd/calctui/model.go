package main

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"calculator-widget/internal/calculator"
	"calculator-widget/internal/ui"
)

const historySize = 5

// teaKeys maps bubbletea key names onto browser key names so both shells
// share calculator.MapKey.
var teaKeys = map[string]string{
	"enter":     "Enter",
	"esc":       "Escape",
	"backspace": "Backspace",
}

// autoClearedMsg carries the pad's display after the post-error clear.
type autoClearedMsg calculator.Snapshot

type model struct {
	pad      *calculator.Pad
	snap     calculator.Snapshot
	history  []string
	hint     string
	quitting bool
}

func initialModel(pad *calculator.Pad) model {
	return model{pad: pad, snap: pad.Snapshot()}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	case autoClearedMsg:
		m.snap = calculator.Snapshot(msg)
		return m, nil
	}
	return m, nil
}

func (m model) handleKey(key string) (tea.Model, tea.Cmd) {
	if key == "ctrl+c" || key == "q" {
		m.quitting = true
		return m, tea.Quit
	}

	if name, ok := teaKeys[key]; ok {
		key = name
	}

	ctx := context.Background()
	m.hint = ""

	action, token := calculator.MapKey(key)
	switch action {
	case calculator.ActionAppend:
		snap, err := m.pad.Append(ctx, token)
		if err != nil {
			m.hint = err.Error()
		}
		m.snap = snap
	case calculator.ActionEvaluate:
		expr := m.pad.Snapshot().Display
		m.snap = m.pad.Evaluate(ctx)
		if m.snap.Err == nil {
			m.remember(fmt.Sprintf("%s = %s", expr, m.snap.Display))
		}
	case calculator.ActionClear:
		m.snap = m.pad.Clear(ctx)
	case calculator.ActionDelete:
		m.snap = m.pad.DeleteLast(ctx)
	default:
		m.hint = fmt.Sprintf("key %q is not a calculator key", key)
	}

	return m, nil
}

func (m *model) remember(line string) {
	m.history = append(m.history, line)
	if len(m.history) > historySize {
		m.history = m.history[len(m.history)-historySize:]
	}
}

// --- Views ---

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(ui.TitleStyle.Render("Calculator"))
	b.WriteString("\n\n")

	for _, line := range m.history {
		b.WriteString(ui.DimStyle.Render("  " + line))
		b.WriteString("\n")
	}

	b.WriteString(ui.Display(m.snap.Display, m.snap.State == calculator.StateError))
	b.WriteString("\n")

	if m.snap.State == calculator.StateError {
		b.WriteString(ui.ErrorStyle.Render(fmt.Sprintf("  %s, clearing…", calculator.ErrorKind(m.snap.Err))))
		b.WriteString("\n")
	} else if v, ok := m.pad.LastResult(); ok {
		b.WriteString(ui.SuccessStyle.Render(fmt.Sprintf("  ans %s", calculator.FormatResult(v))))
		b.WriteString("\n")
	}

	if m.hint != "" {
		b.WriteString(ui.HintStyle.Render("  " + m.hint))
		b.WriteString("\n")
	}

	b.WriteString(ui.DimStyle.Render("\n0-9 . + - * / % • enter/= evaluate • esc/c clear • backspace delete • q quit"))
	b.WriteString("\n")
	return b.String()
}
