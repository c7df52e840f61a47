// Package tui is the terminal surface: the four list editors side by side,
// the totals panel and the calculator overlay.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/warp/caixa/calculator"
	"github.com/warp/caixa/reconcile"
)

// overlayKeys maps Bubble Tea key names to the key names the calculator
// understands. Single characters pass through unchanged.
var overlayKeys = map[string]string{
	"enter":     "Enter",
	"backspace": "Backspace",
	"delete":    "Delete",
	"esc":       "Escape",
}

// Model is the Bubble Tea model.
type Model struct {
	ctx      context.Context
	o        *reconcile.Orchestrator
	logger   *zap.Logger
	currency string

	snap     reconcile.Snapshot
	focus    int
	selected [4]int
	input    textinput.Model

	calc    *calculator.Session
	width   int
	message string
}

// Option configures a Model.
type Option func(*Model)

// WithCurrency sets the ISO code used for amounts.
func WithCurrency(code string) Option {
	return func(m *Model) {
		if code != "" {
			m.currency = code
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New builds a model over a loaded orchestrator.
func New(ctx context.Context, o *reconcile.Orchestrator, opts ...Option) Model {
	ti := textinput.New()
	ti.Placeholder = "0,00"
	ti.CharLimit = 32
	ti.Prompt = "+ "
	ti.Focus()

	m := Model{
		ctx:      ctx,
		o:        o,
		logger:   zap.NewNop(),
		currency: reconcile.DefaultCurrency,
		snap:     o.Snapshot(),
		input:    ti,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, o *reconcile.Orchestrator, opts ...Option) error {
	_, err := tea.NewProgram(New(ctx, o, opts...), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Focused returns the category whose column has focus.
func (m Model) Focused() reconcile.Category {
	return reconcile.Categories[m.focus]
}

// CalculatorOpen reports whether the overlay is showing.
func (m Model) CalculatorOpen() bool {
	return m.calc != nil
}

// Input returns the add-form text.
func (m Model) Input() string {
	return m.input.Value()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.calc != nil {
			return m.updateCalculator(msg)
		}
		return m.updateMain(msg)
	}
	return m, nil
}

func (m Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	editor := m.o.Editor(m.Focused())
	m.message = ""

	switch msg.String() {
	case "tab":
		m.focus = (m.focus + 1) % len(reconcile.Categories)
		return m, nil
	case "shift+tab":
		m.focus = (m.focus + len(reconcile.Categories) - 1) % len(reconcile.Categories)
		return m, nil
	case "up":
		if m.selected[m.focus] > 0 {
			m.selected[m.focus]--
		}
		return m, nil
	case "down":
		if m.selected[m.focus] < len(editor.Values())-1 {
			m.selected[m.focus]++
		}
		return m, nil
	case "enter":
		if editor.Add(m.ctx, m.input.Value()) {
			m.input.Reset()
			m.selected[m.focus] = len(editor.Values()) - 1
		}
		m.refresh()
		return m, nil
	case "ctrl+x":
		editor.Remove(m.ctx, m.selected[m.focus])
		m.refresh()
		return m, nil
	case "ctrl+r":
		m.o.ResetAll(m.ctx)
		m.selected = [4]int{}
		m.message = "Todos os valores foram apagados."
		m.refresh()
		return m, nil
	case "ctrl+k":
		s := calculator.New()
		m.calc = &s
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateCalculator(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+u" {
		v, ok := m.calc.Commit()
		if !ok {
			return m, nil
		}
		m.input.SetValue(calculator.FormatResult(v))
		m.input.CursorEnd()
		m.calc = nil
		return m, nil
	}

	if name, ok := overlayKeys[key]; ok {
		key = name
	}
	next, closed := m.calc.Press(key)
	if closed {
		m.calc = nil
		return m, nil
	}
	m.calc = &next
	return m, nil
}

// refresh re-reads the snapshot and keeps selections in range.
func (m *Model) refresh() {
	m.snap = m.o.Snapshot()
	for i, c := range reconcile.Categories {
		n := len(m.snap.State.List(c))
		if m.selected[i] >= n {
			m.selected[i] = max(n-1, 0)
		}
	}
	m.logger.Debug("totals", zap.Stringer("totals", m.snap.Totals))
}
