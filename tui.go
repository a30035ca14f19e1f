package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"

	"github.com/turbekoff/tabcalc/pkg/calc"
	"github.com/turbekoff/tabcalc/pkg/editor"
	"github.com/turbekoff/tabcalc/pkg/history"
	"github.com/turbekoff/tabcalc/pkg/numfmt"
)

const (
	displayWidth = 36
	historyWidth = 34
	historyShown = 12
)

// historyTextWidth is the room inside the history pane.
const historyTextWidth uint = historyWidth - 2

var (
	accentColor = lipgloss.Color("#ffb347")

	displayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1).
			Width(displayWidth)
	resultStyle  = lipgloss.NewStyle().Bold(true).Width(displayWidth).Align(lipgloss.Right)
	buttonStyle  = lipgloss.NewStyle().Width(7).Align(lipgloss.Center).Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240"))
	operatorKey  = buttonStyle.Foreground(accentColor)
	activeKey    = buttonStyle.Reverse(true)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	historyStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#56526e")).
			Padding(0, 1).
			Width(historyWidth)
	historyTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	selectedStyle     = lipgloss.NewStyle().Reverse(true)
)

var operatorKeys = map[editor.Key]bool{
	editor.KeyDivide:   true,
	editor.KeyMultiply: true,
	editor.KeyMinus:    true,
	editor.KeyPlus:     true,
	editor.KeyPercent:  true,
	editor.KeyEquals:   true,
}

type tuiKeyMap struct {
	Equals    key.Binding
	Backspace key.Binding
	Clear     key.Binding
	Layout    key.Binding
	Shift     key.Binding
	Angle     key.Binding
	Left      key.Binding
	Right     key.Binding
	Older     key.Binding
	Newer     key.Binding
	History   key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func newTUIKeyMap() tuiKeyMap {
	return tuiKeyMap{
		Equals:    key.NewBinding(key.WithKeys("enter", "="), key.WithHelp("enter", "evaluate")),
		Backspace: key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫", "delete")),
		Clear:     key.NewBinding(key.WithKeys("esc", "delete"), key.WithHelp("esc", "clear")),
		Layout:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "sci/std")),
		Shift:     key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "2nd")),
		Angle:     key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "deg/rad")),
		Left:      key.NewBinding(key.WithKeys("left"), key.WithHelp("←/→", "move cursor")),
		Right:     key.NewBinding(key.WithKeys("right")),
		Older:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑/↓", "recall history")),
		Newer:     key.NewBinding(key.WithKeys("down")),
		History:   key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "history pane")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+c", "ctrl+q"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k tuiKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Equals, k.Clear, k.Layout, k.Help, k.Quit}
}

func (k tuiKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Equals, k.Backspace, k.Clear, k.Left},
		{k.Layout, k.Shift, k.Angle},
		{k.Older, k.History, k.Help, k.Quit},
	}
}

// typedKey maps a typed character to the keypad key it stands for.
func typedKey(r rune) (editor.Key, bool) {
	if r >= '0' && r <= '9' {
		return editor.Key(string(r)), true
	}
	switch r {
	case '.', ',':
		return editor.KeyPoint, true
	case '(':
		return editor.KeyOpenParen, true
	case ')':
		return editor.KeyCloseParen, true
	case '+':
		return editor.KeyPlus, true
	case '-':
		return editor.KeyMinus, true
	case '*', 'x', '×':
		return editor.KeyMultiply, true
	case '/', '÷':
		return editor.KeyDivide, true
	case '%':
		return editor.KeyPercent, true
	case '^':
		return editor.KeyPower, true
	case '!':
		return editor.KeyFactorial, true
	case 's':
		return editor.KeySin, true
	case 'c':
		return editor.KeyCos, true
	case 't':
		return editor.KeyTan, true
	case 'l':
		return editor.KeyLg, true
	case 'n':
		return editor.KeyLn, true
	case 'r', '√':
		return editor.KeySqrt, true
	case 'p', 'π':
		return editor.KeyPi, true
	case 'e':
		return editor.KeyE, true
	case 'i':
		return editor.KeyReciprocal, true
	case 'm', 'R':
		return editor.KeyModulo, true
	}
	return "", false
}

type historyLoadedMsg struct {
	records []history.Record
	err     error
}

type tuiModel struct {
	ctx        context.Context
	calc       *Calculator
	store      history.Store
	records    []history.Record
	recall     int
	decimals   int
	histDigits int
	keys       tuiKeyMap
	help       help.Model
	pressed    editor.Key
	showPane   bool
	err        error
}

func newTUIModel(ctx context.Context, a *app, store history.Store) *tuiModel {
	return &tuiModel{
		ctx:        ctx,
		calc:       NewCalculator(a.config.AngleMode),
		store:      store,
		decimals:   a.config.PreviewDecimals,
		histDigits: a.config.HistoryDecimals,
		keys:       newTUIKeyMap(),
		help:       help.New(),
		showPane:   true,
	}
}

func (m *tuiModel) loadHistory() tea.Msg {
	records, err := m.store.List(m.ctx, "")
	return historyLoadedMsg{records: records, err: err}
}

func (m *tuiModel) Init() tea.Cmd {
	return m.loadHistory
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		m.records, m.err = msg.records, msg.err
		m.recall = len(m.records)
		return m, nil
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *tuiModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	m.err = nil
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.History):
		m.showPane = !m.showPane
	case key.Matches(msg, m.keys.Layout):
		return m.press(keyLayout)
	case key.Matches(msg, m.keys.Shift):
		m.calc.Scientific = true
		return m.press(editor.KeyShift)
	case key.Matches(msg, m.keys.Angle):
		m.calc.State, _ = m.calc.State.Press(editor.KeyAngle)
	case key.Matches(msg, m.keys.Equals):
		return m.press(editor.KeyEquals)
	case key.Matches(msg, m.keys.Backspace):
		return m.press(editor.KeyBackspace)
	case key.Matches(msg, m.keys.Clear):
		return m.press(editor.KeyClear)
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Older):
		m.recallHistory(-1)
	case key.Matches(msg, m.keys.Newer):
		m.recallHistory(1)
	case msg.Type == tea.KeyRunes:
		var cmds []tea.Cmd
		for _, r := range msg.Runes {
			if k, ok := typedKey(r); ok {
				cmds = append(cmds, m.typeKey(k))
			}
		}
		return tea.Batch(cmds...)
	}
	return nil
}

// typeKey presses a typed key, bringing up the scientific keypad for keys
// only it has. Keys on neither keypad go to the editor directly.
func (m *tuiModel) typeKey(k editor.Key) tea.Cmd {
	if !m.calc.Has(k) && !m.calc.Scientific {
		m.calc.Scientific = true
	}
	if !m.calc.Has(k) {
		var commit *editor.Commit
		m.calc.State, commit = m.calc.State.Press(k)
		m.pressed = k
		return m.commit(commit)
	}
	return m.press(k)
}

func (m *tuiModel) press(k editor.Key) tea.Cmd {
	commit, err := m.calc.Press(k)
	if err != nil {
		m.err = err
		return nil
	}
	m.pressed = k
	return m.commit(commit)
}

func (m *tuiModel) commit(commit *editor.Commit) tea.Cmd {
	if commit == nil {
		return nil
	}
	r := history.Record{Expression: commit.Expression, Result: commit.Result, Mode: history.ModeCalc}
	return func() tea.Msg {
		if _, err := m.store.Add(m.ctx, r); err != nil {
			return historyLoadedMsg{records: m.records, err: err}
		}
		return m.loadHistory()
	}
}

// moveCursor steps over the separator that tags an operator so the cursor
// never sits between the two.
func (m *tuiModel) moveCursor(step int) {
	s := m.calc.State
	runes := []rune(s.Text)
	pos := s.Sel.Start + step
	if step > 0 {
		pos = s.Sel.End + step
	}
	if pos > 0 && pos < len(runes) && string(runes[pos]) == calc.Separator {
		pos += step
	}
	m.calc.State = s.Select(pos, pos)
}

// recallHistory walks the committed expressions, newest first, loading
// each into the buffer. Walking past the newest clears the buffer.
func (m *tuiModel) recallHistory(step int) {
	var calcs []history.Record
	for _, r := range m.records {
		if r.Mode == history.ModeCalc {
			calcs = append(calcs, r)
		}
	}
	if len(calcs) == 0 {
		return
	}

	m.recall = min(max(min(m.recall, len(calcs))+step, 0), len(calcs))
	if m.recall == len(calcs) {
		m.calc.State, _ = m.calc.State.Press(editor.KeyClear)
		return
	}
	m.calc.State = m.calc.State.Load(calcs[m.recall].Expression)
}

// expressionView renders the buffer with a cursor mark, without the
// separators.
func (m *tuiModel) expressionView() string {
	s := m.calc.State
	runes := []rune(s.Text)

	var b strings.Builder
	for i, r := range runes {
		if i == s.Sel.Start && !s.Settled {
			b.WriteString("│")
		}
		if string(r) != calc.Separator {
			b.WriteRune(r)
		}
	}
	if s.Sel.Start >= len(runes) && !s.Settled {
		b.WriteString("│")
	}
	return wordwrap.String(b.String(), displayWidth)
}

func (m *tuiModel) keypadView() string {
	rows := make([]string, 0, 7)
	for _, row := range m.calc.Keypad() {
		cells := make([]string, 0, len(row))
		for _, b := range row {
			style := buttonStyle
			switch {
			case b.Key == m.pressed:
				style = activeKey
			case operatorKeys[b.Key]:
				style = operatorKey
			}
			cells = append(cells, style.Render(b.Label))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *tuiModel) historyView() string {
	lines := []string{historyTitleStyle.Render("History")}
	if len(m.records) == 0 {
		lines = append(lines, statusStyle.Render("No calculations yet."))
	}

	start := max(len(m.records)-historyShown, 0)
	for i := len(m.records) - 1; i >= start; i-- {
		r := m.records[i]
		result := r.Result
		if r.Mode == history.ModeCalc {
			result = numfmt.Format(result, m.histDigits)
		}
		entry := truncate.StringWithTail(r.Expression, historyTextWidth, "…") + "\n" +
			truncate.StringWithTail("= "+result, historyTextWidth, "…")
		if r.Mode == history.ModeCalc && r.Expression == m.calc.State.Expression() {
			entry = selectedStyle.Render(entry)
		}
		lines = append(lines, entry)
	}
	return historyStyle.Render(strings.Join(lines, "\n"))
}

func (m *tuiModel) View() string {
	s := m.calc.State
	result := s.Display(m.decimals)
	if result == "" {
		result = "…"
	}
	display := displayStyle.Render(m.expressionView() + "\n" + resultStyle.Render(result))

	status := []string{s.Angle.String()}
	if s.Shift {
		status = append(status, "2nd")
	}
	if m.calc.Scientific {
		status = append(status, "sci")
	}
	line := statusStyle.Render(strings.Join(status, " · "))
	if m.err != nil {
		line += "  " + errorStyle.Render(fmt.Sprint(m.err))
	}

	body := lipgloss.JoinVertical(lipgloss.Left, display, m.keypadView(), line)
	if m.showPane {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, " ", m.historyView())
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, m.help.View(m.keys)) + "\n"
}

func newTUICommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Interactive keypad calculator in the terminal",
		Long: `Open the calculator keypad in the terminal. Type the expression, press
enter to evaluate. Letters type functions: s c t for sin cos tan, l and n
for lg and ln, r for √, p for π, m for the remainder operator.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := a.openHistory(ctx)
			if err != nil {
				a.logger.Printf("failed to open history, error: %v", err)
				return err
			}
			defer store.Close()

			p := tea.NewProgram(newTUIModel(ctx, a, store), tea.WithAltScreen(), tea.WithContext(ctx))
			_, err = p.Run()
			return err
		},
	}
}
