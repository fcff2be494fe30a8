package repl

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/deferred/deferred"
	"github.com/ardnew/deferred/log"
)

const (
	prompt       = "➜ "
	defaultWidth = 80
	charLimit    = 1024
	emptyHint    = "Type an expression, or :help for commands"
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	formStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)

	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// Run starts an interactive session on sess. History is kept in cacheDir
// when it is not empty. Extra program options are passed to bubbletea.
func Run(
	ctx context.Context,
	sess *Session,
	cacheDir string,
	logger log.Logger,
	opts ...tea.ProgramOption,
) error {
	history := NewHistory("")

	if cacheDir != "" {
		if err := os.MkdirAll(cacheDir, 0o700); err != nil {
			logger.WarnContext(ctx, "history disabled", slog.Any("error", err))
		} else {
			history = NewHistory(filepath.Join(cacheDir, baseHistory))
		}
	}

	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	logger.TraceContext(ctx, "repl start",
		slog.Int("history", history.Len()),
		slog.Int("bindings", len(sess.bindings)),
	)

	p := tea.NewProgram(
		newModel(ctx, sess, history, logger),
		append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)...,
	)

	_, err := p.Run()

	return err
}

// model is the bubbletea model of a session.
type model struct {
	ctxFunc    func() context.Context
	sess       *Session
	logger     log.Logger
	history    *History
	historyIdx int
	input      textinput.Model
	matches    fuzzy.Matches
	wordStart  int
	wordEnd    int
	suggIdx    int    // selected match while tab-cycling, else -1
	tabActive  bool   // whether Tab is cycling through matches
	preTab     string // input before tab-cycling began
	preCursor  int
	width      int
	quitting   bool
}

func newModel(
	ctx context.Context,
	sess *Session,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.CharLimit = charLimit
	ti.Width = defaultWidth
	ti.Focus()

	return model{
		ctxFunc:    func() context.Context { return ctx },
		sess:       sess,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		input:      ti,
		suggIdx:    -1,
		width:      defaultWidth,
	}
}

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-len(prompt)-2, 1)

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.hint())
	b.WriteString("\n")

	return b.String()
}

// hint returns the line shown under the input.
func (m model) hint() string {
	input := m.input.Value()

	if strings.TrimSpace(input) == "" {
		return hintStyle.Render(emptyHint)
	}

	if call := detectFunctionCall(input, m.input.Position()); call.inCall {
		if fn := m.sess.Func(call.name); fn != nil {
			return renderSignatureHint(call.name, fn, call.argIndex)
		}
	}

	return renderCandidateBar(m.matches, m.suggIdx, m.width)
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		m.refresh(false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			m.tabActive = false
			m.refresh(true)

			return m, nil
		}

		return m.execute()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.browse(-1), nil

	case tea.KeyDown:
		return m.browse(1), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTab)
			m.input.SetCursor(m.preCursor)
			m.refresh(false)
		}

		return m, nil
	}

	var cmd tea.Cmd

	typing := msg.Type == tea.KeyRunes
	if typing && m.tabActive && msg.String() == " " {
		m.tabActive = false
	}

	if !typing {
		m.tabActive = false
	}

	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refresh(typing)

	return m, cmd
}

// cycle moves the tab selection by step, completing the current word.
func (m model) cycle(step int) model {
	if len(m.matches) == 0 {
		return m
	}

	if len(m.matches) == 1 {
		m.replaceWord(m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTab = m.input.Value()
		m.preCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	m.replaceWord(m.matches[m.suggIdx].Str)

	return m
}

// browse moves through history by step. Moving past the newest entry
// clears the input.
func (m model) browse(step int) model {
	idx := m.historyIdx + step
	if idx < 0 {
		return m
	}

	m.tabActive = false
	m.historyIdx = min(idx, m.history.Len())

	line, err := m.history.Line(m.historyIdx)
	if err != nil {
		line = ""
	}

	m.input.SetValue(line)
	m.input.SetCursor(len(line))
	m.refresh(false)

	return m
}

func (m *model) replaceWord(s string) {
	input := m.input.Value()
	m.input.SetValue(input[:m.wordStart] + s + input[m.wordEnd:])
	m.input.SetCursor(m.wordStart + len(s))
	m.wordEnd = m.wordStart + len(s)
}

// refresh recomputes completion matches. With confirm, a word that already
// equals its only match is accepted.
func (m *model) refresh(confirm bool) {
	m.matches, m.wordStart, m.wordEnd = m.sess.complete(
		m.input.Value(), m.input.Position())

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !confirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.matches = nil
		m.suggIdx = -1
	}
}

// execute evaluates or runs the submitted line and prints its output above
// the prompt.
func (m model) execute() (model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		return m, nil
	}

	m.input.SetValue("")
	m.matches = nil
	m.suggIdx = -1

	if err := m.history.Add(line); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not save history", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	m.logger.TraceContext(m.ctxFunc(), "repl line", slog.String("input", line))

	cmds := []tea.Cmd{
		tea.Println(promptStyle.Render(prompt) + inputStyle.Render(line)),
	}

	lines, reply, err := m.run(line)

	for _, l := range lines {
		cmds = append(cmds, tea.Println(styleLine(l)))
	}

	if err != nil {
		cmds = append(cmds, tea.Println(errorStyle.Render("error: "+errorText(err))))
	}

	switch {
	case reply.Quit:
		m.quitting = true

		cmds = append(cmds, tea.Quit)

	case reply.Clear:
		cmds = append(cmds, tea.ClearScreen)
	}

	return m, tea.Sequence(cmds...)
}

// run dispatches line to the session.
func (m model) run(line string) ([]string, Reply, error) {
	if cmd, ok := strings.CutPrefix(line, ":"); ok {
		reply, err := m.sess.Exec(cmd)

		return reply.Lines, reply, err
	}

	res, err := m.sess.Eval(m.ctxFunc(), line)

	return res.Lines(), Reply{}, err
}

func styleLine(l string) string {
	switch {
	case strings.HasPrefix(l, "= "):
		return resultStyle.Render(l)
	case strings.HasPrefix(l, "#"):
		return hintStyle.Render(l)
	default:
		return formStyle.Render(l)
	}
}

// errorText appends a "did you mean" suggestion carried by err.
func errorText(err error) string {
	text := err.Error()

	var de *deferred.Error
	if !errors.As(err, &de) {
		return text
	}

	for _, a := range de.Attrs() {
		if a.Key == "suggestion" {
			return text + " (did you mean " + a.Value.String() + "?)"
		}
	}

	return text
}
