package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fentz26/taskpulse/internal/models"
	"github.com/fentz26/taskpulse/internal/suggest"
)

// SuggestionAPI is the subset of the API the picker talks to.
type SuggestionAPI interface {
	Suggest(ctx context.Context, req suggest.Request) ([]models.AISuggestion, error)
	Accept(ctx context.Context, taskID string, s models.AISuggestion) (*models.Task, error)
	Reject(ctx context.Context, taskID string, s models.AISuggestion) error
}

// Decision outcomes shown next to a suggestion.
const (
	decisionAccepted = "aceptada"
	decisionRejected = "rechazada"
)

type pickerKeys struct {
	Up     key.Binding
	Down   key.Binding
	Accept key.Binding
	Reject key.Binding
	Quit   key.Binding
}

func (k pickerKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Accept, k.Reject, k.Quit}
}

func (k pickerKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var defaultPickerKeys = pickerKeys{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "subir")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "bajar")),
	Accept: key.NewBinding(key.WithKeys("enter", "a"), key.WithHelp("enter/a", "aceptar")),
	Reject: key.NewBinding(key.WithKeys("x", "d"), key.WithHelp("x/d", "rechazar")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "salir")),
}

// Messages
type suggestionsLoadedMsg struct{ suggestions []models.AISuggestion }

type decisionMsg struct {
	id      string
	outcome string
	task    *models.Task
}

type errMsg struct{ err error }

// Picker lets the user accept or reject suggestions for one task.
type Picker struct {
	api         SuggestionAPI
	task        models.Task
	suggestions []models.AISuggestion
	decided     map[string]string
	selectedIdx int
	loading     bool
	busy        bool
	message     string
	spinner     spinner.Model
	help        help.Model
	keys        pickerKeys
}

// NewPicker creates a picker for task.
func NewPicker(api SuggestionAPI, task models.Task) *Picker {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = labelStyle

	return &Picker{
		api:     api,
		task:    task,
		decided: make(map[string]string),
		loading: true,
		spinner: sp,
		help:    help.New(),
		keys:    defaultPickerKeys,
	}
}

// Run starts the picker and returns the task as last updated.
func (p *Picker) Run() (models.Task, error) {
	_, err := tea.NewProgram(p).Run()
	return p.task, err
}

// Init implements tea.Model
func (p *Picker) Init() tea.Cmd {
	return tea.Batch(p.spinner.Tick, p.fetch())
}

// Update implements tea.Model
func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Quit):
			return p, tea.Quit
		case key.Matches(msg, p.keys.Up):
			if p.selectedIdx > 0 {
				p.selectedIdx--
			}
		case key.Matches(msg, p.keys.Down):
			if p.selectedIdx < len(p.suggestions)-1 {
				p.selectedIdx++
			}
		case key.Matches(msg, p.keys.Accept):
			if s, ok := p.pending(); ok {
				p.busy = true
				return p, p.accept(s)
			}
		case key.Matches(msg, p.keys.Reject):
			if s, ok := p.pending(); ok {
				p.busy = true
				return p, p.reject(s)
			}
		}

	case tea.WindowSizeMsg:
		p.help.Width = msg.Width

	case spinner.TickMsg:
		if !p.loading {
			return p, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd

	case suggestionsLoadedMsg:
		p.loading = false
		p.suggestions = msg.suggestions
		if len(p.suggestions) == 0 {
			p.message = "Sin sugerencias para esta tarea"
		}

	case decisionMsg:
		p.busy = false
		p.decided[msg.id] = msg.outcome
		if msg.task != nil {
			p.task = *msg.task
		}
		p.message = fmt.Sprintf("Sugerencia %s", msg.outcome)
		p.advance()

	case errMsg:
		p.loading = false
		p.busy = false
		p.message = "Error: " + msg.err.Error()
	}
	return p, nil
}

// pending returns the selected suggestion when it has not been decided yet.
func (p *Picker) pending() (models.AISuggestion, bool) {
	if p.loading || p.busy || p.selectedIdx >= len(p.suggestions) {
		return models.AISuggestion{}, false
	}
	s := p.suggestions[p.selectedIdx]
	if _, done := p.decided[s.ID]; done {
		return models.AISuggestion{}, false
	}
	return s, true
}

// advance moves the selection to the next undecided suggestion, if any.
func (p *Picker) advance() {
	for i := 1; i <= len(p.suggestions); i++ {
		idx := (p.selectedIdx + i) % len(p.suggestions)
		if _, done := p.decided[p.suggestions[idx].ID]; !done {
			p.selectedIdx = idx
			return
		}
	}
}

func (p *Picker) fetch() tea.Cmd {
	req := suggest.Request{
		Title:       p.task.Title,
		Description: p.task.DescriptionText(),
		Category:    p.task.Category,
		DueDate:     p.task.DueDate,
	}
	return func() tea.Msg {
		out, err := p.api.Suggest(context.Background(), req)
		if err != nil {
			return errMsg{err}
		}
		return suggestionsLoadedMsg{out}
	}
}

func (p *Picker) accept(s models.AISuggestion) tea.Cmd {
	taskID := p.task.ID
	return func() tea.Msg {
		task, err := p.api.Accept(context.Background(), taskID, s)
		if err != nil {
			return errMsg{err}
		}
		return decisionMsg{id: s.ID, outcome: decisionAccepted, task: task}
	}
}

func (p *Picker) reject(s models.AISuggestion) tea.Cmd {
	taskID := p.task.ID
	return func() tea.Msg {
		if err := p.api.Reject(context.Background(), taskID, s); err != nil {
			return errMsg{err}
		}
		return decisionMsg{id: s.ID, outcome: decisionRejected}
	}
}

// View implements tea.Model
func (p *Picker) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Sugerencias para: " + p.task.Title))
	b.WriteString("\n\n")

	if p.loading {
		b.WriteString(p.spinner.View() + " Buscando sugerencias...\n")
		return b.String()
	}

	for i, s := range p.suggestions {
		line := fmt.Sprintf("%-16s %s (%d%%)", suggestionLabel(s.Type), s.Title, int(s.Confidence*100+0.5))
		if s.Source == models.SourceRemote {
			line += " ✦"
		}
		if i == p.selectedIdx {
			b.WriteString(selectedStyle.Render("▶ " + line))
		} else {
			b.WriteString(itemStyle.Render("  " + line))
		}
		switch p.decided[s.ID] {
		case decisionAccepted:
			b.WriteString(" " + acceptedStyle.Render("✓ "+decisionAccepted))
		case decisionRejected:
			b.WriteString(" " + rejectedStyle.Render("✗ "+decisionRejected))
		}
		b.WriteString("\n")
		if s.Description != "" {
			b.WriteString("    " + descStyle.Render(s.Description) + "\n")
		}
	}

	if p.message != "" {
		b.WriteString("\n" + warnStyle.Render(p.message) + "\n")
	}
	b.WriteString("\n" + p.help.View(p.keys))
	return b.String()
}

func suggestionLabel(t models.SuggestionType) string {
	switch t {
	case models.SuggestionCategory:
		return "[categoría]"
	case models.SuggestionDueDate:
		return "[fecha límite]"
	case models.SuggestionPriority:
		return "[prioridad]"
	case models.SuggestionProductivityTip:
		return "[consejo]"
	default:
		return "[" + string(t) + "]"
	}
}
