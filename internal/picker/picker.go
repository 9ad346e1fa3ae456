// Package picker presents a ranked candidate list for interactive
// disambiguation. It follows The Elm Architecture via bubbletea: the
// model holds the ranked list, a free-text entry for a custom folder,
// and a countdown that confirms the top candidate when nobody answers.
package picker

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pvaldez/specnav/internal/align"
	"github.com/pvaldez/specnav/internal/folder"
)

// Choice is the picker outcome.
type Choice struct {
	FolderID  string
	Custom    bool // typed rather than picked from the list
	TimedOut  bool // countdown elapsed, top candidate confirmed
	Cancelled bool // user backed out
}

// item wraps a ScoreResult for the list display.
type item struct {
	rank int
	res  align.ScoreResult
}

func (i item) Title() string { return fmt.Sprintf("%d. %s", i.rank, i.res.CandidateID) }
func (i item) Description() string {
	return fmt.Sprintf("%.1f%% match · topic %.2f · files %.2f · phase %.2f",
		i.res.Total, i.res.TopicScore, i.res.FileScore, i.res.PhaseScore)
}
func (i item) FilterValue() string { return i.res.CandidateID }

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

var hintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

// Model is the bubbletea model for the picker.
type Model struct {
	results   []align.ScoreResult
	list      list.Model
	input     textinput.Model
	typing    bool
	remaining int // seconds until auto-confirm; negative once disarmed
	choice    Choice
	done      bool
}

// New builds a picker over ranked results. A non-positive timeout
// disables the countdown.
func New(results []align.ScoreResult, timeout time.Duration) Model {
	items := make([]list.Item, len(results))
	for i, res := range results {
		items[i] = item{rank: i + 1, res: res}
	}

	delegate := list.NewDefaultDelegate()
	delegate.SetHeight(2)
	delegate.SetSpacing(0)
	l := list.New(items, delegate, 0, 0)
	l.Title = "Where does this work belong?"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	ti := textinput.New()
	ti.Placeholder = "custom-folder-name"
	ti.CharLimit = 80

	remaining := -1
	if timeout > 0 {
		remaining = int(timeout / time.Second)
	}

	return Model{
		results:   results,
		list:      l,
		input:     ti,
		remaining: remaining,
	}
}

// Init starts the countdown when one is armed.
func (m Model) Init() tea.Cmd {
	if m.remaining >= 0 {
		return tick()
	}
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.list.SetSize(max(20, msg.Width-4), max(8, msg.Height-6))
		return m, nil

	case tickMsg:
		if m.done || m.remaining < 0 {
			return m, nil
		}
		m.remaining--
		if m.remaining <= 0 {
			m.choice = Choice{FolderID: m.results[0].CandidateID, TimedOut: true}
			m.done = true
			return m, tea.Quit
		}
		return m, tick()

	case tea.KeyMsg:
		// The user is awake, so stop the auto-confirm clock.
		m.remaining = -1

		if m.typing {
			return m.updateTyping(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.choice = Choice{Cancelled: true}
			m.done = true
			return m, tea.Quit
		case "enter":
			if sel, ok := m.list.SelectedItem().(item); ok {
				m.choice = Choice{FolderID: sel.res.CandidateID}
				m.done = true
				return m, tea.Quit
			}
			return m, nil
		case "c", "/":
			m.typing = true
			m.input.Focus()
			return m, textinput.Blink
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateTyping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.choice = Choice{Cancelled: true}
		m.done = true
		return m, tea.Quit
	case "esc":
		m.typing = false
		m.input.Blur()
		m.input.SetValue("")
		return m, nil
	case "enter":
		if strings.TrimSpace(m.input.Value()) == "" {
			return m, nil
		}
		m.choice = Choice{FolderID: folder.SlugifyName(m.input.Value()), Custom: true}
		m.done = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the picker.
func (m Model) View() string {
	if m.done {
		return ""
	}

	if m.typing {
		return fmt.Sprintf("Route to a custom folder:\n\n  %s\n\n%s",
			m.input.View(),
			hintStyle.Render("enter confirm · esc back"))
	}

	footer := "enter confirm · c custom folder · q cancel"
	if m.remaining >= 0 && len(m.results) > 0 {
		footer = fmt.Sprintf("auto-selects %s in %ds · %s",
			m.results[0].CandidateID, m.remaining, footer)
	}
	return m.list.View() + "\n" + hintStyle.Render(footer)
}

// Run executes the picker on the controlling terminal and returns the
// user's choice.
func Run(results []align.ScoreResult, timeout time.Duration) (Choice, error) {
	if len(results) == 0 {
		return Choice{Cancelled: true}, nil
	}

	final, err := tea.NewProgram(New(results, timeout)).Run()
	if err != nil {
		return Choice{}, fmt.Errorf("picker: %w", err)
	}
	m, ok := final.(Model)
	if !ok {
		return Choice{}, fmt.Errorf("picker: unexpected final model %T", final)
	}
	if m.choice == (Choice{}) {
		// The program ended without a decision (e.g. terminal lost).
		return Choice{Cancelled: true}, nil
	}
	return m.choice, nil
}
