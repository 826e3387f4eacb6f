// Package play is a terminal practice mode: the same exercises the
// browser client gets, graded locally with the same rules.
package play

import (
	"context"
	"fmt"
	"os"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ayasuda/kumitate/internal/builder"
	"github.com/ayasuda/kumitate/internal/grader"
	"github.com/ayasuda/kumitate/internal/language"
)

var (
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8B5CF6"))
	tileStyle   = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#334155"))
	cursorStyle = tileStyle.BorderForeground(lipgloss.Color("#14B8A6"))
	usedStyle   = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#475569"))
	answerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F8FAFC")).Bold(true)
	goodStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E")).Bold(true)
	badStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F43F5E")).Bold(true)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8")).Italic(true)
)

type phase int

const (
	phaseLoading phase = iota
	phaseBuilding
	phaseGraded
	phaseError
)

type exerciseMsg struct {
	ex  *builder.UnifiedExercise
	err error
}

// Model is the Bubble Tea model for the practice loop.
type Model struct {
	builder *builder.Builder
	lang    language.Language

	phase    phase
	err      error
	exercise builder.Exercise
	english  string

	cursor    int
	picked    []int // tile indices in pick order
	used      map[int]bool
	typed     bool
	textInput textinput.Model
	result    grader.Result
	done      int
	correct   int
}

// NewModel creates the practice model for one target language.
func NewModel(b *builder.Builder, lang language.Language) Model {
	ti := textinput.New()
	ti.Placeholder = "type your answer"
	return Model{
		builder:   b,
		lang:      lang,
		phase:     phaseLoading,
		used:      make(map[int]bool),
		textInput: ti,
	}
}

func (m Model) Init() tea.Cmd {
	return m.loadExercise
}

// loadExercise builds the next exercise off the UI goroutine.
func (m Model) loadExercise() tea.Msg {
	ex, err := m.builder.Build(context.Background(), []string{m.lang.Code})
	if err != nil {
		return exerciseMsg{err: err}
	}
	langEx, ok := ex.Languages[m.lang.Code]
	if !ok {
		return exerciseMsg{err: fmt.Errorf("sentence has no %s exercise", m.lang.Code)}
	}
	return exerciseMsg{ex: &builder.UnifiedExercise{
		ExerciseID: ex.ExerciseID,
		English:    ex.English,
		Languages:  map[string]builder.Exercise{m.lang.Code: langEx},
	}}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case exerciseMsg:
		if msg.err != nil {
			m.phase = phaseError
			m.err = msg.err
			return m, nil
		}
		m.exercise = msg.ex.Languages[m.lang.Code]
		m.english = msg.ex.English
		m.phase = phaseBuilding
		m.cursor = 0
		m.picked = nil
		m.used = make(map[int]bool)
		m.typed = false
		m.textInput.SetValue("")
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" || (key == "q" && !m.typed) {
		return m, tea.Quit
	}

	switch m.phase {
	case phaseError:
		if key == "r" {
			m.phase = phaseLoading
			return m, m.loadExercise
		}
		return m, nil

	case phaseGraded:
		if key == "enter" || key == "n" {
			m.phase = phaseLoading
			return m, m.loadExercise
		}
		return m, nil

	case phaseBuilding:
		if m.typed {
			switch key {
			case "enter":
				return m.grade(splitTyped(m.textInput.Value(), m.lang)), nil
			case "esc":
				m.typed = false
				m.textInput.Blur()
				return m, nil
			}
			var cmd tea.Cmd
			m.textInput, cmd = m.textInput.Update(msg)
			return m, cmd
		}

		switch key {
		case "left", "h":
			if m.cursor > 0 {
				m.cursor--
			}
		case "right", "l":
			if m.cursor < len(m.exercise.Tiles)-1 {
				m.cursor++
			}
		case "enter", " ":
			if !m.used[m.cursor] {
				m.used[m.cursor] = true
				m.picked = append(m.picked, m.cursor)
			}
		case "backspace":
			if n := len(m.picked); n > 0 {
				delete(m.used, m.picked[n-1])
				m.picked = m.picked[:n-1]
			}
		case "s":
			texts := make([]string, len(m.picked))
			for i, idx := range m.picked {
				texts[i] = m.exercise.Tiles[idx].Text
			}
			return m.grade(texts), nil
		case "t":
			m.typed = true
			return m, m.textInput.Focus()
		}
	}
	return m, nil
}

func (m Model) grade(submitted []string) Model {
	m.result = grader.Grade(m.lang, grader.Expected{
		Text:   m.exercise.Text,
		Tokens: m.exercise.Tokens,
	}, submitted)
	m.phase = phaseGraded
	m.done++
	if m.result.Correct {
		m.correct++
	}
	return m
}

func (m Model) View() tea.View {
	var b strings.Builder

	switch m.phase {
	case phaseLoading:
		b.WriteString(hintStyle.Render("Loading exercise..."))

	case phaseError:
		b.WriteString(badStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n\n" + hintStyle.Render("r retry · q quit"))

	case phaseBuilding:
		b.WriteString(promptStyle.Render(m.english) + "\n\n")
		b.WriteString(answerStyle.Render(m.answerLine()) + "\n\n")
		if m.typed {
			b.WriteString(m.textInput.View() + "\n\n")
			b.WriteString(hintStyle.Render("enter submit · esc back to tiles"))
		} else {
			b.WriteString(m.tileRow() + "\n\n")
			b.WriteString(hintStyle.Render("←→ move · enter pick · backspace undo · s submit · t type · q quit"))
		}

	case phaseGraded:
		b.WriteString(promptStyle.Render(m.english) + "\n\n")
		if m.result.Correct {
			b.WriteString(goodStyle.Render("✓ Correct!") + "\n")
		} else {
			b.WriteString(badStyle.Render("✗ Not quite") + "\n")
			b.WriteString("Expected:  " + m.result.Expected + "\n")
		}
		b.WriteString("Submitted: " + m.result.Submitted + "\n\n")
		b.WriteString(hintStyle.Render(fmt.Sprintf("%d/%d correct · enter next · q quit", m.correct, m.done)))
	}

	v := tea.NewView(b.String())
	return v
}

// answerLine renders the picked tiles in order, or a placeholder.
func (m Model) answerLine() string {
	if len(m.picked) == 0 {
		return "(pick tiles to build your answer)"
	}
	texts := make([]string, len(m.picked))
	for i, idx := range m.picked {
		texts[i] = m.exercise.Tiles[idx].Text
	}
	return strings.Join(texts, " ")
}

// tileRow renders the word bank with cursor and used markers.
func (m Model) tileRow() string {
	parts := make([]string, len(m.exercise.Tiles))
	for i, tile := range m.exercise.Tiles {
		switch {
		case m.used[i]:
			parts[i] = usedStyle.Render(tile.Text)
		case i == m.cursor:
			parts[i] = cursorStyle.Render(tile.Text)
		default:
			parts[i] = tileStyle.Render(tile.Text)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

// splitTyped converts a typed answer into the token shape the grader
// expects: token-sequence languages split on spaces, concatenative
// languages grade the whole string.
func splitTyped(s string, lang language.Language) []string {
	if lang.Mode == language.ModeTokenSequence {
		return strings.Fields(s)
	}
	return []string{s}
}

// Run starts the Bubble Tea program.
func Run(b *builder.Builder, lang language.Language) error {
	p := tea.NewProgram(NewModel(b, lang))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
