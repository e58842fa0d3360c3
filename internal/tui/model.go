package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/streaks/internal/streaks"
	"github.com/julianstephens/streaks/internal/tui/components/timeline"
)

type SessionState int

const (
	StateBrowse SessionState = iota
	StateAddStreak
	StateRename
	StateConfirmDelete
)

type TitleFormModel struct {
	Title string
}

// saveStatus collects save failures reported by the collection. It is
// shared by every copy of the Model.
type saveStatus struct {
	err error
}

type Model struct {
	col        *streaks.Collection
	state      SessionState
	keys       KeyMap
	help       help.Model
	grid       timeline.Model
	form       *huh.Form
	titleForm  *TitleFormModel
	editingID  string
	deletingID string
	banner     string // shown until the first change
	saves      *saveStatus
	quitting   bool
	width      int
	height     int
}

// NewModel builds the timeline screen for col. banner, if set, is shown
// above the grid, e.g. to report that a corrupt file was set aside.
func NewModel(col *streaks.Collection, banner string) Model {
	saves := &saveStatus{}
	col.Subscribe(func(e streaks.Event) {
		switch e := e.(type) {
		case streaks.SaveFailed:
			saves.err = e.Err
		case streaks.RowChanged, streaks.CollectionChanged:
			// A later successful save clears the error; failures are
			// emitted after the change notification.
			saves.err = nil
		}
	})

	if first := col.At(0); first != nil {
		_ = col.Focus(first, col.Window().Span()-1)
	}

	return Model{
		col:    col,
		state:  StateBrowse,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		grid:   timeline.New(col, 0, 0),
		banner: banner,
		saves:  saves,
	}
}

func (m Model) ShortHelp() []key.Binding {
	switch m.state {
	case StateConfirmDelete:
		return []key.Binding{m.keys.Confirm, m.keys.Cancel}
	}
	return m.keys.ShortHelp()
}

func (m Model) FullHelp() [][]key.Binding {
	switch m.state {
	case StateConfirmDelete:
		return [][]key.Binding{{m.keys.Confirm, m.keys.Cancel}}
	}
	return m.keys.FullHelp()
}

func (m Model) Init() tea.Cmd {
	return m.grid.Init()
}

// newTitleForm prepares the add/rename form with an initial value.
func (m *Model) newTitleForm(heading, value string) tea.Cmd {
	m.titleForm = &TitleFormModel{Title: value}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(heading).
				Description("Leave empty or press esc to cancel.").
				CharLimit(64).
				Value(&m.titleForm.Title),
		),
	)
	return m.form.Init()
}
