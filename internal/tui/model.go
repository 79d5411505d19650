package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/vitalcal/internal/constants"
	"github.com/julianstephens/vitalcal/internal/entrysync"
	"github.com/julianstephens/vitalcal/internal/session"
	calview "github.com/julianstephens/vitalcal/internal/tui/components/calendar"
)

// EntryClient is the part of the entrysync client the TUI needs
type EntryClient interface {
	FetchEntry(ctx context.Context, date string) (entrysync.Entry, error)
	SaveEntry(ctx context.Context, date string, entry entrysync.Entry) error
}

// Options configures a Model
type Options struct {
	Locale   string
	Location *time.Location
	// Timeout bounds every request; zero means DefaultRequestTimeout
	Timeout time.Duration
	// Now is the clock, time.Now when nil
	Now func() time.Time
}

type Model struct {
	client   EntryClient
	opts     Options
	session  session.State
	pending  []session.Effect
	state    constants.SessionState
	keys     KeyMap
	help     help.Model
	calendar calview.Model
	bpInput  textinput.Model
	glInput  textinput.Model
	quitting bool
	width    int
	height   int
}

func NewModel(client EntryClient, opts Options) Model {
	if opts.Timeout <= 0 {
		opts.Timeout = constants.DefaultRequestTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Locale == "" {
		opts.Locale = constants.DefaultLocale
	}

	// no CharLimit: it would truncate values loaded from the server
	bp := textinput.New()
	bp.Placeholder = "120/80"
	bp.Width = 10

	gl := textinput.New()
	gl.Placeholder = "5.4"
	gl.Width = 10

	m := Model{
		client:   client,
		opts:     opts,
		state:    constants.StateCalendar,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		calendar: calview.New(),
		bpInput:  bp,
		glInput:  gl,
	}

	// today is selected and its entry requested as soon as the program starts
	m.session, m.pending = session.Handle(m.session, session.Started{Today: m.today()})
	m.syncCalendar()
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.tick()}
	for _, e := range m.pending {
		cmds = append(cmds, m.effectCmd(e))
	}
	return tea.Batch(cmds...)
}

// Session exposes the current session state
func (m Model) Session() session.State {
	return m.session
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Save, m.keys.Quit, m.keys.Help}
	if m.state == constants.StateCalendar {
		keys = append([]key.Binding{m.keys.Enter, m.keys.PrevMonth, m.keys.NextMonth}, keys...)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right, m.keys.Enter}
	months := []key.Binding{m.keys.PrevMonth, m.keys.NextMonth}
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Save, m.keys.Dismiss, m.keys.Quit, m.keys.Help}
	return [][]key.Binding{navigation, months, global}
}

func (m Model) today() string {
	return m.opts.Now().In(m.opts.Location).Format(constants.DateFormat)
}

// syncCalendar redraws the calendar component from the session state
func (m *Model) syncCalendar() {
	m.calendar.SetGrid(m.session.Grid(), m.session.Calendar.Header(m.opts.Locale))
}

// syncInputs copies the session's readings into the text inputs
func (m *Model) syncInputs() {
	m.bpInput.SetValue(m.session.BloodPressure)
	m.glInput.SetValue(m.session.GlucoseLevel)
}
