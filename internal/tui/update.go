package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/vitalcal/internal/calendar"
	"github.com/julianstephens/vitalcal/internal/constants"
	"github.com/julianstephens/vitalcal/internal/entrysync"
	"github.com/julianstephens/vitalcal/internal/logger"
	"github.com/julianstephens/vitalcal/internal/session"
)

type entryLoadedMsg struct {
	date       string
	generation uint64
	entry      entrysync.Entry
}

type entryLoadFailedMsg struct {
	date       string
	generation uint64
	err        error
}

type saveResultMsg struct {
	date string
	err  error
}

type dayTickMsg time.Time

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return dayTickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case entryLoadedMsg:
		return m.dispatch(session.EntryLoaded{Date: msg.date, Generation: msg.generation, Entry: msg.entry})

	case entryLoadFailedMsg:
		return m.dispatch(session.EntryLoadFailed{Date: msg.date, Generation: msg.generation, Err: msg.err})

	case saveResultMsg:
		if msg.err != nil {
			return m.dispatch(session.SaveFailed{Date: msg.date, Err: msg.err})
		}
		return m.dispatch(session.SaveSucceeded{Date: msg.date})

	case dayTickMsg:
		var cmd tea.Cmd
		if today := m.today(); today != m.session.Today {
			logger.Debug("Date changed", "today", today)
			m, cmd = m.dispatch(session.DayChanged{Today: today})
		}
		return m, tea.Batch(cmd, m.tick())
	}

	// cursor blink and friends
	return m.updateInputs(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	// Global keys first
	switch {
	case msg.Type == tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Save):
		return m.dispatch(session.SaveRequested{})
	case key.Matches(msg, m.keys.Tab):
		return m.focus((m.state + 1) % 3)
	case key.Matches(msg, m.keys.ShiftTab):
		return m.focus((m.state + 2) % 3)
	case key.Matches(msg, m.keys.Dismiss):
		if m.session.Notice.Text != "" {
			return m.dispatch(session.NoticeDismissed{})
		}
		return m.focus(constants.StateCalendar)
	}

	if m.state != constants.StateCalendar {
		if key.Matches(msg, m.keys.Enter) {
			return m.dispatch(session.SaveRequested{})
		}
		return m.updateInputs(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		m.calendar.Move(-calendar.DaysPerWeek)
	case key.Matches(msg, m.keys.Down):
		m.calendar.Move(calendar.DaysPerWeek)
	case key.Matches(msg, m.keys.Left):
		m.calendar.Move(-1)
	case key.Matches(msg, m.keys.Right):
		m.calendar.Move(1)
	case key.Matches(msg, m.keys.Enter):
		if date := m.calendar.CursorDate(); date != "" {
			return m.dispatch(session.DayChosen{Date: date})
		}
	case key.Matches(msg, m.keys.PrevMonth):
		return m.dispatch(session.Navigated{Dir: calendar.Prev})
	case key.Matches(msg, m.keys.NextMonth):
		return m.dispatch(session.Navigated{Dir: calendar.Next})
	}
	return m, nil
}

// dispatch feeds ev to the session and turns the resulting effects into commands
func (m Model) dispatch(ev session.Event) (Model, tea.Cmd) {
	prev := m.session
	var effects []session.Effect
	m.session, effects = session.Handle(m.session, ev)

	if _, ok := ev.(session.EntryLoaded); ok && prev.Phase != m.session.Phase {
		m.syncInputs()
	}
	m.syncCalendar()

	if len(effects) == 0 {
		return m, nil
	}
	cmds := make([]tea.Cmd, 0, len(effects))
	for _, e := range effects {
		cmds = append(cmds, m.effectCmd(e))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) focus(state constants.SessionState) (Model, tea.Cmd) {
	m.state = state
	m.calendar.Blur()
	m.bpInput.Blur()
	m.glInput.Blur()

	switch state {
	case constants.StateBloodPressure:
		return m, m.bpInput.Focus()
	case constants.StateGlucose:
		return m, m.glInput.Focus()
	default:
		m.calendar.Focus()
		return m, nil
	}
}

func (m Model) updateInputs(msg tea.Msg) (Model, tea.Cmd) {
	var bpCmd, glCmd tea.Cmd
	m.bpInput, bpCmd = m.bpInput.Update(msg)
	m.glInput, glCmd = m.glInput.Update(msg)

	if m.bpInput.Value() != m.session.BloodPressure || m.glInput.Value() != m.session.GlucoseLevel {
		m, _ = m.dispatch(session.FieldsEdited{
			BloodPressure: m.bpInput.Value(),
			GlucoseLevel:  m.glInput.Value(),
		})
	}
	return m, tea.Batch(bpCmd, glCmd)
}

// effectCmd performs a session effect off the UI goroutine. The result comes
// back as a message; nothing else is shared with the model.
func (m Model) effectCmd(e session.Effect) tea.Cmd {
	client := m.client
	timeout := m.opts.Timeout

	switch e := e.(type) {
	case session.Fetch:
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			entry, err := client.FetchEntry(ctx, e.Date)
			if err != nil {
				logger.Warn("Failed to load entry", "date", e.Date, "error", err)
				return entryLoadFailedMsg{date: e.Date, generation: e.Generation, err: err}
			}
			return entryLoadedMsg{date: e.Date, generation: e.Generation, entry: entry}
		}

	case session.Save:
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			err := client.SaveEntry(ctx, e.Date, e.Entry)
			if err != nil {
				logger.Warn("Failed to save entry", "date", e.Date, "error", err)
			} else {
				logger.Info("Entry saved", "date", e.Date)
			}
			return saveResultMsg{date: e.Date, err: err}
		}
	}
	return nil
}
