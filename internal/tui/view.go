package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/vitalcal/internal/constants"
	"github.com/julianstephens/vitalcal/internal/session"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	calStyle := panelStyle
	if m.calendar.Focused() {
		calStyle = activePanelStyle
	}

	body := lipgloss.JoinHorizontal(
		lipgloss.Top,
		calStyle.Render(m.calendar.View()),
		"  ",
		m.viewForm(),
	)

	return docStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render(constants.AppName),
		body,
		m.viewStatus(),
		m.help.View(m),
	))
}

func (m Model) viewForm() string {
	title := "No day selected"
	if date := m.session.Calendar.SelectedDate; date != "" {
		title = date
	}

	rows := []string{
		titleStyle.Render(title),
		m.viewField("Blood pressure", m.bpInput, constants.StateBloodPressure),
	}
	if m.session.ValidationVisible {
		rows = append(rows, dangerStyle.Render(constants.NoticeBadBPFormat))
	}
	rows = append(rows, m.viewField("Glucose level", m.glInput, constants.StateGlucose))

	style := panelStyle
	if m.state != constants.StateCalendar {
		style = activePanelStyle
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) viewField(label string, input textinput.Model, state constants.SessionState) string {
	ls := labelStyle
	if m.state == state {
		ls = activeLabelStyle
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, ls.Render(label), input.View())
}

func (m Model) viewStatus() string {
	switch {
	case m.session.Notice.Text != "":
		if m.session.Notice.Level == session.NoticeError {
			return dangerStyle.Render(m.session.Notice.Text)
		}
		return successStyle.Render(m.session.Notice.Text)
	case m.session.Saving:
		return mutedStyle.Render("Saving…")
	case m.session.Phase == session.PhaseLoading:
		return mutedStyle.Render("Loading " + m.session.Calendar.SelectedDate + "…")
	}
	return ""
}
