package calendar

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/vitalcal/internal/calendar"
)

const cellWidth = 5

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Width(cellWidth * calendar.DaysPerWeek).
			Align(lipgloss.Center).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(cellWidth).
			Align(lipgloss.Right)

	cellStyle = lipgloss.NewStyle().
			Width(cellWidth).
			Align(lipgloss.Right)

	futureStyle = cellStyle.
			Foreground(lipgloss.Color("240")).
			Faint(true)

	todayStyle = cellStyle.
			Underline(true)

	selectedStyle = cellStyle.
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("205")).
			Bold(true)

	cursorStyle = cellStyle.
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("62"))
)

// Model renders a month grid and tracks a cursor over its selectable days
type Model struct {
	grid    calendar.Grid
	header  string
	cursor  int // day of month, 0 when no day in the grid is selectable
	focused bool
}

func New() Model {
	return Model{focused: true}
}

// SetGrid replaces the month shown. The cursor keeps its day number when
// possible, otherwise it falls back to the selected day or the last
// selectable one.
func (m *Model) SetGrid(grid calendar.Grid, header string) {
	m.grid = grid
	m.header = header
	last := grid.LastSelectableDay()
	switch {
	case last == 0:
		m.cursor = 0
	case m.cursor >= 1 && m.cursor <= last:
	default:
		if sel, ok := grid.Selected(); ok {
			m.cursor = sel.Day
		} else {
			m.cursor = last
		}
	}
}

func (m *Model) Focus() {
	m.focused = true
}

func (m *Model) Blur() {
	m.focused = false
}

func (m Model) Focused() bool {
	return m.focused
}

// Cursor returns the day of month under the cursor
func (m Model) Cursor() int {
	return m.cursor
}

// CursorDate returns the date under the cursor, or "" if there is none
func (m Model) CursorDate() string {
	if m.cursor == 0 {
		return ""
	}
	c, ok := m.grid.Cell(m.cursor)
	if !ok || !c.Selectable() {
		return ""
	}
	return c.Date
}

// SetCursor moves the cursor to day if it is selectable
func (m *Model) SetCursor(day int) {
	if c, ok := m.grid.Cell(day); ok && c.Selectable() {
		m.cursor = day
	}
}

// Move shifts the cursor by delta days. Moves that would leave the
// selectable range are ignored.
func (m *Model) Move(delta int) {
	if m.cursor == 0 {
		return
	}
	next := m.cursor + delta
	if next < 1 || next > m.grid.LastSelectableDay() {
		return
	}
	m.cursor = next
}

func (m Model) View() string {
	labels := make([]string, 0, calendar.DaysPerWeek)
	for _, l := range calendar.WeekdayLabels {
		labels = append(labels, labelStyle.Render(l))
	}

	rows := []string{
		headerStyle.Render(m.header),
		lipgloss.JoinHorizontal(lipgloss.Top, labels...),
	}
	for _, week := range m.grid.Weeks {
		cells := make([]string, 0, len(week))
		for _, c := range week {
			cells = append(cells, m.renderCell(c))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderCell(c calendar.DayCell) string {
	if c.IsPadding() {
		return cellStyle.Render("")
	}
	text := strconv.Itoa(c.Day)
	switch {
	case c.IsFuture:
		return futureStyle.Render(text)
	case m.focused && c.Day == m.cursor:
		return cursorStyle.Render(text)
	case c.IsSelected:
		return selectedStyle.Render(text)
	case c.IsToday:
		return todayStyle.Render(text)
	default:
		return cellStyle.Render(text)
	}
}
