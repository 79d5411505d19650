package calendar

import (
	"time"

	"github.com/julianstephens/vitalcal/internal/utils"
)

// State is the calendar part of a session: the month on screen and the
// selected date. Methods return a new State; the receiver is never modified.
type State struct {
	ViewYear     int
	ViewMonth    time.Month
	SelectedDate string
}

// NewState returns a state viewing the month that contains today with
// nothing selected.
func NewState(today string) (State, error) {
	t, err := utils.ParseDate(today)
	if err != nil {
		return State{}, err
	}
	return State{ViewYear: t.Year(), ViewMonth: t.Month()}, nil
}

// Navigate returns the state moved one month in dir. The selection is kept.
func (s State) Navigate(dir Direction) State {
	s.ViewYear, s.ViewMonth = Navigate(dir, s.ViewYear, s.ViewMonth)
	return s
}

// CanSelect reports whether date is a well-formed, non-future day in the
// month being viewed.
func (s State) CanSelect(date, today string) bool {
	t, err := utils.ParseDate(date)
	if err != nil {
		return false
	}
	if t.Year() != s.ViewYear || t.Month() != s.ViewMonth {
		return false
	}
	return date <= today
}

// Select returns the state with date selected. ok is false, and the state
// unchanged, when the date cannot be selected.
func (s State) Select(date, today string) (State, bool) {
	if !s.CanSelect(date, today) {
		return s, false
	}
	s.SelectedDate = date
	return s, true
}

// Grid builds the grid for the month being viewed
func (s State) Grid(today string) Grid {
	return Build(s.ViewYear, s.ViewMonth, today, s.SelectedDate)
}

// Header returns the localized title for the month being viewed
func (s State) Header(locale string) string {
	return Header(s.ViewYear, s.ViewMonth, locale)
}
