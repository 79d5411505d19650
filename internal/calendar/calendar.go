// Package calendar computes the month grid shown to the user and tracks
// which day is selected. Nothing here touches the network or the terminal.
package calendar

import (
	"time"

	"github.com/goodsign/monday"

	"github.com/julianstephens/vitalcal/internal/constants"
	"github.com/julianstephens/vitalcal/internal/utils"
)

// DaysPerWeek is the number of columns in the grid
const DaysPerWeek = 7

// Direction is a month navigation step
type Direction int

const (
	Prev Direction = -1
	Next Direction = 1
)

// DayCell represents a single cell in the month grid. Padding cells have
// Day == 0. Future days keep their Day for display but carry no Date.
type DayCell struct {
	Date       string
	Day        int
	IsFuture   bool
	IsSelected bool
	IsToday    bool
}

// IsPadding reports whether the cell is a blank before day 1 or after the last day
func (c DayCell) IsPadding() bool {
	return c.Day == 0
}

// Selectable reports whether the cell can be chosen by the user
func (c DayCell) Selectable() bool {
	return c.Day > 0 && !c.IsFuture
}

// Grid is a month laid out in Sunday-first weeks
type Grid struct {
	Year  int
	Month time.Month
	Weeks [][]DayCell
}

// DaysIn returns the number of days in the given month
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekday returns the weekday index (0=Sunday) of day 1
func FirstWeekday(year int, month time.Month) int {
	return int(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday())
}

// Build lays out the month. today and selected are YYYY-MM-DD strings;
// selected may be empty. Days after today are disabled.
func Build(year int, month time.Month, today, selected string) Grid {
	offset := FirstWeekday(year, month)
	daysInMonth := DaysIn(year, month)

	grid := Grid{Year: year, Month: month}
	week := make([]DayCell, 0, DaysPerWeek)

	// slot tracks the week position across blanks and days; day tracks the
	// day of month. They must stay independent.
	slot := 0
	for ; slot < offset; slot++ {
		week = append(week, DayCell{})
	}

	for day := 1; day <= daysInMonth; day++ {
		if slot%DaysPerWeek == 0 && len(week) > 0 {
			grid.Weeks = append(grid.Weeks, week)
			week = make([]DayCell, 0, DaysPerWeek)
		}

		date := utils.FormatDate(year, month, day)
		cell := DayCell{Day: day, IsToday: date == today}
		// ISO dates order lexically
		if date > today {
			cell.IsFuture = true
		} else {
			cell.Date = date
			cell.IsSelected = date == selected
		}
		week = append(week, cell)
		slot++
	}

	for ; slot%DaysPerWeek != 0; slot++ {
		week = append(week, DayCell{})
	}
	grid.Weeks = append(grid.Weeks, week)

	return grid
}

// Cell returns the cell for day of month d, if the grid contains it
func (g Grid) Cell(d int) (DayCell, bool) {
	for _, week := range g.Weeks {
		for _, c := range week {
			if c.Day == d {
				return c, true
			}
		}
	}
	return DayCell{}, false
}

// Selected returns the selected cell, if any
func (g Grid) Selected() (DayCell, bool) {
	for _, week := range g.Weeks {
		for _, c := range week {
			if c.IsSelected {
				return c, true
			}
		}
	}
	return DayCell{}, false
}

// LastSelectableDay returns the highest day of month that can be chosen,
// or 0 when the whole month lies in the future.
func (g Grid) LastSelectableDay() int {
	last := 0
	for _, week := range g.Weeks {
		for _, c := range week {
			if c.Selectable() && c.Day > last {
				last = c.Day
			}
		}
	}
	return last
}

// Header returns the localized "Month YYYY" title, e.g. "October 2024".
// Unknown locales fall back to en_US.
func Header(year int, month time.Month, locale string) string {
	loc := monday.Locale(locale)
	if !supported(loc) {
		loc = monday.Locale(constants.DefaultLocale)
	}
	return monday.Format(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), "January 2006", loc)
}

func supported(loc monday.Locale) bool {
	for _, l := range monday.ListLocales() {
		if l == loc {
			return true
		}
	}
	return false
}

// Navigate moves one month in the given direction. Rollover across years is
// left to time.Date normalisation.
func Navigate(dir Direction, year int, month time.Month) (int, time.Month) {
	t := time.Date(year, month+time.Month(dir), 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), t.Month()
}
