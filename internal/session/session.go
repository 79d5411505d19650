// Package session holds the selection and entry-sync state machine.
// Handle is a pure function: it takes the current State and an Event and
// returns the next State plus the Effects (network requests) the caller
// must perform. Responses come back as events carrying the generation they
// were issued under; responses from an older generation are dropped.
package session

import (
	"github.com/julianstephens/vitalcal/internal/calendar"
	"github.com/julianstephens/vitalcal/internal/constants"
	"github.com/julianstephens/vitalcal/internal/entrysync"
	apperrors "github.com/julianstephens/vitalcal/internal/errors"
)

// Phase is where the session is in the select/load cycle
type Phase int

const (
	PhaseIdle Phase = iota
	// PhaseSelected is never held; choosing a day goes straight to PhaseLoading.
	PhaseSelected
	PhaseLoading
	PhaseLoaded
	PhaseLoadFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSelected:
		return "selected"
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseLoadFailed:
		return "load failed"
	default:
		return "unknown"
	}
}

// NoticeLevel distinguishes confirmations from failures
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeError
)

// Notice is a non-blocking message for the user
type Notice struct {
	Text  string
	Level NoticeLevel
}

// State is everything the UI shows. It is passed and returned by value.
type State struct {
	Calendar calendar.State
	Today    string
	Phase    Phase
	// Generation increases with every fetch issued
	Generation        uint64
	BloodPressure     string
	GlucoseLevel      string
	ValidationVisible bool
	// Saving is set while a write is in flight; further saves are ignored
	Saving bool
	Notice Notice
}

// Grid returns the calendar grid for the month on screen
func (s State) Grid() calendar.Grid {
	return s.Calendar.Grid(s.Today)
}

// Entry returns the transient copy of the readings being edited
func (s State) Entry() entrysync.Entry {
	return entrysync.Entry{
		BloodPressure: s.BloodPressure,
		GlucoseLevel:  entrysync.GlucoseLevel(s.GlucoseLevel),
	}
}

// Event is something that happened: user input or a network response
type Event interface {
	event()
}

// Started begins the session on today, which is selected and loaded
type Started struct{ Today string }

// DayChosen is a click (or enter) on a day cell
type DayChosen struct{ Date string }

// Navigated moves the view one month
type Navigated struct{ Dir calendar.Direction }

// DayChanged tells the session the wall-clock date moved on
type DayChanged struct{ Today string }

// FieldsEdited carries the current text of both inputs
type FieldsEdited struct {
	BloodPressure string
	GlucoseLevel  string
}

// SaveRequested is the save action
type SaveRequested struct{}

// EntryLoaded is a successful fetch response
type EntryLoaded struct {
	Date       string
	Generation uint64
	Entry      entrysync.Entry
}

// EntryLoadFailed is a failed fetch
type EntryLoadFailed struct {
	Date       string
	Generation uint64
	Err        error
}

// SaveSucceeded is a successful save response
type SaveSucceeded struct{ Date string }

// SaveFailed is a failed save
type SaveFailed struct {
	Date string
	Err  error
}

// NoticeDismissed clears the notice
type NoticeDismissed struct{}

func (Started) event()         {}
func (DayChosen) event()       {}
func (Navigated) event()       {}
func (DayChanged) event()      {}
func (FieldsEdited) event()    {}
func (SaveRequested) event()   {}
func (EntryLoaded) event()     {}
func (EntryLoadFailed) event() {}
func (SaveSucceeded) event()   {}
func (SaveFailed) event()      {}
func (NoticeDismissed) event() {}

// Effect is a request the caller must perform
type Effect interface {
	effect()
}

// Fetch asks for the entry of Date; the response must carry Generation
type Fetch struct {
	Date       string
	Generation uint64
}

// Save asks for Entry to be written for Date
type Save struct {
	Date  string
	Entry entrysync.Entry
}

func (Fetch) effect() {}
func (Save) effect()  {}

// Handle applies ev to s
func Handle(s State, ev Event) (State, []Effect) {
	switch ev := ev.(type) {
	case Started:
		return start(s, ev.Today)

	case DayChosen:
		return choose(s, ev.Date)

	case Navigated:
		s.Calendar = s.Calendar.Navigate(ev.Dir)
		return s, nil

	case DayChanged:
		s.Today = ev.Today
		return s, nil

	case FieldsEdited:
		s.BloodPressure = ev.BloodPressure
		s.GlucoseLevel = ev.GlucoseLevel
		return s, nil

	case EntryLoaded:
		if ev.Generation != s.Generation || s.Phase != PhaseLoading {
			return s, nil
		}
		s.BloodPressure = ev.Entry.BloodPressure
		s.GlucoseLevel = ev.Entry.GlucoseLevel.String()
		s.Phase = PhaseLoaded
		return s, nil

	case EntryLoadFailed:
		if ev.Generation != s.Generation || s.Phase != PhaseLoading {
			return s, nil
		}
		s.Phase = PhaseLoadFailed
		s.Notice = Notice{Text: failureText(ev.Err, constants.NoticeLoadFailed), Level: NoticeError}
		return s, nil

	case SaveRequested:
		return save(s)

	case SaveSucceeded:
		s.Saving = false
		s.Notice = Notice{Text: constants.NoticeSaved, Level: NoticeInfo}
		return s, nil

	case SaveFailed:
		s.Saving = false
		s.Notice = Notice{Text: failureText(ev.Err, constants.NoticeSaveFailed), Level: NoticeError}
		return s, nil

	case NoticeDismissed:
		s.Notice = Notice{}
		return s, nil
	}
	return s, nil
}

func start(s State, today string) (State, []Effect) {
	cal, err := calendar.NewState(today)
	if err != nil {
		s.Notice = Notice{Text: apperrors.Format(err), Level: NoticeError}
		return s, nil
	}
	s.Calendar = cal
	s.Today = today
	s.Phase = PhaseIdle
	return choose(s, today)
}

func choose(s State, date string) (State, []Effect) {
	cal, ok := s.Calendar.Select(date, s.Today)
	if !ok {
		return s, nil
	}
	// Selected is immediately followed by Loading
	s.Calendar = cal
	s.Generation++
	s.Phase = PhaseLoading
	return s, []Effect{Fetch{Date: date, Generation: s.Generation}}
}

func save(s State) (State, []Effect) {
	// the fields still hold the previous day's readings until the fetch lands
	if s.Calendar.SelectedDate == "" || s.Saving || s.Phase == PhaseLoading {
		return s, nil
	}
	if !entrysync.ValidateBloodPressure(s.BloodPressure) {
		s.ValidationVisible = true
		return s, nil
	}
	s.ValidationVisible = false
	s.Saving = true
	return s, []Effect{Save{Date: s.Calendar.SelectedDate, Entry: s.Entry()}}
}

// failureText keeps the generic message for ordinary network failures and
// uses the more specific one when the cause is actionable.
func failureText(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if text := apperrors.Notice(err); text == constants.NoticeMissingToken {
		return text
	}
	return fallback
}
