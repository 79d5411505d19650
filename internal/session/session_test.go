package session

import (
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/vitalcal/internal/calendar"
	"github.com/julianstephens/vitalcal/internal/constants"
	"github.com/julianstephens/vitalcal/internal/entrysync"
)

const today = "2024-10-15"

func started(t *testing.T) State {
	t.Helper()
	s, effects := Handle(State{}, Started{Today: today})
	if len(effects) != 1 {
		t.Fatalf("Started produced %d effects, want 1", len(effects))
	}
	return s
}

func countSelected(g calendar.Grid) int {
	n := 0
	for _, week := range g.Weeks {
		for _, c := range week {
			if c.IsSelected {
				n++
			}
		}
	}
	return n
}

func TestStartedSelectsAndLoadsToday(t *testing.T) {
	s, effects := Handle(State{}, Started{Today: today})

	if s.Phase != PhaseLoading {
		t.Errorf("Phase = %v, want %v", s.Phase, PhaseLoading)
	}
	if s.Calendar.SelectedDate != today {
		t.Errorf("SelectedDate = %q, want %q", s.Calendar.SelectedDate, today)
	}
	if s.Calendar.ViewYear != 2024 || s.Calendar.ViewMonth != time.October {
		t.Errorf("view = %d-%v, want 2024-October", s.Calendar.ViewYear, s.Calendar.ViewMonth)
	}
	want := Fetch{Date: today, Generation: 1}
	if len(effects) != 1 || effects[0] != want {
		t.Errorf("effects = %#v, want [%#v]", effects, want)
	}
	if n := countSelected(s.Grid()); n != 1 {
		t.Errorf("selected cells = %d, want 1", n)
	}
}

func TestStartedWithBadDate(t *testing.T) {
	s, effects := Handle(State{}, Started{Today: "15/10/2024"})
	if len(effects) != 0 {
		t.Errorf("effects = %#v, want none", effects)
	}
	if s.Notice.Level != NoticeError || s.Notice.Text == "" {
		t.Errorf("Notice = %#v, want an error notice", s.Notice)
	}
}

func TestDayChosen(t *testing.T) {
	tests := []struct {
		name        string
		date        string
		wantEffects int
	}{
		{name: "past day", date: "2024-10-03", wantEffects: 1},
		{name: "today", date: today, wantEffects: 1},
		{name: "future day", date: "2024-10-16", wantEffects: 0},
		{name: "other month", date: "2024-09-30", wantEffects: 0},
		{name: "malformed", date: "2024-10-3", wantEffects: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := started(t)
			next, effects := Handle(s, DayChosen{Date: tt.date})

			if len(effects) != tt.wantEffects {
				t.Fatalf("effects = %#v, want %d", effects, tt.wantEffects)
			}
			if tt.wantEffects == 0 {
				if next != s {
					t.Errorf("state changed for an unselectable day")
				}
				return
			}

			want := Fetch{Date: tt.date, Generation: s.Generation + 1}
			if effects[0] != want {
				t.Errorf("effect = %#v, want %#v", effects[0], want)
			}
			if next.Phase != PhaseLoading {
				t.Errorf("Phase = %v, want %v", next.Phase, PhaseLoading)
			}
			if n := countSelected(next.Grid()); n != 1 {
				t.Errorf("selected cells = %d, want 1", n)
			}
			if cell, _ := next.Grid().Selected(); cell.Date != tt.date {
				t.Errorf("selected cell = %q, want %q", cell.Date, tt.date)
			}
		})
	}
}

func TestEntryLoaded(t *testing.T) {
	s := started(t)
	s, _ = Handle(s, EntryLoaded{Date: today, Generation: 1, Entry: entrysync.Entry{BloodPressure: "120/80", GlucoseLevel: "5.5"}})

	if s.Phase != PhaseLoaded {
		t.Errorf("Phase = %v, want %v", s.Phase, PhaseLoaded)
	}
	if s.BloodPressure != "120/80" || s.GlucoseLevel != "5.5" {
		t.Errorf("fields = %q, %q; want 120/80, 5.5", s.BloodPressure, s.GlucoseLevel)
	}
}

func TestStaleResponsesAreDropped(t *testing.T) {
	s := started(t)
	s, _ = Handle(s, DayChosen{Date: "2024-10-01"}) // generation 2
	s, _ = Handle(s, DayChosen{Date: "2024-10-02"}) // generation 3

	s, _ = Handle(s, EntryLoaded{Date: "2024-10-01", Generation: 2, Entry: entrysync.Entry{BloodPressure: "111/11"}})
	if s.Phase != PhaseLoading || s.BloodPressure != "" {
		t.Fatalf("stale response applied: phase %v, bp %q", s.Phase, s.BloodPressure)
	}

	s, _ = Handle(s, EntryLoadFailed{Date: "2024-10-01", Generation: 2, Err: errors.New("timeout")})
	if s.Phase != PhaseLoading || s.Notice.Text != "" {
		t.Fatalf("stale failure applied: phase %v, notice %q", s.Phase, s.Notice.Text)
	}

	s, _ = Handle(s, EntryLoaded{Date: "2024-10-02", Generation: 3, Entry: entrysync.Entry{BloodPressure: "122/82"}})
	if s.Phase != PhaseLoaded || s.BloodPressure != "122/82" {
		t.Errorf("current response not applied: phase %v, bp %q", s.Phase, s.BloodPressure)
	}

	// a duplicate delivery after the load completed changes nothing
	again, _ := Handle(s, EntryLoaded{Date: "2024-10-02", Generation: 3, Entry: entrysync.Entry{BloodPressure: "999/99"}})
	if again.BloodPressure != "122/82" {
		t.Errorf("duplicate response applied: bp %q", again.BloodPressure)
	}
}

func TestEntryLoadFailed(t *testing.T) {
	s := started(t)
	s, _ = Handle(s, FieldsEdited{BloodPressure: "130/85", GlucoseLevel: "6"})
	s, effects := Handle(s, EntryLoadFailed{Date: today, Generation: 1, Err: &entrysync.NetworkError{Op: entrysync.OpFetch, Kind: entrysync.KindStatus, StatusCode: 500}})

	if len(effects) != 0 {
		t.Errorf("effects = %#v, want none (no retry)", effects)
	}
	if s.Phase != PhaseLoadFailed {
		t.Errorf("Phase = %v, want %v", s.Phase, PhaseLoadFailed)
	}
	if s.Notice != (Notice{Text: constants.NoticeLoadFailed, Level: NoticeError}) {
		t.Errorf("Notice = %#v", s.Notice)
	}
	if s.Calendar.SelectedDate != today {
		t.Errorf("selection lost after failure: %q", s.Calendar.SelectedDate)
	}
	if s.BloodPressure != "130/85" {
		t.Errorf("fields changed after failure: %q", s.BloodPressure)
	}

	s, _ = Handle(s, NoticeDismissed{})
	if s.Notice != (Notice{}) {
		t.Errorf("Notice not cleared: %#v", s.Notice)
	}
}

func TestSaveValidation(t *testing.T) {
	s := started(t)
	s, _ = Handle(s, EntryLoaded{Date: today, Generation: 1})

	s, _ = Handle(s, FieldsEdited{BloodPressure: "120-80", GlucoseLevel: "5.1"})
	s, effects := Handle(s, SaveRequested{})
	if len(effects) != 0 {
		t.Fatalf("invalid save produced effects: %#v", effects)
	}
	if !s.ValidationVisible {
		t.Error("ValidationVisible = false after invalid save")
	}

	s, _ = Handle(s, FieldsEdited{BloodPressure: "120/80", GlucoseLevel: "5.1"})
	if !s.ValidationVisible {
		t.Error("editing alone should not hide the validation message")
	}
	s, effects = Handle(s, SaveRequested{})
	if s.ValidationVisible {
		t.Error("ValidationVisible = true after valid save")
	}
	want := Save{Date: today, Entry: entrysync.Entry{BloodPressure: "120/80", GlucoseLevel: "5.1"}}
	if len(effects) != 1 || effects[0] != want {
		t.Errorf("effects = %#v, want [%#v]", effects, want)
	}
	if s.Phase != PhaseLoaded || s.Calendar.SelectedDate != today {
		t.Errorf("save changed selection state: phase %v, date %q", s.Phase, s.Calendar.SelectedDate)
	}
}

func TestSaveWithoutSelection(t *testing.T) {
	_, effects := Handle(State{BloodPressure: "120/80"}, SaveRequested{})
	if len(effects) != 0 {
		t.Errorf("effects = %#v, want none", effects)
	}
}

func TestSaveResults(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  Notice
	}{
		{
			name:  "success",
			event: SaveSucceeded{Date: today},
			want:  Notice{Text: constants.NoticeSaved, Level: NoticeInfo},
		},
		{
			name:  "server error",
			event: SaveFailed{Date: today, Err: &entrysync.NetworkError{Op: entrysync.OpSave, Kind: entrysync.KindStatus, StatusCode: 403}},
			want:  Notice{Text: constants.NoticeSaveFailed, Level: NoticeError},
		},
		{
			name:  "missing token",
			event: SaveFailed{Date: today, Err: &entrysync.NetworkError{Op: entrysync.OpSave, Kind: entrysync.KindAuth, Err: entrysync.ErrMissingToken}},
			want:  Notice{Text: constants.NoticeMissingToken, Level: NoticeError},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := started(t)
			next, effects := Handle(s, tt.event)
			if len(effects) != 0 {
				t.Errorf("effects = %#v, want none (no re-fetch)", effects)
			}
			if next.Notice != tt.want {
				t.Errorf("Notice = %#v, want %#v", next.Notice, tt.want)
			}
		})
	}
}

func TestNavigationKeepsSelection(t *testing.T) {
	s, _ := Handle(State{}, Started{Today: "2024-01-10"})

	s, effects := Handle(s, Navigated{Dir: calendar.Prev})
	if len(effects) != 0 {
		t.Errorf("navigation produced effects: %#v", effects)
	}
	if s.Calendar.ViewYear != 2023 || s.Calendar.ViewMonth != time.December {
		t.Errorf("view = %d-%v, want 2023-December", s.Calendar.ViewYear, s.Calendar.ViewMonth)
	}
	if s.Calendar.SelectedDate != "2024-01-10" {
		t.Errorf("SelectedDate = %q, want 2024-01-10", s.Calendar.SelectedDate)
	}
	if n := countSelected(s.Grid()); n != 0 {
		t.Errorf("selected cells in December = %d, want 0", n)
	}

	s, effects = Handle(s, DayChosen{Date: "2023-12-24"})
	if len(effects) != 1 {
		t.Fatalf("effects = %#v, want one fetch", effects)
	}
	s, _ = Handle(s, Navigated{Dir: calendar.Next})
	if n := countSelected(s.Grid()); n != 0 {
		t.Errorf("selected cells in January = %d, want 0", n)
	}
}

func TestDayChanged(t *testing.T) {
	s := started(t)
	if _, effects := Handle(s, DayChosen{Date: "2024-10-16"}); len(effects) != 0 {
		t.Fatal("tomorrow should not be selectable yet")
	}
	s, _ = Handle(s, DayChanged{Today: "2024-10-16"})
	if _, effects := Handle(s, DayChosen{Date: "2024-10-16"}); len(effects) != 1 {
		t.Error("new day should be selectable after the date moves on")
	}
}

func TestPhaseString(t *testing.T) {
	if PhaseLoadFailed.String() != "load failed" {
		t.Errorf("PhaseLoadFailed.String() = %q", PhaseLoadFailed.String())
	}
	if Phase(42).String() != "unknown" {
		t.Errorf("Phase(42).String() = %q", Phase(42).String())
	}
}

func TestSaveInFlight(t *testing.T) {
	s := started(t)
	s, _ = Handle(s, EntryLoaded{Date: today, Generation: 1})
	s, _ = Handle(s, FieldsEdited{BloodPressure: "120/80"})

	s, effects := Handle(s, SaveRequested{})
	if len(effects) != 1 || !s.Saving {
		t.Fatalf("first save: effects %#v, saving %v", effects, s.Saving)
	}
	s, effects = Handle(s, SaveRequested{})
	if len(effects) != 0 {
		t.Errorf("second save while in flight produced %#v", effects)
	}

	s, _ = Handle(s, SaveFailed{Date: today, Err: errors.New("boom")})
	if s.Saving {
		t.Error("Saving still set after failure")
	}
	if _, effects = Handle(s, SaveRequested{}); len(effects) != 1 {
		t.Errorf("save after failure: effects %#v, want one", effects)
	}
}

func TestSaveWhileLoadingIsIgnored(t *testing.T) {
	s := started(t)
	if _, effects := Handle(s, SaveRequested{}); len(effects) != 0 {
		t.Errorf("save during first load produced %#v", effects)
	}

	s, _ = Handle(s, EntryLoaded{
		Date:       today,
		Generation: 1,
		Entry:      entrysync.Entry{BloodPressure: "120/80", GlucoseLevel: "5.5"},
	})
	s, _ = Handle(s, DayChosen{Date: "2024-10-14"})
	if s.BloodPressure != "120/80" {
		t.Fatalf("BloodPressure = %q, want previous day's value still shown", s.BloodPressure)
	}

	s, effects := Handle(s, SaveRequested{})
	if len(effects) != 0 {
		t.Errorf("save while loading 2024-10-14 produced %#v", effects)
	}
	if s.Saving {
		t.Error("Saving set by an ignored save")
	}

	s, _ = Handle(s, EntryLoaded{Date: "2024-10-14", Generation: 2})
	if _, effects = Handle(s, SaveRequested{}); len(effects) != 0 {
		t.Errorf("empty blood pressure should not save: %#v", effects)
	}
}
