package calendar

import (
	"html/template"
	"io"
)

// WeekdayLabels are the column headings, Sunday first
var WeekdayLabels = [DaysPerWeek]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

var tableTemplate = template.Must(template.New("calendar").Parse(
	`<table class="table table-bordered">` +
		`<thead><tr>{{range .Labels}}<th>{{.}}</th>{{end}}</tr></thead>` +
		`<tbody>{{range .Grid.Weeks}}<tr>{{range .}}` +
		`{{if .IsPadding}}<td></td>` +
		`{{else if .IsFuture}}<td class="future-date opacity-50">{{.Day}}</td>` +
		`{{else if .IsSelected}}<td class="date selected-date" data-date="{{.Date}}">{{.Day}}</td>` +
		`{{else}}<td class="date" data-date="{{.Date}}">{{.Day}}</td>{{end}}` +
		`{{end}}</tr>{{end}}</tbody></table>`,
))

// RenderHTML writes the grid as the table markup used by the journal's web
// page: selectable days carry a data-date attribute, future days are muted
// and unbound, and the selected day has the selected-date class.
func RenderHTML(w io.Writer, g Grid) error {
	return tableTemplate.Execute(w, struct {
		Labels [DaysPerWeek]string
		Grid   Grid
	}{WeekdayLabels, g})
}
