// Package views renders the survey targeting page: the time form, the
// loading and error indicators, and the results table.
package views

import (
	"embed"
	"html/template"
	"io"

	"doctor-survey-targeting/predictions/models"
	"doctor-survey-targeting/predictions/services"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// ResultRow is one rendered table row.
type ResultRow struct {
	NPI       string
	Specialty string
	Region    string
	Score     string
	Band      services.ScoreBand
}

// PageData feeds the page template.
type PageData struct {
	ViewID string
	// Time re-fills the form field after a submit.
	Time  string
	State models.ViewState
	Rows  []ResultRow
}

// NewPageData builds the template input for a view's state.
func NewPageData(viewID, time string, state models.ViewState) PageData {
	return PageData{ViewID: viewID, Time: time, State: state, Rows: ResultRows(state.Results)}
}

// ResultRows maps recommendations to table rows in received order. An empty
// input yields nil, and the table renders nothing.
func ResultRows(doctors []models.DoctorRecommendation) []ResultRow {
	if len(doctors) == 0 {
		return nil
	}
	rows := make([]ResultRow, len(doctors))
	for i, d := range doctors {
		rows[i] = ResultRow{
			NPI:       d.DisplayNPI(),
			Specialty: d.DisplaySpecialty(),
			Region:    d.DisplayRegion(),
			Score:     d.ScoreText(),
			Band:      services.BandForScore(d.LikelihoodScore),
		}
	}
	return rows
}

// RenderPage writes the full page.
func RenderPage(w io.Writer, data PageData) error {
	return pageTemplate.ExecuteTemplate(w, "page.html", data)
}

// RenderResultsTable writes only the results table, or nothing for no rows.
func RenderResultsTable(w io.Writer, doctors []models.DoctorRecommendation) error {
	return pageTemplate.ExecuteTemplate(w, "resultsTable", ResultRows(doctors))
}
