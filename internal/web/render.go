package web

import (
	"html/template"
	"net/http"

	"github.com/svtemple/eventreg/internal/core"
	"github.com/svtemple/eventreg/internal/logging"
)

// adminPage is the data handed to the admin table template.
type adminPage struct {
	Filter  core.ScanFilter
	Records []core.EventRecord
	Total   int
}

var adminTemplate = template.Must(template.New("admin").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Event Registrations</title>
<style>
  body { font-family: sans-serif; margin: 2rem; }
  table { border-collapse: collapse; width: 100%; }
  th, td { border: 1px solid #ccc; padding: 0.4rem 0.6rem; text-align: left; }
  th { background: #f0f0f0; }
  tr:nth-child(even) { background: #fafafa; }
  .meta { color: #555; margin-bottom: 1rem; }
</style>
</head>
<body>
<h1>Event Registrations</h1>
<p class="meta">
  {{.Total}} records{{if .Filter.Month}}, month {{.Filter.Month}}{{end}}{{if .Filter.Year}}, year {{.Filter.Year}}{{end}}
</p>
<table>
  <tr>
    <th>Name</th><th>Email</th><th>Occasion</th><th>Description</th>
    <th>Date</th><th>Gotra</th><th>Nakshatra</th><th>Rashi</th>
    <th>Tamil Month</th><th>Phone</th><th>Address</th><th>Relation</th>
    <th>Submitted</th>
  </tr>
{{range .Records}}
  <tr>
    <td>{{.Name}}</td><td>{{.Email}}</td><td>{{.OccasionName}}</td>
    <td>{{.EventDescription}}</td><td>{{.DateOfEvent}}</td><td>{{.Gotra}}</td>
    <td>{{.Nakshatra}}</td><td>{{.Rashi}}</td><td>{{.TamilMonth}}</td>
    <td>{{.Phone}}</td><td>{{.Address}}</td><td>{{.Relation}}</td>
    <td>{{.SubmittedAt}}</td>
  </tr>
{{end}}
</table>
</body>
</html>
`))

// renderAdmin writes the HTML table of records.
func (s *Server) renderAdmin(w http.ResponseWriter, r *http.Request, filter core.ScanFilter, records []core.EventRecord) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	page := adminPage{Filter: filter, Records: records, Total: len(records)}
	if err := adminTemplate.Execute(w, page); err != nil {
		// Headers are already sent; log and give up on this response.
		logging.FromContext(r.Context()).Error("admin template render failed", "error", err)
	}
}
