package httpapi

import (
	"bytes"
	"html/template"
	"strconv"

	"github.com/i474232898/weatherdash/internal/weather"
)

const dashboardTitle = "WeatherDash - San Francisco, CA"

type option struct {
	Value    string
	Label    string
	Selected bool
}

type dashboardData struct {
	Title       string
	Mean        string
	Max         string
	Min         string
	Search      string
	TempOptions []option
	TimeOptions []option
	Rows        []weather.WeatherRecord
	Total       int
}

var dashboardTmpl = template.Must(template.New("dashboard").Parse(dashboardHTML))

func renderDashboard(v weather.View) ([]byte, error) {
	data := dashboardData{
		Title:  dashboardTitle,
		Mean:   fixed1(v.Mean),
		Max:    fixed1(v.Max),
		Min:    fixed1(v.Min),
		Search: v.Filters.Search,
		TempOptions: options(string(v.Filters.Temp), []option{
			{Value: string(weather.TempAll), Label: "All Temperatures"},
			{Value: string(weather.TempHigh), Label: "Above 60°F"},
			{Value: string(weather.TempLow), Label: "Below 60°F"},
		}),
		TimeOptions: options(string(v.Filters.Time), []option{
			{Value: string(weather.TimeAll), Label: "All Times"},
			{Value: string(weather.TimeMorning), Label: "Early Sunrise"},
			{Value: string(weather.TimeEvening), Label: "Late Sunset"},
		}),
		Rows:  v.Visible,
		Total: v.Total,
	}

	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func options(selected string, opts []option) []option {
	for i := range opts {
		opts[i].Selected = opts[i].Value == selected
	}
	return opts
}

func fixed1(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; background: #f7fafc; color: #1a202c; margin: 0; }
main { max-width: 1280px; margin: 0 auto; padding: 1.25rem; }
.card { background: #fff; border-radius: 8px; box-shadow: 0 4px 6px rgba(0,0,0,.1); padding: 1.25rem; margin-bottom: 2rem; }
.stats { display: grid; grid-template-columns: repeat(3, 1fr); gap: 1rem; margin-bottom: 2rem; }
.stats .card { margin: 0; }
.stat-label { font-size: .875rem; font-weight: 500; }
.stat-number { font-size: 1.5rem; font-weight: 600; }
.filters { display: flex; gap: 1rem; margin-bottom: 2rem; }
.filters input, .filters select { flex: 1; padding: .5rem .75rem; border: 1px solid #e2e8f0; border-radius: 6px; font-size: 1rem; }
.table-wrap { overflow-x: auto; padding: 0; }
table { width: 100%; border-collapse: collapse; }
th, td { padding: .75rem 1.5rem; text-align: left; border-bottom: 1px solid #edf2f7; }
th { font-size: .75rem; text-transform: uppercase; letter-spacing: .05em; color: #4a5568; }
</style>
</head>
<body>
<main>
<div class="card"><h1>{{.Title}}</h1></div>

<div class="stats">
  <div class="card"><div class="stat-label">Average Temperature</div><div class="stat-number">{{.Mean}}°F</div></div>
  <div class="card"><div class="stat-label">Highest Temperature</div><div class="stat-number">{{.Max}}°F</div></div>
  <div class="card"><div class="stat-label">Lowest Temperature</div><div class="stat-number">{{.Min}}°F</div></div>
</div>

<form id="filters" class="filters" method="get" action="/">
  <input type="text" name="search" placeholder="Search by date (YYYY-MM-DD)" value="{{.Search}}" autocomplete="off">
  <select name="temp">{{range .TempOptions}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}</select>
  <select name="time">{{range .TimeOptions}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}</select>
</form>

<div class="card table-wrap">
<table>
<thead><tr><th>Date</th><th>Temperature</th><th>High</th><th>Low</th><th>Sunrise</th><th>Sunset</th><th>Conditions</th></tr></thead>
<tbody>
{{- range .Rows}}
<tr><td>{{.Date}}</td><td>{{.Temp}}°F</td><td>{{.HighTemp}}°F</td><td>{{.LowTemp}}°F</td><td>{{.Sunrise}}</td><td>{{.Sunset}}</td><td>{{.Conditions}}</td></tr>
{{- end}}
</tbody>
</table>
</div>
</main>
<script>
(function () {
  var form = document.getElementById("filters");
  var search = form.elements["search"];
  var timer;
  search.addEventListener("input", function () {
    clearTimeout(timer);
    timer = setTimeout(function () { form.submit(); }, 250);
  });
  form.querySelectorAll("select").forEach(function (s) {
    s.addEventListener("change", function () { form.submit(); });
  });
  if (search.value) {
    search.focus();
    search.setSelectionRange(search.value.length, search.value.length);
  }
})();
</script>
</body>
</html>
`
