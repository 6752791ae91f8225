package httpapi

import (
	"fmt"
	"html/template"
	"io"
	"strconv"
	"time"

	"github.com/hamed0406/reachmon/internal/domain"
	"github.com/hamed0406/reachmon/internal/monitor"
)

type pageRow struct {
	Name, Host, Type, Port string
	Status                 string
	PillClass, RowClass    string
	RTT, Uptime            string
	CheckedAt, Error       string
}

func toRow(s monitor.Snapshot) pageRow {
	row := pageRow{
		Name:      s.Name,
		Host:      s.Host,
		Type:      string(s.Type),
		Port:      "-",
		Status:    string(s.Status),
		RTT:       "-",
		Uptime:    fmt.Sprintf("%.1f", s.UptimePercent),
		CheckedAt: "-",
		Error:     "-",
	}
	if s.Port != nil {
		row.Port = strconv.Itoa(*s.Port)
	}
	if s.LatencyMS != nil {
		row.RTT = fmt.Sprintf("%.2f", *s.LatencyMS)
	}
	if s.LastCheckedAt != nil {
		row.CheckedAt = s.LastCheckedAt.UTC().Format(time.RFC3339)
	}
	if s.LastError != "" {
		row.Error = s.LastError
	}
	switch s.Status {
	case domain.StatusUp:
		row.PillClass, row.RowClass = "status-up", "table-success"
	case domain.StatusDown:
		row.PillClass, row.RowClass = "status-down", "table-danger"
	default:
		row.PillClass, row.RowClass = "status-unknown", "table-secondary"
	}
	return row
}

func renderPage(w io.Writer, snaps []monitor.Snapshot) error {
	rows := make([]pageRow, 0, len(snaps))
	for _, s := range snaps {
		rows = append(rows, toRow(s))
	}
	return pageTmpl.Execute(w, rows)
}

var pageTmpl = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Host &amp; Service Monitor</title>
  <meta http-equiv="refresh" content="10">
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap@4.6.2/dist/css/bootstrap.min.css">
  <style>
    body { padding-top: 20px; }
    .status-pill { display: inline-block; padding: 2px 10px; border-radius: 999px; font-size: 0.8rem; color: #fff; }
    .status-up { background-color: #28a745; }
    .status-down { background-color: #dc3545; }
    .status-unknown { background-color: #6c757d; }
    .small-text { font-size: 0.8rem; color: #666; }
  </style>
</head>
<body>
<div class="container">
  <div class="d-flex justify-content-between align-items-center mb-3">
    <div>
      <h1 class="h3 mb-0">Host &amp; Service Monitor</h1>
      <p class="small-text mb-0">Auto-refreshes every 10 seconds.</p>
    </div>
    <div class="text-right small-text">Total targets: {{len .}}</div>
  </div>
  <div class="table-responsive">
    <table class="table table-hover table-sm">
      <thead class="thead-light">
        <tr><th>Name</th><th>Host</th><th>Type</th><th>Port</th><th>Status</th><th>RTT (ms)</th><th>Uptime (%)</th><th>Last Checked (UTC)</th><th>Error</th></tr>
      </thead>
      <tbody>
      {{- range .}}
        <tr class="{{.RowClass}}">
          <td>{{.Name}}</td>
          <td><code>{{.Host}}</code></td>
          <td>{{.Type}}</td>
          <td>{{.Port}}</td>
          <td><span class="status-pill {{.PillClass}}">{{.Status}}</span></td>
          <td>{{.RTT}}</td>
          <td>{{.Uptime}}</td>
          <td>{{.CheckedAt}}</td>
          <td>{{.Error}}</td>
        </tr>
      {{- end}}
      </tbody>
    </table>
  </div>
</div>
</body>
</html>
`))
