// Package printing renders delivery reports as self-contained A4 HTML
// documents for the system print dialog, and exports them as xlsx
// workbooks.
package printing

import (
	"fmt"
	"html/template"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"tailor-console/internal/core"
)

// DeliveryReport is everything the printed page needs. The template
// inlines its own styles so the file opens correctly with no network.
type DeliveryReport struct {
	Title       string
	CompanyName string
	GeneratedAt time.Time
	Rows        []core.DeliveryRow
	Totals      core.Totals
}

var reportTmpl = template.Must(template.New("delivery-report").Funcs(template.FuncMap{
	"money": func(d interface{ StringFixed(int32) string }) string {
		return d.StringFixed(2)
	},
	"date": func(t time.Time) string {
		return t.Format("02 Jan 2006")
	},
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  @page { size: A4; margin: 18mm; }
  body { font-family: Arial, Helvetica, sans-serif; font-size: 12px; color: #1e293b; }
  h1 { font-size: 18px; margin-bottom: 2px; }
  .meta { color: #64748b; margin-bottom: 16px; }
  table { width: 100%; border-collapse: collapse; }
  th, td { border: 1px solid #cbd5e1; padding: 5px 8px; text-align: left; }
  th { background: #f1f5f9; }
  td.num, th.num { text-align: right; }
  tr.blocked td { color: #b91c1c; }
  tfoot td { font-weight: bold; background: #f8fafc; }
  @media print { .noprint { display: none; } }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="meta">{{if .CompanyName}}{{.CompanyName}} · {{end}}generated {{date .GeneratedAt}}</div>
<table>
<thead>
<tr><th>ID</th><th>Customer</th><th>Status</th><th>Delivery date</th>
<th class="num">Total</th><th class="num">Advance</th><th class="num">Received</th><th class="num">Balance</th></tr>
</thead>
<tbody>
{{range .Rows}}<tr{{if .IsBlocked}} class="blocked"{{end}}>
<td>{{.DisplayID}}</td><td>{{.CustomerName}}</td><td>{{.Status}}</td><td>{{date .DeliveryDate}}</td>
<td class="num">{{money .TotalAmount}}</td><td class="num">{{money .AdvanceAmount}}</td>
<td class="num">{{money .ReceivedAmount}}</td><td class="num">{{money .BalanceAmount}}</td>
</tr>
{{end}}</tbody>
<tfoot>
<tr><td colspan="4">{{len .Rows}} orders</td>
<td class="num">{{money .Totals.Total}}</td><td class="num">{{money .Totals.Advance}}</td>
<td class="num">{{money .Totals.Received}}</td><td class="num">{{money .Totals.Balance}}</td></tr>
</tfoot>
</table>
<script class="noprint">window.addEventListener('load', function () { window.print(); });</script>
</body>
</html>
`))

// SaveDeliveryReport writes the rendered report to a temp file and
// returns its path.
func SaveDeliveryReport(report DeliveryReport) (string, error) {
	if report.GeneratedAt.IsZero() {
		report.GeneratedAt = time.Now()
	}
	path := filepath.Join(os.TempDir(),
		fmt.Sprintf("delivery-report-%s.html", report.GeneratedAt.Format("20060102-150405")))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	if err := reportTmpl.Execute(f, report); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return path, nil
}

// OpenForPrinting hands the file to the OS default browser, which
// triggers the print dialog via the embedded onload script.
func OpenForPrinting(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	return nil
}
