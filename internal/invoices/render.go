package invoices

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/shopspring/decimal"
)

var textTemplate = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"money":  money,
	"amount": rowAmount,
	"pad":    pad,
	"pct":    func(d decimal.Decimal) string { return d.String() },
	"paid": func(paid bool) string {
		if paid {
			return "Pagado"
		}
		return "Pendiente"
	},
}).Parse(`{{.Venue.Name}}
{{.Venue.Address}}
{{.Venue.Phone}}
------------------------------------------------------------
{{- if .Client.Company}}
Company: {{.Client.Company}}
{{- end}}
ISSUED TO:                                INVOICE NO: {{.Number}}
A: {{.Client.Name}}
Tel: {{.Client.Phone}}
Actividad: {{.Event.Type}}
Día: {{.Event.Date}}
Hora: {{.Event.Time}}
{{- if .Event.Tables}}
Mesas: {{.Event.Tables}}
{{- end}}
------------------------------------------------------------
{{pad "DESCRIPTION" 40}}{{pad "QTY" 8}}TOTAL
{{- range .Rows}}
{{pad .Description 40}}{{pad .Quantity 8}}{{amount .}}
{{- range .Details}}
  • {{.}}
{{- end}}
{{- end}}
------------------------------------------------------------
{{pad "SUB-TOTAL" 48}}{{money .Totals.Subtotal}}
{{pad "IVU Estatal (Reducido)" 48}}{{money .Totals.FoodStateTax}}
{{pad "IVU Municipal" 48}}{{money .Totals.FoodCityTax}}
{{pad "Impuesto Bebidas Alcohólicas" 48}}{{money .Totals.AlcoholTax}}
{{pad "TAXES AND FEE" 48}}{{money .Totals.TotalTaxes}}
{{- if .Totals.Tip.IsPositive}}
{{pad (printf "Propina (%s%%)" (pct .Totals.TipPercentage)) 48}}{{money .Totals.Tip}}
{{- end}}
{{pad "TOTAL" 48}}{{money .Totals.Total}}
{{pad (printf "Depósito (%s%%) - %s" (pct .Totals.DepositPercentage) (paid .Totals.DepositPaid)) 48}}{{money .Totals.Deposit}}
{{pad "BALANCE" 48}}{{money .Totals.Balance}}
`))

// RenderText writes the plain text invoice
func RenderText(w io.Writer, inv Invoice) error {
	if err := textTemplate.Execute(w, inv); err != nil {
		return fmt.Errorf("failed to render invoice %s: %w", inv.Number, err)
	}
	return nil
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func rowAmount(r Row) string {
	if r.Included {
		return IncludedLabel
	}
	return money(r.Amount)
}

func pad(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s + " "
	}
	return s + strings.Repeat(" ", width-n)
}
