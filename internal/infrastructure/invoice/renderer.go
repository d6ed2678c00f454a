// Package invoice renders transaction invoices as self-contained HTML
// documents suitable for printing or sending over WhatsApp.
package invoice

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	billingapp "github.com/farmabill/backend/internal/application/billing"
)

var _ billingapp.InvoiceRenderer = (*HTMLRenderer)(nil)

// HTMLRenderer renders invoices with html/template
type HTMLRenderer struct {
	tmpl *template.Template
}

// NewHTMLRenderer parses the built-in invoice template
func NewHTMLRenderer() (*HTMLRenderer, error) {
	tmpl, err := template.New("invoice").Funcs(template.FuncMap{
		"date": func(v any) string {
			switch t := v.(type) {
			case time.Time:
				return t.Format("02/01/2006")
			case *time.Time:
				if t != nil {
					return t.Format("02/01/2006")
				}
			}
			return ""
		},
	}).Parse(invoiceTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse invoice template: %w", err)
	}
	return &HTMLRenderer{tmpl: tmpl}, nil
}

// Render produces the HTML document for one invoice
func (r *HTMLRenderer) Render(_ context.Context, data *billingapp.InvoiceData) ([]byte, error) {
	if data == nil {
		return nil, fmt.Errorf("invoice data is required")
	}
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", data.Number, err)
	}
	return buf.Bytes(), nil
}

const invoiceTemplate = `<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>Factura {{.Number}}</title>
<style>
  body { font-family: Helvetica, Arial, sans-serif; margin: 2em; color: #222; }
  header { display: flex; justify-content: space-between; border-bottom: 2px solid #222; padding-bottom: 1em; }
  h1 { font-size: 1.4em; margin: 0; }
  table { width: 100%; border-collapse: collapse; margin-top: 1.5em; }
  th, td { text-align: left; padding: 0.4em 0.6em; border-bottom: 1px solid #ddd; }
  td.num, th.num { text-align: right; }
  .totals { margin-top: 1em; width: 40%; margin-left: auto; }
  .totals td { border: none; }
  .total-row td { font-weight: bold; border-top: 2px solid #222; }
  footer { margin-top: 2em; font-size: 0.85em; color: #666; }
</style>
</head>
<body>
<header>
  <div>
    <h1>{{.PharmacyName}}</h1>
    {{if .PharmacyTaxID}}<div>CUIT: {{.PharmacyTaxID}}</div>{{end}}
    {{if .PharmacyAddress}}<div>{{.PharmacyAddress}}</div>{{end}}
  </div>
  <div>
    <h1>{{.Number}}</h1>
    <div>Fecha: {{date .IssuedAt}}</div>
    {{if .DueDate}}<div>Vencimiento: {{date .DueDate}}</div>{{end}}
  </div>
</header>

<section>
  <p><strong>Cliente:</strong> {{.ClientName}}{{if .ClientPhone}} &middot; {{.ClientPhone}}{{end}}</p>
</section>

{{if .Items}}
<table>
  <thead>
    <tr><th>Detalle</th><th class="num">Cantidad</th><th class="num">Precio unit.</th><th class="num">Importe</th></tr>
  </thead>
  <tbody>
  {{range .Items}}
    <tr>
      <td>{{.Description}}</td>
      <td class="num">{{.Quantity}}</td>
      <td class="num">{{.UnitPrice.String}}</td>
      <td class="num">{{.Total.String}}</td>
    </tr>
  {{end}}
  </tbody>
</table>
{{end}}

<table class="totals">
  <tr><td>Subtotal</td><td class="num">{{.Subtotal.String}}</td></tr>
  {{if not .TaxAmount.IsZero}}<tr><td>Impuestos</td><td class="num">{{.TaxAmount.String}}</td></tr>{{end}}
  {{if not .Discount.IsZero}}<tr><td>Descuento</td><td class="num">-{{.Discount.String}}</td></tr>{{end}}
  <tr class="total-row"><td>Total</td><td class="num">{{.TotalAmount.String}}</td></tr>
</table>

{{if .Notes}}<footer>{{.Notes}}</footer>{{end}}
</body>
</html>
`
