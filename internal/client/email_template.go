package client

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"storefront-backend/internal/model"
)

type EmailContent struct {
	Subject string
	Text    string
	HTML    string
}

const confirmationText = `Hola {{.CustomerName}},

Recibimos el pago de tu pedido #{{.OrderNumber}}.

{{range .Items}}- {{.ProductName}}{{if .VariantLabel}} ({{.VariantLabel}}){{end}} x{{.Quantity}}: ${{.UnitPrice.StringFixed 2}}
{{end}}
Total: ${{.Total.StringFixed 2}}
{{if .TrackingCode}}Código de seguimiento: {{.TrackingCode}}
{{end}}
Gracias por tu compra.
`

const confirmationHTML = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Pedido #{{.OrderNumber}}</title></head>
<body style="font-family: Arial, sans-serif;">
	<h2>¡Gracias por tu compra, {{.CustomerName}}!</h2>
	<p>Recibimos el pago de tu pedido <strong>#{{.OrderNumber}}</strong>.</p>
	<table cellpadding="6">
		{{range .Items}}
		<tr>
			<td>{{.ProductName}}{{if .VariantLabel}} <small>({{.VariantLabel}})</small>{{end}}</td>
			<td>x{{.Quantity}}</td>
			<td>${{.UnitPrice.StringFixed 2}}</td>
		</tr>
		{{end}}
	</table>
	<p><strong>Total: ${{.Total.StringFixed 2}}</strong></p>
	{{if .TrackingCode}}<p>Código de seguimiento: {{.TrackingCode}}</p>{{end}}
</body>
</html>
`

var (
	confirmationTextTmpl = texttemplate.Must(texttemplate.New("confirmation.txt").Parse(confirmationText))
	confirmationHTMLTmpl = htmltemplate.Must(htmltemplate.New("confirmation.html").Parse(confirmationHTML))
)

func RenderConfirmation(email *model.ConfirmationEmail) (*EmailContent, error) {
	var text, html bytes.Buffer
	if err := confirmationTextTmpl.Execute(&text, email); err != nil {
		return nil, fmt.Errorf("render confirmation text: %w", err)
	}
	if err := confirmationHTMLTmpl.Execute(&html, email); err != nil {
		return nil, fmt.Errorf("render confirmation html: %w", err)
	}

	return &EmailContent{
		Subject: fmt.Sprintf("Confirmación de pedido #%s", email.OrderNumber),
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}
