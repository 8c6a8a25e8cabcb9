package notification

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"aesthetx/internal/events"

	"github.com/shopspring/decimal"
)

const brand = "AesthetX Ways"

var funcs = map[string]any{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
}

var (
	welcomeHTML = htmltemplate.Must(htmltemplate.New("welcome").Parse(`<h1>Welcome to ` + brand + `, {{.Name}}!</h1>
<p>Your account is ready. Finish onboarding to get picks matched to your style.</p>`))
	welcomeText = texttemplate.Must(texttemplate.New("welcome").Parse(`Welcome to ` + brand + `, {{.Name}}!

Your account is ready. Finish onboarding to get picks matched to your style.
`))

	orderHTML = htmltemplate.Must(htmltemplate.New("order").Funcs(funcs).Parse(`<h1>Thank you for your order, {{.FullName}}</h1>
<p>Order <strong>{{.OrderNumber}}</strong> has been placed.</p>
<table>
{{range .Items}}<tr><td>{{.Name}}{{if .Size}} ({{.Size}}){{end}}{{if .Color}} - {{.Color}}{{end}}</td><td>x{{.Quantity}}</td><td>{{money .Price}}</td></tr>
{{end}}</table>
<p>Total: <strong>{{.Currency}} {{money .Total}}</strong></p>`))
	orderText = texttemplate.Must(texttemplate.New("order").Funcs(funcs).Parse(`Thank you for your order, {{.FullName}}

Order {{.OrderNumber}} has been placed.
{{range .Items}}
- {{.Name}}{{if .Size}} ({{.Size}}){{end}}{{if .Color}} - {{.Color}}{{end}} x{{.Quantity}} @ {{money .Price}}{{end}}

Total: {{.Currency}} {{money .Total}}
`))

	statusHTML = htmltemplate.Must(htmltemplate.New("status").Funcs(funcs).Parse(`<h1>Your order is {{.To}}</h1>
<p>Hi {{.FullName}}, order <strong>{{.OrderNumber}}</strong> moved from {{.From}} to {{.To}}.</p>`))
	statusText = texttemplate.Must(texttemplate.New("status").Funcs(funcs).Parse(`Hi {{.FullName}},

Order {{.OrderNumber}} moved from {{.From}} to {{.To}}.
`))
)

func render(html *htmltemplate.Template, text *texttemplate.Template, data any) (string, string, error) {
	var h, t bytes.Buffer
	if err := html.Execute(&h, data); err != nil {
		return "", "", fmt.Errorf("render %s html: %w", html.Name(), err)
	}
	if err := text.Execute(&t, data); err != nil {
		return "", "", fmt.Errorf("render %s text: %w", text.Name(), err)
	}
	return h.String(), t.String(), nil
}

func WelcomeMessage(from string, p events.UserSignedUpPayload) (Message, error) {
	html, text, err := render(welcomeHTML, welcomeText, p)
	if err != nil {
		return Message{}, err
	}
	return Message{To: p.Email, From: from, Subject: "Welcome to " + brand, HTML: html, Text: text}, nil
}

func OrderConfirmationMessage(from string, p events.OrderPlacedPayload) (Message, error) {
	html, text, err := render(orderHTML, orderText, p)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      p.Email,
		From:    from,
		Subject: fmt.Sprintf("Order confirmed: %s", p.OrderNumber),
		HTML:    html,
		Text:    text,
	}, nil
}

func StatusUpdateMessage(from string, p events.OrderStatusChangedPayload) (Message, error) {
	html, text, err := render(statusHTML, statusText, p)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      p.Email,
		From:    from,
		Subject: fmt.Sprintf("Order %s is %s", p.OrderNumber, p.To),
		HTML:    html,
		Text:    text,
	}, nil
}
