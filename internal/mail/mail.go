package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	htmltmpl "html/template"
	texttmpl "text/template"
)

const (
	TemplateAnnouncement = "announcement"
	TemplateContact      = "contact"
)

//go:embed templates
var templateFiles embed.FS

// Message is a rendered mail ready for a Transport.
type Message struct {
	To       []string
	Subject  string
	Template string
	Text     string
	HTML     string
}

type Transport interface {
	Deliver(ctx context.Context, msg Message) error
}

// contextData is what every template receives; callers' data sits under .Data.
type contextData struct {
	Site string
	Data interface{}
}

type Renderer struct {
	text *texttmpl.Template
	html *htmltmpl.Template
}

func NewRenderer() (*Renderer, error) {
	text, err := texttmpl.ParseFS(templateFiles, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("parse text templates: %w", err)
	}
	html, err := htmltmpl.ParseFS(templateFiles, "templates/*.gohtml")
	if err != nil {
		return nil, fmt.Errorf("parse html templates: %w", err)
	}
	return &Renderer{text: text, html: html}, nil
}

// Render executes <name>.txt and, when present, <name>.gohtml.
func (r *Renderer) Render(name string, data interface{}) (text, html string, err error) {
	if r.text.Lookup(name+".txt") == nil {
		return "", "", fmt.Errorf("mail template %q not found", name)
	}
	var buf bytes.Buffer
	if err := r.text.ExecuteTemplate(&buf, name+".txt", data); err != nil {
		return "", "", fmt.Errorf("render %s.txt: %w", name, err)
	}
	text = buf.String()

	if r.html.Lookup(name+".gohtml") != nil {
		buf.Reset()
		if err := r.html.ExecuteTemplate(&buf, name+".gohtml", data); err != nil {
			return "", "", fmt.Errorf("render %s.gohtml: %w", name, err)
		}
		html = buf.String()
	}
	return text, html, nil
}

type Mailer struct {
	renderer  *Renderer
	transport Transport
	site      string
}

func NewMailer(site string, transport Transport) (*Mailer, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}
	return &Mailer{renderer: renderer, transport: transport, site: site}, nil
}

// Send renders template with data and delivers a single message to recipients.
func (m *Mailer) Send(ctx context.Context, template, subject string, data interface{}, recipients ...string) error {
	if len(recipients) == 0 {
		return nil
	}
	text, html, err := m.renderer.Render(template, contextData{Site: m.site, Data: data})
	if err != nil {
		return err
	}
	return m.transport.Deliver(ctx, Message{
		To:       recipients,
		Subject:  subject,
		Template: template,
		Text:     text,
		HTML:     html,
	})
}
