package mail

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

type SendgridTransport struct {
	client *sendgrid.Client
	from   *sgmail.Email
}

func NewSendgridTransport(key, fromName, fromEmail string) *SendgridTransport {
	return &SendgridTransport{
		client: sendgrid.NewSendClient(key),
		from:   sgmail.NewEmail(fromName, fromEmail),
	}
}

func (t *SendgridTransport) prepare(msg Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	for _, to := range msg.To {
		p.AddTos(sgmail.NewEmail("", to))
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(t.from)
	m.Subject = msg.Subject
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", msg.Text))
	if msg.HTML != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTML))
	}
	return m
}

func (t *SendgridTransport) Deliver(ctx context.Context, msg Message) error {
	res, err := t.client.SendWithContext(ctx, t.prepare(msg))
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid: status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}
