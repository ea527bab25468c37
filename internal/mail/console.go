package mail

import (
	"context"
	"strings"

	"SimpleMOOC/pkg/logger"
)

// ConsoleTransport writes mails to the log instead of sending them.
type ConsoleTransport struct {
	log  logger.Log
	from string
}

func NewConsoleTransport(log logger.Log, from string) *ConsoleTransport {
	return &ConsoleTransport{log: log, from: from}
}

func (t *ConsoleTransport) Deliver(_ context.Context, msg Message) error {
	t.log.Info("mail",
		"from", t.from,
		"to", strings.Join(msg.To, ", "),
		"subject", msg.Subject,
		"template", msg.Template,
		"body", msg.Text,
	)
	return nil
}
