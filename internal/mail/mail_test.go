package mail

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"SimpleMOOC/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type announcementData struct {
	Course  string
	Title   string
	Content string
}

func TestSendRendersBothParts(t *testing.T) {
	outbox := NewOutbox()
	mailer, err := NewMailer("SimpleMOOC", outbox)
	require.NoError(t, err)

	err = mailer.Send(context.Background(), TemplateAnnouncement, "[Go] Week 1",
		announcementData{Course: "Go", Title: "Week 1", Content: "<b>Read chapter 1</b>"}, "ana@example.com")
	require.NoError(t, err)

	msgs := outbox.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, []string{"ana@example.com"}, msgs[0].To)
	assert.Equal(t, "[Go] Week 1", msgs[0].Subject)
	assert.Contains(t, msgs[0].Text, "Go: Week 1")
	assert.Contains(t, msgs[0].Text, "<b>Read chapter 1</b>")
	assert.Contains(t, msgs[0].HTML, "&lt;b&gt;Read chapter 1&lt;/b&gt;")
	assert.Contains(t, msgs[0].Text, "SimpleMOOC")
}

func TestSendWithoutRecipientsIsNoop(t *testing.T) {
	outbox := NewOutbox()
	mailer, err := NewMailer("SimpleMOOC", outbox)
	require.NoError(t, err)

	require.NoError(t, mailer.Send(context.Background(), TemplateContact, "subject", nil))
	assert.Empty(t, outbox.Messages())
}

func TestUnknownTemplate(t *testing.T) {
	mailer, err := NewMailer("SimpleMOOC", NewOutbox())
	require.NoError(t, err)

	err = mailer.Send(context.Background(), "missing", "subject", nil, "ana@example.com")
	assert.Error(t, err)
}

func TestOutboxFailFor(t *testing.T) {
	outbox := NewOutbox()
	boom := errors.New("mailbox full")
	outbox.FailFor("bob@example.com", boom)

	err := outbox.Deliver(context.Background(), Message{To: []string{"bob@example.com"}})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, outbox.Deliver(context.Background(), Message{To: []string{"ana@example.com"}}))
	assert.Len(t, outbox.Messages(), 1)
}

func TestConsoleTransportLogs(t *testing.T) {
	var buf bytes.Buffer
	transport := NewConsoleTransport(logger.NewWriter("local", &buf), "noreply@example.com")

	err := transport.Deliver(context.Background(), Message{To: []string{"ana@example.com"}, Subject: "hello", Text: "body"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "subject=hello")
	assert.Contains(t, buf.String(), "ana@example.com")
}
