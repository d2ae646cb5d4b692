package mail

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	netmail "net/mail"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/kostenersatz/internal/config"
)

func TestBuild_MultipartWithAttachment(t *testing.T) {
	pdf := []byte("%PDF-1.3 fake document")
	m, err := Build(Message{
		From:    "kostenersatz@ff-musterdorf.at",
		To:      []string{"office@muster.at"},
		Cc:      []string{"kommando@ff-musterdorf.at"},
		Subject: "Kostenersatz Ölspur B17",
		Body:    "Sehr geehrte Damen und Herren,\nanbei die Kostenaufstellung.",
		Headers: map[string]string{"X-Calculation-Id": "abc"},
		Attachments: []Attachment{
			{FileName: "kostenersatz.pdf", ContentType: "application/pdf", Content: pdf},
		},
	}, time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	var raw bytes.Buffer
	_, err = m.WriteTo(&raw)
	require.NoError(t, err)

	msg, err := netmail.ReadMessage(&raw)
	require.NoError(t, err)

	to, err := msg.Header.AddressList("To")
	require.NoError(t, err)
	require.Len(t, to, 1)
	assert.Equal(t, "office@muster.at", to[0].Address)
	cc, err := msg.Header.AddressList("Cc")
	require.NoError(t, err)
	require.Len(t, cc, 1)
	assert.Equal(t, "kommando@ff-musterdorf.at", cc[0].Address)
	assert.Equal(t, "abc", msg.Header.Get("X-Calculation-Id"))

	subject, err := new(mime.WordDecoder).DecodeHeader(msg.Header.Get("Subject"))
	require.NoError(t, err)
	assert.Equal(t, "Kostenersatz Ölspur B17", subject)

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/mixed", mediaType)

	reader := multipart.NewReader(msg.Body, params["boundary"])
	body, err := reader.NextPart()
	require.NoError(t, err)
	text, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Contains(t, string(text), "anbei die Kostenaufstellung")

	attachment, err := reader.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "kostenersatz.pdf", attachment.FileName())
	encoded, err := io.ReadAll(attachment)
	require.NoError(t, err)
	content, err := base64.StdEncoding.DecodeString(string(encoded))
	require.NoError(t, err)
	assert.Equal(t, pdf, content)
}

func TestBuild_RequiresAddresses(t *testing.T) {
	_, err := Build(Message{To: []string{"a@b.at"}}, time.Now())
	assert.Error(t, err)
	_, err = Build(Message{From: "a@b.at"}, time.Now())
	assert.Error(t, err)
	_, err = Build(Message{From: "a@b.at", To: []string{"not an address"}}, time.Now())
	assert.Error(t, err)
}

func TestSMTPSender_UnconfiguredHost(t *testing.T) {
	sender := NewSMTPSender(config.SMTPConfig{}, zerolog.Nop())
	err := sender.Send(context.Background(), Message{To: []string{"a@b.at"}})
	assert.Error(t, err)
}

func TestSMTPSender_UnreachableRelay(t *testing.T) {
	sender := NewSMTPSender(config.SMTPConfig{Host: "127.0.0.1", Port: 1, From: "a@b.at"}, zerolog.Nop())
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := sender.Send(ctx, Message{To: []string{"c@d.at"}, Subject: "x", Body: "y"})
	assert.Error(t, err)
}
