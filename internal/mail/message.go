package mail

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	gomail "github.com/wneessen/go-mail"
)

type Attachment struct {
	FileName    string
	ContentType string
	Content     []byte
}

type Message struct {
	From        string
	To          []string
	Cc          []string
	Subject     string
	Body        string
	Headers     map[string]string
	Attachments []Attachment
}

func (m Message) Recipients() []string {
	out := make([]string, 0, len(m.To)+len(m.Cc))
	out = append(out, m.To...)
	out = append(out, m.Cc...)
	return out
}

// Build turns msg into a go-mail message with a plain text body and the
// attachments appended in order.
func Build(msg Message, date time.Time) (*gomail.Msg, error) {
	if msg.From == "" {
		return nil, fmt.Errorf("sender address is required")
	}
	if len(msg.To) == 0 {
		return nil, fmt.Errorf("at least one recipient is required")
	}

	m := gomail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	if err := m.To(msg.To...); err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}
	if len(msg.Cc) > 0 {
		if err := m.Cc(msg.Cc...); err != nil {
			return nil, fmt.Errorf("cc: %w", err)
		}
	}
	m.Subject(msg.Subject)
	m.SetDateWithValue(date)

	keys := make([]string, 0, len(msg.Headers))
	for k := range msg.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		m.SetGenHeader(gomail.Header(k), msg.Headers[k])
	}

	m.SetBodyString(gomail.TypeTextPlain, msg.Body)
	for _, att := range msg.Attachments {
		contentType := att.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		m.AttachReadSeeker(att.FileName, bytes.NewReader(att.Content),
			gomail.WithFileContentType(gomail.ContentType(contentType)))
	}
	return m, nil
}
