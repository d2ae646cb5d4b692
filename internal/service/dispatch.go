package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/kostenersatz/internal/lifecycle"
	"github.com/nurpe/kostenersatz/internal/mail"
	"github.com/nurpe/kostenersatz/internal/model"
)

type SendInput struct {
	To      []string
	Cc      []string
	Subject string
	Body    string
}

type SendResult struct {
	Success     bool              `json:"success"`
	EmailSentAt time.Time         `json:"emailSentAt"`
	Calculation model.Calculation `json:"calculation"`
}

// Send mails the rendered calculation and marks it sent. Any render or
// transport failure leaves the stored status as it was.
func (s *CalculationService) Send(ctx context.Context, incidentID, id uuid.UUID, input SendInput) (*SendResult, error) {
	calc, err := s.load(ctx, incidentID, id)
	if err != nil {
		return nil, err
	}
	status, err := s.machine.Fire(*calc, lifecycle.TriggerDispatch)
	if err != nil {
		s.logRejected(*calc, err)
		return nil, err
	}

	to := compactAddresses(input.To)
	if len(to) == 0 && calc.Recipient.Email != "" {
		to = []string{calc.Recipient.Email}
	}
	if len(to) == 0 {
		return nil, fmt.Errorf("%w: no recipient address", ErrInvalidInput)
	}

	doc, err := s.documentFor(ctx, *calc)
	if err != nil {
		return nil, err
	}
	pdf, err := s.renderer.Render(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: render: %w", ErrDispatchFailure, err)
	}

	subject := strings.TrimSpace(input.Subject)
	if subject == "" {
		subject = "Kostenersatz " + doc.IncidentName()
	}
	body := input.Body
	if strings.TrimSpace(body) == "" {
		body = defaultBody(doc)
	}

	msg := mail.Message{
		To:      to,
		Cc:      compactAddresses(input.Cc),
		Subject: subject,
		Body:    body,
		Headers: map[string]string{
			"X-Calculation-Id": calc.ID.String(),
			"X-Incident-Id":    calc.IncidentID.String(),
		},
		Attachments: []mail.Attachment{{
			FileName:    documentFileName(doc, "pdf"),
			ContentType: contentTypePDF,
			Content:     pdf,
		}},
	}

	log := s.log.With().
		Str("calculation_id", calc.ID.String()).
		Str("incident_id", calc.IncidentID.String()).
		Logger()
	if err := s.deliver(ctx, msg, log); err != nil {
		log.Error().Err(err).Msg("dispatch failed")
		return nil, fmt.Errorf("%w: %w", ErrDispatchFailure, err)
	}

	sentAt := s.now().UTC()
	next := calc.Clone()
	next.Status = status
	next.EmailSentAt = &sentAt
	next.UpdatedAt = sentAt
	if err := s.calcs.Save(ctx, &next); err != nil {
		return nil, s.persistErr(next, err)
	}
	log.Info().Strs("to", to).Msg("calculation sent")

	return &SendResult{Success: true, EmailSentAt: sentAt, Calculation: next}, nil
}

// deliver tries the mailer up to the configured number of attempts, each
// bounded by the dispatch timeout. It returns the last transport error.
func (s *CalculationService) deliver(ctx context.Context, msg mail.Message, log zerolog.Logger) error {
	attempts := s.dispatch.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		attemptCtx, cancel := ctx, context.CancelFunc(func() {})
		if s.dispatch.Timeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, s.dispatch.Timeout)
		}
		err := s.mailer.Send(attemptCtx, msg)
		cancel()
		if err == nil {
			return nil
		}
		lastErr = err
		log.Warn().Err(err).Int("attempt", attempt).Int("attempts", attempts).Msg("dispatch attempt failed")

		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w (last error: %v)", ctx.Err(), lastErr)
		case <-time.After(s.dispatch.RetryDelay):
		}
	}
	return lastErr
}

func compactAddresses(addresses []string) []string {
	out := make([]string, 0, len(addresses))
	for _, address := range addresses {
		if address = strings.TrimSpace(address); address != "" {
			out = append(out, address)
		}
	}
	return out
}

func defaultBody(doc model.CalculationDocument) string {
	var b strings.Builder
	name := doc.Calculation.Recipient.Name
	if name == "" {
		b.WriteString("Sehr geehrte Damen und Herren,\n\n")
	} else {
		fmt.Fprintf(&b, "Guten Tag %s,\n\n", name)
	}
	fmt.Fprintf(&b, "anbei erhalten Sie den Kostenersatz für den Einsatz \"%s\"", doc.IncidentName())
	if date := doc.IncidentDate(); !date.IsZero() {
		fmt.Fprintf(&b, " vom %s", date.Format("02.01.2006"))
	}
	fmt.Fprintf(&b, ".\nGesamtbetrag: %s EUR\n\nMit freundlichen Grüßen\nIhre Feuerwehr\n", doc.Calculation.TotalSum.StringFixed(2))
	return b.String()
}
