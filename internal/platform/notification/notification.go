// Package notification delivers booking confirmations and cancellations
// over pluggable email/SMS senders with simple template rendering. The
// default sender only logs, so the service runs without any gateway
// configured.
package notification

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// EmailSender delivers a rendered email message.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// SMSSender delivers a rendered SMS message.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// Message carries everything the templates need about a booking.
type Message struct {
	PatientName  string
	PatientEmail string
	PatientPhone string
	DentistName  string
	Date         string
	TimeFrom     string
	TimeTo       string
}

const (
	bookedSubject = "Appointment confirmed for {{date}}"
	bookedBody    = "Dear {{patient}}, your appointment with {{dentist}} on {{date}} from {{time_from}} to {{time_to}} is confirmed."
	bookedSMS     = "Appointment with {{dentist}} confirmed for {{date}} {{time_from}}-{{time_to}}."

	cancelledSubject = "Appointment cancelled for {{date}}"
	cancelledBody    = "Dear {{patient}}, your appointment with {{dentist}} on {{date}} at {{time_from}} has been cancelled."
	cancelledSMS     = "Your appointment with {{dentist}} on {{date}} {{time_from}} was cancelled."
)

// render substitutes {{key}} placeholders. Unknown placeholders are left
// in place so a bad template is visible in the output instead of
// silently blank.
func render(tpl string, data map[string]string) string {
	out := tpl
	for k, v := range data {
		out = strings.ReplaceAll(out, "{{"+k+"}}", v)
	}
	return out
}

// Notifier fans a booking event out to email and SMS. Delivery errors
// are logged, never returned: notifications must not fail a booking
// that already committed.
type Notifier struct {
	email EmailSender
	sms   SMSSender
	log   zerolog.Logger
}

func New(email EmailSender, sms SMSSender, log zerolog.Logger) *Notifier {
	return &Notifier{email: email, sms: sms, log: log}
}

func (n *Notifier) AppointmentBooked(ctx context.Context, m Message) {
	n.dispatch(ctx, m, bookedSubject, bookedBody, bookedSMS)
}

func (n *Notifier) AppointmentCancelled(ctx context.Context, m Message) {
	n.dispatch(ctx, m, cancelledSubject, cancelledBody, cancelledSMS)
}

func (n *Notifier) dispatch(ctx context.Context, m Message, subjectTpl, bodyTpl, smsTpl string) {
	data := map[string]string{
		"patient":   m.PatientName,
		"dentist":   m.DentistName,
		"date":      m.Date,
		"time_from": m.TimeFrom,
		"time_to":   m.TimeTo,
	}

	if n.email != nil && m.PatientEmail != "" {
		subject := render(subjectTpl, data)
		body := render(bodyTpl, data)
		if err := n.email.SendEmail(ctx, m.PatientEmail, subject, body); err != nil {
			n.log.Warn().Err(err).Str("to", m.PatientEmail).Msg("email notification failed")
		}
	}
	if n.sms != nil && m.PatientPhone != "" {
		if err := n.sms.SendSMS(ctx, m.PatientPhone, render(smsTpl, data)); err != nil {
			n.log.Warn().Err(err).Str("to", m.PatientPhone).Msg("sms notification failed")
		}
	}
}

// LogSender is the default no-gateway sender. It satisfies both sender
// interfaces and just records what would have been sent.
type LogSender struct {
	Log zerolog.Logger
}

func (s LogSender) SendEmail(_ context.Context, to, subject, _ string) error {
	s.Log.Info().Str("to", to).Str("subject", subject).Msg("email (log only)")
	return nil
}

func (s LogSender) SendSMS(_ context.Context, to, body string) error {
	s.Log.Info().Str("to", to).Str("body", body).Msg("sms (log only)")
	return nil
}
