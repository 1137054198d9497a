package events

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/njprem/Estate_Site_BackEnd/internal/metrics"
)

type MailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Dispatcher turns events into emails. It is what the queue consumer runs for
// each delivery and what the inline fallback runs when no broker is available.
type Dispatcher struct {
	mailer     MailSender
	adminEmail string
	siteName   string
	logger     *zap.Logger
}

func NewDispatcher(mailer MailSender, adminEmail, siteName string, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if siteName == "" {
		siteName = "our site"
	}
	return &Dispatcher{mailer: mailer, adminEmail: strings.TrimSpace(adminEmail), siteName: siteName, logger: logger}
}

func (d *Dispatcher) Notify(ctx context.Context, event Event) error {
	return d.Handle(ctx, event)
}

// Handle sends every message derived from the event and joins their errors.
func (d *Dispatcher) Handle(ctx context.Context, event Event) error {
	if d.mailer == nil {
		return errors.New("dispatcher has no mailer")
	}

	var errs []error
	for _, msg := range d.messagesFor(event) {
		err := d.mailer.Send(ctx, msg.to, msg.subject, msg.body)
		metrics.Notification("email", err)
		if err != nil {
			d.logger.Warn("notification email failed",
				zap.String("kind", string(event.Kind)),
				zap.String("to", msg.to),
				zap.Error(err),
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type outgoing struct {
	to      string
	subject string
	body    string
}

func (d *Dispatcher) messagesFor(event Event) []outgoing {
	var out []outgoing
	switch event.Kind {
	case KindWebUserRegistered:
		out = append(out, outgoing{
			to:      event.Email,
			subject: fmt.Sprintf("Welcome to %s", d.siteName),
			body:    fmt.Sprintf("Hi %s,\n\nYour account is ready. You can sign in any time with a one-time code sent to this address.", event.FullName),
		})
		out = d.appendAdminNotice(out, "New user registration", event)
	case KindContactSubmitted:
		out = append(out, outgoing{
			to:      event.Email,
			subject: "We received your enquiry",
			body:    fmt.Sprintf("Hi %s,\n\nThanks for getting in touch. Our team will reply shortly.", event.FullName),
		})
		out = d.appendAdminNotice(out, "New contact enquiry", event)
	case KindJobApplicationSubmitted:
		out = append(out, outgoing{
			to:      event.Email,
			subject: "Application received",
			body:    fmt.Sprintf("Hi %s,\n\nThank you for applying for %s. We will review your CV and get back to you.", event.FullName, event.Details["job_title"]),
		})
		out = d.appendAdminNotice(out, "New job application", event)
	default:
		d.logger.Warn("unknown notification kind", zap.String("kind", string(event.Kind)))
	}
	return out
}

func (d *Dispatcher) appendAdminNotice(out []outgoing, subject string, event Event) []outgoing {
	if d.adminEmail == "" {
		return out
	}
	var body strings.Builder
	body.WriteString(fmt.Sprintf("Name: %s\nEmail: %s\n", event.FullName, event.Email))
	if event.MobileNumber != "" {
		body.WriteString(fmt.Sprintf("Mobile: %s\n", event.MobileNumber))
	}
	keys := make([]string, 0, len(event.Details))
	for k := range event.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		body.WriteString(fmt.Sprintf("%s: %s\n", k, event.Details[k]))
	}
	body.WriteString(fmt.Sprintf("Received: %s\n", event.OccurredAt.UTC().Format("2006-01-02 15:04 MST")))
	return append(out, outgoing{to: d.adminEmail, subject: subject, body: body.String()})
}
