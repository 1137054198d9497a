package events

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	sent    []sentMail
	failFor string
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, body string) error {
	if f.failFor != "" && to == f.failFor {
		return errors.New("smtp unavailable")
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

type fakeNotifier struct {
	events []Event
	err    error
}

func (f *fakeNotifier) Notify(ctx context.Context, event Event) error {
	f.events = append(f.events, event)
	return f.err
}

func (f *fakeNotifier) Handle(ctx context.Context, event Event) error {
	return f.Notify(ctx, event)
}

func registeredEvent() Event {
	return Event{
		Kind:         KindWebUserRegistered,
		OccurredAt:   time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		Email:        "buyer@example.com",
		FullName:     "Amira Haddad",
		MobileNumber: "+971500000001",
		Details:      map[string]string{"company": "Haddad Holdings"},
	}
}

func TestDispatcherRegistrationSendsWelcomeAndAdminNotice(t *testing.T) {
	mailer := &fakeMailer{}
	d := NewDispatcher(mailer, "sales@example.com", "Estate Site", nil)

	if err := d.Handle(context.Background(), registeredEvent()); err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if len(mailer.sent) != 2 {
		t.Fatalf("expected 2 emails, got %d", len(mailer.sent))
	}
	if mailer.sent[0].to != "buyer@example.com" || !strings.Contains(mailer.sent[0].subject, "Welcome to Estate Site") {
		t.Fatalf("unexpected welcome mail %+v", mailer.sent[0])
	}
	admin := mailer.sent[1]
	if admin.to != "sales@example.com" {
		t.Fatalf("expected admin notice, got %+v", admin)
	}
	for _, want := range []string{"Amira Haddad", "+971500000001", "company: Haddad Holdings"} {
		if !strings.Contains(admin.body, want) {
			t.Fatalf("admin body missing %q: %q", want, admin.body)
		}
	}
}

func TestDispatcherSkipsAdminNoticeWithoutAddress(t *testing.T) {
	mailer := &fakeMailer{}
	d := NewDispatcher(mailer, "", "", nil)
	if err := d.Handle(context.Background(), Event{Kind: KindContactSubmitted, Email: "lead@example.com", FullName: "Lead"}); err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if len(mailer.sent) != 1 || mailer.sent[0].to != "lead@example.com" {
		t.Fatalf("expected only the acknowledgement, got %+v", mailer.sent)
	}
}

func TestDispatcherReportsPartialFailure(t *testing.T) {
	mailer := &fakeMailer{failFor: "buyer@example.com"}
	d := NewDispatcher(mailer, "sales@example.com", "", nil)
	if err := d.Handle(context.Background(), registeredEvent()); err == nil {
		t.Fatal("expected joined error when welcome mail fails")
	}
	if len(mailer.sent) != 1 || mailer.sent[0].to != "sales@example.com" {
		t.Fatalf("expected admin notice to still go out, got %+v", mailer.sent)
	}
}

func TestFallbackNotifierUsesFallbackOnPublishError(t *testing.T) {
	primary := &fakeNotifier{err: errors.New("broker down")}
	fallback := &fakeNotifier{}
	n := NewFallbackNotifier(primary, fallback, nil)

	if err := n.Notify(context.Background(), registeredEvent()); err != nil {
		t.Fatalf("Notify returned error: %v", err)
	}
	if len(primary.events) != 1 || len(fallback.events) != 1 {
		t.Fatalf("expected both notifiers to see the event, got %d/%d", len(primary.events), len(fallback.events))
	}
}

func TestFallbackNotifierSkipsFallbackOnSuccess(t *testing.T) {
	primary := &fakeNotifier{}
	fallback := &fakeNotifier{}
	n := NewFallbackNotifier(primary, fallback, nil)

	if err := n.Notify(context.Background(), registeredEvent()); err != nil {
		t.Fatalf("Notify returned error: %v", err)
	}
	if len(fallback.events) != 0 {
		t.Fatal("expected fallback to stay idle")
	}
}

func TestConsumerHandleMessage(t *testing.T) {
	handler := &fakeNotifier{}
	c := NewConsumer("amqp://unused", "site.notifications", handler, nil)

	if err := c.handleMessage(context.Background(), []byte(`{"kind":"contact.submitted","email":"a@example.com"}`)); err != nil {
		t.Fatalf("handleMessage returned error: %v", err)
	}
	if len(handler.events) != 1 || handler.events[0].Kind != KindContactSubmitted {
		t.Fatalf("unexpected events %+v", handler.events)
	}
	if err := c.handleMessage(context.Background(), []byte(`not json`)); err == nil {
		t.Fatal("expected unmarshal error")
	}
	if err := c.handleMessage(context.Background(), []byte(`{"email":"a@example.com"}`)); err == nil {
		t.Fatal("expected error for event without kind")
	}
}

func TestPublisherDefersRedialAfterFailure(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	dials := 0
	p := NewPublisher("amqp://broker.invalid", "site.notifications", nil)
	p.now = func() time.Time { return now }
	p.dial = func(url string) (*amqp.Connection, error) {
		dials++
		return nil, errors.New("connection refused")
	}
	event := Event{Kind: KindContactSubmitted, Email: "buyer@example.com"}

	if err := p.Notify(context.Background(), event); err == nil || errors.Is(err, errBrokerCoolingDown) {
		t.Fatalf("expected dial error, got %v", err)
	}
	if err := p.Notify(context.Background(), event); !errors.Is(err, errBrokerCoolingDown) {
		t.Fatalf("expected cool-down error, got %v", err)
	}
	if dials != 1 {
		t.Fatalf("expected a single dial during cool-down, got %d", dials)
	}

	now = now.Add(brokerRedialAfter)
	_ = p.Notify(context.Background(), event)
	if dials != 2 {
		t.Fatalf("expected redial once the cool-down passed, got %d", dials)
	}
}

func TestFallbackNotifierDeliversInlineWhileBrokerDown(t *testing.T) {
	p := NewPublisher("amqp://broker.invalid", "site.notifications", nil)
	p.dial = func(url string) (*amqp.Connection, error) {
		return nil, errors.New("connection refused")
	}
	inline := &fakeNotifier{}
	notifier := NewFallbackNotifier(p, inline, nil)

	for i := 0; i < 3; i++ {
		if err := notifier.Notify(context.Background(), Event{Kind: KindContactSubmitted}); err != nil {
			t.Fatalf("Notify returned error: %v", err)
		}
	}
	if len(inline.events) != 3 {
		t.Fatalf("expected 3 inline deliveries, got %d", len(inline.events))
	}
}
