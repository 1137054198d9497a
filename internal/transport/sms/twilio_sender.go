package sms

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioSender delivers one-time codes by SMS alongside the email channel.
type TwilioSender struct {
	api  messageCreator
	from string
}

func NewTwilioSender(accountSID, authToken, fromNumber string) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSender{api: client.Api, from: strings.TrimSpace(fromNumber)}
}

func (s *TwilioSender) SendSMS(ctx context.Context, to, body string) error {
	if s == nil || s.api == nil || s.from == "" {
		return errors.New("sms sender not configured")
	}
	to = strings.TrimSpace(to)
	if to == "" {
		return errors.New("sms recipient is empty")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	if _, err := s.api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	return nil
}

func (s *TwilioSender) SendOneTimeCode(ctx context.Context, mobileNumber, code, purpose string, ttl time.Duration) error {
	body := fmt.Sprintf("Your %s code is %s. It expires in %d minutes.", purpose, code, int(ttl.Round(time.Minute)/time.Minute))
	return s.SendSMS(ctx, mobileNumber, body)
}
