package notifications

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/klap2026/klap/domain"
)

// TwilioServiceImpl implements domain.SMSSender over the Twilio REST
// API. With no from-number configured it logs the message instead of
// sending, which keeps local development free of carrier credentials.
type TwilioServiceImpl struct {
	client     *twilio.RestClient
	fromNumber string
}

// NewTwilioService creates a new Twilio SMS sender.
func NewTwilioService(accountSID, authToken, fromNumber string) domain.SMSSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioServiceImpl{
		client:     client,
		fromNumber: fromNumber,
	}
}

// SendSMS implements domain.SMSSender
func (t *TwilioServiceImpl) SendSMS(to, body string) error {
	if t.fromNumber == "" {
		log.Info().Str("to", to).Str("body", body).Msg("twilio not configured, logging SMS instead")
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.fromNumber)
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	if resp.Sid != nil {
		log.Debug().Str("sid", *resp.Sid).Msg("sms dispatched")
	}
	return nil
}
