package sms

import (
	"context"
	"database/sql"
	"fmt"

	domainSMS "github.com/aqsa08/training-mvp-backend/internal/domain/sms"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioSender delivers messages through the Twilio REST API.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSender(accountSID, authToken, from string) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSender{client: client, from: from}
}

func (t *TwilioSender) Send(_ context.Context, to, body string) (domainSMS.Result, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(to)
	params.SetBody(body)

	msg, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return domainSMS.Result{}, fmt.Errorf("twilio create message to %s: %w", to, err)
	}

	var sid sql.NullString
	if msg.Sid != nil {
		sid = sql.NullString{String: *msg.Sid, Valid: true}
	}
	return domainSMS.Result{MessageSID: sid}, nil
}
