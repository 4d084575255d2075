package sms

import (
	"github.com/aqsa08/training-mvp-backend/internal/domain/sms"
	"github.com/aqsa08/training-mvp-backend/internal/infra/config"

	"github.com/sirupsen/logrus"
)

// NewSenderFromConfig picks the delivery adapter once, at construction. The
// dispatch job receives whichever implementation this returns and never
// switches at runtime.
func NewSenderFromConfig(cfg *config.AppConfig, logger *logrus.Logger) sms.Sender {
	if cfg.SMSProvider == config.SMSProviderTwilio {
		return NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioNumber)
	}
	return NewMockSender(logger)
}
