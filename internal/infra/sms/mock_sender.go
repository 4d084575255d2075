package sms

import (
	"context"
	"database/sql"

	domainSMS "github.com/aqsa08/training-mvp-backend/internal/domain/sms"

	"github.com/sirupsen/logrus"
)

// MockSender logs the message instead of delivering it and reports a null
// provider id, like a gateway that accepted the message without a receipt.
// It is the default sender in development.
type MockSender struct {
	logger *logrus.Logger
}

func NewMockSender(logger *logrus.Logger) *MockSender {
	return &MockSender{logger: logger}
}

func (m *MockSender) Send(_ context.Context, to, body string) (domainSMS.Result, error) {
	m.logger.WithField("to", to).Infof("--- MOCK SMS ---\n%s\n--- END MOCK SMS ---", body)
	return domainSMS.Result{MessageSID: sql.NullString{}}, nil
}
