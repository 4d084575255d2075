package sms

import (
	"context"
	"database/sql"
)

// Result is what a gateway reports for an accepted message. MessageSID is the
// provider's opaque identifier; the mock sender leaves it null.
type Result struct {
	MessageSID sql.NullString
}

// Sender delivers one text message to one destination. Implementations are
// selected by configuration at construction time and injected into the
// dispatch job; the job never inspects error subtypes, any error means the
// reservation is rolled back.
type Sender interface {
	Send(ctx context.Context, to, body string) (Result, error)
}
