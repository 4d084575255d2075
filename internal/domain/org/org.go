package org

import (
	"database/sql"
	"time"
)

// Organization is the billing and tenant boundary. Every cohort belongs to
// exactly one organization through its learners' access-control chain; the
// dispatch and scoring core never looks at it.
type Organization struct {
	ID                   int64
	Name                 string
	ContactEmail         string
	Timezone             string
	Plan                 sql.NullString
	IsPaid               bool
	StripeCustomerID     sql.NullString
	StripeSubscriptionID sql.NullString
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// AdminUser is a dashboard login scoped to one organization.
type AdminUser struct {
	ID             int64
	Email          string
	PasswordHash   string
	OrganizationID sql.NullInt64
	CreatedAt      time.Time
}

// DemoRequest is a public lead-capture record.
type DemoRequest struct {
	ID        int64
	Name      string
	Email     string
	Company   sql.NullString
	Message   sql.NullString
	CreatedAt time.Time
}
