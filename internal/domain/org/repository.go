package org

import (
	"context"
	"database/sql"
)

// Repository defines persistence for organizations and their admin logins.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Organization, error)
	GetBySubscriptionID(ctx context.Context, subscriptionID string) (*Organization, error)
	UpdateProfile(ctx context.Context, id int64, name, contactEmail, timezone string) (*Organization, error)
	// ActivateFromCheckout marks the org paid, keeping existing values where
	// the event carries none (plan, customer id, subscription id).
	ActivateFromCheckout(ctx context.Context, id int64, plan, customerID, subscriptionID sql.NullString) error
	SetPaid(ctx context.Context, id int64, paid bool) error

	GetAdminByEmail(ctx context.Context, email string) (*AdminUser, error)

	CreateDemoRequest(ctx context.Context, dr *DemoRequest) error
}
