// internal/infra/database/postgres_org_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aqsa08/training-mvp-backend/internal/domain/org"
)

// Custom errors
var ErrOrganizationNotFound = fmt.Errorf("organization not found")
var ErrAdminUserNotFound = fmt.Errorf("admin user not found")

type PostgresOrgRepository struct {
	db *sql.DB
}

func NewPostgresOrgRepository(db *sql.DB) *PostgresOrgRepository {
	return &PostgresOrgRepository{db: db}
}

func (r *PostgresOrgRepository) GetByID(ctx context.Context, id int64) (*org.Organization, error) {
	query := `SELECT id, name, contact_email, timezone, plan, is_paid,
                      stripe_customer_id, stripe_subscription_id, created_at, updated_at
               FROM organizations WHERE id = $1`
	o := org.Organization{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&o.ID, &o.Name, &o.ContactEmail, &o.Timezone, &o.Plan, &o.IsPaid,
		&o.StripeCustomerID, &o.StripeSubscriptionID, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("error getting organization by ID: %w", err)
	}
	return &o, nil
}

func (r *PostgresOrgRepository) GetBySubscriptionID(ctx context.Context, subscriptionID string) (*org.Organization, error) {
	query := `SELECT id, name, contact_email, timezone, plan, is_paid,
                      stripe_customer_id, stripe_subscription_id, created_at, updated_at
               FROM organizations WHERE stripe_subscription_id = $1 LIMIT 1`
	o := org.Organization{}
	err := r.db.QueryRowContext(ctx, query, subscriptionID).Scan(
		&o.ID, &o.Name, &o.ContactEmail, &o.Timezone, &o.Plan, &o.IsPaid,
		&o.StripeCustomerID, &o.StripeSubscriptionID, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("error getting organization by subscription ID: %w", err)
	}
	return &o, nil
}

func (r *PostgresOrgRepository) UpdateProfile(ctx context.Context, id int64, name, contactEmail, timezone string) (*org.Organization, error) {
	query := `UPDATE organizations
               SET name = $1,
                   contact_email = $2,
                   timezone = $3,
                   updated_at = NOW()
               WHERE id = $4
               RETURNING id, name, contact_email, timezone, plan, is_paid,
                         stripe_customer_id, stripe_subscription_id, created_at, updated_at`
	o := org.Organization{}
	err := r.db.QueryRowContext(ctx, query, name, contactEmail, timezone, id).Scan(
		&o.ID, &o.Name, &o.ContactEmail, &o.Timezone, &o.Plan, &o.IsPaid,
		&o.StripeCustomerID, &o.StripeSubscriptionID, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("error updating organization profile: %w", err)
	}
	return &o, nil
}

// ActivateFromCheckout marks the org paid. COALESCE keeps the stored value
// wherever the checkout event carries none.
func (r *PostgresOrgRepository) ActivateFromCheckout(ctx context.Context, id int64, plan, customerID, subscriptionID sql.NullString) error {
	query := `UPDATE organizations
               SET is_paid = TRUE,
                   plan = COALESCE($2, plan),
                   stripe_customer_id = COALESCE($3, stripe_customer_id),
                   stripe_subscription_id = COALESCE($4, stripe_subscription_id),
                   updated_at = NOW()
               WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, plan, customerID, subscriptionID)
	if err != nil {
		return fmt.Errorf("error activating organization %d from checkout: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrOrganizationNotFound
	}
	return nil
}

func (r *PostgresOrgRepository) SetPaid(ctx context.Context, id int64, paid bool) error {
	query := `UPDATE organizations
               SET is_paid = $2,
                   updated_at = NOW()
               WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, paid)
	if err != nil {
		return fmt.Errorf("error setting is_paid on organization %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrOrganizationNotFound
	}
	return nil
}

func (r *PostgresOrgRepository) GetAdminByEmail(ctx context.Context, email string) (*org.AdminUser, error) {
	query := `SELECT id, email, password_hash, organization_id, created_at
               FROM admin_users
               WHERE email = $1
               LIMIT 1`
	a := org.AdminUser{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&a.ID, &a.Email, &a.PasswordHash, &a.OrganizationID, &a.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAdminUserNotFound
		}
		return nil, fmt.Errorf("error getting admin user by email: %w", err)
	}
	return &a, nil
}

func (r *PostgresOrgRepository) CreateDemoRequest(ctx context.Context, dr *org.DemoRequest) error {
	query := `INSERT INTO demo_requests (name, email, company, message)
               VALUES ($1, $2, $3, $4)
               RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, dr.Name, dr.Email, dr.Company, dr.Message).Scan(&dr.ID, &dr.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating demo request: %w", err)
	}
	return nil
}
