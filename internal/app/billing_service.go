// internal/app/billing_service.go
package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aqsa08/training-mvp-backend/internal/domain/org"
	idb "github.com/aqsa08/training-mvp-backend/internal/infra/database"

	"github.com/sirupsen/logrus"
)

// BillingStatus is what the dashboard shows about the org's subscription.
type BillingStatus struct {
	IsPaid bool
	Plan   sql.NullString
}

// BillingService applies status-change events from the payment provider and
// answers paid-status queries. Checkout-session creation happens outside
// this service; only the resulting events flow through here.
type BillingService struct {
	orgRepo org.Repository
	logger  *logrus.Logger
}

func NewBillingService(or org.Repository, logger *logrus.Logger) *BillingService {
	return &BillingService{orgRepo: or, logger: logger}
}

func (s *BillingService) Status(ctx context.Context, orgID int64) (*BillingStatus, error) {
	o, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return &BillingStatus{IsPaid: o.IsPaid, Plan: o.Plan}, nil
}

// ApplyCheckoutCompleted activates the organization named by a completed
// checkout event.
func (s *BillingService) ApplyCheckoutCompleted(ctx context.Context, orgID int64, plan, customerID, subscriptionID sql.NullString) error {
	if err := s.orgRepo.ActivateFromCheckout(ctx, orgID, plan, customerID, subscriptionID); err != nil {
		return fmt.Errorf("failed to activate organization %d: %w", orgID, err)
	}
	s.logger.Infof("Organization %d activated from checkout", orgID)
	return nil
}

// ApplySubscriptionStatus flips is_paid based on the provider's subscription
// status. Events for unknown subscriptions are ignored: the org may have
// been created through another channel or deleted since.
func (s *BillingService) ApplySubscriptionStatus(ctx context.Context, subscriptionID, status string) error {
	o, err := s.orgRepo.GetBySubscriptionID(ctx, subscriptionID)
	if err != nil {
		if err == idb.ErrOrganizationNotFound {
			s.logger.Warnf("Subscription event for unknown subscription %s, ignoring", subscriptionID)
			return nil
		}
		return fmt.Errorf("failed to resolve subscription %s: %w", subscriptionID, err)
	}

	shouldBePaid := status == "active" || status == "trialing"
	if err := s.orgRepo.SetPaid(ctx, o.ID, shouldBePaid); err != nil {
		return fmt.Errorf("failed to update paid flag for organization %d: %w", o.ID, err)
	}
	s.logger.Infof("Organization %d is_paid set to %t (subscription status %s)", o.ID, shouldBePaid, status)
	return nil
}
