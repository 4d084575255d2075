// internal/app/org_service.go
package app

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/aqsa08/training-mvp-backend/internal/domain/org"
)

// Custom application-level errors for org profile handling
var ErrOrgNameRequired = fmt.Errorf("organization name is required")
var ErrContactEmailRequired = fmt.Errorf("contact email is required")
var ErrInvalidEmailFormat = fmt.Errorf("invalid email format")

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// OrgService covers the organization profile and public lead intake.
type OrgService struct {
	orgRepo org.Repository
}

func NewOrgService(or org.Repository) *OrgService {
	return &OrgService{orgRepo: or}
}

func (s *OrgService) GetProfile(ctx context.Context, orgID int64) (*org.Organization, error) {
	return s.orgRepo.GetByID(ctx, orgID)
}

func (s *OrgService) UpdateProfile(ctx context.Context, orgID int64, name, contactEmail, timezone string) (*org.Organization, error) {
	name = strings.TrimSpace(name)
	contactEmail = strings.ToLower(strings.TrimSpace(contactEmail))
	timezone = strings.TrimSpace(timezone)

	if name == "" {
		return nil, ErrOrgNameRequired
	}
	if contactEmail == "" {
		return nil, ErrContactEmailRequired
	}
	if !emailPattern.MatchString(contactEmail) {
		return nil, ErrInvalidEmailFormat
	}

	return s.orgRepo.UpdateProfile(ctx, orgID, name, contactEmail, timezone)
}

// CreateDemoRequest records a public demo-request lead.
func (s *OrgService) CreateDemoRequest(ctx context.Context, name, email, company, message string) error {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" {
		return ErrOrgNameRequired
	}
	if email == "" {
		return ErrContactEmailRequired
	}

	dr := &org.DemoRequest{
		Name:  name,
		Email: email,
	}
	if company = strings.TrimSpace(company); company != "" {
		dr.Company = sql.NullString{String: company, Valid: true}
	}
	if message = strings.TrimSpace(message); message != "" {
		dr.Message = sql.NullString{String: message, Valid: true}
	}

	return s.orgRepo.CreateDemoRequest(ctx, dr)
}
