// internal/app/auth_service.go
package app

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/aqsa08/training-mvp-backend/internal/domain/org"
	idb "github.com/aqsa08/training-mvp-backend/internal/infra/database"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Custom application-level errors for authentication
var ErrInvalidCredentials = fmt.Errorf("invalid email or password")
var ErrInvalidToken = fmt.Errorf("invalid or expired token")

const tokenValidity = 7 * 24 * time.Hour

// AuthClaims is the JWT payload issued to dashboard admins.
type AuthClaims struct {
	AdminID        int64  `json:"adminId"`
	OrganizationID *int64 `json:"organizationId"`
	jwt.RegisteredClaims
}

// LoginResult carries the issued token plus the admin identity for the
// client.
type LoginResult struct {
	Token          string
	AdminID        int64
	Email          string
	OrganizationID sql.NullInt64
}

// AuthService issues and verifies admin tokens.
type AuthService struct {
	orgRepo   org.Repository
	jwtSecret []byte
}

func NewAuthService(or org.Repository, jwtSecret string) *AuthService {
	return &AuthService{orgRepo: or, jwtSecret: []byte(jwtSecret)}
}

// Login verifies the admin's password and returns a signed 7-day token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	admin, err := s.orgRepo.GetAdminByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if err == idb.ErrAdminUserNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up admin user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.SignToken(admin)
	if err != nil {
		return nil, fmt.Errorf("failed to sign auth token: %w", err)
	}

	return &LoginResult{
		Token:          token,
		AdminID:        admin.ID,
		Email:          admin.Email,
		OrganizationID: admin.OrganizationID,
	}, nil
}

// SignToken issues a token for the given admin.
func (s *AuthService) SignToken(admin *org.AdminUser) (string, error) {
	var orgID *int64
	if admin.OrganizationID.Valid {
		v := admin.OrganizationID.Int64
		orgID = &v
	}

	now := time.Now()
	claims := AuthClaims{
		AdminID:        admin.ID,
		OrganizationID: orgID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenValidity)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

// VerifyToken parses and validates a bearer token.
func (s *AuthService) VerifyToken(tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
