package services

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// AdminSubject is the token subject issued to the export administrator.
const AdminSubject = "admin"

type TokenSigner func(subject string, ttl time.Duration) (string, error)

// AdminAuthService guards the CSV download endpoints with a single shared
// admin password.
type AdminAuthService struct {
	passHash  []byte
	signToken TokenSigner
	tokenTTL  time.Duration
}

type AuthResult struct {
	Token     string
	ExpiresIn time.Duration
}

// NewAdminAuthService takes a bcrypt hash of the admin password. An empty
// hash disables admin login.
func NewAdminAuthService(passHash []byte, signer TokenSigner) *AdminAuthService {
	return &AdminAuthService{
		passHash:  passHash,
		signToken: signer,
		tokenTTL:  12 * time.Hour,
	}
}

// HashPassword bcrypt-hashes a plain admin password; empty input yields nil.
func HashPassword(password string) ([]byte, error) {
	if password == "" {
		return nil, nil
	}
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

func (s *AdminAuthService) Login(password string) (*AuthResult, error) {
	if len(s.passHash) == 0 {
		return nil, NewForbiddenError("admin login disabled")
	}
	if strings.TrimSpace(password) == "" {
		return nil, NewInvalidError("password required")
	}
	if err := bcrypt.CompareHashAndPassword(s.passHash, []byte(password)); err != nil {
		return nil, NewUnauthorizedError("invalid credentials")
	}
	if s.signToken == nil {
		return nil, NewInvalidError("token signer not configured")
	}
	token, err := s.signToken(AdminSubject, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, ExpiresIn: s.tokenTTL}, nil
}

func (s *AdminAuthService) TokenTTL() time.Duration {
	return s.tokenTTL
}
