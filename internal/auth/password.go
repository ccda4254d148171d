package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid name or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

// Operator is the authenticated principal. The dashboard has a single
// operator account configured at startup.
type Operator struct {
	Name string
}

// Authenticator verifies operator credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, name, credential string) (*Operator, error)
}

// PasswordAuthenticator checks a name and password against one configured
// operator whose password is stored as a bcrypt hash.
type PasswordAuthenticator struct {
	name         string
	passwordHash []byte
}

// NewPasswordAuthenticator creates an authenticator for a single operator.
func NewPasswordAuthenticator(name, passwordHash string) *PasswordAuthenticator {
	return &PasswordAuthenticator{
		name:         name,
		passwordHash: []byte(passwordHash),
	}
}

// Authenticate verifies the name and password, returning the operator if valid.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, name, credential string) (*Operator, error) {
	nameOK := subtle.ConstantTimeCompare([]byte(name), []byte(a.name)) == 1

	// Compare password hash even for a wrong name so timing does not reveal it.
	if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(credential)); err != nil || !nameOK {
		return nil, ErrInvalidCredentials
	}

	return &Operator{Name: a.name}, nil
}

// HashPassword returns the bcrypt hash to configure as OPERATOR_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", ErrWeakPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}
