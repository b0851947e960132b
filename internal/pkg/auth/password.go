// internal/pkg/auth/password.go
package auth

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/zozagateway/snack-backend/internal/config"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	// bcrypt ignores input past this many bytes
	maxPasswordBytes = 72
)

var passwordRules = []struct {
	ok      func(rune) bool
	message string
}{
	{unicode.IsUpper, "password must contain at least one uppercase letter"},
	{unicode.IsNumber, "password must contain at least one number"},
}

// PasswordManager hashes and checks account passwords
type PasswordManager struct {
	cost int
}

// NewPasswordManager creates a password manager using the configured bcrypt cost
func NewPasswordManager(cfg *config.Config) *PasswordManager {
	cost := cfg.Security.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordManager{cost: cost}
}

// HashPassword validates then hashes a password
func (p *PasswordManager) HashPassword(password string) (string, error) {
	if err := p.ValidatePassword(password); err != nil {
		return "", err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword compares a password with its stored hash
func (p *PasswordManager) VerifyPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// NeedsRehash reports whether hash was made with a different cost than the
// one now configured. Unreadable hashes never need a rehash.
func (p *PasswordManager) NeedsRehash(hash string) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return false
	}
	return cost != p.cost
}

// ValidatePassword enforces 8 to 72 bytes with an upper-case letter and a digit
func (p *PasswordManager) ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("password must be no more than %d characters", maxPasswordBytes)
	}

	for _, rule := range passwordRules {
		if !strings.ContainsFunc(password, rule.ok) {
			return errors.New(rule.message)
		}
	}
	return nil
}
