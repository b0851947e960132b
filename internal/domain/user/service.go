// internal/domain/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/zozagateway/snack-backend/internal/config"
	"github.com/zozagateway/snack-backend/internal/pkg/apperror"
	"github.com/zozagateway/snack-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

// Service handles registration, sign-in and profiles
type Service struct {
	db              *gorm.DB
	config          *config.Config
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:              db,
		config:          cfg,
		passwordManager: auth.NewPasswordManager(cfg),
		jwtManager:      auth.NewJWTManager(cfg),
	}
}

// RegisterRequest represents user registration data
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// LoginRequest represents user login data
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User        *User  `json:"user"`
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// Validate checks a registration request
func (r RegisterRequest) Validate(pm *auth.PasswordManager) error {
	v := &apperror.ValidationError{}

	if utf8.RuneCountInString(strings.TrimSpace(r.Name)) < 2 {
		v.Add("name", "Name must be at least 2 characters")
	}
	if !validEmail(r.Email) {
		v.Add("email", "Invalid email address")
	}
	if err := pm.ValidatePassword(r.Password); err != nil {
		v.Add("password", capitalize(err.Error()))
	}

	return v.OrNil()
}

// Validate checks a sign-in request
func (r LoginRequest) Validate() error {
	v := &apperror.ValidationError{}
	if !validEmail(r.Email) {
		v.Add("email", "Invalid email address")
	}
	if r.Password == "" {
		v.Add("password", "Password is required")
	}
	return v.OrNil()
}

// Register creates a customer account and signs it in
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := req.Validate(s.passwordManager); err != nil {
		return nil, err
	}

	email := NormalizeEmail(req.Email)
	var existing int64
	if err := s.db.WithContext(ctx).Unscoped().Model(&User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing > 0 {
		return nil, apperror.Conflict("an account with this email already exists")
	}

	hashedPassword, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: hashedPassword,
		Phone:    strings.TrimSpace(req.Phone),
		Role:     auth.RoleCustomer,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issue(&user)
}

// Login authenticates a user by email and password
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var user User
	err := s.db.WithContext(ctx).Where("email = ?", NormalizeEmail(req.Email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invalid email or password", apperror.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.passwordManager.VerifyPassword(req.Password, user.Password); err != nil {
		return nil, fmt.Errorf("%w: invalid email or password", apperror.ErrUnauthorized)
	}

	// upgrade hashes made under an older bcrypt cost; a failure here must not block sign-in
	if s.passwordManager.NeedsRehash(user.Password) {
		if hashed, err := s.passwordManager.HashPassword(req.Password); err == nil {
			s.db.WithContext(ctx).Model(&user).Update("password", hashed)
		}
	}

	return s.issue(&user)
}

// GetProfile gets user profile by ID
func (s *Service) GetProfile(ctx context.Context, userID uint) (*User, error) {
	var user User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user")
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return &user, nil
}

// EnsureAdmin creates the admin account when it does not exist yet. An
// existing account with that email is promoted.
func (s *Service) EnsureAdmin(ctx context.Context, email, password, name string) (*User, error) {
	email = NormalizeEmail(email)

	var user User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	switch {
	case err == nil:
		if !user.IsAdmin() {
			if err := s.db.WithContext(ctx).Model(&user).Update("role", auth.RoleAdmin).Error; err != nil {
				return nil, fmt.Errorf("failed to promote admin: %w", err)
			}
		}
		return &user, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("failed to look up admin: %w", err)
	}

	hashedPassword, err := s.passwordManager.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("invalid seed admin password: %w", err)
	}

	if strings.TrimSpace(name) == "" {
		name = "Admin"
	}
	user = User{
		Name:     name,
		Email:    email,
		Password: hashedPassword,
		Role:     auth.RoleAdmin,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}
	return &user, nil
}

func (s *Service) issue(user *User) (*AuthResponse, error) {
	token, err := s.jwtManager.GenerateToken(user.ID, user.Email, user.Name, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &AuthResponse{
		User:        user,
		AccessToken: token,
		ExpiresIn:   s.jwtManager.ExpiresIn(),
	}, nil
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	return err == nil && addr.Address == strings.TrimSpace(email) && strings.Contains(addr.Address, ".")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
