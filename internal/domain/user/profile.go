package user

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/zozagateway/snack-backend/internal/pkg/apperror"
)

// ProfileUpdate is a partial change to the signed-in user's profile
type ProfileUpdate struct {
	Name   *string `json:"name"`
	Phone  *string `json:"phone"`
	Avatar *string `json:"avatar"`
}

// PasswordChange replaces the password after checking the current one
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Validate checks a profile update
func (u ProfileUpdate) Validate() error {
	v := &apperror.ValidationError{}
	if u.Name != nil && utf8.RuneCountInString(strings.TrimSpace(*u.Name)) < 2 {
		v.Add("name", "Name must be at least 2 characters")
	}
	if u.Phone != nil {
		if phone := strings.TrimSpace(*u.Phone); phone != "" && utf8.RuneCountInString(phone) < 10 {
			v.Add("phone", "Valid phone number is required")
		}
	}
	return v.OrNil()
}

// UpdateProfile applies the non-nil fields of update
func (s *Service) UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) (*User, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}

	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if update.Name != nil {
		updates["name"] = strings.TrimSpace(*update.Name)
	}
	if update.Phone != nil {
		updates["phone"] = strings.TrimSpace(*update.Phone)
	}
	if update.Avatar != nil {
		if avatar := strings.TrimSpace(*update.Avatar); avatar != "" {
			updates["avatar"] = avatar
		} else {
			updates["avatar"] = nil
		}
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return s.GetProfile(ctx, userID)
}

// ChangePassword verifies the current password and stores a new hash
func (s *Service) ChangePassword(ctx context.Context, userID uint, change PasswordChange) error {
	v := &apperror.ValidationError{}
	if change.CurrentPassword == "" {
		v.Add("currentPassword", "Current password is required")
	}
	if err := s.passwordManager.ValidatePassword(change.NewPassword); err != nil {
		v.Add("newPassword", capitalize(err.Error()))
	}
	if change.NewPassword != change.ConfirmPassword {
		v.Add("confirmPassword", "Passwords do not match")
	}
	if err := v.OrNil(); err != nil {
		return err
	}

	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.passwordManager.VerifyPassword(change.CurrentPassword, user.Password); err != nil {
		return apperror.NewValidation("currentPassword", "Current password is incorrect")
	}

	hashedPassword, err := s.passwordManager.HashPassword(change.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(user).Update("password", hashedPassword).Error; err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	return nil
}
