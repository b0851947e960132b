// internal/domain/user/entity.go
package user

import (
	"strings"
	"time"

	"github.com/zozagateway/snack-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

// User represents the user entity
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null;size:100" json:"name"`
	Email     string         `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Password  string         `gorm:"not null;size:255" json:"-"`
	Phone     string         `gorm:"not null;size:30;default:''" json:"phone"`
	Avatar    *string        `gorm:"size:500" json:"avatar"`
	Role      string         `gorm:"not null;size:20;default:'CUSTOMER';index" json:"role"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// BeforeCreate normalizes the email and defaults the role
func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.Email = NormalizeEmail(u.Email)
	if u.Role == "" {
		u.Role = auth.RoleCustomer
	}
	return nil
}

// IsAdmin reports whether the user may use the back-office
func (u *User) IsAdmin() bool {
	return u.Role == auth.RoleAdmin
}

// NormalizeEmail lower-cases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
