package user

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zozagateway/snack-backend/internal/pkg/apperror"
	"github.com/zozagateway/snack-backend/internal/pkg/auth"
)

func TestProfileUpdate_Validate(t *testing.T) {
	short, phone, blank := "A", "123", ""

	err := ProfileUpdate{Name: &short, Phone: &phone}.Validate()
	var verr *apperror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "phone")

	assert.NoError(t, ProfileUpdate{Phone: &blank}.Validate(), "clearing the phone is allowed")
	assert.NoError(t, ProfileUpdate{}.Validate())
}

func TestChangePassword_ValidatesBeforeLookup(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewService(db, testConfig())

	err := svc.ChangePassword(context.Background(), 7, PasswordChange{
		CurrentPassword: "",
		NewPassword:     "Crunchy123",
		ConfirmPassword: "Crunchy124",
	})

	var verr *apperror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Current password is required", verr.Fields["currentPassword"])
	assert.Equal(t, "Passwords do not match", verr.Fields["confirmPassword"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChangePassword_WrongCurrentPassword(t *testing.T) {
	cfg := testConfig()
	hash, err := auth.NewPasswordManager(cfg).HashPassword("Crunchy123")
	require.NoError(t, err)

	db, mock := newMockDB(t)
	svc := NewService(db, cfg)
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password", "role", "created_at"}).
			AddRow(7, "Ada", "ada@example.com", hash, "CUSTOMER", time.Now()))

	err = svc.ChangePassword(context.Background(), 7, PasswordChange{
		CurrentPassword: "Crunchy999",
		NewPassword:     "Plantain456",
		ConfirmPassword: "Plantain456",
	})

	var verr *apperror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Current password is incorrect", verr.Fields["currentPassword"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
