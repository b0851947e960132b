package user

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zozagateway/snack-backend/internal/pkg/apperror"
)

func TestListCustomers_ComputesTotals(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewAdminService(db, testConfig())
	now := time.Now()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE role = \$1 AND \(name ILIKE \$2 OR email ILIKE \$3 OR phone ILIKE \$4\)`).
		WithArgs("CUSTOMER", "%ada%", "%ada%", "%ada%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE role = \$1 AND .* ORDER BY created_at DESC LIMIT \$5`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "phone", "role", "created_at"}).
			AddRow(3, "Ada Obi", "ada@example.com", "08012345678", "CUSTOMER", now).
			AddRow(5, "Adaeze Eze", "adaeze@example.com", "", "CUSTOMER", now))
	mock.ExpectQuery(`SELECT\s+user_id,.*FROM orders\s+WHERE user_id IN \(\$1,\$2\)\s+GROUP BY user_id`).
		WithArgs(3, 5).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "order_count", "total_spent", "last_order_at"}).
			AddRow(3, 4, "57.3350", now))

	page, err := svc.ListCustomers(context.Background(), CustomerListParams{Search: " ada "})

	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, 20, page.Limit)
	require.Len(t, page.Data, 2)

	assert.Equal(t, int64(4), page.Data[0].OrderCount)
	assert.True(t, page.Data[0].TotalSpent.Equal(decimal.RequireFromString("57.34")), page.Data[0].TotalSpent.String())
	assert.Equal(t, int64(0), page.Data[1].OrderCount)
	assert.True(t, page.Data[1].TotalSpent.IsZero())
	assert.Nil(t, page.Data[1].LastOrderAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCustomers_SearchIsLiteral(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewAdminService(db, testConfig())

	escaped := `%a\_b\%%`
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
		WithArgs("CUSTOMER", escaped, escaped, escaped).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.ListCustomers(context.Background(), CustomerListParams{Search: "a_b%"})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCustomers_EmptyPageSkipsAggregate(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewAdminService(db, testConfig())

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	limit := 500
	page, err := svc.ListCustomers(context.Background(), CustomerListParams{Page: 3, Limit: &limit})

	require.NoError(t, err)
	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
	assert.Equal(t, 50, page.Limit)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCustomer_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewAdminService(db, testConfig())

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE role = \$1 AND "users"."id" = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.GetCustomer(context.Background(), 99)

	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
