package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zozagateway/snack-backend/internal/pkg/apperror"
	"github.com/zozagateway/snack-backend/internal/pkg/pagination"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockRepository(t *testing.T) (*GormRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewGormRepository(db), mock
}

var orderColumns = []string{"id", "order_number", "user_id", "status", "payment_status", "delivery_type", "subtotal", "delivery_fee", "discount", "total", "phone"}

func pendingOrderRow() *sqlmock.Rows {
	return sqlmock.NewRows(orderColumns).
		AddRow(5, "ZG-LX2K1-AB12", 7, "PENDING", "PENDING", "DELIVERY", "11.47", "3.99", "0", "15.46", "+2348012345678")
}

func orderItemRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "order_id", "product_id", "product_name", "quantity", "unit_price", "total_price"}).
		AddRow(1, 5, 1, "Sea Salt Crisps", 2, "3.49", "6.98").
		AddRow(2, 5, 2, "Dark Chocolate Bar", 1, "4.49", "4.49")
}

func TestGormUpdate_ReplayedEventChangesNothing(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "processed_webhook_events" .* ON CONFLICT DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	called := false
	_, err := repo.Update(context.Background(), 5, &ProcessedEvent{EventID: "evt_1", EventType: "payment_intent.succeeded"}, func(o *Order) (*TimelineEntry, error) {
		called = true
		return nil, nil
	})

	assert.ErrorIs(t, err, ErrDuplicateEvent)
	assert.False(t, called, "mutation must not run for a replayed event")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUpdate_FailedMutationRollsBack(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE "orders"."id" = \$1 .*FOR UPDATE`).
		WillReturnRows(pendingOrderRow())
	mock.ExpectQuery(`SELECT \* FROM "order_items" WHERE order_id = \$1`).
		WillReturnRows(orderItemRows())
	mock.ExpectRollback()

	_, err := repo.Update(context.Background(), 5, nil, func(o *Order) (*TimelineEntry, error) {
		return o.Transition(StatusDelivered, "", nil, time.Now())
	})

	assert.ErrorIs(t, err, apperror.ErrValidation)
	// no order update and no timeline insert were issued
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUpdate_MissingOrder(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE "orders"."id" = \$1 .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(orderColumns))
	mock.ExpectRollback()

	_, err := repo.Update(context.Background(), 404, nil, func(o *Order) (*TimelineEntry, error) {
		return nil, nil
	})

	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCreate_InsufficientStockRollsBack(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "products" SET "stock"=stock - \$1 WHERE .*stock >= \$3`).
		WithArgs(3, 1, 3).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	promoID := uint(1)
	err := repo.Create(context.Background(), &Order{
		OrderNumber: "ZG-LX2K1-CD34",
		UserID:      7,
		Items:       []OrderItem{{ProductID: 1, ProductName: "Sea Salt Crisps", Quantity: 3}},
	}, &promoID)

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrValidation))
	assert.Contains(t, err.Error(), "insufficient stock for Sea Salt Crisps")
	// neither the promo usage nor the order row were written
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUpdate_CancelRestoresStock(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.MatchExpectationsInOrder(false)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE "orders"."id" = \$1 .*FOR UPDATE`).
		WillReturnRows(pendingOrderRow())
	mock.ExpectQuery(`SELECT \* FROM "order_items" WHERE order_id = \$1`).
		WillReturnRows(orderItemRows())
	mock.ExpectExec(`UPDATE "orders" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "order_timeline"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
	mock.ExpectExec(`UPDATE "products" SET "stock"=stock \+ \$1`).
		WithArgs(2, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "products" SET "stock"=stock \+ \$1`).
		WithArgs(1, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE "orders"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow(5, "ZG-LX2K1-AB12", 7, "CANCELLED", "PENDING", "DELIVERY", "11.47", "3.99", "0", "15.46", "+2348012345678"))
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "phone"}).AddRow(7, "Ada", "ada@example.com", ""))
	mock.ExpectQuery(`SELECT \* FROM "order_items"`).
		WillReturnRows(orderItemRows())
	mock.ExpectQuery(`SELECT \* FROM "order_timeline"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "status"}).
			AddRow(8, 5, "PENDING").
			AddRow(9, 5, "CANCELLED"))

	customer := uint(7)
	o, err := repo.Update(context.Background(), 5, nil, func(o *Order) (*TimelineEntry, error) {
		return o.Transition(StatusCancelled, "Cancelled by customer", &customer, time.Now())
	})

	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, o.Status)
	assert.Len(t, o.Timeline, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormList_SearchIsLiteral(t *testing.T) {
	repo, mock := newMockRepository(t)

	escaped := `%ZG\_1\%%`
	mock.ExpectQuery(`SELECT count\(\*\) FROM "orders" WHERE \(orders.order_number ILIKE \$1`).
		WithArgs(escaped, escaped, escaped).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT \* FROM "orders"`).
		WillReturnRows(sqlmock.NewRows(orderColumns))

	orders, total, err := repo.List(context.Background(), ListFilter{
		Search: " ZG_1% ",
		Paging: pagination.Params{Page: 1, Limit: 20},
	})

	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, orders)
	assert.NoError(t, mock.ExpectationsWereMet())
}
