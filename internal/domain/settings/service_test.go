package settings

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zozagateway/snack-backend/internal/config"
	"github.com/zozagateway/snack-backend/internal/pkg/apperror"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	svc  *Service
	mock sqlmock.Sqlmock
	mr   *miniredis.Miniredis
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	cfg := &config.Config{}
	cfg.Store.Name = "Zoza Gateway Snacks"
	cfg.Store.Currency = "USD"
	cfg.Store.DeliveryFee = decimal.RequireFromString("3.99")
	cfg.Store.FreeDeliveryThreshold = decimal.RequireFromString("25.00")
	cfg.Store.LowStockThreshold = 10

	log := logrus.New()
	log.SetOutput(io.Discard)

	return &fixture{svc: NewService(db, client, cfg, log), mock: mock, mr: mr}
}

func TestGet_FallsBackToDefaultsAndCaches(t *testing.T) {
	f := newFixture(t)
	f.mock.ExpectQuery(`SELECT \* FROM "store_settings" WHERE "store_settings"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	first, err := f.svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Zoza Gateway Snacks", first.StoreName)
	assert.True(t, first.EmailNewOrder)
	assert.True(t, f.mr.Exists(cacheKey))
	assert.Equal(t, cacheTTL, f.mr.TTL(cacheKey))

	// served from cache: no second query is expected
	second, err := f.svc.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, second.DeliveryFee.Equal(first.DeliveryFee))
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestGet_ReadsSavedRow(t *testing.T) {
	f := newFixture(t)
	f.mock.ExpectQuery(`SELECT \* FROM "store_settings"`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "store_name", "currency", "delivery_fee", "free_delivery_threshold",
			"low_stock_threshold", "email_new_order", "email_cancelled_order", "updated_at",
		}).AddRow(1, "Snack Hut", "NGN", "1500.00", "12500.00", 5, false, true, time.Now()))

	policy := f.svc.PricingPolicy(context.Background())

	assert.True(t, policy.DeliveryFee.Equal(decimal.NewFromInt(1500)))
	assert.True(t, policy.FreeDeliveryThreshold.Equal(decimal.NewFromInt(12500)))
	assert.False(t, f.svc.Current(context.Background()).EmailNewOrder)
}

func TestCurrent_DatabaseErrorUsesDefaults(t *testing.T) {
	f := newFixture(t)
	f.mock.ExpectQuery(`SELECT \* FROM "store_settings"`).WillReturnError(assert.AnError)

	current := f.svc.Current(context.Background())

	assert.Equal(t, "USD", current.Currency)
	assert.False(t, f.mr.Exists(cacheKey))
}

func TestGet_RedisDownStillReadsDatabase(t *testing.T) {
	f := newFixture(t)
	f.mr.Close()
	f.mock.ExpectQuery(`SELECT \* FROM "store_settings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	got, err := f.svc.Get(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 10, got.LowStockThreshold)
}

func TestUpdate_SavesAndInvalidatesCache(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.mr.Set(cacheKey, `{"storeName":"stale"}`))

	f.mock.ExpectBegin()
	f.mock.ExpectQuery(`INSERT INTO "store_settings" .* ON CONFLICT \("id"\) DO UPDATE SET`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	f.mock.ExpectCommit()

	saved, err := f.svc.Update(context.Background(), UpdateRequest{
		StoreName:             "  Snack Hut ",
		Currency:              "ngn",
		DeliveryFee:           decimal.RequireFromString("1500.004"),
		FreeDeliveryThreshold: decimal.RequireFromString("12500"),
		LowStockThreshold:     5,
		EmailNewOrder:         true,
	})

	require.NoError(t, err)
	assert.Equal(t, "Snack Hut", saved.StoreName)
	assert.Equal(t, "NGN", saved.Currency)
	assert.Equal(t, "1500", saved.DeliveryFee.String())
	assert.False(t, f.mr.Exists(cacheKey))
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestUpdate_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Update(context.Background(), UpdateRequest{
		Currency:          "naira",
		DeliveryFee:       decimal.NewFromInt(-1),
		LowStockThreshold: -2,
	})

	var verr *apperror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 4)
	assert.Contains(t, verr.Fields, "storeName")
	assert.Contains(t, verr.Fields, "currency")
	assert.Contains(t, verr.Fields, "deliveryFee")
	assert.Contains(t, verr.Fields, "lowStockThreshold")
}
