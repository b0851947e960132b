package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zozagateway/snack-backend/internal/domain/product"
	"github.com/zozagateway/snack-backend/internal/pkg/apperror"
)

type fakeLookup struct {
	products map[uint]product.Product
	err      error
}

func (f fakeLookup) GetPublishedByIDs(_ context.Context, ids []uint) (map[uint]product.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[uint]product.Product)
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func catalog() fakeLookup {
	return fakeLookup{products: map[uint]product.Product{
		1: {ID: 1, Name: "Sea Salt Crisps", Price: decimal.RequireFromString("3.49"), Stock: 10},
		2: {ID: 2, Name: "Dark Chocolate Bar", Price: decimal.RequireFromString("4.99"), Stock: 1},
	}}
}

func TestValidator_AllAvailable(t *testing.T) {
	v := NewValidator(catalog())

	res, err := v.Validate(context.Background(), ValidateRequest{Items: []LineRequest{
		{ProductID: 1, Quantity: 3},
		{ProductID: 2, Quantity: 1},
	}})

	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
	require.Len(t, res.Items, 2)
	assert.True(t, res.Items[0].TotalPrice.Equal(decimal.RequireFromString("10.47")))
	assert.True(t, res.Items[1].Available)
}

func TestValidator_InsufficientStock(t *testing.T) {
	v := NewValidator(catalog())

	res, err := v.Validate(context.Background(), ValidateRequest{Items: []LineRequest{
		{ProductID: 2, Quantity: 2},
	}})

	require.NoError(t, err)
	assert.False(t, res.Valid)
	require.Len(t, res.Items, 1)
	assert.False(t, res.Items[0].Available)
	assert.Contains(t, res.Errors[0], "Dark Chocolate Bar")
}

func TestValidator_UnknownProduct(t *testing.T) {
	v := NewValidator(catalog())

	res, err := v.Validate(context.Background(), ValidateRequest{Items: []LineRequest{
		{ProductID: 99, Quantity: 1},
	}})

	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Empty(t, res.Items)
	assert.Len(t, res.Errors, 1)
}

func TestValidator_RejectsMalformedRequest(t *testing.T) {
	v := NewValidator(catalog())

	_, err := v.Validate(context.Background(), ValidateRequest{})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = v.Validate(context.Background(), ValidateRequest{Items: []LineRequest{{ProductID: 1, Quantity: 0}}})
	var verr *apperror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "items[0].quantity")
}

func TestValidator_LookupFailure(t *testing.T) {
	v := NewValidator(fakeLookup{err: errors.New("db down")})

	_, err := v.Validate(context.Background(), ValidateRequest{Items: []LineRequest{{ProductID: 1, Quantity: 1}}})

	require.Error(t, err)
	assert.NotErrorIs(t, err, apperror.ErrValidation)
}

func TestSnapshot(t *testing.T) {
	p := product.Product{
		ID:    5,
		Name:  "Trail Mix",
		Slug:  "trail-mix",
		Price: decimal.RequireFromString("5.25"),
		Stock: 8,
		Images: []product.ProductImage{
			{URL: "https://cdn.example.com/b.jpg", Position: 1},
			{URL: "https://cdn.example.com/a.jpg", Position: 0},
		},
	}

	snap := Snapshot(p)

	assert.Equal(t, "https://cdn.example.com/a.jpg", snap.Image)
	assert.Equal(t, "trail-mix", snap.Slug)
}
