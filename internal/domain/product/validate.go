// internal/domain/product/validate.go
package product

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/zozagateway/snack-backend/internal/pkg/apperror"
)

// Validate checks a new product
func (in ProductInput) Validate() error {
	v := &apperror.ValidationError{}

	if utf8.RuneCountInString(strings.TrimSpace(in.Name)) < 2 {
		v.Add("name", "Product name is required")
	}
	if utf8.RuneCountInString(strings.TrimSpace(in.Description)) < 10 {
		v.Add("description", "Description must be at least 10 characters")
	}
	if !in.Price.IsPositive() {
		v.Add("price", "Price must be greater than 0")
	}
	if in.ComparePrice != nil && !in.ComparePrice.IsPositive() {
		v.Add("comparePrice", "Compare price must be greater than 0")
	}
	if in.CategoryID == 0 {
		v.Add("categoryId", "Category is required")
	}
	if in.Stock < 0 {
		v.Add("stock", "Stock cannot be negative")
	}
	validateImages(v, in.Images)

	return v.OrNil()
}

// Validate checks only the fields present in the update
func (in ProductUpdate) Validate() error {
	v := &apperror.ValidationError{}

	if in.Name != nil && utf8.RuneCountInString(strings.TrimSpace(*in.Name)) < 2 {
		v.Add("name", "Product name is required")
	}
	if in.Description != nil && utf8.RuneCountInString(strings.TrimSpace(*in.Description)) < 10 {
		v.Add("description", "Description must be at least 10 characters")
	}
	if in.Price != nil && !in.Price.IsPositive() {
		v.Add("price", "Price must be greater than 0")
	}
	if in.ComparePrice != nil && !in.ComparePrice.IsPositive() {
		v.Add("comparePrice", "Compare price must be greater than 0")
	}
	if in.CategoryID != nil && *in.CategoryID == 0 {
		v.Add("categoryId", "Category is required")
	}
	if in.Stock != nil && *in.Stock < 0 {
		v.Add("stock", "Stock cannot be negative")
	}
	validateImages(v, in.Images)

	return v.OrNil()
}

// Validate checks a category payload
func (in CategoryInput) Validate() error {
	v := &apperror.ValidationError{}

	if utf8.RuneCountInString(strings.TrimSpace(in.Name)) < 2 {
		v.Add("name", "Category name is required")
	}
	if in.Image != nil && *in.Image != "" && !isURL(*in.Image) {
		v.Add("image", "Image must be a valid URL")
	}

	return v.OrNil()
}

// Validate checks a category update
func (in CategoryUpdate) Validate() error {
	v := &apperror.ValidationError{}

	if in.Name != nil && utf8.RuneCountInString(strings.TrimSpace(*in.Name)) < 2 {
		v.Add("name", "Category name is required")
	}
	if in.Image != nil && *in.Image != "" && !isURL(*in.Image) {
		v.Add("image", "Image must be a valid URL")
	}

	return v.OrNil()
}

// Validate checks a review payload
func (in ReviewInput) Validate() error {
	if in.Rating < 1 || in.Rating > 5 {
		return apperror.NewValidation("rating", "Rating must be between 1 and 5")
	}
	return nil
}

func validateImages(v *apperror.ValidationError, images []ImageInput) {
	for _, img := range images {
		if !isURL(img.URL) {
			v.Add("images", "Every image needs a valid URL")
			return
		}
	}
}

func isURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
