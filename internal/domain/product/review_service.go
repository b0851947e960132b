// internal/domain/product/review_service.go
package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zozagateway/snack-backend/internal/pkg/apperror"
	"gorm.io/gorm"
)

// ReviewService handles product reviews
type ReviewService struct {
	db *gorm.DB
}

// NewReviewService creates a new review service
func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{
		db: db,
	}
}

// ReviewInput represents the request to create a review
type ReviewInput struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Create records a user's single review of a published product
func (s *ReviewService) Create(ctx context.Context, userID uint, productSlug string, input ReviewInput) (*Review, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var product Product
	err := s.db.WithContext(ctx).Where("slug = ? AND published = ?", productSlug, true).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("product")
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}

	// Check if user has already reviewed this product
	var existing int64
	if err := s.db.WithContext(ctx).Model(&Review{}).
		Where("user_id = ? AND product_id = ?", userID, product.ID).
		Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}
	if existing > 0 {
		return nil, apperror.Conflict("you have already reviewed this product")
	}

	review := Review{
		UserID:    userID,
		ProductID: product.ID,
		Rating:    input.Rating,
	}
	if comment := strings.TrimSpace(input.Comment); comment != "" {
		review.Comment = &comment
	}

	if err := s.db.WithContext(ctx).Create(&review).Error; err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	if err := s.db.WithContext(ctx).Preload("Author").First(&review, review.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to load review: %w", err)
	}
	return &review, nil
}
