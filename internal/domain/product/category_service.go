// internal/domain/product/category_service.go
package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zozagateway/snack-backend/internal/config"
	"github.com/zozagateway/snack-backend/internal/pkg/apperror"
	"github.com/zozagateway/snack-backend/internal/pkg/slug"
	"gorm.io/gorm"
)

// CategoryService handles category business logic
type CategoryService struct {
	db     *gorm.DB
	config *config.Config
}

// NewCategoryService creates a new category service
func NewCategoryService(db *gorm.DB, cfg *config.Config) *CategoryService {
	return &CategoryService{
		db:     db,
		config: cfg,
	}
}

// CategoryInput represents category creation data
type CategoryInput struct {
	Name      string  `json:"name"`
	Image     *string `json:"image"`
	SortOrder int     `json:"sortOrder"`
}

// CategoryUpdate represents category update data
type CategoryUpdate struct {
	Name      *string `json:"name"`
	Image     *string `json:"image"`
	SortOrder *int    `json:"sortOrder"`
}

// CategoryWithProductCount represents category with product count
type CategoryWithProductCount struct {
	Category
	ProductCount int64 `json:"productCount"`
}

// List returns categories in menu order. Public listings count only
// published products.
func (s *CategoryService) List(ctx context.Context, publishedOnly bool) ([]CategoryWithProductCount, error) {
	countSQL := "SELECT COUNT(*) FROM products WHERE products.category_id = categories.id AND products.deleted_at IS NULL"
	if publishedOnly {
		countSQL += " AND products.published = true"
	}

	var categories []CategoryWithProductCount
	err := s.db.WithContext(ctx).
		Model(&Category{}).
		Select("categories.*, (" + countSQL + ") AS product_count").
		Order("sort_order ASC, name ASC").
		Scan(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve categories: %w", err)
	}
	if categories == nil {
		categories = []CategoryWithProductCount{}
	}
	return categories, nil
}

// Get retrieves a category by id
func (s *CategoryService) Get(ctx context.Context, id uint) (*Category, error) {
	var category Category
	if err := s.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("category")
		}
		return nil, fmt.Errorf("failed to retrieve category: %w", err)
	}
	return &category, nil
}

// Create creates a category with a unique slug
func (s *CategoryService) Create(ctx context.Context, input CategoryInput) (*Category, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	categorySlug, err := slug.Unique(input.Name, s.slugTaken(ctx, 0))
	if err != nil {
		return nil, fmt.Errorf("failed to generate slug: %w", err)
	}

	category := Category{
		Name:      strings.TrimSpace(input.Name),
		Slug:      categorySlug,
		Image:     blankToNil(input.Image),
		SortOrder: input.SortOrder,
	}

	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &category, nil
}

// Update renames (regenerating the slug), re-images or reorders a category
func (s *CategoryService) Update(ctx context.Context, id uint, input CategoryUpdate) (*Category, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if input.Name != nil {
		categorySlug, err := slug.Unique(*input.Name, s.slugTaken(ctx, id))
		if err != nil {
			return nil, fmt.Errorf("failed to generate slug: %w", err)
		}
		updates["name"] = strings.TrimSpace(*input.Name)
		updates["slug"] = categorySlug
	}
	if input.Image != nil {
		updates["image"] = blankToNil(input.Image)
	}
	if input.SortOrder != nil {
		updates["sort_order"] = *input.SortOrder
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(category).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update category: %w", err)
		}
	}

	return s.Get(ctx, id)
}

// Delete removes an empty category
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	category, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	// archived products still hold the foreign key
	var productCount int64
	if err := s.db.WithContext(ctx).Unscoped().Model(&Product{}).Where("category_id = ?", id).Count(&productCount).Error; err != nil {
		return fmt.Errorf("failed to count category products: %w", err)
	}
	if productCount > 0 {
		return apperror.Invalid("cannot delete category %q because it has %d product(s); reassign or remove products first", category.Name, productCount)
	}

	if err := s.db.WithContext(ctx).Delete(&Category{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

func (s *CategoryService) slugTaken(ctx context.Context, exceptID uint) func(string) (bool, error) {
	return func(candidate string) (bool, error) {
		var count int64
		err := s.db.WithContext(ctx).Model(&Category{}).
			Where("slug = ? AND id <> ?", candidate, exceptID).
			Count(&count).Error
		return count > 0, err
	}
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
