// internal/domain/product/service.go
package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/zozagateway/snack-backend/internal/config"
	"github.com/zozagateway/snack-backend/internal/pkg/apperror"
	"github.com/zozagateway/snack-backend/internal/pkg/pagination"
	"github.com/zozagateway/snack-backend/internal/pkg/slug"
	"gorm.io/gorm"
)

// Service handles product business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new product service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ProductDetail is a product with its computed rating summary
type ProductDetail struct {
	Product
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int     `json:"reviewCount"`
}

// ImageInput describes one gallery image; position follows slice order
type ImageInput struct {
	URL      string `json:"url" binding:"required"`
	PublicID string `json:"publicId"`
}

// ProductInput represents product creation data
type ProductInput struct {
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Price        decimal.Decimal  `json:"price"`
	ComparePrice *decimal.Decimal `json:"comparePrice"`
	CategoryID   uint             `json:"categoryId"`
	Stock        int              `json:"stock"`
	SKU          string           `json:"sku"`
	Tags         []string         `json:"tags"`
	Dietary      []string         `json:"dietary"`
	Published    bool             `json:"published"`
	Featured     bool             `json:"featured"`
	Images       []ImageInput     `json:"images"`
}

// ProductUpdate represents a partial product update
type ProductUpdate struct {
	Name         *string          `json:"name"`
	Description  *string          `json:"description"`
	Price        *decimal.Decimal `json:"price"`
	ComparePrice *decimal.Decimal `json:"comparePrice"`
	CategoryID   *uint            `json:"categoryId"`
	Stock        *int             `json:"stock"`
	SKU          *string          `json:"sku"`
	Tags         []string         `json:"tags"`
	Dietary      []string         `json:"dietary"`
	Published    *bool            `json:"published"`
	Featured     *bool            `json:"featured"`
	Images       []ImageInput     `json:"images"`
}

// AdminListParams represents the admin product list filters
type AdminListParams struct {
	Page       int    `form:"page"`
	Limit      *int   `form:"limit"`
	CategoryID uint   `form:"category"`
	Search     string `form:"search"`
	Published  string `form:"published"`
}

// ListCatalog returns one page of published products
func (s *Service) ListCatalog(ctx context.Context, q CatalogQuery) (*pagination.Page[Product], error) {
	base := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&Product{}).Scopes(q.Filters()...)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	var products []Product
	err := base().
		Scopes(q.Ordering()).
		Preload("Category").
		Preload("Images", orderImages).
		Offset(q.Paging.Offset()).
		Limit(q.Paging.Limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	return pagination.New(products, total, q.Paging), nil
}

// GetBySlug retrieves a published product with category, images and reviews
func (s *Service) GetBySlug(ctx context.Context, productSlug string) (*ProductDetail, error) {
	var product Product
	result := s.db.WithContext(ctx).
		Preload("Category").
		Preload("Images", orderImages).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Reviews.Author").
		Where("slug = ? AND published = ?", productSlug, true).
		First(&product)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("product")
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}

	return &ProductDetail{
		Product:       product,
		AverageRating: AverageRating(product.Reviews),
		ReviewCount:   len(product.Reviews),
	}, nil
}

// GetPublishedByIDs loads the published products among ids, keyed by id
func (s *Service) GetPublishedByIDs(ctx context.Context, ids []uint) (map[uint]Product, error) {
	out := make(map[uint]Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var products []Product
	err := s.db.WithContext(ctx).
		Preload("Images", orderImages).
		Where("id IN ? AND published = ?", ids, true).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

// GetByID retrieves any product, published or not
func (s *Service) GetByID(ctx context.Context, id uint) (*Product, error) {
	var product Product
	result := s.db.WithContext(ctx).
		Preload("Category").
		Preload("Images", orderImages).
		First(&product, id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("product")
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}
	return &product, nil
}

// AdminList lists products regardless of publication state
func (s *Service) AdminList(ctx context.Context, params AdminListParams) (*pagination.Page[Product], error) {
	paging := pagination.Query{Page: params.Page, Limit: params.Limit}.Normalize(20, 50)

	base := func() *gorm.DB {
		query := s.db.WithContext(ctx).Model(&Product{})
		if params.CategoryID > 0 {
			query = query.Where("category_id = ?", params.CategoryID)
		}
		if search := strings.TrimSpace(params.Search); search != "" {
			pattern := pagination.ContainsPattern(search)
			query = query.Where("(name ILIKE ? OR description ILIKE ? OR sku ILIKE ?)", pattern, pattern, pattern)
		}
		switch params.Published {
		case "true":
			query = query.Where("published = ?", true)
		case "false":
			query = query.Where("published = ?", false)
		}
		return query
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	var products []Product
	err := base().
		Preload("Category").
		Preload("Images", orderImages).
		Order("created_at DESC").
		Offset(paging.Offset()).
		Limit(paging.Limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	return pagination.New(products, total, paging), nil
}

// Create validates and inserts a product with a unique slug
func (s *Service) Create(ctx context.Context, input ProductInput) (*Product, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	productSlug, err := slug.Unique(input.Name, s.slugTaken(ctx, 0))
	if err != nil {
		return nil, fmt.Errorf("failed to generate slug: %w", err)
	}

	product := Product{
		Name:        strings.TrimSpace(input.Name),
		Slug:        productSlug,
		Description: input.Description,
		Price:       input.Price,
		CategoryID:  input.CategoryID,
		Stock:       input.Stock,
		SKU:         input.SKU,
		Tags:        pq.StringArray(nonNil(input.Tags)),
		Dietary:     pq.StringArray(nonNil(input.Dietary)),
		Published:   input.Published,
		Featured:    input.Featured,
		Images:      buildImages(input.Images),
	}
	if input.ComparePrice != nil {
		product.ComparePrice = decimal.NewNullDecimal(*input.ComparePrice)
	}

	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return s.GetByID(ctx, product.ID)
}

// Update applies a partial update. A new name regenerates the slug; a
// non-nil image list replaces the gallery.
func (s *Service) Update(ctx context.Context, id uint, input ProductUpdate) (*Product, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		productSlug, err := slug.Unique(*input.Name, s.slugTaken(ctx, id))
		if err != nil {
			return nil, fmt.Errorf("failed to generate slug: %w", err)
		}
		updates["name"] = strings.TrimSpace(*input.Name)
		updates["slug"] = productSlug
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Price != nil {
		updates["price"] = *input.Price
	}
	if input.ComparePrice != nil {
		updates["compare_price"] = decimal.NewNullDecimal(*input.ComparePrice)
	}
	if input.CategoryID != nil {
		if err := s.ensureCategory(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = *input.CategoryID
	}
	if input.Stock != nil {
		updates["stock"] = *input.Stock
	}
	if input.SKU != nil {
		updates["sku"] = *input.SKU
	}
	if input.Tags != nil {
		updates["tags"] = pq.StringArray(input.Tags)
	}
	if input.Dietary != nil {
		updates["dietary"] = pq.StringArray(input.Dietary)
	}
	if input.Published != nil {
		updates["published"] = *input.Published
	}
	if input.Featured != nil {
		updates["featured"] = *input.Featured
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(existing).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update product: %w", err)
			}
		}
		if input.Images != nil {
			if err := tx.Where("product_id = ?", id).Delete(&ProductImage{}).Error; err != nil {
				return fmt.Errorf("failed to clear product images: %w", err)
			}
			images := buildImages(input.Images)
			for i := range images {
				images[i].ProductID = id
			}
			if len(images) > 0 {
				if err := tx.Create(&images).Error; err != nil {
					return fmt.Errorf("failed to save product images: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// Delete soft-deletes a product; order history keeps its snapshot
func (s *Service) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&Product{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("product")
	}
	return nil
}

// LowStock lists published products at or under the threshold
func (s *Service) LowStock(ctx context.Context, threshold int) ([]Product, error) {
	var products []Product
	err := s.db.WithContext(ctx).
		Where("published = ? AND stock <= ?", true, threshold).
		Order("stock ASC, name ASC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve low stock products: %w", err)
	}
	return products, nil
}

// AdjustStock moves stock by delta, refusing to take it below zero
func (s *Service) AdjustStock(ctx context.Context, id uint, delta int) (*Product, error) {
	if delta == 0 {
		return nil, apperror.NewValidation("delta", "Adjustment cannot be zero")
	}

	result := s.db.WithContext(ctx).Model(&Product{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		UpdateColumn("stock", gorm.Expr("stock + ?", delta))
	if result.Error != nil {
		return nil, fmt.Errorf("failed to adjust stock: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		existing, err := s.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, apperror.Invalid("cannot remove %d units, only %d in stock", -delta, existing.Stock)
	}

	return s.GetByID(ctx, id)
}

// AverageRating is the mean rating rounded to one decimal, 0 with no reviews
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	avg := decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(len(reviews)))).Round(1)
	return avg.InexactFloat64()
}

func (s *Service) ensureCategory(ctx context.Context, categoryID uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&Category{}).Where("id = ?", categoryID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check category: %w", err)
	}
	if count == 0 {
		return apperror.NewValidation("categoryId", "category does not exist")
	}
	return nil
}

// slugTaken checks slug usage, ignoring the product being renamed
func (s *Service) slugTaken(ctx context.Context, exceptID uint) func(string) (bool, error) {
	return func(candidate string) (bool, error) {
		var count int64
		err := s.db.WithContext(ctx).Unscoped().Model(&Product{}).
			Where("slug = ? AND id <> ?", candidate, exceptID).
			Count(&count).Error
		return count > 0, err
	}
}

func orderImages(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC, id ASC")
}

func buildImages(inputs []ImageInput) []ProductImage {
	images := make([]ProductImage, 0, len(inputs))
	for i, in := range inputs {
		images = append(images, ProductImage{URL: in.URL, PublicID: in.PublicID, Position: i})
	}
	return images
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
