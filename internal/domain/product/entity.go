// internal/domain/product/entity.go
package product

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a catalog item
type Product struct {
	ID           uint                `gorm:"primaryKey" json:"id"`
	Name         string              `gorm:"not null;size:255" json:"name"`
	Slug         string              `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description  string              `gorm:"type:text" json:"description"`
	Price        decimal.Decimal     `gorm:"type:numeric(10,2);not null" json:"price"`
	ComparePrice decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"comparePrice"`
	CategoryID   uint                `gorm:"not null;index" json:"categoryId"`
	Stock        int                 `gorm:"not null;default:0" json:"stock"`
	SKU          string              `gorm:"size:100;index" json:"sku,omitempty"`
	Tags         pq.StringArray      `gorm:"type:text[];not null;default:'{}'" json:"tags"`
	Dietary      pq.StringArray      `gorm:"type:text[];not null;default:'{}'" json:"dietary"`
	Published    bool                `gorm:"not null;default:false;index" json:"published"`
	Featured     bool                `gorm:"not null;default:false" json:"featured"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt      `gorm:"index" json:"-"`

	// DiscountPercent is derived from ComparePrice on load
	DiscountPercent int `gorm:"-" json:"discountPercent"`

	// Relationships
	Category *Category      `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"category,omitempty"`
	Images   []ProductImage `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"images"`
	Reviews  []Review       `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"reviews,omitempty"`
}

// ProductImage is one entry of a product's ordered gallery
type ProductImage struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"not null;index" json:"productId"`
	URL       string `gorm:"not null;size:500" json:"url"`
	PublicID  string `gorm:"size:255" json:"publicId"`
	Position  int    `gorm:"not null;default:0" json:"position"`
}

// Category groups products on the menu
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;size:255" json:"name"`
	Slug      string    `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Image     *string   `gorm:"size:500" json:"image"`
	SortOrder int       `gorm:"not null;default:0" json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Review is a customer's rating of a product
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_reviews_user_product" json:"userId"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_reviews_user_product;index" json:"productId"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   *string   `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `json:"createdAt"`

	Author *ReviewAuthor `gorm:"foreignKey:UserID;-:migration" json:"user,omitempty"`
}

// ReviewAuthor is the public slice of a user shown next to a review
type ReviewAuthor struct {
	ID     uint    `json:"id"`
	Name   string  `json:"name"`
	Avatar *string `json:"avatar"`
}

// TableName overrides
func (Product) TableName() string      { return "products" }
func (ProductImage) TableName() string { return "product_images" }
func (Category) TableName() string     { return "categories" }
func (Review) TableName() string       { return "reviews" }
func (ReviewAuthor) TableName() string { return "users" }

// InStock reports whether quantity units can be sold
func (p *Product) InStock(quantity int) bool {
	return p.Stock >= quantity
}

// AfterFind fills the derived discount percentage
func (p *Product) AfterFind(tx *gorm.DB) error {
	p.DiscountPercent = DiscountPercent(p.Price, p.ComparePrice)
	return nil
}

// DiscountPercent is the saving against a compare-at price, rounded to a
// whole percent. It is 0 unless compare is above price.
func DiscountPercent(price decimal.Decimal, compare decimal.NullDecimal) int {
	if !compare.Valid || !compare.Decimal.GreaterThan(price) {
		return 0
	}
	off := compare.Decimal.Sub(price).Div(compare.Decimal).Mul(decimal.NewFromInt(100)).Round(0)
	return int(off.IntPart())
}

// PrimaryImage returns the first image URL, or "" when there is none
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	first := p.Images[0]
	for _, img := range p.Images[1:] {
		if img.Position < first.Position {
			first = img
		}
	}
	return first.URL
}
