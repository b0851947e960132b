// internal/domain/product/query.go
package product

import (
	"strings"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/zozagateway/snack-backend/internal/pkg/pagination"
	"gorm.io/gorm"
)

const (
	defaultCatalogLimit = 12
	maxCatalogLimit     = 50
)

// SortKey is one of the fixed catalog orderings
type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
	SortPopular   SortKey = "popular"
)

var sortClauses = map[SortKey]string{
	SortNewest:    "products.created_at DESC",
	SortPriceAsc:  "products.price ASC, products.id ASC",
	SortPriceDesc: "products.price DESC, products.id ASC",
	SortPopular:   "products.featured DESC, products.created_at DESC",
}

// ParseSortKey maps a query string value onto a SortKey, defaulting to newest
func ParseSortKey(raw string) SortKey {
	key := SortKey(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := sortClauses[key]; ok {
		return key
	}
	return SortNewest
}

// CatalogParams is the query string accepted by the public catalog
type CatalogParams struct {
	Page     int    `form:"page"`
	Limit    *int   `form:"limit"`
	Category string `form:"category"`
	Search   string `form:"search"`
	Dietary  string `form:"dietary"`
	Featured string `form:"featured"`
	MinPrice string `form:"minPrice"`
	MaxPrice string `form:"maxPrice"`
	Sort     string `form:"sort"`
}

// CatalogQuery is a normalized catalog request
type CatalogQuery struct {
	Paging   pagination.Params
	Category string
	Search   string
	Dietary  []string
	Featured bool
	MinPrice decimal.NullDecimal
	MaxPrice decimal.NullDecimal
	Sort     SortKey
}

// ToQuery normalizes raw parameters. Unparseable prices are ignored.
func (p CatalogParams) ToQuery() CatalogQuery {
	q := CatalogQuery{
		Paging:   pagination.Query{Page: p.Page, Limit: p.Limit}.Normalize(defaultCatalogLimit, maxCatalogLimit),
		Category: strings.TrimSpace(p.Category),
		Search:   strings.TrimSpace(p.Search),
		Featured: p.Featured == "true",
		Sort:     ParseSortKey(p.Sort),
	}

	for _, tag := range strings.Split(p.Dietary, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			q.Dietary = append(q.Dietary, tag)
		}
	}

	if d, err := decimal.NewFromString(strings.TrimSpace(p.MinPrice)); err == nil {
		q.MinPrice = decimal.NewNullDecimal(d)
	}
	if d, err := decimal.NewFromString(strings.TrimSpace(p.MaxPrice)); err == nil {
		q.MaxPrice = decimal.NewNullDecimal(d)
	}

	return q
}

// Scope is a composable query predicate
type Scope = func(*gorm.DB) *gorm.DB

// Filters folds every active predicate into an ordered scope list. The
// published predicate is always first.
func (q CatalogQuery) Filters() []Scope {
	scopes := []Scope{publishedOnly}

	if q.Category != "" {
		scopes = append(scopes, inCategory(q.Category))
	}
	if q.Search != "" {
		scopes = append(scopes, matching(q.Search))
	}
	if len(q.Dietary) > 0 {
		scopes = append(scopes, withAnyDietary(q.Dietary))
	}
	if q.Featured {
		scopes = append(scopes, featuredOnly)
	}
	if q.MinPrice.Valid {
		scopes = append(scopes, priceAtLeast(q.MinPrice.Decimal))
	}
	if q.MaxPrice.Valid {
		scopes = append(scopes, priceAtMost(q.MaxPrice.Decimal))
	}

	return scopes
}

// Ordering returns the ORDER BY scope for the sort key
func (q CatalogQuery) Ordering() Scope {
	clause, ok := sortClauses[q.Sort]
	if !ok {
		clause = sortClauses[SortNewest]
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(clause)
	}
}

func publishedOnly(db *gorm.DB) *gorm.DB {
	return db.Where("products.published = ?", true)
}

func featuredOnly(db *gorm.DB) *gorm.DB {
	return db.Where("products.featured = ?", true)
}

func inCategory(slug string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("products.category_id IN (SELECT id FROM categories WHERE slug = ?)", slug)
	}
}

// matching is a case-insensitive substring match on name and description,
// or a case-insensitive exact match on any tag.
func matching(term string) Scope {
	pattern := pagination.ContainsPattern(term)
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"(products.name ILIKE ? OR products.description ILIKE ? OR EXISTS (SELECT 1 FROM unnest(products.tags) AS tag WHERE LOWER(tag) = LOWER(?)))",
			pattern, pattern, term,
		)
	}
}

func withAnyDietary(tags []string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("products.dietary && ?", pq.StringArray(tags))
	}
}

func priceAtLeast(min decimal.Decimal) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("products.price >= ?", min)
	}
}

func priceAtMost(max decimal.Decimal) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("products.price <= ?", max)
	}
}
