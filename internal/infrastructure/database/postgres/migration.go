// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"context"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/zozagateway/snack-backend/internal/domain/order"
	"github.com/zozagateway/snack-backend/internal/domain/product"
	"github.com/zozagateway/snack-backend/internal/domain/settings"
	"github.com/zozagateway/snack-backend/internal/domain/user"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Migration handles database migrations
type Migration struct {
	db     *gorm.DB
	logger logrus.FieldLogger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, log logrus.FieldLogger) *Migration {
	return &Migration{
		db:     db,
		logger: log,
	}
}

// Models lists every migrated model in dependency order
func Models() []interface{} {
	return []interface{}{
		&user.User{},

		&product.Category{},
		&product.Product{},
		&product.ProductImage{},
		&product.Review{},

		&order.PromoCode{},
		&order.Order{},
		&order.OrderItem{},
		&order.TimelineEntry{},
		&order.ProcessedEvent{},

		&settings.StoreSettings{},
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations(ctx context.Context) error {
	m.logger.Info("🔄 Running database auto-migrations...")

	for _, model := range Models() {
		if err := m.db.WithContext(ctx).AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.logger.Info("✅ Database auto-migrations completed successfully")
	return nil
}

// indexes are the composite and expression indexes AutoMigrate cannot express
var indexes = []string{
	"CREATE INDEX IF NOT EXISTS idx_products_category_published ON products(category_id, published)",
	"CREATE INDEX IF NOT EXISTS idx_products_featured_created ON products(featured DESC, created_at DESC)",
	"CREATE INDEX IF NOT EXISTS idx_products_price ON products(price)",
	"CREATE INDEX IF NOT EXISTS idx_products_tags ON products USING GIN (tags)",
	"CREATE INDEX IF NOT EXISTS idx_products_dietary ON products USING GIN (dietary)",
	"CREATE INDEX IF NOT EXISTS idx_categories_sort_order ON categories(sort_order)",
	"CREATE INDEX IF NOT EXISTS idx_product_images_position ON product_images(product_id, position)",
	"CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders(user_id, created_at DESC)",
	"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at DESC)",
	"CREATE INDEX IF NOT EXISTS idx_order_timeline_order_created ON order_timeline(order_id, created_at)",
	"CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at DESC)",
}

// CreateIndexes creates additional indexes. Failures are logged and counted,
// not returned.
func (m *Migration) CreateIndexes(ctx context.Context) (created, failed int) {
	for _, indexSQL := range indexes {
		if err := m.db.WithContext(ctx).Exec(indexSQL).Error; err != nil {
			m.logger.WithError(err).Warn("⚠️ Failed to create index")
			failed++
			continue
		}
		created++
	}

	m.logger.Infof("✅ Created %d indexes successfully (%d failed)", created, failed)
	return created, failed
}

// SeedInitialData inserts the starter menu and promo codes. Existing rows
// are left untouched.
func (m *Migration) SeedInitialData(ctx context.Context) error {
	m.logger.Info("🌱 Seeding initial data...")

	if err := m.seedCategories(ctx); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}
	if err := m.seedProducts(ctx); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}
	if err := m.seedPromoCodes(ctx); err != nil {
		return fmt.Errorf("failed to seed promo codes: %w", err)
	}

	m.logger.Info("✅ Initial data seeded successfully")
	return nil
}

func (m *Migration) seedCategories(ctx context.Context) error {
	categories := []product.Category{
		{Name: "Chips & Crisps", Slug: "chips-crisps", SortOrder: 1},
		{Name: "Cookies & Biscuits", Slug: "cookies-biscuits", SortOrder: 2},
		{Name: "Pastries & Pies", Slug: "pastries-pies", SortOrder: 3},
		{Name: "Nuts & Trail Mix", Slug: "nuts-trail-mix", SortOrder: 4},
		{Name: "Candy & Sweets", Slug: "candy-sweets", SortOrder: 5},
		{Name: "Popcorn", Slug: "popcorn", SortOrder: 6},
		{Name: "Healthy Snacks", Slug: "healthy-snacks", SortOrder: 7},
		{Name: "Beverages", Slug: "beverages", SortOrder: 8},
	}

	return m.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "slug"}}, DoNothing: true}).
		Create(&categories).Error
}

type seedProduct struct {
	name, slug, description string
	price, comparePrice     string
	category                string
	stock                   int
	tags, dietary           []string
	featured                bool
}

var starterMenu = []seedProduct{
	{"Classic Salted Chips", "classic-salted-chips", "Perfectly crispy and lightly salted potato chips made from premium potatoes.", "3.99", "5.99", "chips-crisps", 150, []string{"popular", "classic"}, nil, true},
	{"BBQ Kettle Chips", "bbq-kettle-chips", "Thick-cut kettle-style chips with a smoky barbecue seasoning.", "4.49", "", "chips-crisps", 120, []string{"spicy", "kettle"}, []string{"Vegan"}, false},
	{"Double Chocolate Cookies", "double-chocolate-cookies", "Rich, chewy cookies loaded with dark and white chocolate chips.", "6.99", "", "cookies-biscuits", 80, []string{"chocolate", "bestseller"}, nil, true},
	{"Oatmeal Raisin Cookies", "oatmeal-raisin-cookies", "Wholesome oatmeal cookies studded with plump raisins and a hint of cinnamon.", "5.49", "", "cookies-biscuits", 60, []string{"healthy", "classic"}, []string{"Nut-Free"}, false},
	{"Butter Croissants (4-pack)", "butter-croissants-4-pack", "Flaky, golden butter croissants. Pack of 4.", "8.99", "10.99", "pastries-pies", 40, []string{"fresh", "premium"}, nil, true},
	{"Mixed Nut Medley", "mixed-nut-medley", "Roasted almonds, cashews, pecans and macadamia nuts. Lightly salted.", "9.99", "", "nuts-trail-mix", 90, []string{"protein", "premium"}, []string{"Vegan", "Gluten-Free"}, true},
	{"Trail Mix Adventure", "trail-mix-adventure", "Nuts, seeds, dried cranberries and dark chocolate pieces.", "7.49", "", "nuts-trail-mix", 70, []string{"energy", "outdoor"}, []string{"Gluten-Free"}, false},
	{"Gummy Bear Party Pack", "gummy-bear-party-pack", "Fruity gummy bears in a party-size bag.", "4.99", "", "candy-sweets", 200, []string{"kids", "party"}, []string{"Gluten-Free", "Nut-Free"}, false},
	{"Caramel Popcorn Crunch", "caramel-popcorn-crunch", "Sweet and crunchy caramel-coated popcorn.", "5.99", "", "popcorn", 110, []string{"sweet", "movie night"}, []string{"Gluten-Free"}, true},
	{"Organic Veggie Sticks", "organic-veggie-sticks", "Baked sweet potato, beet and spinach sticks.", "6.49", "", "healthy-snacks", 65, []string{"organic", "healthy"}, []string{"Vegan", "Gluten-Free"}, false},
	{"Sparkling Lemonade (6-pack)", "sparkling-lemonade-6-pack", "Sparkling lemonade made with real lemons.", "7.99", "", "beverages", 50, []string{"refreshing", "natural"}, []string{"Vegan", "Gluten-Free"}, false},
	{"Spicy Jalapeño Chips", "spicy-jalapeno-chips", "Bold and fiery jalapeño flavored chips.", "4.49", "", "chips-crisps", 95, []string{"spicy", "bold"}, []string{"Vegan"}, false},
}

func (m *Migration) seedProducts(ctx context.Context) error {
	var categories []product.Category
	if err := m.db.WithContext(ctx).Find(&categories).Error; err != nil {
		return err
	}
	bySlug := make(map[string]uint, len(categories))
	for _, c := range categories {
		bySlug[c.Slug] = c.ID
	}

	products := make([]product.Product, 0, len(starterMenu))
	for _, s := range starterMenu {
		categoryID, ok := bySlug[s.category]
		if !ok {
			return fmt.Errorf("unknown seed category %q", s.category)
		}

		p := product.Product{
			Name:        s.name,
			Slug:        s.slug,
			Description: s.description,
			Price:       decimal.RequireFromString(s.price),
			CategoryID:  categoryID,
			Stock:       s.stock,
			Tags:        pq.StringArray(nonNil(s.tags)),
			Dietary:     pq.StringArray(nonNil(s.dietary)),
			Published:   true,
			Featured:    s.featured,
		}
		if s.comparePrice != "" {
			p.ComparePrice = decimal.NewNullDecimal(decimal.RequireFromString(s.comparePrice))
		}
		products = append(products, p)
	}

	return m.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "slug"}}, DoNothing: true}).
		Create(&products).Error
}

func (m *Migration) seedPromoCodes(ctx context.Context) error {
	maxSnack, maxWelcome := 100, 50
	promos := []order.PromoCode{
		{
			Code:          "SNACK10",
			DiscountType:  order.DiscountPercentage,
			DiscountValue: decimal.NewFromInt(10),
			MinOrder:      decimal.NewNullDecimal(decimal.NewFromInt(15)),
			MaxUses:       &maxSnack,
			Active:        true,
		},
		{
			Code:          "WELCOME5",
			DiscountType:  order.DiscountFixed,
			DiscountValue: decimal.NewFromInt(5),
			MinOrder:      decimal.NewNullDecimal(decimal.NewFromInt(20)),
			MaxUses:       &maxWelcome,
			Active:        true,
		},
	}

	return m.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "code"}}, DoNothing: true}).
		Create(&promos).Error
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
