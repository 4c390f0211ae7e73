// Command seed loads a demo catalog and an admin account into the database.
// Safe to run repeatedly: existing rows are matched by email or name and
// updated in place.
package main

import (
	"context"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/logger"
	"storefront/internal/model"
	"storefront/internal/repository"
)

type seedProduct struct {
	name        string
	description string
	price       string
	imageURL    string
	category    string
}

var seedCategories = []string{"Electronics", "Books", "Clothing", "Home & Kitchen"}

var seedProducts = []seedProduct{
	{"Wireless Headphones", "Over-ear Bluetooth headphones with noise cancellation.", "129.99", "https://images.example.com/headphones.jpg", "Electronics"},
	{"Mechanical Keyboard", "Tenkeyless keyboard with hot-swappable switches.", "89.50", "https://images.example.com/keyboard.jpg", "Electronics"},
	{"USB-C Charger 65W", "GaN wall charger with two ports.", "39.00", "https://images.example.com/charger.jpg", "Electronics"},
	{"The Pragmatic Programmer", "20th anniversary edition, hardcover.", "44.95", "https://images.example.com/pragprog.jpg", "Books"},
	{"Designing Data-Intensive Applications", "Concepts behind reliable, scalable systems.", "54.99", "https://images.example.com/ddia.jpg", "Books"},
	{"Cotton T-Shirt", "Plain crew-neck tee, several colors.", "14.90", "https://images.example.com/tshirt.jpg", "Clothing"},
	{"Rain Jacket", "Lightweight waterproof shell.", "79.00", "https://images.example.com/jacket.jpg", "Clothing"},
	{"Cast Iron Skillet", "Pre-seasoned 10-inch skillet.", "34.25", "https://images.example.com/skillet.jpg", "Home & Kitchen"},
	{"French Press", "Borosilicate glass, 1 liter.", "24.00", "https://images.example.com/frenchpress.jpg", "Home & Kitchen"},
}

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	ctx := context.Background()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database init")
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.OrderEvent{},
		&model.PasswordReset{},
	); err != nil {
		log.Fatal().Err(err).Msg("auto-migrate")
	}

	userRepo := repository.NewUserRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)

	if err := seedAdmin(ctx, userRepo); err != nil {
		log.Fatal().Err(err).Msg("seed admin")
	}

	categoryIDs, created := seedCatalog(ctx, gormDB, categoryRepo)
	log.Info().
		Int("categories", len(categoryIDs)).
		Int("products_seeded", created).
		Msg("seed complete")
}

func seedAdmin(ctx context.Context, userRepo repository.UserRepository) error {
	const adminEmail = "admin@storefront.local"

	if _, err := userRepo.FindByEmail(ctx, adminEmail); err == nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return userRepo.Create(ctx, &model.User{
		Name:         "Admin",
		Email:        adminEmail,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	})
}

func seedCatalog(ctx context.Context, gormDB *gorm.DB, categoryRepo repository.CategoryRepository) (map[string]uint, int) {
	log := logger.Get()

	categoryIDs := make(map[string]uint, len(seedCategories))
	for _, name := range seedCategories {
		var category model.Category
		err := gormDB.WithContext(ctx).Where("name = ?", name).First(&category).Error
		if err == gorm.ErrRecordNotFound {
			category = model.Category{Name: name}
			if err = categoryRepo.Create(ctx, &category); err == nil {
				log.Info().Str("category", name).Msg("category created")
			}
		}
		if err != nil {
			log.Warn().Err(err).Str("category", name).Msg("skipping category")
			continue
		}
		categoryIDs[name] = category.ID
	}

	created := 0
	for _, p := range seedProducts {
		categoryID, ok := categoryIDs[p.category]
		if !ok {
			continue
		}
		price, err := decimal.NewFromString(p.price)
		if err != nil {
			log.Warn().Err(err).Str("product", p.name).Msg("bad seed price")
			continue
		}

		var existing model.Product
		err = gormDB.WithContext(ctx).Where("name = ?", p.name).First(&existing).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			product := model.Product{
				Name:        p.name,
				Description: p.description,
				Price:       price,
				ImageURL:    p.imageURL,
				CategoryID:  categoryID,
			}
			if err := gormDB.WithContext(ctx).Create(&product).Error; err != nil {
				log.Warn().Err(err).Str("product", p.name).Msg("create failed")
				continue
			}
			created++
		case err == nil:
			existing.Description = p.description
			existing.Price = price
			existing.ImageURL = p.imageURL
			existing.CategoryID = categoryID
			if err := gormDB.WithContext(ctx).Save(&existing).Error; err != nil {
				log.Warn().Err(err).Str("product", p.name).Msg("update failed")
			}
		default:
			log.Warn().Err(err).Str("product", p.name).Msg("lookup failed")
		}
	}
	return categoryIDs, created
}
