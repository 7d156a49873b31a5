// Command seed fills a development database with demo categories and products.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"storefront/internal/apperrors"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
)

type productFixture struct {
	name        string
	description string
	price       string
	stock       int
	active      bool
}

var categoryFixtures = []models.CreateCategoryInput{
	{Name: "Electronics", Description: "Computers, peripherals and accessories"},
	{Name: "Office", Description: "Paper, pens and desk supplies"},
	{Name: "Home", Description: "Kitchen and household goods"},
}

var productFixtures = []productFixture{
	{name: "Laptop", description: "High performance laptop", price: "1200.00", stock: 10, active: true},
	{name: "Keyboard", description: "Mechanical keyboard", price: "75.00", stock: 25, active: true},
	{name: "Mouse", description: "Ergonomic wireless mouse", price: "25.00", stock: 50, active: true},
	{name: "Notebook", description: "A5 dotted notebook", price: "6.50", stock: 200, active: true},
	{name: "Kettle", description: "Electric kettle, 1.7 litres", price: "39.90", stock: 0, active: false},
}

func main() {
	var reset bool
	flag.BoolVar(&reset, "reset", false, "delete every product and category before seeding")
	flag.Parse()

	cfg, err := config.Load(nil)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.App.Env == "production" {
		fmt.Fprintln(os.Stderr, "Error: refusing to seed a production database")
		os.Exit(1)
	}

	appLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	db, err := database.Open(cfg.Database)
	if err != nil {
		appLogger.Fatal("failed to open database", zap.Error(err))
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		appLogger.Fatal("failed to migrate database", zap.Error(err))
	}

	if reset {
		if err := resetCatalog(ctx, db); err != nil {
			appLogger.Fatal("failed to reset catalog", zap.Error(err))
		}
		appLogger.Info("catalog reset")
	}

	products := services.NewProductService(repositories.NewGORMProductRepository(db), nil, nil, appLogger)
	categories := services.NewCategoryService(repositories.NewGORMCategoryRepository(db))

	if err := seed(ctx, products, categories, appLogger); err != nil {
		appLogger.Fatal("seed failed", zap.Error(err))
	}
	appLogger.Info("seed complete")
}

func resetCatalog(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		global := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := global.Delete(&models.Product{}).Error; err != nil {
			return fmt.Errorf("failed to delete products: %w", err)
		}
		if err := global.Delete(&models.Category{}).Error; err != nil {
			return fmt.Errorf("failed to delete categories: %w", err)
		}
		return nil
	})
}

// seed goes through the services so every fixture passes the same rules as
// API traffic. Existing names are skipped, which makes reruns harmless.
func seed(ctx context.Context, products *services.ProductService, categories *services.CategoryService, log *zap.Logger) error {
	for _, input := range categoryFixtures {
		category, err := categories.CreateCategory(ctx, input)
		if isConflict(err) {
			log.Info("category exists, skipping", zap.String("name", input.Name))
			continue
		}
		if err != nil {
			return fmt.Errorf("category %s: %w", input.Name, err)
		}
		log.Info("seeded category", zap.String("name", category.Name), zap.Uint("id", category.ID))
	}

	for _, fx := range productFixtures {
		product, err := products.CreateProduct(ctx, models.CreateProductInput{
			Name:        fx.name,
			Description: fx.description,
			Price:       decimal.RequireFromString(fx.price),
		})
		if isConflict(err) {
			log.Info("product exists, skipping", zap.String("name", fx.name))
			continue
		}
		if err != nil {
			return fmt.Errorf("product %s: %w", fx.name, err)
		}
		if fx.stock > 0 {
			if product, err = products.AddStock(ctx, product.ID, fx.stock); err != nil {
				return fmt.Errorf("stock for %s: %w", fx.name, err)
			}
		}
		if !fx.active {
			if product, err = products.Deactivate(ctx, product.ID); err != nil {
				return fmt.Errorf("deactivate %s: %w", fx.name, err)
			}
		}
		log.Info("seeded product", zap.String("name", product.Name), zap.Int("stock", product.Stock))
	}
	return nil
}

func isConflict(err error) bool {
	_, ok := apperrors.IsConflictError(err)
	return ok
}
