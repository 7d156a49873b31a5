// Command storage-cors applies the browser upload CORS rules to the product
// image bucket.
package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/pkg/objectstore"
)

func main() {
	cfg, err := config.Load(nil)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	if cfg.Storage.Bucket == "" || cfg.Storage.CredentialsFile == "" {
		appLogger.Info("storage bucket or credentials not configured, skipping CORS setup")
		return
	}
	origins := cfg.HTTP.CORSOrigins
	if len(origins) == 0 {
		appLogger.Warn("CORS_ORIGIN is empty, no origins to configure on the bucket")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := objectstore.NewClient(ctx, objectstore.Config(cfg.Storage))
	if err != nil {
		appLogger.Fatal("failed to create storage client", zap.Error(err))
	}
	defer client.Close()

	if err := objectstore.ApplyCORS(ctx, client, cfg.Storage.Bucket, origins); err != nil {
		appLogger.Fatal("failed to apply CORS", zap.Error(err))
	}
	appLogger.Info("bucket CORS updated", zap.String("bucket", cfg.Storage.Bucket), zap.Strings("origins", origins))
}
