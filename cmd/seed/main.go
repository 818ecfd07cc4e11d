package main

import (
	"context"
	"log"
	"mime"
	"os"
	"path"
	"path/filepath"
	"time"

	"whiteboard-service/internal/adapters/storage"
	"whiteboard-service/internal/catalog"
	"whiteboard-service/internal/config"
	"whiteboard-service/internal/database"
	"whiteboard-service/internal/services"
	"whiteboard-service/pkg/logger"
)

// seed loads CATALOG_FILE into the templates table when DATABASE_URL is set, and uploads
// every image path given on the command line to the MinIO bucket when MINIO_ENDPOINT is set.
// The cached catalog is dropped afterwards when REDIS_URL is set.
func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logg := logger.New(cfg.Log.Level, cfg.Log.Format)
	logg.Info("Starting catalog seeding...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if cfg.Catalog.DatabaseURL != "" {
		if err := seedPostgres(ctx, cfg.Catalog, logg); err != nil {
			logg.Error("Failed to seed templates table", "error", err)
			os.Exit(1)
		}
	} else {
		logg.Info("DATABASE_URL not set, skipping templates table")
	}

	images := os.Args[1:]
	if cfg.Catalog.MinIO.Endpoint != "" && len(images) > 0 {
		if err := uploadImages(ctx, cfg.Catalog.MinIO, images, logg); err != nil {
			logg.Error("Failed to upload template images", "error", err)
			os.Exit(1)
		}
	} else if len(images) > 0 {
		logg.Warn("MINIO_ENDPOINT not set, skipping image upload", "images", len(images))
	}

	if cfg.Redis.Enabled() {
		if err := invalidateCatalogCache(ctx, &cfg.Redis, logg); err != nil {
			logg.Warn("Failed to invalidate catalog cache", "error", err)
		}
	}

	logg.Info("Catalog seeding completed successfully!")
}

func seedPostgres(ctx context.Context, cfg config.CatalogConfig, logg *logger.Logger) error {
	source, err := catalog.NewFileStore(cfg.File)
	if err != nil {
		return err
	}
	templates, err := source.List(ctx)
	if err != nil {
		return err
	}

	db, err := database.NewPostgresConnection(cfg.DatabaseURL, logg, &catalog.TemplateModel{})
	if err != nil {
		return err
	}

	if err := catalog.NewGormStore(db).Upsert(ctx, templates); err != nil {
		return err
	}
	logg.Info("Seeded templates", "count", len(templates), "file", cfg.File)
	return nil
}

func uploadImages(ctx context.Context, cfg config.MinIOConfig, images []string, logg *logger.Logger) error {
	client, err := storage.NewMinIOClient(ctx, cfg, logg)
	if err != nil {
		return err
	}

	for _, image := range images {
		data, err := os.ReadFile(image)
		if err != nil {
			return err
		}
		key := path.Join(cfg.Prefix, filepath.Base(image))
		contentType := mime.TypeByExtension(filepath.Ext(image))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		if err := client.PutObject(ctx, key, data, contentType); err != nil {
			return err
		}
		logg.Info("Uploaded template image", "key", key, "url", client.ObjectURL(key))
	}
	return nil
}

func invalidateCatalogCache(ctx context.Context, cfg *config.RedisConfig, logg *logger.Logger) error {
	redisClient, err := database.NewRedisConnection(cfg, logg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	if err := services.NewRedisService(redisClient, logg).Delete(ctx, catalog.CacheKey); err != nil {
		return err
	}
	logg.Info("Catalog cache invalidated", "key", catalog.CacheKey)
	return nil
}
