package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path"
	"time"

	"github.com/joho/godotenv"

	"antesala/internal/backup"
	"antesala/internal/shared/bootstrap"
	"antesala/internal/shared/config"
	"antesala/pkg/logger"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	out := flag.String("out", cfg.Backup.OutputPath, "file to write the backup to, empty to skip")
	upload := flag.Bool("upload", false, "also upload the backup to BACKUP_S3_BUCKET")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall deadline")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	app, err := bootstrap.Open(cfg, logger.GetDefault())
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer app.Close()

	if _, err := app.Load(ctx); err != nil {
		log.Fatalf("Failed to load reservations: %v", err)
	}

	data, count, err := backup.Snapshot(app.Manager)
	if err != nil {
		log.Fatalf("Failed to export reservations: %v", err)
	}

	if *out != "" {
		if err := os.WriteFile(*out, data, 0o644); err != nil {
			log.Fatalf("Failed to write %s: %v", *out, err)
		}
		fmt.Printf("✅ Wrote %d reservations to %s\n", count, *out)
	}

	if *upload {
		uploader, err := backup.NewS3Uploader(ctx, backup.S3Config{
			Bucket:    cfg.Backup.S3Bucket,
			Endpoint:  cfg.Backup.S3Endpoint,
			Region:    cfg.Backup.S3Region,
			AccessKey: cfg.Backup.S3AccessKey,
			SecretKey: cfg.Backup.S3SecretKey,
			Prefix:    cfg.Backup.S3Prefix,
		})
		if err != nil {
			log.Fatalf("Failed to configure upload: %v", err)
		}

		// One object per day; reruns on the same day overwrite it
		name := path.Join(time.Now().UTC().Format("2006-01-02"), backup.FileName)
		key, err := uploader.Upload(ctx, name, data)
		if err != nil {
			log.Fatalf("Failed to upload backup: %v", err)
		}
		fmt.Printf("✅ Uploaded %d reservations to s3://%s/%s\n", count, cfg.Backup.S3Bucket, key)
	}
}
