package main

import (
	"context"
	"flag"
	"path-route-service/internal/adapters/pathfile"
	"path-route-service/internal/adapters/repositories"
	"path-route-service/internal/config"
	"path-route-service/internal/platform/db"
	"path-route-service/internal/platform/obs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "dbtool")

func main() {
	importPath := flag.String("import", "", "paths file to load into the sqlite path list")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found (using environment variables)")
	}
	if err := obs.SetupLogging(config.Get("LOG_LEVEL", "info")); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	if databaseURL := config.Get("DATABASE_URL", ""); strings.TrimSpace(databaseURL) != "" {
		if err := initPostgres(ctx, databaseURL); err != nil {
			log.Fatal(err)
		}
	} else {
		log.Info("DATABASE_URL not set, skipping postgres cache schema")
	}

	if *importPath != "" {
		if err := importPaths(ctx, config.Get("DB_PATH", "data/app.db"), *importPath); err != nil {
			log.Fatal(err)
		}
	}
}

func initPostgres(ctx context.Context, databaseURL string) error {
	pg, err := db.Open(databaseURL)
	if err != nil {
		return err
	}
	defer pg.Close()

	log.Info("Initializing postgres cache schema...")
	if err := repositories.InitPostgresSchema(ctx, pg); err != nil {
		return err
	}
	log.Info("Schema ready.")
	return nil
}

func importPaths(ctx context.Context, dbPath, importPath string) error {
	paths, err := pathfile.ReadFile(importPath)
	if err != nil {
		return err
	}

	conn, err := db.OpenSqlite(dbPath)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := repositories.InitSchema(ctx, conn); err != nil {
		return err
	}

	if err := repositories.NewSqlitePathRepository(conn).SavePaths(ctx, paths); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"file": importPath, "paths": len(paths)}).Info("Import complete.")
	return nil
}
