// Command migrate applies the schema and data migrations.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"uniwiz/internal/config"
	"uniwiz/internal/database"
	"uniwiz/internal/middleware"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <up|status>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	middleware.InitLogger(cfg.Env, log.Writer())

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = database.Close(db) }()

	ctx := context.Background()
	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "up":
		if err := database.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrations failed: %w", err)
		}
		log.Println("migrations applied")
	case "status":
		if missing := database.MissingTables(db); len(missing) > 0 {
			log.Printf("missing tables: %s", strings.Join(missing, ", "))
		}
		status, err := database.Status(ctx, db)
		if err != nil {
			return fmt.Errorf("migration status failed: %w", err)
		}
		for _, m := range status {
			state := "pending"
			if m.Applied {
				state = "applied " + m.AppliedAt.Format("2006-01-02 15:04:05")
			}
			log.Printf("%03d_%s: %s", m.Version, m.Name, state)
		}
	default:
		return usage()
	}
	return nil
}
