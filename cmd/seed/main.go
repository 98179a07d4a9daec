// Command seed fills a development database with demo data.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"uniwiz/internal/bootstrap"
	"uniwiz/internal/config"
	"uniwiz/internal/middleware"
	"uniwiz/internal/seed"
)

func main() {
	students := flag.Int("students", 20, "Number of students to create")
	publishers := flag.Int("publishers", 5, "Number of publishers to create")
	jobs := flag.Int("jobs", 4, "Jobs per publisher")
	applications := flag.Int("applications", 3, "Maximum applications per student")
	reports := flag.Int("reports", 3, "Number of reports to file")
	clean := flag.Bool("clean", false, "Delete existing users, jobs and messages first")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}
	middleware.InitLogger(cfg.Env, os.Stdout)

	ctx := context.Background()
	db, _, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{Migrate: true})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	seeder, err := seed.NewSeeder(db, seed.Options{
		NumStudents:            *students,
		NumPublishers:          *publishers,
		JobsPerPublisher:       *jobs,
		ApplicationsPerStudent: *applications,
		NumReports:             *reports,
		ShouldClean:            *clean,
	})
	if err != nil {
		log.Fatalf("Failed to create seeder: %v", err)
	}

	sum, err := seeder.Run(ctx)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("Seeded %d students, %d publishers, %d jobs, %d applications, %d messages. Password: %s",
		sum.Students, sum.Publishers, sum.Jobs, sum.Applications, sum.Messages, seed.DefaultPassword)
}
