// Package main provides admin account utilities for UniWiz.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"uniwiz/internal/config"
	"uniwiz/internal/database"
	"uniwiz/internal/repository"
	"uniwiz/internal/service"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/admin create <email> <password> [first] [last]  - Create an admin account")
		fmt.Println("  go run ./cmd/admin list-admins                               - List all admins")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	users := service.NewUserService(db, repository.NewUserRepository(db))
	ctx := context.Background()

	switch os.Args[1] {
	case "create":
		if len(os.Args) < 4 {
			fmt.Println("Usage: go run ./cmd/admin create <email> <password> [first] [last]")
			os.Exit(1)
		}
		in := service.RegisterInput{Email: os.Args[2], Password: os.Args[3], FirstName: "Admin"}
		if len(os.Args) > 4 {
			in.FirstName = os.Args[4]
		}
		if len(os.Args) > 5 {
			in.LastName = os.Args[5]
		}
		admin, err := users.CreateAdmin(ctx, in)
		if err != nil {
			log.Fatalf("Failed to create admin: %v", err)
		}
		fmt.Printf("Created admin %s (ID: %d)\n", admin.Email, admin.ID)

	case "list-admins":
		admins, err := users.ListAdmins(ctx)
		if err != nil {
			log.Fatalf("Failed to list admins: %v", err)
		}
		if len(admins) == 0 {
			fmt.Println("No admins found")
			return
		}
		fmt.Printf("Found %d admin(s):\n", len(admins))
		for _, a := range admins {
			fmt.Printf("  - %s (ID: %d, status: %s)\n", a.Email, a.ID, a.Status)
		}

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}
}
