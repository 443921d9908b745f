package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"vocabdrill/internal/config"
	"vocabdrill/internal/database"
	"vocabdrill/internal/repository"
	"vocabdrill/internal/security"
	"vocabdrill/internal/validation"
)

func main() {
	username := flag.String("username", "", "Admin username")
	password := flag.String("password", "", "Admin password")
	nickname := flag.String("nickname", "", "Display name (defaults to username)")
	flag.Parse()

	if *username == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "Usage: createadmin -username <name> -password <password> [-nickname <nickname>]")
		os.Exit(1)
	}
	if verr := validation.ValidateUsername(*username); verr != nil {
		log.Fatalf("Invalid username: %v", verr)
	}
	if verr := validation.ValidatePassword(*password); verr != nil {
		log.Fatalf("Invalid password: %v", verr)
	}

	cfg := config.Load()

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	migrationsDir := filepath.Join(cfg.MigrationsPath, db.Dialect.MigrationsSubdir())
	if err := db.RunMigrations(migrationsDir); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(db)

	existing, err := userRepo.GetUserByUsername(*username)
	if err != nil {
		log.Fatalf("Failed to check for existing user: %v", err)
	}
	if existing != nil {
		log.Fatalf("User %q already exists", *username)
	}

	hash, err := security.HashPassword(*password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	name := *nickname
	if name == "" {
		name = *username
	}

	user, err := userRepo.CreateUser(*username, hash, name, true)
	if err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}

	fmt.Printf("Admin user %q created (id %d)\n", user.Username, user.ID)
}
