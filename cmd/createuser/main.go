// Command createuser provisions an account. There is no registration
// endpoint; accounts are created out of band with this tool.
package main

import (
	"errors"
	"flag"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"task-manager-backend/internal/config"
	"task-manager-backend/internal/database"
	"task-manager-backend/internal/domain"
	"task-manager-backend/internal/repository"
)

func main() {
	username := flag.String("username", "", "username for the new account")
	password := flag.String("password", "", "password for the new account")
	flag.Parse()

	if *username == "" || *password == "" {
		log.Fatal("Both -username and -password are required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	dbService, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer dbService.Close()

	gormDB := dbService.GetDB()
	if err := gormDB.AutoMigrate(&domain.User{}); err != nil {
		log.Fatalf("Failed to auto-migrate database: %v", err)
	}

	userRepo := repository.NewGormUserRepository(gormDB)

	if _, err := userRepo.FindByUsername(*username); err == nil {
		log.Fatalf("User %q already exists", *username)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("Failed to check for existing user: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := &domain.User{Username: *username, PasswordHash: string(hash)}
	if err := userRepo.Create(user); err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	log.Printf("Created user %q with id %d", user.Username, user.ID)
}
