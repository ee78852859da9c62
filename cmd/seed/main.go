package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"grocerylist-api/config"
	"grocerylist-api/internal/domain/entity"
	"grocerylist-api/internal/domain/repository"
	"grocerylist-api/internal/infrastructure/mongodb"
	"grocerylist-api/pkg/helpers"
)

// Seeds a confirmed development user so login works right after a fresh
// database start, without going through the email confirmation flow.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, db, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("failed to ensure indexes: %v", err)
	}

	email := "demo@grocerylist.local"
	password := "password123"

	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	repo := mongodb.NewUserRepository(db)
	u := &entity.User{
		Email:     email,
		FirstName: "Demo",
		LastName:  "User",
		Password:  hash,
		Language:  "en",
		Theme:     "light",
		// no account_confirmation sub-document: seeded as already confirmed
	}
	if err := repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			fmt.Printf("user %s already exists, nothing to do\n", email)
			return
		}
		log.Fatalf("failed to seed user: %v", err)
	}

	fmt.Printf("seeded user: id=%s email=%s password=%s\n", u.ID.Hex(), email, password)
}
