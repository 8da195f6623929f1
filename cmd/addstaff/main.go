package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/AJIyanu/msdbc/internal/auth"
	"github.com/AJIyanu/msdbc/internal/config"
	"github.com/AJIyanu/msdbc/internal/store"
)

// addstaff seeds or resets a staff account so someone can sign in.
func main() {
	email := flag.String("email", "", "staff email (required)")
	name := flag.String("name", "", "display name")
	password := flag.String("password", "", "plaintext password to hash (required)")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("usage: addstaff -email staff@example.org -password secret [-name \"Full Name\"]")
	}

	_ = godotenv.Load()
	cfg := config.Load()

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatalf("hash failed: %v", err)
	}

	repo := auth.NewRepository(db.Client)
	if err := repo.Upsert(context.Background(), *email, *name, hash); err != nil {
		log.Fatalf("upsert failed: %v", err)
	}

	log.Printf("staff account ready: %s", *email)
}
