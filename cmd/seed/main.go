// Command seed fills a development database with sample users and posts.
package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"

	"Posterr/internal/config"
	"Posterr/internal/core/posts"
	"Posterr/internal/core/users"
	postgresRepo "Posterr/internal/db/postgres"
)

var seedUsernames = []string{"johndoe", "janedoe", "bobsmith", "alicejones"}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("Invalid timezone: %v", err)
	}

	log.Printf("Connecting to database...")
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := postgresRepo.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()
	if err := seed(ctx, db, loc); err != nil {
		log.Printf("Seeding failed: %v", err)
		os.Exit(1)
	}
	log.Printf("Seeding finished.")
}

func seed(ctx context.Context, db *sql.DB, loc *time.Location) error {
	log.Printf("Starting seeding...")

	userService := users.NewUserService(postgresRepo.NewUserRepository(db), loc)
	seeded := make(map[string]*users.User, len(seedUsernames))
	for _, username := range seedUsernames {
		u, err := userService.EnsureUser(ctx, username, time.Now())
		if err != nil {
			return err
		}
		seeded[username] = u
	}

	johndoe, janedoe := seeded["johndoe"], seeded["janedoe"]

	// Posts are written through the repository so the fixed timestamps bypass the daily limit
	postRepo := postgresRepo.NewPostRepository(db)

	firstContent := "This is the very first post on Posterr!"
	first := &posts.Post{
		AuthorID:  johndoe.ID,
		Content:   &firstContent,
		Type:      posts.PostTypeOriginal,
		CreatedAt: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
	}
	if err := postRepo.Create(ctx, first); err != nil {
		return err
	}
	log.Printf("Post created for %s", johndoe.Username)

	repost := &posts.Post{
		AuthorID:       janedoe.ID,
		Type:           posts.PostTypeRepost,
		OriginalPostID: &first.ID,
		CreatedAt:      time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC),
	}
	if err := postRepo.Create(ctx, repost); err != nil {
		return err
	}
	log.Printf("Repost created for %s", janedoe.Username)

	limitContent := "Testing the daily limit logic."
	if err := postRepo.Create(ctx, &posts.Post{
		AuthorID: johndoe.ID,
		Content:  &limitContent,
		Type:     posts.PostTypeOriginal,
	}); err != nil {
		return err
	}
	log.Printf("Post created for %s", johndoe.Username)

	return nil
}
