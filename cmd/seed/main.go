package main

import (
	"context"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"adboard/internal/config"
	"adboard/internal/db"
	"adboard/internal/model"
	"adboard/internal/repository"
)

// starterCategories is the taxonomy a fresh marketplace boots with.
// Moderators can reshape it afterwards through the API.
var starterCategories = map[string][]string{
	"Vehicles":      {"Cars", "Motorcycles", "Parts & Accessories"},
	"Real Estate":   {"Apartments", "Houses", "Commercial"},
	"Electronics":   {"Phones", "Computers", "TV & Audio"},
	"Home & Garden": {"Furniture", "Appliances", "Tools"},
	"Jobs":          {"Full-time", "Part-time", "Freelance"},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Subcategory{},
		&model.Ad{},
		&model.ModerationRecord{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()

	if err := seedModerator(ctx, gormDB); err != nil {
		log.Fatalf("Failed to seed moderator: %v", err)
	}

	created, err := seedCategories(ctx, gormDB)
	if err != nil {
		log.Fatalf("Failed to seed categories: %v", err)
	}
	log.Printf("Seed complete: %d new taxonomy records", created)
}

func seedModerator(ctx context.Context, gormDB *gorm.DB) error {
	email := getEnv("SEED_MODERATOR_EMAIL", "moderator@adboard.local")
	password := getEnv("SEED_MODERATOR_PASSWORD", "change-me-now")

	userRepo := repository.NewUserRepository(gormDB)

	existing, err := userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		log.Printf("Moderator %s already exists, skipping", email)
		return nil
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return err
	}

	moderator := &model.User{
		Name:         "Moderator",
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleModerator,
	}
	if err := userRepo.Create(ctx, moderator); err != nil {
		return err
	}
	log.Printf("Created moderator account %s", email)
	return nil
}

func seedCategories(ctx context.Context, gormDB *gorm.DB) (int, error) {
	categoryRepo := repository.NewCategoryRepository(gormDB)
	created := 0

	for name, subs := range starterCategories {
		category, err := categoryRepo.FindByName(ctx, name)
		if err == gorm.ErrRecordNotFound {
			category = &model.Category{Name: name}
			if err := categoryRepo.Create(ctx, category); err != nil {
				return created, err
			}
			created++
		} else if err != nil {
			return created, err
		}

		for _, subName := range subs {
			_, err := categoryRepo.FindSubcategoryByName(ctx, category.ID, subName)
			if err == nil {
				continue
			}
			if err != gorm.ErrRecordNotFound {
				return created, err
			}
			sub := &model.Subcategory{Name: subName, CategoryID: category.ID}
			if err := categoryRepo.CreateSubcategory(ctx, sub); err != nil {
				return created, err
			}
			created++
		}
	}
	return created, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
