package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"cogniboard/internal/config"
	"cogniboard/internal/database"
	"cogniboard/internal/repository"
	"cogniboard/internal/service"
)

// Seeds the database with two sample users and a sample project owned
// by the first. Skips seeding when users already exist.
func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("❌ %v", err)
	}

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	memberRepo := repository.NewMemberRepository(db)

	userService := service.NewUserService(userRepo, logger)
	projectService := service.NewProjectService(db, projectRepo, memberRepo, userRepo, logger)

	existing, err := userRepo.List(ctx, 0, 1)
	if err != nil {
		log.Fatalf("❌ Failed to check for existing users: %v", err)
	}
	if len(existing) > 0 {
		log.Println("Database already contains data, skipping initialization.")
		return
	}

	user1, err := userService.Register(ctx, service.RegisterInput{
		Name:     "John Doe",
		Email:    "john@example.com",
		Password: "password123",
	})
	if err != nil {
		log.Fatalf("❌ Failed to create user: %v", err)
	}

	user2, err := userService.Register(ctx, service.RegisterInput{
		Name:     "Jane Smith",
		Email:    "jane@example.com",
		Password: "password123",
	})
	if err != nil {
		log.Fatalf("❌ Failed to create user: %v", err)
	}

	project, err := projectService.Create(ctx, user1.ID, service.CreateProjectInput{
		Name:        "Sample Project",
		Description: "A sample project for testing",
	})
	if err != nil {
		log.Fatalf("❌ Failed to create project: %v", err)
	}

	log.Println("✅ Database initialized with sample data!")
	log.Printf("Created users: %s, %s", user1.Email, user2.Email)
	log.Printf("Created project: %s", project.Name)
}
