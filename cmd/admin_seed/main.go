package main

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"aesthetx/internal/config"
	"aesthetx/internal/models"
	"aesthetx/internal/repositories"
	"aesthetx/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()

	adminEmail := models.NormalizeEmail(os.Getenv("ADMIN_EMAIL"))
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	adminName := strings.TrimSpace(config.GetEnv("ADMIN_NAME", "Store Owner"))

	if adminEmail == "" || adminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set in environment")
	}
	if !validation.IsEmail(adminEmail) {
		log.Fatalf("ADMIN_EMAIL %q is not a valid email address", adminEmail)
	}
	if len(adminPassword) < validation.MinPasswordLength {
		log.Fatalf("ADMIN_PASSWORD must be at least %d characters", validation.MinPasswordLength)
	}

	db, err := repositories.InitDB(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		sqlDB, err := db.DB()
		if err != nil {
			log.Printf("⚠️ Failed to get SQL DB instance: %v", err)
			return
		}
		if err := sqlDB.Close(); err != nil {
			log.Printf("⚠️ Failed to close PostgreSQL connection: %v", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	users := repositories.NewUserRepository(db)

	existing, err := users.GetActiveByEmail(ctx, adminEmail)
	switch {
	case err == nil:
		if existing.Role == models.RoleSuperAdmin {
			log.Println("Super admin already exists")
			return
		}
		if err := users.UpdateFields(ctx, existing.ID, map[string]interface{}{
			"role":      models.RoleSuperAdmin,
			"is_active": true,
		}); err != nil {
			log.Fatalf("Failed to promote %s: %v", adminEmail, err)
		}
		log.Printf("✅ %s promoted to super admin", adminEmail)
		return
	case !errors.Is(err, repositories.ErrNotFound):
		log.Fatalf("Failed to look up %s: %v", adminEmail, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	adminUser := &models.User{
		Email:               adminEmail,
		PasswordHash:        string(hashedPassword),
		Name:                adminName,
		Role:                models.RoleSuperAdmin,
		IsActive:            true,
		OnboardingStep:      models.OnboardingFinalStep,
		OnboardingCompleted: true,
	}
	if err := users.Create(ctx, adminUser); err != nil {
		log.Fatal("Failed to create admin user:", err)
	}

	log.Println("✅ Super admin account created successfully!")
}
