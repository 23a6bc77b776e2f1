package db

import (
	"agency-workspace/internal/domain"
	appLogger "agency-workspace/internal/logger"
	"agency-workspace/internal/user"
	"context"
)

// Migrate runs database migrations
func Migrate() {
	err := AppDb.AutoMigrate(
		&domain.User{},
		&domain.Page{},
		&domain.Block{},
		&domain.Task{},
		&domain.LeaveRequest{},
		&domain.Invoice{},
		&domain.InvoiceItem{},
		&domain.Conversation{},
		&domain.Message{},
		&domain.AttendanceRecord{},
	)
	if err != nil {
		appLogger.Log.Fatal().Err(err).Msg("database migration failed")
	}

	appLogger.Log.Info().Msg("database schema migrated")
}

// SeedData creates an initial account for development. The first registered
// user becomes admin, so the seed user doubles as the bootstrap admin.
func SeedData() {
	ctx := context.Background()
	userRepo := user.NewRepository(AppDb)

	seed := &domain.User{
		Name:     "Dev Admin",
		Email:    "admin@example.com",
		Password: "password123",
	}

	if _, err := userRepo.FindByEmail(ctx, seed.Email); err == nil {
		appLogger.Log.Info().Str("email", seed.Email).Msg("seed user already exists")
		return
	}

	userService := user.NewService(userRepo)
	if err := userService.Register(ctx, seed); err != nil {
		appLogger.Log.Error().Err(err).Msg("failed to create seed user")
		return
	}
	appLogger.Log.Info().Str("email", seed.Email).Str("role", seed.Role).Msg("created seed user")
}
