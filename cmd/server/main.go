package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/avoronova/recipehub-backend/config"
	"github.com/avoronova/recipehub-backend/internal/app/controller"
	"github.com/avoronova/recipehub-backend/internal/app/repository"
	"github.com/avoronova/recipehub-backend/internal/app/service"
	"github.com/avoronova/recipehub-backend/internal/db"
	"github.com/avoronova/recipehub-backend/internal/middleware"
	"github.com/avoronova/recipehub-backend/internal/router"
	"github.com/avoronova/recipehub-backend/internal/scheduler"
	"github.com/avoronova/recipehub-backend/internal/storage"
	"github.com/avoronova/recipehub-backend/pkg/logger"
	"github.com/avoronova/recipehub-backend/pkg/redis"
	"github.com/avoronova/recipehub-backend/pkg/util"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting RecipeHub Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	util.SetPasswordCost(cfg.Server.BcryptCost)

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations and seed the fixed tag catalog
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis backs the token blacklist and the popular-recipes cache; the
	// server still works without it, so a failed connect only warns.
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, token revocation and caching disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()

	// Initialize image storage
	imageStorage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	followRepo := repository.NewFollowRepository(db.GetDB())
	tagRepo := repository.NewTagRepository(db.GetDB())
	ingredientRepo := repository.NewIngredientRepository(db.GetDB())
	recipeRepo := repository.NewRecipeRepository(db.GetDB())
	favoriteRepo := repository.NewFavoriteRepository(db.GetDB())
	cartRepo := repository.NewShoppingCartRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	userService := service.NewUserService(userRepo, imageStorage)
	subscriptionService := service.NewSubscriptionService(userRepo, followRepo, recipeRepo)
	tagService := service.NewTagService(tagRepo)
	ingredientService := service.NewIngredientService(ingredientRepo)
	recipeService := service.NewRecipeService(recipeRepo, tagRepo, ingredientRepo, imageStorage, cfg.Server.BaseURL)
	favoriteService := service.NewFavoriteService(favoriteRepo, recipeRepo)
	cartService := service.NewShoppingCartService(cartRepo, recipeRepo)
	popularService := service.NewPopularService(favoriteRepo, recipeRepo)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	userController := controller.NewUserController(userService, subscriptionService)
	tagController := controller.NewTagController(tagService)
	ingredientController := controller.NewIngredientController(ingredientService)
	recipeController := controller.NewRecipeController(
		recipeService,
		favoriteService,
		cartService,
		popularService,
		subscriptionService,
	)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Start the popular-recipes cache scheduler
	popularScheduler := scheduler.NewPopularRecipesScheduler(popularService)
	if err := popularScheduler.Start(); err != nil {
		logger.Warn("Popular recipes scheduler not running", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer popularScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		userController,
		tagController,
		ingredientController,
		recipeController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
