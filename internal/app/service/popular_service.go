package service

import (
	"context"
	"time"

	"github.com/avoronova/recipehub-backend/internal/app/model"
	"github.com/avoronova/recipehub-backend/internal/app/repository"
	"github.com/avoronova/recipehub-backend/pkg/logger"
	"github.com/avoronova/recipehub-backend/pkg/redis"
)

const (
	popularRecipesCacheKey = "popular:recipes"
	popularRecipesCacheTTL = time.Hour
	defaultPopularLimit    = 10
)

// PopularService ranks recipes by favorite count. The ranked ID list is cached
// in Redis and refreshed by the scheduler; without Redis every call falls
// through to the database.
type PopularService interface {
	PopularRecipes(ctx context.Context, limit int) ([]model.Recipe, error)
	Refresh(ctx context.Context) error
}

type popularService struct {
	favoriteRepo repository.FavoriteRepository
	recipeRepo   repository.RecipeRepository
}

func NewPopularService(
	favoriteRepo repository.FavoriteRepository,
	recipeRepo repository.RecipeRepository,
) PopularService {
	return &popularService{
		favoriteRepo: favoriteRepo,
		recipeRepo:   recipeRepo,
	}
}

func (s *popularService) PopularRecipes(ctx context.Context, limit int) ([]model.Recipe, error) {
	if limit <= 0 || limit > defaultPopularLimit {
		limit = defaultPopularLimit
	}

	var rankedIDs []uint
	hit, err := redis.GetJSON(ctx, popularRecipesCacheKey, &rankedIDs)
	if err != nil {
		logger.Warn("Popular recipes cache read failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if !hit {
		rankedIDs, err = s.rankedIDs(limit)
		if err != nil {
			return nil, err
		}
	}
	if len(rankedIDs) > limit {
		rankedIDs = rankedIDs[:limit]
	}

	recipes, err := s.recipeRepo.FindByIDs(rankedIDs)
	if err != nil {
		return nil, err
	}

	// FindByIDs does not preserve order; restore the ranking.
	byID := make(map[uint]model.Recipe, len(recipes))
	for _, recipe := range recipes {
		byID[recipe.ID] = recipe
	}
	ordered := make([]model.Recipe, 0, len(rankedIDs))
	for _, id := range rankedIDs {
		if recipe, ok := byID[id]; ok {
			ordered = append(ordered, recipe)
		}
	}
	return ordered, nil
}

// Refresh recomputes the ranking and rewrites the cache entry.
func (s *popularService) Refresh(ctx context.Context) error {
	logger.Info("Refreshing popular recipes cache", nil)

	rankedIDs, err := s.rankedIDs(defaultPopularLimit)
	if err != nil {
		return err
	}

	if err := redis.SetJSON(ctx, popularRecipesCacheKey, rankedIDs, popularRecipesCacheTTL); err != nil {
		logger.Error("Failed to write popular recipes cache", err, nil)
		return err
	}

	logger.Info("Popular recipes cache refreshed", map[string]interface{}{
		"recipes": len(rankedIDs),
	})
	return nil
}

func (s *popularService) rankedIDs(limit int) ([]uint, error) {
	counts, err := s.favoriteRepo.TopRecipes(limit)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(counts))
	for _, count := range counts {
		ids = append(ids, count.RecipeID)
	}
	return ids, nil
}
