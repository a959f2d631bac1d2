package service

import (
	"errors"

	"github.com/avoronova/recipehub-backend/internal/app/model"
	"github.com/avoronova/recipehub-backend/internal/app/repository"
	"github.com/avoronova/recipehub-backend/pkg/logger"
)

var (
	ErrAlreadyFavorited = errors.New("recipe already favorited")
	ErrFavoriteNotFound = errors.New("recipe is not in favorites")
)

type FavoriteService interface {
	AddFavorite(userID, recipeID uint) (*model.Recipe, error)
	RemoveFavorite(userID, recipeID uint) error
}

type favoriteService struct {
	favoriteRepo repository.FavoriteRepository
	recipeRepo   repository.RecipeRepository
}

func NewFavoriteService(
	favoriteRepo repository.FavoriteRepository,
	recipeRepo repository.RecipeRepository,
) FavoriteService {
	return &favoriteService{
		favoriteRepo: favoriteRepo,
		recipeRepo:   recipeRepo,
	}
}

// AddFavorite marks the recipe as a favorite and returns it for the short
// response representation.
func (s *favoriteService) AddFavorite(userID, recipeID uint) (*model.Recipe, error) {
	logger.Info("Adding favorite", map[string]interface{}{
		"user_id":   userID,
		"recipe_id": recipeID,
	})

	recipe, err := s.recipeRepo.FindByID(recipeID, nil)
	if err != nil {
		return nil, ErrRecipeNotFound
	}

	exists, err := s.favoriteRepo.Exists(userID, recipeID)
	if err != nil {
		return nil, err
	}
	if exists {
		logger.Warn("Add favorite rejected: already favorited", map[string]interface{}{
			"user_id":   userID,
			"recipe_id": recipeID,
		})
		return nil, ErrAlreadyFavorited
	}

	favorite := &model.Favorite{
		UserID:   userID,
		RecipeID: recipeID,
	}
	if err := s.favoriteRepo.Create(favorite); err != nil {
		return nil, err
	}

	logger.Info("Favorite added", map[string]interface{}{
		"user_id":   userID,
		"recipe_id": recipeID,
	})
	return recipe, nil
}

func (s *favoriteService) RemoveFavorite(userID, recipeID uint) error {
	logger.Info("Removing favorite", map[string]interface{}{
		"user_id":   userID,
		"recipe_id": recipeID,
	})

	if _, err := s.recipeRepo.FindByID(recipeID, nil); err != nil {
		return ErrRecipeNotFound
	}

	rows, err := s.favoriteRepo.Delete(userID, recipeID)
	if err != nil {
		return err
	}
	if rows == 0 {
		logger.Warn("Remove favorite rejected: not favorited", map[string]interface{}{
			"user_id":   userID,
			"recipe_id": recipeID,
		})
		return ErrFavoriteNotFound
	}
	return nil
}
