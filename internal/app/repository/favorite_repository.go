package repository

import (
	"github.com/avoronova/recipehub-backend/internal/app/model"
	"github.com/avoronova/recipehub-backend/pkg/logger"
	"gorm.io/gorm"
)

// RecipeFavoriteCount pairs a recipe with how many users favorited it.
type RecipeFavoriteCount struct {
	RecipeID uint  `json:"recipe_id"`
	Count    int64 `json:"count"`
}

type FavoriteRepository interface {
	Create(favorite *model.Favorite) error
	Delete(userID, recipeID uint) (int64, error)
	Exists(userID, recipeID uint) (bool, error)
	TopRecipes(limit int) ([]RecipeFavoriteCount, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Create(favorite *model.Favorite) error {
	logger.Debug("Creating favorite in database", map[string]interface{}{
		"user_id":   favorite.UserID,
		"recipe_id": favorite.RecipeID,
	})

	if err := r.db.Create(favorite).Error; err != nil {
		logger.Error("Failed to create favorite in database", err, map[string]interface{}{
			"user_id":   favorite.UserID,
			"recipe_id": favorite.RecipeID,
		})
		return err
	}
	return nil
}

// Delete removes the favorite and reports how many rows were removed.
func (r *favoriteRepository) Delete(userID, recipeID uint) (int64, error) {
	result := r.db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&model.Favorite{})
	if result.Error != nil {
		logger.Error("Failed to delete favorite from database", result.Error, map[string]interface{}{
			"user_id":   userID,
			"recipe_id": recipeID,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *favoriteRepository) Exists(userID, recipeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Favorite{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// TopRecipes returns recipe IDs ranked by favorite count.
func (r *favoriteRepository) TopRecipes(limit int) ([]RecipeFavoriteCount, error) {
	var counts []RecipeFavoriteCount
	err := r.db.Model(&model.Favorite{}).
		Select("favorites.recipe_id AS recipe_id, COUNT(*) AS count").
		Group("favorites.recipe_id").
		Order("count DESC, favorites.recipe_id DESC").
		Limit(limit).
		Scan(&counts).Error
	if err != nil {
		logger.Error("Failed to rank recipes by favorites in database", err, nil)
		return nil, err
	}
	return counts, nil
}
