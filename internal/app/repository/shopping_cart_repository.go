package repository

import (
	"github.com/avoronova/recipehub-backend/internal/app/model"
	"github.com/avoronova/recipehub-backend/pkg/logger"
	"gorm.io/gorm"
)

// ShoppingListItem is one aggregated line of a user's shopping list.
type ShoppingListItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Total           int64  `json:"total"`
}

type ShoppingCartRepository interface {
	Create(entry *model.ShoppingCartEntry) error
	Delete(userID, recipeID uint) (int64, error)
	Exists(userID, recipeID uint) (bool, error)
	AggregateShoppingList(userID uint) ([]ShoppingListItem, error)
}

type shoppingCartRepository struct {
	db *gorm.DB
}

func NewShoppingCartRepository(db *gorm.DB) ShoppingCartRepository {
	return &shoppingCartRepository{db: db}
}

func (r *shoppingCartRepository) Create(entry *model.ShoppingCartEntry) error {
	logger.Debug("Creating shopping cart entry in database", map[string]interface{}{
		"user_id":   entry.UserID,
		"recipe_id": entry.RecipeID,
	})

	if err := r.db.Create(entry).Error; err != nil {
		logger.Error("Failed to create shopping cart entry in database", err, map[string]interface{}{
			"user_id":   entry.UserID,
			"recipe_id": entry.RecipeID,
		})
		return err
	}
	return nil
}

// Delete removes the cart entry and reports how many rows were removed.
func (r *shoppingCartRepository) Delete(userID, recipeID uint) (int64, error) {
	result := r.db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&model.ShoppingCartEntry{})
	if result.Error != nil {
		logger.Error("Failed to delete shopping cart entry from database", result.Error, map[string]interface{}{
			"user_id":   userID,
			"recipe_id": recipeID,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *shoppingCartRepository) Exists(userID, recipeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.ShoppingCartEntry{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AggregateShoppingList reduces every ingredient line of the user's cart
// recipes into one row per (name, unit) with summed amounts. A single GROUP BY
// query keeps the cost flat as the cart grows; amounts are integers so the
// sums are exact.
func (r *shoppingCartRepository) AggregateShoppingList(userID uint) ([]ShoppingListItem, error) {
	logger.Debug("Aggregating shopping list in database", map[string]interface{}{
		"user_id": userID,
	})

	var items []ShoppingListItem
	err := r.db.Model(&model.RecipeIngredient{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_cart_entries ON shopping_cart_entries.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_cart_entries.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name ASC").
		Scan(&items).Error
	if err != nil {
		logger.Error("Failed to aggregate shopping list in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Shopping list aggregated in database", map[string]interface{}{
		"user_id": userID,
		"lines":   len(items),
	})
	return items, nil
}
