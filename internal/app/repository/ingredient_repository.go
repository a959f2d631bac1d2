package repository

import (
	"strings"

	"github.com/avoronova/recipehub-backend/internal/app/model"
	"github.com/avoronova/recipehub-backend/pkg/logger"
	"gorm.io/gorm"
)

type IngredientRepository interface {
	Search(namePrefix string) ([]model.Ingredient, error)
	FindByID(id uint) (*model.Ingredient, error)
	FindByIDs(ids []uint) ([]model.Ingredient, error)
	Create(ingredient *model.Ingredient) error
	BulkCreate(ingredients []model.Ingredient, batchSize int) error
	Count() (int64, error)
}

type ingredientRepository struct {
	db *gorm.DB
}

func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

// Search matches ingredient names case-insensitively by prefix. LOWER+LIKE
// behaves the same on SQLite and Postgres, unlike ILIKE.
func (r *ingredientRepository) Search(namePrefix string) ([]model.Ingredient, error) {
	query := r.db.Model(&model.Ingredient{})
	if namePrefix != "" {
		query = query.Where("LOWER(name) LIKE ?", strings.ToLower(namePrefix)+"%")
	}

	var ingredients []model.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		logger.Error("Failed to search ingredients in database", err, map[string]interface{}{
			"name_prefix": namePrefix,
		})
		return nil, err
	}
	return ingredients, nil
}

func (r *ingredientRepository) FindByID(id uint) (*model.Ingredient, error) {
	var ingredient model.Ingredient
	if err := r.db.First(&ingredient, id).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (r *ingredientRepository) FindByIDs(ids []uint) ([]model.Ingredient, error) {
	var ingredients []model.Ingredient
	if err := r.db.Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		logger.Error("Failed to find ingredients by IDs in database", err, map[string]interface{}{
			"ingredient_ids": ids,
		})
		return nil, err
	}
	return ingredients, nil
}

func (r *ingredientRepository) Create(ingredient *model.Ingredient) error {
	if err := r.db.Create(ingredient).Error; err != nil {
		logger.Error("Failed to create ingredient in database", err, map[string]interface{}{
			"name": ingredient.Name,
		})
		return err
	}
	return nil
}

// BulkCreate inserts the catalog in batches; used by the seed importer.
func (r *ingredientRepository) BulkCreate(ingredients []model.Ingredient, batchSize int) error {
	if len(ingredients) == 0 {
		return nil
	}

	if err := r.db.CreateInBatches(ingredients, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create ingredients in database", err, map[string]interface{}{
			"count": len(ingredients),
		})
		return err
	}
	return nil
}

func (r *ingredientRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&model.Ingredient{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
