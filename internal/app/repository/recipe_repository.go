package repository

import (
	"github.com/avoronova/recipehub-backend/internal/app/model"
	"github.com/avoronova/recipehub-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecipeFilter describes the recipe result set visible to a caller.
// ViewerID drives both the membership filters and the annotation flags;
// it is nil for anonymous callers, for whom membership filters are no-ops.
type RecipeFilter struct {
	AuthorID      *uint
	TagSlugs      []string
	OnlyFavorited bool
	OnlyInCart    bool
	ViewerID      *uint
	Limit         int
	Offset        int
}

type RecipeRepository interface {
	Create(recipe *model.Recipe) error
	FindWithFilter(filter RecipeFilter) ([]model.Recipe, error)
	CountWithFilter(filter RecipeFilter) (int64, error)
	FindByID(id uint, viewerID *uint) (*model.Recipe, error)
	Update(recipe *model.Recipe) error
	Delete(id uint) error
	FindByAuthorID(authorID uint, limit int) ([]model.Recipe, error)
	CountByAuthorID(authorID uint) (int64, error)
	FindByIDs(ids []uint) ([]model.Recipe, error)
}

type recipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

// Create inserts the recipe together with its ingredient lines and tag links
// in one transaction, so a rejected line leaves no partial recipe behind.
func (r *recipeRepository) Create(recipe *model.Recipe) error {
	logger.Debug("Creating recipe in database", map[string]interface{}{
		"author_id":   recipe.AuthorID,
		"name":        recipe.Name,
		"tags":        len(recipe.Tags),
		"ingredients": len(recipe.Ingredients),
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		tags := recipe.Tags
		lines := recipe.Ingredients
		recipe.Tags = nil
		recipe.Ingredients = nil

		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return err
		}

		for i := range lines {
			lines[i].RecipeID = recipe.ID
		}
		if err := tx.Create(&lines).Error; err != nil {
			return err
		}

		if err := tx.Model(recipe).Association("Tags").Append(&tags); err != nil {
			return err
		}

		recipe.Tags = tags
		recipe.Ingredients = lines
		return nil
	})
	if err != nil {
		logger.Error("Failed to create recipe in database", err, map[string]interface{}{
			"author_id": recipe.AuthorID,
			"name":      recipe.Name,
		})
		return err
	}

	logger.Debug("Recipe created in database", map[string]interface{}{
		"recipe_id": recipe.ID,
	})
	return nil
}

// baseQuery preloads the nested read representation and, for authenticated
// viewers, selects the favorite/cart membership flags as EXISTS subqueries in
// the same statement.
func (r *recipeRepository) baseQuery(viewerID *uint) *gorm.DB {
	query := r.db.Model(&model.Recipe{}).
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tags.id ASC")
		}).
		Preload("Ingredients").
		Preload("Ingredients.Ingredient")

	if viewerID != nil {
		query = query.Select(
			"recipes.*, "+
				"EXISTS(SELECT 1 FROM favorites WHERE favorites.user_id = ? AND favorites.recipe_id = recipes.id) AS is_favorited, "+
				"EXISTS(SELECT 1 FROM shopping_cart_entries WHERE shopping_cart_entries.user_id = ? AND shopping_cart_entries.recipe_id = recipes.id) AS is_in_shopping_cart",
			*viewerID, *viewerID,
		)
	} else {
		query = query.Select("recipes.*")
	}
	return query
}

// applyFilter attaches the WHERE clauses shared by list and count queries.
// Every membership condition is an EXISTS subquery, so recipes never
// duplicate even when several of their tags match.
func applyFilter(query *gorm.DB, filter RecipeFilter) *gorm.DB {
	if filter.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *filter.AuthorID)
	}

	if len(filter.TagSlugs) > 0 {
		query = query.Where(
			"EXISTS(SELECT 1 FROM recipe_tags JOIN tags ON tags.id = recipe_tags.tag_id WHERE recipe_tags.recipe_id = recipes.id AND tags.slug IN ?)",
			filter.TagSlugs,
		)
	}

	// Membership filters only apply for authenticated viewers; anonymous
	// callers see the unfiltered set.
	if filter.ViewerID != nil {
		if filter.OnlyFavorited {
			query = query.Where(
				"EXISTS(SELECT 1 FROM favorites WHERE favorites.user_id = ? AND favorites.recipe_id = recipes.id)",
				*filter.ViewerID,
			)
		}
		if filter.OnlyInCart {
			query = query.Where(
				"EXISTS(SELECT 1 FROM shopping_cart_entries WHERE shopping_cart_entries.user_id = ? AND shopping_cart_entries.recipe_id = recipes.id)",
				*filter.ViewerID,
			)
		}
	}

	return query
}

func (r *recipeRepository) FindWithFilter(filter RecipeFilter) ([]model.Recipe, error) {
	logger.Debug("Finding recipes with filter", map[string]interface{}{
		"author_id":      filter.AuthorID,
		"tag_slugs":      filter.TagSlugs,
		"only_favorited": filter.OnlyFavorited,
		"only_in_cart":   filter.OnlyInCart,
		"limit":          filter.Limit,
		"offset":         filter.Offset,
	})

	query := applyFilter(r.baseQuery(filter.ViewerID), filter).
		Order("recipes.id DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var recipes []model.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		logger.Error("Failed to find recipes with filter", err, map[string]interface{}{
			"author_id": filter.AuthorID,
			"tag_slugs": filter.TagSlugs,
		})
		return nil, err
	}

	logger.Debug("Recipes found with filter", map[string]interface{}{
		"count": len(recipes),
	})
	return recipes, nil
}

func (r *recipeRepository) CountWithFilter(filter RecipeFilter) (int64, error) {
	var count int64
	query := applyFilter(r.db.Model(&model.Recipe{}), filter)
	if err := query.Count(&count).Error; err != nil {
		logger.Error("Failed to count recipes with filter", err, nil)
		return 0, err
	}
	return count, nil
}

func (r *recipeRepository) FindByID(id uint, viewerID *uint) (*model.Recipe, error) {
	var recipe model.Recipe
	err := r.baseQuery(viewerID).Where("recipes.id = ?", id).First(&recipe).Error
	if err != nil {
		logger.Error("Failed to find recipe by ID in database", err, map[string]interface{}{
			"recipe_id": id,
		})
		return nil, err
	}
	return &recipe, nil
}

// Update replaces the recipe's scalar fields and its entire ingredient and tag
// sets in one transaction. The join rows are deleted and recreated rather than
// patched; on any failure the previous sets are retained unchanged.
func (r *recipeRepository) Update(recipe *model.Recipe) error {
	logger.Debug("Updating recipe in database", map[string]interface{}{
		"recipe_id":   recipe.ID,
		"tags":        len(recipe.Tags),
		"ingredients": len(recipe.Ingredients),
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"name":         recipe.Name,
			"image":        recipe.Image,
			"text":         recipe.Text,
			"cooking_time": recipe.CookingTime,
		}
		if err := tx.Model(&model.Recipe{}).Where("id = ?", recipe.ID).Updates(updates).Error; err != nil {
			return err
		}

		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&model.RecipeIngredient{}).Error; err != nil {
			return err
		}
		lines := recipe.Ingredients
		for i := range lines {
			lines[i].RecipeID = recipe.ID
		}
		if err := tx.Create(&lines).Error; err != nil {
			return err
		}

		tags := recipe.Tags
		if err := tx.Model(recipe).Association("Tags").Replace(&tags); err != nil {
			return err
		}

		recipe.Ingredients = lines
		recipe.Tags = tags
		return nil
	})
	if err != nil {
		logger.Error("Failed to update recipe in database", err, map[string]interface{}{
			"recipe_id": recipe.ID,
		})
		return err
	}

	logger.Debug("Recipe updated in database", map[string]interface{}{
		"recipe_id": recipe.ID,
	})
	return nil
}

// Delete removes the recipe and all rows that reference it in one
// transaction. The cascade is explicit so behavior is identical on SQLite
// (tests) and Postgres.
func (r *recipeRepository) Delete(id uint) error {
	logger.Debug("Deleting recipe from database", map[string]interface{}{
		"recipe_id": id,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&model.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&model.ShoppingCartEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&model.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Recipe{}, id).Error
	})
	if err != nil {
		logger.Error("Failed to delete recipe from database", err, map[string]interface{}{
			"recipe_id": id,
		})
		return err
	}

	logger.Debug("Recipe deleted from database", map[string]interface{}{
		"recipe_id": id,
	})
	return nil
}

// FindByAuthorID returns the author's recipes, newest first, optionally capped.
func (r *recipeRepository) FindByAuthorID(authorID uint, limit int) ([]model.Recipe, error) {
	query := r.db.Model(&model.Recipe{}).
		Where("recipes.author_id = ?", authorID).
		Order("recipes.id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var recipes []model.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		logger.Error("Failed to find recipes by author in database", err, map[string]interface{}{
			"author_id": authorID,
		})
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) CountByAuthorID(authorID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Recipe{}).
		Where("recipes.author_id = ?", authorID).
		Count(&count).Error
	return count, err
}

// FindByIDs loads recipes preserving no particular order; used by the
// popular-recipes cache to hydrate ranked IDs.
func (r *recipeRepository) FindByIDs(ids []uint) ([]model.Recipe, error) {
	if len(ids) == 0 {
		return []model.Recipe{}, nil
	}

	var recipes []model.Recipe
	err := r.db.Model(&model.Recipe{}).
		Preload("Author").
		Where("recipes.id IN ?", ids).
		Find(&recipes).Error
	if err != nil {
		logger.Error("Failed to find recipes by IDs in database", err, nil)
		return nil, err
	}
	return recipes, nil
}
