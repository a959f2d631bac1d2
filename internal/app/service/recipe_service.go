package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/avoronova/recipehub-backend/internal/app/model"
	"github.com/avoronova/recipehub-backend/internal/app/repository"
	"github.com/avoronova/recipehub-backend/internal/storage"
	"github.com/avoronova/recipehub-backend/pkg/logger"
	"github.com/avoronova/recipehub-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrRecipeNotFound  = errors.New("recipe not found")
	ErrNotRecipeAuthor = errors.New("only the author can modify this recipe")
)

// IngredientAmountInput is one ingredient line of a recipe write request.
type IngredientAmountInput struct {
	IngredientID uint `json:"id"`
	Amount       int  `json:"amount"`
}

// RecipeInput carries the write payload for creating or updating a recipe.
// Image is a base64 data URI; on update an empty Image keeps the stored one.
type RecipeInput struct {
	Name        string
	Text        string
	Image       string
	CookingTime int
	TagIDs      []uint
	Ingredients []IngredientAmountInput
}

type RecipeService interface {
	CreateRecipe(ctx context.Context, authorID uint, input RecipeInput) (*model.Recipe, error)
	GetRecipe(id uint, viewerID *uint) (*model.Recipe, error)
	ListRecipes(filter repository.RecipeFilter) ([]model.Recipe, int64, error)
	UpdateRecipe(ctx context.Context, userID, recipeID uint, input RecipeInput) (*model.Recipe, error)
	DeleteRecipe(ctx context.Context, userID, recipeID uint) error
	GetRecipeLink(id uint) (string, error)
}

type recipeService struct {
	recipeRepo     repository.RecipeRepository
	tagRepo        repository.TagRepository
	ingredientRepo repository.IngredientRepository
	images         storage.ImageStorage
	baseURL        string
}

func NewRecipeService(
	recipeRepo repository.RecipeRepository,
	tagRepo repository.TagRepository,
	ingredientRepo repository.IngredientRepository,
	images storage.ImageStorage,
	baseURL string,
) RecipeService {
	return &recipeService{
		recipeRepo:     recipeRepo,
		tagRepo:        tagRepo,
		ingredientRepo: ingredientRepo,
		images:         images,
		baseURL:        strings.TrimRight(baseURL, "/"),
	}
}

func (s *recipeService) CreateRecipe(ctx context.Context, authorID uint, input RecipeInput) (*model.Recipe, error) {
	logger.Info("Creating recipe", map[string]interface{}{
		"author_id": authorID,
		"name":      input.Name,
	})

	tags, lines, err := s.validateInput(input, true)
	if err != nil {
		return nil, err
	}

	imageURL, err := s.uploadImage(ctx, input.Image)
	if err != nil {
		return nil, err
	}

	recipe := &model.Recipe{
		AuthorID:    authorID,
		Name:        input.Name,
		Image:       imageURL,
		Text:        input.Text,
		CookingTime: input.CookingTime,
		Tags:        tags,
		Ingredients: lines,
	}

	if err := s.recipeRepo.Create(recipe); err != nil {
		logger.Error("Failed to create recipe", err, map[string]interface{}{
			"author_id": authorID,
		})
		return nil, err
	}

	logger.Info("Recipe created", map[string]interface{}{
		"recipe_id": recipe.ID,
		"author_id": authorID,
	})
	return s.GetRecipe(recipe.ID, &authorID)
}

func (s *recipeService) GetRecipe(id uint, viewerID *uint) (*model.Recipe, error) {
	recipe, err := s.recipeRepo.FindByID(id, viewerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return recipe, nil
}

func (s *recipeService) ListRecipes(filter repository.RecipeFilter) ([]model.Recipe, int64, error) {
	recipes, err := s.recipeRepo.FindWithFilter(filter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.recipeRepo.CountWithFilter(filter)
	if err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// UpdateRecipe validates the full replacement payload before touching the
// stored recipe, so a rejected update leaves the previous state unchanged.
func (s *recipeService) UpdateRecipe(ctx context.Context, userID, recipeID uint, input RecipeInput) (*model.Recipe, error) {
	logger.Info("Updating recipe", map[string]interface{}{
		"recipe_id": recipeID,
		"user_id":   userID,
	})

	existing, err := s.GetRecipe(recipeID, nil)
	if err != nil {
		return nil, err
	}

	if existing.AuthorID != userID {
		logger.Warn("Recipe update rejected: not the author", map[string]interface{}{
			"recipe_id": recipeID,
			"user_id":   userID,
			"author_id": existing.AuthorID,
		})
		return nil, ErrNotRecipeAuthor
	}

	tags, lines, err := s.validateInput(input, false)
	if err != nil {
		return nil, err
	}

	imageURL := existing.Image
	if input.Image != "" {
		imageURL, err = s.uploadImage(ctx, input.Image)
		if err != nil {
			return nil, err
		}
	}

	updated := &model.Recipe{
		ID:          recipeID,
		AuthorID:    existing.AuthorID,
		Name:        input.Name,
		Image:       imageURL,
		Text:        input.Text,
		CookingTime: input.CookingTime,
		Tags:        tags,
		Ingredients: lines,
	}

	if err := s.recipeRepo.Update(updated); err != nil {
		logger.Error("Failed to update recipe", err, map[string]interface{}{
			"recipe_id": recipeID,
		})
		return nil, err
	}

	logger.Info("Recipe updated", map[string]interface{}{
		"recipe_id": recipeID,
	})
	return s.GetRecipe(recipeID, &userID)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, userID, recipeID uint) error {
	logger.Info("Deleting recipe", map[string]interface{}{
		"recipe_id": recipeID,
		"user_id":   userID,
	})

	existing, err := s.GetRecipe(recipeID, nil)
	if err != nil {
		return err
	}

	if existing.AuthorID != userID {
		logger.Warn("Recipe delete rejected: not the author", map[string]interface{}{
			"recipe_id": recipeID,
			"user_id":   userID,
			"author_id": existing.AuthorID,
		})
		return ErrNotRecipeAuthor
	}

	if err := s.recipeRepo.Delete(recipeID); err != nil {
		return err
	}

	if existing.Image != "" {
		if err := s.images.DeleteImage(ctx, existing.Image); err != nil {
			logger.Warn("Failed to delete recipe image from storage", map[string]interface{}{
				"recipe_id": recipeID,
				"error":     err.Error(),
			})
		}
	}

	logger.Info("Recipe deleted", map[string]interface{}{
		"recipe_id": recipeID,
	})
	return nil
}

// GetRecipeLink returns the canonical share URL for an existing recipe.
func (s *recipeService) GetRecipeLink(id uint) (string, error) {
	if _, err := s.GetRecipe(id, nil); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/recipes/%d", s.baseURL, id), nil
}

// validateInput checks the write payload and resolves tag and ingredient IDs
// against the catalog. It returns the resolved tags and ingredient lines ready
// for persistence.
func (s *recipeService) validateInput(input RecipeInput, requireImage bool) ([]model.Tag, []model.RecipeIngredient, error) {
	fields := FieldErrors{}

	if strings.TrimSpace(input.Name) == "" {
		fields["name"] = "name is required"
	} else if len(input.Name) > 200 {
		fields["name"] = "name must be at most 200 characters"
	}
	if strings.TrimSpace(input.Text) == "" {
		fields["text"] = "text is required"
	}
	if input.CookingTime < 1 {
		fields["cooking_time"] = "cooking time must be at least 1 minute"
	}
	if requireImage && input.Image == "" {
		fields["image"] = "image is required"
	}

	if len(input.TagIDs) == 0 {
		fields["tags"] = "at least one tag is required"
	} else if hasDuplicateIDs(input.TagIDs) {
		fields["tags"] = "tags must not repeat"
	}

	if len(input.Ingredients) == 0 {
		fields["ingredients"] = "at least one ingredient is required"
	} else {
		ingredientIDs := make([]uint, 0, len(input.Ingredients))
		for _, line := range input.Ingredients {
			ingredientIDs = append(ingredientIDs, line.IngredientID)
			if line.Amount < 1 {
				fields["ingredients"] = "ingredient amounts must be at least 1"
			}
		}
		if _, ok := fields["ingredients"]; !ok && hasDuplicateIDs(ingredientIDs) {
			fields["ingredients"] = "ingredients must not repeat"
		}
	}

	if len(fields) > 0 {
		return nil, nil, newValidationError(fields)
	}

	tags, err := s.tagRepo.FindByIDs(input.TagIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(tags) != len(input.TagIDs) {
		return nil, nil, newValidationError(FieldErrors{
			"tags": "one or more tags do not exist",
		})
	}

	ingredientIDs := make([]uint, 0, len(input.Ingredients))
	for _, line := range input.Ingredients {
		ingredientIDs = append(ingredientIDs, line.IngredientID)
	}
	ingredients, err := s.ingredientRepo.FindByIDs(ingredientIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(ingredients) != len(input.Ingredients) {
		return nil, nil, newValidationError(FieldErrors{
			"ingredients": "one or more ingredients do not exist",
		})
	}

	lines := make([]model.RecipeIngredient, 0, len(input.Ingredients))
	for _, line := range input.Ingredients {
		lines = append(lines, model.RecipeIngredient{
			IngredientID: line.IngredientID,
			Amount:       line.Amount,
		})
	}
	return tags, lines, nil
}

func (s *recipeService) uploadImage(ctx context.Context, dataURI string) (string, error) {
	data, contentType, ext, err := util.DecodeImageDataURI(dataURI)
	if err != nil {
		logger.Warn("Rejected recipe image: invalid image data", nil)
		return "", newValidationError(FieldErrors{
			"image": "image must be a base64 data URI",
		})
	}

	url, err := s.images.UploadImage(ctx, "recipes", data, contentType, ext)
	if err != nil {
		logger.Error("Failed to upload recipe image", err, nil)
		return "", err
	}
	return url, nil
}

func hasDuplicateIDs(ids []uint) bool {
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}
