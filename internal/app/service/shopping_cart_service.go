package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/avoronova/recipehub-backend/internal/app/model"
	"github.com/avoronova/recipehub-backend/internal/app/repository"
	"github.com/avoronova/recipehub-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

var (
	ErrAlreadyInCart = errors.New("recipe already in shopping cart")
	ErrCartNotFound  = errors.New("recipe is not in shopping cart")
)

type ShoppingCartService interface {
	AddToCart(userID, recipeID uint) (*model.Recipe, error)
	RemoveFromCart(userID, recipeID uint) error
	ShoppingList(userID uint) ([]repository.ShoppingListItem, error)
	RenderText(items []repository.ShoppingListItem) string
	RenderXLSX(items []repository.ShoppingListItem) ([]byte, error)
}

type shoppingCartService struct {
	cartRepo   repository.ShoppingCartRepository
	recipeRepo repository.RecipeRepository
}

func NewShoppingCartService(
	cartRepo repository.ShoppingCartRepository,
	recipeRepo repository.RecipeRepository,
) ShoppingCartService {
	return &shoppingCartService{
		cartRepo:   cartRepo,
		recipeRepo: recipeRepo,
	}
}

func (s *shoppingCartService) AddToCart(userID, recipeID uint) (*model.Recipe, error) {
	logger.Info("Adding recipe to shopping cart", map[string]interface{}{
		"user_id":   userID,
		"recipe_id": recipeID,
	})

	recipe, err := s.recipeRepo.FindByID(recipeID, nil)
	if err != nil {
		return nil, ErrRecipeNotFound
	}

	exists, err := s.cartRepo.Exists(userID, recipeID)
	if err != nil {
		return nil, err
	}
	if exists {
		logger.Warn("Add to cart rejected: already in cart", map[string]interface{}{
			"user_id":   userID,
			"recipe_id": recipeID,
		})
		return nil, ErrAlreadyInCart
	}

	entry := &model.ShoppingCartEntry{
		UserID:   userID,
		RecipeID: recipeID,
	}
	if err := s.cartRepo.Create(entry); err != nil {
		return nil, err
	}

	logger.Info("Recipe added to shopping cart", map[string]interface{}{
		"user_id":   userID,
		"recipe_id": recipeID,
	})
	return recipe, nil
}

func (s *shoppingCartService) RemoveFromCart(userID, recipeID uint) error {
	logger.Info("Removing recipe from shopping cart", map[string]interface{}{
		"user_id":   userID,
		"recipe_id": recipeID,
	})

	if _, err := s.recipeRepo.FindByID(recipeID, nil); err != nil {
		return ErrRecipeNotFound
	}

	rows, err := s.cartRepo.Delete(userID, recipeID)
	if err != nil {
		return err
	}
	if rows == 0 {
		logger.Warn("Remove from cart rejected: not in cart", map[string]interface{}{
			"user_id":   userID,
			"recipe_id": recipeID,
		})
		return ErrCartNotFound
	}
	return nil
}

// ShoppingList returns the user's aggregated ingredient lines, one per
// (name, unit) pair, ordered by name.
func (s *shoppingCartService) ShoppingList(userID uint) ([]repository.ShoppingListItem, error) {
	return s.cartRepo.AggregateShoppingList(userID)
}

// RenderText renders the aggregated list as plain text, one ingredient per
// line in "name (unit) total" form.
func (s *shoppingCartService) RenderText(items []repository.ShoppingListItem) string {
	var b strings.Builder
	b.WriteString("Shopping list\n\n")
	for _, item := range items {
		fmt.Fprintf(&b, "%s (%s) %d\n", item.Name, item.MeasurementUnit, item.Total)
	}
	return b.String()
}

// RenderXLSX renders the aggregated list as an XLSX workbook with a header row.
func (s *shoppingCartService) RenderXLSX(items []repository.ShoppingListItem) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Shopping list"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headers := []string{"Ingredient", "Unit", "Amount"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for row, item := range items {
		values := []interface{}{item.Name, item.MeasurementUnit, item.Total}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		logger.Error("Failed to render shopping list workbook", err, nil)
		return nil, err
	}
	return buf.Bytes(), nil
}
