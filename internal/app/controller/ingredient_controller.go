package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avoronova/recipehub-backend/internal/app/service"
	apperrors "github.com/avoronova/recipehub-backend/internal/errors"
	"github.com/avoronova/recipehub-backend/internal/middleware"
)

type IngredientController struct {
	ingredientService service.IngredientService
}

func NewIngredientController(ingredientService service.IngredientService) *IngredientController {
	return &IngredientController{ingredientService: ingredientService}
}

// ListIngredients searches the ingredient catalog by name prefix
// GET /api/v1/ingredients?name=
func (ctrl *IngredientController) ListIngredients(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	ingredients, err := ctrl.ingredientService.SearchIngredients(c.Query("name"))
	if err != nil {
		log.Error("Failed to search ingredients", err, map[string]interface{}{
			"name": c.Query("name"),
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "search ingredients")
		return
	}

	responses := make([]IngredientResponse, 0, len(ingredients))
	for _, ingredient := range ingredients {
		responses = append(responses, toIngredientResponse(ingredient))
	}

	c.JSON(http.StatusOK, gin.H{
		"ingredients": responses,
	})
}

// GetIngredient returns one ingredient
// GET /api/v1/ingredients/:id
func (ctrl *IngredientController) GetIngredient(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	ingredientID, ok := parseIDParam(c, "id")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid ingredient ID")
		return
	}

	ingredient, err := ctrl.ingredientService.GetIngredient(ingredientID)
	if err != nil {
		if errors.Is(err, service.ErrIngredientNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Ingredient not found")
			return
		}
		log.Error("Failed to get ingredient", err, map[string]interface{}{
			"ingredient_id": ingredientID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get ingredient")
		return
	}

	c.JSON(http.StatusOK, toIngredientResponse(*ingredient))
}
