package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/avoronova/recipehub-backend/internal/app/model"
	"github.com/avoronova/recipehub-backend/internal/app/repository"
	"github.com/avoronova/recipehub-backend/internal/app/service"
	apperrors "github.com/avoronova/recipehub-backend/internal/errors"
	"github.com/avoronova/recipehub-backend/internal/middleware"
)

type RecipeController struct {
	recipeService       service.RecipeService
	favoriteService     service.FavoriteService
	cartService         service.ShoppingCartService
	popularService      service.PopularService
	subscriptionService service.SubscriptionService
}

func NewRecipeController(
	recipeService service.RecipeService,
	favoriteService service.FavoriteService,
	cartService service.ShoppingCartService,
	popularService service.PopularService,
	subscriptionService service.SubscriptionService,
) *RecipeController {
	return &RecipeController{
		recipeService:       recipeService,
		favoriteService:     favoriteService,
		cartService:         cartService,
		popularService:      popularService,
		subscriptionService: subscriptionService,
	}
}

type IngredientAmountRequest struct {
	ID     uint `json:"id" binding:"required"`
	Amount int  `json:"amount" binding:"required"`
}

type RecipeRequest struct {
	Name        string                    `json:"name"`
	Text        string                    `json:"text"`
	Image       string                    `json:"image"` // base64 data URI
	CookingTime int                       `json:"cooking_time"`
	Tags        []uint                    `json:"tags"`
	Ingredients []IngredientAmountRequest `json:"ingredients"`
}

func (req RecipeRequest) toInput() service.RecipeInput {
	ingredients := make([]service.IngredientAmountInput, 0, len(req.Ingredients))
	for _, line := range req.Ingredients {
		ingredients = append(ingredients, service.IngredientAmountInput{
			IngredientID: line.ID,
			Amount:       line.Amount,
		})
	}
	return service.RecipeInput{
		Name:        req.Name,
		Text:        req.Text,
		Image:       req.Image,
		CookingTime: req.CookingTime,
		TagIDs:      req.Tags,
		Ingredients: ingredients,
	}
}

// ListRecipes returns the filtered recipe listing
// GET /api/v1/recipes?author=&tags=&is_favorited=&is_in_shopping_cart=&page=&limit=
func (ctrl *RecipeController) ListRecipes(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	page, limit := parsePagination(c)
	filter := repository.RecipeFilter{
		TagSlugs:      parseSlugList(c.QueryArray("tags")),
		OnlyFavorited: parseBoolFlag(c.Query("is_favorited")),
		OnlyInCart:    parseBoolFlag(c.Query("is_in_shopping_cart")),
		ViewerID:      middleware.GetViewerID(c),
		Limit:         limit,
		Offset:        (page - 1) * limit,
	}

	if raw := c.Query("author"); raw != "" {
		authorID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid author ID")
			return
		}
		id := uint(authorID)
		filter.AuthorID = &id
	}

	recipes, total, err := ctrl.recipeService.ListRecipes(filter)
	if err != nil {
		log.Error("Failed to list recipes", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list recipes")
		return
	}

	responses, err := ctrl.toRecipeResponses(c, recipes)
	if err != nil {
		log.Error("Failed to build recipe responses", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list recipes")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recipes": responses,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// GetRecipe returns one recipe with the viewer's membership flags
// GET /api/v1/recipes/:id
func (ctrl *RecipeController) GetRecipe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	recipeID, ok := parseIDParam(c, "id")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid recipe ID")
		return
	}

	recipe, err := ctrl.recipeService.GetRecipe(recipeID, middleware.GetViewerID(c))
	if err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			apperrors.NotFound(c, apperrors.RecipeNotFound, "Recipe not found")
			return
		}
		log.Error("Failed to get recipe", err, map[string]interface{}{
			"recipe_id": recipeID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get recipe")
		return
	}

	subscribed, err := ctrl.isSubscribedToAuthor(c, recipe.AuthorID)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get recipe")
		return
	}

	c.JSON(http.StatusOK, toRecipeResponse(recipe, subscribed))
}

// CreateRecipe publishes a new recipe
// POST /api/v1/recipes
func (ctrl *RecipeController) CreateRecipe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create recipe request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid recipe payload")
		return
	}

	recipe, err := ctrl.recipeService.CreateRecipe(c.Request.Context(), userID, req.toInput())
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			log.Warn("Recipe creation rejected by validation", map[string]interface{}{
				"fields": validationErr.Fields,
			})
			apperrors.RespondWithValidationError(c, validationErr.Fields)
			return
		}
		log.Error("Failed to create recipe", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create recipe")
		return
	}

	c.JSON(http.StatusCreated, toRecipeResponse(recipe, false))
}

// UpdateRecipe replaces the recipe's content; author only
// PATCH /api/v1/recipes/:id
func (ctrl *RecipeController) UpdateRecipe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	recipeID, ok := parseIDParam(c, "id")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid recipe ID")
		return
	}

	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update recipe request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid recipe payload")
		return
	}

	recipe, err := ctrl.recipeService.UpdateRecipe(c.Request.Context(), userID, recipeID, req.toInput())
	if err != nil {
		var validationErr *service.ValidationError
		switch {
		case errors.Is(err, service.ErrRecipeNotFound):
			apperrors.NotFound(c, apperrors.RecipeNotFound, "Recipe not found")
		case errors.Is(err, service.ErrNotRecipeAuthor):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzAuthorOnly, "Only the author can modify this recipe")
		case errors.As(err, &validationErr):
			log.Warn("Recipe update rejected by validation", map[string]interface{}{
				"recipe_id": recipeID,
				"fields":    validationErr.Fields,
			})
			apperrors.RespondWithValidationError(c, validationErr.Fields)
		default:
			log.Error("Failed to update recipe", err, map[string]interface{}{
				"recipe_id": recipeID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update recipe")
		}
		return
	}

	subscribed, err := ctrl.isSubscribedToAuthor(c, recipe.AuthorID)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update recipe")
		return
	}

	c.JSON(http.StatusOK, toRecipeResponse(recipe, subscribed))
}

// DeleteRecipe removes the recipe; author only
// DELETE /api/v1/recipes/:id
func (ctrl *RecipeController) DeleteRecipe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	recipeID, ok := parseIDParam(c, "id")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid recipe ID")
		return
	}

	if err := ctrl.recipeService.DeleteRecipe(c.Request.Context(), userID, recipeID); err != nil {
		switch {
		case errors.Is(err, service.ErrRecipeNotFound):
			apperrors.NotFound(c, apperrors.RecipeNotFound, "Recipe not found")
		case errors.Is(err, service.ErrNotRecipeAuthor):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzAuthorOnly, "Only the author can delete this recipe")
		default:
			log.Error("Failed to delete recipe", err, map[string]interface{}{
				"recipe_id": recipeID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete recipe")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// GetRecipeLink returns the canonical share link for a recipe
// GET /api/v1/recipes/:id/get-link
func (ctrl *RecipeController) GetRecipeLink(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	recipeID, ok := parseIDParam(c, "id")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid recipe ID")
		return
	}

	link, err := ctrl.recipeService.GetRecipeLink(recipeID)
	if err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			apperrors.NotFound(c, apperrors.RecipeNotFound, "Recipe not found")
			return
		}
		log.Error("Failed to build recipe link", err, map[string]interface{}{
			"recipe_id": recipeID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get recipe link")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"short-link": link,
	})
}

// Favorite marks a recipe as a favorite
// POST /api/v1/recipes/:id/favorite
func (ctrl *RecipeController) Favorite(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	recipeID, ok := parseIDParam(c, "id")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid recipe ID")
		return
	}

	recipe, err := ctrl.favoriteService.AddFavorite(userID, recipeID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecipeNotFound):
			apperrors.NotFound(c, apperrors.RecipeNotFound, "Recipe not found")
		case errors.Is(err, service.ErrAlreadyFavorited):
			apperrors.Conflict(c, apperrors.FavoriteExists, "Recipe is already in favorites")
		default:
			log.Error("Failed to add favorite", err, map[string]interface{}{
				"recipe_id": recipeID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "add favorite")
		}
		return
	}

	c.JSON(http.StatusCreated, toRecipeShortResponse(recipe))
}

// Unfavorite removes a recipe from favorites
// DELETE /api/v1/recipes/:id/favorite
func (ctrl *RecipeController) Unfavorite(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	recipeID, ok := parseIDParam(c, "id")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid recipe ID")
		return
	}

	if err := ctrl.favoriteService.RemoveFavorite(userID, recipeID); err != nil {
		switch {
		case errors.Is(err, service.ErrRecipeNotFound):
			apperrors.NotFound(c, apperrors.RecipeNotFound, "Recipe not found")
		case errors.Is(err, service.ErrFavoriteNotFound):
			apperrors.NotFound(c, apperrors.FavoriteNotFound, "Recipe is not in favorites")
		default:
			log.Error("Failed to remove favorite", err, map[string]interface{}{
				"recipe_id": recipeID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "remove favorite")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// AddToCart puts a recipe in the shopping cart
// POST /api/v1/recipes/:id/shopping_cart
func (ctrl *RecipeController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	recipeID, ok := parseIDParam(c, "id")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid recipe ID")
		return
	}

	recipe, err := ctrl.cartService.AddToCart(userID, recipeID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecipeNotFound):
			apperrors.NotFound(c, apperrors.RecipeNotFound, "Recipe not found")
		case errors.Is(err, service.ErrAlreadyInCart):
			apperrors.Conflict(c, apperrors.CartEntryExists, "Recipe is already in the shopping cart")
		default:
			log.Error("Failed to add recipe to cart", err, map[string]interface{}{
				"recipe_id": recipeID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "add to cart")
		}
		return
	}

	c.JSON(http.StatusCreated, toRecipeShortResponse(recipe))
}

// RemoveFromCart takes a recipe out of the shopping cart
// DELETE /api/v1/recipes/:id/shopping_cart
func (ctrl *RecipeController) RemoveFromCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	recipeID, ok := parseIDParam(c, "id")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid recipe ID")
		return
	}

	if err := ctrl.cartService.RemoveFromCart(userID, recipeID); err != nil {
		switch {
		case errors.Is(err, service.ErrRecipeNotFound):
			apperrors.NotFound(c, apperrors.RecipeNotFound, "Recipe not found")
		case errors.Is(err, service.ErrCartNotFound):
			apperrors.NotFound(c, apperrors.CartEntryNotFound, "Recipe is not in the shopping cart")
		default:
			log.Error("Failed to remove recipe from cart", err, map[string]interface{}{
				"recipe_id": recipeID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "remove from cart")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart streams the aggregated shopping list. The default
// format is plain text; ?format=xlsx returns a workbook.
// GET /api/v1/recipes/download_shopping_cart
func (ctrl *RecipeController) DownloadShoppingCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	items, err := ctrl.cartService.ShoppingList(userID)
	if err != nil {
		log.Error("Failed to aggregate shopping list", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "shopping list")
		return
	}

	if c.Query("format") == "xlsx" {
		data, err := ctrl.cartService.RenderXLSX(items)
		if err != nil {
			log.Error("Failed to render shopping list workbook", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.InternalError(c, "Failed to render the shopping list")
			return
		}
		c.Header("Content-Disposition", `attachment; filename="shopping_list.xlsx"`)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="shopping_list.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(ctrl.cartService.RenderText(items)))
}

// PopularRecipes returns the most favorited recipes
// GET /api/v1/recipes/popular
func (ctrl *RecipeController) PopularRecipes(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := parsePositiveInt(raw); err == nil {
			limit = parsed
		}
	}

	recipes, err := ctrl.popularService.PopularRecipes(c.Request.Context(), limit)
	if err != nil {
		log.Error("Failed to list popular recipes", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "popular recipes")
		return
	}

	responses := make([]RecipeShortResponse, 0, len(recipes))
	for i := range recipes {
		responses = append(responses, toRecipeShortResponse(&recipes[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"recipes": responses,
	})
}

// toRecipeResponses builds read models for a listing, resolving each author's
// subscription status once.
func (ctrl *RecipeController) toRecipeResponses(c *gin.Context, recipes []model.Recipe) ([]RecipeResponse, error) {
	viewerID := middleware.GetViewerID(c)
	subscribed := make(map[uint]bool)

	responses := make([]RecipeResponse, 0, len(recipes))
	for i := range recipes {
		authorID := recipes[i].AuthorID
		if viewerID != nil {
			if _, ok := subscribed[authorID]; !ok {
				isSub, err := ctrl.subscriptionService.IsSubscribed(*viewerID, authorID)
				if err != nil {
					return nil, err
				}
				subscribed[authorID] = isSub
			}
		}
		responses = append(responses, toRecipeResponse(&recipes[i], subscribed[authorID]))
	}
	return responses, nil
}

func (ctrl *RecipeController) isSubscribedToAuthor(c *gin.Context, authorID uint) (bool, error) {
	viewerID := middleware.GetViewerID(c)
	if viewerID == nil {
		return false, nil
	}
	return ctrl.subscriptionService.IsSubscribed(*viewerID, authorID)
}

// parseSlugList accepts both repeated query params (?tags=a&tags=b) and
// comma-separated values (?tags=a,b), deduplicating while keeping order.
func parseSlugList(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var result []string
	for _, value := range values {
		for _, slug := range strings.Split(value, ",") {
			slug = strings.TrimSpace(slug)
			if slug == "" {
				continue
			}
			if _, ok := seen[slug]; ok {
				continue
			}
			seen[slug] = struct{}{}
			result = append(result, slug)
		}
	}
	return result
}
