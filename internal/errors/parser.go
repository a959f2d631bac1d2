package errors

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is a parsed storage error
type ErrorInfo struct {
	Code    string // error code constant (codes.go)
	Message string
}

// ParseError maps storage-level errors to user-facing codes. Constraint
// violations surface as the matching domain error instead of an internal one:
// the unique indexes are the source of truth for membership uniqueness, so a
// race past the advisory service check must still produce "already exists".
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "An internal error occurred",
		}
	}

	errStrLower := strings.ToLower(err.Error())

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// Unique constraint violation (postgres 23505, sqlite "UNIQUE constraint failed")
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStrLower)
	}

	// Foreign key constraint violation (postgres 23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStrLower)
	}

	// Not null constraint violation (postgres 23502)
	if strings.Contains(errStrLower, "not-null constraint") || strings.Contains(errStrLower, "not null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "A required field is missing",
		}
	}

	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: "Storage is temporarily unavailable, please try again later",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: "An internal error occurred, please try again later",
	}
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "idx_favorites_user_recipe") || strings.Contains(errLower, "favorites") {
		return ErrorInfo{
			Code:    FavoriteExists,
			Message: "Recipe is already in favorites",
		}
	}
	if strings.Contains(errLower, "idx_shopping_cart_user_recipe") || strings.Contains(errLower, "shopping_cart_entries") {
		return ErrorInfo{
			Code:    CartEntryExists,
			Message: "Recipe is already in the shopping cart",
		}
	}
	if strings.Contains(errLower, "idx_follows_follower_following") || strings.Contains(errLower, "follows") {
		return ErrorInfo{
			Code:    FollowExists,
			Message: "You are already subscribed to this author",
		}
	}
	if strings.Contains(errLower, "email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "A user with this email already exists",
		}
	}
	if strings.Contains(errLower, "username") {
		return ErrorInfo{
			Code:    AuthUsernameExists,
			Message: "A user with this username already exists",
		}
	}
	if strings.Contains(errLower, "tags") && strings.Contains(errLower, "slug") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "A tag with this slug already exists",
		}
	}
	if strings.Contains(errLower, "ingredients") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "An ingredient with this name already exists",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "The record already exists",
	}
}

func parseForeignKeyError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "still referenced") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "The record is referenced by other data and cannot be deleted",
		}
	}
	if strings.Contains(errLower, "author_id") || strings.Contains(errLower, "user_id") || strings.Contains(errLower, "follower") {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: "Referenced user does not exist",
		}
	}
	if strings.Contains(errLower, "recipe_id") {
		return ErrorInfo{
			Code:    RecipeNotFound,
			Message: "Referenced recipe does not exist",
		}
	}
	if strings.Contains(errLower, "ingredient_id") {
		return ErrorInfo{
			Code:    RecipeIngredientInvalid,
			Message: "Referenced ingredient does not exist",
		}
	}
	if strings.Contains(errLower, "tag_id") {
		return ErrorInfo{
			Code:    RecipeTagInvalid,
			Message: "Referenced tag does not exist",
		}
	}

	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "Referenced record does not exist",
	}
}

// statusForCode maps parsed client-error codes to their HTTP status.
// Returns 0 for codes that keep the caller's status.
func statusForCode(code string) int {
	switch code {
	case FavoriteExists, CartEntryExists, FollowExists,
		AuthEmailAlreadyExists, AuthUsernameExists,
		ResourceAlreadyExists, ResourceConflict,
		ValidationRequired, RecipeIngredientInvalid, RecipeTagInvalid:
		return http.StatusBadRequest
	case ResourceNotFound, RecipeNotFound:
		return http.StatusNotFound
	}
	return 0
}

// ParseAndRespond parses a storage error and writes it as the response body.
// The status follows the parsed code when it identifies a client error;
// otherwise the caller's statusCode is used. A duplicate row that raced past
// an advisory service check answers 400, like the service path.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	if derived := statusForCode(errorInfo.Code); derived != 0 {
		statusCode = derived
	}
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "recipe"):
		return "Recipe not found"
	case strings.Contains(contextLower, "user"), strings.Contains(contextLower, "author"):
		return "User not found"
	case strings.Contains(contextLower, "ingredient"):
		return "Ingredient not found"
	case strings.Contains(contextLower, "tag"):
		return "Tag not found"
	case strings.Contains(contextLower, "favorite"):
		return "Recipe is not in favorites"
	case strings.Contains(contextLower, "cart"):
		return "Recipe is not in the shopping cart"
	case strings.Contains(contextLower, "follow"), strings.Contains(contextLower, "subscription"):
		return "Subscription not found"
	}

	return "Requested record not found"
}
