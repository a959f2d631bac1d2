package errors

// Error code constants returned in the "error" field of error responses.
// Format: CATEGORY_SPECIFIC_DETAIL. The frontend maps these to messages.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong email/password
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"
	AuthUsernameExists     = "AUTH_USERNAME_EXISTS"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden  = "AUTHZ_FORBIDDEN"
	AuthzAuthorOnly = "AUTHZ_AUTHOR_ONLY" // only the recipe author may modify it

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Recipes (RECIPE_) ====================
	RecipeNotFound          = "RECIPE_NOT_FOUND"
	RecipeIngredientInvalid = "RECIPE_INGREDIENT_INVALID"
	RecipeTagInvalid        = "RECIPE_TAG_INVALID"

	// ==================== Memberships (MEMBERSHIP_) ====================
	FavoriteExists    = "FAVORITE_EXISTS"     // recipe already favorited
	FavoriteNotFound  = "FAVORITE_NOT_FOUND"  // recipe was not favorited
	CartEntryExists   = "CART_ENTRY_EXISTS"   // recipe already in shopping cart
	CartEntryNotFound = "CART_ENTRY_NOT_FOUND"

	// ==================== Subscriptions (FOLLOW_) ====================
	FollowSelf     = "FOLLOW_SELF"      // cannot follow yourself
	FollowExists   = "FOLLOW_EXISTS"    // already subscribed
	FollowNotFound = "FOLLOW_NOT_FOUND" // subscription does not exist

	// ==================== Uploads (UPLOAD_) ====================
	UploadInvalidImage = "UPLOAD_INVALID_IMAGE"
	UploadFailed       = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
)
