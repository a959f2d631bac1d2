package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avoronova/recipehub-backend/internal/app/service"
	apperrors "github.com/avoronova/recipehub-backend/internal/errors"
	"github.com/avoronova/recipehub-backend/internal/middleware"
)

type UserController struct {
	userService         service.UserService
	subscriptionService service.SubscriptionService
}

func NewUserController(
	userService service.UserService,
	subscriptionService service.SubscriptionService,
) *UserController {
	return &UserController{
		userService:         userService,
		subscriptionService: subscriptionService,
	}
}

type SetAvatarRequest struct {
	Avatar string `json:"avatar" binding:"required"` // base64 data URI
}

// ListUsers returns a paginated user listing
// GET /api/v1/users
func (ctrl *UserController) ListUsers(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	page, limit := parsePagination(c)
	users, total, err := ctrl.userService.ListUsers(limit, (page-1)*limit)
	if err != nil {
		log.Error("Failed to list users", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list users")
		return
	}

	viewerID := middleware.GetViewerID(c)
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		subscribed := false
		if viewerID != nil {
			subscribed, err = ctrl.subscriptionService.IsSubscribed(*viewerID, users[i].ID)
			if err != nil {
				log.Error("Failed to check subscription status", err, map[string]interface{}{
					"author_id": users[i].ID,
				})
				apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list users")
				return
			}
		}
		responses = append(responses, toUserResponse(&users[i], subscribed))
	}

	c.JSON(http.StatusOK, gin.H{
		"users": responses,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetUser returns one user's profile
// GET /api/v1/users/:id
func (ctrl *UserController) GetUser(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := parseIDParam(c, "id")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid user ID")
		return
	}

	user, err := ctrl.userService.GetUser(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
			return
		}
		log.Error("Failed to get user", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get user")
		return
	}

	subscribed := false
	if viewerID := middleware.GetViewerID(c); viewerID != nil {
		subscribed, err = ctrl.subscriptionService.IsSubscribed(*viewerID, userID)
		if err != nil {
			log.Error("Failed to check subscription status", err, map[string]interface{}{
				"author_id": userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get user")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"user": toUserResponse(user, subscribed),
	})
}

// SetAvatar uploads a new avatar for the current user
// PUT /api/v1/users/me/avatar
func (ctrl *UserController) SetAvatar(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	var req SetAvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid avatar request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Avatar image is required")
		return
	}

	user, err := ctrl.userService.SetAvatar(c.Request.Context(), userID, req.Avatar)
	if err != nil {
		if errors.Is(err, service.ErrInvalidImage) {
			apperrors.BadRequest(c, apperrors.UploadInvalidImage, "Avatar must be a base64 image data URI")
			return
		}
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
			return
		}
		log.Error("Failed to set avatar", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "set avatar")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"avatar": user.Avatar,
	})
}

// DeleteAvatar removes the current user's avatar
// DELETE /api/v1/users/me/avatar
func (ctrl *UserController) DeleteAvatar(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	if err := ctrl.userService.DeleteAvatar(c.Request.Context(), userID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
			return
		}
		log.Error("Failed to delete avatar", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete avatar")
		return
	}

	c.Status(http.StatusNoContent)
}

// Subscribe follows an author
// POST /api/v1/users/:id/subscribe
func (ctrl *UserController) Subscribe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	authorID, ok := parseIDParam(c, "id")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid user ID")
		return
	}

	sub, err := ctrl.subscriptionService.Subscribe(userID, authorID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfFollow):
			apperrors.BadRequest(c, apperrors.FollowSelf, "You cannot subscribe to yourself")
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
		case errors.Is(err, service.ErrAlreadyFollowing):
			apperrors.Conflict(c, apperrors.FollowExists, "You are already subscribed to this author")
		default:
			log.Error("Failed to subscribe", err, map[string]interface{}{
				"follower_id": userID,
				"author_id":   authorID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "subscribe")
		}
		return
	}

	c.JSON(http.StatusCreated, toSubscriptionResponse(*sub))
}

// Unsubscribe removes a follow
// DELETE /api/v1/users/:id/subscribe
func (ctrl *UserController) Unsubscribe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	authorID, ok := parseIDParam(c, "id")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid user ID")
		return
	}

	if err := ctrl.subscriptionService.Unsubscribe(userID, authorID); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
		case errors.Is(err, service.ErrFollowNotFound):
			apperrors.NotFound(c, apperrors.FollowNotFound, "You are not subscribed to this author")
		default:
			log.Error("Failed to unsubscribe", err, map[string]interface{}{
				"follower_id": userID,
				"author_id":   authorID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "unsubscribe")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// Subscriptions lists the authors the current user follows, each with a
// recipe preview capped by recipes_limit
// GET /api/v1/users/subscriptions
func (ctrl *UserController) Subscriptions(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	page, limit := parsePagination(c)
	recipesLimit := 0
	if raw := c.Query("recipes_limit"); raw != "" {
		if parsed, err := parsePositiveInt(raw); err == nil {
			recipesLimit = parsed
		}
	}

	subs, total, err := ctrl.subscriptionService.Subscriptions(userID, limit, (page-1)*limit, recipesLimit)
	if err != nil {
		log.Error("Failed to list subscriptions", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list subscriptions")
		return
	}

	responses := make([]SubscriptionResponse, 0, len(subs))
	for _, sub := range subs {
		responses = append(responses, toSubscriptionResponse(sub))
	}

	c.JSON(http.StatusOK, gin.H{
		"subscriptions": responses,
		"total":         total,
		"page":          page,
		"limit":         limit,
	})
}
