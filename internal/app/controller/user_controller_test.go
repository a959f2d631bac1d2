package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/avoronova/recipehub-backend/internal/app/model"
	"github.com/avoronova/recipehub-backend/internal/app/repository"
	"github.com/avoronova/recipehub-backend/internal/app/service"
	"github.com/avoronova/recipehub-backend/internal/db"
)

func setupUserControllerTest(t *testing.T) (*UserController, *gin.Engine, *gorm.DB, *model.User, *model.User) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	followRepo := repository.NewFollowRepository(testDB)
	recipeRepo := repository.NewRecipeRepository(testDB)

	userService := service.NewUserService(userRepo, fakeImageStorage{})
	subscriptionService := service.NewSubscriptionService(userRepo, followRepo, recipeRepo)
	userController := NewUserController(userService, subscriptionService)

	follower := &model.User{Email: "follower@example.com", Username: "follower", PasswordHash: "hash"}
	require.NoError(t, testDB.Create(follower).Error)
	author := &model.User{Email: "chef@example.com", Username: "chef", PasswordHash: "hash"}
	require.NoError(t, testDB.Create(author).Error)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return userController, router, testDB, follower, author
}

func putJSON(t *testing.T, router *gin.Engine, url string, body interface{}) *httptest.ResponseRecorder {
	jsonBody, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, url, bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUserController_Subscribe(t *testing.T) {
	controller, router, _, follower, author := setupUserControllerTest(t)

	router.POST("/users/:id/subscribe", func(c *gin.Context) {
		setUserIDInContext(c, follower.ID)
		controller.Subscribe(c)
	})

	url := fmt.Sprintf("/users/%d/subscribe", author.ID)

	req := httptest.NewRequest(http.MethodPost, url, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response SubscriptionResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, author.ID, response.ID)
	assert.Equal(t, "chef", response.Username)
	assert.True(t, response.IsSubscribed)

	// Subscribing twice is a conflict, reported as 400.
	req = httptest.NewRequest(http.MethodPost, url, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var errResponse map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &errResponse)
	require.NoError(t, err)
	assert.Equal(t, "FOLLOW_EXISTS", errResponse["error"])
}

func TestUserController_Subscribe_Self(t *testing.T) {
	controller, router, _, follower, _ := setupUserControllerTest(t)

	router.POST("/users/:id/subscribe", func(c *gin.Context) {
		setUserIDInContext(c, follower.ID)
		controller.Subscribe(c)
	})

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/users/%d/subscribe", follower.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "FOLLOW_SELF", response["error"])
}

func TestUserController_Unsubscribe_NotSubscribed(t *testing.T) {
	controller, router, _, follower, author := setupUserControllerTest(t)

	router.DELETE("/users/:id/subscribe", func(c *gin.Context) {
		setUserIDInContext(c, follower.ID)
		controller.Unsubscribe(c)
	})

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/users/%d/subscribe", author.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "FOLLOW_NOT_FOUND", response["error"])
}

func TestUserController_Subscriptions(t *testing.T) {
	controller, router, testDB, follower, author := setupUserControllerTest(t)

	require.NoError(t, testDB.Create(&model.Follow{FollowerID: follower.ID, FollowingID: author.ID}).Error)
	for i := 0; i < 4; i++ {
		recipe := &model.Recipe{
			AuthorID:    author.ID,
			Name:        fmt.Sprintf("recipe-%d", i),
			Image:       "https://img.example.com/r.png",
			Text:        "text",
			CookingTime: 10,
		}
		require.NoError(t, testDB.Create(recipe).Error)
	}

	router.GET("/users/subscriptions", func(c *gin.Context) {
		setUserIDInContext(c, follower.ID)
		controller.Subscriptions(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/users/subscriptions?recipes_limit=2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Subscriptions []SubscriptionResponse `json:"subscriptions"`
		Total         int64                  `json:"total"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, int64(1), response.Total)
	require.Len(t, response.Subscriptions, 1)
	assert.Equal(t, author.ID, response.Subscriptions[0].ID)
	assert.Len(t, response.Subscriptions[0].Recipes, 2)
	assert.Equal(t, int64(4), response.Subscriptions[0].RecipesCount)
}

func TestUserController_GetUser_NotFound(t *testing.T) {
	controller, router, _, _, _ := setupUserControllerTest(t)

	router.GET("/users/:id", controller.GetUser)

	req := httptest.NewRequest(http.MethodGet, "/users/9999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserController_SetAvatar(t *testing.T) {
	controller, router, _, follower, _ := setupUserControllerTest(t)

	router.PUT("/users/me/avatar", func(c *gin.Context) {
		setUserIDInContext(c, follower.ID)
		controller.SetAvatar(c)
	})

	w := putJSON(t, router, "/users/me/avatar", SetAvatarRequest{
		Avatar: "data:image/png;base64,aGVsbG8=",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Contains(t, response["avatar"], "https://cdn.example.com/avatars/")
}

func TestUserController_SetAvatar_InvalidImage(t *testing.T) {
	controller, router, _, follower, _ := setupUserControllerTest(t)

	router.PUT("/users/me/avatar", func(c *gin.Context) {
		setUserIDInContext(c, follower.ID)
		controller.SetAvatar(c)
	})

	w := putJSON(t, router, "/users/me/avatar", SetAvatarRequest{
		Avatar: "not-a-data-uri",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "UPLOAD_INVALID_IMAGE", response["error"])
}
