package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoronova/recipehub-backend/internal/app/repository"
	"github.com/avoronova/recipehub-backend/internal/app/service"
	"github.com/avoronova/recipehub-backend/internal/db"
)

func setupAuthControllerTest(t *testing.T) (*AuthController, *gin.Engine) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	authService := service.NewAuthService(
		repository.NewUserRepository(testDB),
		"test-secret-key",
		15*time.Minute,
		7*24*time.Hour,
	)
	authController := NewAuthController(authService)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return authController, router
}

func validRegisterRequest() RegisterRequest {
	return RegisterRequest{
		Email:     "ann@example.com",
		Username:  "ann",
		Password:  "secret-password",
		FirstName: "Ann",
		LastName:  "Lee",
	}
}

func postJSON(t *testing.T, router *gin.Engine, url string, body interface{}) *httptest.ResponseRecorder {
	jsonBody, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, url, bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthController_Register_Success(t *testing.T) {
	controller, router := setupAuthControllerTest(t)
	router.POST("/register", controller.Register)

	w := postJSON(t, router, "/register", validRegisterRequest())

	assert.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		User   UserResponse `json:"user"`
		Tokens struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
		} `json:"tokens"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "ann@example.com", response.User.Email)
	assert.Equal(t, "ann", response.User.Username)
	assert.NotEmpty(t, response.Tokens.AccessToken)
	assert.NotEmpty(t, response.Tokens.RefreshToken)
}

func TestAuthController_Register_DuplicateEmail(t *testing.T) {
	controller, router := setupAuthControllerTest(t)
	router.POST("/register", controller.Register)

	w := postJSON(t, router, "/register", validRegisterRequest())
	require.Equal(t, http.StatusCreated, w.Code)

	dup := validRegisterRequest()
	dup.Username = "other"
	w = postJSON(t, router, "/register", dup)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "AUTH_EMAIL_EXISTS", response["error"])
}

func TestAuthController_Register_InvalidPayload(t *testing.T) {
	controller, router := setupAuthControllerTest(t)
	router.POST("/register", controller.Register)

	tests := []struct {
		name   string
		mutate func(req *RegisterRequest)
	}{
		{
			name:   "invalid email",
			mutate: func(req *RegisterRequest) { req.Email = "not-an-email" },
		},
		{
			name:   "short username",
			mutate: func(req *RegisterRequest) { req.Username = "ab" },
		},
		{
			name:   "short password",
			mutate: func(req *RegisterRequest) { req.Password = "short" },
		},
		{
			name:   "missing first name",
			mutate: func(req *RegisterRequest) { req.FirstName = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRegisterRequest()
			tt.mutate(&req)

			w := postJSON(t, router, "/register", req)

			assert.Equal(t, http.StatusBadRequest, w.Code)

			var response map[string]interface{}
			err := json.Unmarshal(w.Body.Bytes(), &response)
			require.NoError(t, err)
			assert.Equal(t, "VALIDATION_INVALID_INPUT", response["error"])
		})
	}
}

func TestAuthController_Login(t *testing.T) {
	controller, router := setupAuthControllerTest(t)
	router.POST("/register", controller.Register)
	router.POST("/login", controller.Login)

	w := postJSON(t, router, "/register", validRegisterRequest())
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, router, "/login", LoginRequest{
		Email:    "ann@example.com",
		Password: "secret-password",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		User   UserResponse           `json:"user"`
		Tokens map[string]interface{} `json:"tokens"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "ann", response.User.Username)
	assert.NotEmpty(t, response.Tokens["access_token"])
}

func TestAuthController_Login_InvalidCredentials(t *testing.T) {
	controller, router := setupAuthControllerTest(t)
	router.POST("/register", controller.Register)
	router.POST("/login", controller.Login)

	w := postJSON(t, router, "/register", validRegisterRequest())
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, router, "/login", LoginRequest{
		Email:    "ann@example.com",
		Password: "wrong-password",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "AUTH_INVALID_CREDENTIALS", response["error"])
}

func TestAuthController_GetMe_Unauthorized(t *testing.T) {
	controller, router := setupAuthControllerTest(t)
	router.GET("/me", controller.GetMe)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
