package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/avoronova/recipehub-backend/internal/app/model"
	"github.com/avoronova/recipehub-backend/internal/app/repository"
	"github.com/avoronova/recipehub-backend/internal/db"
)

func setupFavoriteServiceTest(t *testing.T) (*gorm.DB, FavoriteService, *model.User, *model.Recipe) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	user := &model.User{Email: "fan@example.com", Username: "fan", PasswordHash: "hash"}
	require.NoError(t, testDB.Create(user).Error)

	recipe := &model.Recipe{
		AuthorID:    user.ID,
		Name:        "Toast",
		Image:       "https://img.example.com/toast.png",
		Text:        "toast it",
		CookingTime: 5,
	}
	require.NoError(t, testDB.Create(recipe).Error)

	svc := NewFavoriteService(
		repository.NewFavoriteRepository(testDB),
		repository.NewRecipeRepository(testDB),
	)
	return testDB, svc, user, recipe
}

func TestFavoriteService_AddFavorite(t *testing.T) {
	_, svc, user, recipe := setupFavoriteServiceTest(t)

	added, err := svc.AddFavorite(user.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, recipe.ID, added.ID)

	// Second add is a conflict.
	_, err = svc.AddFavorite(user.ID, recipe.ID)
	assert.ErrorIs(t, err, ErrAlreadyFavorited)
}

func TestFavoriteService_AddFavorite_RecipeNotFound(t *testing.T) {
	_, svc, user, _ := setupFavoriteServiceTest(t)

	_, err := svc.AddFavorite(user.ID, 9999)
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

func TestFavoriteService_RemoveFavorite(t *testing.T) {
	_, svc, user, recipe := setupFavoriteServiceTest(t)

	// Removing an absent membership is a not-found, not a no-op.
	err := svc.RemoveFavorite(user.ID, recipe.ID)
	assert.ErrorIs(t, err, ErrFavoriteNotFound)

	_, err = svc.AddFavorite(user.ID, recipe.ID)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveFavorite(user.ID, recipe.ID))

	err = svc.RemoveFavorite(user.ID, recipe.ID)
	assert.ErrorIs(t, err, ErrFavoriteNotFound)
}

func TestFavoriteService_RemoveFavorite_RecipeNotFound(t *testing.T) {
	_, svc, user, _ := setupFavoriteServiceTest(t)

	err := svc.RemoveFavorite(user.ID, 9999)
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}
