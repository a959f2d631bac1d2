package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/avoronova/recipehub-backend/internal/app/model"
	"github.com/avoronova/recipehub-backend/internal/db"
)

func setupCartRepositoryTest(t *testing.T) (*gorm.DB, ShoppingCartRepository, *model.User) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	user := &model.User{
		Email:        "cart@example.com",
		Username:     "cartuser",
		PasswordHash: "hash",
	}
	require.NoError(t, testDB.Create(user).Error)

	return testDB, NewShoppingCartRepository(testDB), user
}

func createRecipeWithLines(t *testing.T, testDB *gorm.DB, authorID uint, name string, lines []model.RecipeIngredient) *model.Recipe {
	recipe := &model.Recipe{
		AuthorID:    authorID,
		Name:        name,
		Image:       "https://img.example.com/" + name + ".png",
		Text:        "text",
		CookingTime: 10,
	}
	require.NoError(t, testDB.Create(recipe).Error)

	for i := range lines {
		lines[i].RecipeID = recipe.ID
	}
	require.NoError(t, testDB.Create(&lines).Error)
	return recipe
}

func TestShoppingCartRepository_Aggregate_SumsPerNameAndUnit(t *testing.T) {
	testDB, repo, user := setupCartRepositoryTest(t)

	sugar := &model.Ingredient{Name: "sugar", MeasurementUnit: "g"}
	milk := &model.Ingredient{Name: "milk", MeasurementUnit: "ml"}
	require.NoError(t, testDB.Create(sugar).Error)
	require.NoError(t, testDB.Create(milk).Error)

	cake := createRecipeWithLines(t, testDB, user.ID, "cake", []model.RecipeIngredient{
		{IngredientID: sugar.ID, Amount: 150},
		{IngredientID: milk.ID, Amount: 250},
	})
	cocoa := createRecipeWithLines(t, testDB, user.ID, "cocoa", []model.RecipeIngredient{
		{IngredientID: sugar.ID, Amount: 20},
		{IngredientID: milk.ID, Amount: 300},
	})

	require.NoError(t, repo.Create(&model.ShoppingCartEntry{UserID: user.ID, RecipeID: cake.ID}))
	require.NoError(t, repo.Create(&model.ShoppingCartEntry{UserID: user.ID, RecipeID: cocoa.ID}))

	items, err := repo.AggregateShoppingList(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// Ordered by ingredient name, amounts summed exactly.
	assert.Equal(t, "milk", items[0].Name)
	assert.Equal(t, "ml", items[0].MeasurementUnit)
	assert.Equal(t, int64(550), items[0].Total)
	assert.Equal(t, "sugar", items[1].Name)
	assert.Equal(t, "g", items[1].MeasurementUnit)
	assert.Equal(t, int64(170), items[1].Total)
}

func TestShoppingCartRepository_Aggregate_OnlyOwnCart(t *testing.T) {
	testDB, repo, user := setupCartRepositoryTest(t)

	other := &model.User{
		Email:        "other@example.com",
		Username:     "otheruser",
		PasswordHash: "hash",
	}
	require.NoError(t, testDB.Create(other).Error)

	salt := &model.Ingredient{Name: "salt", MeasurementUnit: "g"}
	require.NoError(t, testDB.Create(salt).Error)

	recipe := createRecipeWithLines(t, testDB, user.ID, "soup", []model.RecipeIngredient{
		{IngredientID: salt.ID, Amount: 5},
	})

	require.NoError(t, repo.Create(&model.ShoppingCartEntry{UserID: other.ID, RecipeID: recipe.ID}))

	items, err := repo.AggregateShoppingList(user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 0)
}

func TestShoppingCartRepository_Aggregate_EmptyCart(t *testing.T) {
	_, repo, user := setupCartRepositoryTest(t)

	items, err := repo.AggregateShoppingList(user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 0)
}

func TestShoppingCartRepository_Delete_ReportsRows(t *testing.T) {
	testDB, repo, user := setupCartRepositoryTest(t)

	flour := &model.Ingredient{Name: "flour", MeasurementUnit: "g"}
	require.NoError(t, testDB.Create(flour).Error)

	recipe := createRecipeWithLines(t, testDB, user.ID, "bread", []model.RecipeIngredient{
		{IngredientID: flour.ID, Amount: 500},
	})

	require.NoError(t, repo.Create(&model.ShoppingCartEntry{UserID: user.ID, RecipeID: recipe.ID}))

	exists, err := repo.Exists(user.ID, recipe.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	rows, err := repo.Delete(user.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	rows, err = repo.Delete(user.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)
}
