package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/avoronova/recipehub-backend/internal/app/model"
	"github.com/avoronova/recipehub-backend/internal/db"
)

type recipeTestFixture struct {
	db          *gorm.DB
	recipes     RecipeRepository
	author      *model.User
	viewer      *model.User
	tags        []model.Tag
	ingredients []model.Ingredient
}

func setupRecipeRepositoryTest(t *testing.T) *recipeTestFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	author := &model.User{
		Email:        "author@example.com",
		Username:     "author",
		PasswordHash: "hash",
		FirstName:    "Alice",
		LastName:     "Author",
	}
	require.NoError(t, testDB.Create(author).Error)

	viewer := &model.User{
		Email:        "viewer@example.com",
		Username:     "viewer",
		PasswordHash: "hash",
		FirstName:    "Victor",
		LastName:     "Viewer",
	}
	require.NoError(t, testDB.Create(viewer).Error)

	tags := []model.Tag{
		{Name: "Breakfast", Slug: "breakfast"},
		{Name: "Dinner", Slug: "dinner"},
		{Name: "Quick", Slug: "quick"},
	}
	require.NoError(t, testDB.Create(&tags).Error)

	ingredients := []model.Ingredient{
		{Name: "flour", MeasurementUnit: "g"},
		{Name: "milk", MeasurementUnit: "ml"},
		{Name: "egg", MeasurementUnit: "pcs"},
	}
	require.NoError(t, testDB.Create(&ingredients).Error)

	return &recipeTestFixture{
		db:          testDB,
		recipes:     NewRecipeRepository(testDB),
		author:      author,
		viewer:      viewer,
		tags:        tags,
		ingredients: ingredients,
	}
}

func (f *recipeTestFixture) createRecipe(t *testing.T, name string, tags []model.Tag) *model.Recipe {
	recipe := &model.Recipe{
		AuthorID:    f.author.ID,
		Name:        name,
		Image:       "https://img.example.com/" + name + ".png",
		Text:        "Mix and bake",
		CookingTime: 30,
		Tags:        tags,
		Ingredients: []model.RecipeIngredient{
			{IngredientID: f.ingredients[0].ID, Amount: 100},
			{IngredientID: f.ingredients[1].ID, Amount: 200},
		},
	}
	require.NoError(t, f.recipes.Create(recipe))
	return recipe
}

func TestRecipeRepository_Create_LoadsAssociations(t *testing.T) {
	f := setupRecipeRepositoryTest(t)

	recipe := f.createRecipe(t, "pancakes", f.tags[:2])

	found, err := f.recipes.FindByID(recipe.ID, nil)
	require.NoError(t, err)

	assert.Equal(t, "pancakes", found.Name)
	assert.Equal(t, f.author.ID, found.Author.ID)
	assert.Len(t, found.Tags, 2)
	require.Len(t, found.Ingredients, 2)
	assert.Equal(t, "flour", found.Ingredients[0].Ingredient.Name)
}

func TestRecipeRepository_FindWithFilter_OrderNewestFirst(t *testing.T) {
	f := setupRecipeRepositoryTest(t)

	first := f.createRecipe(t, "first", f.tags[:1])
	second := f.createRecipe(t, "second", f.tags[:1])

	recipes, err := f.recipes.FindWithFilter(RecipeFilter{})
	require.NoError(t, err)
	require.Len(t, recipes, 2)

	assert.Equal(t, second.ID, recipes[0].ID)
	assert.Equal(t, first.ID, recipes[1].ID)
}

func TestRecipeRepository_FindWithFilter_TagsOrWithoutDuplicates(t *testing.T) {
	f := setupRecipeRepositoryTest(t)

	// Two matching tags on the same recipe must not duplicate it.
	both := f.createRecipe(t, "both-tags", f.tags[:2])
	f.createRecipe(t, "quick-only", f.tags[2:3])

	recipes, err := f.recipes.FindWithFilter(RecipeFilter{
		TagSlugs: []string{"breakfast", "dinner"},
	})
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, both.ID, recipes[0].ID)

	count, err := f.recipes.CountWithFilter(RecipeFilter{
		TagSlugs: []string{"breakfast", "dinner"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRecipeRepository_FindWithFilter_ByAuthor(t *testing.T) {
	f := setupRecipeRepositoryTest(t)

	f.createRecipe(t, "by-author", f.tags[:1])

	other := &model.User{
		Email:        "other@example.com",
		Username:     "other",
		PasswordHash: "hash",
	}
	require.NoError(t, f.db.Create(other).Error)

	recipes, err := f.recipes.FindWithFilter(RecipeFilter{AuthorID: &f.author.ID})
	require.NoError(t, err)
	assert.Len(t, recipes, 1)

	recipes, err = f.recipes.FindWithFilter(RecipeFilter{AuthorID: &other.ID})
	require.NoError(t, err)
	assert.Len(t, recipes, 0)
}

func TestRecipeRepository_MembershipFilters(t *testing.T) {
	f := setupRecipeRepositoryTest(t)

	favorited := f.createRecipe(t, "favorited", f.tags[:1])
	inCart := f.createRecipe(t, "in-cart", f.tags[:1])
	f.createRecipe(t, "plain", f.tags[:1])

	require.NoError(t, f.db.Create(&model.Favorite{UserID: f.viewer.ID, RecipeID: favorited.ID}).Error)
	require.NoError(t, f.db.Create(&model.ShoppingCartEntry{UserID: f.viewer.ID, RecipeID: inCart.ID}).Error)

	recipes, err := f.recipes.FindWithFilter(RecipeFilter{
		OnlyFavorited: true,
		ViewerID:      &f.viewer.ID,
	})
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, favorited.ID, recipes[0].ID)

	recipes, err = f.recipes.FindWithFilter(RecipeFilter{
		OnlyInCart: true,
		ViewerID:   &f.viewer.ID,
	})
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, inCart.ID, recipes[0].ID)
}

func TestRecipeRepository_MembershipFilters_AnonymousNoOp(t *testing.T) {
	f := setupRecipeRepositoryTest(t)

	f.createRecipe(t, "one", f.tags[:1])
	f.createRecipe(t, "two", f.tags[:1])

	// Without a viewer the membership filters must not restrict the set.
	recipes, err := f.recipes.FindWithFilter(RecipeFilter{
		OnlyFavorited: true,
		OnlyInCart:    true,
	})
	require.NoError(t, err)
	assert.Len(t, recipes, 2)
}

func TestRecipeRepository_AnnotationFlags(t *testing.T) {
	f := setupRecipeRepositoryTest(t)

	recipe := f.createRecipe(t, "annotated", f.tags[:1])
	require.NoError(t, f.db.Create(&model.Favorite{UserID: f.viewer.ID, RecipeID: recipe.ID}).Error)

	found, err := f.recipes.FindByID(recipe.ID, &f.viewer.ID)
	require.NoError(t, err)
	assert.True(t, found.IsFavorited)
	assert.False(t, found.IsInShoppingCart)

	// Anonymous viewers always see false flags.
	found, err = f.recipes.FindByID(recipe.ID, nil)
	require.NoError(t, err)
	assert.False(t, found.IsFavorited)
	assert.False(t, found.IsInShoppingCart)
}

func TestRecipeRepository_Update_ReplacesIngredientAndTagSets(t *testing.T) {
	f := setupRecipeRepositoryTest(t)

	recipe := f.createRecipe(t, "before", f.tags[:2])

	recipe.Name = "after"
	recipe.CookingTime = 45
	recipe.Tags = f.tags[2:3]
	recipe.Ingredients = []model.RecipeIngredient{
		{IngredientID: f.ingredients[2].ID, Amount: 3},
	}
	require.NoError(t, f.recipes.Update(recipe))

	found, err := f.recipes.FindByID(recipe.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "after", found.Name)
	assert.Equal(t, 45, found.CookingTime)
	require.Len(t, found.Tags, 1)
	assert.Equal(t, "quick", found.Tags[0].Slug)
	require.Len(t, found.Ingredients, 1)
	assert.Equal(t, "egg", found.Ingredients[0].Ingredient.Name)
	assert.Equal(t, 3, found.Ingredients[0].Amount)
}

func TestRecipeRepository_Delete_RemovesJoinRows(t *testing.T) {
	f := setupRecipeRepositoryTest(t)

	recipe := f.createRecipe(t, "doomed", f.tags[:2])
	require.NoError(t, f.db.Create(&model.Favorite{UserID: f.viewer.ID, RecipeID: recipe.ID}).Error)
	require.NoError(t, f.db.Create(&model.ShoppingCartEntry{UserID: f.viewer.ID, RecipeID: recipe.ID}).Error)

	require.NoError(t, f.recipes.Delete(recipe.ID))

	_, err := f.recipes.FindByID(recipe.ID, nil)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var favorites, cartEntries, lines, tagLinks int64
	f.db.Model(&model.Favorite{}).Where("recipe_id = ?", recipe.ID).Count(&favorites)
	f.db.Model(&model.ShoppingCartEntry{}).Where("recipe_id = ?", recipe.ID).Count(&cartEntries)
	f.db.Model(&model.RecipeIngredient{}).Where("recipe_id = ?", recipe.ID).Count(&lines)
	f.db.Table("recipe_tags").Where("recipe_id = ?", recipe.ID).Count(&tagLinks)

	assert.Zero(t, favorites)
	assert.Zero(t, cartEntries)
	assert.Zero(t, lines)
	assert.Zero(t, tagLinks)
}

func TestRecipeRepository_Pagination(t *testing.T) {
	f := setupRecipeRepositoryTest(t)

	for _, name := range []string{"a", "b", "c"} {
		f.createRecipe(t, name, f.tags[:1])
	}

	recipes, err := f.recipes.FindWithFilter(RecipeFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, recipes, 2)

	recipes, err = f.recipes.FindWithFilter(RecipeFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, recipes, 1)

	count, err := f.recipes.CountWithFilter(RecipeFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
