package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/avoronova/recipehub-backend/internal/app/model"
	"github.com/avoronova/recipehub-backend/internal/app/repository"
	"github.com/avoronova/recipehub-backend/internal/db"
)

func setupSubscriptionServiceTest(t *testing.T) (*gorm.DB, SubscriptionService, *model.User, *model.User) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	follower := &model.User{Email: "follower@example.com", Username: "follower", PasswordHash: "hash"}
	require.NoError(t, testDB.Create(follower).Error)
	author := &model.User{Email: "chef@example.com", Username: "chef", PasswordHash: "hash"}
	require.NoError(t, testDB.Create(author).Error)

	svc := NewSubscriptionService(
		repository.NewUserRepository(testDB),
		repository.NewFollowRepository(testDB),
		repository.NewRecipeRepository(testDB),
	)
	return testDB, svc, follower, author
}

func createAuthorRecipes(t *testing.T, testDB *gorm.DB, authorID uint, count int) {
	for i := 0; i < count; i++ {
		recipe := &model.Recipe{
			AuthorID:    authorID,
			Name:        fmt.Sprintf("recipe-%d", i),
			Image:       "https://img.example.com/r.png",
			Text:        "text",
			CookingTime: 10,
		}
		require.NoError(t, testDB.Create(recipe).Error)
	}
}

func TestSubscriptionService_Subscribe(t *testing.T) {
	testDB, svc, follower, author := setupSubscriptionServiceTest(t)

	createAuthorRecipes(t, testDB, author.ID, 2)

	sub, err := svc.Subscribe(follower.ID, author.ID)
	require.NoError(t, err)
	assert.Equal(t, author.ID, sub.User.ID)
	assert.Equal(t, int64(2), sub.RecipesCount)
	assert.Len(t, sub.Recipes, 2)

	subscribed, err := svc.IsSubscribed(follower.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, subscribed)
}

func TestSubscriptionService_Subscribe_SelfFollow(t *testing.T) {
	_, svc, follower, _ := setupSubscriptionServiceTest(t)

	_, err := svc.Subscribe(follower.ID, follower.ID)
	assert.ErrorIs(t, err, ErrSelfFollow)
}

func TestSubscriptionService_Subscribe_Duplicate(t *testing.T) {
	_, svc, follower, author := setupSubscriptionServiceTest(t)

	_, err := svc.Subscribe(follower.ID, author.ID)
	require.NoError(t, err)

	_, err = svc.Subscribe(follower.ID, author.ID)
	assert.ErrorIs(t, err, ErrAlreadyFollowing)
}

func TestSubscriptionService_Subscribe_UnknownAuthor(t *testing.T) {
	_, svc, follower, _ := setupSubscriptionServiceTest(t)

	_, err := svc.Subscribe(follower.ID, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSubscriptionService_Unsubscribe(t *testing.T) {
	_, svc, follower, author := setupSubscriptionServiceTest(t)

	err := svc.Unsubscribe(follower.ID, author.ID)
	assert.ErrorIs(t, err, ErrFollowNotFound)

	_, err = svc.Subscribe(follower.ID, author.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Unsubscribe(follower.ID, author.ID))

	subscribed, err := svc.IsSubscribed(follower.ID, author.ID)
	require.NoError(t, err)
	assert.False(t, subscribed)
}

func TestSubscriptionService_Subscriptions_RecipesLimit(t *testing.T) {
	testDB, svc, follower, author := setupSubscriptionServiceTest(t)

	createAuthorRecipes(t, testDB, author.ID, 5)
	_, err := svc.Subscribe(follower.ID, author.ID)
	require.NoError(t, err)

	subs, total, err := svc.Subscriptions(follower.ID, 10, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, subs, 1)

	// The preview is capped but the count reports the full set.
	assert.Len(t, subs[0].Recipes, 3)
	assert.Equal(t, int64(5), subs[0].RecipesCount)
}
