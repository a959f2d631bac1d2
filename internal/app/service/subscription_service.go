package service

import (
	"errors"

	"github.com/avoronova/recipehub-backend/internal/app/model"
	"github.com/avoronova/recipehub-backend/internal/app/repository"
	"github.com/avoronova/recipehub-backend/pkg/logger"
)

var (
	ErrSelfFollow       = errors.New("cannot subscribe to yourself")
	ErrAlreadyFollowing = errors.New("already subscribed to this user")
	ErrFollowNotFound   = errors.New("subscription not found")
)

// Subscription is one followed author together with a preview of their recipes.
type Subscription struct {
	User         model.User
	Recipes      []model.Recipe
	RecipesCount int64
}

type SubscriptionService interface {
	Subscribe(followerID, authorID uint) (*Subscription, error)
	Unsubscribe(followerID, authorID uint) error
	Subscriptions(followerID uint, limit, offset, recipesLimit int) ([]Subscription, int64, error)
	IsSubscribed(followerID, authorID uint) (bool, error)
}

type subscriptionService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	recipeRepo repository.RecipeRepository
}

func NewSubscriptionService(
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	recipeRepo repository.RecipeRepository,
) SubscriptionService {
	return &subscriptionService{
		userRepo:   userRepo,
		followRepo: followRepo,
		recipeRepo: recipeRepo,
	}
}

func (s *subscriptionService) Subscribe(followerID, authorID uint) (*Subscription, error) {
	logger.Info("Creating subscription", map[string]interface{}{
		"follower_id": followerID,
		"author_id":   authorID,
	})

	if followerID == authorID {
		logger.Warn("Subscription rejected: self-follow", map[string]interface{}{
			"user_id": followerID,
		})
		return nil, ErrSelfFollow
	}

	author, err := s.userRepo.FindByID(authorID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	exists, err := s.followRepo.Exists(followerID, authorID)
	if err != nil {
		return nil, err
	}
	if exists {
		logger.Warn("Subscription rejected: already following", map[string]interface{}{
			"follower_id": followerID,
			"author_id":   authorID,
		})
		return nil, ErrAlreadyFollowing
	}

	follow := &model.Follow{
		FollowerID:  followerID,
		FollowingID: authorID,
	}
	if err := s.followRepo.Create(follow); err != nil {
		logger.Error("Failed to create subscription", err, map[string]interface{}{
			"follower_id": followerID,
			"author_id":   authorID,
		})
		return nil, err
	}

	sub, err := s.buildSubscription(*author, 0)
	if err != nil {
		return nil, err
	}

	logger.Info("Subscription created", map[string]interface{}{
		"follower_id": followerID,
		"author_id":   authorID,
	})
	return sub, nil
}

func (s *subscriptionService) Unsubscribe(followerID, authorID uint) error {
	logger.Info("Removing subscription", map[string]interface{}{
		"follower_id": followerID,
		"author_id":   authorID,
	})

	if _, err := s.userRepo.FindByID(authorID); err != nil {
		return ErrUserNotFound
	}

	rows, err := s.followRepo.Delete(followerID, authorID)
	if err != nil {
		return err
	}
	if rows == 0 {
		logger.Warn("Unsubscribe rejected: not following", map[string]interface{}{
			"follower_id": followerID,
			"author_id":   authorID,
		})
		return ErrFollowNotFound
	}
	return nil
}

// Subscriptions returns the followed authors page with each author's recipes.
// recipesLimit caps the per-author recipe preview; zero means no cap.
func (s *subscriptionService) Subscriptions(followerID uint, limit, offset, recipesLimit int) ([]Subscription, int64, error) {
	users, err := s.followRepo.FindFollowing(followerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.followRepo.CountFollowing(followerID)
	if err != nil {
		return nil, 0, err
	}

	subscriptions := make([]Subscription, 0, len(users))
	for _, user := range users {
		sub, err := s.buildSubscription(user, recipesLimit)
		if err != nil {
			return nil, 0, err
		}
		subscriptions = append(subscriptions, *sub)
	}
	return subscriptions, total, nil
}

func (s *subscriptionService) IsSubscribed(followerID, authorID uint) (bool, error) {
	return s.followRepo.Exists(followerID, authorID)
}

func (s *subscriptionService) buildSubscription(user model.User, recipesLimit int) (*Subscription, error) {
	recipes, err := s.recipeRepo.FindByAuthorID(user.ID, recipesLimit)
	if err != nil {
		return nil, err
	}

	count, err := s.recipeRepo.CountByAuthorID(user.ID)
	if err != nil {
		return nil, err
	}

	return &Subscription{
		User:         user,
		Recipes:      recipes,
		RecipesCount: count,
	}, nil
}
