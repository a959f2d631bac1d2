package repository

import (
	"github.com/avoronova/recipehub-backend/internal/app/model"
	"github.com/avoronova/recipehub-backend/pkg/logger"
	"gorm.io/gorm"
)

type FollowRepository interface {
	Create(follow *model.Follow) error
	Delete(followerID, followingID uint) (int64, error)
	Exists(followerID, followingID uint) (bool, error)
	FindFollowing(followerID uint, limit, offset int) ([]model.User, error)
	CountFollowing(followerID uint) (int64, error)
	CountFollowers(userID uint) (int64, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Create(follow *model.Follow) error {
	logger.Debug("Creating follow in database", map[string]interface{}{
		"follower_id":  follow.FollowerID,
		"following_id": follow.FollowingID,
	})

	if err := r.db.Create(follow).Error; err != nil {
		logger.Error("Failed to create follow in database", err, map[string]interface{}{
			"follower_id":  follow.FollowerID,
			"following_id": follow.FollowingID,
		})
		return err
	}
	return nil
}

// Delete removes the follow pair and reports how many rows went away, so the
// caller can distinguish "unsubscribed" from "was never subscribed".
func (r *followRepository) Delete(followerID, followingID uint) (int64, error) {
	result := r.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&model.Follow{})
	if result.Error != nil {
		logger.Error("Failed to delete follow from database", result.Error, map[string]interface{}{
			"follower_id":  followerID,
			"following_id": followingID,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *followRepository) Exists(followerID, followingID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindFollowing returns the authors the user is subscribed to, ordered by username.
func (r *followRepository) FindFollowing(followerID uint, limit, offset int) ([]model.User, error) {
	query := r.db.Model(&model.User{}).
		Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.follower_id = ?", followerID).
		Order("users.username ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var users []model.User
	if err := query.Find(&users).Error; err != nil {
		logger.Error("Failed to find followed users in database", err, map[string]interface{}{
			"follower_id": followerID,
		})
		return nil, err
	}
	return users, nil
}

func (r *followRepository) CountFollowing(followerID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Follow{}).
		Where("follower_id = ?", followerID).
		Count(&count).Error
	return count, err
}

func (r *followRepository) CountFollowers(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Follow{}).
		Where("following_id = ?", userID).
		Count(&count).Error
	return count, err
}
