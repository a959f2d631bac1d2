package service

import (
	"context"
	"errors"

	"github.com/avoronova/recipehub-backend/internal/app/model"
	"github.com/avoronova/recipehub-backend/internal/app/repository"
	"github.com/avoronova/recipehub-backend/internal/storage"
	"github.com/avoronova/recipehub-backend/pkg/logger"
	"github.com/avoronova/recipehub-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidImage = errors.New("invalid image payload")
)

type UserService interface {
	GetUser(id uint) (*model.User, error)
	ListUsers(limit, offset int) ([]model.User, int64, error)
	SetAvatar(ctx context.Context, userID uint, imageDataURI string) (*model.User, error)
	DeleteAvatar(ctx context.Context, userID uint) error
}

type userService struct {
	userRepo repository.UserRepository
	images   storage.ImageStorage
}

func NewUserService(userRepo repository.UserRepository, images storage.ImageStorage) UserService {
	return &userService{
		userRepo: userRepo,
		images:   images,
	}
}

func (s *userService) GetUser(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) ListUsers(limit, offset int) ([]model.User, int64, error) {
	users, err := s.userRepo.FindAll(limit, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.userRepo.Count()
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// SetAvatar decodes the base64 data URI, stores the image and records its URL.
func (s *userService) SetAvatar(ctx context.Context, userID uint, imageDataURI string) (*model.User, error) {
	logger.Info("Setting user avatar", map[string]interface{}{
		"user_id": userID,
	})

	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	data, contentType, ext, err := util.DecodeImageDataURI(imageDataURI)
	if err != nil {
		logger.Warn("Rejected avatar upload: invalid image data", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrInvalidImage
	}

	url, err := s.images.UploadImage(ctx, "avatars", data, contentType, ext)
	if err != nil {
		logger.Error("Failed to upload avatar image", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	user.Avatar = url
	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to persist avatar URL", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("User avatar updated", map[string]interface{}{
		"user_id": userID,
	})
	return user, nil
}

func (s *userService) DeleteAvatar(ctx context.Context, userID uint) error {
	logger.Info("Deleting user avatar", map[string]interface{}{
		"user_id": userID,
	})

	user, err := s.GetUser(userID)
	if err != nil {
		return err
	}

	if user.Avatar != "" {
		if err := s.images.DeleteImage(ctx, user.Avatar); err != nil {
			// The avatar reference is still cleared; an orphaned object is
			// preferable to a dangling URL.
			logger.Warn("Failed to delete avatar object from storage", map[string]interface{}{
				"user_id": userID,
				"error":   err.Error(),
			})
		}
	}

	user.Avatar = ""
	return s.userRepo.Update(user)
}
