package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/contentflow/contentflow-api/internal/models"
	"github.com/contentflow/contentflow-api/internal/repository"
)

type UserService interface {
	GetUserInfo(ctx context.Context, id int64) (*models.User, error)
	GetProfile(ctx context.Context, userID int64) (*models.Profile, error)
}

type userService struct {
	u repository.UserRepository
	p repository.ProfileRepository
}

func NewUserService(u repository.UserRepository, p repository.ProfileRepository) UserService {
	return &userService{
		u: u,
		p: p,
	}
}

func (s *userService) GetUserInfo(ctx context.Context, id int64) (*models.User, error) {
	user, isExist, err := s.u.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("Error getting user info: %w", err)
	}

	if !isExist {
		err = errors.New("User not found")
		slog.Info(err.Error())
		return nil, fmt.Errorf("User doesn't exist")
	}

	return user, nil
}

// GetProfile never fails on a missing row; users without a billing
// history are on the free tier.
func (s *userService) GetProfile(ctx context.Context, userID int64) (*models.Profile, error) {
	profile, ok, err := s.p.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Error getting profile: %w", err)
	}
	if !ok {
		return &models.Profile{UserID: userID, SubscriptionTier: models.PlanFree}, nil
	}
	return profile, nil
}
