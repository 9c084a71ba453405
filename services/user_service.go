package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yeremiapane/dineflow/models"
	"github.com/yeremiapane/dineflow/repository"
	"github.com/yeremiapane/dineflow/utils"
)

type UpdateUserInput struct {
	Name  *string
	Email *string
	Phone *string
	Role  *string
}

type UserService struct {
	Users repository.UserRepository
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{Users: users}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.Users.List(ctx)
	if err != nil {
		return nil, utils.ErrInternal("failed to list users", err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.Users.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "user", id)
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id uint, in UpdateUserInput) (*models.User, error) {
	user, err := s.Users.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "user", id)
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, utils.ErrValidation("name cannot be empty")
		}
		user.Name = name
	}
	if in.Email != nil {
		email := NormalizeEmail(*in.Email)
		if email == "" {
			return nil, utils.ErrValidation("email cannot be empty")
		}
		if email != user.Email {
			existing, err := s.Users.FindByEmail(ctx, email)
			if err == nil && existing.ID != user.ID {
				return nil, utils.ErrValidation("email %s is already registered", email)
			}
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return nil, utils.ErrInternal("failed to check email", err)
			}
			user.Email = email
		}
	}
	if in.Phone != nil {
		user.Phone = trimmedOrNil(in.Phone)
	}
	if in.Role != nil {
		if !models.IsValidRole(*in.Role) {
			return nil, utils.ErrValidation("role must be one of customer, staff, admin")
		}
		user.Role = *in.Role
	}

	if err := s.Users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.ErrValidation("email %s is already registered", user.Email)
		}
		return nil, utils.ErrInternal("failed to update user", err)
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, actor Actor, id uint) error {
	if actor.UserID == id {
		return utils.ErrValidation("you cannot delete your own account")
	}
	if err := s.Users.Delete(ctx, id); err != nil {
		return lookupError(err, "user", id)
	}
	utils.InfoLogger.Printf("User %d deleted by %d", id, actor.UserID)
	return nil
}
