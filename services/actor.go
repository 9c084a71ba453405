package services

import (
	"errors"

	"github.com/yeremiapane/dineflow/models"
	"github.com/yeremiapane/dineflow/repository"
	"github.com/yeremiapane/dineflow/utils"
)

// Actor is the authenticated caller of a service method.
type Actor struct {
	UserID uint
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// IsStaff is true for staff and admins.
func (a Actor) IsStaff() bool {
	return a.Role == models.RoleStaff || a.Role == models.RoleAdmin
}

// authorizeOwner lets the owner through and admins past the ownership check.
func authorizeOwner(a Actor, ownerID uint, resource string) error {
	if a.IsAdmin() || a.UserID == ownerID {
		return nil
	}
	return utils.ErrForbidden("you are not allowed to access this " + resource)
}

func lookupError(err error, resource string, id uint) error {
	if errors.Is(err, repository.ErrNotFound) {
		return utils.ErrNotFound("%s %d not found", resource, id)
	}
	return utils.ErrInternal("failed to load "+resource, err)
}
