package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/dineflow/models"
	"github.com/yeremiapane/dineflow/repository"
	"github.com/yeremiapane/dineflow/utils"
)

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{Name: "Dana", Email: "  Dana@Example.com ", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, "dana@example.com", res.User.Email)
	assert.Equal(t, models.RoleCustomer, res.User.Role)
	assert.NotEqual(t, "hunter22", res.User.Password)
	assert.NotEmpty(t, res.Token)

	_, err = svc.Register(ctx, RegisterInput{Name: "Other", Email: "DANA@example.com", Password: "x"})
	requireKind(t, err, utils.KindValidation)

	_, err = svc.Register(ctx, RegisterInput{Name: "", Email: "a@b.c", Password: "x"})
	requireKind(t, err, utils.KindValidation)

	logged, err := svc.Login(ctx, "DANA@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, logged.User.ID)

	_, err = svc.Login(ctx, "dana@example.com", "wrong")
	requireKind(t, err, utils.KindUnauthenticated)
	_, err = svc.Login(ctx, "nobody@example.com", "hunter22")
	requireKind(t, err, utils.KindUnauthenticated)
}

func TestAuthenticateAndLogout(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{Name: "Eli", Email: "eli@example.com", Password: "pw"})
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, user.ID)

	_, err = svc.Authenticate(ctx, "not-a-token")
	requireKind(t, err, utils.KindUnauthenticated)

	require.NoError(t, svc.Logout(ctx, res.Token))
	_, err = svc.Authenticate(ctx, res.Token)
	requireKind(t, err, utils.KindUnauthenticated)
}

func TestAuthenticateDeletedUser(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{Name: "Fay", Email: "fay@example.com", Password: "pw"})
	require.NoError(t, err)
	require.NoError(t, db.Delete(&models.User{}, res.User.ID).Error)

	_, err = svc.Authenticate(ctx, res.Token)
	requireKind(t, err, utils.KindUnauthenticated)
}

func TestUpdateProfile(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{Name: "Gus", Email: "gus@example.com", Password: "old"})
	require.NoError(t, err)
	id := res.User.ID

	name, phone := "Gustavo", " 555-0100 "
	user, err := svc.UpdateProfile(ctx, id, ProfileInput{Name: &name, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Gustavo", user.Name)
	require.NotNil(t, user.Phone)
	assert.Equal(t, "555-0100", *user.Phone)

	_, err = svc.UpdateProfile(ctx, id, ProfileInput{CurrentPassword: "nope", NewPassword: "new"})
	requireKind(t, err, utils.KindValidation)

	_, err = svc.UpdateProfile(ctx, id, ProfileInput{CurrentPassword: "old", NewPassword: "new"})
	require.NoError(t, err)
	_, err = svc.Login(ctx, "gus@example.com", "new")
	require.NoError(t, err)

	_, err = svc.Profile(ctx, 999)
	requireKind(t, err, utils.KindNotFound)
}

// blindEmailLookup misses every email, as a concurrent registration would
// see before the other one commits.
type blindEmailLookup struct {
	repository.UserRepository
}

func (blindEmailLookup) FindByEmail(context.Context, string) (*models.User, error) {
	return nil, repository.ErrNotFound
}

func TestRegisterDuplicateEmailRace(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)
	svc.Users = blindEmailLookup{UserRepository: svc.Users}
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "Dana", Email: "dana@example.com", Password: "hunter22"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Name: "Dana Again", Email: "Dana@example.com", Password: "hunter22"})
	requireKind(t, err, utils.KindValidation)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
