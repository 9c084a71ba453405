package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/dineflow/database"
	"github.com/yeremiapane/dineflow/models"
	"github.com/yeremiapane/dineflow/repository"
	"github.com/yeremiapane/dineflow/utils"
)

// fixedNow is noon on 1 June 2030, far from any date boundary.
var fixedNow = time.Date(2030, time.June, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, name, role string) *models.User {
	t.Helper()
	user := &models.User{
		Name:     name,
		Email:    fmt.Sprintf("%s@example.com", name),
		Password: "hash",
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func actorOf(u *models.User) Actor {
	return Actor{UserID: u.ID, Role: u.Role}
}

func createItem(t *testing.T, db *gorm.DB, name string, price float64, available bool) *models.MenuItem {
	t.Helper()
	svc := NewMenuService(repository.NewMenuRepository(db))
	ctx := context.Background()

	var menu models.Menu
	if err := db.First(&menu).Error; err != nil {
		created, err := svc.CreateMenu(ctx, "Main")
		require.NoError(t, err)
		menu = *created
	}

	item, err := svc.AddItem(ctx, menu.ID, MenuItemInput{
		Name:      name,
		Price:     price,
		Category:  "mains",
		Available: &available,
	})
	require.NoError(t, err)
	return item
}

func requireKind(t *testing.T, err error, kind utils.ErrorKind) {
	t.Helper()
	require.Error(t, err)
	require.True(t, utils.IsKind(err, kind), "unexpected error: %v", err)
}

func newAuthService(db *gorm.DB) *AuthService {
	svc := NewAuthService(
		repository.NewUserRepository(db),
		utils.NewTokenManager("test-secret", time.Hour),
		utils.NewMemoryBlocklist(),
	)
	svc.HashCost = bcrypt.MinCost
	return svc
}
