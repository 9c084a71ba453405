package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yeremiapane/dineflow/models"
	"github.com/yeremiapane/dineflow/repository"
	"github.com/yeremiapane/dineflow/utils"
)

func newFeedbackService(db *gorm.DB) *FeedbackService {
	svc := NewFeedbackService(
		repository.NewRestaurantFeedbackRepository(db),
		repository.NewItemFeedbackRepository(db),
		repository.NewMenuRepository(db),
	)
	svc.Now = clock
	return svc
}

func TestFeedbackReplyOnlyOnce(t *testing.T) {
	db := setupTestDB(t)
	svc := newFeedbackService(db)
	ctx := context.Background()
	user := actorOf(createUser(t, db, "critic", models.RoleCustomer))
	admin := actorOf(createUser(t, db, "owner", models.RoleAdmin))

	fb, err := svc.AddRestaurantFeedback(ctx, user, FeedbackInput{Message: " Lovely evening ", Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, "Lovely evening", fb.Message)
	assert.Equal(t, models.FeedbackPending, fb.Status)
	assert.Equal(t, "critic", fb.User.Name)

	replied, err := svc.ReplyRestaurantFeedback(ctx, admin, fb.ID, "Thank you!")
	require.NoError(t, err)
	assert.Equal(t, models.FeedbackReplied, replied.Status)
	require.NotNil(t, replied.Reply)
	assert.Equal(t, "Thank you!", *replied.Reply)
	require.NotNil(t, replied.AdminID)
	assert.Equal(t, admin.UserID, *replied.AdminID)

	_, err = svc.ReplyRestaurantFeedback(ctx, admin, fb.ID, "Again")
	requireKind(t, err, utils.KindConflict)

	_, err = svc.ReplyRestaurantFeedback(ctx, admin, 999, "Hello")
	requireKind(t, err, utils.KindNotFound)

	_, err = svc.ReplyRestaurantFeedback(ctx, admin, fb.ID, "   ")
	requireKind(t, err, utils.KindValidation)
}

func TestFeedbackValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := newFeedbackService(db)
	ctx := context.Background()
	user := actorOf(createUser(t, db, "critic", models.RoleCustomer))

	_, err := svc.AddRestaurantFeedback(ctx, user, FeedbackInput{Message: "ok", Rating: 0})
	requireKind(t, err, utils.KindValidation)
	_, err = svc.AddRestaurantFeedback(ctx, user, FeedbackInput{Message: "ok", Rating: 6})
	requireKind(t, err, utils.KindValidation)
	_, err = svc.AddRestaurantFeedback(ctx, user, FeedbackInput{Message: "", Rating: 3})
	requireKind(t, err, utils.KindValidation)
	_, err = svc.AddItemFeedback(ctx, user, 42, FeedbackInput{Message: "where is it", Rating: 3})
	requireKind(t, err, utils.KindNotFound)

	_, err = svc.ListRestaurantFeedback(ctx, repository.FeedbackFilter{SortByRating: "up"})
	requireKind(t, err, utils.KindValidation)
	_, err = svc.RecentItemFeedback(ctx, 51)
	requireKind(t, err, utils.KindValidation)
}

func TestFeedbackListingAndStats(t *testing.T) {
	db := setupTestDB(t)
	svc := newFeedbackService(db)
	ctx := context.Background()
	alice := actorOf(createUser(t, db, "alice", models.RoleCustomer))
	bob := actorOf(createUser(t, db, "bob", models.RoleCustomer))
	admin := actorOf(createUser(t, db, "owner", models.RoleAdmin))
	pasta := createItem(t, db, "Pasta", 11, true)
	pizza := createItem(t, db, "Pizza", 13, true)

	ratings := []struct {
		actor  Actor
		itemID uint
		rating int
	}{
		{alice, pasta.ID, 5},
		{bob, pasta.ID, 2},
		{alice, pizza.ID, 4},
	}
	for i, r := range ratings {
		// distinct dates so recency order is stable
		svc.Now = func() time.Time { return fixedNow.Add(time.Duration(i) * time.Minute) }
		_, err := svc.AddItemFeedback(ctx, r.actor, r.itemID, FeedbackInput{Message: "note", Rating: r.rating})
		require.NoError(t, err)
	}
	svc.Now = clock

	byItem, err := svc.ListItemFeedback(ctx, repository.FeedbackFilter{MenuItemID: &pasta.ID})
	require.NoError(t, err)
	require.Len(t, byItem, 2)
	assert.Equal(t, "Pasta", byItem[0].MenuItem.Name)

	asc, err := svc.ListItemFeedback(ctx, repository.FeedbackFilter{SortByRating: "asc"})
	require.NoError(t, err)
	require.Len(t, asc, 3)
	assert.Equal(t, []int{2, 4, 5}, []int{asc[0].Rating, asc[1].Rating, asc[2].Rating})

	recent, err := svc.RecentItemFeedback(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, 4, recent[0].Rating)

	_, err = svc.ReplyItemFeedback(ctx, admin, asc[0].ID, "Sorry about that")
	require.NoError(t, err)

	stats, err := svc.ItemStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, 3.7, stats.Average)
	assert.Equal(t, int64(2), stats.Pending)
	assert.Equal(t, int64(1), stats.Replied)

	empty, err := svc.RestaurantStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, empty.Total)
	assert.Zero(t, empty.Average)

	mine, err := svc.Mine(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, mine.Item, 2)
	assert.Empty(t, mine.Restaurant)
}
