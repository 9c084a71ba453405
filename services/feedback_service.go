package services

import (
	"context"
	"strings"
	"time"

	"github.com/yeremiapane/dineflow/models"
	"github.com/yeremiapane/dineflow/repository"
	"github.com/yeremiapane/dineflow/utils"
)

const (
	defaultRecentFeedback = 5
	maxRecentFeedback     = 50
)

type FeedbackInput struct {
	Message string
	Rating  int
}

// MyFeedback groups the caller's own entries of both kinds.
type MyFeedback struct {
	Restaurant []models.RestaurantFeedback `json:"restaurant"`
	Item       []models.ItemFeedback       `json:"item"`
}

type FeedbackService struct {
	Restaurant repository.FeedbackRepository[models.RestaurantFeedback]
	Items      repository.FeedbackRepository[models.ItemFeedback]
	Menus      repository.MenuRepository
	Now        func() time.Time
}

func NewFeedbackService(
	restaurant repository.FeedbackRepository[models.RestaurantFeedback],
	items repository.FeedbackRepository[models.ItemFeedback],
	menus repository.MenuRepository,
) *FeedbackService {
	return &FeedbackService{
		Restaurant: restaurant,
		Items:      items,
		Menus:      menus,
		Now:        time.Now,
	}
}

func validateFeedback(in FeedbackInput) (string, error) {
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return "", utils.ErrValidation("message is required")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return "", utils.ErrValidation("rating must be between 1 and 5")
	}
	return message, nil
}

func (s *FeedbackService) AddRestaurantFeedback(ctx context.Context, actor Actor, in FeedbackInput) (*models.RestaurantFeedback, error) {
	message, err := validateFeedback(in)
	if err != nil {
		return nil, err
	}

	fb := &models.RestaurantFeedback{
		UserID:  actor.UserID,
		Message: message,
		Rating:  in.Rating,
		Date:    s.Now(),
		Status:  models.FeedbackPending,
	}
	if err := s.Restaurant.Create(ctx, fb); err != nil {
		return nil, utils.ErrInternal("failed to save feedback", err)
	}
	return loadFeedback(ctx, s.Restaurant, fb.ID)
}

func (s *FeedbackService) AddItemFeedback(ctx context.Context, actor Actor, menuItemID uint, in FeedbackInput) (*models.ItemFeedback, error) {
	message, err := validateFeedback(in)
	if err != nil {
		return nil, err
	}
	if _, err := s.Menus.FindItem(ctx, menuItemID); err != nil {
		return nil, lookupError(err, "menu item", menuItemID)
	}

	fb := &models.ItemFeedback{
		UserID:     actor.UserID,
		MenuItemID: menuItemID,
		Message:    message,
		Rating:     in.Rating,
		Date:       s.Now(),
		Status:     models.FeedbackPending,
	}
	if err := s.Items.Create(ctx, fb); err != nil {
		return nil, utils.ErrInternal("failed to save feedback", err)
	}
	return loadFeedback(ctx, s.Items, fb.ID)
}

func (s *FeedbackService) ListRestaurantFeedback(ctx context.Context, filter repository.FeedbackFilter) ([]models.RestaurantFeedback, error) {
	if err := checkSort(filter.SortByRating); err != nil {
		return nil, err
	}
	return listFeedback(ctx, s.Restaurant, filter)
}

func (s *FeedbackService) ListItemFeedback(ctx context.Context, filter repository.FeedbackFilter) ([]models.ItemFeedback, error) {
	if err := checkSort(filter.SortByRating); err != nil {
		return nil, err
	}
	return listFeedback(ctx, s.Items, filter)
}

func (s *FeedbackService) Mine(ctx context.Context, actor Actor) (*MyFeedback, error) {
	uid := actor.UserID
	filter := repository.FeedbackFilter{UserID: &uid}

	restaurant, err := listFeedback(ctx, s.Restaurant, filter)
	if err != nil {
		return nil, err
	}
	items, err := listFeedback(ctx, s.Items, filter)
	if err != nil {
		return nil, err
	}
	return &MyFeedback{Restaurant: restaurant, Item: items}, nil
}

func (s *FeedbackService) ReplyRestaurantFeedback(ctx context.Context, actor Actor, id uint, reply string) (*models.RestaurantFeedback, error) {
	return replyFeedback(ctx, s.Restaurant, actor, id, reply, s.Now())
}

func (s *FeedbackService) ReplyItemFeedback(ctx context.Context, actor Actor, id uint, reply string) (*models.ItemFeedback, error) {
	return replyFeedback(ctx, s.Items, actor, id, reply, s.Now())
}

// RestaurantStats and ItemStats round the average to one decimal.
func (s *FeedbackService) RestaurantStats(ctx context.Context) (models.FeedbackSummary, error) {
	return feedbackStats(ctx, s.Restaurant)
}

func (s *FeedbackService) ItemStats(ctx context.Context) (models.FeedbackSummary, error) {
	return feedbackStats(ctx, s.Items)
}

func (s *FeedbackService) RecentRestaurantFeedback(ctx context.Context, limit int) ([]models.RestaurantFeedback, error) {
	return recentFeedback(ctx, s.Restaurant, limit)
}

func (s *FeedbackService) RecentItemFeedback(ctx context.Context, limit int) ([]models.ItemFeedback, error) {
	return recentFeedback(ctx, s.Items, limit)
}

func checkSort(order string) error {
	switch order {
	case "", "asc", "desc":
		return nil
	}
	return utils.ErrValidation("order must be asc or desc")
}

func loadFeedback[T repository.Feedback](ctx context.Context, repo repository.FeedbackRepository[T], id uint) (*T, error) {
	fb, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "feedback", id)
	}
	return fb, nil
}

func listFeedback[T repository.Feedback](ctx context.Context, repo repository.FeedbackRepository[T], filter repository.FeedbackFilter) ([]T, error) {
	rows, err := repo.List(ctx, filter)
	if err != nil {
		return nil, utils.ErrInternal("failed to list feedback", err)
	}
	return rows, nil
}

// replyFeedback performs the only status transition feedback has:
// pending -> replied.
func replyFeedback[T repository.Feedback](ctx context.Context, repo repository.FeedbackRepository[T], actor Actor, id uint, reply string, at time.Time) (*T, error) {
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return nil, utils.ErrValidation("reply is required")
	}

	updated, err := repo.Reply(ctx, id, actor.UserID, reply, at)
	if err != nil {
		return nil, utils.ErrInternal("failed to save reply", err)
	}
	if !updated {
		if _, err := repo.FindByID(ctx, id); err != nil {
			return nil, lookupError(err, "feedback", id)
		}
		return nil, utils.ErrConflict("feedback %d has already been replied to", id)
	}

	utils.InfoLogger.Printf("Feedback %d replied by admin %d", id, actor.UserID)
	return loadFeedback(ctx, repo, id)
}

func feedbackStats[T repository.Feedback](ctx context.Context, repo repository.FeedbackRepository[T]) (models.FeedbackSummary, error) {
	summary, err := repo.Summary(ctx)
	if err != nil {
		return models.FeedbackSummary{}, utils.ErrInternal("failed to summarise feedback", err)
	}
	summary.Average = utils.RoundTo(summary.Average, 1)
	return summary, nil
}

func recentFeedback[T repository.Feedback](ctx context.Context, repo repository.FeedbackRepository[T], limit int) ([]T, error) {
	if limit <= 0 {
		limit = defaultRecentFeedback
	}
	if limit > maxRecentFeedback {
		return nil, utils.ErrValidation("limit cannot exceed %d", maxRecentFeedback)
	}
	rows, err := repo.Recent(ctx, limit)
	if err != nil {
		return nil, utils.ErrInternal("failed to load recent feedback", err)
	}
	return rows, nil
}
