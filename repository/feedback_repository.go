package repository

import (
	"context"
	"time"

	"github.com/yeremiapane/dineflow/models"
	"gorm.io/gorm"
)

// Feedback is satisfied by both feedback tables.
type Feedback interface {
	models.RestaurantFeedback | models.ItemFeedback
}

type FeedbackFilter struct {
	UserID     *uint
	MenuItemID *uint
	// SortByRating is "", "asc" or "desc". Empty sorts newest first.
	SortByRating string
}

type FeedbackRepository[T Feedback] interface {
	Create(ctx context.Context, feedback *T) error
	FindByID(ctx context.Context, id uint) (*T, error)
	List(ctx context.Context, filter FeedbackFilter) ([]T, error)
	// Reply moves a pending entry to replied. It reports false when no
	// pending entry with that id exists.
	Reply(ctx context.Context, id, adminID uint, reply string, at time.Time) (bool, error)
	Summary(ctx context.Context) (models.FeedbackSummary, error)
	Recent(ctx context.Context, limit int) ([]T, error)
}

type GormFeedbackRepository[T Feedback] struct {
	DB       *gorm.DB
	preloads []string
}

func NewRestaurantFeedbackRepository(db *gorm.DB) *GormFeedbackRepository[models.RestaurantFeedback] {
	return &GormFeedbackRepository[models.RestaurantFeedback]{DB: db, preloads: []string{"User"}}
}

func NewItemFeedbackRepository(db *gorm.DB) *GormFeedbackRepository[models.ItemFeedback] {
	return &GormFeedbackRepository[models.ItemFeedback]{DB: db, preloads: []string{"User", "MenuItem"}}
}

func (r *GormFeedbackRepository[T]) query(ctx context.Context) *gorm.DB {
	q := r.DB.WithContext(ctx)
	for _, p := range r.preloads {
		if p == "MenuItem" {
			q = q.Preload(p, func(db *gorm.DB) *gorm.DB { return db.Unscoped() })
			continue
		}
		q = q.Preload(p)
	}
	return q
}

func (r *GormFeedbackRepository[T]) Create(ctx context.Context, feedback *T) error {
	return r.DB.WithContext(ctx).Omit("User", "MenuItem").Create(feedback).Error
}

func (r *GormFeedbackRepository[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	var feedback T
	if err := r.query(ctx).First(&feedback, id).Error; err != nil {
		return nil, translate(err)
	}
	return &feedback, nil
}

func (r *GormFeedbackRepository[T]) List(ctx context.Context, filter FeedbackFilter) ([]T, error) {
	q := r.query(ctx)
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.MenuItemID != nil {
		q = q.Where("menu_item_id = ?", *filter.MenuItemID)
	}

	switch filter.SortByRating {
	case "asc":
		q = q.Order("rating ASC").Order("date DESC")
	case "desc":
		q = q.Order("rating DESC").Order("date DESC")
	default:
		q = q.Order("date DESC")
	}

	var rows []T
	err := q.Order("id DESC").Find(&rows).Error
	return rows, err
}

func (r *GormFeedbackRepository[T]) Reply(ctx context.Context, id, adminID uint, reply string, at time.Time) (bool, error) {
	res := r.DB.WithContext(ctx).Model(new(T)).
		Where("id = ? AND status = ?", id, models.FeedbackPending).
		Updates(map[string]interface{}{
			"admin_id":   adminID,
			"reply":      reply,
			"reply_date": at,
			"status":     models.FeedbackReplied,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormFeedbackRepository[T]) Summary(ctx context.Context) (models.FeedbackSummary, error) {
	var summary models.FeedbackSummary
	err := r.DB.WithContext(ctx).Model(new(T)).
		Select(
			"COUNT(*) AS total, "+
				"COALESCE(AVG(rating), 0) AS average, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS pending, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS replied",
			models.FeedbackPending, models.FeedbackReplied,
		).
		Scan(&summary).Error
	return summary, err
}

func (r *GormFeedbackRepository[T]) Recent(ctx context.Context, limit int) ([]T, error) {
	var rows []T
	err := r.query(ctx).
		Order("date DESC, id DESC").
		Limit(clampLimit(limit, 5, 50)).
		Find(&rows).Error
	return rows, err
}
