package repository

import (
	"context"

	"github.com/yeremiapane/dineflow/models"
	"gorm.io/gorm"
)

type OrderFilter struct {
	UserID *uint
	Status string
}

// ItemQuantity is one row of the ordered-quantity aggregation.
type ItemQuantity struct {
	MenuItemID    uint  `json:"menu_item_id"`
	TotalQuantity int64 `json:"total_quantity"`
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uint) (*models.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	Delete(ctx context.Context, id uint) error

	Count(ctx context.Context) (int64, error)
	TotalRevenue(ctx context.Context) (float64, error)
	TopItems(ctx context.Context, limit int) ([]ItemQuantity, error)
	Recent(ctx context.Context, limit int) ([]models.Order, error)
}

type GormOrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{DB: db}
}

// Create stores the order and its lines in a single transaction.
func (r *GormOrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit("User").Create(order).Error
	})
}

func (r *GormOrderRepository) withDetails(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Preload("User").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.MenuItem", func(db *gorm.DB) *gorm.DB { return db.Unscoped() })
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.withDetails(ctx).First(&order, id).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *GormOrderRepository) List(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	q := r.withDetails(ctx)
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var orders []models.Order
	err := q.Order("created_at DESC, id DESC").Find(&orders).Error
	return orders, err
}

func (r *GormOrderRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormOrderRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Order{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *GormOrderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Order{}).Count(&count).Error
	return count, err
}

func (r *GormOrderRepository) TotalRevenue(ctx context.Context) (float64, error) {
	var total float64
	err := r.DB.WithContext(ctx).Model(&models.Order{}).
		Select("COALESCE(SUM(total_price), 0)").
		Row().Scan(&total)
	return total, err
}

// TopItems sums ordered quantities per menu item across all orders.
// Deleted menu items are left out before the limit applies.
func (r *GormOrderRepository) TopItems(ctx context.Context, limit int) ([]ItemQuantity, error) {
	var rows []ItemQuantity
	err := r.DB.WithContext(ctx).Model(&models.OrderItem{}).
		Select("order_items.menu_item_id, SUM(order_items.quantity) AS total_quantity").
		Joins("JOIN menu_items ON menu_items.id = order_items.menu_item_id AND menu_items.deleted_at IS NULL").
		Group("order_items.menu_item_id").
		Order("total_quantity DESC, order_items.menu_item_id ASC").
		Limit(clampLimit(limit, 5, 50)).
		Scan(&rows).Error
	return rows, err
}

func (r *GormOrderRepository) Recent(ctx context.Context, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.withDetails(ctx).
		Order("created_at DESC, id DESC").
		Limit(clampLimit(limit, 5, 50)).
		Find(&orders).Error
	return orders, err
}
