package repository

import (
	"context"

	"github.com/yeremiapane/dineflow/models"
	"gorm.io/gorm"
)

type ReservationFilter struct {
	UserID *uint
	Date   string
	Status string
}

type ReservationRepository interface {
	Create(ctx context.Context, reservation *models.Reservation) error
	FindByID(ctx context.Context, id uint) (*models.Reservation, error)
	List(ctx context.Context, filter ReservationFilter) ([]models.Reservation, error)

	// UpdateIfUnchanged writes next's guests, phone, slot and table, but only
	// while the stored row is still confirmed with current's slot and table.
	// It reports false when the row no longer matches.
	UpdateIfUnchanged(ctx context.Context, current, next *models.Reservation) (bool, error)
	// Cancel moves a confirmed reservation to cancelled. It reports false
	// when the reservation was not confirmed.
	Cancel(ctx context.Context, id uint) (bool, error)

	// UsedTables returns the table numbers held by confirmed reservations
	// in the slot, ignoring the reservation with id excludeID (0 for none).
	UsedTables(ctx context.Context, date, time string, excludeID uint) ([]int, error)

	Count(ctx context.Context) (int64, error)
	Recent(ctx context.Context, limit int) ([]models.Reservation, error)
}

type GormReservationRepository struct {
	DB *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *GormReservationRepository {
	return &GormReservationRepository{DB: db}
}

func (r *GormReservationRepository) Create(ctx context.Context, reservation *models.Reservation) error {
	return r.DB.WithContext(ctx).Omit("User").Create(reservation).Error
}

func (r *GormReservationRepository) FindByID(ctx context.Context, id uint) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := r.DB.WithContext(ctx).Preload("User").First(&reservation, id).Error; err != nil {
		return nil, translate(err)
	}
	return &reservation, nil
}

func (r *GormReservationRepository) List(ctx context.Context, filter ReservationFilter) ([]models.Reservation, error) {
	q := r.DB.WithContext(ctx).Preload("User")
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.Date != "" {
		q = q.Where("date = ?", filter.Date)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var reservations []models.Reservation
	err := q.Order("date ASC, time ASC, table_number ASC").Find(&reservations).Error
	return reservations, err
}

func (r *GormReservationRepository) UpdateIfUnchanged(ctx context.Context, current, next *models.Reservation) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Reservation{}).
		Where("id = ? AND status = ? AND date = ? AND time = ? AND table_number = ?",
			current.ID, models.ReservationConfirmed, current.Date, current.Time, current.TableNumber).
		Updates(map[string]interface{}{
			"guests":       next.Guests,
			"phone":        next.Phone,
			"date":         next.Date,
			"time":         next.Time,
			"table_number": next.TableNumber,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *GormReservationRepository) Cancel(ctx context.Context, id uint) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Reservation{}).
		Where("id = ? AND status = ?", id, models.ReservationConfirmed).
		Update("status", models.ReservationCancelled)
	return res.RowsAffected > 0, res.Error
}

func (r *GormReservationRepository) UsedTables(ctx context.Context, date, time string, excludeID uint) ([]int, error) {
	q := r.DB.WithContext(ctx).Model(&models.Reservation{}).
		Where("date = ? AND time = ? AND status = ?", date, time, models.ReservationConfirmed)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var tables []int
	err := q.Pluck("table_number", &tables).Error
	return tables, err
}

func (r *GormReservationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Reservation{}).Count(&count).Error
	return count, err
}

func (r *GormReservationRepository) Recent(ctx context.Context, limit int) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := r.DB.WithContext(ctx).Preload("User").
		Order("created_at DESC, id DESC").
		Limit(clampLimit(limit, 5, 50)).
		Find(&reservations).Error
	return reservations, err
}
