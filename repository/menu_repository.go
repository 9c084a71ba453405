package repository

import (
	"context"

	"github.com/yeremiapane/dineflow/models"
	"gorm.io/gorm"
)

type MenuItemFilter struct {
	Category  string
	Available *bool
}

type MenuRepository interface {
	CreateMenu(ctx context.Context, menu *models.Menu) error
	ListMenus(ctx context.Context) ([]models.Menu, error)
	FindMenu(ctx context.Context, id uint) (*models.Menu, error)

	AddItem(ctx context.Context, menuID uint, item *models.MenuItem) error
	FindItem(ctx context.Context, id uint) (*models.MenuItem, error)
	FindItems(ctx context.Context, ids []uint) ([]models.MenuItem, error)
	ListItems(ctx context.Context, filter MenuItemFilter) ([]models.MenuItem, error)
	MenuHasItem(ctx context.Context, menuID, itemID uint) (bool, error)
	UpdateItem(ctx context.Context, item *models.MenuItem) error
	RemoveItem(ctx context.Context, menuID, itemID uint) error
}

type GormMenuRepository struct {
	DB *gorm.DB
}

func NewMenuRepository(db *gorm.DB) *GormMenuRepository {
	return &GormMenuRepository{DB: db}
}

func (r *GormMenuRepository) CreateMenu(ctx context.Context, menu *models.Menu) error {
	return r.DB.WithContext(ctx).Create(menu).Error
}

func (r *GormMenuRepository) ListMenus(ctx context.Context) ([]models.Menu, error) {
	var menus []models.Menu
	err := r.DB.WithContext(ctx).Preload("Items").Order("id ASC").Find(&menus).Error
	return menus, err
}

func (r *GormMenuRepository) FindMenu(ctx context.Context, id uint) (*models.Menu, error) {
	var menu models.Menu
	if err := r.DB.WithContext(ctx).Preload("Items").First(&menu, id).Error; err != nil {
		return nil, translate(err)
	}
	return &menu, nil
}

// AddItem creates the item and links it to the menu in one transaction.
func (r *GormMenuRepository) AddItem(ctx context.Context, menuID uint, item *models.MenuItem) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var menu models.Menu
		if err := tx.First(&menu, menuID).Error; err != nil {
			return translate(err)
		}
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		return tx.Model(&menu).Association("Items").Append(item)
	})
}

func (r *GormMenuRepository) FindItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.DB.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *GormMenuRepository) FindItems(ctx context.Context, ids []uint) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if len(ids) == 0 {
		return items, nil
	}
	err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error
	return items, err
}

func (r *GormMenuRepository) ListItems(ctx context.Context, filter MenuItemFilter) ([]models.MenuItem, error) {
	q := r.DB.WithContext(ctx).Model(&models.MenuItem{})
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Available != nil {
		q = q.Where("available = ?", *filter.Available)
	}

	var items []models.MenuItem
	err := q.Order("category ASC, name ASC").Find(&items).Error
	return items, err
}

func (r *GormMenuRepository) MenuHasItem(ctx context.Context, menuID, itemID uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Table("menu_menu_items").
		Where("menu_id = ? AND menu_item_id = ?", menuID, itemID).
		Count(&count).Error
	return count > 0, err
}

func (r *GormMenuRepository) UpdateItem(ctx context.Context, item *models.MenuItem) error {
	return r.DB.WithContext(ctx).Save(item).Error
}

// RemoveItem unlinks the item from the menu and soft deletes it.
func (r *GormMenuRepository) RemoveItem(ctx context.Context, menuID, itemID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		menu := models.Menu{ID: menuID}
		item := models.MenuItem{ID: itemID}
		if err := tx.Model(&menu).Association("Items").Delete(&item); err != nil {
			return err
		}
		res := tx.Delete(&models.MenuItem{}, itemID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
