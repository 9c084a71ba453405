package services

import (
	"context"
	"strings"

	"github.com/yeremiapane/dineflow/models"
	"github.com/yeremiapane/dineflow/repository"
	"github.com/yeremiapane/dineflow/utils"
)

type MenuItemInput struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Available   *bool
	Image       string
}

// MenuItemPatch carries the fields of a partial item update.
type MenuItemPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	Available   *bool
	Image       *string
}

type MenuService struct {
	Menus repository.MenuRepository
}

func NewMenuService(menus repository.MenuRepository) *MenuService {
	return &MenuService{Menus: menus}
}

func (s *MenuService) ListMenus(ctx context.Context) ([]models.Menu, error) {
	menus, err := s.Menus.ListMenus(ctx)
	if err != nil {
		return nil, utils.ErrInternal("failed to list menus", err)
	}
	return menus, nil
}

func (s *MenuService) GetMenu(ctx context.Context, id uint) (*models.Menu, error) {
	menu, err := s.Menus.FindMenu(ctx, id)
	if err != nil {
		return nil, lookupError(err, "menu", id)
	}
	return menu, nil
}

func (s *MenuService) CreateMenu(ctx context.Context, title string) (*models.Menu, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, utils.ErrValidation("title is required")
	}

	menu := &models.Menu{Title: title, Items: []models.MenuItem{}}
	if err := s.Menus.CreateMenu(ctx, menu); err != nil {
		return nil, utils.ErrInternal("failed to create menu", err)
	}
	utils.InfoLogger.Printf("Menu created: %s (id=%d)", menu.Title, menu.ID)
	return menu, nil
}

func (s *MenuService) ListItems(ctx context.Context, filter repository.MenuItemFilter) ([]models.MenuItem, error) {
	items, err := s.Menus.ListItems(ctx, filter)
	if err != nil {
		return nil, utils.ErrInternal("failed to list menu items", err)
	}
	return items, nil
}

func (s *MenuService) GetItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	item, err := s.Menus.FindItem(ctx, id)
	if err != nil {
		return nil, lookupError(err, "menu item", id)
	}
	return item, nil
}

func (s *MenuService) AddItem(ctx context.Context, menuID uint, in MenuItemInput) (*models.MenuItem, error) {
	item := &models.MenuItem{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       utils.RoundMoney(in.Price),
		Category:    strings.TrimSpace(in.Category),
		Available:   true,
		Image:       strings.TrimSpace(in.Image),
	}
	if in.Available != nil {
		item.Available = *in.Available
	}
	if err := validateItem(item); err != nil {
		return nil, err
	}

	if err := s.Menus.AddItem(ctx, menuID, item); err != nil {
		return nil, lookupError(err, "menu", menuID)
	}
	utils.InfoLogger.Printf("Menu item %q (%s) added to menu %d", item.Name, utils.FormatCurrency(item.Price), menuID)
	return item, nil
}

func (s *MenuService) UpdateItem(ctx context.Context, menuID, itemID uint, patch MenuItemPatch) (*models.MenuItem, error) {
	item, err := s.itemInMenu(ctx, menuID, itemID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		item.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		item.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Price != nil {
		item.Price = utils.RoundMoney(*patch.Price)
	}
	if patch.Category != nil {
		item.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.Available != nil {
		item.Available = *patch.Available
	}
	if patch.Image != nil {
		item.Image = strings.TrimSpace(*patch.Image)
	}
	if err := validateItem(item); err != nil {
		return nil, err
	}

	if err := s.Menus.UpdateItem(ctx, item); err != nil {
		return nil, utils.ErrInternal("failed to update menu item", err)
	}
	return item, nil
}

func (s *MenuService) RemoveItem(ctx context.Context, menuID, itemID uint) error {
	if _, err := s.itemInMenu(ctx, menuID, itemID); err != nil {
		return err
	}
	if err := s.Menus.RemoveItem(ctx, menuID, itemID); err != nil {
		return lookupError(err, "menu item", itemID)
	}
	utils.InfoLogger.Printf("Menu item %d removed from menu %d", itemID, menuID)
	return nil
}

func (s *MenuService) itemInMenu(ctx context.Context, menuID, itemID uint) (*models.MenuItem, error) {
	if _, err := s.Menus.FindMenu(ctx, menuID); err != nil {
		return nil, lookupError(err, "menu", menuID)
	}
	item, err := s.Menus.FindItem(ctx, itemID)
	if err != nil {
		return nil, lookupError(err, "menu item", itemID)
	}
	ok, err := s.Menus.MenuHasItem(ctx, menuID, itemID)
	if err != nil {
		return nil, utils.ErrInternal("failed to check menu item", err)
	}
	if !ok {
		return nil, lookupError(repository.ErrNotFound, "menu item", itemID)
	}
	return item, nil
}

func validateItem(item *models.MenuItem) error {
	switch {
	case item.Name == "":
		return utils.ErrValidation("name is required")
	case item.Category == "":
		return utils.ErrValidation("category is required")
	case item.Price < 0:
		return utils.ErrValidation("price cannot be negative")
	}
	return nil
}
