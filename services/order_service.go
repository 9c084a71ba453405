package services

import (
	"context"
	"strings"

	"github.com/yeremiapane/dineflow/models"
	"github.com/yeremiapane/dineflow/repository"
	"github.com/yeremiapane/dineflow/utils"
)

type OrderLineInput struct {
	MenuItemID uint
	Quantity   int
}

type CreateOrderInput struct {
	Type           string
	TableNumber    *int
	Items          []OrderLineInput
	SpecialRequest string
}

type OrderService struct {
	Orders repository.OrderRepository
	Menus  repository.MenuRepository
}

func NewOrderService(orders repository.OrderRepository, menus repository.MenuRepository) *OrderService {
	return &OrderService{Orders: orders, Menus: menus}
}

// OrderTotal is the sum of quantity times unit price, rounded to cents.
func OrderTotal(lines []models.OrderItem) float64 {
	var total float64
	for _, line := range lines {
		total += float64(line.Quantity) * line.UnitPrice
	}
	return utils.RoundMoney(total)
}

// Create prices every line from the current menu item price. Client
// supplied prices are never read.
func (s *OrderService) Create(ctx context.Context, actor Actor, in CreateOrderInput) (*models.Order, error) {
	if !models.IsValidOrderType(in.Type) {
		return nil, utils.ErrValidation("type must be one of dine-in, takeaway, delivery")
	}
	if in.Type == models.OrderTypeDineIn {
		if in.TableNumber == nil {
			return nil, utils.ErrValidation("table_number is required for dine-in orders")
		}
		if *in.TableNumber < 1 || *in.TableNumber > models.TableCount {
			return nil, utils.ErrValidation("table_number must be between 1 and %d", models.TableCount)
		}
	} else {
		// only dine-in orders sit at a table
		in.TableNumber = nil
	}
	if len(in.Items) == 0 {
		return nil, utils.ErrValidation("order must contain at least one item")
	}

	ids := make([]uint, 0, len(in.Items))
	seen := make(map[uint]bool, len(in.Items))
	for _, line := range in.Items {
		if line.Quantity < 1 {
			return nil, utils.ErrValidation("quantity must be at least 1")
		}
		if !seen[line.MenuItemID] {
			seen[line.MenuItemID] = true
			ids = append(ids, line.MenuItemID)
		}
	}

	found, err := s.Menus.FindItems(ctx, ids)
	if err != nil {
		return nil, utils.ErrInternal("failed to load menu items", err)
	}
	byID := make(map[uint]models.MenuItem, len(found))
	for _, item := range found {
		byID[item.ID] = item
	}

	lines := make([]models.OrderItem, 0, len(in.Items))
	for _, line := range in.Items {
		item, ok := byID[line.MenuItemID]
		if !ok {
			return nil, utils.ErrNotFound("menu item %d not found", line.MenuItemID)
		}
		if !item.Available {
			return nil, utils.ErrValidation("menu item %q is not available", item.Name)
		}
		lines = append(lines, models.OrderItem{
			MenuItemID: item.ID,
			Quantity:   line.Quantity,
			UnitPrice:  item.Price,
		})
	}

	order := &models.Order{
		UserID:         actor.UserID,
		Type:           in.Type,
		TableNumber:    in.TableNumber,
		Items:          lines,
		TotalPrice:     OrderTotal(lines),
		Status:         models.OrderStatusPreparing,
		SpecialRequest: strings.TrimSpace(in.SpecialRequest),
	}
	if err := s.Orders.Create(ctx, order); err != nil {
		return nil, utils.ErrInternal("failed to create order", err)
	}

	utils.InfoLogger.Printf("Order %d created by user %d, total %s", order.ID, actor.UserID, utils.FormatCurrency(order.TotalPrice))
	return s.load(ctx, order.ID)
}

// List returns every order to staff and only their own to customers.
func (s *OrderService) List(ctx context.Context, actor Actor, status string) ([]models.Order, error) {
	if status != "" && !models.IsValidOrderStatus(status) {
		return nil, utils.ErrValidation("unknown status %q", status)
	}

	filter := repository.OrderFilter{Status: status}
	if !actor.IsStaff() {
		uid := actor.UserID
		filter.UserID = &uid
	}

	orders, err := s.Orders.List(ctx, filter)
	if err != nil {
		return nil, utils.ErrInternal("failed to list orders", err)
	}
	return orders, nil
}

func (s *OrderService) Get(ctx context.Context, actor Actor, id uint) (*models.Order, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() {
		if err := authorizeOwner(actor, order.UserID, "order"); err != nil {
			return nil, err
		}
	}
	return order, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	if !models.IsValidOrderStatus(status) {
		return nil, utils.ErrValidation("status must be one of preparing, ready, cancelled")
	}
	if err := s.Orders.UpdateStatus(ctx, id, status); err != nil {
		return nil, lookupError(err, "order", id)
	}
	utils.InfoLogger.Printf("Order %d status changed to %s", id, status)
	return s.load(ctx, id)
}

// Cancel is open to the owner and admins while the kitchen is still preparing.
func (s *OrderService) Cancel(ctx context.Context, actor Actor, id uint) (*models.Order, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(actor, order.UserID, "order"); err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusPreparing {
		return nil, utils.ErrValidation("only orders that are preparing can be cancelled, this one is %s", order.Status)
	}

	if err := s.Orders.UpdateStatus(ctx, id, models.OrderStatusCancelled); err != nil {
		return nil, lookupError(err, "order", id)
	}
	order.Status = models.OrderStatusCancelled
	utils.InfoLogger.Printf("Order %d cancelled by user %d", id, actor.UserID)
	return order, nil
}

func (s *OrderService) Delete(ctx context.Context, id uint) error {
	if err := s.Orders.Delete(ctx, id); err != nil {
		return lookupError(err, "order", id)
	}
	utils.InfoLogger.Printf("Order %d deleted", id)
	return nil
}

func (s *OrderService) load(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.Orders.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "order", id)
	}
	return order, nil
}
