package services

import (
	"context"
	"sort"

	"github.com/yeremiapane/dineflow/models"
	"github.com/yeremiapane/dineflow/repository"
	"github.com/yeremiapane/dineflow/utils"
)

const (
	topItemsLimit       = 5
	recentActivityLimit = 5
)

type TopItem struct {
	MenuItemID    uint    `json:"menu_item_id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Category      string  `json:"category"`
	TotalQuantity int64   `json:"total_quantity"`
}

type FeedbackOverview struct {
	Total         int64                  `json:"total"`
	Pending       int64                  `json:"pending"`
	Replied       int64                  `json:"replied"`
	AverageRating float64                `json:"average_rating"`
	Restaurant    models.FeedbackSummary `json:"restaurant"`
	Item          models.FeedbackSummary `json:"item"`
}

type DashboardStats struct {
	TotalReservations int64            `json:"total_reservations"`
	TotalOrders       int64            `json:"total_orders"`
	TotalRevenue      float64          `json:"total_revenue"`
	TopItems          []TopItem        `json:"top_items"`
	Feedback          FeedbackOverview `json:"feedback"`
}

type RecentActivity struct {
	Orders       []models.OrderView        `json:"orders"`
	Reservations []models.ReservationView  `json:"reservations"`
	Feedback     []models.FeedbackActivity `json:"feedback"`
}

type DashboardService struct {
	Orders       repository.OrderRepository
	Reservations repository.ReservationRepository
	Menus        repository.MenuRepository
	Restaurant   repository.FeedbackRepository[models.RestaurantFeedback]
	Items        repository.FeedbackRepository[models.ItemFeedback]
}

func NewDashboardService(
	orders repository.OrderRepository,
	reservations repository.ReservationRepository,
	menus repository.MenuRepository,
	restaurant repository.FeedbackRepository[models.RestaurantFeedback],
	items repository.FeedbackRepository[models.ItemFeedback],
) *DashboardService {
	return &DashboardService{
		Orders:       orders,
		Reservations: reservations,
		Menus:        menus,
		Restaurant:   restaurant,
		Items:        items,
	}
}

// WeightedAverageRating weighs each pool's average by its entry count and
// rounds to one decimal. Two empty pools give 0.
func WeightedAverageRating(a, b models.FeedbackSummary) float64 {
	total := a.Total + b.Total
	if total == 0 {
		return 0
	}
	sum := a.Average*float64(a.Total) + b.Average*float64(b.Total)
	return utils.RoundTo(sum/float64(total), 1)
}

func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{TopItems: []TopItem{}}
	var err error

	if stats.TotalReservations, err = s.Reservations.Count(ctx); err != nil {
		return nil, utils.ErrInternal("failed to count reservations", err)
	}
	if stats.TotalOrders, err = s.Orders.Count(ctx); err != nil {
		return nil, utils.ErrInternal("failed to count orders", err)
	}
	revenue, err := s.Orders.TotalRevenue(ctx)
	if err != nil {
		return nil, utils.ErrInternal("failed to sum revenue", err)
	}
	stats.TotalRevenue = utils.RoundMoney(revenue)

	if stats.TopItems, err = s.topItems(ctx); err != nil {
		return nil, err
	}

	restaurant, err := s.Restaurant.Summary(ctx)
	if err != nil {
		return nil, utils.ErrInternal("failed to summarise restaurant feedback", err)
	}
	item, err := s.Items.Summary(ctx)
	if err != nil {
		return nil, utils.ErrInternal("failed to summarise item feedback", err)
	}

	stats.Feedback = FeedbackOverview{
		Total:         restaurant.Total + item.Total,
		Pending:       restaurant.Pending + item.Pending,
		Replied:       restaurant.Replied + item.Replied,
		AverageRating: WeightedAverageRating(restaurant, item),
		Restaurant:    restaurant,
		Item:          item,
	}
	stats.Feedback.Restaurant.Average = utils.RoundTo(restaurant.Average, 1)
	stats.Feedback.Item.Average = utils.RoundTo(item.Average, 1)

	return stats, nil
}

// topItems stitches current item details onto the quantity aggregation.
// Items deleted since they were ordered are left out.
func (s *DashboardService) topItems(ctx context.Context) ([]TopItem, error) {
	rows, err := s.Orders.TopItems(ctx, topItemsLimit)
	if err != nil {
		return nil, utils.ErrInternal("failed to aggregate top items", err)
	}

	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.MenuItemID)
	}
	items, err := s.Menus.FindItems(ctx, ids)
	if err != nil {
		return nil, utils.ErrInternal("failed to load top items", err)
	}
	byID := make(map[uint]models.MenuItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	top := make([]TopItem, 0, len(rows))
	for _, row := range rows {
		item, ok := byID[row.MenuItemID]
		if !ok {
			continue
		}
		top = append(top, TopItem{
			MenuItemID:    item.ID,
			Name:          item.Name,
			Price:         item.Price,
			Category:      item.Category,
			TotalQuantity: row.TotalQuantity,
		})
	}
	return top, nil
}

func (s *DashboardService) RecentActivity(ctx context.Context) (*RecentActivity, error) {
	orders, err := s.Orders.Recent(ctx, recentActivityLimit)
	if err != nil {
		return nil, utils.ErrInternal("failed to load recent orders", err)
	}
	reservations, err := s.Reservations.Recent(ctx, recentActivityLimit)
	if err != nil {
		return nil, utils.ErrInternal("failed to load recent reservations", err)
	}
	restaurant, err := s.Restaurant.Recent(ctx, recentActivityLimit)
	if err != nil {
		return nil, utils.ErrInternal("failed to load recent feedback", err)
	}
	items, err := s.Items.Recent(ctx, recentActivityLimit)
	if err != nil {
		return nil, utils.ErrInternal("failed to load recent feedback", err)
	}

	activity := &RecentActivity{
		Orders:       make([]models.OrderView, 0, len(orders)),
		Reservations: make([]models.ReservationView, 0, len(reservations)),
		Feedback:     make([]models.FeedbackActivity, 0, len(restaurant)+len(items)),
	}
	for _, o := range orders {
		activity.Orders = append(activity.Orders, o.View())
	}
	for _, r := range reservations {
		activity.Reservations = append(activity.Reservations, r.View())
	}
	for _, f := range restaurant {
		activity.Feedback = append(activity.Feedback, f.Activity())
	}
	for _, f := range items {
		activity.Feedback = append(activity.Feedback, f.Activity())
	}

	sort.SliceStable(activity.Feedback, func(i, j int) bool {
		return activity.Feedback[i].Date.After(activity.Feedback[j].Date)
	})
	if len(activity.Feedback) > recentActivityLimit {
		activity.Feedback = activity.Feedback[:recentActivityLimit]
	}
	return activity, nil
}
