package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/dineflow/live"
	"github.com/yeremiapane/dineflow/models"
	"github.com/yeremiapane/dineflow/services"
	"github.com/yeremiapane/dineflow/utils"
)

type OrderController struct {
	Orders *services.OrderService
	Live   Broadcaster
}

func NewOrderController(orders *services.OrderService, hub Broadcaster) *OrderController {
	return &OrderController{Orders: orders, Live: broadcasterOrNoop(hub)}
}

func orderViews(orders []models.Order) []models.OrderView {
	views := make([]models.OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, o.View())
	}
	return views
}

func (oc *OrderController) CreateOrder(c *gin.Context) {
	type itemReq struct {
		MenuItemID uint `json:"menu_item_id" binding:"required"`
		Quantity   int  `json:"quantity" binding:"required,gte=1"`
	}
	var req struct {
		Type           string    `json:"type" binding:"required,oneof=dine-in takeaway delivery"`
		TableNumber    *int      `json:"table_number"`
		Items          []itemReq `json:"items" binding:"required,min=1,dive"`
		SpecialRequest string    `json:"special_request"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.BindingError(err))
		return
	}

	lines := make([]services.OrderLineInput, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, services.OrderLineInput{MenuItemID: it.MenuItemID, Quantity: it.Quantity})
	}

	order, err := oc.Orders.Create(c.Request.Context(), actorFrom(c), services.CreateOrderInput{
		Type:           req.Type,
		TableNumber:    req.TableNumber,
		Items:          lines,
		SpecialRequest: req.SpecialRequest,
	})
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	view := order.View()
	oc.Live.Broadcast(live.EventOrderCreated, view)
	utils.RespondJSON(c, http.StatusCreated, "Order created", view)
}

// GetAllOrders lists every order for staff (?status= filter) and the
// caller's own orders for customers.
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	orders, err := oc.Orders.List(c.Request.Context(), actorFrom(c), c.Query("status"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orderViews(orders))
}

func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	order, err := oc.Orders.Get(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order.View())
}

func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	var req struct {
		Status string `json:"status" binding:"required,oneof=preparing ready cancelled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.BindingError(err))
		return
	}

	order, err := oc.Orders.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	view := order.View()
	oc.Live.Broadcast(live.EventOrderUpdated, view)
	utils.RespondJSON(c, http.StatusOK, "Order status updated", view)
}

func (oc *OrderController) CancelOrder(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	order, err := oc.Orders.Cancel(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	view := order.View()
	oc.Live.Broadcast(live.EventOrderUpdated, view)
	utils.RespondJSON(c, http.StatusOK, "Order cancelled", view)
}

func (oc *OrderController) DeleteOrder(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if err := oc.Orders.Delete(c.Request.Context(), id); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order deleted", nil)
}
