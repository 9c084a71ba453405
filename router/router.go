package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/dineflow/controllers"
	"github.com/yeremiapane/dineflow/middlewares"
	"github.com/yeremiapane/dineflow/models"
)

// Deps is everything the route table is built from.
type Deps struct {
	Auth         middlewares.Authenticator
	AuthCtrl     *controllers.AuthController
	Users        *controllers.UserController
	Menus        *controllers.MenuController
	Orders       *controllers.OrderController
	Reservations *controllers.ReservationController
	Feedback     *controllers.FeedbackController
	Admin        *controllers.AdminController
	Live         *controllers.LiveController

	CORSOrigin  string
	Production  bool
	Limiter     *middlewares.RateLimiter
	AuthLimiter *middlewares.RateLimiter
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders(d.Production))
	r.Use(middlewares.CORSMiddlewares(d.CORSOrigin))
	if d.Limiter != nil {
		r.Use(d.Limiter.RateLimit())
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	requireAuth := middlewares.AuthMiddleware(d.Auth)
	admin := middlewares.RequireRoles(models.RoleAdmin)
	staff := middlewares.RequireRoles(models.RoleStaff, models.RoleAdmin)

	auth := r.Group("/auth")
	{
		strict := []gin.HandlerFunc{}
		if d.AuthLimiter != nil {
			strict = append(strict, d.AuthLimiter.RateLimit())
		}
		auth.POST("/register", append(strict, d.AuthCtrl.Register)...)
		auth.POST("/login", append(strict, d.AuthCtrl.Login)...)
		auth.POST("/logout", d.AuthCtrl.Logout)
		auth.GET("/profile", requireAuth, d.AuthCtrl.GetProfile)
		auth.PUT("/profile", requireAuth, d.AuthCtrl.UpdateProfile)
	}

	users := r.Group("/users", requireAuth, admin)
	{
		users.GET("", d.Users.GetAllUsers)
		users.GET("/:id", d.Users.GetUserByID)
		users.PUT("/:id", d.Users.UpdateUser)
		users.DELETE("/:id", d.Users.DeleteUser)
	}

	menu := r.Group("/menu")
	{
		menu.GET("", d.Menus.GetAllMenus)
		menu.GET("/items", d.Menus.GetAllItems)
		menu.GET("/items/:itemId", d.Menus.GetItemByID)
		menu.GET("/:id", d.Menus.GetMenuByID)

		menu.POST("", requireAuth, admin, d.Menus.CreateMenu)
		menu.POST("/:id/items", requireAuth, admin, d.Menus.AddItem)
		menu.POST("/:id/items/:itemId", requireAuth, admin, d.Menus.UpdateItem)
		menu.DELETE("/:id/items/:itemId", requireAuth, admin, d.Menus.RemoveItem)
	}

	orders := r.Group("/orders", requireAuth)
	{
		orders.POST("", d.Orders.CreateOrder)
		orders.GET("", d.Orders.GetAllOrders)
		orders.GET("/:id", d.Orders.GetOrderByID)
		orders.PATCH("/:id/status", staff, d.Orders.UpdateOrderStatus)
		orders.PATCH("/:id/cancel", d.Orders.CancelOrder)
		orders.DELETE("/:id", admin, d.Orders.DeleteOrder)
	}

	reservations := r.Group("/reservations")
	{
		reservations.GET("/available", d.Reservations.GetAvailableTables)

		reservations.Use(requireAuth)
		reservations.POST("", d.Reservations.CreateReservation)
		reservations.GET("", admin, d.Reservations.GetAllReservations)
		reservations.GET("/mine", d.Reservations.GetMyReservations)
		reservations.GET("/available-for-update/:id", d.Reservations.GetAvailableForUpdate)
		reservations.GET("/:id", d.Reservations.GetReservationByID)
		reservations.PATCH("/:id", d.Reservations.UpdateReservation)
		reservations.DELETE("/:id", d.Reservations.CancelReservation)
	}

	feedback := r.Group("/feedback")
	{
		feedback.GET("/restaurantFeedback", d.Feedback.GetRestaurantFeedback)
		feedback.GET("/itemFeedback", d.Feedback.GetItemFeedback)
		feedback.GET("/restaurant/stats", d.Feedback.GetRestaurantStats)
		feedback.GET("/item/stats", d.Feedback.GetItemStats)
		feedback.GET("/restaurant/sorted", d.Feedback.GetSortedRestaurantFeedback)
		feedback.GET("/item/sorted", d.Feedback.GetSortedItemFeedback)
		feedback.GET("/restaurant/recent", d.Feedback.GetRecentRestaurantFeedback)
		feedback.GET("/item/recent", d.Feedback.GetRecentItemFeedback)

		feedback.POST("/addRestaurantFeedback", requireAuth, d.Feedback.AddRestaurantFeedback)
		feedback.POST("/addItemFeedback", requireAuth, d.Feedback.AddItemFeedback)
		feedback.GET("/mine", requireAuth, d.Feedback.GetMyFeedback)
		feedback.PATCH("/restaurant/:id/reply", requireAuth, admin, d.Feedback.ReplyRestaurantFeedback)
		feedback.PATCH("/item/:id/reply", requireAuth, admin, d.Feedback.ReplyItemFeedback)
	}

	dashboard := r.Group("/dashboard", requireAuth, admin)
	{
		dashboard.GET("/stats", d.Admin.GetDashboardStats)
		dashboard.GET("/recent-activity", d.Admin.GetRecentActivity)
	}

	if d.Live != nil {
		r.GET("/ws/live", middlewares.WebSocketAuthMiddleware(d.Auth), staff, d.Live.LiveHandler)
	}

	return r
}
