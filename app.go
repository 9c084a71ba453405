package main

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/yeremiapane/dineflow/config"
	"github.com/yeremiapane/dineflow/controllers"
	"github.com/yeremiapane/dineflow/live"
	"github.com/yeremiapane/dineflow/middlewares"
	"github.com/yeremiapane/dineflow/repository"
	"github.com/yeremiapane/dineflow/router"
	"github.com/yeremiapane/dineflow/services"
	"github.com/yeremiapane/dineflow/utils"
)

// App holds the wired application.
type App struct {
	Router      *gin.Engine
	Hub         *live.Hub
	Auth        *services.AuthService
	Limiter     *middlewares.RateLimiter
	AuthLimiter *middlewares.RateLimiter
}

// NewApp builds repositories, services, controllers and the router, in
// that order.
func NewApp(cfg *config.Config, db *gorm.DB, blocklist utils.TokenBlocklist) *App {
	users := repository.NewUserRepository(db)
	menus := repository.NewMenuRepository(db)
	orders := repository.NewOrderRepository(db)
	reservations := repository.NewReservationRepository(db)
	restaurantFeedback := repository.NewRestaurantFeedbackRepository(db)
	itemFeedback := repository.NewItemFeedbackRepository(db)

	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiresIn)
	authSvc := services.NewAuthService(users, tokens, blocklist)
	userSvc := services.NewUserService(users)
	menuSvc := services.NewMenuService(menus)
	orderSvc := services.NewOrderService(orders, menus)
	reservationSvc := services.NewReservationService(reservations)
	feedbackSvc := services.NewFeedbackService(restaurantFeedback, itemFeedback, menus)
	dashboardSvc := services.NewDashboardService(orders, reservations, menus, restaurantFeedback, itemFeedback)

	hub := live.NewHub()
	limiter := middlewares.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	authLimiter := middlewares.NewStrictRateLimiter(cfg.AuthRateLimitPerMin)

	r := router.SetupRouter(router.Deps{
		Auth:         authSvc,
		AuthCtrl:     controllers.NewAuthController(authSvc, cfg.IsProduction()),
		Users:        controllers.NewUserController(userSvc),
		Menus:        controllers.NewMenuController(menuSvc),
		Orders:       controllers.NewOrderController(orderSvc, hub),
		Reservations: controllers.NewReservationController(reservationSvc, hub),
		Feedback:     controllers.NewFeedbackController(feedbackSvc, hub),
		Admin:        controllers.NewAdminController(dashboardSvc),
		Live:         controllers.NewLiveController(hub, cfg.CORSOrigin),
		CORSOrigin:   cfg.CORSOrigin,
		Production:   cfg.IsProduction(),
		Limiter:      limiter,
		AuthLimiter:  authLimiter,
	})

	return &App{
		Router:      r,
		Hub:         hub,
		Auth:        authSvc,
		Limiter:     limiter,
		AuthLimiter: authLimiter,
	}
}
