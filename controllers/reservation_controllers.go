package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/dineflow/live"
	"github.com/yeremiapane/dineflow/models"
	"github.com/yeremiapane/dineflow/repository"
	"github.com/yeremiapane/dineflow/services"
	"github.com/yeremiapane/dineflow/utils"
)

type ReservationController struct {
	Reservations *services.ReservationService
	Live         Broadcaster
}

func NewReservationController(reservations *services.ReservationService, hub Broadcaster) *ReservationController {
	return &ReservationController{Reservations: reservations, Live: broadcasterOrNoop(hub)}
}

func reservationViews(rs []models.Reservation) []models.ReservationView {
	views := make([]models.ReservationView, 0, len(rs))
	for _, r := range rs {
		views = append(views, r.View())
	}
	return views
}

type slotQuery struct {
	Date string `form:"date" binding:"required"`
	Time string `form:"time" binding:"required"`
}

func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var req struct {
		Date   string  `json:"date" binding:"required"`
		Time   string  `json:"time" binding:"required"`
		Guests int     `json:"guests" binding:"required"`
		Phone  *string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.BindingError(err))
		return
	}

	reservation, err := rc.Reservations.Create(c.Request.Context(), actorFrom(c), services.CreateReservationInput{
		Date:   req.Date,
		Time:   req.Time,
		Guests: req.Guests,
		Phone:  req.Phone,
	})
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	view := reservation.View()
	rc.Live.Broadcast(live.EventReservationCreated, view)
	utils.RespondJSON(c, http.StatusCreated, "Reservation created", view)
}

// GetAvailableTables answers ?date=YYYY-MM-DD&time=HH:MM with the free
// table numbers.
func (rc *ReservationController) GetAvailableTables(c *gin.Context) {
	var q slotQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.HandleError(c, utils.BindingError(err))
		return
	}

	tables, err := rc.Reservations.Available(c.Request.Context(), q.Date, q.Time)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Available tables", gin.H{"date": q.Date, "time": q.Time, "tables": tables})
}

func (rc *ReservationController) GetAvailableForUpdate(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	var q slotQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.HandleError(c, utils.BindingError(err))
		return
	}

	tables, err := rc.Reservations.AvailableForUpdate(c.Request.Context(), actorFrom(c), id, q.Date, q.Time)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Available tables", gin.H{"date": q.Date, "time": q.Time, "tables": tables})
}

// GetAllReservations supports ?date= and ?status= filters.
func (rc *ReservationController) GetAllReservations(c *gin.Context) {
	reservations, err := rc.Reservations.List(c.Request.Context(), repository.ReservationFilter{
		Date:   c.Query("date"),
		Status: c.Query("status"),
	})
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of reservations", reservationViews(reservations))
}

func (rc *ReservationController) GetMyReservations(c *gin.Context) {
	reservations, err := rc.Reservations.Mine(c.Request.Context(), actorFrom(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of reservations", reservationViews(reservations))
}

func (rc *ReservationController) GetReservationByID(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	reservation, err := rc.Reservations.Get(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation detail", reservation.View())
}

func (rc *ReservationController) UpdateReservation(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	var req struct {
		Date   *string `json:"date"`
		Time   *string `json:"time"`
		Guests *int    `json:"guests"`
		Phone  *string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.BindingError(err))
		return
	}

	reservation, err := rc.Reservations.Update(c.Request.Context(), actorFrom(c), id, services.UpdateReservationInput{
		Date:   req.Date,
		Time:   req.Time,
		Guests: req.Guests,
		Phone:  req.Phone,
	})
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	view := reservation.View()
	rc.Live.Broadcast(live.EventReservationUpdated, view)
	utils.RespondJSON(c, http.StatusOK, "Reservation updated", view)
}

// CancelReservation marks the reservation cancelled. The row is kept.
func (rc *ReservationController) CancelReservation(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	reservation, err := rc.Reservations.Cancel(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	view := reservation.View()
	rc.Live.Broadcast(live.EventReservationUpdated, view)
	utils.RespondJSON(c, http.StatusOK, "Reservation cancelled", view)
}
