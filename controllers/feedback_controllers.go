package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/dineflow/live"
	"github.com/yeremiapane/dineflow/repository"
	"github.com/yeremiapane/dineflow/services"
	"github.com/yeremiapane/dineflow/utils"
)

type FeedbackController struct {
	Feedback *services.FeedbackService
	Live     Broadcaster
}

func NewFeedbackController(feedback *services.FeedbackService, hub Broadcaster) *FeedbackController {
	return &FeedbackController{Feedback: feedback, Live: broadcasterOrNoop(hub)}
}

type feedbackRequest struct {
	Message string `json:"message" binding:"required"`
	Rating  int    `json:"rating" binding:"required,gte=1,lte=5"`
}

type replyRequest struct {
	Reply string `json:"reply" binding:"required"`
}

func (fc *FeedbackController) AddRestaurantFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.BindingError(err))
		return
	}

	fb, err := fc.Feedback.AddRestaurantFeedback(c.Request.Context(), actorFrom(c), services.FeedbackInput{
		Message: req.Message,
		Rating:  req.Rating,
	})
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	fc.Live.Broadcast(live.EventFeedbackCreated, fb.Activity())
	utils.RespondJSON(c, http.StatusCreated, "Feedback submitted", fb)
}

func (fc *FeedbackController) AddItemFeedback(c *gin.Context) {
	var req struct {
		feedbackRequest
		MenuItemID uint `json:"menu_item_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.BindingError(err))
		return
	}

	fb, err := fc.Feedback.AddItemFeedback(c.Request.Context(), actorFrom(c), req.MenuItemID, services.FeedbackInput{
		Message: req.Message,
		Rating:  req.Rating,
	})
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	fc.Live.Broadcast(live.EventFeedbackCreated, fb.Activity())
	utils.RespondJSON(c, http.StatusCreated, "Feedback submitted", fb)
}

func (fc *FeedbackController) GetRestaurantFeedback(c *gin.Context) {
	list, err := fc.Feedback.ListRestaurantFeedback(c.Request.Context(), repository.FeedbackFilter{})
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant feedback", list)
}

// GetItemFeedback supports ?menu_item_id=.
func (fc *FeedbackController) GetItemFeedback(c *gin.Context) {
	itemID, err := parseOptionalUint(c, "menu_item_id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	list, err := fc.Feedback.ListItemFeedback(c.Request.Context(), repository.FeedbackFilter{MenuItemID: itemID})
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item feedback", list)
}

func (fc *FeedbackController) GetMyFeedback(c *gin.Context) {
	mine, err := fc.Feedback.Mine(c.Request.Context(), actorFrom(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Your feedback", mine)
}

func (fc *FeedbackController) ReplyRestaurantFeedback(c *gin.Context) {
	id, req, ok := bindReply(c)
	if !ok {
		return
	}
	fb, err := fc.Feedback.ReplyRestaurantFeedback(c.Request.Context(), actorFrom(c), id, req.Reply)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	fc.Live.Broadcast(live.EventFeedbackReplied, fb.Activity())
	utils.RespondJSON(c, http.StatusOK, "Reply saved", fb)
}

func (fc *FeedbackController) ReplyItemFeedback(c *gin.Context) {
	id, req, ok := bindReply(c)
	if !ok {
		return
	}
	fb, err := fc.Feedback.ReplyItemFeedback(c.Request.Context(), actorFrom(c), id, req.Reply)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	fc.Live.Broadcast(live.EventFeedbackReplied, fb.Activity())
	utils.RespondJSON(c, http.StatusOK, "Reply saved", fb)
}

func bindReply(c *gin.Context) (uint, replyRequest, bool) {
	var req replyRequest
	id, err := parseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return 0, req, false
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.BindingError(err))
		return 0, req, false
	}
	return id, req, true
}

func (fc *FeedbackController) GetRestaurantStats(c *gin.Context) {
	stats, err := fc.Feedback.RestaurantStats(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant feedback stats", stats)
}

func (fc *FeedbackController) GetItemStats(c *gin.Context) {
	stats, err := fc.Feedback.ItemStats(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item feedback stats", stats)
}

// sortOrder reads ?order=asc|desc, defaulting to desc.
func sortOrder(c *gin.Context) string {
	return c.DefaultQuery("order", "desc")
}

func (fc *FeedbackController) GetSortedRestaurantFeedback(c *gin.Context) {
	list, err := fc.Feedback.ListRestaurantFeedback(c.Request.Context(), repository.FeedbackFilter{SortByRating: sortOrder(c)})
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant feedback", list)
}

func (fc *FeedbackController) GetSortedItemFeedback(c *gin.Context) {
	list, err := fc.Feedback.ListItemFeedback(c.Request.Context(), repository.FeedbackFilter{SortByRating: sortOrder(c)})
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item feedback", list)
}

func recentLimit(c *gin.Context) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, utils.ErrValidation("limit must be a positive number")
	}
	return limit, nil
}

func (fc *FeedbackController) GetRecentRestaurantFeedback(c *gin.Context) {
	limit, err := recentLimit(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	list, err := fc.Feedback.RecentRestaurantFeedback(c.Request.Context(), limit)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Recent restaurant feedback", list)
}

func (fc *FeedbackController) GetRecentItemFeedback(c *gin.Context) {
	limit, err := recentLimit(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	list, err := fc.Feedback.RecentItemFeedback(c.Request.Context(), limit)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Recent item feedback", list)
}
