package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/dineflow/repository"
	"github.com/yeremiapane/dineflow/services"
	"github.com/yeremiapane/dineflow/utils"
)

type MenuController struct {
	Menus *services.MenuService
}

func NewMenuController(menus *services.MenuService) *MenuController {
	return &MenuController{Menus: menus}
}

func (mc *MenuController) GetAllMenus(c *gin.Context) {
	menus, err := mc.Menus.ListMenus(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menus", menus)
}

func (mc *MenuController) GetMenuByID(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	menu, err := mc.Menus.GetMenu(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu detail", menu)
}

func (mc *MenuController) CreateMenu(c *gin.Context) {
	var req struct {
		Title string `json:"title" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.BindingError(err))
		return
	}

	menu, err := mc.Menus.CreateMenu(c.Request.Context(), req.Title)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Menu created", menu)
}

// GetAllItems supports ?category= and ?available=true|false.
func (mc *MenuController) GetAllItems(c *gin.Context) {
	filter := repository.MenuItemFilter{Category: c.Query("category")}
	if raw := c.Query("available"); raw != "" {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			utils.HandleError(c, utils.ErrValidation("available must be true or false"))
			return
		}
		filter.Available = &available
	}

	items, err := mc.Menus.ListItems(c.Request.Context(), filter)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menu items", items)
}

func (mc *MenuController) GetItemByID(c *gin.Context) {
	id, err := parseID(c, "itemId")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	item, err := mc.Menus.GetItem(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item detail", item)
}

func (mc *MenuController) AddItem(c *gin.Context) {
	menuID, err := parseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	var req struct {
		Name        string  `json:"name" binding:"required"`
		Description string  `json:"description"`
		Price       float64 `json:"price" binding:"gte=0"`
		Category    string  `json:"category" binding:"required"`
		Available   *bool   `json:"available"`
		Image       string  `json:"image"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.BindingError(err))
		return
	}

	item, err := mc.Menus.AddItem(c.Request.Context(), menuID, services.MenuItemInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Available:   req.Available,
		Image:       req.Image,
	})
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}

func (mc *MenuController) UpdateItem(c *gin.Context) {
	menuID, err := parseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	itemID, err := parseID(c, "itemId")
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	var req struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price" binding:"omitempty,gte=0"`
		Category    *string  `json:"category"`
		Available   *bool    `json:"available"`
		Image       *string  `json:"image"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.BindingError(err))
		return
	}

	item, err := mc.Menus.UpdateItem(c.Request.Context(), menuID, itemID, services.MenuItemPatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Available:   req.Available,
		Image:       req.Image,
	})
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}

func (mc *MenuController) RemoveItem(c *gin.Context) {
	menuID, err := parseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	itemID, err := parseID(c, "itemId")
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	if err := mc.Menus.RemoveItem(c.Request.Context(), menuID, itemID); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item removed", nil)
}
