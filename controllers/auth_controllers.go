package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/dineflow/middlewares"
	"github.com/yeremiapane/dineflow/models"
	"github.com/yeremiapane/dineflow/services"
	"github.com/yeremiapane/dineflow/utils"
)

const cookieMaxAge = 7 * 24 * time.Hour

type AuthController struct {
	Auth *services.AuthService
	// Production marks the cookie Secure with SameSite=None.
	Production bool
}

func NewAuthController(auth *services.AuthService, production bool) *AuthController {
	return &AuthController{Auth: auth, Production: production}
}

func profilePayload(u *models.User) gin.H {
	return gin.H{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
		"role":  u.Role,
		"phone": u.Phone,
	}
}

func (ac *AuthController) setTokenCookie(c *gin.Context, token string, maxAge time.Duration) {
	sameSite := http.SameSiteLaxMode
	if ac.Production {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middlewares.TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Expires:  time.Now().Add(maxAge),
		HttpOnly: true,
		Secure:   ac.Production,
		SameSite: sameSite,
	})
}

func (ac *AuthController) clearTokenCookie(c *gin.Context) {
	sameSite := http.SameSiteLaxMode
	if ac.Production {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middlewares.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   ac.Production,
		SameSite: sameSite,
	})
}

func (ac *AuthController) respondWithToken(c *gin.Context, code int, message string, res *services.AuthResult) {
	ac.setTokenCookie(c, res.Token, cookieMaxAge)
	data := profilePayload(res.User)
	data["token"] = res.Token
	utils.RespondJSON(c, code, message, data)
}

func (ac *AuthController) Register(c *gin.Context) {
	var req struct {
		Name     string  `json:"name" binding:"required"`
		Email    string  `json:"email" binding:"required,email"`
		Password string  `json:"password" binding:"required,min=6"`
		Phone    *string `json:"phone"`
	}
	normalize := func() {
		req.Name = strings.TrimSpace(req.Name)
		req.Email = strings.TrimSpace(req.Email)
	}
	if err := bindNormalizedJSON(c, &req, normalize); err != nil {
		utils.HandleError(c, utils.BindingError(err))
		return
	}

	res, err := ac.Auth.Register(c.Request.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	ac.respondWithToken(c, http.StatusCreated, "User registered", res)
}

func (ac *AuthController) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.BindingError(err))
		return
	}

	res, err := ac.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	ac.respondWithToken(c, http.StatusOK, "Login successful", res)
}

func (ac *AuthController) GetProfile(c *gin.Context) {
	user, err := ac.Auth.Profile(c.Request.Context(), c.GetUint(middlewares.ContextUserID))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "User profile", user)
}

func (ac *AuthController) UpdateProfile(c *gin.Context) {
	var req struct {
		Name            *string `json:"name"`
		Phone           *string `json:"phone"`
		CurrentPassword string  `json:"current_password"`
		NewPassword     string  `json:"new_password" binding:"omitempty,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.BindingError(err))
		return
	}

	user, err := ac.Auth.UpdateProfile(c.Request.Context(), c.GetUint(middlewares.ContextUserID), services.ProfileInput{
		Name:            req.Name,
		Phone:           req.Phone,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Profile updated", user)
}

// Logout clears the cookie and revokes whatever token the request carried.
func (ac *AuthController) Logout(c *gin.Context) {
	token := middlewares.ExtractToken(c, false)
	if err := ac.Auth.Logout(c.Request.Context(), token); err != nil {
		utils.HandleError(c, err)
		return
	}
	ac.clearTokenCookie(c)
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}
