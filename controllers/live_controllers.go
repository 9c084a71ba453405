package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yeremiapane/dineflow/live"
	"github.com/yeremiapane/dineflow/middlewares"
	"github.com/yeremiapane/dineflow/utils"
)

type LiveController struct {
	Hub      *live.Hub
	upgrader websocket.Upgrader
}

// NewLiveController accepts websocket handshakes from allowedOrigin only.
// Requests without an Origin header (non-browser clients) pass.
func NewLiveController(hub *live.Hub, allowedOrigin string) *LiveController {
	return &LiveController{
		Hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == allowedOrigin
			},
		},
	}
}

// LiveHandler upgrades the connection and keeps it registered until the
// client goes away. Role checks happen in the middleware chain.
func (lc *LiveController) LiveHandler(c *gin.Context) {
	ws, err := lc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("Websocket upgrade failed: %v", err)
		return
	}

	lc.Hub.Register(ws, c.GetString(middlewares.ContextRole))

	// drain client frames so close messages are seen
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	lc.Hub.Unregister(ws)
}
