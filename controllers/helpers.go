package controllers

import (
	"encoding/json"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/yeremiapane/dineflow/middlewares"
	"github.com/yeremiapane/dineflow/services"
	"github.com/yeremiapane/dineflow/utils"
)

// Broadcaster publishes live events. *live.Hub implements it.
type Broadcaster interface {
	Broadcast(event string, data interface{})
}

type noopBroadcaster struct{}

func (noopBroadcaster) Broadcast(string, interface{}) {}

func broadcasterOrNoop(b Broadcaster) Broadcaster {
	if b == nil {
		return noopBroadcaster{}
	}
	return b
}

// parseID reads a positive numeric path parameter.
func parseID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, utils.ErrValidation("invalid %s", name)
	}
	return uint(id), nil
}

func parseOptionalUint(c *gin.Context, name string) (*uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return nil, utils.ErrValidation("invalid %s", name)
	}
	id := uint(v)
	return &id, nil
}

func actorFrom(c *gin.Context) services.Actor {
	return services.Actor{
		UserID: c.GetUint(middlewares.ContextUserID),
		Role:   c.GetString(middlewares.ContextRole),
	}
}

// bindNormalizedJSON decodes the body into obj, runs normalize on it and
// only then checks the binding tags, so trimmed values are what gets
// validated.
func bindNormalizedJSON(c *gin.Context, obj interface{}, normalize func()) error {
	if err := json.NewDecoder(c.Request.Body).Decode(obj); err != nil {
		return err
	}
	normalize()
	return binding.Validator.ValidateStruct(obj)
}
