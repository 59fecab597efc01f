package viaadmin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vitalagenda/vital-api/internal/handler"
	"github.com/vitalagenda/vital-api/internal/service/viaadmin"
)

type Handler struct {
	svc *viaadmin.Service
}

func NewHandler(svc *viaadmin.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes exposes the route catalog publicly; registration
// forms need it before the user has a token.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/administration-routes", h.List)
}

func (h *Handler) List(c *gin.Context) {
	routes, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(routes))
}
