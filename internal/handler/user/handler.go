package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vitalagenda/vital-api/internal/handler"
	"github.com/vitalagenda/vital-api/internal/model"
	"github.com/vitalagenda/vital-api/internal/service/user"
	"github.com/vitalagenda/vital-api/pkg/apperror"
)

type Handler struct {
	svc *user.Service
}

func NewHandler(svc *user.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/users", h.List)
}

// List returns the user directory filtered by role. It exists so
// patients can pick a doctor when booking.
func (h *Handler) List(c *gin.Context) {
	role := model.Role(c.Query("role"))
	if role != "" && !role.Valid() {
		c.Error(apperror.Validation("unknown role filter"))
		return
	}

	users, err := h.svc.List(c.Request.Context(), role)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(users))
}
