package dose

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vitalagenda/vital-api/internal/handler"
	"github.com/vitalagenda/vital-api/internal/model"
	"github.com/vitalagenda/vital-api/internal/service/dose"
	"github.com/vitalagenda/vital-api/pkg/apperror"
)

type Handler struct {
	svc *dose.Service
}

func NewHandler(svc *dose.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	doses := r.Group("/doses")
	{
		doses.GET("", h.List)
		doses.GET("/upcoming", h.ListUpcoming)
		doses.PUT("/:id/taken", h.MarkTaken)
		doses.PUT("/:id/skipped", h.MarkSkipped)
	}
}

func (h *Handler) List(c *gin.Context) {
	callerID, _ := handler.CallerID(c)

	doses, err := h.svc.List(c.Request.Context(), callerID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(doses))
}

func (h *Handler) ListUpcoming(c *gin.Context) {
	callerID, _ := handler.CallerID(c)

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.Error(apperror.Validation("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	doses, err := h.svc.ListUpcoming(c.Request.Context(), callerID, limit)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(doses))
}

func (h *Handler) MarkTaken(c *gin.Context) {
	h.transition(c, h.svc.MarkTaken)
}

func (h *Handler) MarkSkipped(c *gin.Context) {
	h.transition(c, h.svc.MarkSkipped)
}

func (h *Handler) transition(c *gin.Context, fn func(ctx context.Context, callerID, doseID uuid.UUID, notes *string) (*model.Dose, error)) {
	callerID, _ := handler.CallerID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.Validation("invalid dose id"))
		return
	}

	var req model.DoseTransitionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(apperror.ValidationWrap("invalid dose payload", err))
			return
		}
	}

	d, err := fn(c.Request.Context(), callerID, id, req.Notes)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(d))
}
