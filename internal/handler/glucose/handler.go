package glucose

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vitalagenda/vital-api/internal/handler"
	"github.com/vitalagenda/vital-api/internal/model"
	"github.com/vitalagenda/vital-api/internal/service/glucose"
	"github.com/vitalagenda/vital-api/pkg/apperror"
)

type Handler struct {
	svc *glucose.Service
}

func NewHandler(svc *glucose.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	readings := r.Group("/glucose")
	{
		readings.POST("", h.Create)
		readings.GET("", h.List)
		readings.GET("/today", h.Today)
	}
}

func (h *Handler) Create(c *gin.Context) {
	callerID, _ := handler.CallerID(c)

	var req model.CreateGlucoseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.ValidationWrap("invalid glucose payload", err))
		return
	}

	reading, err := h.svc.Create(c.Request.Context(), callerID, &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(reading))
}

func (h *Handler) List(c *gin.Context) {
	callerID, _ := handler.CallerID(c)

	var filter model.GlucoseFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(apperror.ValidationWrap("invalid glucose filter", err))
		return
	}

	readings, err := h.svc.List(c.Request.Context(), callerID, &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(readings))
}

func (h *Handler) Today(c *gin.Context) {
	callerID, _ := handler.CallerID(c)

	resp, err := h.svc.Today(c.Request.Context(), callerID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(resp))
}
