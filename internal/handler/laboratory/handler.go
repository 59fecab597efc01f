package laboratory

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vitalagenda/vital-api/internal/handler"
	"github.com/vitalagenda/vital-api/internal/model"
	"github.com/vitalagenda/vital-api/internal/service/laboratory"
	"github.com/vitalagenda/vital-api/pkg/apperror"
)

type Handler struct {
	svc *laboratory.Service
}

func NewHandler(svc *laboratory.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	labs := r.Group("/laboratories")
	{
		labs.POST("", h.Create)
		labs.GET("", h.List)
	}
}

func (h *Handler) Create(c *gin.Context) {
	callerID, _ := handler.CallerID(c)

	var req model.CreateLaboratoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.ValidationWrap("invalid laboratory payload", err))
		return
	}

	lab, err := h.svc.Create(c.Request.Context(), callerID, &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(lab))
}

func (h *Handler) List(c *gin.Context) {
	callerID, _ := handler.CallerID(c)

	labs, err := h.svc.List(c.Request.Context(), callerID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(labs))
}
