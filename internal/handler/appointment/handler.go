package appointment

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vitalagenda/vital-api/internal/handler"
	"github.com/vitalagenda/vital-api/internal/model"
	"github.com/vitalagenda/vital-api/internal/service/appointment"
	"github.com/vitalagenda/vital-api/pkg/apperror"
)

type Handler struct {
	svc *appointment.Service
}

func NewHandler(svc *appointment.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appts := r.Group("/appointments")
	{
		appts.POST("", h.Create)
		appts.GET("", h.List)
		appts.GET("/:id", h.Get)
		appts.PATCH("/:id/status", h.UpdateStatus)
	}
}

func (h *Handler) Create(c *gin.Context) {
	callerID, _ := handler.CallerID(c)
	callerRole, _ := handler.CallerRole(c)

	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.ValidationWrap("invalid appointment payload", err))
		return
	}

	appt, err := h.svc.Create(c.Request.Context(), callerID, callerRole, &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(appt))
}

func (h *Handler) List(c *gin.Context) {
	callerID, _ := handler.CallerID(c)
	callerRole, _ := handler.CallerRole(c)

	scope := model.AppointmentScope(c.Query("scope"))
	appts, err := h.svc.List(c.Request.Context(), callerID, callerRole, scope)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appts))
}

func (h *Handler) Get(c *gin.Context) {
	callerID, _ := handler.CallerID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.Validation("invalid appointment id"))
		return
	}

	appt, err := h.svc.Get(c.Request.Context(), callerID, id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appt))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	callerID, _ := handler.CallerID(c)
	callerRole, _ := handler.CallerRole(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.Validation("invalid appointment id"))
		return
	}

	var req model.UpdateAppointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.ValidationWrap("invalid status payload", err))
		return
	}

	appt, err := h.svc.UpdateStatus(c.Request.Context(), callerID, callerRole, id, model.AppointmentStatus(req.Status))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appt))
}
