package medication

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vitalagenda/vital-api/internal/handler"
	"github.com/vitalagenda/vital-api/internal/model"
	"github.com/vitalagenda/vital-api/internal/service/medication"
	"github.com/vitalagenda/vital-api/pkg/apperror"
)

type Handler struct {
	svc *medication.Service
}

func NewHandler(svc *medication.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	meds := r.Group("/medications")
	{
		meds.POST("", h.Create)
		meds.GET("", h.List)
	}
}

// Create accepts a multipart form so the optional package photos can
// travel with the text fields in a single request.
func (h *Handler) Create(c *gin.Context) {
	callerID, _ := handler.CallerID(c)

	var req model.CreateMedicationRequest
	if err := c.ShouldBind(&req); err != nil {
		c.Error(apperror.ValidationWrap("invalid medication payload", err))
		return
	}

	front, err := c.FormFile("photo_front")
	if err != nil && err != http.ErrMissingFile {
		c.Error(apperror.ValidationWrap("invalid front photo", err))
		return
	}
	back, err := c.FormFile("photo_back")
	if err != nil && err != http.ErrMissingFile {
		c.Error(apperror.ValidationWrap("invalid back photo", err))
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), callerID, &req, front, back)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(resp))
}

func (h *Handler) List(c *gin.Context) {
	callerID, _ := handler.CallerID(c)

	meds, err := h.svc.List(c.Request.Context(), callerID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(meds))
}
