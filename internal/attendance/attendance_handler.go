package attendance

import (
	"net/http"

	"go-attendance/internal/shared/apperror"
	"go-attendance/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// WriteResult renders a gate decision. Other channels that end in the gate
// (QR scan) share it so every source answers the same way.
func WriteResult(c *gin.Context, result Result, err error) {
	if err != nil {
		response.FromError(c, err)
		return
	}
	if !result.Success() {
		response.Error(c, result.Reason.HTTPStatus, result.Reason.Code, result.Message, result)
		return
	}

	status := http.StatusOK
	if result.Outcome == OutcomeTimeIn {
		status = http.StatusCreated
	}
	response.Success(c, status, result, nil)
}

func (h *Handler) Fingerprint(c *gin.Context) {
	var req FingerprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	event := Event{
		EmployeeID: req.EmployeeID,
		Source:     SourceFingerprint,
		DeviceID:   req.DeviceID,
	}
	if req.CapturedAt != nil {
		event.Timestamp = *req.CapturedAt
	}

	result, err := h.service.Record(c.Request.Context(), event)
	WriteResult(c, result, err)
}

func (h *Handler) Manual(c *gin.Context) {
	var req ManualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	result, err := h.service.Record(c.Request.Context(), Event{
		EmployeeID: req.EmployeeID,
		Source:     SourceManual,
		DeviceID:   req.DeviceID,
	})
	WriteResult(c, result, err)
}

func (h *Handler) GetAll(c *gin.Context) {
	var filter ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.FromError(c, apperror.ErrInvalidInput)
		return
	}

	resp, err := h.service.GetAll(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}

	items, meta := response.Paginate(c, resp)
	response.Success(c, http.StatusOK, items, &meta)
}

func (h *Handler) Summary(c *gin.Context) {
	resp, err := h.service.Summary(c.Request.Context(), c.Query("date"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
