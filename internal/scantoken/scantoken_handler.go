package scantoken

import (
	"net/http"
	"time"

	"go-attendance/internal/attendance"
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

func (h *Handler) Issue(c *gin.Context) {
	resp, err := h.service.Issue(c.Request.Context(), c.GetString("employee_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) IssueAdmin(c *gin.Context) {
	var req AdminIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.IssueAdmin(c.Request.Context(), c.GetString("user_id_validated"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Validate(c *gin.Context) {
	t, err := h.service.Validate(c.Request.Context(), c.Param("token"), time.Now())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"employee_id": t.EmployeeID,
		"expires_at":  t.ExpiresAt.UTC().Format(time.RFC3339),
	}, nil)
}

func (h *Handler) Scan(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	result, err := h.service.Scan(c.Request.Context(), req, c.ClientIP())
	attendance.WriteResult(c, result, err)
}
