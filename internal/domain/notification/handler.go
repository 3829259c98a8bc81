package notification

import (
	"log/slog"
	"net/http"
	"strconv"

	"notiq/internal/common"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for the notification domain.
type Handler struct {
	service *Service
}

// NewHandler creates a new notification handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Send handles POST /notifications/send.
func (h *Handler) Send(c *gin.Context) {
	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), &req)
	if err != nil {
		slog.Error("submit notification failed",
			"error", err,
			"user_id", req.UserID,
			"delivery_type", req.DeliveryType,
		)
		common.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetStatus handles GET /notifications/status/:job_id.
func (h *Handler) GetStatus(c *gin.Context) {
	jobID := c.Param("job_id")

	n, err := h.service.GetStatus(c.Request.Context(), jobID)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ToResponse(n))
}

// GetByUser handles GET /notifications/notifications/user/:user_id.
func (h *Handler) GetByUser(c *gin.Context) {
	// A non-numeric user_id falls through to the generic 500 like any
	// other unexpected submission-path failure.
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		common.Error(c, http.StatusInternalServerError, "internal server error")
		return
	}

	notifications, err := h.service.GetRecentByUser(c.Request.Context(), userID)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	resp := UserNotificationsResponse{Notifications: make([]Response, len(notifications))}
	for i, n := range notifications {
		resp.Notifications[i] = ToResponse(n)
	}

	c.JSON(http.StatusOK, resp)
}

// RegisterRoutes registers notification routes to the given router group.
// The group is mounted at /notifications, so the user listing keeps the
// doubled /notifications/notifications/user/:user_id path of the public API.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/send", h.Send)
	rg.GET("/status/:job_id", h.GetStatus)
	rg.GET("/notifications/user/:user_id", h.GetByUser)
}
