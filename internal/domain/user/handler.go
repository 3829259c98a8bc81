package user

import (
	"net/http"

	"notiq/internal/common"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for the user domain.
type Handler struct {
	service *Service
}

// NewHandler creates a new user handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register handles POST /users.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	u, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, u)
}

// Login handles POST /users/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	token, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, token)
}

// RegisterRoutes registers user routes to the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Register)
	rg.POST("/login", h.Login)
}
