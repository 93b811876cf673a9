package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/dto"
	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/middleware"
	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/service"
	"github.com/Shaen-ai/yoga-saas-platform-backend/pkg/response"
)

// SettingsHandler handles widget settings HTTP requests
type SettingsHandler struct {
	settingsService service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// Get resolves the settings for the request identity
// GET /api/v1/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	result, err := h.settingsService.Resolve(c.Request.Context(), identity)
	if err != nil {
		if errors.Is(err, service.ErrSettingsStoreUnavailable) {
			c.JSON(http.StatusServiceUnavailable, response.ServiceUnavailable("Settings store unreachable, please retry"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// Update applies a partial settings update
// PATCH /api/v1/settings
func (h *SettingsHandler) Update(c *gin.Context) {
	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}
	if valid, msg := req.Validate(); !valid {
		c.JSON(http.StatusBadRequest, response.BadRequest(msg))
		return
	}

	identity, _ := middleware.GetIdentity(c)

	result, err := h.settingsService.Update(c.Request.Context(), identity, &req)
	if err != nil {
		if errors.Is(err, service.ErrSettingsStoreUnavailable) {
			c.JSON(http.StatusServiceUnavailable, response.ServiceUnavailable("Settings store unreachable, please retry"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}
