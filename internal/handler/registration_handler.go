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

// RegistrationHandler handles registration HTTP requests
type RegistrationHandler struct {
	registrationService service.RegistrationService
}

// NewRegistrationHandler creates a new RegistrationHandler
func NewRegistrationHandler(registrationService service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registrationService}
}

// Create handles registering an attendee for an event
// POST /api/v1/registrations
func (h *RegistrationHandler) Create(c *gin.Context) {
	var req dto.CreateRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	identity, _ := middleware.GetIdentity(c)

	result, err := h.registrationService.Create(c.Request.Context(), identity, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			c.JSON(http.StatusNotFound, response.NotFound("Event not found"))
		case errors.Is(err, service.ErrEventFull):
			c.JSON(http.StatusConflict, response.Error(response.ErrCodeEventFull, "Event has reached capacity"))
		case errors.Is(err, service.ErrDuplicateRegistration):
			c.JSON(http.StatusConflict, response.Error(response.ErrCodeDuplicateEntry, "Email already registered for this event"))
		case errors.Is(err, service.ErrRegistrationClosed):
			c.JSON(http.StatusGone, response.Error(response.ErrCodeRegistrationClosed, "Registration closed, event already started"))
		default:
			c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		}
		return
	}

	c.JSON(http.StatusCreated, response.Success(result))
}

// List handles retrieving registrations for an event
// GET /api/v1/registrations?event_id=...
func (h *RegistrationHandler) List(c *gin.Context) {
	eventID := c.Query("event_id")
	if eventID == "" {
		c.JSON(http.StatusBadRequest, response.BadRequest("event_id is required"))
		return
	}

	identity, _ := middleware.GetIdentity(c)

	result, err := h.registrationService.ListByEvent(c.Request.Context(), identity, eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, response.NotFound("Event not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// Cancel handles cancelling a registration
// POST /api/v1/registrations/:id/cancel
func (h *RegistrationHandler) Cancel(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	result, err := h.registrationService.Cancel(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrRegistrationNotFound) {
			c.JSON(http.StatusNotFound, response.NotFound("Registration not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}
