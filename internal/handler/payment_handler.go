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

// PaymentHandler handles payment HTTP requests
type PaymentHandler struct {
	paymentService service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Create handles payment creation
// POST /api/v1/payments
func (h *PaymentHandler) Create(c *gin.Context) {
	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	identity, _ := middleware.GetIdentity(c)

	result, err := h.paymentService.Create(c.Request.Context(), identity, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRegistrationNotFound):
			c.JSON(http.StatusNotFound, response.NotFound("Registration not found"))
		case errors.Is(err, service.ErrPaymentFailed):
			c.JSON(http.StatusPaymentRequired, response.Error(response.ErrCodePaymentFailed, "Payment was declined"))
		default:
			c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		}
		return
	}

	c.JSON(http.StatusCreated, response.Success(result))
}

// Capture handles capturing a pending payment
// POST /api/v1/payments/:id/capture
func (h *PaymentHandler) Capture(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	result, err := h.paymentService.Capture(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentNotFound):
			c.JSON(http.StatusNotFound, response.NotFound("Payment not found"))
		case errors.Is(err, service.ErrPaymentNotOpen):
			c.JSON(http.StatusConflict, response.Error(response.ErrCodeConflict, "Payment is not pending"))
		case errors.Is(err, service.ErrPaymentFailed):
			c.JSON(http.StatusPaymentRequired, response.Error(response.ErrCodePaymentFailed, "Capture was declined"))
		default:
			c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// GetByID handles retrieving a payment
// GET /api/v1/payments/:id
func (h *PaymentHandler) GetByID(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	result, err := h.paymentService.GetByID(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrPaymentNotFound) {
			c.JSON(http.StatusNotFound, response.NotFound("Payment not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}
