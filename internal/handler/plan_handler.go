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

// PlanHandler handles yoga plan HTTP requests
type PlanHandler struct {
	planService service.PlanService
}

// NewPlanHandler creates a new PlanHandler
func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// Create handles plan creation
// POST /api/v1/plans
func (h *PlanHandler) Create(c *gin.Context) {
	var req dto.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	identity, _ := middleware.GetIdentity(c)

	result, err := h.planService.Create(c.Request.Context(), identity, &req)
	if err != nil {
		if errors.Is(err, service.ErrPlanLimitReached) {
			c.JSON(http.StatusForbidden, response.Error(response.ErrCodePlanLimitReached, "Plan limit reached for current tier"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(result))
}

// List handles retrieving all plans
// GET /api/v1/plans
func (h *PlanHandler) List(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	result, err := h.planService.List(c.Request.Context(), identity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// GetByID handles retrieving a single plan
// GET /api/v1/plans/:id
func (h *PlanHandler) GetByID(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	result, err := h.planService.GetByID(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			c.JSON(http.StatusNotFound, response.NotFound("Plan not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// Update handles plan update
// PUT /api/v1/plans/:id
func (h *PlanHandler) Update(c *gin.Context) {
	var req dto.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	identity, _ := middleware.GetIdentity(c)

	result, err := h.planService.Update(c.Request.Context(), identity, c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			c.JSON(http.StatusNotFound, response.NotFound("Plan not found"))
			return
		}
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// Delete handles plan deletion
// DELETE /api/v1/plans/:id
func (h *PlanHandler) Delete(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	if err := h.planService.Delete(c.Request.Context(), identity, c.Param("id")); err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			c.JSON(http.StatusNotFound, response.NotFound("Plan not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(gin.H{"deleted": true}))
}

// Generate handles assistant plan generation
// POST /api/v1/plans/generate
func (h *PlanHandler) Generate(c *gin.Context) {
	var req dto.GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	identity, _ := middleware.GetIdentity(c)

	result, err := h.planService.Generate(c.Request.Context(), identity, &req)
	if err != nil {
		if errors.Is(err, service.ErrPlanLimitReached) {
			c.JSON(http.StatusForbidden, response.Error(response.ErrCodePlanLimitReached, "Plan limit reached for current tier"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(result))
}
