package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/fypdash/internal/app/models/dto"
)

// HealthController reports liveness and serves the not-found page
type HealthController struct {
	storeName string
}

// NewHealthController creates a new HealthController
func NewHealthController(storeName string) *HealthController {
	return &HealthController{storeName: storeName}
}

// Health reports that the service is up
// @Summary Health check
// @Tags ops
// @Produce json
// @Success 200 {object} dto.HealthResponse "Service is up"
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.HealthResponse{
		Status: "ok",
		Store:  c.storeName,
	})
}

// NotFound answers every unknown route
func (c *HealthController) NotFound(ctx *gin.Context) {
	detail := dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Page not found").
		WithDetails(map[string]string{"path": ctx.Request.URL.Path})
	ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(detail))
}
