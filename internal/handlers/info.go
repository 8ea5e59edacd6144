package handlers

import (
	"net/http"
	"runtime"

	"github.com/deploytestapp/web-app/internal/models"
	"github.com/gin-gonic/gin"
)

// EnvironmentSource reports the current deployment environment
type EnvironmentSource interface {
	CurrentEnvironment() string
}

// InfoHandler handles HTTP requests for server information
type InfoHandler struct {
	env EnvironmentSource
}

// NewInfoHandler creates a new info handler
func NewInfoHandler(env EnvironmentSource) *InfoHandler {
	return &InfoHandler{
		env: env,
	}
}

// GetInfo handles GET /api/info
// @Summary Server information
// @Description Returns application identity, Go runtime version and the current environment
// @Tags api
// @Produce json
// @Success 200 {object} models.InfoResponse
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /api/info [get]
func (h *InfoHandler) GetInfo(c *gin.Context) {
	goVersion := runtime.Version()

	c.JSON(http.StatusOK, models.InfoResponse{
		Name:           models.AppName,
		Description:    models.AppDescription,
		Version:        models.AppVersion,
		RuntimeVersion: goVersion,
		NodeVersion:    goVersion,
		Environment:    h.env.CurrentEnvironment(),
	})
}
