package handlers

import (
	"net/http"

	"github.com/deploytestapp/web-app/internal/models"
	"github.com/deploytestapp/web-app/internal/validators"
	"github.com/gin-gonic/gin"
)

// StatusHandler handles GET /api/status
// @Summary Server status
// @Description Reports that the server is up, with a fresh UTC timestamp on every call
// @Tags api
// @Produce json
// @Success 200 {object} models.StatusResponse
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /api/status [get]
func StatusHandler(c *gin.Context) {
	response := models.StatusResponse{
		Status:    models.StatusOK,
		Message:   models.StatusMessage,
		Timestamp: validators.Now(),
		Version:   models.AppVersion,
	}

	c.JSON(http.StatusOK, response)
}
