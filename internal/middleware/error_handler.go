package middleware

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"runtime/debug"

	"github.com/deploytestapp/web-app/internal/models"
	"github.com/gin-gonic/gin"
)

// Recovery turns a panic in any later handler into a 500 JSON response.
// production is consulted per request and hides the panic value from clients.
func Recovery(production func() bool) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		log.Printf("ERROR: request_id=%s panic recovered: %v\n%s", RequestIDFromContext(c), recovered, debug.Stack())
		if c.Writer.Written() {
			c.Abort()
			return
		}
		respondInternalError(c, panicError(recovered), production())
	})
}

// ErrorHandler answers requests whose handlers attached an error with c.Error
// and aborted without writing a response.
func ErrorHandler(production func() bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		if c.Writer.Written() {
			log.Printf("ERROR: request_id=%s error after response was written: %v", RequestIDFromContext(c), err)
			return
		}

		log.Printf("ERROR: request_id=%s request failed: %v", RequestIDFromContext(c), err)
		respondInternalError(c, err, production())
	}
}

func respondInternalError(c *gin.Context, err error, production bool) {
	message := models.GenericErrorMessage
	if !production {
		message = err.Error()
	}

	c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:   models.ErrorSummary,
		Message: message,
	})
}

func panicError(recovered any) error {
	switch v := recovered.(type) {
	case error:
		return v
	case string:
		return errors.New(v)
	default:
		return fmt.Errorf("%v", v)
	}
}
