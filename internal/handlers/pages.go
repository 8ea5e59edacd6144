package handlers

import (
	"bytes"
	"fmt"
	"io/fs"
	"log"
	"net/http"

	"github.com/deploytestapp/web-app/internal/static"
	"github.com/gin-gonic/gin"
)

// PageHandler serves HTML pages and other static assets
type PageHandler struct {
	assets fs.FS
}

// NewPageHandler creates a page handler over the given asset filesystem
func NewPageHandler(assets fs.FS) *PageHandler {
	return &PageHandler{
		assets: assets,
	}
}

// Index handles GET /
func (h *PageHandler) Index(c *gin.Context) {
	h.serveFile(c, static.IndexPage)
}

// About handles GET /about
func (h *PageHandler) About(c *gin.Context) {
	h.serveFile(c, static.AboutPage)
}

// Fallback is the NoRoute handler: it serves any existing asset for GET/HEAD
// and the 404 page for everything else.
func (h *PageHandler) Fallback(c *gin.Context) {
	if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
		if name, ok := static.Resolve(h.assets, c.Request.URL.Path); ok {
			h.serveFile(c, name)
			return
		}
	}

	h.NotFound(c)
}

// NotFound writes the 404 page
func (h *PageHandler) NotFound(c *gin.Context) {
	body, err := fs.ReadFile(h.assets, static.NotFoundPage)
	if err != nil {
		log.Printf("WARNING: 404 page unavailable: %v", err)
		c.String(http.StatusNotFound, "404 page not found")
		return
	}

	c.Data(http.StatusNotFound, "text/html; charset=utf-8", body)
}

// serveFile writes an asset with conditional-request and range support.
// Failures are handed to the error middleware.
func (h *PageHandler) serveFile(c *gin.Context, name string) {
	data, err := fs.ReadFile(h.assets, name)
	if err != nil {
		_ = c.Error(fmt.Errorf("failed to read %s: %w", name, err))
		c.Abort()
		return
	}

	info, err := fs.Stat(h.assets, name)
	if err != nil {
		_ = c.Error(fmt.Errorf("failed to stat %s: %w", name, err))
		c.Abort()
		return
	}

	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), bytes.NewReader(data))
}
