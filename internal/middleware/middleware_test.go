package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deploytestapp/web-app/internal/models"
	"github.com/deploytestapp/web-app/internal/telemetry"
	"github.com/gin-gonic/gin"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func always(v bool) func() bool {
	return func() bool { return v }
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response %q: %v", w.Body.String(), err)
	}
	return resp
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, RequestIDFromContext(c))
	})

	t.Run("generated when missing", func(t *testing.T) {
		w := serve(router, httptest.NewRequest(http.MethodGet, "/", nil))
		id := w.Header().Get("X-Request-ID")
		if len(id) != 36 {
			t.Fatalf("X-Request-ID = %q, want a UUID", id)
		}
		if w.Body.String() != id {
			t.Errorf("context request id = %q, header = %q", w.Body.String(), id)
		}
	})

	t.Run("inbound id echoed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "  abc-123  ")
		w := serve(router, req)
		if got := w.Header().Get("X-Request-ID"); got != "abc-123" {
			t.Errorf("X-Request-ID = %q, want %q", got, "abc-123")
		}
	})

	t.Run("long id truncated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", strings.Repeat("x", 300))
		w := serve(router, req)
		if got := len(w.Header().Get("X-Request-ID")); got != maxRequestIDLength {
			t.Errorf("len(X-Request-ID) = %d, want %d", got, maxRequestIDLength)
		}
	})
}

// TestRecovery tests panic handling in development and production modes
func TestRecovery(t *testing.T) {
	tests := []struct {
		name        string
		production  bool
		panicValue  any
		wantMessage string
	}{
		{"development shows error", false, errors.New("boom"), "boom"},
		{"development shows string panic", false, "kaboom", "kaboom"},
		{"production hides error", true, errors.New("boom"), models.GenericErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(RequestID(), Recovery(always(tt.production)))
			router.GET("/panic", func(c *gin.Context) {
				panic(tt.panicValue)
			})

			w := serve(router, httptest.NewRequest(http.MethodGet, "/panic", nil))
			if w.Code != http.StatusInternalServerError {
				t.Fatalf("status = %d, want 500", w.Code)
			}
			resp := decodeError(t, w)
			if resp.Error != models.ErrorSummary {
				t.Errorf("error = %q, want %q", resp.Error, models.ErrorSummary)
			}
			if resp.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", resp.Message, tt.wantMessage)
			}
		})
	}
}

func TestRecovery_AfterPartialWrite(t *testing.T) {
	router := gin.New()
	router.Use(Recovery(always(false)))
	router.GET("/partial", func(c *gin.Context) {
		c.String(http.StatusOK, "partial")
		panic("late failure")
	})

	w := serve(router, httptest.NewRequest(http.MethodGet, "/partial", nil))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 from the handler", w.Code)
	}
	if w.Body.String() != "partial" {
		t.Errorf("body = %q, want the handler output unchanged", w.Body.String())
	}
}

func TestErrorHandler(t *testing.T) {
	for _, production := range []bool{false, true} {
		router := gin.New()
		router.Use(ErrorHandler(always(production)))
		router.GET("/fail", func(c *gin.Context) {
			_ = c.Error(errors.New("disk on fire"))
			c.Abort()
		})
		router.GET("/written", func(c *gin.Context) {
			c.String(http.StatusAccepted, "partial")
			_ = c.Error(errors.New("late failure"))
		})

		w := serve(router, httptest.NewRequest(http.MethodGet, "/fail", nil))
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("production=%v: status = %d, want 500", production, w.Code)
		}
		want := "disk on fire"
		if production {
			want = models.GenericErrorMessage
		}
		if got := decodeError(t, w).Message; got != want {
			t.Errorf("production=%v: message = %q, want %q", production, got, want)
		}

		w = serve(router, httptest.NewRequest(http.MethodGet, "/written", nil))
		if w.Code != http.StatusAccepted || w.Body.String() != "partial" {
			t.Errorf("production=%v: written response altered: %d %q", production, w.Code, w.Body.String())
		}
	}
}

func TestSecurityHeaders(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeaders())
	router.GET("/", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := serve(router, httptest.NewRequest(http.MethodGet, "/", nil))
	want := map[string]string{
		"X-Frame-Options":        "DENY",
		"X-Content-Type-Options": "nosniff",
		"X-Xss-Protection":       "1; mode=block",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	}
	for header, value := range want {
		if got := w.Header().Get(header); got != value {
			t.Errorf("%s = %q, want %q", header, got, value)
		}
	}
}

func TestMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider, err := telemetry.NewProvider(nil, reader)
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	defer provider.Shutdown(context.Background())

	router := gin.New()
	router.Use(Metrics(provider.HTTPMetrics()))
	router.GET("/api/status", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	serve(router, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	serve(router, httptest.NewRequest(http.MethodGet, "/missing", nil))

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	routes := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "http.server.request.count" {
				continue
			}
			for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
				route, _ := dp.Attributes.Value("http.route")
				routes[route.AsString()] += dp.Value
			}
		}
	}

	if routes["/api/status"] != 1 {
		t.Errorf("requests for /api/status = %d, want 1", routes["/api/status"])
	}
	if routes[unmatchedRoute] != 1 {
		t.Errorf("requests for unmatched = %d, want 1", routes[unmatchedRoute])
	}
}

func TestMetrics_Panic(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider, err := telemetry.NewProvider(nil, reader)
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	defer provider.Shutdown(context.Background())

	router := gin.New()
	router.Use(Metrics(provider.HTTPMetrics()))
	router.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	func() {
		defer func() {
			if recover() == nil {
				t.Error("panic should propagate past the metrics middleware")
			}
		}()
		serve(router, httptest.NewRequest(http.MethodGet, "/boom", nil))
	}()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	var counted int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch m.Name {
			case "http.server.request.count":
				for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
					status, _ := dp.Attributes.Value("http.response.status_code")
					if status.AsInt64() != http.StatusInternalServerError {
						t.Errorf("status attribute = %d, want 500", status.AsInt64())
					}
					counted += dp.Value
				}
			case "http.server.active_requests":
				for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
					if dp.Value != 0 {
						t.Errorf("active requests = %d, want 0", dp.Value)
					}
				}
			}
		}
	}
	if counted != 1 {
		t.Errorf("request count = %d, want 1", counted)
	}
}

func TestMetrics_Disabled(t *testing.T) {
	router := gin.New()
	router.Use(Metrics(nil))
	router.GET("/", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	if w := serve(router, httptest.NewRequest(http.MethodGet, "/", nil)); w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
}
