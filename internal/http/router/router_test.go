package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apphttp "storefront_backend/internal/http"
	"storefront_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

type testConfig struct {
	origins []string
}

func (c testConfig) GetHTTPAddr() string        { return ":0" }
func (c testConfig) GetCORSAllowAll() bool      { return false }
func (c testConfig) GetCORSOrigins() []string   { return c.origins }
func (c testConfig) GetCORSAllowCreds() bool    { return false }
func (c testConfig) GetRateLimitRPS() float64   { return 0 }
func (c testConfig) GetRateLimitBurst() int     { return 0 }
func (c testConfig) GetJWTAccessSecret() string { return "test-secret" }

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type testModule struct{}

func (testModule) Name() string { return "test" }

func (testModule) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	ctx.Admin.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "admin pong") })
}

func newTestEngine(health apphttp.HealthChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return New(&apphttp.App{
		Config:  testConfig{origins: []string{"https://shop.example.com"}},
		Logger:  logger.Discard(),
		Health:  health,
		Modules: []apphttp.Module{testModule{}},
	})
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	healthy := newTestEngine(pingFunc(func(context.Context) error { return nil }))
	if rec := serve(healthy, httptest.NewRequest(http.MethodGet, "/api/health", nil)); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	down := newTestEngine(pingFunc(func(context.Context) error { return errors.New("connection refused") }))
	if rec := serve(down, httptest.NewRequest(http.MethodGet, "/api/health", nil)); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestModuleGroups(t *testing.T) {
	engine := newTestEngine(nil)

	rec := serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
		t.Fatalf("expected public route, got %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected request id header")
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("expected security headers")
	}

	rec = serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/admin/ping", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected admin group to require a token, got %d", rec.Code)
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	engine := newTestEngine(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	rec := serve(engine, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://shop.example.com" {
		t.Fatalf("expected allowed origin, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = serve(engine, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected foreign origin to be rejected, got %d", rec.Code)
	}
}
