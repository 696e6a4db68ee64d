package httpkit

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront_backend/platform/apperr"
	"storefront_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const testSecret = "test-secret"

type staticJWTConfig struct{}

func (staticJWTConfig) GetJWTAccessSecret() string { return testSecret }

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, claims jwt.MapClaims, method jwt.SigningMethod, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func adminClaims(roles ...interface{}) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":   uuid.NewString(),
		"type":  "access",
		"roles": roles,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
}

func newAdminRouter() *gin.Engine {
	r := gin.New()
	r.GET("/admin", AuthRequired(staticJWTConfig{}), RequireRole(RoleAdmin), func(c *gin.Context) {
		OK(c, gin.H{"user": GetIdentity(c).UserID().String()})
	})
	return r
}

func doAdmin(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthRequiredAcceptsAdminToken(t *testing.T) {
	token := signToken(t, adminClaims("admin"), jwt.SigningMethodHS256, testSecret)
	rec := doAdmin(newAdminRouter(), token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthRequiredRejections(t *testing.T) {
	expired := adminClaims("admin")
	expired["exp"] = time.Now().Add(-time.Minute).Unix()

	refresh := adminClaims("admin")
	refresh["type"] = "refresh"

	noExp := adminClaims("admin")
	delete(noExp, "exp")

	cases := []struct {
		name  string
		token string
		want  int
	}{
		{name: "missing", token: "", want: http.StatusUnauthorized},
		{name: "wrong secret", token: signToken(t, adminClaims("admin"), jwt.SigningMethodHS256, "other"), want: http.StatusUnauthorized},
		{name: "wrong algorithm", token: signToken(t, adminClaims("admin"), jwt.SigningMethodHS512, testSecret), want: http.StatusUnauthorized},
		{name: "expired", token: signToken(t, expired, jwt.SigningMethodHS256, testSecret), want: http.StatusUnauthorized},
		{name: "no expiry", token: signToken(t, noExp, jwt.SigningMethodHS256, testSecret), want: http.StatusUnauthorized},
		{name: "refresh token", token: signToken(t, refresh, jwt.SigningMethodHS256, testSecret), want: http.StatusUnauthorized},
		{name: "not admin", token: signToken(t, adminClaims("viewer"), jwt.SigningMethodHS256, testSecret), want: http.StatusForbidden},
	}

	r := newAdminRouter()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if rec := doAdmin(r, tc.token); rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

func TestHandleErrorMapping(t *testing.T) {
	type payload struct {
		Title string `validate:"required"`
	}
	verr := validator.New().Struct(payload{})

	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{name: "not found", err: apperr.NotFound("product not found"), status: http.StatusNotFound, message: "product not found"},
		{name: "wrapped conflict", err: fmt.Errorf("adjust: %w", apperr.Conflict("insufficient inventory")), status: http.StatusConflict, message: "insufficient inventory"},
		{name: "internal hides message", err: apperr.Internal("inventory -3 stored for abc"), status: http.StatusInternalServerError, message: "Internal Server Error"},
		{name: "validator", err: verr, status: http.StatusBadRequest, message: "validation failed"},
		{name: "untyped", err: errors.New("pq: connection reset"), status: http.StatusInternalServerError, message: "Internal Server Error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)

			if !HandleError(c, tc.err) {
				t.Fatalf("expected error to be handled")
			}
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			var body ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Error != tc.message {
				t.Fatalf("expected message %q, got %q", tc.message, body.Error)
			}
		})
	}
}

func TestHandleErrorNil(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if HandleError(c, nil) {
		t.Fatalf("expected nil error to be ignored")
	}
}

func TestRateLimitRejectsBurstOverflow(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(0.001), 2, logger.Discard())
	r := gin.New()
	r.GET("/products", limiter.RateLimit(), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for range 3 {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status sequence %v", codes)
	}
}

func TestRequestIDReusesInboundHeader(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Fatalf("expected inbound request id, got %q", got)
	}
}
