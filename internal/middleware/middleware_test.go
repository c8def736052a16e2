package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stemsi/neetquiz-backend/internal/service"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, claims service.Claims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func claimsFor(id uuid.UUID, role string, exp time.Time) service.Claims {
	return service.Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)},
		AccountID:        id.String(),
		Role:             role,
	}
}

func TestRequireJWT(t *testing.T) {
	auth := service.NewAuthService(testSecret)
	userID := uuid.New()

	r := gin.New()
	r.GET("/me", RequireJWT(auth), func(c *gin.Context) {
		id, ok := GetUserID(c)
		if !ok {
			c.String(http.StatusInternalServerError, "missing")
			return
		}
		c.String(http.StatusOK, id.String())
	})
	r.GET("/admin", RequireJWT(auth), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	valid := signToken(t, claimsFor(userID, service.RoleStudent, time.Now().Add(time.Hour)))
	admin := signToken(t, claimsFor(userID, service.RoleAdmin, time.Now().Add(time.Hour)))
	expired := signToken(t, claimsFor(userID, service.RoleStudent, time.Now().Add(-time.Hour)))
	badID := signToken(t, service.Claims{AccountID: "not-a-uuid"})

	tests := []struct {
		name     string
		path     string
		header   string
		wantCode int
		wantBody string
	}{
		{"missing header", "/me", "", http.StatusUnauthorized, "TOKEN_REQUIRED"},
		{"wrong scheme", "/me", "Basic " + valid, http.StatusUnauthorized, "TOKEN_REQUIRED"},
		{"garbage token", "/me", "Bearer abc.def.ghi", http.StatusUnauthorized, "TOKEN_INVALID"},
		{"expired token", "/me", "Bearer " + expired, http.StatusUnauthorized, "TOKEN_EXPIRED"},
		{"non uuid id", "/me", "Bearer " + badID, http.StatusUnauthorized, "TOKEN_INVALID"},
		{"valid token", "/me", "Bearer " + valid, http.StatusOK, userID.String()},
		{"student on admin route", "/admin", "Bearer " + valid, http.StatusForbidden, "ADMIN_ACCESS_ONLY"},
		{"admin on admin route", "/admin", "Bearer " + admin, http.StatusNoContent, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantCode, w.Body.String())
			}
			if tt.wantBody != "" && !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("body %q does not contain %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestRequireWSAuthReadsQueryToken(t *testing.T) {
	auth := service.NewAuthService(testSecret)
	r := gin.New()
	r.GET("/ws", RequireWSAuth(auth), func(c *gin.Context) { c.Status(http.StatusOK) })

	tok := signToken(t, claimsFor(uuid.New(), "", time.Now().Add(time.Hour)))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws?token="+tok, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestRateLimiter(t *testing.T) {
	stop := make(chan struct{})
	defer close(stop)

	rl := NewRateLimiter(2, time.Minute, stop)
	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	if codes[0] != 200 || codes[1] != 200 || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v, want [200 200 429]", codes)
	}

	if !rl.Allow("10.0.0.2") {
		t.Error("a different IP must have its own bucket")
	}

	rl.cleanup(time.Now().Add(time.Hour))
	if len(rl.visitors) != 0 {
		t.Errorf("cleanup left %d visitors", len(rl.visitors))
	}
}

func TestBrotli(t *testing.T) {
	large := strings.Repeat("quiz payload ", 200)

	r := gin.New()
	r.Use(Brotli())
	r.GET("/large", func(c *gin.Context) { c.String(http.StatusOK, large) })
	r.GET("/small", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/metrics", func(c *gin.Context) { c.String(http.StatusOK, large) })

	t.Run("large body is compressed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/large", nil)
		req.Header.Set("Accept-Encoding", "gzip, br;q=1.0")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if got := w.Header().Get("Content-Encoding"); got != "br" {
			t.Fatalf("Content-Encoding = %q, want br", got)
		}
		body, err := io.ReadAll(brotli.NewReader(bytes.NewReader(w.Body.Bytes())))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if string(body) != large {
			t.Error("decoded body differs from original")
		}
	})

	t.Run("small body passes through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/small", nil)
		req.Header.Set("Accept-Encoding", "br")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Header().Get("Content-Encoding") != "" || w.Body.String() != "ok" {
			t.Errorf("got encoding %q body %q", w.Header().Get("Content-Encoding"), w.Body.String())
		}
	})

	t.Run("skipped prefix", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		req.Header.Set("Accept-Encoding", "br")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Header().Get("Content-Encoding") != "" {
			t.Error("metrics must not be compressed")
		}
	})
}
