package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/devconnect-chat/internal/config"
	"github.com/pushp314/devconnect-chat/internal/testutil"
	apperrors "github.com/pushp314/devconnect-chat/pkg/errors"
	"github.com/pushp314/devconnect-chat/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestErrorHandlerRendersAppError(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandlerMiddleware())
	r.GET("/validation", func(c *gin.Context) { c.Error(apperrors.Validation("the message field is required")) })
	r.GET("/reference", func(c *gin.Context) { c.Error(apperrors.Reference("user not found")) })
	r.GET("/plain", func(c *gin.Context) { c.Error(errors.New("boom")) })
	r.GET("/panic", func(c *gin.Context) { panic("kaboom") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/validation", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"error":"the message field is required","kind":"validation"}`, w.Body.String())

	w = serve(r, httptest.NewRequest(http.MethodGet, "/reference", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/plain", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, w.Body.String())

	w = serve(r, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAuthMiddleware(t *testing.T) {
	config.AppConfig = &config.Config{JWTSecret: "test_secret_key_12345"}
	db := testutil.NewDB(t)
	testutil.CreateUser(t, db, "u1", "Alice")

	r := gin.New()
	r.GET("/me", AuthMiddleware(db), func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c))
	})

	valid, err := utils.GenerateToken("u1")
	require.NoError(t, err)
	orphan, err := utils.GenerateToken("deleted-user")
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Token " + valid, http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"unknown user", "Bearer " + orphan, http.StatusUnauthorized},
		{"valid", "Bearer " + valid, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := serve(r, req)
			assert.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, "u1", w.Body.String())
			}
		})
	}
}

func TestRateLimitPerUser(t *testing.T) {
	limiter := NewRateLimiter(rate.Limit(0.001), 2)
	t.Cleanup(limiter.Stop)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-User"); id != "" {
			c.Set(ContextUserID, id)
		}
		c.Next()
	})
	r.POST("/messages", RateLimitMiddleware(limiter), func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(user string) int {
		req := httptest.NewRequest(http.MethodPost, "/messages", nil)
		req.Header.Set("X-User", user)
		return serve(r, req).Code
	}

	assert.Equal(t, http.StatusOK, send("u1"))
	assert.Equal(t, http.StatusOK, send("u1"))
	assert.Equal(t, http.StatusTooManyRequests, send("u1"))
	assert.Equal(t, http.StatusOK, send("u2"))
}

func TestRateLimitMiddlewaresShareLimiters(t *testing.T) {
	before := runtime.NumGoroutine()
	for i := 0; i < 20; i++ {
		GeneralRateLimit()
		AuthRateLimit()
		ChatRateLimit()
	}
	assert.LessOrEqual(t, runtime.NumGoroutine(), before)
}

func TestRateLimiterStop(t *testing.T) {
	limiter := NewRateLimiter(rate.Limit(0.001), 1)
	limiter.Stop()
	limiter.Stop()

	assert.True(t, limiter.Allow("u1"))
	assert.False(t, limiter.Allow("u1"))
}
