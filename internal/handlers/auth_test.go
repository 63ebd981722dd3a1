package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/devconnect-chat/internal/config"
	"github.com/pushp314/devconnect-chat/internal/middleware"
	"github.com/pushp314/devconnect-chat/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const registerBody = `{"name":"Carol","email":"carol@example.com","password":"Str0ng!pass"}`

func authRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	config.AppConfig = &config.Config{JWTSecret: "test_secret_key_12345"}

	db := testutil.NewDB(t)
	h := NewAuthHandler(db)

	r := gin.New()
	r.Use(middleware.ErrorHandlerMiddleware())
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	return r, db
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r, _ := authRouter(t)

	w := do(r, http.MethodPost, "/auth/register", "", registerBody)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(r, http.MethodPost, "/auth/register", "", registerBody)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterDatabaseDown(t *testing.T) {
	r, db := authRouter(t)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w := do(r, http.MethodPost, "/auth/register", "", registerBody)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "internal", resp["kind"])
}

func TestLoginDatabaseDown(t *testing.T) {
	r, db := authRouter(t)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w := do(r, http.MethodPost, "/auth/login", "", `{"email":"carol@example.com","password":"Str0ng!pass"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
