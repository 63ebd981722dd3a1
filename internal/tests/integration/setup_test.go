package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/devconnect-chat/internal/config"
	"github.com/pushp314/devconnect-chat/internal/realtime"
	"github.com/pushp314/devconnect-chat/internal/routes"
	"github.com/pushp314/devconnect-chat/internal/services"
	"github.com/pushp314/devconnect-chat/internal/testutil"
	"github.com/pushp314/devconnect-chat/pkg/utils"
	"gorm.io/gorm"
)

type testApp struct {
	db     *gorm.DB
	router *gin.Engine
	chat   *services.ChatService
}

// setupApp builds the full router on an in-memory database. The hub is
// mounted so websocket clients can be attached through httptest.
func setupApp(t *testing.T, publisher realtime.Publisher, hub *realtime.Hub) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	config.AppConfig = &config.Config{
		JWTSecret: "test_secret_key_12345",
	}

	db := testutil.NewDB(t)
	chat := services.NewChatService(db, publisher)
	r := routes.NewRouter(routes.Deps{
		DB:          db,
		Chat:        chat,
		Hub:         hub,
		FrontendURL: "http://localhost:5173",
	})
	return &testApp{db: db, router: r, chat: chat}
}

// createTestUser inserts a user and returns a signed token for it
func createTestUser(t *testing.T, app *testApp, id, name string) string {
	t.Helper()
	testutil.CreateUser(t, app.db, id, name)

	token, err := utils.GenerateToken(id)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	return token
}

func performRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}

	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
