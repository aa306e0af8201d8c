package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"testing"

	"github.com/boatnoah/lumo/internal/middleware"
	"github.com/boatnoah/lumo/internal/models"
	"github.com/boatnoah/lumo/internal/services"
	"github.com/boatnoah/lumo/internal/storage"
	"github.com/boatnoah/lumo/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestRouter wires the full API the way the server does, backed by
// sqlite and a throwaway upload dir.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Session{},
		&models.Prompt{},
		&models.SessionMember{},
		&models.Answer{},
		&models.Message{},
		&models.SessionEvent{},
	))

	log := zap.NewNop()
	hub := ws.NewHub(log)
	store, err := storage.NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	authService := services.NewAuthService(db, "test-secret")
	profileService := services.NewProfileService(db)
	eventService := services.NewEventService(db, hub, log)
	sessionService := services.NewSessionService(db, store, eventService, log)
	promptService := services.NewPromptService(db, eventService)
	memberService := services.NewMemberService(db, eventService)
	answerService := services.NewAnswerService(db, eventService)
	messageService := services.NewMessageService(db, eventService)
	slideService := services.NewSlideService(db, store, eventService, log, 50)

	authHandler := NewAuthHandler(authService)
	profileHandler := NewProfileHandler(profileService)
	sessionHandler := NewSessionHandler(sessionService, eventService, memberService)
	joinHandler := NewJoinHandler(memberService)
	promptHandler := NewPromptHandler(promptService, answerService)
	answerHandler := NewAnswerHandler(answerService)
	messageHandler := NewMessageHandler(messageService)
	uploadHandler := NewUploadHandler(slideService)

	r := gin.New()
	api := r.Group("/api/v1")

	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.JWTAuth(authService))

	authed.GET("/profile", profileHandler.GetProfile)
	authed.PUT("/profile", profileHandler.UpdateProfile)

	authed.GET("/sessions", sessionHandler.ListSessions)
	authed.POST("/sessions", sessionHandler.CreateSession)
	authed.GET("/sessions/:id/state", sessionHandler.GetState)
	authed.GET("/sessions/:id/events", sessionHandler.ListEvents)
	authed.GET("/sessions/:id/members", sessionHandler.ListMembers)
	authed.PATCH("/sessions/:id", sessionHandler.UpdateSession)
	authed.PATCH("/sessions/:id/status", sessionHandler.UpdateStatus)
	authed.DELETE("/sessions/:id", sessionHandler.DeleteSession)
	authed.POST("/sessions/:id/leave", joinHandler.Leave)
	authed.GET("/sessions/:id/messages", messageHandler.ListMessages)
	authed.POST("/sessions/:id/messages", messageHandler.PostMessage)

	authed.POST("/join/:code", joinHandler.Join)

	authed.GET("/prompts", promptHandler.ListPrompts)
	authed.POST("/prompts", promptHandler.CreatePrompt)
	authed.POST("/prompts/reorder", promptHandler.ReorderPrompts)
	authed.GET("/prompts/:id/answers", promptHandler.ListAnswers)
	authed.PATCH("/prompts/:id", promptHandler.PatchPrompt)
	authed.DELETE("/prompts/:id", promptHandler.DeletePrompt)

	authed.POST("/answers", answerHandler.SubmitAnswer)
	authed.POST("/slides/upload", uploadHandler.UploadSlides)

	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

// registerAs creates an account and finishes onboarding with the role.
func registerAs(t *testing.T, r *gin.Engine, username, role string) string {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": username,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, "register: %s", w.Body.String())
	token, _ := decodeBody(t, w)["token"].(string)
	require.NotEmpty(t, token)

	w = doJSON(t, r, http.MethodPut, "/api/v1/profile", token, gin.H{"role": role})
	require.Equal(t, http.StatusOK, w.Code, "set role: %s", w.Body.String())
	return token
}

func createSession(t *testing.T, r *gin.Engine, token string) (uint, string) {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/v1/sessions", token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	session := decodeBody(t, w)["session"].(map[string]interface{})
	return uint(session["session_id"].(float64)), session["join_code"].(string)
}

func sessionPath(id uint, suffix string) string {
	return fmt.Sprintf("/api/v1/sessions/%d%s", id, suffix)
}

func doMultipart(t *testing.T, r *gin.Engine, path, token string, sessionID uint, fileName, contentType string, data []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("session_id", fmt.Sprintf("%d", sessionID)))

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
