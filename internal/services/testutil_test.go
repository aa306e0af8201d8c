package services

import (
	"path/filepath"
	"testing"

	"github.com/boatnoah/lumo/internal/models"
	"github.com/boatnoah/lumo/internal/storage"
	"github.com/boatnoah/lumo/internal/ws"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB gives each test its own sqlite database with the same
// schema and error translation the postgres setup uses.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

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
	return db
}

type testEnv struct {
	db       *gorm.DB
	store    *storage.LocalStore
	events   *EventService
	sessions *SessionService
	members  *MemberService
	prompts  *PromptService
	answers  *AnswerService
	messages *MessageService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := openTestDB(t)
	log := zap.NewNop()
	hub := ws.NewHub(log)
	events := NewEventService(db, hub, log)

	store, err := storage.NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	return &testEnv{
		db:       db,
		store:    store,
		events:   events,
		sessions: NewSessionService(db, store, events, log),
		members:  NewMemberService(db, events),
		prompts:  NewPromptService(db, events),
		answers:  NewAnswerService(db, events),
		messages: NewMessageService(db, events),
	}
}

func (e *testEnv) createUser(t *testing.T, username, role string) uint {
	t.Helper()

	user := models.User{Username: username, PasswordHash: "not-a-real-hash"}
	require.NoError(t, e.db.Create(&user).Error)
	require.NoError(t, e.db.Create(&models.Profile{
		UserID:      user.ID,
		DisplayName: username,
		Role:        role,
	}).Error)
	return user.ID
}

func (e *testEnv) createSession(t *testing.T, ownerID uint) *models.Session {
	t.Helper()

	session, err := e.sessions.Create(ownerID)
	require.NoError(t, err)
	return session
}

func (e *testEnv) createMcqPrompt(t *testing.T, sessionID, teacherID uint, options []string, correct *int) *models.Prompt {
	t.Helper()

	prompt, err := e.prompts.Create(sessionID, teacherID, models.RoleTeacher, PromptInput{
		Kind:         models.PromptKindMcq,
		Question:     "Pick one",
		Options:      options,
		CorrectIndex: correct,
	})
	require.NoError(t, err)
	return prompt
}

// goLive moves the session to live with the given prompt current.
func (e *testEnv) goLive(t *testing.T, sessionID, teacherID, promptID uint) {
	t.Helper()

	status := models.SessionStatusLive
	_, err := e.sessions.UpdateStatus(sessionID, teacherID, models.RoleTeacher, StatusUpdate{
		Status:        &status,
		CurrentPrompt: &promptID,
		HasCurrent:    true,
	})
	require.NoError(t, err)
}

func (e *testEnv) openPrompt(t *testing.T, promptID, teacherID uint) {
	t.Helper()

	open := true
	_, err := e.prompts.Patch(promptID, teacherID, models.RoleTeacher, PromptPatch{IsOpen: &open})
	require.NoError(t, err)
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func reloadSession(t *testing.T, db *gorm.DB, id uint) *models.Session {
	t.Helper()

	var session models.Session
	require.NoError(t, db.First(&session, id).Error)
	return &session
}
