package services

import (
	"net/http"
	"testing"

	"github.com/boatnoah/lumo/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostMessageRequiresParticipation(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.createUser(t, "teacher", models.RoleTeacher)
	student := env.createUser(t, "student", models.RoleStudent)
	session := liveSession(t, env, teacher)

	// A student who never joined stays out of the chat.
	_, err := env.messages.Post(session.ID, student, "hello?")
	var domainErr *Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, http.StatusForbidden, domainErr.Status)

	_, err = env.members.Join(session.JoinCode, student, models.RoleStudent)
	require.NoError(t, err)

	posted, err := env.messages.Post(session.ID, student, "  hello everyone  ")
	require.NoError(t, err)
	assert.Equal(t, "hello everyone", posted.Body)

	// The owner participates without a membership row.
	_, err = env.messages.Post(session.ID, teacher, "welcome")
	require.NoError(t, err)

	messages, err := env.messages.List(session.ID, student)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "hello everyone", messages[0].Body)
	assert.Equal(t, "welcome", messages[1].Body)

	events, err := env.events.List(session.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, models.EventMessageCreated, events[len(events)-1].Type)
}

func TestPostMessageRejectsEmptyBody(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.createUser(t, "teacher", models.RoleTeacher)
	session := liveSession(t, env, teacher)

	_, err := env.messages.Post(session.ID, teacher, "   ")
	var domainErr *Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, http.StatusBadRequest, domainErr.Status)
}

func TestListMessagesRequiresParticipation(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.createUser(t, "teacher", models.RoleTeacher)
	outsider := env.createUser(t, "outsider", models.RoleStudent)
	session := liveSession(t, env, teacher)

	_, err := env.messages.List(session.ID, outsider)
	var domainErr *Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, http.StatusForbidden, domainErr.Status)
}
