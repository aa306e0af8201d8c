package services

import (
	"net/http"
	"testing"

	"github.com/boatnoah/lumo/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countAnswers(env *testEnv) int64 {
	var count int64
	env.db.Model(&models.Answer{}).Count(&count)
	return count
}

func TestSubmitAnswerGates(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.createUser(t, "teacher", models.RoleTeacher)
	student := env.createUser(t, "student", models.RoleStudent)
	session := env.createSession(t, teacher)
	current := env.createMcqPrompt(t, session.ID, teacher, []string{"X", "Y"}, intPtr(1))
	other := env.createMcqPrompt(t, session.ID, teacher, []string{"A", "B"}, nil)

	// Prompt must exist.
	_, err := env.answers.Submit(9999, student, models.RoleStudent, intPtr(0), nil)
	assert.ErrorIs(t, err, ErrPromptNotFound)

	// Session must be live.
	_, err = env.answers.Submit(current.ID, student, models.RoleStudent, intPtr(0), nil)
	assert.ErrorIs(t, err, ErrSessionNotLive)

	env.goLive(t, session.ID, teacher, current.ID)

	// Teachers never answer.
	_, err = env.answers.Submit(current.ID, teacher, models.RoleTeacher, intPtr(0), nil)
	var domainErr *Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, http.StatusForbidden, domainErr.Status)

	// Only the prompt the session points at accepts answers.
	env.openPrompt(t, other.ID, teacher)
	_, err = env.answers.Submit(other.ID, student, models.RoleStudent, intPtr(0), nil)
	assert.ErrorIs(t, err, ErrNotCurrentPrompt)

	// Current but not open.
	_, err = env.answers.Submit(current.ID, student, models.RoleStudent, intPtr(0), nil)
	assert.ErrorIs(t, err, ErrPromptClosed)

	assert.Zero(t, countAnswers(env), "rejected submissions must not leave rows behind")
}

func TestSubmitMcqAnswer(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.createUser(t, "teacher", models.RoleTeacher)
	student := env.createUser(t, "student", models.RoleStudent)
	session := env.createSession(t, teacher)
	prompt := env.createMcqPrompt(t, session.ID, teacher, []string{"X", "Y"}, intPtr(1))
	env.goLive(t, session.ID, teacher, prompt.ID)
	env.openPrompt(t, prompt.ID, teacher)

	// An MCQ needs a choice.
	_, err := env.answers.Submit(prompt.ID, student, models.RoleStudent, nil, nil)
	var domainErr *Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, http.StatusBadRequest, domainErr.Status)

	answer, err := env.answers.Submit(prompt.ID, student, models.RoleStudent, intPtr(1), nil)
	require.NoError(t, err)
	require.NotNil(t, answer.ChoiceIndex)
	assert.Equal(t, 1, *answer.ChoiceIndex)
	assert.Nil(t, answer.TextAnswer)

	events, err := env.events.List(session.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, models.EventAnswerSubmitted, events[len(events)-1].Type)
}

func TestSubmitTextAnswer(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.createUser(t, "teacher", models.RoleTeacher)
	student := env.createUser(t, "student", models.RoleStudent)
	session := env.createSession(t, teacher)

	prompt, err := env.prompts.Create(session.ID, teacher, models.RoleTeacher, PromptInput{
		Kind:   models.PromptKindShortText,
		Prompt: "One word for today?",
	})
	require.NoError(t, err)
	env.goLive(t, session.ID, teacher, prompt.ID)
	env.openPrompt(t, prompt.ID, teacher)

	_, err = env.answers.Submit(prompt.ID, student, models.RoleStudent, nil, strPtr("   "))
	var domainErr *Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, http.StatusBadRequest, domainErr.Status)

	answer, err := env.answers.Submit(prompt.ID, student, models.RoleStudent, nil, strPtr("great"))
	require.NoError(t, err)
	require.NotNil(t, answer.TextAnswer)
	assert.Equal(t, "great", *answer.TextAnswer)
	assert.Nil(t, answer.ChoiceIndex)
}

func TestSubmitMcqAnswerChecksBounds(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.createUser(t, "teacher", models.RoleTeacher)
	student := env.createUser(t, "student", models.RoleStudent)
	session := env.createSession(t, teacher)
	prompt := env.createMcqPrompt(t, session.ID, teacher, []string{"X", "Y"}, nil)
	env.goLive(t, session.ID, teacher, prompt.ID)
	env.openPrompt(t, prompt.ID, teacher)

	var domainErr *Error
	for _, choice := range []int{2, 42, -5} {
		_, err := env.answers.Submit(prompt.ID, student, models.RoleStudent, intPtr(choice), nil)
		require.ErrorAs(t, err, &domainErr, "choice %d must be rejected", choice)
		assert.Equal(t, http.StatusBadRequest, domainErr.Status)
	}
	assert.Zero(t, countAnswers(env))

	_, err := env.answers.Submit(prompt.ID, student, models.RoleStudent, intPtr(1), nil)
	assert.NoError(t, err)
}

func TestSubmitDuplicateAnswer(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.createUser(t, "teacher", models.RoleTeacher)
	student := env.createUser(t, "student", models.RoleStudent)
	session := env.createSession(t, teacher)
	prompt := env.createMcqPrompt(t, session.ID, teacher, []string{"X", "Y"}, nil)
	env.goLive(t, session.ID, teacher, prompt.ID)
	env.openPrompt(t, prompt.ID, teacher)

	_, err := env.answers.Submit(prompt.ID, student, models.RoleStudent, intPtr(0), nil)
	require.NoError(t, err)

	_, err = env.answers.Submit(prompt.ID, student, models.RoleStudent, intPtr(1), nil)
	assert.ErrorIs(t, err, ErrDuplicateAnswer)

	var domainErr *Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, http.StatusConflict, domainErr.Status)
	assert.Equal(t, int64(1), countAnswers(env), "first submission stands")
}

func TestListForPromptCountsChoices(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.createUser(t, "teacher", models.RoleTeacher)
	session := env.createSession(t, teacher)
	prompt := env.createMcqPrompt(t, session.ID, teacher, []string{"X", "Y"}, intPtr(1))
	env.goLive(t, session.ID, teacher, prompt.ID)
	env.openPrompt(t, prompt.ID, teacher)

	for i, choice := range []int{0, 1, 1} {
		student := env.createUser(t, "student-"+string(rune('a'+i)), models.RoleStudent)
		_, err := env.answers.Submit(prompt.ID, student, models.RoleStudent, intPtr(choice), nil)
		require.NoError(t, err)
	}

	summary, err := env.answers.ListForPrompt(prompt.ID, teacher)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, map[int]int{0: 1, 1: 2}, summary.ChoiceCounts)

	intruder := env.createUser(t, "other-teacher", models.RoleTeacher)
	_, err = env.answers.ListForPrompt(prompt.ID, intruder)
	assert.ErrorIs(t, err, ErrNotOwner)
}
