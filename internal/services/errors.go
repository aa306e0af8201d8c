package services

import "net/http"

// Error is a domain error with the HTTP status handlers should answer
// with. Anything else that escapes a service is a 500.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

func badRequest(msg string) *Error { return &Error{Status: http.StatusBadRequest, Message: msg} }
func forbidden(msg string) *Error  { return &Error{Status: http.StatusForbidden, Message: msg} }
func notFound(msg string) *Error   { return &Error{Status: http.StatusNotFound, Message: msg} }
func internal(msg string) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: msg}
}

var (
	ErrSessionNotFound = notFound("session not found")
	ErrPromptNotFound  = notFound("prompt not found")
	ErrNotOwner        = forbidden("only the session owner can do that")
	ErrTeachersOnly    = forbidden("only teachers can do that")
	ErrStudentsOnly    = forbidden("only students can do that")

	ErrSessionEnded    = badRequest("that session has ended")
	ErrNoCurrentPrompt = badRequest("pick a prompt before going live")

	ErrSessionNotLive   = forbidden("that session isn't live right now")
	ErrNotCurrentPrompt = forbidden("that prompt is not currently active")
	ErrPromptClosed     = forbidden("responses are closed for this prompt")

	ErrDuplicateAnswer = &Error{Status: http.StatusConflict, Message: "you have already submitted an answer for this prompt"}

	ErrNotInSession   = notFound("you're not currently in that session")
	ErrNotParticipant = forbidden("join the session to see its activity")

	ErrJoinCodeExhausted = internal("could not generate a unique join code")

	ErrPDFToolsUnavailable = &Error{Status: http.StatusServiceUnavailable, Message: "pdf rendering tools are not available on the server"}
)
