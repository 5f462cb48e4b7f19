package domain

import "errors"

var (
	// ErrInvalidQuest is returned when quest content is malformed (no questions).
	ErrInvalidQuest = errors.New("invalid quest content")
	// ErrQuestNotFound indicates the quest content could not be loaded.
	ErrQuestNotFound = errors.New("quest not found")
	// ErrQuestionNotFound indicates a submitted question ID is invalid.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrOptionNotFound indicates a submitted option ID is invalid.
	ErrOptionNotFound = errors.New("option not found")
	// ErrMissingFields is returned when a request omits a required key field.
	ErrMissingFields = errors.New("missing required fields")
	// ErrUnauthorized is returned when a session token is missing or invalid.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUserNotFound indicates no profile exists for the authenticated user.
	ErrUserNotFound = errors.New("user not found")
)
