package apperrors

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrSessionNotFound  = errors.New("session not found")
	ErrEmptyQuestionSet = errors.New("session has no questions")
	ErrAlreadyAnswered  = errors.New("question already answered")
	ErrRemote           = errors.New("remote store error")
)
