package models

import "errors"

// Session transition errors. Handlers map these onto the HTTP error codes, so
// services must return them unwrapped or wrapped with %w.
var (
	ErrAlreadyAnswered  = errors.New("question already answered in this session")
	ErrAlreadyCompleted = errors.New("session already completed")
	ErrQuestionNotFound = errors.New("question not in session snapshot")
	ErrAnswerNotFound   = errors.New("answer not in question snapshot")
	ErrInvalidQuestion  = errors.New("question must have text and exactly one correct answer")
	ErrInvalidConfig    = errors.New("session configuration out of accepted range")
)
