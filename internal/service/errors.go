package service

import (
	"errors"
	"fmt"

	"theory-test-service/internal/models"
)

var (
	ErrNoQuestionsAvailable = errors.New("no questions match the requested filters")
	ErrSessionNotFound      = errors.New("session not found")
	ErrTemplateNotFound     = errors.New("template not found")
	ErrQuestionNotFound     = errors.New("question not found")
	ErrForbidden            = errors.New("caller does not own this resource")
	ErrSessionNotDeletable  = errors.New("only finished sessions can be deleted from history")
)

// ActiveSessionConflictError carries the active session's summary so the UI
// can offer "abandon and continue".
type ActiveSessionConflictError struct {
	Active models.SessionSummary
}

func (e *ActiveSessionConflictError) Error() string {
	return fmt.Sprintf("user already has an active session %s", e.Active.ID)
}
