package service

import (
	"context"
	"time"

	"theory-test-service/internal/models"
	"theory-test-service/internal/repository"
)

type ProgressService struct {
	Repo *repository.ProgressRepository
}

func NewProgressService(repo *repository.ProgressRepository) *ProgressService {
	return &ProgressService{Repo: repo}
}

// RecordAnswer upserts history counters for one answered question. Sessions
// forward every answer here regardless of which test produced it.
func (s *ProgressService) RecordAnswer(ctx context.Context, userID, questionID string, correct bool) (*models.UserQuestionProgress, error) {
	return s.Repo.RecordAnswer(ctx, userID, questionID, correct, time.Now())
}

func (s *ProgressService) ToggleBookmark(ctx context.Context, userID, questionID string) (bool, error) {
	return s.Repo.ToggleBookmark(ctx, userID, questionID)
}

func (s *ProgressService) BookmarkedQuestionIDs(ctx context.Context, userID string) ([]string, error) {
	return s.Repo.BookmarkedQuestionIDs(ctx, userID)
}

// ProgressByQuestion returns the user's rows keyed by question id; questions
// with no row are simply absent.
func (s *ProgressService) ProgressByQuestion(ctx context.Context, userID string, questionIDs []string) (map[string]models.UserQuestionProgress, error) {
	rows, err := s.Repo.FindByUser(ctx, userID, questionIDs)
	if err != nil {
		return nil, err
	}
	byQuestion := make(map[string]models.UserQuestionProgress, len(rows))
	for _, row := range rows {
		byQuestion[row.QuestionID] = row
	}
	return byQuestion, nil
}
