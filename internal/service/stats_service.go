package service

import (
	"context"

	"theory-test-service/internal/models"
	"theory-test-service/internal/repository"
	"theory-test-service/internal/scoring"
	"theory-test-service/internal/selection"

	"go.mongodb.org/mongo-driver/mongo"
)

type StatsService struct {
	SessionRepo  *repository.SessionRepository
	QuestionRepo *repository.QuestionRepository
	LicenseRepo  *repository.LicenseTypeRepository
	Progress     *ProgressService
}

func NewStatsService(
	sessionRepo *repository.SessionRepository,
	questionRepo *repository.QuestionRepository,
	licenseRepo *repository.LicenseTypeRepository,
	progress *ProgressService,
) *StatsService {
	return &StatsService{
		SessionRepo:  sessionRepo,
		QuestionRepo: questionRepo,
		LicenseRepo:  licenseRepo,
		Progress:     progress,
	}
}

// Dashboard bundles the numbers the home screen shows for one license type:
// the progress-based mastery estimate, the history-based pass chance, overall
// totals, and the latest attempts.
type Dashboard struct {
	LicenseTypeID string                   `json:"license_type_id"`
	Mastery       scoring.MasteryEstimate  `json:"mastery"`
	History       *scoring.HistoryEstimate `json:"history,omitempty"`
	Totals        DashboardTotals          `json:"totals"`
	Recent        []models.SessionSummary  `json:"recent_sessions"`
}

// DashboardTotals aggregates the user's finished (passed/failed) sessions
// for the license type; abandoned attempts are excluded.
type DashboardTotals struct {
	TotalSessions int     `json:"total_sessions"`
	Passed        int     `json:"passed"`
	Failed        int     `json:"failed"`
	AverageScore  float64 `json:"average_score"`
}

// HistoryPassChance estimates per-license-type pass chances from the user's
// finished sessions. With a licenseTypeID it estimates at that level: child
// sessions are folded into the parent group, so practising subcategories
// feeds the parent's number.
func (s *StatsService) HistoryPassChance(ctx context.Context, userID, licenseTypeID string) ([]scoring.HistoryEstimate, error) {
	var ids []string
	relabel := ""
	if licenseTypeID != "" {
		expanded, err := s.LicenseRepo.ExpandIDs(ctx, licenseTypeID)
		if err == mongo.ErrNoDocuments {
			return []scoring.HistoryEstimate{}, nil
		}
		if err != nil {
			return nil, err
		}
		ids = expanded
		relabel = licenseTypeID
	}

	sessions, err := s.SessionRepo.FindFinishedForUser(ctx, userID, ids)
	if err != nil {
		return nil, err
	}

	outcomes := make([]scoring.Outcome, 0, len(sessions))
	for i := range sessions {
		sess := &sessions[i]
		if sess.FinishedAt == nil {
			continue
		}
		label := sess.Config.LicenseTypeID
		if relabel != "" {
			label = relabel
		}
		outcomes = append(outcomes, scoring.Outcome{
			LicenseTypeID:   label,
			Passed:          sess.Status == models.StatusPassed,
			ScorePercentage: sess.ScorePercentage,
			FinishedAt:      *sess.FinishedAt,
		})
	}
	return scoring.ComputeHistory(outcomes), nil
}

// Mastery derives the question-level estimate for a license type: every
// active question of the type (children included) scored against the user's
// answer history.
func (s *StatsService) Mastery(ctx context.Context, userID, licenseTypeID string) (scoring.MasteryEstimate, error) {
	ids, err := s.LicenseRepo.ExpandIDs(ctx, licenseTypeID)
	if err == mongo.ErrNoDocuments {
		return scoring.MasteryEstimate{}, nil
	}
	if err != nil {
		return scoring.MasteryEstimate{}, err
	}

	questionIDs, err := s.QuestionRepo.FindIDsByCriteria(ctx, selection.Criteria{
		ActiveOnly:     true,
		LicenseTypeIDs: ids,
	})
	if err != nil {
		return scoring.MasteryEstimate{}, err
	}

	progress, err := s.Progress.ProgressByQuestion(ctx, userID, questionIDs)
	if err != nil {
		return scoring.MasteryEstimate{}, err
	}
	counts := make(map[string]scoring.ProgressCounts, len(progress))
	for id, p := range progress {
		counts[id] = scoring.ProgressCounts{Correct: p.TimesCorrect, Wrong: p.TimesWrong}
	}
	return scoring.ComputeMastery(questionIDs, counts), nil
}

func (s *StatsService) Dashboard(ctx context.Context, userID, licenseTypeID string) (*Dashboard, error) {
	mastery, err := s.Mastery(ctx, userID, licenseTypeID)
	if err != nil {
		return nil, err
	}

	estimates, err := s.HistoryPassChance(ctx, userID, licenseTypeID)
	if err != nil {
		return nil, err
	}
	var history *scoring.HistoryEstimate
	if len(estimates) > 0 {
		history = &estimates[0]
	}

	totals, err := s.totals(ctx, userID, licenseTypeID)
	if err != nil {
		return nil, err
	}

	recent, _, err := s.SessionRepo.ListForUser(ctx, userID, repository.SessionListFilter{Limit: 5})
	if err != nil {
		return nil, err
	}
	summaries := make([]models.SessionSummary, 0, len(recent))
	for i := range recent {
		summaries = append(summaries, recent[i].Summary())
	}

	return &Dashboard{
		LicenseTypeID: licenseTypeID,
		Mastery:       mastery,
		History:       history,
		Totals:        totals,
		Recent:        summaries,
	}, nil
}

func (s *StatsService) totals(ctx context.Context, userID, licenseTypeID string) (DashboardTotals, error) {
	ids, err := s.LicenseRepo.ExpandIDs(ctx, licenseTypeID)
	if err == mongo.ErrNoDocuments {
		return DashboardTotals{}, nil
	}
	if err != nil {
		return DashboardTotals{}, err
	}

	sessions, err := s.SessionRepo.FindFinishedForUser(ctx, userID, ids)
	if err != nil {
		return DashboardTotals{}, err
	}

	totals := DashboardTotals{TotalSessions: len(sessions)}
	var scoreSum float64
	for i := range sessions {
		if sessions[i].Status == models.StatusPassed {
			totals.Passed++
		} else {
			totals.Failed++
		}
		scoreSum += sessions[i].ScorePercentage
	}
	if totals.TotalSessions > 0 {
		totals.AverageScore = scoreSum / float64(totals.TotalSessions)
	}
	return totals, nil
}
