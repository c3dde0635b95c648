package service

import (
	"context"
	"log"
	"time"

	"theory-test-service/internal/models"
	"theory-test-service/internal/repository"
	"theory-test-service/internal/selection"

	redis_v9 "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const createLockTTL = 5 * time.Second

type SessionService struct {
	Repo         *repository.SessionRepository
	QuestionRepo *repository.QuestionRepository
	LicenseRepo  *repository.LicenseTypeRepository
	Progress     *ProgressService
	Sampler      *selection.Sampler
	Redis        *redis_v9.Client
}

func NewSessionService(
	repo *repository.SessionRepository,
	questionRepo *repository.QuestionRepository,
	licenseRepo *repository.LicenseTypeRepository,
	progress *ProgressService,
	redisClient *redis_v9.Client,
) *SessionService {
	return &SessionService{
		Repo:         repo,
		QuestionRepo: questionRepo,
		LicenseRepo:  licenseRepo,
		Progress:     progress,
		Sampler:      selection.NewSampler(),
		Redis:        redisClient,
	}
}

// Create starts a new attempt. The one-active-session rule is enforced here:
// an existing in-progress or paused session is a conflict unless the caller
// asked to abandon it. The sampled questions are frozen into the session as
// a deep-copied snapshot.
func (s *SessionService) Create(ctx context.Context, userID string, cfg models.SessionConfig, abandonActive bool) (*models.TestSession, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return s.withCreateLock(ctx, userID, func() (*models.TestSession, error) {
		if err := s.resolveActive(ctx, userID, abandonActive); err != nil {
			return nil, err
		}

		questions, err := s.sampleQuestions(ctx, userID, cfg)
		if err != nil {
			return nil, err
		}
		if len(questions) == 0 {
			return nil, ErrNoQuestionsAvailable
		}

		session := models.NewSession(userID, cfg, questions, s.Sampler.NewShuffleSeed(), time.Now())
		if err := s.Repo.Create(ctx, session); err != nil {
			return nil, err
		}
		return session, nil
	})
}

// withCreateLock brackets the conflict check and insert with a short Redis
// lock per user, closing the window where two concurrent creates both pass
// the precondition. Without Redis the query-only guard still applies.
func (s *SessionService) withCreateLock(ctx context.Context, userID string, fn func() (*models.TestSession, error)) (*models.TestSession, error) {
	if s.Redis == nil {
		return fn()
	}
	key := "theory:session:create:" + userID
	ok, err := s.Redis.SetNX(ctx, key, "1", createLockTTL).Result()
	if err != nil {
		log.Printf("session create lock unavailable: %v", err)
		return fn()
	}
	if !ok {
		return nil, &ActiveSessionConflictError{}
	}
	defer s.Redis.Del(ctx, key)
	return fn()
}

func (s *SessionService) resolveActive(ctx context.Context, userID string, abandonActive bool) error {
	active, err := s.Repo.FindActiveForUser(ctx, userID)
	if err != nil {
		return err
	}
	if active == nil {
		return nil
	}
	if !abandonActive {
		return &ActiveSessionConflictError{Active: active.Summary()}
	}
	if active.ApplyAbandon(time.Now()) {
		err := s.Repo.Update(ctx, active.ID, bson.M{
			"status":      active.Status,
			"finished_at": active.FinishedAt,
			"paused_at":   nil,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *SessionService) sampleQuestions(ctx context.Context, userID string, cfg models.SessionConfig) ([]models.Question, error) {
	criteria := selection.Criteria{ActiveOnly: true, Count: cfg.QuestionCount}

	switch cfg.TestType {
	case models.TestTypeBookmarked:
		ids, err := s.Progress.BookmarkedQuestionIDs(ctx, userID)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return nil, ErrNoQuestionsAvailable
		}
		criteria.QuestionIDs = ids
	default:
		if cfg.LicenseTypeID != "" {
			expanded, err := s.LicenseRepo.ExpandIDs(ctx, cfg.LicenseTypeID)
			if err != nil && err != mongo.ErrNoDocuments {
				return nil, err
			}
			criteria.LicenseTypeIDs = expanded
		}
		criteria.CategoryIDs = cfg.CategoryIDs
	}

	candidates, err := s.QuestionRepo.FindByCriteria(ctx, criteria)
	if err != nil {
		return nil, err
	}
	return s.Sampler.Sample(candidates, cfg.QuestionCount).Questions, nil
}

func (s *SessionService) load(ctx context.Context, userID, sessionID string) (*models.TestSession, error) {
	session, err := s.Repo.FindByID(ctx, sessionID)
	if err == mongo.ErrNoDocuments {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, ErrForbidden
	}
	return session, nil
}

// Get reads a session for its owner. Reading a paused session resumes it as
// a side effect; there is no separate resume endpoint.
func (s *SessionService) Get(ctx context.Context, userID, sessionID string) (*models.TestSession, error) {
	session, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.ApplyResume() {
		err := s.Repo.Update(ctx, session.ID, bson.M{
			"status":    session.Status,
			"paused_at": nil,
		})
		if err != nil {
			return nil, err
		}
	}
	return session, nil
}

// Answer validates against the frozen snapshot, persists through the
// conditional update, and forwards the result to the progress tracker. A
// failed condition means another request got there first; the fresh state
// decides which guard error to report.
func (s *SessionService) Answer(ctx context.Context, userID, sessionID, questionID, answerID string, clientRemaining int) (*models.AnswerOutcome, error) {
	session, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	outcome, err := session.ApplyAnswer(questionID, answerID, clientRemaining, time.Now())
	if err != nil {
		return nil, err
	}

	recorded := session.Answers[questionID]
	matched, err := s.Repo.RecordAnswer(ctx, sessionID, questionID, recorded, clientRemaining)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, s.staleAnswerError(ctx, userID, sessionID, questionID)
	}

	if _, err := s.Progress.RecordAnswer(ctx, userID, questionID, outcome.IsCorrect); err != nil {
		// The session answer is committed; history counters catch up on the
		// next answer to this question.
		log.Printf("progress update failed for user %s question %s: %v", userID, questionID, err)
	}
	return outcome, nil
}

func (s *SessionService) staleAnswerError(ctx context.Context, userID, sessionID, questionID string) error {
	fresh, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	if fresh.IsTerminal() {
		return models.ErrAlreadyCompleted
	}
	if _, ok := fresh.Answers[questionID]; ok {
		return models.ErrAlreadyAnswered
	}
	return models.ErrQuestionNotFound
}

func (s *SessionService) Skip(ctx context.Context, userID, sessionID, questionID string) error {
	session, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	if err := session.ApplySkip(questionID); err != nil {
		return err
	}
	matched, err := s.Repo.AddSkip(ctx, sessionID, questionID)
	if err != nil {
		return err
	}
	if !matched {
		return s.staleAnswerError(ctx, userID, sessionID, questionID)
	}
	return nil
}

func (s *SessionService) Pause(ctx context.Context, userID, sessionID string, currentIndex, clientRemaining int) error {
	session, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	if err := session.ApplyPause(currentIndex, clientRemaining, time.Now()); err != nil {
		return err
	}
	return s.Repo.Update(ctx, sessionID, bson.M{
		"status":                 session.Status,
		"paused_at":              session.PausedAt,
		"current_question_index": session.CurrentQuestionIndex,
		"remaining_time_seconds": session.RemainingTimeSeconds,
	})
}

// Complete finalizes the attempt. Unanswered questions count against the
// mistake budget while the displayed score counts correct answers only.
// Completing an already-terminal session reports the stored outcome.
func (s *SessionService) Complete(ctx context.Context, userID, sessionID string, clientRemaining *int) (*models.CompletionOutcome, error) {
	session, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	outcome := session.Finalize(clientRemaining, time.Now())
	if outcome.AlreadyFinished {
		return outcome, nil
	}

	matched, err := s.Repo.FinalizeIfActive(ctx, sessionID, bson.M{
		"status":                 session.Status,
		"finished_at":            session.FinishedAt,
		"score_percentage":       session.ScorePercentage,
		"time_taken_seconds":     session.TimeTakenSeconds,
		"remaining_time_seconds": session.RemainingTimeSeconds,
		"paused_at":              nil,
	})
	if err != nil {
		return nil, err
	}
	if !matched {
		// Lost the race to another Complete; report what actually stuck.
		fresh, err := s.load(ctx, userID, sessionID)
		if err != nil {
			return nil, err
		}
		stored := fresh.Finalize(nil, time.Now())
		return stored, nil
	}
	return outcome, nil
}

// RedoSame clones the source session's configuration and its exact snapshot,
// order and shuffle seed included, into a fresh attempt.
func (s *SessionService) RedoSame(ctx context.Context, userID, sessionID string, abandonActive bool) (*models.TestSession, error) {
	source, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.withCreateLock(ctx, userID, func() (*models.TestSession, error) {
		if err := s.resolveActive(ctx, userID, abandonActive); err != nil {
			return nil, err
		}
		clone := source.CloneForRedo(time.Now())
		if err := s.Repo.Create(ctx, clone); err != nil {
			return nil, err
		}
		return clone, nil
	})
}

// NewSimilar re-runs sampling with the source session's configuration.
func (s *SessionService) NewSimilar(ctx context.Context, userID, sessionID string, abandonActive bool) (*models.TestSession, error) {
	source, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.Create(ctx, userID, source.Config, abandonActive)
}

func (s *SessionService) List(ctx context.Context, userID string, f repository.SessionListFilter) ([]models.SessionSummary, int64, error) {
	sessions, total, err := s.Repo.ListForUser(ctx, userID, f)
	if err != nil {
		return nil, 0, err
	}
	summaries := make([]models.SessionSummary, 0, len(sessions))
	for i := range sessions {
		summaries = append(summaries, sessions[i].Summary())
	}
	return summaries, total, nil
}

// Delete removes a terminal session from history. Active sessions cannot be
// deleted; they are abandoned through the create flow instead.
func (s *SessionService) Delete(ctx context.Context, userID, sessionID string) error {
	session, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	if !session.IsTerminal() {
		return ErrSessionNotDeletable
	}
	return s.Repo.Delete(ctx, sessionID)
}
