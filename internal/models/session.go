package models

import (
	"time"
)

type SessionStatus string

const (
	StatusInProgress SessionStatus = "in_progress"
	StatusPaused     SessionStatus = "paused"
	StatusPassed     SessionStatus = "passed"
	StatusFailed     SessionStatus = "failed"
	StatusAbandoned  SessionStatus = "abandoned"
)

// Terminal reports whether the status is final. Terminal sessions never
// transition again; Complete on them is an idempotent no-op.
func (s SessionStatus) Terminal() bool {
	return s == StatusPassed || s == StatusFailed || s == StatusAbandoned
}

func ActiveStatuses() []SessionStatus {
	return []SessionStatus{StatusInProgress, StatusPaused}
}

type TestType string

const (
	TestTypeThematic   TestType = "thematic"
	TestTypeBookmarked TestType = "bookmarked"
)

// SessionConfig is the immutable configuration of a test attempt, fixed at
// creation time. Templates store the same bundle.
type SessionConfig struct {
	TestType                TestType `bson:"test_type" json:"test_type"`
	LicenseTypeID           string   `bson:"license_type_id,omitempty" json:"license_type_id,omitempty"`
	CategoryIDs             []string `bson:"category_ids,omitempty" json:"category_ids,omitempty"`
	QuestionCount           int      `bson:"question_count" json:"question_count"`
	TimePerQuestion         int      `bson:"time_per_question" json:"time_per_question"`
	FailureThresholdPercent int      `bson:"failure_threshold_percent" json:"failure_threshold_percent"`
	AutoAdvance             bool     `bson:"auto_advance" json:"auto_advance"`
}

const (
	MinQuestionCount    = 5
	MaxQuestionCount    = 1000
	MinTimePerQuestion  = 30
	MaxTimePerQuestion  = 180
	MinFailureThreshold = 1
	MaxFailureThreshold = 50
)

func (c *SessionConfig) Validate() error {
	if c.TestType != TestTypeThematic && c.TestType != TestTypeBookmarked {
		return ErrInvalidConfig
	}
	if c.QuestionCount < MinQuestionCount || c.QuestionCount > MaxQuestionCount {
		return ErrInvalidConfig
	}
	if c.TimePerQuestion < MinTimePerQuestion || c.TimePerQuestion > MaxTimePerQuestion {
		return ErrInvalidConfig
	}
	if c.FailureThresholdPercent < MinFailureThreshold || c.FailureThresholdPercent > MaxFailureThreshold {
		return ErrInvalidConfig
	}
	return nil
}

// SnapshotQuestion is the denormalized copy of a catalog question frozen into
// a session. It is never re-read from the catalog, so catalog edits after
// creation cannot change a running or finished attempt.
type SnapshotQuestion struct {
	ID         string    `bson:"id" json:"id"`
	Text       string    `bson:"text" json:"text"`
	ImageURL   string    `bson:"image_url,omitempty" json:"image_url,omitempty"`
	CategoryID string    `bson:"category_id" json:"category_id"`
	Answers    []Answer  `bson:"answers" json:"answers"`
	Signs      []SignRef `bson:"signs,omitempty" json:"signs,omitempty"`
}

func (q *SnapshotQuestion) correctAnswerID() string {
	for i := range q.Answers {
		if q.Answers[i].IsCorrect {
			return q.Answers[i].ID
		}
	}
	return ""
}

func (q *SnapshotQuestion) hasAnswer(answerID string) bool {
	for i := range q.Answers {
		if q.Answers[i].ID == answerID {
			return true
		}
	}
	return false
}

// SessionAnswer records one answered question inside a session.
type SessionAnswer struct {
	AnswerID   string    `bson:"answer_id" json:"answer_id"`
	IsCorrect  bool      `bson:"is_correct" json:"is_correct"`
	AnsweredAt time.Time `bson:"answered_at" json:"answered_at"`
}

// TestSession is the one timed quiz attempt aggregate. The question snapshot,
// config and shuffle seed are immutable after creation; everything else is
// runtime state driven by the Apply* transitions below.
type TestSession struct {
	ID          string        `bson:"_id,omitempty" json:"id"`
	UserID      string        `bson:"user_id" json:"user_id"`
	Config      SessionConfig `bson:"config" json:"config"`
	ShuffleSeed float64       `bson:"shuffle_seed" json:"shuffle_seed"`

	Questions      []SnapshotQuestion `bson:"questions" json:"questions"`
	TotalQuestions int                `bson:"total_questions" json:"total_questions"`

	Status               SessionStatus            `bson:"status" json:"status"`
	CurrentQuestionIndex int                      `bson:"current_question_index" json:"current_question_index"`
	Answers              map[string]SessionAnswer `bson:"answers" json:"answers"`
	SkippedQuestionIDs   []string                 `bson:"skipped_question_ids" json:"skipped_question_ids"`
	CorrectCount         int                      `bson:"correct_count" json:"correct_count"`
	WrongCount           int                      `bson:"wrong_count" json:"wrong_count"`
	RemainingTimeSeconds int                      `bson:"remaining_time_seconds" json:"remaining_time_seconds"`

	PausedAt         *time.Time `bson:"paused_at,omitempty" json:"paused_at,omitempty"`
	StartedAt        time.Time  `bson:"started_at" json:"started_at"`
	FinishedAt       *time.Time `bson:"finished_at,omitempty" json:"finished_at,omitempty"`
	ScorePercentage  float64    `bson:"score_percentage" json:"score_percentage"`
	TimeTakenSeconds int        `bson:"time_taken_seconds" json:"time_taken_seconds"`
	CreatedAt        time.Time  `bson:"created_at" json:"created_at"`
}

// NewSession freezes a deep copy of the sampled questions into a fresh
// in-progress session. The snapshot order is the sample order.
func NewSession(userID string, cfg SessionConfig, questions []Question, seed float64, now time.Time) *TestSession {
	snapshot := make([]SnapshotQuestion, 0, len(questions))
	for i := range questions {
		snapshot = append(snapshot, snapshotOf(&questions[i]))
	}
	return newFromSnapshot(userID, cfg, snapshot, seed, now)
}

func newFromSnapshot(userID string, cfg SessionConfig, snapshot []SnapshotQuestion, seed float64, now time.Time) *TestSession {
	return &TestSession{
		UserID:               userID,
		Config:               cfg,
		ShuffleSeed:          seed,
		Questions:            snapshot,
		TotalQuestions:       len(snapshot),
		Status:               StatusInProgress,
		Answers:              map[string]SessionAnswer{},
		SkippedQuestionIDs:   []string{},
		RemainingTimeSeconds: len(snapshot) * cfg.TimePerQuestion,
		StartedAt:            now,
		CreatedAt:            now,
	}
}

func snapshotOf(q *Question) SnapshotQuestion {
	answers := make([]Answer, len(q.Answers))
	copy(answers, q.Answers)
	signs := make([]SignRef, len(q.Signs))
	copy(signs, q.Signs)
	return SnapshotQuestion{
		ID:         q.ID,
		Text:       q.Text,
		ImageURL:   q.ImageURL,
		CategoryID: q.CategoryID,
		Answers:    answers,
		Signs:      signs,
	}
}

// CloneForRedo starts a brand-new attempt over the exact same snapshot, in
// the same order and with the same shuffle seed, so the client replays the
// identical test.
func (s *TestSession) CloneForRedo(now time.Time) *TestSession {
	snapshot := make([]SnapshotQuestion, len(s.Questions))
	for i := range s.Questions {
		answers := make([]Answer, len(s.Questions[i].Answers))
		copy(answers, s.Questions[i].Answers)
		signs := make([]SignRef, len(s.Questions[i].Signs))
		copy(signs, s.Questions[i].Signs)
		snapshot[i] = s.Questions[i]
		snapshot[i].Answers = answers
		snapshot[i].Signs = signs
	}
	return newFromSnapshot(s.UserID, s.Config, snapshot, s.ShuffleSeed, now)
}

// AllowedWrong is the mistake budget: floor(total * threshold / 100).
func (s *TestSession) AllowedWrong() int {
	return s.TotalQuestions * s.Config.FailureThresholdPercent / 100
}

func (s *TestSession) IsTerminal() bool {
	return s.Status.Terminal()
}

func (s *TestSession) findQuestion(questionID string) *SnapshotQuestion {
	for i := range s.Questions {
		if s.Questions[i].ID == questionID {
			return &s.Questions[i]
		}
	}
	return nil
}

func (s *TestSession) isSkipped(questionID string) bool {
	for _, id := range s.SkippedQuestionIDs {
		if id == questionID {
			return true
		}
	}
	return false
}

func (s *TestSession) removeSkipped(questionID string) {
	for i, id := range s.SkippedQuestionIDs {
		if id == questionID {
			s.SkippedQuestionIDs = append(s.SkippedQuestionIDs[:i], s.SkippedQuestionIDs[i+1:]...)
			return
		}
	}
}

// AnswerOutcome is returned to the client after each answer so the UI can
// reveal correctness and warn when the mistake budget is gone without ending
// the session.
type AnswerOutcome struct {
	IsCorrect           bool   `json:"is_correct"`
	CorrectAnswerID     string `json:"correct_answer_id"`
	CorrectCount        int    `json:"correct_count"`
	WrongCount          int    `json:"wrong_count"`
	AnsweredCount       int    `json:"answered_count"`
	HasExceededMistakes bool   `json:"has_exceeded_mistakes"`
}

// ApplyAnswer validates and records one answer against the frozen snapshot.
// Correctness always comes from the snapshot, never the live catalog. The
// client-reported remaining time overwrites the stored value and may be
// negative (overtime).
func (s *TestSession) ApplyAnswer(questionID, answerID string, clientRemaining int, now time.Time) (*AnswerOutcome, error) {
	if s.IsTerminal() {
		return nil, ErrAlreadyCompleted
	}
	if _, ok := s.Answers[questionID]; ok {
		return nil, ErrAlreadyAnswered
	}
	q := s.findQuestion(questionID)
	if q == nil {
		return nil, ErrQuestionNotFound
	}
	if !q.hasAnswer(answerID) {
		return nil, ErrAnswerNotFound
	}

	correctID := q.correctAnswerID()
	correct := answerID == correctID

	s.Answers[questionID] = SessionAnswer{
		AnswerID:   answerID,
		IsCorrect:  correct,
		AnsweredAt: now,
	}
	s.removeSkipped(questionID)
	if correct {
		s.CorrectCount++
	} else {
		s.WrongCount++
	}
	s.RemainingTimeSeconds = clientRemaining

	return &AnswerOutcome{
		IsCorrect:           correct,
		CorrectAnswerID:     correctID,
		CorrectCount:        s.CorrectCount,
		WrongCount:          s.WrongCount,
		AnsweredCount:       len(s.Answers),
		HasExceededMistakes: s.WrongCount > s.AllowedWrong(),
	}, nil
}

// ApplySkip marks a question as skipped. Skipping an already-skipped question
// is a no-op, not an error.
func (s *TestSession) ApplySkip(questionID string) error {
	if s.IsTerminal() {
		return ErrAlreadyCompleted
	}
	if _, ok := s.Answers[questionID]; ok {
		return ErrAlreadyAnswered
	}
	if s.findQuestion(questionID) == nil {
		return ErrQuestionNotFound
	}
	if !s.isSkipped(questionID) {
		s.SkippedQuestionIDs = append(s.SkippedQuestionIDs, questionID)
	}
	return nil
}

// ApplyPause stores the client position and clock and parks the session.
func (s *TestSession) ApplyPause(currentIndex, clientRemaining int, now time.Time) error {
	if s.IsTerminal() {
		return ErrAlreadyCompleted
	}
	s.Status = StatusPaused
	s.PausedAt = &now
	s.CurrentQuestionIndex = currentIndex
	s.RemainingTimeSeconds = clientRemaining
	return nil
}

// ApplyResume is the implicit transition performed when the owner reads a
// paused session. Returns true when a state change happened.
func (s *TestSession) ApplyResume() bool {
	if s.Status != StatusPaused {
		return false
	}
	s.Status = StatusInProgress
	s.PausedAt = nil
	return true
}

type CompletionOutcome struct {
	Status           SessionStatus `json:"status"`
	Passed           bool          `json:"passed"`
	ScorePercentage  float64       `json:"score_percentage"`
	CorrectCount     int           `json:"correct_count"`
	WrongCount       int           `json:"wrong_count"`
	EffectiveWrong   int           `json:"effective_wrong"`
	AllowedWrong     int           `json:"allowed_wrong"`
	TimeTakenSeconds int           `json:"time_taken_seconds"`
	AlreadyFinished  bool          `json:"already_finished"`
}

// Finalize completes the session. Every unanswered question, skipped ones
// included, counts as wrong for the pass/fail decision, while the displayed
// score counts only actually-correct answers. Calling Finalize on a terminal
// session is an idempotent no-op that reports the stored outcome.
func (s *TestSession) Finalize(clientRemaining *int, now time.Time) *CompletionOutcome {
	if s.IsTerminal() {
		return &CompletionOutcome{
			Status:           s.Status,
			Passed:           s.Status == StatusPassed,
			ScorePercentage:  s.ScorePercentage,
			CorrectCount:     s.CorrectCount,
			WrongCount:       s.WrongCount,
			AllowedWrong:     s.AllowedWrong(),
			TimeTakenSeconds: s.TimeTakenSeconds,
			AlreadyFinished:  true,
		}
	}

	if clientRemaining != nil {
		s.RemainingTimeSeconds = *clientRemaining
	}

	unanswered := s.TotalQuestions - s.CorrectCount - s.WrongCount
	effectiveWrong := s.WrongCount + unanswered
	passed := effectiveWrong <= s.AllowedWrong()

	if s.TotalQuestions > 0 {
		s.ScorePercentage = float64(s.CorrectCount) / float64(s.TotalQuestions) * 100
	}
	s.TimeTakenSeconds = s.TotalQuestions*s.Config.TimePerQuestion - s.RemainingTimeSeconds

	if passed {
		s.Status = StatusPassed
	} else {
		s.Status = StatusFailed
	}
	s.FinishedAt = &now
	s.PausedAt = nil

	return &CompletionOutcome{
		Status:           s.Status,
		Passed:           passed,
		ScorePercentage:  s.ScorePercentage,
		CorrectCount:     s.CorrectCount,
		WrongCount:       s.WrongCount,
		EffectiveWrong:   effectiveWrong,
		AllowedWrong:     s.AllowedWrong(),
		TimeTakenSeconds: s.TimeTakenSeconds,
	}
}

// ApplyAbandon marks the session abandoned. Returns false when the session is
// already terminal.
func (s *TestSession) ApplyAbandon(now time.Time) bool {
	if s.IsTerminal() {
		return false
	}
	s.Status = StatusAbandoned
	s.FinishedAt = &now
	s.PausedAt = nil
	return true
}

// NextUnansweredIndex returns the index of the first question at or after
// `after` that has no recorded answer, wrapping around once; skipped
// questions count as unanswered. Returns -1 when everything is answered.
func (s *TestSession) NextUnansweredIndex(after int) int {
	n := len(s.Questions)
	if n == 0 {
		return -1
	}
	if after < 0 {
		after = 0
	}
	for off := 0; off < n; off++ {
		i := (after + off) % n
		if _, ok := s.Answers[s.Questions[i].ID]; !ok {
			return i
		}
	}
	return -1
}

// SessionSummary is the compact shape used in history lists and in the 409
// conflict payload offered to the "abandon and continue" UI.
type SessionSummary struct {
	ID              string        `json:"id"`
	TestType        TestType      `json:"test_type"`
	LicenseTypeID   string        `json:"license_type_id,omitempty"`
	Status          SessionStatus `json:"status"`
	TotalQuestions  int           `json:"total_questions"`
	AnsweredCount   int           `json:"answered_count"`
	CorrectCount    int           `json:"correct_count"`
	WrongCount      int           `json:"wrong_count"`
	ScorePercentage float64       `json:"score_percentage"`
	StartedAt       time.Time     `json:"started_at"`
	FinishedAt      *time.Time    `json:"finished_at,omitempty"`
}

func (s *TestSession) Summary() SessionSummary {
	return SessionSummary{
		ID:              s.ID,
		TestType:        s.Config.TestType,
		LicenseTypeID:   s.Config.LicenseTypeID,
		Status:          s.Status,
		TotalQuestions:  s.TotalQuestions,
		AnsweredCount:   len(s.Answers),
		CorrectCount:    s.CorrectCount,
		WrongCount:      s.WrongCount,
		ScorePercentage: s.ScorePercentage,
		StartedAt:       s.StartedAt,
		FinishedAt:      s.FinishedAt,
	}
}
