package models

import (
	"fmt"
	"testing"
	"time"
)

func testConfig(count, timePer, threshold int) SessionConfig {
	return SessionConfig{
		TestType:                TestTypeThematic,
		LicenseTypeID:           "lt-b",
		QuestionCount:           count,
		TimePerQuestion:         timePer,
		FailureThresholdPercent: threshold,
	}
}

// testQuestions builds n questions with ids q0..qn-1; answer "a" is correct,
// answer "b" is wrong.
func testQuestions(n int) []Question {
	questions := make([]Question, 0, n)
	for i := 0; i < n; i++ {
		questions = append(questions, Question{
			ID:         fmt.Sprintf("q%d", i),
			Text:       fmt.Sprintf("question %d", i),
			CategoryID: "cat-1",
			Answers: []Answer{
				{ID: "a", Text: "right", IsCorrect: true, Position: 0},
				{ID: "b", Text: "wrong", IsCorrect: false, Position: 1},
			},
		})
	}
	return questions
}

func newTestSession(t *testing.T, count, timePer, threshold int) *TestSession {
	t.Helper()
	cfg := testConfig(count, timePer, threshold)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config should be valid: %v", err)
	}
	return NewSession("user-1", cfg, testQuestions(count), 0.42, time.Now())
}

func TestSessionConfigValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*SessionConfig)
		wantErr bool
	}{
		{"valid thematic", func(c *SessionConfig) {}, false},
		{"valid bookmarked", func(c *SessionConfig) { c.TestType = TestTypeBookmarked }, false},
		{"unknown test type", func(c *SessionConfig) { c.TestType = "exam" }, true},
		{"too few questions", func(c *SessionConfig) { c.QuestionCount = 4 }, true},
		{"too many questions", func(c *SessionConfig) { c.QuestionCount = 1001 }, true},
		{"time per question too low", func(c *SessionConfig) { c.TimePerQuestion = 29 }, true},
		{"time per question too high", func(c *SessionConfig) { c.TimePerQuestion = 181 }, true},
		{"threshold zero", func(c *SessionConfig) { c.FailureThresholdPercent = 0 }, true},
		{"threshold above half", func(c *SessionConfig) { c.FailureThresholdPercent = 51 }, true},
		{"boundary values", func(c *SessionConfig) {
			c.QuestionCount = 5
			c.TimePerQuestion = 30
			c.FailureThresholdPercent = 50
		}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig(10, 60, 10)
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Error("Expected validation error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

func TestNewSessionInitialState(t *testing.T) {
	s := newTestSession(t, 10, 60, 10)

	if s.Status != StatusInProgress {
		t.Errorf("Expected status %s, got %s", StatusInProgress, s.Status)
	}
	if s.TotalQuestions != 10 {
		t.Errorf("Expected 10 questions, got %d", s.TotalQuestions)
	}
	if s.RemainingTimeSeconds != 600 {
		t.Errorf("Expected 600s remaining, got %d", s.RemainingTimeSeconds)
	}
	if len(s.Answers) != 0 || len(s.SkippedQuestionIDs) != 0 {
		t.Error("Expected empty answers and skips on a fresh session")
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	questions := testQuestions(5)
	s := NewSession("user-1", testConfig(5, 60, 20), questions, 0.1, time.Now())

	questions[0].Text = "mutated"
	questions[0].Answers[0].IsCorrect = false

	if s.Questions[0].Text == "mutated" {
		t.Error("Snapshot text should not change when the source question changes")
	}
	if !s.Questions[0].Answers[0].IsCorrect {
		t.Error("Snapshot answers should not change when the source question changes")
	}
}

func TestAllowedWrongFloors(t *testing.T) {
	testCases := []struct {
		total     int
		threshold int
		expected  int
	}{
		{10, 10, 1},
		{10, 15, 1},
		{10, 19, 1},
		{10, 20, 2},
		{5, 20, 1},
		{5, 10, 0},
		{25, 10, 2},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%d questions %d percent", tc.total, tc.threshold), func(t *testing.T) {
			s := newTestSession(t, tc.total, 60, tc.threshold)
			if got := s.AllowedWrong(); got != tc.expected {
				t.Errorf("Expected allowed wrong %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestApplyAnswer(t *testing.T) {
	s := newTestSession(t, 10, 60, 10)
	now := time.Now()

	outcome, err := s.ApplyAnswer("q0", "a", 590, now)
	if err != nil {
		t.Fatalf("Expected answer to be accepted, got %v", err)
	}
	if !outcome.IsCorrect {
		t.Error("Answer a should be correct")
	}
	if outcome.CorrectAnswerID != "a" {
		t.Errorf("Expected correct answer id a, got %s", outcome.CorrectAnswerID)
	}
	if s.CorrectCount != 1 || s.WrongCount != 0 {
		t.Errorf("Expected counts 1/0, got %d/%d", s.CorrectCount, s.WrongCount)
	}
	if s.RemainingTimeSeconds != 590 {
		t.Errorf("Expected remaining 590, got %d", s.RemainingTimeSeconds)
	}

	outcome, err = s.ApplyAnswer("q1", "b", 550, now)
	if err != nil {
		t.Fatalf("Expected answer to be accepted, got %v", err)
	}
	if outcome.IsCorrect {
		t.Error("Answer b should be wrong")
	}
	if outcome.CorrectAnswerID != "a" {
		t.Error("Wrong answers must still reveal the correct answer id")
	}
	if s.CorrectCount != 1 || s.WrongCount != 1 {
		t.Errorf("Expected counts 1/1, got %d/%d", s.CorrectCount, s.WrongCount)
	}
}

func TestApplyAnswerGuards(t *testing.T) {
	s := newTestSession(t, 10, 60, 10)
	now := time.Now()
	if _, err := s.ApplyAnswer("q0", "a", 590, now); err != nil {
		t.Fatalf("setup answer failed: %v", err)
	}

	testCases := []struct {
		name       string
		questionID string
		answerID   string
		expected   error
	}{
		{"duplicate answer", "q0", "b", ErrAlreadyAnswered},
		{"unknown question", "q99", "a", ErrQuestionNotFound},
		{"unknown answer", "q1", "zzz", ErrAnswerNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := s.ApplyAnswer(tc.questionID, tc.answerID, 500, now); err != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, err)
			}
		})
	}

	// Counters must be untouched by rejected answers
	if s.CorrectCount != 1 || s.WrongCount != 0 {
		t.Errorf("Rejected answers changed counters: %d/%d", s.CorrectCount, s.WrongCount)
	}

	s.Finalize(nil, now)
	if _, err := s.ApplyAnswer("q1", "a", 500, now); err != ErrAlreadyCompleted {
		t.Errorf("Expected %v after completion, got %v", ErrAlreadyCompleted, err)
	}
}

func TestCounterInvariant(t *testing.T) {
	s := newTestSession(t, 10, 60, 20)
	now := time.Now()

	answers := []struct {
		questionID string
		answerID   string
	}{
		{"q0", "a"}, {"q1", "b"}, {"q2", "a"}, {"q3", "a"}, {"q4", "b"},
	}
	for _, a := range answers {
		if _, err := s.ApplyAnswer(a.questionID, a.answerID, 300, now); err != nil {
			t.Fatalf("answer %s failed: %v", a.questionID, err)
		}
		if s.CorrectCount+s.WrongCount != len(s.Answers) {
			t.Fatalf("Counter invariant broken: %d+%d != %d", s.CorrectCount, s.WrongCount, len(s.Answers))
		}
	}
	if s.CorrectCount != 3 || s.WrongCount != 2 {
		t.Errorf("Expected counts 3/2, got %d/%d", s.CorrectCount, s.WrongCount)
	}
}

func TestSkipAnswerExclusivity(t *testing.T) {
	s := newTestSession(t, 10, 60, 10)
	now := time.Now()

	if err := s.ApplySkip("q0"); err != nil {
		t.Fatalf("skip failed: %v", err)
	}
	// Skipping twice is a no-op
	if err := s.ApplySkip("q0"); err != nil {
		t.Fatalf("repeat skip should be a no-op, got %v", err)
	}
	if len(s.SkippedQuestionIDs) != 1 {
		t.Errorf("Expected 1 skip entry, got %d", len(s.SkippedQuestionIDs))
	}

	// Answering a skipped question clears the skip mark
	if _, err := s.ApplyAnswer("q0", "a", 590, now); err != nil {
		t.Fatalf("answer after skip failed: %v", err)
	}
	if len(s.SkippedQuestionIDs) != 0 {
		t.Error("Answering should remove the question from the skip list")
	}

	// Skipping an answered question is rejected
	if err := s.ApplySkip("q0"); err != ErrAlreadyAnswered {
		t.Errorf("Expected %v, got %v", ErrAlreadyAnswered, err)
	}
	if err := s.ApplySkip("q99"); err != ErrQuestionNotFound {
		t.Errorf("Expected %v, got %v", ErrQuestionNotFound, err)
	}
}

func TestPauseAndResume(t *testing.T) {
	s := newTestSession(t, 10, 60, 10)
	now := time.Now()

	if err := s.ApplyPause(3, 420, now); err != nil {
		t.Fatalf("pause failed: %v", err)
	}
	if s.Status != StatusPaused || s.PausedAt == nil {
		t.Error("Pause should set paused status and timestamp")
	}
	if s.CurrentQuestionIndex != 3 || s.RemainingTimeSeconds != 420 {
		t.Errorf("Pause should store position and clock, got %d/%d", s.CurrentQuestionIndex, s.RemainingTimeSeconds)
	}

	if !s.ApplyResume() {
		t.Error("Resume on a paused session should report a change")
	}
	if s.Status != StatusInProgress || s.PausedAt != nil {
		t.Error("Resume should restore in_progress and clear paused_at")
	}
	if s.ApplyResume() {
		t.Error("Resume on an in-progress session should be a no-op")
	}

	s.Finalize(nil, now)
	if err := s.ApplyPause(0, 0, now); err != ErrAlreadyCompleted {
		t.Errorf("Expected %v on pausing a finished session, got %v", ErrAlreadyCompleted, err)
	}
}

func TestFinalizePassAndScore(t *testing.T) {
	// 10 questions, 10% threshold: one wrong allowed
	s := newTestSession(t, 10, 60, 10)
	now := time.Now()

	for i := 0; i < 10; i++ {
		answerID := "a"
		if i < 2 {
			answerID = "b"
		}
		if _, err := s.ApplyAnswer(fmt.Sprintf("q%d", i), answerID, 600-60*(i+1), now); err != nil {
			t.Fatalf("answer failed: %v", err)
		}
	}

	outcome := s.Finalize(nil, now)
	if outcome.Passed {
		t.Error("2 wrong with budget 1 should fail")
	}
	if outcome.Status != StatusFailed {
		t.Errorf("Expected status %s, got %s", StatusFailed, outcome.Status)
	}
	if outcome.ScorePercentage != 80 {
		t.Errorf("Expected score 80, got %v", outcome.ScorePercentage)
	}
	if outcome.EffectiveWrong != 2 || outcome.AllowedWrong != 1 {
		t.Errorf("Expected effective/allowed 2/1, got %d/%d", outcome.EffectiveWrong, outcome.AllowedWrong)
	}
	if outcome.TimeTakenSeconds != 600 {
		t.Errorf("Expected time taken 600, got %d", outcome.TimeTakenSeconds)
	}
}

func TestFinalizeCountsUnansweredAsWrong(t *testing.T) {
	// 5 questions, 20% threshold: one wrong allowed. Answer 3 correctly and
	// skip 2: the skips fail the attempt while the score stays correct-based.
	s := newTestSession(t, 5, 60, 20)
	now := time.Now()

	for i := 0; i < 3; i++ {
		if _, err := s.ApplyAnswer(fmt.Sprintf("q%d", i), "a", 200, now); err != nil {
			t.Fatalf("answer failed: %v", err)
		}
	}
	if err := s.ApplySkip("q3"); err != nil {
		t.Fatalf("skip failed: %v", err)
	}
	if err := s.ApplySkip("q4"); err != nil {
		t.Fatalf("skip failed: %v", err)
	}

	outcome := s.Finalize(nil, now)
	if outcome.Passed {
		t.Error("2 unanswered with budget 1 should fail")
	}
	if outcome.EffectiveWrong != 2 {
		t.Errorf("Expected effective wrong 2, got %d", outcome.EffectiveWrong)
	}
	if outcome.ScorePercentage != 60 {
		t.Errorf("Expected score 60, got %v", outcome.ScorePercentage)
	}
}

func TestFinalizeIdempotent(t *testing.T) {
	s := newTestSession(t, 5, 60, 20)
	now := time.Now()
	for i := 0; i < 5; i++ {
		if _, err := s.ApplyAnswer(fmt.Sprintf("q%d", i), "a", 100, now); err != nil {
			t.Fatalf("answer failed: %v", err)
		}
	}

	first := s.Finalize(nil, now)
	if !first.Passed || first.AlreadyFinished {
		t.Fatalf("Expected a fresh pass, got %+v", first)
	}
	firstFinished := *s.FinishedAt

	later := now.Add(time.Minute)
	remaining := 0
	second := s.Finalize(&remaining, later)
	if !second.AlreadyFinished {
		t.Error("Second Finalize should report already finished")
	}
	if second.Status != first.Status || second.ScorePercentage != first.ScorePercentage {
		t.Error("Second Finalize must not change the stored outcome")
	}
	if !s.FinishedAt.Equal(firstFinished) {
		t.Error("Second Finalize must not move finished_at")
	}
}

func TestFinalizeUsesClientClock(t *testing.T) {
	s := newTestSession(t, 5, 60, 20)
	now := time.Now()
	remaining := 120
	outcome := s.Finalize(&remaining, now)
	if outcome.TimeTakenSeconds != 180 {
		t.Errorf("Expected time taken 180, got %d", outcome.TimeTakenSeconds)
	}

	// Overtime clocks are allowed and produce time taken above the budget
	s2 := newTestSession(t, 5, 60, 20)
	over := -30
	outcome = s2.Finalize(&over, now)
	if outcome.TimeTakenSeconds != 330 {
		t.Errorf("Expected time taken 330, got %d", outcome.TimeTakenSeconds)
	}
}

func TestApplyAbandon(t *testing.T) {
	s := newTestSession(t, 5, 60, 20)
	now := time.Now()

	if !s.ApplyAbandon(now) {
		t.Error("Abandon on an active session should succeed")
	}
	if s.Status != StatusAbandoned || s.FinishedAt == nil {
		t.Error("Abandon should set status and finished_at")
	}
	if s.ApplyAbandon(now) {
		t.Error("Abandon on a terminal session should report no change")
	}
}

func TestCloneForRedo(t *testing.T) {
	s := newTestSession(t, 5, 60, 20)
	now := time.Now()
	if _, err := s.ApplyAnswer("q0", "b", 250, now); err != nil {
		t.Fatalf("answer failed: %v", err)
	}
	s.Finalize(nil, now)

	clone := s.CloneForRedo(now.Add(time.Minute))

	if clone.Status != StatusInProgress {
		t.Errorf("Clone should start in_progress, got %s", clone.Status)
	}
	if len(clone.Answers) != 0 || clone.CorrectCount != 0 || clone.WrongCount != 0 {
		t.Error("Clone must not inherit answers or counters")
	}
	if clone.ShuffleSeed != s.ShuffleSeed {
		t.Error("Clone must keep the shuffle seed")
	}
	if len(clone.Questions) != len(s.Questions) {
		t.Fatalf("Clone question count mismatch: %d vs %d", len(clone.Questions), len(s.Questions))
	}
	for i := range clone.Questions {
		if clone.Questions[i].ID != s.Questions[i].ID {
			t.Errorf("Clone question order differs at %d", i)
		}
	}

	// The clone's snapshot must be independent of the source
	clone.Questions[0].Answers[0].IsCorrect = false
	if !s.Questions[0].Answers[0].IsCorrect {
		t.Error("Mutating the clone snapshot must not affect the source")
	}
}

func TestNextUnansweredIndex(t *testing.T) {
	s := newTestSession(t, 5, 60, 20)
	now := time.Now()

	if got := s.NextUnansweredIndex(0); got != 0 {
		t.Errorf("Expected index 0, got %d", got)
	}

	for _, id := range []string{"q0", "q1", "q3"} {
		if _, err := s.ApplyAnswer(id, "a", 200, now); err != nil {
			t.Fatalf("answer failed: %v", err)
		}
	}

	testCases := []struct {
		after    int
		expected int
	}{
		{0, 2},
		{2, 2},
		{3, 4},
		{4, 4},
		// negative positions clamp to the start
		{-1, 2},
	}
	for _, tc := range testCases {
		if got := s.NextUnansweredIndex(tc.after); got != tc.expected {
			t.Errorf("NextUnansweredIndex(%d): expected %d, got %d", tc.after, tc.expected, got)
		}
	}

	// With only q2 left open, searching from a later position wraps around
	if _, err := s.ApplyAnswer("q4", "a", 150, now); err != nil {
		t.Fatalf("answer failed: %v", err)
	}
	if got := s.NextUnansweredIndex(3); got != 2 {
		t.Errorf("Expected wrap to 2, got %d", got)
	}

	if _, err := s.ApplyAnswer("q2", "a", 100, now); err != nil {
		t.Fatalf("answer failed: %v", err)
	}
	if got := s.NextUnansweredIndex(0); got != -1 {
		t.Errorf("Expected -1 when everything is answered, got %d", got)
	}
}

func TestSummary(t *testing.T) {
	s := newTestSession(t, 5, 60, 20)
	now := time.Now()
	s.ID = "sess-1"
	if _, err := s.ApplyAnswer("q0", "a", 250, now); err != nil {
		t.Fatalf("answer failed: %v", err)
	}

	summary := s.Summary()
	if summary.ID != "sess-1" || summary.TestType != TestTypeThematic {
		t.Errorf("Unexpected summary identity: %+v", summary)
	}
	if summary.AnsweredCount != 1 || summary.CorrectCount != 1 {
		t.Errorf("Unexpected summary counts: %+v", summary)
	}
	if summary.Status != StatusInProgress {
		t.Errorf("Expected in_progress summary, got %s", summary.Status)
	}
}
