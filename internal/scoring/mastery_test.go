package scoring

import "testing"

func TestQuestionScore(t *testing.T) {
	testCases := []struct {
		name     string
		correct  int
		wrong    int
		expected float64
	}{
		{"never answered", 0, 0, 0},
		{"only wrong", 0, 3, 0},
		{"one correct clean", 1, 0, 0.5},
		{"two correct clean", 2, 0, 1},
		{"many correct clean", 7, 0, 1},
		{"mixed half", 1, 1, 0.5},
		{"mixed three quarters", 3, 1, 0.75},
		{"mixed mostly wrong", 1, 4, 0.2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := QuestionScore(tc.correct, tc.wrong); got != tc.expected {
				t.Errorf("QuestionScore(%d, %d): expected %v, got %v", tc.correct, tc.wrong, tc.expected, got)
			}
		})
	}
}

func TestComputeMastery(t *testing.T) {
	questionIDs := []string{"q1", "q2", "q3", "q4"}
	progress := map[string]ProgressCounts{
		"q1": {Correct: 2, Wrong: 0}, // mastered, 1.0
		"q2": {Correct: 1, Wrong: 0}, // studied, 0.5
		"q3": {Correct: 3, Wrong: 1}, // studied, 0.75
		// q4 never answered, 0
	}

	est := ComputeMastery(questionIDs, progress)

	if est.TotalQuestions != 4 {
		t.Errorf("Expected 4 total, got %d", est.TotalQuestions)
	}
	if est.StudiedQuestions != 3 {
		t.Errorf("Expected 3 studied, got %d", est.StudiedQuestions)
	}
	if est.MasteredQuestions != 1 {
		t.Errorf("Expected 1 mastered, got %d", est.MasteredQuestions)
	}
	// (1.0 + 0.5 + 0.75 + 0) / 4 = 0.5625 -> round(56.25) = 56
	if est.PassChance != 56 {
		t.Errorf("Expected pass chance 56, got %d", est.PassChance)
	}
}

func TestComputeMasteryEdges(t *testing.T) {
	empty := ComputeMastery(nil, nil)
	if empty.TotalQuestions != 0 || empty.PassChance != 0 {
		t.Errorf("Expected zero estimate for empty pool, got %+v", empty)
	}

	// No progress at all
	cold := ComputeMastery([]string{"q1", "q2"}, nil)
	if cold.PassChance != 0 || cold.StudiedQuestions != 0 {
		t.Errorf("Expected zero estimate with no progress, got %+v", cold)
	}

	// Full mastery caps at 100
	full := ComputeMastery([]string{"q1"}, map[string]ProgressCounts{
		"q1": {Correct: 5, Wrong: 0},
	})
	if full.PassChance != 100 || full.MasteredQuestions != 1 {
		t.Errorf("Expected full mastery, got %+v", full)
	}
}
