package scoring

import (
	"testing"
	"time"
)

// buildOutcomes creates sessions for one license type, oldest first, one
// minute apart.
func buildOutcomes(licenseTypeID string, scores []float64, passed []bool) []Outcome {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	outcomes := make([]Outcome, 0, len(scores))
	for i := range scores {
		outcomes = append(outcomes, Outcome{
			LicenseTypeID:   licenseTypeID,
			Passed:          passed[i],
			ScorePercentage: scores[i],
			FinishedAt:      base.Add(time.Duration(i) * time.Minute),
		})
	}
	return outcomes
}

func TestComputeHistoryWeighting(t *testing.T) {
	// Six sessions: the oldest falls outside the five-session recent window.
	outcomes := buildOutcomes("lt-b",
		[]float64{40, 50, 60, 70, 80, 90},
		[]bool{false, false, false, true, true, true},
	)

	estimates := ComputeHistory(outcomes)
	if len(estimates) != 1 {
		t.Fatalf("Expected 1 estimate, got %d", len(estimates))
	}
	est := estimates[0]

	if est.TotalSessions != 6 || est.PassedSessions != 3 {
		t.Errorf("Expected 6 total / 3 passed, got %d/%d", est.TotalSessions, est.PassedSessions)
	}
	if est.OverallPassRate != 50 {
		t.Errorf("Expected overall pass rate 50, got %v", est.OverallPassRate)
	}
	if est.RecentPassRate != 60 {
		t.Errorf("Expected recent pass rate 60, got %v", est.RecentPassRate)
	}
	if est.RecentAvgScore != 70 {
		t.Errorf("Expected recent avg score 70, got %v", est.RecentAvgScore)
	}
	// 0.4*60 + 0.3*50 + 0.3*70 = 60
	if est.PassChance != 60 {
		t.Errorf("Expected pass chance 60, got %d", est.PassChance)
	}
	if est.Trend != TrendImproving {
		t.Errorf("Expected improving trend, got %s", est.Trend)
	}
}

func TestClassifyTrend(t *testing.T) {
	testCases := []struct {
		name     string
		scores   []float64
		passed   []bool
		expected string
	}{
		{"too few sessions", []float64{30, 90}, []bool{false, true}, TrendStable},
		{"improving", []float64{40, 70, 80}, []bool{false, true, true}, TrendImproving},
		{"declining", []float64{90, 80, 40}, []bool{true, true, false}, TrendDeclining},
		{"flat within tolerance", []float64{70, 70, 72}, []bool{true, true, true}, TrendStable},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			estimates := ComputeHistory(buildOutcomes("lt-a", tc.scores, tc.passed))
			if len(estimates) != 1 {
				t.Fatalf("Expected 1 estimate, got %d", len(estimates))
			}
			if estimates[0].Trend != tc.expected {
				t.Errorf("Expected trend %s, got %s", tc.expected, estimates[0].Trend)
			}
		})
	}
}

func TestComputeHistoryGrouping(t *testing.T) {
	outcomes := append(
		buildOutcomes("lt-b", []float64{80, 90, 85}, []bool{true, true, true}),
		buildOutcomes("lt-a", []float64{50}, []bool{false})...,
	)

	estimates := ComputeHistory(outcomes)
	if len(estimates) != 2 {
		t.Fatalf("Expected 2 estimates, got %d", len(estimates))
	}
	// Larger group first
	if estimates[0].LicenseTypeID != "lt-b" || estimates[1].LicenseTypeID != "lt-a" {
		t.Errorf("Expected lt-b before lt-a, got %s then %s", estimates[0].LicenseTypeID, estimates[1].LicenseTypeID)
	}
	if estimates[1].PassChance != 15 {
		// 0.4*0 + 0.3*0 + 0.3*50 = 15
		t.Errorf("Expected lt-a pass chance 15, got %d", estimates[1].PassChance)
	}
}

func TestComputeHistoryEmpty(t *testing.T) {
	if estimates := ComputeHistory(nil); len(estimates) != 0 {
		t.Errorf("Expected no estimates, got %d", len(estimates))
	}
}
