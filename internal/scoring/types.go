package scoring

import "time"

const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

// Outcome is one terminal (passed/failed) session fed into the historical
// estimator. LicenseTypeID is the group key; callers relabel child sessions
// to the parent id when estimating at parent level.
type Outcome struct {
	LicenseTypeID   string    `json:"license_type_id"`
	Passed          bool      `json:"passed"`
	ScorePercentage float64   `json:"score_percentage"`
	FinishedAt      time.Time `json:"finished_at"`
}

// HistoryEstimate is the per-license-type pass-chance derived from finished
// sessions.
type HistoryEstimate struct {
	LicenseTypeID   string  `json:"license_type_id"`
	TotalSessions   int     `json:"total_sessions"`
	PassedSessions  int     `json:"passed_sessions"`
	OverallPassRate float64 `json:"overall_pass_rate"`
	RecentPassRate  float64 `json:"recent_pass_rate"`
	RecentAvgScore  float64 `json:"recent_avg_score"`
	PassChance      int     `json:"pass_chance"`
	Trend           string  `json:"trend"`
}

// ProgressCounts is the correct/wrong pair for one question; a missing
// progress row is the zero value.
type ProgressCounts struct {
	Correct int
	Wrong   int
}

// MasteryEstimate is the headline dashboard number for a license type.
type MasteryEstimate struct {
	TotalQuestions    int `json:"total_questions"`
	StudiedQuestions  int `json:"studied_questions"`
	MasteredQuestions int `json:"mastered_questions"`
	PassChance        int `json:"pass_chance"`
}
