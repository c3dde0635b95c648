package selection

import "theory-test-service/internal/models"

// Criteria describes which catalog questions are eligible for sampling.
// License-type expansion (parent -> children) happens before this point; the
// repository receives the already-expanded id list.
type Criteria struct {
	ActiveOnly     bool
	LicenseTypeIDs []string
	CategoryIDs    []string
	// QuestionIDs, when set, replaces license/category filtering entirely
	// (bookmarked-only tests sample from the user's bookmark set).
	QuestionIDs []string
	Count       int
}

// Result carries the drawn sample plus the candidate pool size, so callers
// can tell a short draw from a short pool.
type Result struct {
	Questions       []models.Question
	TotalCandidates int
}
