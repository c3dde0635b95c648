package scoring

import (
	"math"
	"sort"
)

const recentWindow = 5

// ComputeHistory groups terminal sessions by license type and derives a
// weighted pass-chance per group: 40% recent pass rate, 30% overall pass
// rate, 30% recent average score, where "recent" is the last five finished
// sessions. Groups are ordered by session count descending for display.
func ComputeHistory(outcomes []Outcome) []HistoryEstimate {
	groups := map[string][]Outcome{}
	for _, o := range outcomes {
		groups[o.LicenseTypeID] = append(groups[o.LicenseTypeID], o)
	}

	estimates := make([]HistoryEstimate, 0, len(groups))
	for id, group := range groups {
		estimates = append(estimates, estimateGroup(id, group))
	}

	sort.Slice(estimates, func(i, j int) bool {
		if estimates[i].TotalSessions != estimates[j].TotalSessions {
			return estimates[i].TotalSessions > estimates[j].TotalSessions
		}
		return estimates[i].LicenseTypeID < estimates[j].LicenseTypeID
	})
	return estimates
}

func estimateGroup(licenseTypeID string, group []Outcome) HistoryEstimate {
	est := HistoryEstimate{
		LicenseTypeID: licenseTypeID,
		TotalSessions: len(group),
	}
	for _, o := range group {
		if o.Passed {
			est.PassedSessions++
		}
	}
	est.OverallPassRate = float64(est.PassedSessions) / float64(len(group)) * 100

	// Most recently finished first.
	sorted := make([]Outcome, len(group))
	copy(sorted, group)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].FinishedAt.After(sorted[j].FinishedAt)
	})

	recent := sorted
	if len(recent) > recentWindow {
		recent = recent[:recentWindow]
	}
	if len(recent) > 0 {
		recentPassed := 0
		var scoreSum float64
		for _, o := range recent {
			if o.Passed {
				recentPassed++
			}
			scoreSum += o.ScorePercentage
		}
		est.RecentPassRate = float64(recentPassed) / float64(len(recent)) * 100
		est.RecentAvgScore = scoreSum / float64(len(recent))
	}

	weighted := 0.4*est.RecentPassRate + 0.3*est.OverallPassRate + 0.3*est.RecentAvgScore
	est.PassChance = clampPercent(math.Round(weighted))
	est.Trend = classifyTrend(sorted)
	return est
}

// classifyTrend compares the average score of the older half of the history
// against the newer half. Fewer than three sessions is always "stable".
func classifyTrend(newestFirst []Outcome) string {
	n := len(newestFirst)
	if n < 3 {
		return TrendStable
	}

	// Oldest first; the first half gets the smaller or equal share.
	asc := make([]Outcome, n)
	copy(asc, newestFirst)
	sort.Slice(asc, func(i, j int) bool {
		return asc[i].FinishedAt.Before(asc[j].FinishedAt)
	})

	split := n / 2
	diff := meanScore(asc[split:]) - meanScore(asc[:split])
	switch {
	case diff > 5:
		return TrendImproving
	case diff < -5:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func meanScore(outcomes []Outcome) float64 {
	if len(outcomes) == 0 {
		return 0
	}
	var sum float64
	for _, o := range outcomes {
		sum += o.ScorePercentage
	}
	return sum / float64(len(outcomes))
}
