package scoring

import "math"

// QuestionScore maps a question's answer history onto [0,1]:
// never answered correctly scores 0 no matter how often it was missed, a
// clean record scores 0.5 after one correct answer and 1.0 after two, and a
// mixed record scores its correct ratio.
func QuestionScore(correct, wrong int) float64 {
	switch {
	case correct == 0:
		return 0
	case wrong == 0 && correct >= 2:
		return 1
	case wrong == 0:
		return 0.5
	default:
		return float64(correct) / float64(correct+wrong)
	}
}

// ComputeMastery aggregates per-question scores over every active question of
// a license type (absent progress rows count as zero history). Questions with
// any correct answer count as studied; only a full score counts as mastered.
func ComputeMastery(questionIDs []string, progress map[string]ProgressCounts) MasteryEstimate {
	est := MasteryEstimate{TotalQuestions: len(questionIDs)}
	if len(questionIDs) == 0 {
		return est
	}

	var sum float64
	for _, id := range questionIDs {
		counts := progress[id]
		score := QuestionScore(counts.Correct, counts.Wrong)
		sum += score
		if score > 0 {
			est.StudiedQuestions++
		}
		if score >= 1 {
			est.MasteredQuestions++
		}
	}

	est.PassChance = clampPercent(math.Round(100 * sum / float64(est.TotalQuestions)))
	return est
}

func clampPercent(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}
