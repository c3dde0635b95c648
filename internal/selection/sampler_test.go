package selection

import (
	"fmt"
	"testing"

	"theory-test-service/internal/models"
)

func pool(n int) []models.Question {
	questions := make([]models.Question, 0, n)
	for i := 0; i < n; i++ {
		questions = append(questions, models.Question{ID: fmt.Sprintf("q%d", i)})
	}
	return questions
}

func TestSampleSize(t *testing.T) {
	sampler := NewSampler()

	testCases := []struct {
		name     string
		poolSize int
		count    int
		expected int
	}{
		{"count below pool", 20, 10, 10},
		{"count equals pool", 10, 10, 10},
		{"count above pool", 5, 10, 5},
		{"empty pool", 0, 10, 0},
		{"zero count", 10, 0, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := sampler.Sample(pool(tc.poolSize), tc.count)
			if len(result.Questions) != tc.expected {
				t.Errorf("Expected %d questions, got %d", tc.expected, len(result.Questions))
			}
			if result.TotalCandidates != tc.poolSize {
				t.Errorf("Expected %d candidates, got %d", tc.poolSize, result.TotalCandidates)
			}
		})
	}
}

func TestSampleNoDuplicates(t *testing.T) {
	sampler := NewSampler()
	result := sampler.Sample(pool(50), 25)

	seen := map[string]bool{}
	for _, q := range result.Questions {
		if seen[q.ID] {
			t.Errorf("Question %s sampled twice", q.ID)
		}
		seen[q.ID] = true
	}
}

func TestSampleDoesNotMutateInput(t *testing.T) {
	candidates := pool(10)
	before := make([]string, len(candidates))
	for i, q := range candidates {
		before[i] = q.ID
	}

	sampler := NewSampler()
	sampler.Sample(candidates, 5)

	for i, q := range candidates {
		if q.ID != before[i] {
			t.Fatalf("Input slice mutated at %d: %s != %s", i, q.ID, before[i])
		}
	}
}

func TestNewShuffleSeedRange(t *testing.T) {
	sampler := NewSampler()
	for i := 0; i < 100; i++ {
		seed := sampler.NewShuffleSeed()
		if seed < 0 || seed >= 1 {
			t.Fatalf("Seed out of range: %v", seed)
		}
	}
}
