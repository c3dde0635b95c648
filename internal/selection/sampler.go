package selection

import (
	"math/rand"
	"sync"
	"time"

	"theory-test-service/internal/models"
)

// Sampler draws uniform random samples without replacement from a candidate
// pool. One instance is shared across requests, so access to the rng is
// serialized.
type Sampler struct {
	mu   sync.Mutex
	rand *rand.Rand
}

func NewSampler() *Sampler {
	return &Sampler{
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Sample returns up to count questions drawn uniformly without replacement.
// A pool smaller than count yields the whole pool; that is a valid outcome,
// not an error. The input slice is never mutated.
func (s *Sampler) Sample(candidates []models.Question, count int) *Result {
	result := &Result{TotalCandidates: len(candidates)}
	if count <= 0 || len(candidates) == 0 {
		result.Questions = []models.Question{}
		return result
	}

	pool := make([]models.Question, len(candidates))
	copy(pool, candidates)

	s.mu.Lock()
	s.rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	s.mu.Unlock()

	if count > len(pool) {
		count = len(pool)
	}
	result.Questions = pool[:count]
	return result
}

// NewShuffleSeed returns a seed in [0,1) stored on the session; the client
// uses it to order each question's answers deterministically.
func (s *Sampler) NewShuffleSeed() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rand.Float64()
}
