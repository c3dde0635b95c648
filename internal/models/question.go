package models

import "time"

// Answer is one choice of a question. Position is the authoring order; the
// client shuffles presentation per question using the session shuffle seed.
type Answer struct {
	ID        string `bson:"id" json:"id"`
	Text      string `bson:"text" json:"text"`
	IsCorrect bool   `bson:"is_correct" json:"is_correct"`
	Position  int    `bson:"position" json:"position"`
}

// SignRef is the denormalized traffic-sign data a question references.
type SignRef struct {
	ID       string `bson:"id" json:"id"`
	Code     string `bson:"code" json:"code"`
	Name     string `bson:"name" json:"name"`
	ImageURL string `bson:"image_url,omitempty" json:"image_url,omitempty"`
}

type Question struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	Text           string    `bson:"text" json:"text"`
	ImageURL       string    `bson:"image_url,omitempty" json:"image_url,omitempty"`
	CategoryID     string    `bson:"category_id" json:"category_id"`
	LicenseTypeIDs []string  `bson:"license_type_ids" json:"license_type_ids"`
	Active         bool      `bson:"active" json:"active"`
	Answers        []Answer  `bson:"answers" json:"answers"`
	Signs          []SignRef `bson:"signs,omitempty" json:"signs,omitempty"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

// CorrectAnswer returns the single correct answer, or nil when the question
// violates the one-correct-answer invariant.
func (q *Question) CorrectAnswer() *Answer {
	var found *Answer
	for i := range q.Answers {
		if q.Answers[i].IsCorrect {
			if found != nil {
				return nil
			}
			found = &q.Answers[i]
		}
	}
	return found
}

// HasAnswer reports whether answerID belongs to this question.
func (q *Question) HasAnswer(answerID string) bool {
	for i := range q.Answers {
		if q.Answers[i].ID == answerID {
			return true
		}
	}
	return false
}

// Validate checks the catalog invariants before a write is accepted.
func (q *Question) Validate() error {
	if q.Text == "" {
		return ErrInvalidQuestion
	}
	if len(q.Answers) < 2 {
		return ErrInvalidQuestion
	}
	if q.CorrectAnswer() == nil {
		return ErrInvalidQuestion
	}
	return nil
}

type Sign struct {
	ID          string `bson:"_id,omitempty" json:"id"`
	Code        string `bson:"code" json:"code"`
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	ImageURL    string `bson:"image_url,omitempty" json:"image_url,omitempty"`
	CategoryID  string `bson:"category_id,omitempty" json:"category_id,omitempty"`
}

type Category struct {
	ID       string `bson:"_id,omitempty" json:"id"`
	Name     string `bson:"name" json:"name"`
	Position int    `bson:"position" json:"position"`
}
