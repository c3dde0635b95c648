package models

import "time"

// UserQuestionProgress is the per user×question history row. It is created
// lazily on the first answer or bookmark toggle, the counters only ever
// increment, and nothing deletes it.
type UserQuestionProgress struct {
	ID              string     `bson:"_id,omitempty" json:"id"`
	UserID          string     `bson:"user_id" json:"user_id"`
	QuestionID      string     `bson:"question_id" json:"question_id"`
	TimesCorrect    int        `bson:"times_correct" json:"times_correct"`
	TimesWrong      int        `bson:"times_wrong" json:"times_wrong"`
	IsBookmarked    bool       `bson:"is_bookmarked" json:"is_bookmarked"`
	FirstAnsweredAt *time.Time `bson:"first_answered_at,omitempty" json:"first_answered_at,omitempty"`
	LastAnsweredAt  *time.Time `bson:"last_answered_at,omitempty" json:"last_answered_at,omitempty"`
}

func (p *UserQuestionProgress) TotalAnswered() int {
	return p.TimesCorrect + p.TimesWrong
}
