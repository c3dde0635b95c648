package models

import "time"

// TestTemplate is a named, reusable session configuration owned by a user.
// Starting a template funnels its config through the normal create path.
type TestTemplate struct {
	ID        string        `bson:"_id,omitempty" json:"id"`
	UserID    string        `bson:"user_id" json:"user_id"`
	Name      string        `bson:"name" json:"name"`
	Config    SessionConfig `bson:"config" json:"config"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time     `bson:"updated_at" json:"updated_at"`
}
