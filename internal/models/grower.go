package models

import "time"

// Grower is an operator allowed to drive the taskpane actions.
type Grower struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Operator is a signed-in grower bound to one device session.
type Operator struct {
	GrowerID  int64  `json:"grower_id"`
	Name      string `json:"name"`
	SessionID string `json:"session_id"`
}
