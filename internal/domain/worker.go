package domain

import "time"

// Worker represents a production employee working in one area.
type Worker struct {
	ID        string
	AreaID    string
	Name      string
	Token     string
	IsActive  bool
	CreatedAt time.Time
}
