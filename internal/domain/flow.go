package domain

// Flow is one step template of a category's production flow. When a
// product is created, one PENDING task is provisioned per flow step of
// its category, carrying the step's area and sequence.
type Flow struct {
	ID         string
	CategoryID string
	AreaID     string
	Sequence   int
}
