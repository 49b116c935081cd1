package model

// BuddhaDay describes whether a single day is an observance day.
type BuddhaDay struct {
	Description string `json:"description"`
	Found       bool   `json:"found"`
}

// Buddha holds the lookup result for today and tomorrow.
type Buddha struct {
	Today    BuddhaDay `json:"today"`
	Tomorrow BuddhaDay `json:"tomorrow"`
}

// NewBuddha returns a result with neither day found.
func NewBuddha() Buddha {
	return Buddha{}
}
