package models

// Car is the resource served under /cars. ID is assigned by the repository
// when a car is saved with a zero ID.
type Car struct {
	ID    int64  `json:"id"`
	Make  string `json:"make,omitempty"`
	Model string `json:"model,omitempty"`
	Year  int    `json:"year,omitempty"`
}
