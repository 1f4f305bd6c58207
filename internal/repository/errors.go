package repository

import (
	"errors"
	"fmt"
)

// ErrIDsExhausted is returned when no ID is left to assign to a new car.
var ErrIDsExhausted = errors.New("car id space exhausted")

// DuplicateCarError is raised when saving a car whose ID already exists
type DuplicateCarError struct {
	CarID   int64
	Message string
}

func (e *DuplicateCarError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("Car with ID '%d' already exists", e.CarID)
}

func NewDuplicateCarError(carID int64, message string) *DuplicateCarError {
	if message == "" {
		message = fmt.Sprintf("Car with ID '%d' already exists", carID)
	}
	return &DuplicateCarError{
		CarID:   carID,
		Message: message,
	}
}
