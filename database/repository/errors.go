package repository

import "errors"

var (
	// ErrNotFound is returned when the addressed document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrSlotTaken is returned when a slot reservation finds the time already in the ledger.
	ErrSlotTaken = errors.New("slot already booked")
)
