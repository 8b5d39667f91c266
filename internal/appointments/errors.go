package appointments

import "errors"

var (
	// ErrNotFound indicates no appointment exists with the given id.
	ErrNotFound = errors.New("appointment not found")

	// ErrSlotTaken indicates another booking already holds the slot. It maps
	// to the unique (date, time) index on booked appointments.
	ErrSlotTaken = errors.New("slot already booked")

	// ErrHoldHeld indicates another request is currently booking the slot.
	ErrHoldHeld = errors.New("slot hold already held")
)
