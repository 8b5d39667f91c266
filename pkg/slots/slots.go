// Package slots derives the bookable time slots for a single day from the
// working-hours configuration and the day's taken times. Generation is a
// pure function: same inputs, same ordered output.
package slots

import (
	"errors"
	"fmt"

	"bookly/pkg/model"
	"bookly/pkg/timeutil"
)

var (
	// ErrInvalidDuration rejects non-positive slot durations, which would
	// otherwise never terminate the enumeration.
	ErrInvalidDuration = errors.New("slot duration must be positive")
)

// Generate enumerates slots from startTime (inclusive) to endTime
// (exclusive) in durationMin steps. A slot whose start does not fit strictly
// before endTime is not emitted, so no partial trailing slot ever appears.
//
// startTime >= endTime yields an empty day, not an error. Entries in blocked
// or booked that match no generated time are ignored; they are an admin data
// hygiene issue, not a generation failure.
func Generate(startTime, endTime string, durationMin int, blocked, booked []string) ([]model.TimeSlot, error) {
	if durationMin <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDuration, durationMin)
	}

	start, err := timeutil.ParseClock(startTime)
	if err != nil {
		return nil, err
	}
	end, err := timeutil.ParseClock(endTime)
	if err != nil {
		return nil, err
	}

	blockedSet := toSet(blocked)
	bookedSet := toSet(booked)

	var out []model.TimeSlot
	for minutes := start; minutes < end; minutes += durationMin {
		clock := timeutil.FormatClock(minutes)

		// Clock strings from FormatClock always re-parse.
		display, _ := timeutil.Format12Hour(clock)

		isBlocked := blockedSet[clock]
		isBooked := bookedSet[clock]

		out = append(out, model.TimeSlot{
			Time:        clock,
			DisplayTime: display,
			Available:   !isBlocked && !isBooked,
			IsBlocked:   isBlocked,
			IsBooked:    isBooked,
		})
	}

	return out, nil
}

// FromConfig generates the day's slots for a configuration and the booked
// times collected from that day's appointments.
func FromConfig(cfg *model.Config, booked []string) ([]model.TimeSlot, error) {
	return Generate(cfg.StartTime, cfg.EndTime, cfg.SlotDurationMin, cfg.BlockedSlots, booked)
}

func toSet(times []string) map[string]bool {
	set := make(map[string]bool, len(times))
	for _, t := range times {
		set[t] = true
	}
	return set
}
