package model

// Config is the single per-deployment booking configuration document.
// It is created once with defaults and only ever mutated by admin actions.
type Config struct {
	ID              string   `json:"id,omitempty" bson:"_id,omitempty"`
	SlotDurationMin int      `json:"slot_duration_min" bson:"slot_duration_min" validate:"required,oneof=15 30"`
	StartTime       string   `json:"start_time" bson:"start_time" validate:"required,valid_clock_time"`
	EndTime         string   `json:"end_time" bson:"end_time" validate:"required,valid_clock_time,gtfield=StartTime"`
	BlockedSlots    []string `json:"blocked_slots" bson:"blocked_slots" validate:"omitempty,dive,valid_clock_time"`
}

// ConfigUpdate carries a partial admin update. Nil/empty fields are left
// untouched. Changing hours or duration never migrates existing
// appointments, even if they no longer align to slot boundaries.
type ConfigUpdate struct {
	SlotDurationMin *int   `json:"slot_duration_min,omitempty" validate:"omitempty,oneof=15 30"`
	StartTime       string `json:"start_time,omitempty" validate:"omitempty,valid_clock_time"`
	EndTime         string `json:"end_time,omitempty" validate:"omitempty,valid_clock_time"`
}

// IsBlocked reports whether the given 24-hour time is in the blocked set.
func (c *Config) IsBlocked(t string) bool {
	for _, b := range c.BlockedSlots {
		if b == t {
			return true
		}
	}
	return false
}
