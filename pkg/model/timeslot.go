package model

// TimeSlot is derived from the configuration plus the day's booked
// appointments. It is computed fresh on every read and never persisted.
type TimeSlot struct {
	Time        string `json:"time"`
	DisplayTime string `json:"display_time"`
	Available   bool   `json:"available"`
	IsBlocked   bool   `json:"is_blocked"`
	IsBooked    bool   `json:"is_booked"`
}
