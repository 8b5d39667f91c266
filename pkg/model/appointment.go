package model

import (
	"time"
)

// StatusBooked is the only status ever persisted. The slot-level states
// (blocked, available) are derived from the configuration and never stored
// on an appointment.
const StatusBooked = "booked"

type Appointment struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,uuid4"`
	Date          string    `json:"date" bson:"date" validate:"required,valid_date"`
	Time          string    `json:"time" bson:"time" validate:"required,valid_clock_time"`
	CustomerName  string    `json:"customer_name" bson:"customer_name" validate:"required,min=2,max=100"`
	CustomerPhone string    `json:"customer_phone" bson:"customer_phone" validate:"required,valid_phone"`
	Status        string    `json:"status" bson:"status" validate:"required,oneof=booked"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
