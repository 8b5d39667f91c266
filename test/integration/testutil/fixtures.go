package testutil

// BookingPayload is the request body for the public booking endpoint.
type BookingPayload struct {
	Date  string `json:"date"`
	Time  string `json:"time"`
	Name  string `json:"customer_name"`
	Phone string `json:"customer_phone"`
}

// ValidBooking returns a bookable request for a date far in the future.
func ValidBooking() BookingPayload {
	return BookingPayload{
		Date:  "2030-06-10",
		Time:  "10:00",
		Name:  "Asha Rao",
		Phone: "+919876543210",
	}
}
