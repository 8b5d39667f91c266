// Package validation builds the validator instance shared by all services,
// with the booking-specific rules registered.
package validation

import (
	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"

	"bookly/pkg/timeutil"
)

var supportedRegions = []string{
	"IN",
	"US",
}

// New returns a validator with the custom booking rules registered:
//
//	valid_date        canonical YYYY-MM-DD calendar date
//	valid_clock_time  24-hour HH:MM wall-clock time
//	valid_phone       phone number parseable in a supported region
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("valid_date", validDate)
	_ = v.RegisterValidation("valid_clock_time", validClockTime)
	_ = v.RegisterValidation("valid_phone", validPhone)

	return v
}

func validDate(fl validator.FieldLevel) bool {
	return timeutil.IsCanonicalDate(fl.Field().String())
}

func validClockTime(fl validator.FieldLevel) bool {
	_, err := timeutil.ParseClock(fl.Field().String())
	return err == nil
}

func validPhone(fl validator.FieldLevel) bool {
	phone := fl.Field().String()
	for _, region := range supportedRegions {
		parsed, err := phonenumbers.Parse(phone, region)
		if err == nil && phonenumbers.IsValidNumber(parsed) {
			return true
		}
	}
	return false
}
