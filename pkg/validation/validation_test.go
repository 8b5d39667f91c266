package validation

import "testing"

type sample struct {
	Date  string `validate:"omitempty,valid_date"`
	Time  string `validate:"omitempty,valid_clock_time"`
	Phone string `validate:"omitempty,valid_phone"`
}

func TestValidDate(t *testing.T) {
	v := New()

	valid := []string{"2026-01-05", "2026-12-31"}
	for _, d := range valid {
		if err := v.Struct(sample{Date: d}); err != nil {
			t.Errorf("expected %q to be valid: %v", d, err)
		}
	}

	invalid := []string{"05/01/2026", "2026-13-01", "2026-1-5", "tomorrow"}
	for _, d := range invalid {
		if err := v.Struct(sample{Date: d}); err == nil {
			t.Errorf("expected %q to be rejected", d)
		}
	}
}

func TestValidClockTime(t *testing.T) {
	v := New()

	valid := []string{"00:00", "09:30", "23:59"}
	for _, c := range valid {
		if err := v.Struct(sample{Time: c}); err != nil {
			t.Errorf("expected %q to be valid: %v", c, err)
		}
	}

	invalid := []string{"9:30", "24:00", "09:60", "noon"}
	for _, c := range invalid {
		if err := v.Struct(sample{Time: c}); err == nil {
			t.Errorf("expected %q to be rejected", c)
		}
	}
}

func TestValidPhone(t *testing.T) {
	v := New()

	valid := []string{"+919876543210", "9876543210", "+12025550142"}
	for _, p := range valid {
		if err := v.Struct(sample{Phone: p}); err != nil {
			t.Errorf("expected %q to be valid: %v", p, err)
		}
	}

	invalid := []string{"12345", "not-a-phone"}
	for _, p := range invalid {
		if err := v.Struct(sample{Phone: p}); err == nil {
			t.Errorf("expected %q to be rejected", p)
		}
	}
}
