package timeutil

import (
	"errors"
	"testing"
)

func TestDateRoundTrip(t *testing.T) {
	dates := []string{
		"2025-01-01",
		"2025-12-31",
		"2024-02-29",
		"1999-07-04",
	}

	for _, canonical := range dates {
		display, err := ToDisplayDate(canonical)
		if err != nil {
			t.Fatalf("ToDisplayDate(%q): unexpected error: %v", canonical, err)
		}
		back, err := ToCanonicalDate(display)
		if err != nil {
			t.Fatalf("ToCanonicalDate(%q): unexpected error: %v", display, err)
		}
		if back != canonical {
			t.Errorf("round trip %q -> %q -> %q", canonical, display, back)
		}
	}
}

func TestToCanonicalDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "valid date", input: "25/12/2025", want: "2025-12-25"},
		{name: "zero padded", input: "01/02/2025", want: "2025-02-01"},
		{name: "wrong separator", input: "25-12-2025", wantErr: true},
		{name: "canonical form rejected", input: "2025-12-25", wantErr: true},
		{name: "nonexistent day", input: "32/01/2025", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToCanonicalDate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %q", tt.input, got)
				}
				if !errors.Is(err, ErrInvalidDate) {
					t.Errorf("expected ErrInvalidDate, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	got, err := NormalizeDate("2025-06-15")
	if err != nil || got != "2025-06-15" {
		t.Errorf("canonical passthrough: got %q, %v", got, err)
	}

	got, err = NormalizeDate("15/06/2025")
	if err != nil || got != "2025-06-15" {
		t.Errorf("display converted: got %q, %v", got, err)
	}

	if _, err := NormalizeDate("June 15"); err == nil {
		t.Error("expected error for free-text date")
	}
}

func TestFormat12Hour(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "midnight", input: "00:00", want: "12:00 AM"},
		{name: "just after midnight", input: "00:30", want: "12:30 AM"},
		{name: "morning", input: "09:05", want: "9:05 AM"},
		{name: "noon", input: "12:00", want: "12:00 PM"},
		{name: "just after noon", input: "12:30", want: "12:30 PM"},
		{name: "afternoon", input: "15:45", want: "3:45 PM"},
		{name: "end of day", input: "23:59", want: "11:59 PM"},
		{name: "hour out of range", input: "24:00", wantErr: true},
		{name: "minute out of range", input: "10:60", wantErr: true},
		{name: "garbage", input: "noonish", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Format12Hour(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %q", tt.input, got)
				}
				if !errors.Is(err, ErrInvalidTime) {
					t.Errorf("expected ErrInvalidTime, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Format12Hour(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseAndFormatClock(t *testing.T) {
	minutes, err := ParseClock("09:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if minutes != 570 {
		t.Errorf("ParseClock(09:30) = %d, want 570", minutes)
	}
	if got := FormatClock(570); got != "09:30" {
		t.Errorf("FormatClock(570) = %q, want 09:30", got)
	}
	if got := FormatClock(0); got != "00:00" {
		t.Errorf("FormatClock(0) = %q, want 00:00", got)
	}
}

func TestTodayTomorrowDisplay(t *testing.T) {
	today := TodayDisplay()
	tomorrow := TomorrowDisplay()

	if _, err := ToCanonicalDate(today); err != nil {
		t.Errorf("TodayDisplay returned non-display form %q", today)
	}
	if _, err := ToCanonicalDate(tomorrow); err != nil {
		t.Errorf("TomorrowDisplay returned non-display form %q", tomorrow)
	}
	if today == tomorrow {
		t.Error("today and tomorrow must differ")
	}
}
