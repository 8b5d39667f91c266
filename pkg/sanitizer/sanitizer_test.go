package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "Asha Rao", want: "Asha Rao"},
		{name: "surrounding whitespace", input: "  Asha Rao  ", want: "Asha Rao"},
		{name: "internal runs", input: "Asha   \t Rao", want: "Asha Rao"},
		{name: "only whitespace", input: "   \t\n ", want: ""},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "already e164", input: "+919876543210", want: "+919876543210"},
		{name: "national form", input: "98765 43210", want: "+919876543210"},
		{name: "us number", input: "+1 415 555 2671", want: "+14155552671"},
		{name: "empty", input: "", want: ""},
		{name: "unparseable passes through", input: "not-a-phone", want: "not-a-phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.input); got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
