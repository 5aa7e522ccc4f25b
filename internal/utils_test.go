package internal

import "testing"

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"water", "water"},
		{"thank you", "thank_you"},
		{"../etc/passwd", "___etc_passwd"},
		{"a-b_c", "a-b_c"},
		{"", "_"},
	}

	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
