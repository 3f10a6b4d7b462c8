package common

import "testing"

func TestCapitalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"clear sky", "Clear sky"},
		{"CLEAR SKY", "Clear sky"},
		{"Clear sky", "Clear sky"},
		{"", ""},
		{"ясно", "Ясно"},
		{"x", "X"},
	}
	for _, tt := range tests {
		if got := Capitalize(tt.in); got != tt.want {
			t.Errorf("Capitalize(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}
