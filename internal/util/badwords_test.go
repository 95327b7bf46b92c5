package util

import "testing"

func TestBadWordFilter(t *testing.T) {
	filter := NewBadWordFilter("forbidden")

	tests := []struct {
		text string
		want bool
	}{
		{"a perfectly fine sentence", false},
		{"this is forbidden", true},
		{"FORBIDDEN in caps", true},
		{"f.o.r.b.i.d.d.e.n with separators", true},
		{"", false},
	}

	for _, tt := range tests {
		if got := filter.Check(tt.text); got != tt.want {
			t.Errorf("Check(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
