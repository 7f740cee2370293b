package shortener

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"https://example.com", true},
		{"http://example.com/a?b=c#d", true},
		{"https://localhost:8080", true},
		{"", false},
		{"   ", false},
		{" https://example.com", false},
		{"https://example.com\n", false},
		{"example.com", false},
		{"ftp://example.com", false},
		{"javascript:alert(1)", false},
		{"https://", false},
		{"https:///path", false},
		{"https://example.com/" + strings.Repeat("a", MaxURLLength), false},
	}
	for _, tt := range tests {
		err := ValidateURL(tt.in)
		if tt.ok && err != nil {
			t.Errorf("ValidateURL(%q) = %v, want nil", tt.in, err)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidURL) {
			t.Errorf("ValidateURL(%q) = %v, want ErrInvalidURL", tt.in, err)
		}
	}
}

func TestValidateID(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"550e8400-e29b-41d4-a716-446655440000", true},
		{"C8918573-D9FC-43D6-B50D-AF2EDF8A64D9", true},
		{"550e8400-e29b-41d4-a716-44665544000", false},
		{"550e8400e29b41d4a716446655440000", false},
		{"urn:uuid:550e8400-e29b-41d4-a716-446655440000", false},
		{"{550e8400-e29b-41d4-a716-446655440000}", false},
		{"550e8400-e29b-41d4-a716-44665544000g", false},
		{"", false},
	}
	for _, tt := range tests {
		err := ValidateID(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ValidateID(%q) = %v, want ok=%v", tt.in, err, tt.ok)
		}
	}
}
