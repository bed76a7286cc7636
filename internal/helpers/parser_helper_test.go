package helpers

import (
	"testing"
	"time"
)

func TestParseLocalDateTime(t *testing.T) {
	got, err := ParseLocalDateTime("2024-01-01T10:30")
	if err != nil {
		t.Fatalf("ParseLocalDateTime() error = %v", err)
	}
	want := time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseLocalDateTime() = %v, want %v", got, want)
	}

	if _, err := ParseLocalDateTime("01/01/2024 10:30"); err == nil {
		t.Error("ParseLocalDateTime() accepted a non datetime-local value")
	}
	if _, err := ParseLocalDateTime(""); err == nil {
		t.Error("ParseLocalDateTime() accepted an empty value")
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"0", 0, false},
		{"12.50", 12.5, false},
		{"100", 100, false},
		{"-1", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePrice(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePrice(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParsePrice(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
