package mathutil

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Round up at midpoint", 1.235, 1.24},
		{"Round down below midpoint", 1.234, 1.23},
		{"No rounding needed", 1.23, 1.23},
		{"Large number", 12345.678, 12345.68},
		{"Negative number", -1.235, -1.24},
		{"Zero", 0.0, 0.0},
		{"Accumulated drift", 0.1 + 0.2, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Round(tt.input)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("Round(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestIsZero(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected bool
	}{
		{"Exactly zero", 0.0, true},
		{"Within tolerance positive", 0.005, true},
		{"Within tolerance negative", -0.005, true},
		{"One cent", 0.01, true},
		{"Above tolerance", 0.02, false},
		{"Below tolerance", -0.02, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := IsZero(tt.input); result != tt.expected {
				t.Errorf("IsZero(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestWithinTolerance(t *testing.T) {
	if !WithinTolerance(100.00, 100.009, 0.01) {
		t.Errorf("expected 100.00 and 100.009 to be within 0.01")
	}
	if WithinTolerance(100.00, 100.02, 0.01) {
		t.Errorf("expected 100.00 and 100.02 to exceed 0.01")
	}
}

func TestMinMax(t *testing.T) {
	if Min(1.5, 2.5) != 1.5 {
		t.Errorf("Min(1.5, 2.5) should be 1.5")
	}
	if Max(1.5, 2.5) != 2.5 {
		t.Errorf("Max(1.5, 2.5) should be 2.5")
	}
}

func TestApplyPercentage(t *testing.T) {
	tests := []struct {
		name       string
		value      float64
		percentage float64
		expected   float64
	}{
		{"Standard VAT", 1000, 20, 200},
		{"Reduced VAT", 1000, 5.5, 55},
		{"Zero percentage", 1000, 0, 0},
		{"Zero value", 0, 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ApplyPercentage(tt.value, tt.percentage)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("ApplyPercentage(%v, %v) = %v, expected %v",
					tt.value, tt.percentage, result, tt.expected)
			}
		})
	}
}
