package core

import "testing"

func TestNearlyEqual(t *testing.T) {
	if !NearlyEqual(1.0, 1.0+1e-13, 1e-12) {
		t.Fatal("expected values to be nearly equal")
	}
	if NearlyEqual(1.0, 1.1, 1e-3) {
		t.Fatal("expected values to differ")
	}
	if !NearlyEqual(0, 1e-13, 0) {
		t.Fatal("zero eps should fall back to the default epsilon")
	}
}

func TestFlushDenormals(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{name: "zero", in: 0, want: 0},
		{name: "tinyPositive", in: 1e-35, want: 0},
		{name: "tinyNegative", in: -1e-35, want: 0},
		{name: "normal", in: 1e-20, want: 1e-20},
		{name: "negative", in: -0.5, want: -0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FlushDenormals(tt.in); got != tt.want {
				t.Fatalf("FlushDenormals(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	buf := []float64{1e-40, 0.25, -1e-31}
	FlushDenormalsInPlace(buf)
	if buf[0] != 0 || buf[1] != 0.25 || buf[2] != 0 {
		t.Fatalf("FlushDenormalsInPlace = %v", buf)
	}
}
