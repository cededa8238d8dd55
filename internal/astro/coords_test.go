package astro

import (
	"math"
	"testing"
)

func TestAngularSeparation(t *testing.T) {
	tests := []struct {
		name      string
		az1, alt1 float64
		az2, alt2 float64
		wantSep   float64
		tol       float64
	}{
		{
			name: "same point",
			az1:  100, alt1: 30,
			az2: 100, alt2: 30,
			wantSep: 0,
			tol:     0.001,
		},
		{
			name: "90 degrees apart on horizon",
			az1:  0, alt1: 0,
			az2: 90, alt2: 0,
			wantSep: 90,
			tol:     0.001,
		},
		{
			name: "opposite horizon points",
			az1:  0, alt1: 0,
			az2: 180, alt2: 0,
			wantSep: 180,
			tol:     0.001,
		},
		{
			name: "zenith to horizon",
			az1:  0, alt1: 90,
			az2: 215, alt2: 0,
			wantSep: 90,
			tol:     0.001,
		},
		{
			name: "zenith to nadir",
			az1:  0, alt1: 90,
			az2: 0, alt2: -90,
			wantSep: 180,
			tol:     0.001,
		},
		{
			name: "one degree along the horizon",
			az1:  120, alt1: 0,
			az2: 121, alt2: 0,
			wantSep: 1,
			tol:     0.001,
		},
		{
			name: "small separation at altitude",
			az1:  40, alt1: 60,
			az2: 42, alt2: 60,
			wantSep: 1, // azimuth arc shrinks by cos(alt)
			tol:     0.01,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AngularSeparation(tt.az1, tt.alt1, tt.az2, tt.alt2)
			if math.Abs(got-tt.wantSep) > tt.tol {
				t.Errorf("AngularSeparation() = %.4f°, want %.4f° ± %.3f",
					got, tt.wantSep, tt.tol)
			}

			// Symmetry
			rev := AngularSeparation(tt.az2, tt.alt2, tt.az1, tt.alt1)
			if math.Abs(got-rev) > 1e-9 {
				t.Errorf("separation not symmetric: %.6f vs %.6f", got, rev)
			}
		})
	}
}

func TestDirectionHelpers(t *testing.T) {
	d := Direction{AzDeg: 45, AltDeg: 30}
	if got := d.ZenithDeg(); math.Abs(got-60) > 1e-9 {
		t.Errorf("ZenithDeg() = %.2f, want 60", got)
	}
	if !d.AboveHorizon() {
		t.Error("AboveHorizon() = false for alt 30")
	}
	if (Direction{AzDeg: 0, AltDeg: -5}).AboveHorizon() {
		t.Error("AboveHorizon() = true for alt -5")
	}
}

func TestNormalizeAz(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{360, 0},
		{361, 1},
		{-90, 270},
		{725, 5},
	}
	for _, tt := range tests {
		if got := NormalizeAz(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("NormalizeAz(%.0f) = %.4f, want %.4f", tt.in, got, tt.want)
		}
	}
}
