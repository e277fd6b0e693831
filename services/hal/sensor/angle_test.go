package sensor

import (
	"math/rand"
	"testing"
)

func TestAngleCardinalsAndDiagonals(t *testing.T) {
	cases := []struct {
		x, y int16
		want AngleTenths
	}{
		{1, 0, 0},
		{0, 1, 900},
		{-1, 0, 1800},
		{0, -1, 2700},
		{0, 0, 0},
		{1, 1, 450},
		{1, -1, 3150},
		// Negative X mirrors Y.
		{-1, 1, 2250},
		{-1, -1, 1350},
		{1024, 512, 266},
	}
	for _, c := range cases {
		if got := Angle(c.x, c.y); got != c.want {
			t.Fatalf("Angle(%d,%d) = %d, want %d", c.x, c.y, got, c.want)
		}
	}
}

func TestAngleFoldsFullTurnToZero(t *testing.T) {
	// Just below a full turn rounds up to 3600, which must read as 0.
	if got := Angle(8191, -1); got != 0 {
		t.Fatalf("Angle(8191,-1) = %d, want 0", got)
	}
}

func TestAngleAlwaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	extremes := []int16{-8192, -8191, -1, 0, 1, 8191}
	for _, x := range extremes {
		for _, y := range extremes {
			if a := Angle(x, y); a < 0 || a >= TenthsPerTurn {
				t.Fatalf("Angle(%d,%d) = %d out of range", x, y, a)
			}
		}
	}
	for i := 0; i < 10000; i++ {
		x := int16(rng.Intn(1<<14) - 1<<13)
		y := int16(rng.Intn(1<<14) - 1<<13)
		if a := Angle(x, y); a < 0 || a >= TenthsPerTurn {
			t.Fatalf("Angle(%d,%d) = %d out of range", x, y, a)
		}
	}
}
