package sensor

import "math"

// AngleTenths is a rotation in tenths of a degree, in [0, TenthsPerTurn).
type AngleTenths int16

// TenthsPerTurn is one full rotation in AngleTenths.
const TenthsPerTurn = 3600

// Angle converts an in-plane field vector to a rotation angle.
//
// Y is mirrored when X is negative before taking atan2, so the result is
// symmetric about the Y axis. (1,0) is 0, (0,1) is 900, (-1,0) is 1800 and
// (0,-1) is 2700. The value is rounded to the nearest tenth; a full turn
// folds back to 0.
func Angle(x, y int16) AngleTenths {
	sign := int32(1)
	if x < 0 {
		sign = -1
	}
	theta := math.Atan2(float64(int32(y)*sign), float64(x))
	if theta < 0 {
		theta += 2 * math.Pi
	}
	t := int32(math.Round(theta * TenthsPerTurn / (2 * math.Pi)))
	if t >= TenthsPerTurn {
		t -= TenthsPerTurn
	}
	return AngleTenths(t)
}
