// services/hal/internal/halcore/types_test.go

package halcore

import "testing"

func TestPullToString(t *testing.T) {
	if PullToString(PullUp) != "up" ||
		PullToString(PullDown) != "down" ||
		PullToString(PullNone) != "none" {
		t.Fatal("PullToString mapping incorrect")
	}
}
