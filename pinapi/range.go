package pinapi

import (
	"strconv"

	"golang.org/x/exp/constraints"
)

// inRange reports lo <= v && v <= hi. Adapted from the teacher repo's
// x/mathx.Between, narrowed to the one shape pinapi needs: bounding a pin
// number to [MinPin, MaxPin].
func inRange[T constraints.Ordered](v, lo, hi T) bool {
	return v >= lo && v <= hi
}

// pinInRange reports whether pin is a valid user-addressable pin
// (spec.md §3: MIN_PIN=2, MAX_PIN=27).
func pinInRange(pin uint8) bool {
	return inRange(pin, uint8(MinPin), uint8(MaxPin))
}

func pinDecimal(pin uint8) string {
	return strconv.Itoa(int(pin))
}
