package merge

import "math"

// Num is the set of coordinate element types the engine works with. Integer
// types compare exactly; floating types compare within a tolerance.
type Num interface {
	int | int32 | int64 | float32 | float64
}

// isIntegral reports whether N is an integer element type.
func isIntegral[N Num]() bool {
	// Integer division truncates; float division does not.
	return N(1)/N(2) == N(0)
}

// epsilon returns the comparison tolerance for N: the machine epsilon of the
// element type for floats, zero for integers.
func epsilon[N Num]() float64 {
	var zero N
	switch any(zero).(type) {
	case float32:
		return float64(math.Nextafter32(1, 2) - 1)
	case float64:
		return math.Nextafter(1, 2) - 1
	default:
		return 0
	}
}

// EQ reports whether a equals b: exact for integer element types, within the
// machine epsilon of the element type for floats.
func EQ[N Num](a, b N) bool {
	if isIntegral[N]() {
		return a == b
	}
	return math.Abs(float64(a)-float64(b)) <= epsilon[N]()
}

// NE reports whether a and b differ under EQ's tolerance.
func NE[N Num](a, b N) bool {
	return !EQ(a, b)
}

// GE reports a >= b under EQ's tolerance.
func GE[N Num](a, b N) bool {
	if isIntegral[N]() {
		return a >= b
	}
	return a > b || EQ(a, b)
}

// LE reports a <= b under EQ's tolerance.
func LE[N Num](a, b N) bool {
	if isIntegral[N]() {
		return a <= b
	}
	return a < b || EQ(a, b)
}

// GT reports a > b under EQ's tolerance.
func GT[N Num](a, b N) bool {
	if isIntegral[N]() {
		return a > b
	}
	return float64(a)-float64(b) > epsilon[N]()
}

// LT reports a < b under EQ's tolerance.
func LT[N Num](a, b N) bool {
	if isIntegral[N]() {
		return a < b
	}
	return float64(b)-float64(a) > epsilon[N]()
}

// IsPositive reports whether n is greater than zero.
func IsPositive[N Num](n N) bool {
	return n > 0
}

// IsNegative reports whether n is less than zero. For floats this is a sign
// test, so negative zero counts as negative.
func IsNegative[N Num](n N) bool {
	if isIntegral[N]() {
		return n < 0
	}
	return math.Signbit(float64(n))
}

// SafeInv returns 1/x, except when x is within tolerance of zero, where it
// returns a huge signed value instead of infinity.
func SafeInv[N Num](x N) float64 {
	if EQ(x, N(0)) {
		eps := math.Nextafter(1, 2) - 1
		return 1 / math.Copysign(eps, float64(x))
	}
	return 1 / float64(x)
}

// maxValue returns the largest representable value of N.
func maxValue[N Num]() N {
	var zero N
	var v any
	switch any(zero).(type) {
	case int:
		v = int(math.MaxInt)
	case int32:
		v = int32(math.MaxInt32)
	case int64:
		v = int64(math.MaxInt64)
	case float32:
		v = float32(math.MaxFloat32)
	default:
		v = float64(math.MaxFloat64)
	}
	return v.(N)
}

// minValue returns the smallest representable value of N.
func minValue[N Num]() N {
	var zero N
	var v any
	switch any(zero).(type) {
	case int:
		v = int(math.MinInt)
	case int32:
		v = int32(math.MinInt32)
	case int64:
		v = int64(math.MinInt64)
	case float32:
		v = float32(-math.MaxFloat32)
	default:
		v = float64(-math.MaxFloat64)
	}
	return v.(N)
}

// roundTo converts a float64 coordinate to N, rounding to the nearest value
// for integer element types.
func roundTo[N Num](v float64) N {
	if isIntegral[N]() {
		return N(math.Round(v))
	}
	return N(v)
}
