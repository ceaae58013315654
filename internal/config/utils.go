package config

import (
	"fmt"
	"math/bits"
)

type ordered interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~float32 | ~float64
}

// CheckNotZero checks that the value is not zero.
// If it is, an anomaly is added to the anomaly collector and the value is set to the fallback.
func CheckNotZero[T ordered](ac *AnomalyCollector, field string, actual *T, fallback T) {
	val := *actual
	if val == 0 {
		ac.add(field, "cannot be zero", val, fallback)
		*actual = fallback
	}
}

// CheckNotNegative checks that the value is not negative.
// If it is, an anomaly is added to the anomaly collector and the value is set to the fallback.
func CheckNotNegative[T ordered](ac *AnomalyCollector, field string, actual *T, fallback T) {
	val := *actual
	if val < 0 {
		ac.add(field, "cannot be negative", val, fallback)
		*actual = fallback
	}
}

// CheckInRange checks that the value lies between low and high included.
// If it does not, an anomaly is added to the anomaly collector and the value is set to the fallback.
func CheckInRange[T ordered](ac *AnomalyCollector, field string, actual *T, low, high, fallback T) {
	val := *actual
	if val < low || val > high {
		ac.add(field, fmt.Sprintf("must be between %v and %v", low, high), val, fallback)
		*actual = fallback
	}
}

// CheckPowerOfTwo checks that the value is a positive power of two.
// If it is not positive, an anomaly is added to the anomaly collector and the
// value is set to the fallback; otherwise it is rounded up to the next power
// of two.
func CheckPowerOfTwo(ac *AnomalyCollector, field string, actual *int, fallback int) {
	val := *actual

	if val <= 0 {
		ac.add(field, "must be a positive power of two", val, fallback)
		*actual = fallback
		return
	}

	if val&(val-1) != 0 {
		rounded := 1 << bits.Len(uint(val))
		ac.add(field, "must be a power of two", val, rounded)
		*actual = rounded
	}
}
