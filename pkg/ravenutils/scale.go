package ravenutils

// DecodeScaled applies the device's fixed point formatting.
// A zero multiplier or divisor is treated as 1.
func DecodeScaled(raw, multiplier, divisor int64) float64 {
	return float64(raw) * float64(GuardZero(multiplier)) / float64(GuardZero(divisor))
}

func DecodeScaledUnsigned(raw uint64, multiplier, divisor int64) float64 {
	return float64(raw) * float64(GuardZero(multiplier)) / float64(GuardZero(divisor))
}

// GuardZero returns 1 for 0, everything else unchanged.
func GuardZero(v int64) int64 {
	if v == 0 {
		return 1
	}
	return v
}
