package ravenutils

import (
	"strconv"
	"strings"
)

// Returned by HexToMac when the input can't be split into 8 octets.
const MacSentinel = "00:00:00:00:00:00:00:00"

// HexToInt parses a device hex field such as "0x0000001A".
// Anything unparseable becomes 0.
func HexToInt(s string) int64 {
	s = strings.TrimSpace(s)
	negative := false
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		negative = s[0] == '-'
		s = s[1:]
	}
	value, err := strconv.ParseInt(trimHexPrefix(s), 16, 64)
	if err != nil {
		return 0
	}
	if negative {
		return -value
	}
	return value
}

// HexToUint is HexToInt for fields that are never signed (summations).
func HexToUint(s string) uint64 {
	value, err := strconv.ParseUint(trimHexPrefix(strings.TrimSpace(s)), 16, 64)
	if err != nil {
		return 0
	}
	return value
}

// HexToSigned32 reads the field as a 32 bit two's complement value.
// Demand goes negative when a solar installation is feeding back.
func HexToSigned32(s string) int64 {
	value := HexToInt(s)
	if value&0x80000000 != 0 {
		value -= 0x100000000
	}
	return value
}

// HexToMac converts "0xd8d5b90000001234" into "d8:d5:b9:00:00:00:12:34".
func HexToMac(s string) string {
	if len(s) < 18 {
		return MacSentinel
	}
	digits := s[2:18]
	octets := make([]string, 0, 8)
	for i := 0; i < len(digits); i += 2 {
		octet := digits[i : i+2]
		if _, err := strconv.ParseUint(octet, 16, 8); err != nil {
			return MacSentinel
		}
		octets = append(octets, octet)
	}
	return strings.Join(octets, ":")
}

func trimHexPrefix(s string) string {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return s[2:]
	}
	return s
}
