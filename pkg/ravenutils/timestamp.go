package ravenutils

import "time"

// Seconds between the Unix epoch and the device epoch (2000-01-01).
// This is the value the device firmware tooling has always used; it is 5
// hours short of midnight UTC and is kept for compatibility.
const DeviceEpochOffset int64 = 946645200

const timestampLayout = "2006-01-02T15:04:05"

// DecodeTimestamp turns a device timestamp (seconds since the device epoch)
// into a time.Time.
func DecodeTimestamp(offset int64) time.Time {
	return time.Unix(DeviceEpochOffset+offset, 0)
}

// FormatTimestamp renders the local wall clock time with a trailing "Z".
// The "Z" is appended as-is, there is no conversion to UTC.
func FormatTimestamp(t time.Time) string {
	return t.Local().Format(timestampLayout) + "Z"
}

// DecodeHexTimestamp is the common path for TimeStamp fields.
func DecodeHexTimestamp(s string) string {
	return FormatTimestamp(DecodeTimestamp(HexToInt(s)))
}
