// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import "time"

// WireTimeLayout is the timestamp layout used in every response body,
// equivalent to strftime "%d.%m.%Y, %H:%M:%S".
const WireTimeLayout = "02.01.2006, 15:04:05"

// FormatWireTime renders t in UTC using WireTimeLayout.
//
// Example:
//
//	utils.FormatWireTime(time.Date(2024, 3, 9, 18, 5, 7, 0, time.UTC))
//	// "09.03.2024, 18:05:07"
func FormatWireTime(t time.Time) string {
	return t.UTC().Format(WireTimeLayout)
}
