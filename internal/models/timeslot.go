package models

// DateLayout is the calendar-date format used on the wire.
const DateLayout = "2006-01-02"

// TimeSlots are the bookable appointment windows, in display order.
// The labels must match the backend byte for byte.
var TimeSlots = []string{
	"09:00 AM - 10:00 AM",
	"11:00 AM - 12:00 AM",
	"02:00 PM - 03:00 PM",
	"04:00 PM - 05:00 PM",
	"07:00 PM - 08:00 PM",
}

// IsTimeSlot reports whether s is one of TimeSlots.
func IsTimeSlot(s string) bool {
	return SlotIndex(s) < len(TimeSlots)
}

// SlotIndex returns the position of s in TimeSlots, or len(TimeSlots) for an
// unknown label so that it sorts last.
func SlotIndex(s string) int {
	for i, slot := range TimeSlots {
		if slot == s {
			return i
		}
	}
	return len(TimeSlots)
}
