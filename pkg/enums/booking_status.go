package enums

import "fmt"

// BookingStatus mirrors the reservation status enum of the rental contract.
type BookingStatus string

const (
	BookingStatusBooked     BookingStatus = "Booked"
	BookingStatusCheckedIn  BookingStatus = "CheckedIn"
	BookingStatusCheckedOut BookingStatus = "CheckedOut"
	BookingStatusCancelled  BookingStatus = "Cancelled"
	BookingStatusRefunded   BookingStatus = "Refunded"
)

// validBookingStatuses is ordered by the contract's enum index.
var validBookingStatuses = []BookingStatus{
	BookingStatusBooked,
	BookingStatusCheckedIn,
	BookingStatusCheckedOut,
	BookingStatusCancelled,
	BookingStatusRefunded,
}

// String implements fmt.Stringer.
func (s BookingStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is known.
func (s BookingStatus) IsValid() bool {
	for _, candidate := range validBookingStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseBookingStatus converts raw input into a BookingStatus.
func ParseBookingStatus(value string) (BookingStatus, error) {
	for _, candidate := range validBookingStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid booking status %q", value)
}

// BookingStatusFromIndex maps the contract's uint8 enum value.
func BookingStatusFromIndex(index uint8) (BookingStatus, error) {
	if int(index) >= len(validBookingStatuses) {
		return "", fmt.Errorf("booking status index %d out of range", index)
	}
	return validBookingStatuses[index], nil
}
