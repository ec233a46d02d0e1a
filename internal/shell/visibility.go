package shell

import (
	"time"

	"github.com/cryptobooking/booking-client/pkg/enums"
	"github.com/cryptobooking/booking-client/pkg/models"
)

// AvailableActions returns the actions offered for b at now. Status is
// taken from the contract as-is; no transition is inferred locally.
func AvailableActions(b models.Booking, now time.Time) []enums.BookingAction {
	current := now.Unix()
	switch b.Status {
	case enums.BookingStatusBooked:
		switch {
		case current < b.CheckIn:
			return []enums.BookingAction{enums.BookingActionCancel}
		case current <= b.CheckOut:
			return []enums.BookingAction{enums.BookingActionCheckIn}
		}
	case enums.BookingStatusCheckedIn:
		return []enums.BookingAction{enums.BookingActionCheckOut}
	}
	return nil
}

// Offers reports whether action is currently offered for b.
func Offers(b models.Booking, action enums.BookingAction, now time.Time) bool {
	for _, candidate := range AvailableActions(b, now) {
		if candidate == action {
			return true
		}
	}
	return false
}

// StatusStyle is how a reservation status is rendered.
type StatusStyle struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

var statusStyles = map[enums.BookingStatus]StatusStyle{
	enums.BookingStatusBooked:     {Label: "Booked", Icon: "clock", Color: "blue"},
	enums.BookingStatusCheckedIn:  {Label: "CheckedIn", Icon: "check-circle", Color: "green"},
	enums.BookingStatusCheckedOut: {Label: "CheckedOut", Icon: "check-circle", Color: "gray"},
	enums.BookingStatusCancelled:  {Label: "Cancelled", Icon: "x-circle", Color: "red"},
}

// StyleFor returns the rendering of status; unknown statuses fall back to
// a gray clock.
func StyleFor(status enums.BookingStatus) StatusStyle {
	if style, ok := statusStyles[status]; ok {
		return style
	}
	return StatusStyle{Label: status.String(), Icon: "clock", Color: "gray"}
}
