package enums

// BookingAction is a state-changing request a guest may make on a reservation.
type BookingAction string

const (
	BookingActionCheckIn  BookingAction = "check_in"
	BookingActionCheckOut BookingAction = "check_out"
	BookingActionCancel   BookingAction = "cancel"
)

func (a BookingAction) String() string {
	return string(a)
}
