package enums

// Modal is the dialog layered over the active tab.
type Modal string

const (
	ModalNone    Modal = "none"
	ModalListing Modal = "listing"
	ModalBooking Modal = "booking"
)

func (m Modal) String() string {
	return string(m)
}
