package enums

import "fmt"

// Tab names one of the three mutually exclusive shell views.
type Tab string

const (
	TabBrowse   Tab = "browse"
	TabBookings Tab = "bookings"
	TabList     Tab = "list"
)

var validTabs = []Tab{TabBrowse, TabBookings, TabList}

func (t Tab) String() string {
	return string(t)
}

func (t Tab) IsValid() bool {
	for _, candidate := range validTabs {
		if candidate == t {
			return true
		}
	}
	return false
}

func ParseTab(value string) (Tab, error) {
	for _, candidate := range validTabs {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid tab %q", value)
}
