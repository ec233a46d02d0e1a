package enums

import "testing"

func TestBookingStatusFromIndex(t *testing.T) {
	want := []BookingStatus{
		BookingStatusBooked,
		BookingStatusCheckedIn,
		BookingStatusCheckedOut,
		BookingStatusCancelled,
		BookingStatusRefunded,
	}
	for i, expected := range want {
		got, err := BookingStatusFromIndex(uint8(i))
		if err != nil {
			t.Fatalf("index %d: unexpected error %v", i, err)
		}
		if got != expected {
			t.Fatalf("index %d: expected %s got %s", i, expected, got)
		}
	}
	if _, err := BookingStatusFromIndex(5); err == nil {
		t.Fatalf("expected out of range index to fail")
	}
}

func TestParseBookingStatus(t *testing.T) {
	status, err := ParseBookingStatus("CheckedIn")
	if err != nil || status != BookingStatusCheckedIn {
		t.Fatalf("unexpected parse result %q %v", status, err)
	}
	if _, err := ParseBookingStatus("checkedin"); err == nil {
		t.Fatalf("status parsing is case sensitive")
	}
	if BookingStatus("Pending").IsValid() {
		t.Fatalf("unknown status reported valid")
	}
}

func TestParseTab(t *testing.T) {
	for _, raw := range []string{"browse", "bookings", "list"} {
		tab, err := ParseTab(raw)
		if err != nil || !tab.IsValid() {
			t.Fatalf("tab %q should parse: %v", raw, err)
		}
	}
	if _, err := ParseTab("settings"); err == nil {
		t.Fatalf("unknown tab should fail")
	}
}
