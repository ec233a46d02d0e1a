package instance

import "github.com/cryptobooking/booking-client/pkg/env"

// GetID returns the process instance identifier used in startup logs.
func GetID() string {
	return env.FirstOf("local", "DYNO", "HOSTNAME")
}
