package chain

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Contract method names.
const (
	MethodGetAllApartments     = "getAllApartments"
	MethodGetUserBookings      = "getUserBookings"
	MethodGetBooking           = "getBooking"
	MethodListApartment        = "listApartment"
	MethodUpdateApartmentPrice = "updateApartmentPrice"
	MethodDeleteApartment      = "deleteApartment"
	MethodBookApartment        = "bookApartment"
	MethodCheckIn              = "checkIn"
	MethodCheckOut             = "checkOut"
	MethodCancelBooking        = "cancelBooking"
)

// RentalABI is the subset of the rental contract interface used by the client.
const RentalABI = `[
  {"type":"function","name":"getAllApartments","stateMutability":"view","inputs":[],
   "outputs":[{"name":"","type":"tuple[]","components":[
     {"name":"id","type":"uint256"},
     {"name":"owner","type":"address"},
     {"name":"name","type":"string"},
     {"name":"location","type":"string"},
     {"name":"description","type":"string"},
     {"name":"pricePerNight","type":"uint256"},
     {"name":"imageUrls","type":"string[]"}]}]},
  {"type":"function","name":"getUserBookings","stateMutability":"view",
   "inputs":[{"name":"user","type":"address"}],
   "outputs":[{"name":"","type":"uint256[]"}]},
  {"type":"function","name":"getBooking","stateMutability":"view",
   "inputs":[{"name":"bookingId","type":"uint256"}],
   "outputs":[{"name":"","type":"tuple","components":[
     {"name":"bookingId","type":"uint256"},
     {"name":"apartmentId","type":"uint256"},
     {"name":"guest","type":"address"},
     {"name":"checkInDate","type":"uint256"},
     {"name":"checkOutDate","type":"uint256"},
     {"name":"totalPrice","type":"uint256"},
     {"name":"status","type":"uint8"},
     {"name":"createdAt","type":"uint256"}]}]},
  {"type":"function","name":"listApartment","stateMutability":"nonpayable",
   "inputs":[{"name":"name","type":"string"},{"name":"location","type":"string"},
     {"name":"description","type":"string"},{"name":"pricePerNight","type":"uint256"},
     {"name":"imageUrls","type":"string[]"}],"outputs":[]},
  {"type":"function","name":"updateApartmentPrice","stateMutability":"nonpayable",
   "inputs":[{"name":"apartmentId","type":"uint256"},{"name":"newPrice","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"deleteApartment","stateMutability":"nonpayable",
   "inputs":[{"name":"apartmentId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"bookApartment","stateMutability":"payable",
   "inputs":[{"name":"apartmentId","type":"uint256"},{"name":"checkInDate","type":"uint256"},
     {"name":"checkOutDate","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"checkIn","stateMutability":"nonpayable",
   "inputs":[{"name":"bookingId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"checkOut","stateMutability":"nonpayable",
   "inputs":[{"name":"bookingId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"cancelBooking","stateMutability":"nonpayable",
   "inputs":[{"name":"bookingId","type":"uint256"}],"outputs":[]}
]`

var (
	parsedOnce sync.Once
	parsedABI  abi.ABI
	parsedErr  error
)

// ParsedABI returns the parsed RentalABI.
func ParsedABI() (abi.ABI, error) {
	parsedOnce.Do(func() {
		parsedABI, parsedErr = abi.JSON(strings.NewReader(RentalABI))
		if parsedErr != nil {
			parsedErr = fmt.Errorf("parse rental abi: %w", parsedErr)
		}
	})
	return parsedABI, parsedErr
}
