package chain

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/cryptobooking/booking-client/pkg/enums"
	"github.com/cryptobooking/booking-client/pkg/models"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// ErrMalformedOutput reports contract output that does not match the
// expected record shape.
var ErrMalformedOutput = errors.New("malformed contract output")

// rawApartment mirrors the getAllApartments tuple; field names follow the
// abi package's camel-casing of the component names.
type rawApartment struct {
	Id            *big.Int
	Owner         common.Address
	Name          string
	Location      string
	Description   string
	PricePerNight *big.Int
	ImageUrls     []string
}

type rawBooking struct {
	BookingId    *big.Int
	ApartmentId  *big.Int
	Guest        common.Address
	CheckInDate  *big.Int
	CheckOutDate *big.Int
	TotalPrice   *big.Int
	Status       uint8
	CreatedAt    *big.Int
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedOutput, fmt.Sprintf(format, args...))
}

// convert runs abi.ConvertType and turns its panic on shape mismatch into
// ErrMalformedOutput.
func convert[T any](in any) (out T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = malformed("unexpected shape %T: %v", in, r)
		}
	}()
	if in == nil {
		return out, malformed("missing value")
	}
	converted, ok := abi.ConvertType(in, new(T)).(*T)
	if !ok || converted == nil {
		return out, malformed("unexpected shape %T", in)
	}
	return *converted, nil
}

func single(values []any, method string) (any, error) {
	if len(values) != 1 {
		return nil, malformed("%s returned %d values, want 1", method, len(values))
	}
	return values[0], nil
}

func decodeApartments(values []any) ([]models.Apartment, error) {
	value, err := single(values, MethodGetAllApartments)
	if err != nil {
		return nil, err
	}
	raws, err := convert[[]rawApartment](value)
	if err != nil {
		return nil, err
	}
	out := make([]models.Apartment, 0, len(raws))
	for i, raw := range raws {
		apt, err := raw.toModel()
		if err != nil {
			return nil, fmt.Errorf("apartment %d: %w", i, err)
		}
		out = append(out, apt)
	}
	return out, nil
}

func (r rawApartment) toModel() (models.Apartment, error) {
	id, err := toUint64("id", r.Id)
	if err != nil {
		return models.Apartment{}, err
	}
	if r.Owner == (common.Address{}) {
		return models.Apartment{}, malformed("apartment %d has zero owner", id)
	}
	if r.PricePerNight == nil || r.PricePerNight.Sign() < 0 {
		return models.Apartment{}, malformed("apartment %d has invalid price", id)
	}
	images := make([]string, len(r.ImageUrls))
	copy(images, r.ImageUrls)
	return models.Apartment{
		ID:            id,
		Owner:         r.Owner.Hex(),
		Name:          r.Name,
		Location:      r.Location,
		Description:   r.Description,
		PricePerNight: new(big.Int).Set(r.PricePerNight),
		ImageURLs:     images,
	}, nil
}

func decodeBookingIDs(values []any) ([]uint64, error) {
	value, err := single(values, MethodGetUserBookings)
	if err != nil {
		return nil, err
	}
	raws, err := convert[[]*big.Int](value)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(raws))
	for _, raw := range raws {
		id, err := toUint64("booking id", raw)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func decodeBooking(values []any) (models.Booking, error) {
	value, err := single(values, MethodGetBooking)
	if err != nil {
		return models.Booking{}, err
	}
	raw, err := convert[rawBooking](value)
	if err != nil {
		return models.Booking{}, err
	}
	return raw.toModel()
}

func (r rawBooking) toModel() (models.Booking, error) {
	id, err := toUint64("booking id", r.BookingId)
	if err != nil {
		return models.Booking{}, err
	}
	apartmentID, err := toUint64("apartment id", r.ApartmentId)
	if err != nil {
		return models.Booking{}, err
	}
	if r.Guest == (common.Address{}) {
		return models.Booking{}, malformed("booking %d has zero guest", id)
	}
	checkIn, err := toInt64("check-in", r.CheckInDate)
	if err != nil {
		return models.Booking{}, err
	}
	checkOut, err := toInt64("check-out", r.CheckOutDate)
	if err != nil {
		return models.Booking{}, err
	}
	createdAt, err := toInt64("created at", r.CreatedAt)
	if err != nil {
		return models.Booking{}, err
	}
	if r.TotalPrice == nil || r.TotalPrice.Sign() < 0 {
		return models.Booking{}, malformed("booking %d has invalid total price", id)
	}
	status, err := enums.BookingStatusFromIndex(r.Status)
	if err != nil {
		return models.Booking{}, malformed("booking %d: %v", id, err)
	}
	return models.Booking{
		ID:          id,
		ApartmentID: apartmentID,
		Guest:       r.Guest.Hex(),
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		TotalPrice:  new(big.Int).Set(r.TotalPrice),
		Status:      status,
		CreatedAt:   createdAt,
	}, nil
}

func toUint64(field string, v *big.Int) (uint64, error) {
	if v == nil || v.Sign() < 0 || !v.IsUint64() {
		return 0, malformed("%s %v does not fit uint64", field, v)
	}
	return v.Uint64(), nil
}

func toInt64(field string, v *big.Int) (int64, error) {
	if v == nil || v.Sign() < 0 || !v.IsInt64() {
		return 0, malformed("%s %v does not fit int64", field, v)
	}
	return v.Int64(), nil
}
