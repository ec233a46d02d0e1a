package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/cryptobooking/booking-client/pkg/errors"
)

type tabRequest struct {
	Tab string `json:"tab" validate:"required,oneof=browse bookings list"`
}

type confirmRequest struct {
	Confirm bool `json:"confirm"`
}

func TestDecodeJSONBody(t *testing.T) {
	var dest tabRequest
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"tab":"bookings"}`))
	require.NoError(t, DecodeJSONBody(req, &dest))
	assert.Equal(t, "bookings", dest.Tab)
}

func TestDecodeJSONBodyValidationDetails(t *testing.T) {
	var dest tabRequest
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"tab":"admin"}`))
	err := DecodeJSONBody(req, &dest)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "must be one of browse bookings list", details["tab"])
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	var dest tabRequest
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"tab":"list","extra":1}`))
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(DecodeJSONBody(req, &dest)))
}

func TestDecodeOptionalJSONBody(t *testing.T) {
	var dest confirmRequest
	req := httptest.NewRequest(http.MethodDelete, "/", http.NoBody)
	require.NoError(t, DecodeOptionalJSONBody(req, &dest))
	assert.False(t, dest.Confirm)

	req = httptest.NewRequest(http.MethodDelete, "/", http.NoBody)
	assert.Error(t, DecodeJSONBody(req, &dest))
}

func TestParsePathID(t *testing.T) {
	rc := chi.NewRouteContext()
	rc.URLParams.Add("bookingId", "42")
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))

	id, err := ParsePathID(req, "bookingId")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	_, err = ParsePathID(req, "apartmentId")
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestParseQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?refresh=true&apartment_id=7&bad=-1", nil)

	refresh, err := ParseQueryBool(req, "refresh", false)
	require.NoError(t, err)
	assert.True(t, refresh)

	missing, err := ParseQueryBool(req, "other", false)
	require.NoError(t, err)
	assert.False(t, missing)

	id, err := ParseQueryID(req, "apartment_id")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), id)

	_, err = ParseQueryID(req, "bad")
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
	_, err = ParseQueryID(req, "absent")
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestSanitizeList(t *testing.T) {
	assert.Equal(t, []string{"a.png", "b.png"}, SanitizeList([]string{" a.png ", "", "  ", "b.png"}))
	long := "a" + strings.Repeat("é", 60)
	assert.Equal(t, long, SanitizeString("  "+long+" "))
}
