package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptobooking/booking-client/api/middleware"
	"github.com/cryptobooking/booking-client/internal/actions"
	"github.com/cryptobooking/booking-client/internal/session"
	"github.com/cryptobooking/booking-client/internal/session/sessiontest"
	"github.com/cryptobooking/booking-client/internal/shell"
	"github.com/cryptobooking/booking-client/internal/views"
	"github.com/cryptobooking/booking-client/pkg/chain"
	"github.com/cryptobooking/booking-client/pkg/config"
	"github.com/cryptobooking/booking-client/pkg/contracttime"
	"github.com/cryptobooking/booking-client/pkg/enums"
	pkgerrors "github.com/cryptobooking/booking-client/pkg/errors"
	"github.com/cryptobooking/booking-client/pkg/models"
	"github.com/cryptobooking/booking-client/pkg/types"
	"github.com/cryptobooking/booking-client/pkg/wallet"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

type envelope[T any] struct {
	Data   T      `json:"data"`
	Notice string `json:"notice"`
}

type harness struct {
	sess     *session.Session
	contract *sessiontest.Contract
	views    *views.Service
	actions  *actions.Service
}

func day(s string) int64 {
	ts, err := contracttime.ToContractTimestamp(s)
	if err != nil {
		panic(err)
	}
	return ts
}

func newHarness(t *testing.T, connect bool) harness {
	t.Helper()
	logg := sessiontest.Logger()
	viewSvc, err := views.NewService(views.ServiceParams{Logger: logg, BookingConcurrency: 2})
	require.NoError(t, err)
	actionSvc, err := actions.NewService(actions.ServiceParams{
		Views:    viewSvc,
		InFlight: actions.NewMemoryInFlight(),
		Logger:   logg,
		Clock:    clock,
	})
	require.NoError(t, err)

	contract := &sessiontest.Contract{}
	contract.SetApartments([]models.Apartment{
		{ID: 1, Owner: sessiontest.Account.Hex(), Name: "Loft", Location: "Lisbon", PricePerNight: big.NewInt(1_000)},
		{ID: 2, Owner: "0x1111111111111111111111111111111111111111", Name: "Cabin", Location: "Oslo", PricePerNight: big.NewInt(250)},
	}, nil)
	contract.SetBookings([]models.Booking{
		{ID: 10, ApartmentID: 2, Guest: sessiontest.Account.Hex(), Status: enums.BookingStatusBooked, CheckIn: day("2025-03-12"), CheckOut: day("2025-03-14"), TotalPrice: big.NewInt(500)},
	}, nil)

	sess := session.New(uuid.NewString(), fixedNow)
	if connect {
		sessiontest.Connect(t, sess, contract)
		require.NoError(t, viewSvc.Refresh(context.Background(), sess, views.KindApartments, views.KindBookings))
	}
	return harness{sess: sess, contract: contract, views: viewSvc, actions: actionSvc}
}

func serve(t *testing.T, handler http.Handler, sess *session.Session, method, target, body string, params map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader = http.NoBody
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rc := chi.NewRouteContext()
	for k, v := range params {
		rc.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rc)
	if sess != nil {
		ctx = middleware.WithSession(ctx, sess)
	}
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req.WithContext(ctx))
	return resp
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var out envelope[T]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	return out
}

func errorCode(t *testing.T, resp *httptest.ResponseRecorder) pkgerrors.Code {
	t.Helper()
	var body types.ErrorEnvelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	return pkgerrors.Code(body.Error.Code)
}

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}

	resp := serve(t, HealthReady(cfg, nil, nil), nil, http.MethodGet, "/health/ready", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "dev", resp.Header().Get(envHeader))

	resp = serve(t, HealthReady(cfg, failingPinger{}, nil), nil, http.MethodGet, "/health/ready", "", nil)
	require.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.Equal(t, pkgerrors.CodeDependency, errorCode(t, resp))
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("dial tcp: connection refused") }

func TestSessionCreateAndDelete(t *testing.T) {
	manager := session.NewManager(clock)

	resp := serve(t, SessionCreate(manager, clock, nil), nil, http.MethodPost, "/api/v1/sessions", "", nil)
	require.Equal(t, http.StatusCreated, resp.Code)
	body := decode[sessionResponse](t, resp)
	require.NotEmpty(t, body.Data.SessionID)
	assert.Equal(t, body.Data.SessionID, resp.Header().Get(middleware.SessionHeader))
	assert.False(t, body.Data.State.Header.Connected)
	assert.Equal(t, enums.TabBrowse, body.Data.State.Tab)

	sess, err := manager.Get(body.Data.SessionID)
	require.NoError(t, err)

	resp = serve(t, SessionDelete(manager, nil), sess, http.MethodDelete, "/api/v1/sessions/current", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 0, manager.Len())

	resp = serve(t, SessionDelete(manager, nil), sess, http.MethodDelete, "/api/v1/sessions/current", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestHandlersRequireSessionContext(t *testing.T) {
	resp := serve(t, ShellGet(clock, nil), nil, http.MethodGet, "/api/v1/shell", "", nil)
	require.Equal(t, http.StatusPreconditionFailed, resp.Code)
	assert.Equal(t, pkgerrors.CodePrecondition, errorCode(t, resp))
}

func TestWalletConnect(t *testing.T) {
	h := newHarness(t, false)
	provider := &sessiontest.Provider{Accounts: []common.Address{sessiontest.Account}}
	gw, err := session.NewGateway(session.GatewayParams{
		Detector: provider.Detector(),
		Binder: func(chain.Backend, *bind.TransactOpts) (session.Contract, error) {
			return h.contract, nil
		},
		Logger: sessiontest.Logger(),
	})
	require.NoError(t, err)

	resp := serve(t, WalletConnect(gw, h.views, clock, nil), h.sess, http.MethodPost, "/api/v1/wallet/connect", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	body := decode[shell.State](t, resp)
	assert.Equal(t, "Connected to: "+models.ShortAddress(sessiontest.Account.Hex()), body.Notice)
	assert.True(t, body.Data.Header.Connected)
	require.NotNil(t, body.Data.Browse)
	assert.Len(t, body.Data.Browse.Items, 2)
	assert.Equal(t, 1, h.contract.CallsTo(chain.MethodGetAllApartments))

	resp = serve(t, WalletDisconnect(gw, clock, nil), h.sess, http.MethodPost, "/api/v1/wallet/disconnect", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	body = decode[shell.State](t, resp)
	assert.Equal(t, session.NoticeDisconnected, body.Notice)
	assert.False(t, body.Data.Header.Connected)
	assert.Empty(t, body.Data.Browse.Items)
}

func TestWalletConnectWithoutProvider(t *testing.T) {
	h := newHarness(t, false)
	detector := wallet.DetectorFunc(func(context.Context) (wallet.Provider, error) {
		return nil, wallet.ErrProviderNotDetected
	})
	gw, err := session.NewGateway(session.GatewayParams{
		Detector: detector,
		Binder: func(chain.Backend, *bind.TransactOpts) (session.Contract, error) {
			return h.contract, nil
		},
		Logger: sessiontest.Logger(),
	})
	require.NoError(t, err)

	resp := serve(t, WalletConnect(gw, h.views, clock, nil), h.sess, http.MethodPost, "/api/v1/wallet/connect", "", nil)
	require.Equal(t, http.StatusPreconditionFailed, resp.Code)
	var body types.ErrorEnvelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, session.NoticeProviderMissing, body.Error.Message)
	assert.Empty(t, h.contract.Calls())
}

func TestWalletConnectFailureReturnsNotice(t *testing.T) {
	h := newHarness(t, false)
	provider := &sessiontest.Provider{AccountsErr: errors.New("user rejected the request")}
	gw, err := session.NewGateway(session.GatewayParams{
		Detector: provider.Detector(),
		Binder: func(chain.Backend, *bind.TransactOpts) (session.Contract, error) {
			return h.contract, nil
		},
		Logger: sessiontest.Logger(),
	})
	require.NoError(t, err)

	resp := serve(t, WalletConnect(gw, h.views, clock, nil), h.sess, http.MethodPost, "/api/v1/wallet/connect", "", nil)
	var body types.ErrorEnvelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.True(t, strings.HasPrefix(body.Notice, session.NoticeConnectFailed+": "), body.Notice)
	assert.False(t, h.sess.Connected())
	assert.True(t, provider.Closed())
}

func TestShellSetTab(t *testing.T) {
	h := newHarness(t, true)
	before := h.contract.CallsTo(chain.MethodGetUserBookings)

	resp := serve(t, ShellSetTab(h.views, clock, nil), h.sess, http.MethodPut, "/api/v1/shell/tab", `{"tab":"bookings"}`, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	body := decode[shell.State](t, resp)
	assert.Equal(t, enums.TabBookings, body.Data.Tab)
	require.NotNil(t, body.Data.Bookings)
	require.Len(t, body.Data.Bookings.Items, 1)
	assert.Equal(t, "Cabin", body.Data.Bookings.Items[0].ApartmentName)
	assert.Equal(t, []enums.BookingAction{enums.BookingActionCancel}, body.Data.Bookings.Items[0].Actions)
	assert.Equal(t, before+1, h.contract.CallsTo(chain.MethodGetUserBookings))

	resp = serve(t, ShellSetTab(h.views, clock, nil), h.sess, http.MethodPut, "/api/v1/shell/tab", `{"tab":"admin"}`, nil)
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, enums.TabBookings, h.sess.Tab())
}

func TestShellModals(t *testing.T) {
	h := newHarness(t, true)

	resp := serve(t, ShellOpenBookingModal(clock, nil), h.sess, http.MethodPost, "/api/v1/shell/modals/booking", `{"apartment_id":99}`, nil)
	require.Equal(t, http.StatusNotFound, resp.Code)

	resp = serve(t, ShellOpenBookingModal(clock, nil), h.sess, http.MethodPost, "/api/v1/shell/modals/booking", `{"apartment_id":2}`, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	body := decode[shell.State](t, resp)
	assert.Equal(t, enums.ModalBooking, body.Data.Modal.Kind)
	require.NotNil(t, body.Data.Modal.Apartment)
	assert.Equal(t, "Cabin", body.Data.Modal.Apartment.Name)
	assert.Equal(t, "2025-03-10", body.Data.Modal.MinCheckIn)

	resp = serve(t, ShellCloseModal(clock, nil), h.sess, http.MethodDelete, "/api/v1/shell/modals", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, enums.ModalNone, decode[shell.State](t, resp).Data.Modal.Kind)

	resp = serve(t, ShellOpenListingModal(clock, nil), h.sess, http.MethodPost, "/api/v1/shell/modals/listing", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, enums.ModalListing, decode[shell.State](t, resp).Data.Modal.Kind)
}

func TestShellOpenListingModalRequiresConnection(t *testing.T) {
	h := newHarness(t, false)
	resp := serve(t, ShellOpenListingModal(clock, nil), h.sess, http.MethodPost, "/api/v1/shell/modals/listing", "", nil)
	require.Equal(t, http.StatusPreconditionFailed, resp.Code)
}

func TestShellQuote(t *testing.T) {
	h := newHarness(t, true)

	resp := serve(t, ShellQuote(nil), h.sess, http.MethodGet, "/api/v1/shell/quote?apartment_id=1&check_in=2025-04-01&check_out=2025-04-04", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	quote := decode[shell.Quote](t, resp).Data
	assert.Equal(t, int64(3), quote.Nights)
	assert.Equal(t, "3000", quote.TotalWei)
	assert.True(t, quote.CanConfirm)

	resp = serve(t, ShellQuote(nil), h.sess, http.MethodGet, "/api/v1/shell/quote?apartment_id=1&check_in=2025-04-04&check_out=2025-04-01", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.False(t, decode[shell.Quote](t, resp).Data.CanConfirm)

	resp = serve(t, ShellQuote(nil), h.sess, http.MethodGet, "/api/v1/shell/quote?apartment_id=1&check_in=April&check_out=2025-04-01", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = serve(t, ShellQuote(nil), h.sess, http.MethodGet, "/api/v1/shell/quote?apartment_id=42&check_in=2025-04-01&check_out=2025-04-02", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestApartmentsList(t *testing.T) {
	h := newHarness(t, false)
	resp := serve(t, ApartmentsList(h.views, nil), h.sess, http.MethodGet, "/api/v1/apartments?refresh=true", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, decode[shell.Panel[shell.ApartmentCard]](t, resp).Data.Items)
	assert.Empty(t, h.contract.Calls())

	h = newHarness(t, true)
	h.contract.SetApartments(nil, errors.New("dial tcp: i/o timeout"))
	resp = serve(t, ApartmentsList(h.views, nil), h.sess, http.MethodGet, "/api/v1/apartments?refresh=true", "", nil)
	require.Equal(t, http.StatusBadGateway, resp.Code)

	resp = serve(t, ApartmentsList(h.views, nil), h.sess, http.MethodGet, "/api/v1/apartments", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decode[shell.Panel[shell.ApartmentCard]](t, resp).Data.Items, 2, "previous view kept after a failed refresh")
}

func TestApartmentCreate(t *testing.T) {
	h := newHarness(t, true)
	body := `{"name":"  Loft 2 ","location":"Porto","description":"sea view","price":"0.05","image_urls":[" https://img/1.png ",""]}`

	resp := serve(t, ApartmentCreate(h.actions, nil), h.sess, http.MethodPost, "/api/v1/apartments", body, nil)
	require.Equal(t, http.StatusCreated, resp.Code)
	out := decode[actions.Result](t, resp)
	assert.Equal(t, "Apartment listed successfully!", out.Notice)
	assert.Equal(t, actions.ActionList, out.Data.Action)

	writes := h.contract.Writes()
	require.Len(t, writes, 1)
	draft, ok := writes[0].Args[0].(models.ApartmentDraft)
	require.True(t, ok)
	assert.Equal(t, "Loft 2", draft.Name)
	assert.Equal(t, []string{"https://img/1.png"}, draft.ImageURLs)
}

func TestApartmentCreateRequiresConnection(t *testing.T) {
	h := newHarness(t, false)
	resp := serve(t, ApartmentCreate(h.actions, nil), h.sess, http.MethodPost, "/api/v1/apartments", `{"name":"x","location":"y","price":"1"}`, nil)
	require.Equal(t, http.StatusPreconditionFailed, resp.Code)
	assert.Empty(t, h.contract.Calls())
}

func TestApartmentCreateRejectsMissingFields(t *testing.T) {
	h := newHarness(t, true)
	resp := serve(t, ApartmentCreate(h.actions, nil), h.sess, http.MethodPost, "/api/v1/apartments", `{"location":"y","price":"1"}`, nil)
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Empty(t, h.contract.Writes())
}

func TestApartmentCreateRejectsOverlongFields(t *testing.T) {
	h := newHarness(t, true)
	tests := map[string]string{
		"multi-byte name": `{"name":"a` + strings.Repeat("é", 120) + `","location":"y","price":"1"}`,
		"image url":       `{"name":"x","location":"y","price":"1","image_urls":["https://img/` + strings.Repeat("a", 2048) + `"]}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			resp := serve(t, ApartmentCreate(h.actions, nil), h.sess, http.MethodPost, "/api/v1/apartments", body, nil)
			require.Equal(t, http.StatusBadRequest, resp.Code)
			assert.Equal(t, pkgerrors.CodeValidation, errorCode(t, resp))
		})
	}
	assert.Empty(t, h.contract.Writes())
}

func TestWritesCheckConnectionBeforeBody(t *testing.T) {
	h := newHarness(t, false)
	malformed := `{"name":`
	tests := map[string]struct {
		handler http.Handler
		params  map[string]string
	}{
		"create":   {handler: ApartmentCreate(h.actions, nil)},
		"price":    {handler: ApartmentUpdatePrice(h.actions, nil), params: map[string]string{"apartmentId": "1"}},
		"delete":   {handler: ApartmentDelete(h.actions, nil), params: map[string]string{"apartmentId": "1"}},
		"book":     {handler: ApartmentBook(h.actions, nil), params: map[string]string{"apartmentId": "2"}},
		"check-in": {handler: BookingCheckIn(h.actions, nil), params: map[string]string{"bookingId": "10"}},
		"cancel":   {handler: BookingCancel(h.actions, nil), params: map[string]string{"bookingId": "10"}},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			resp := serve(t, tt.handler, h.sess, http.MethodPost, "/api/v1/x", malformed, tt.params)
			require.Equal(t, http.StatusPreconditionFailed, resp.Code)
			var body types.ErrorEnvelope
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
			assert.Equal(t, actions.NoticeConnectFirst, body.Error.Message)
		})
	}
	assert.Empty(t, h.contract.Calls())
}

func TestApartmentUpdatePriceAndDelete(t *testing.T) {
	h := newHarness(t, true)

	resp := serve(t, ApartmentUpdatePrice(h.actions, nil), h.sess, http.MethodPatch, "/api/v1/apartments/2/price", `{"price":"0.2"}`, map[string]string{"apartmentId": "2"})
	require.Equal(t, http.StatusForbidden, resp.Code)

	resp = serve(t, ApartmentUpdatePrice(h.actions, nil), h.sess, http.MethodPatch, "/api/v1/apartments/1/price", `{"price":"0.2"}`, map[string]string{"apartmentId": "1"})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = serve(t, ApartmentDelete(h.actions, nil), h.sess, http.MethodDelete, "/api/v1/apartments/1", "", map[string]string{"apartmentId": "1"})
	require.Equal(t, http.StatusPreconditionFailed, resp.Code)

	resp = serve(t, ApartmentDelete(h.actions, nil), h.sess, http.MethodDelete, "/api/v1/apartments/1", `{"confirm":true}`, map[string]string{"apartmentId": "1"})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 1, h.contract.CallsTo(chain.MethodDeleteApartment))

	resp = serve(t, ApartmentDelete(h.actions, nil), h.sess, http.MethodDelete, "/api/v1/apartments/abc", `{"confirm":true}`, map[string]string{"apartmentId": "abc"})
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestApartmentBook(t *testing.T) {
	h := newHarness(t, true)
	h.sess.OpenModal(enums.ModalBooking, 2)

	resp := serve(t, ApartmentBook(h.actions, nil), h.sess, http.MethodPost, "/api/v1/apartments/2/bookings", `{"check_in":"2025-03-20","check_out":"2025-03-22"}`, map[string]string{"apartmentId": "2"})
	require.Equal(t, http.StatusCreated, resp.Code)
	out := decode[actions.Result](t, resp)
	require.NotNil(t, out.Data.Stay)
	assert.Equal(t, int64(2), out.Data.Stay.Nights)
	assert.Equal(t, "500", out.Data.Stay.TotalWei)

	writes := h.contract.Writes()
	require.Len(t, writes, 1)
	assert.Zero(t, big.NewInt(500).Cmp(writes[0].Value))
	modal, _ := h.sess.Modal()
	assert.Equal(t, enums.ModalNone, modal)

	resp = serve(t, ApartmentBook(h.actions, nil), h.sess, http.MethodPost, "/api/v1/apartments/2/bookings", `{"check_in":"2025-03-22","check_out":"2025-03-22"}`, map[string]string{"apartmentId": "2"})
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestBookingActions(t *testing.T) {
	h := newHarness(t, true)
	params := map[string]string{"bookingId": "10"}

	resp := serve(t, BookingCheckIn(h.actions, nil), h.sess, http.MethodPost, "/api/v1/bookings/10/check-in", `{"confirm":true}`, params)
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Equal(t, pkgerrors.CodeStateConflict, errorCode(t, resp))

	resp = serve(t, BookingCancel(h.actions, nil), h.sess, http.MethodPost, "/api/v1/bookings/10/cancel", "", params)
	require.Equal(t, http.StatusPreconditionFailed, resp.Code)

	resp = serve(t, BookingCancel(h.actions, nil), h.sess, http.MethodPost, "/api/v1/bookings/10/cancel", `{"confirm":true}`, params)
	require.Equal(t, http.StatusOK, resp.Code)
	out := decode[actions.Result](t, resp)
	assert.Equal(t, "Booking cancelled successfully!", out.Notice)
	assert.Equal(t, []views.Kind{views.KindBookings}, out.Data.Refreshed)
	assert.Equal(t, 1, h.contract.CallsTo(chain.MethodCancelBooking))
	assert.Zero(t, h.contract.CallsTo(chain.MethodCheckIn))
}

func TestBookingsList(t *testing.T) {
	h := newHarness(t, false)
	resp := serve(t, BookingsList(h.views, clock, nil), h.sess, http.MethodGet, "/api/v1/bookings", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	panel := decode[shell.Panel[shell.BookingCard]](t, resp).Data
	assert.Equal(t, shell.PromptBookings, panel.Prompt)

	h = newHarness(t, true)
	resp = serve(t, BookingsList(h.views, clock, nil), h.sess, http.MethodGet, "/api/v1/bookings?refresh=true", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	panel = decode[shell.Panel[shell.BookingCard]](t, resp).Data
	require.Len(t, panel.Items, 1)
	assert.Equal(t, "2025-03-12", panel.Items[0].CheckIn)
}
