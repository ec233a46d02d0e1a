package shell

import (
	"strings"
	"time"

	"github.com/cryptobooking/booking-client/internal/session"
	"github.com/cryptobooking/booking-client/pkg/contracttime"
	"github.com/cryptobooking/booking-client/pkg/enums"
	"github.com/cryptobooking/booking-client/pkg/ether"
	"github.com/cryptobooking/booking-client/pkg/models"
)

const (
	AppName           = "Crypto Booking"
	PlaceholderImage  = "https://via.placeholder.com/400x300.png?text=Apartment+Image"
	LoadingName       = "Loading Name..."
	PromptConnect     = "Please connect your wallet first"
	PromptBookings    = "Connect your wallet to view your bookings"
	PromptListing     = "Connect your wallet to list a property"
	EmptyBrowse       = "No apartments listed yet"
	EmptyBookings     = "You have no bookings yet"
	EmptyListProperty = "You have not listed any properties yet"
)

type Header struct {
	AppName      string    `json:"app_name"`
	Connected    bool      `json:"connected"`
	Account      string    `json:"account,omitempty"`
	ShortAccount string    `json:"short_account,omitempty"`
	Loading      bool      `json:"loading"`
	Tabs         []TabLink `json:"tabs"`
	Error        string    `json:"error,omitempty"`
	ErrorCode    string    `json:"error_code,omitempty"`
}

type TabLink struct {
	Tab    enums.Tab `json:"tab"`
	Label  string    `json:"label"`
	Active bool      `json:"active"`
}

type ApartmentCard struct {
	ID               uint64   `json:"id"`
	Owner            string   `json:"owner"`
	Name             string   `json:"name"`
	Location         string   `json:"location"`
	Description      string   `json:"description"`
	ImageURL         string   `json:"image_url"`
	ImageURLs        []string `json:"image_urls"`
	PricePerNightWei string   `json:"price_per_night_wei"`
	PricePerNightEth string   `json:"price_per_night_eth"`
	OwnedByAccount   bool     `json:"owned_by_account"`
	CanBook          bool     `json:"can_book"`
}

type BookingCard struct {
	ID            uint64                `json:"id"`
	ApartmentID   uint64                `json:"apartment_id"`
	ApartmentName string                `json:"apartment_name"`
	CheckIn       string                `json:"check_in"`
	CheckOut      string                `json:"check_out"`
	TotalPriceWei string                `json:"total_price_wei"`
	TotalPriceEth string                `json:"total_price_eth"`
	Status        enums.BookingStatus   `json:"status"`
	Style         StatusStyle           `json:"style"`
	Actions       []enums.BookingAction `json:"actions"`
}

type Panel[T any] struct {
	Items  []T    `json:"items"`
	Prompt string `json:"prompt,omitempty"`
}

type Modal struct {
	Kind       enums.Modal    `json:"kind"`
	Apartment  *ApartmentCard `json:"apartment,omitempty"`
	MinCheckIn string         `json:"min_check_in,omitempty"`
}

// State is the full presentation of one session.
type State struct {
	Header       Header                `json:"header"`
	Tab          enums.Tab             `json:"tab"`
	Browse       *Panel[ApartmentCard] `json:"browse,omitempty"`
	Bookings     *Panel[BookingCard]   `json:"bookings,omitempty"`
	ListProperty *Panel[ApartmentCard] `json:"list_property,omitempty"`
	Modal        Modal                 `json:"modal"`
}

var tabLabels = []TabLink{
	{Tab: enums.TabBrowse, Label: "Browse"},
	{Tab: enums.TabBookings, Label: "My Bookings"},
	{Tab: enums.TabList, Label: "List Property"},
}

// Build renders snap at now. Only the active tab's panel is populated.
func Build(snap session.Snapshot, now time.Time) State {
	state := State{
		Header: buildHeader(snap),
		Tab:    snap.Tab,
	}
	switch snap.Tab {
	case enums.TabBookings:
		state.Bookings = BookingsPanel(snap, now)
	case enums.TabList:
		state.ListProperty = ListPropertyPanel(snap)
	default:
		state.Browse = BrowsePanel(snap)
	}
	state.Modal = buildModal(snap, now)
	return state
}

func buildHeader(snap session.Snapshot) Header {
	tabs := make([]TabLink, len(tabLabels))
	for i, link := range tabLabels {
		link.Active = link.Tab == snap.Tab
		tabs[i] = link
	}
	return Header{
		AppName:      AppName,
		Connected:    snap.Connected,
		Account:      snap.Account,
		ShortAccount: models.ShortAddress(snap.Account),
		Loading:      snap.Loading,
		Tabs:         tabs,
		Error:        snap.Error,
		ErrorCode:    snap.ErrorCode,
	}
}

// Card renders apt for an account ("" when disconnected).
func Card(apt models.Apartment, account string) ApartmentCard {
	image := apt.PrimaryImage()
	if image == "" {
		image = PlaceholderImage
	}
	card := ApartmentCard{
		ID:               apt.ID,
		Owner:            apt.Owner,
		Name:             apt.Name,
		Location:         apt.Location,
		Description:      apt.Description,
		ImageURL:         image,
		ImageURLs:        append([]string{}, apt.ImageURLs...),
		PricePerNightWei: "0",
		PricePerNightEth: ether.FormatEther(apt.PricePerNight),
		OwnedByAccount:   OwnedBy(apt, account),
		CanBook:          account != "",
	}
	if apt.PricePerNight != nil {
		card.PricePerNightWei = apt.PricePerNight.String()
	}
	return card
}

// OwnedBy compares owner and account case-insensitively.
func OwnedBy(apt models.Apartment, account string) bool {
	return account != "" && strings.EqualFold(apt.Owner, account)
}

// BrowsePanel lists every unit the contract exposes.
func BrowsePanel(snap session.Snapshot) *Panel[ApartmentCard] {
	panel := &Panel[ApartmentCard]{Items: make([]ApartmentCard, 0, len(snap.Apartments))}
	for _, apt := range snap.Apartments {
		panel.Items = append(panel.Items, Card(apt, snap.Account))
	}
	if len(panel.Items) == 0 {
		panel.Prompt = EmptyBrowse
	}
	return panel
}

// BookingsPanel renders the account's reservations with their available actions.
func BookingsPanel(snap session.Snapshot, now time.Time) *Panel[BookingCard] {
	panel := &Panel[BookingCard]{Items: make([]BookingCard, 0, len(snap.Bookings))}
	if !snap.Connected {
		panel.Prompt = PromptBookings
		return panel
	}
	names := make(map[uint64]string, len(snap.Apartments))
	for _, apt := range snap.Apartments {
		names[apt.ID] = apt.Name
	}
	for _, b := range snap.Bookings {
		name, ok := names[b.ApartmentID]
		if !ok {
			name = LoadingName
		}
		card := BookingCard{
			ID:            b.ID,
			ApartmentID:   b.ApartmentID,
			ApartmentName: name,
			CheckIn:       contracttime.FromContractTimestamp(b.CheckIn),
			CheckOut:      contracttime.FromContractTimestamp(b.CheckOut),
			TotalPriceWei: "0",
			TotalPriceEth: ether.FormatEther(b.TotalPrice),
			Status:        b.Status,
			Style:         StyleFor(b.Status),
			Actions:       AvailableActions(b, now),
		}
		if b.TotalPrice != nil {
			card.TotalPriceWei = b.TotalPrice.String()
		}
		panel.Items = append(panel.Items, card)
	}
	if len(panel.Items) == 0 && !snap.Loading {
		panel.Prompt = EmptyBookings
	}
	return panel
}

// ListPropertyPanel lists the units owned by the connected account.
func ListPropertyPanel(snap session.Snapshot) *Panel[ApartmentCard] {
	panel := &Panel[ApartmentCard]{Items: []ApartmentCard{}}
	if !snap.Connected {
		panel.Prompt = PromptListing
		return panel
	}
	for _, apt := range snap.Apartments {
		if OwnedBy(apt, snap.Account) {
			panel.Items = append(panel.Items, Card(apt, snap.Account))
		}
	}
	if len(panel.Items) == 0 {
		panel.Prompt = EmptyListProperty
	}
	return panel
}

func buildModal(snap session.Snapshot, now time.Time) Modal {
	switch snap.Modal {
	case enums.ModalListing:
		return Modal{Kind: enums.ModalListing}
	case enums.ModalBooking:
		modal := Modal{
			Kind:       enums.ModalBooking,
			MinCheckIn: contracttime.FromContractTimestamp(contracttime.Today(now)),
		}
		for _, apt := range snap.Apartments {
			if apt.ID == snap.SelectedApartmentID {
				card := Card(apt, snap.Account)
				modal.Apartment = &card
				break
			}
		}
		return modal
	default:
		return Modal{Kind: enums.ModalNone}
	}
}
