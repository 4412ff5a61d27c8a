package handler

import (
	"context"

	authdomain "github.com/PartyAppOfficial/Partyapp/internal/auth/domain"
	"github.com/PartyAppOfficial/Partyapp/internal/auth/usecase"
	"github.com/PartyAppOfficial/Partyapp/internal/contact"
	"github.com/PartyAppOfficial/Partyapp/internal/geo"
	"github.com/PartyAppOfficial/Partyapp/internal/listing/domain"
	listinguc "github.com/PartyAppOfficial/Partyapp/internal/listing/usecase"
	"github.com/PartyAppOfficial/Partyapp/internal/notify"
	"github.com/stretchr/testify/mock"
)

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*usecase.AuthResult, error) {
	args := m.Called(ctx, email, password)
	res, _ := args.Get(0).(*usecase.AuthResult)
	return res, args.Error(1)
}

func (m *MockAuthService) Signup(ctx context.Context, name, email, password, confirm string) (*usecase.AuthResult, error) {
	args := m.Called(ctx, name, email, password, confirm)
	res, _ := args.Get(0).(*usecase.AuthResult)
	return res, args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, id *usecase.Identity) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, id *usecase.Identity, name string) (*authdomain.Session, error) {
	args := m.Called(ctx, id, name)
	s, _ := args.Get(0).(*authdomain.Session)
	return s, args.Error(1)
}

type MockRegistrationService struct{ mock.Mock }

func (m *MockRegistrationService) Register(ctx context.Context, sub *listinguc.Submission) (*listinguc.Result, error) {
	args := m.Called(ctx, sub)
	return args.Get(0).(*listinguc.Result), args.Error(1)
}

func (m *MockRegistrationService) CheckMedia(media domain.MediaSelection) listinguc.ValidationResult {
	return m.Called(media).Get(0).(listinguc.ValidationResult)
}

type MockMapAdapter struct{ mock.Mock }

func (m *MockMapAdapter) Init(ctx context.Context) geo.Selection {
	return m.Called(ctx).Get(0).(geo.Selection)
}

func (m *MockMapAdapter) Reset(ctx context.Context, s *geo.Selection) {
	m.Called(ctx, s)
	*s = geo.Selection{Lat: geo.DefaultLat, Lng: geo.DefaultLng, Zoom: geo.DefaultZoom}
}

func (m *MockMapAdapter) MoveMarker(ctx context.Context, s *geo.Selection, lat, lng float64) {
	m.Called(ctx, s, lat, lng)
	s.Lat, s.Lng = lat, lng
}

func (m *MockMapAdapter) SelectPlace(ctx context.Context, s *geo.Selection, p geo.Place, typed string) {
	m.Called(ctx, s, p, typed)
	if p.Location != nil {
		s.Lat, s.Lng = p.Location.Lat, p.Location.Lng
		s.FormattedAddress = p.FormattedAddress
	}
}

func (m *MockMapAdapter) EnterAddress(ctx context.Context, s *geo.Selection, text string) {
	m.Called(ctx, s, text)
	s.Address = text
}

type MockPlaceFinder struct{ mock.Mock }

func (m *MockPlaceFinder) Autocomplete(ctx context.Context, input string) ([]geo.Prediction, error) {
	args := m.Called(ctx, input)
	p, _ := args.Get(0).([]geo.Prediction)
	return p, args.Error(1)
}

func (m *MockPlaceFinder) PlaceDetails(ctx context.Context, placeID string) (*geo.Place, error) {
	args := m.Called(ctx, placeID)
	p, _ := args.Get(0).(*geo.Place)
	return p, args.Error(1)
}

type MockContactService struct{ mock.Mock }

func (m *MockContactService) Submit(ctx context.Context, msg contact.Message) (notify.Notification, error) {
	args := m.Called(ctx, msg)
	return args.Get(0).(notify.Notification), args.Error(1)
}
