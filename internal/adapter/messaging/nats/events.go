package nats

import (
	"time"

	authdomain "github.com/PartyAppOfficial/Partyapp/internal/auth/domain"
	"github.com/PartyAppOfficial/Partyapp/internal/listing/domain"
)

const (
	SubjectBusinessRegistered = "business.registered"
	SubjectSessionChanged     = "auth.session.changed"
)

type BusinessRegisteredEvent struct {
	ListingID        string    `json:"listingId"`
	BusinessName     string    `json:"businessName"`
	BusinessType     string    `json:"businessType"`
	FormattedAddress string    `json:"formatted_address"`
	Latitude         float64   `json:"latitude"`
	Longitude        float64   `json:"longitude"`
	ImageCount       int       `json:"imageCount"`
	HasVideo         bool      `json:"hasVideo"`
	UserID           string    `json:"userId"`
	UserEmail        string    `json:"userEmail"`
	CreatedAt        time.Time `json:"createdAt"`
}

func NewBusinessRegisteredEvent(l *domain.BusinessListing) BusinessRegisteredEvent {
	return BusinessRegisteredEvent{
		ListingID:        l.ID,
		BusinessName:     l.BusinessName,
		BusinessType:     l.BusinessType,
		FormattedAddress: l.FormattedAddress,
		Latitude:         l.Latitude,
		Longitude:        l.Longitude,
		ImageCount:       len(l.Images),
		HasVideo:         l.Video != nil,
		UserID:           l.UserID,
		UserEmail:        l.UserEmail,
		CreatedAt:        l.CreatedAt,
	}
}

// SessionChangedEvent carries a nil Session on logout.
type SessionChangedEvent struct {
	UserID     string              `json:"userId"`
	LoggedIn   bool                `json:"loggedIn"`
	Session    *authdomain.Session `json:"session"`
	OccurredAt time.Time           `json:"occurredAt"`
}

func NewSessionChangedEvent(userID string, s *authdomain.Session, at time.Time) SessionChangedEvent {
	return SessionChangedEvent{UserID: userID, LoggedIn: s != nil, Session: s, OccurredAt: at.UTC()}
}
