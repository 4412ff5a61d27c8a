package domain

import (
	"io"
	"time"
)

type ListingStatus string

const StatusPending ListingStatus = "pending"

// BusinessListing is written once per successful registration and never
// modified by this service.
type BusinessListing struct {
	ID               string        `json:"id,omitempty"`
	BusinessName     string        `json:"businessName"`
	BusinessType     string        `json:"businessType"`
	OwnerName        string        `json:"ownerName"`
	Email            string        `json:"email"`
	Phone            string        `json:"phone"`
	Address          string        `json:"address"`
	FormattedAddress string        `json:"formatted_address"`
	Latitude         float64       `json:"latitude"`
	Longitude        float64       `json:"longitude"`
	Description      string        `json:"description"`
	Website          string        `json:"website"`
	Images           []string      `json:"images"`
	Thumbnails       []string      `json:"thumbnails,omitempty"`
	Video            *string       `json:"video"`
	CreatedAt        time.Time     `json:"createdAt"`
	UserID           string        `json:"userId"`
	UserEmail        string        `json:"userEmail"`
	Status           ListingStatus `json:"status"`
}

// MediaFile is one file picked in the form. Open may be called more than
// once; each call returns a fresh reader positioned at the start.
type MediaFile struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

type MediaSelection struct {
	Images []MediaFile
	Videos []MediaFile
}

// Video returns the first selected video, if any.
func (m MediaSelection) Video() *MediaFile {
	if len(m.Videos) == 0 {
		return nil
	}
	return &m.Videos[0]
}

// RegistrationForm holds the text fields of the registration form under
// their wire names.
type RegistrationForm struct {
	BusinessName     string `json:"businessName" validate:"required"`
	BusinessType     string `json:"businessType" validate:"required"`
	OwnerName        string `json:"ownerName" validate:"required"`
	Email            string `json:"email" validate:"required,email"`
	Phone            string `json:"phone" validate:"required"`
	Address          string `json:"address" validate:"required"`
	FormattedAddress string `json:"formatted_address"`
	Latitude         string `json:"latitude" validate:"required,latitude"`
	Longitude        string `json:"longitude" validate:"required,longitude"`
	Description      string `json:"description" validate:"required"`
	Website          string `json:"website" validate:"omitempty,url"`
}
