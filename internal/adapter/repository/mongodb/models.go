package mongodb

import (
	"time"

	authdomain "github.com/PartyAppOfficial/Partyapp/internal/auth/domain"
	"github.com/PartyAppOfficial/Partyapp/internal/listing/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// placeDocument is a document of the places collection. Field names match
// what the site reads.
type placeDocument struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty"`
	BusinessName     string               `bson:"businessName"`
	BusinessType     string               `bson:"businessType"`
	OwnerName        string               `bson:"ownerName"`
	Email            string               `bson:"email"`
	Phone            string               `bson:"phone"`
	Address          string               `bson:"address"`
	FormattedAddress string               `bson:"formatted_address"`
	Latitude         float64              `bson:"latitude"`
	Longitude        float64              `bson:"longitude"`
	Description      string               `bson:"description"`
	Website          string               `bson:"website"`
	Images           []string             `bson:"images"`
	Thumbnails       []string             `bson:"thumbnails,omitempty"`
	Video            *string              `bson:"video"`
	CreatedAt        time.Time            `bson:"createdAt"`
	UserID           string               `bson:"userId"`
	UserEmail        string               `bson:"userEmail"`
	Status           domain.ListingStatus `bson:"status"`
}

func toPlaceDocument(l *domain.BusinessListing) *placeDocument {
	images := l.Images
	if images == nil {
		images = []string{}
	}
	return &placeDocument{
		BusinessName:     l.BusinessName,
		BusinessType:     l.BusinessType,
		OwnerName:        l.OwnerName,
		Email:            l.Email,
		Phone:            l.Phone,
		Address:          l.Address,
		FormattedAddress: l.FormattedAddress,
		Latitude:         l.Latitude,
		Longitude:        l.Longitude,
		Description:      l.Description,
		Website:          l.Website,
		Images:           images,
		Thumbnails:       l.Thumbnails,
		Video:            l.Video,
		CreatedAt:        l.CreatedAt,
		UserID:           l.UserID,
		UserEmail:        l.UserEmail,
		Status:           l.Status,
	}
}

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	Role      string             `bson:"role"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func fromUser(u *authdomain.User) *userDocument {
	return &userDocument{
		Name:      u.Name,
		Email:     u.Email,
		Password:  u.PasswordHash,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (d *userDocument) toUser() *authdomain.User {
	return &authdomain.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.Password,
		Role:         d.Role,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}
