package handler

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/PartyAppOfficial/Partyapp/internal/adapter/http/middleware"
	authdomain "github.com/PartyAppOfficial/Partyapp/internal/auth/domain"
	"github.com/PartyAppOfficial/Partyapp/internal/geo"
	"github.com/PartyAppOfficial/Partyapp/internal/listing/domain"
	listinguc "github.com/PartyAppOfficial/Partyapp/internal/listing/usecase"
	"github.com/PartyAppOfficial/Partyapp/internal/platform/logger"
	"go.uber.org/zap"
)

const (
	// MaxUploadBytes bounds the whole multipart body.
	MaxUploadBytes  = 200 << 20
	multipartMemory = 32 << 20
)

type RegistrationService interface {
	Register(ctx context.Context, sub *listinguc.Submission) (*listinguc.Result, error)
	CheckMedia(media domain.MediaSelection) listinguc.ValidationResult
}

// MapInitializer produces the default map state for a reset form.
type MapInitializer interface {
	Init(ctx context.Context) geo.Selection
}

type RegistrationHandler struct {
	registration RegistrationService
	maps         MapInitializer
	logger       *logger.Logger
}

func NewRegistrationHandler(registration RegistrationService, maps MapInitializer, log *logger.Logger) *RegistrationHandler {
	return &RegistrationHandler{registration: registration, maps: maps, logger: log.Named("RegistrationHTTPHandler")}
}

type registrationResponse struct {
	*listinguc.Result
	Selection *geo.Selection `json:"selection,omitempty"`
}

// Register accepts the multipart registration form. Guests are answered
// before the body is read.
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var session *authdomain.Session
	if id := middleware.IdentityFrom(r.Context()); id != nil {
		session = id.Session
	}
	sub := &listinguc.Submission{Session: session}

	if session != nil {
		r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, "Upload too large")
				return
			}
			h.logger.Warn("Failed to parse registration form", zap.Error(err))
			writeError(w, http.StatusBadRequest, "Invalid form data")
			return
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()
		sub.Form = formFromRequest(r)
		sub.Media = domain.MediaSelection{
			Images: mediaFiles(r.MultipartForm.File["images"]),
			Videos: mediaFiles(r.MultipartForm.File["video"]),
		}
	}

	res, err := h.registration.Register(r.Context(), sub)
	resp := registrationResponse{Result: res}
	if res.ResetForm && h.maps != nil {
		sel := h.maps.Init(r.Context())
		resp.Selection = &sel
	}
	if err != nil {
		writeJSON(w, RegistrationErrorStatus(err), resp)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func formFromRequest(r *http.Request) domain.RegistrationForm {
	return domain.RegistrationForm{
		BusinessName:     r.FormValue("businessName"),
		BusinessType:     r.FormValue("businessType"),
		OwnerName:        r.FormValue("ownerName"),
		Email:            r.FormValue("email"),
		Phone:            r.FormValue("phone"),
		Address:          r.FormValue("address"),
		FormattedAddress: r.FormValue("formatted_address"),
		Latitude:         r.FormValue("latitude"),
		Longitude:        r.FormValue("longitude"),
		Description:      r.FormValue("description"),
		Website:          r.FormValue("website"),
	}
}

func mediaFiles(headers []*multipart.FileHeader) []domain.MediaFile {
	files := make([]domain.MediaFile, 0, len(headers))
	for _, fh := range headers {
		files = append(files, domain.MediaFile{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Open:        func() (io.ReadCloser, error) { return fh.Open() },
		})
	}
	return files
}

type mediaDescriptor struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

type mediaCheckRequest struct {
	Images []mediaDescriptor `json:"images"`
	Videos []mediaDescriptor `json:"videos"`
}

func describedFiles(ds []mediaDescriptor) []domain.MediaFile {
	files := make([]domain.MediaFile, 0, len(ds))
	for _, d := range ds {
		files = append(files, domain.MediaFile{Name: d.Name, ContentType: d.Type, Size: d.Size})
	}
	return files
}

// CheckMedia validates a file selection from its metadata only, the way the
// page does when a file input changes.
func (h *RegistrationHandler) CheckMedia(w http.ResponseWriter, r *http.Request) {
	var req mediaCheckRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	res := h.registration.CheckMedia(domain.MediaSelection{
		Images: describedFiles(req.Images),
		Videos: describedFiles(req.Videos),
	})
	status := http.StatusOK
	if !res.Valid {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, res)
}
