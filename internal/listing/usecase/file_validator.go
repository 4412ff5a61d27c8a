package usecase

import (
	"fmt"

	"github.com/PartyAppOfficial/Partyapp/internal/listing/domain"
)

const (
	MaxImages      = 5
	MaxVideos      = 1
	MaxVideoBytes  = 50 * 1024 * 1024
	bytesPerMB     = 1024 * 1024
	videoMIME      = "video/mp4"
	maxVideoMBText = "50MB"
)

var imageMIMEs = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// ValidationResult is the outcome of checking a media selection. Message is
// set only when Valid is false, or as info text from SelectionFeedback.
type ValidationResult struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// FileValidator checks the selected media. It is the only implementation;
// the field-change endpoint and the submit pipeline both call it.
type FileValidator struct{}

func NewFileValidator() *FileValidator { return &FileValidator{} }

// Validate applies the rules in order and reports the first failure.
func (FileValidator) Validate(images, videos []domain.MediaFile) ValidationResult {
	if len(images) > MaxImages {
		return invalid(fmt.Sprintf("You can only upload maximum %d images. You have selected %d.", MaxImages, len(images)))
	}
	for _, img := range images {
		if !imageMIMEs[img.ContentType] {
			return invalid(fmt.Sprintf("Invalid image format: %s. Only JPEG, JPG or PNG are allowed.", img.Name))
		}
	}

	if len(videos) > MaxVideos {
		return invalid(fmt.Sprintf("You can only upload %d video.", MaxVideos))
	}
	if len(videos) == 1 {
		v := videos[0]
		if v.ContentType != videoMIME {
			return invalid(fmt.Sprintf("Invalid video format: %s. Only MP4 videos are allowed.", v.Name))
		}
		if v.Size > MaxVideoBytes {
			return invalid(fmt.Sprintf("The video is very large (%sMB). Maximum allowed: %s.", megabytes(v.Size), maxVideoMBText))
		}
	}
	return ValidationResult{Valid: true}
}

// SelectionFeedback is the text shown when the file inputs change. It
// returns the validation error if the selection is rejected.
func (fv FileValidator) SelectionFeedback(images, videos []domain.MediaFile) ValidationResult {
	res := fv.Validate(images, videos)
	if !res.Valid {
		return res
	}
	switch {
	case len(videos) == 1 && len(images) > 0:
		res.Message = fmt.Sprintf("%d image(s) selected. Selected video (%sMB)", len(images), megabytes(videos[0].Size))
	case len(videos) == 1:
		res.Message = fmt.Sprintf("Selected video (%sMB)", megabytes(videos[0].Size))
	case len(images) > 0:
		res.Message = fmt.Sprintf("%d image(s) selected", len(images))
	}
	return res
}

func invalid(msg string) ValidationResult {
	return ValidationResult{Valid: false, Message: msg}
}

func megabytes(size int64) string {
	return fmt.Sprintf("%.2f", float64(size)/bytesPerMB)
}
