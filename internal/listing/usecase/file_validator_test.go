package usecase

import (
	"fmt"
	"testing"

	"github.com/PartyAppOfficial/Partyapp/internal/listing/domain"
	"github.com/stretchr/testify/assert"
)

func file(name, contentType string, size int64) domain.MediaFile {
	return domain.MediaFile{Name: name, ContentType: contentType, Size: size}
}

func jpegs(n int) []domain.MediaFile {
	out := make([]domain.MediaFile, n)
	for i := range out {
		out[i] = file(fmt.Sprintf("photo%d.jpg", i), "image/jpeg", 1024)
	}
	return out
}

func TestFileValidator_Validate(t *testing.T) {
	fv := NewFileValidator()

	tests := []struct {
		name    string
		images  []domain.MediaFile
		videos  []domain.MediaFile
		valid   bool
		message string
	}{
		{name: "empty selection", valid: true},
		{name: "five images", images: jpegs(5), valid: true},
		{
			name:    "six images",
			images:  jpegs(6),
			message: "You can only upload maximum 5 images. You have selected 6.",
		},
		{
			name:    "gif image",
			images:  []domain.MediaFile{file("a.png", "image/png", 1), file("anim.gif", "image/gif", 1)},
			message: "Invalid image format: anim.gif. Only JPEG, JPG or PNG are allowed.",
		},
		{
			name:    "count checked before type",
			images:  append(jpegs(6), file("anim.gif", "image/gif", 1)),
			message: "You can only upload maximum 5 images. You have selected 7.",
		},
		{
			name:    "two videos",
			videos:  []domain.MediaFile{file("a.mp4", "video/mp4", 1), file("b.mp4", "video/mp4", 1)},
			message: "You can only upload 1 video.",
		},
		{
			name:    "quicktime video",
			videos:  []domain.MediaFile{file("clip.mov", "video/quicktime", 1)},
			message: "Invalid video format: clip.mov. Only MP4 videos are allowed.",
		},
		{
			name:   "video exactly at the limit",
			videos: []domain.MediaFile{file("clip.mp4", "video/mp4", MaxVideoBytes)},
			valid:  true,
		},
		{
			name:    "video one byte over",
			videos:  []domain.MediaFile{file("clip.mp4", "video/mp4", MaxVideoBytes+1)},
			message: "The video is very large (50.00MB). Maximum allowed: 50MB.",
		},
		{
			name:    "sixty megabyte video",
			videos:  []domain.MediaFile{file("clip.mp4", "video/mp4", 60*1024*1024)},
			message: "The video is very large (60.00MB). Maximum allowed: 50MB.",
		},
		{
			name:    "image rules win over video rules",
			images:  []domain.MediaFile{file("doc.pdf", "application/pdf", 1)},
			videos:  []domain.MediaFile{file("clip.mov", "video/quicktime", 1)},
			message: "Invalid image format: doc.pdf. Only JPEG, JPG or PNG are allowed.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fv.Validate(tt.images, tt.videos)
			assert.Equal(t, tt.valid, got.Valid)
			assert.Equal(t, tt.message, got.Message)
		})
	}
}

func TestFileValidator_SelectionFeedback(t *testing.T) {
	fv := NewFileValidator()

	assert.Equal(t, "3 image(s) selected", fv.SelectionFeedback(jpegs(3), nil).Message)
	assert.Equal(t, "Selected video (12.50MB)",
		fv.SelectionFeedback(nil, []domain.MediaFile{file("c.mp4", "video/mp4", 12*1024*1024+512*1024)}).Message)
	assert.Equal(t, "", fv.SelectionFeedback(nil, nil).Message)

	rejected := fv.SelectionFeedback(jpegs(6), nil)
	assert.False(t, rejected.Valid)
	assert.Equal(t, "You can only upload maximum 5 images. You have selected 6.", rejected.Message)
}
