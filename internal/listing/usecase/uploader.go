package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"strings"
	"sync"
	"time"

	"github.com/PartyAppOfficial/Partyapp/internal/listing/domain"
	"github.com/PartyAppOfficial/Partyapp/internal/platform/logger"
	"github.com/PartyAppOfficial/Partyapp/internal/platform/metrics"
	"github.com/google/uuid"
	"github.com/nfnt/resize"
	"go.uber.org/zap"
)

const (
	ImagePrefix     = "business-images"
	VideoPrefix     = "business-videos"
	ThumbnailPrefix = "business-thumbnails"

	ThumbnailWidth = 320
	// MaxThumbnailPixels caps the decoded size of a source image.
	MaxThumbnailPixels = 40_000_000
)

var ErrImageTooLarge = errors.New("image dimensions exceed thumbnail limit")

// ImageBatch is the result of an image upload batch. URLs keeps the input
// order of the files that made it; failed files are absent.
type ImageBatch struct {
	URLs       []string
	Thumbnails []string
}

type Uploader struct {
	storage    domain.Storage
	metrics    *metrics.MetricsManager
	logger     *logger.Logger
	thumbnails bool

	now   func() time.Time
	token func() string
}

func NewUploader(storage domain.Storage, mm *metrics.MetricsManager, log *logger.Logger, thumbnails bool) *Uploader {
	return &Uploader{
		storage:    storage,
		metrics:    mm,
		logger:     log.Named("Uploader"),
		thumbnails: thumbnails,
		now:        time.Now,
		token:      randomToken,
	}
}

func randomToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:7]
}

// ObjectKey builds <prefix>/<unixMillis>_<token>_<name>.
func ObjectKey(prefix string, at time.Time, token, name string) string {
	return fmt.Sprintf("%s/%d_%s_%s", prefix, at.UnixMilli(), token, name)
}

// UploadMany uploads every file concurrently and returns the URLs of the
// ones that succeeded, in input order.
func (u *Uploader) UploadMany(ctx context.Context, files []domain.MediaFile) []string {
	return u.UploadImages(ctx, files).URLs
}

// UploadImages is UploadMany plus thumbnails when they are enabled.
func (u *Uploader) UploadImages(ctx context.Context, files []domain.MediaFile) ImageBatch {
	if len(files) == 0 {
		return ImageBatch{URLs: []string{}}
	}

	urls := make([]string, len(files))
	thumbs := make([]string, len(files))
	ok := make([]bool, len(files))

	var wg sync.WaitGroup
	for i := range files {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			url, err := u.put(ctx, ImagePrefix, files[i])
			if err != nil {
				u.logger.Warn("Uploader.UploadImages: image upload failed",
					zap.String("file", files[i].Name), zap.Error(err))
				u.count("image", "error")
				return
			}
			u.count("image", "success")
			urls[i], ok[i] = url, true

			if u.thumbnails {
				thumb, err := u.thumbnail(ctx, files[i])
				if err != nil {
					u.logger.Warn("Uploader.UploadImages: thumbnail failed",
						zap.String("file", files[i].Name), zap.Error(err))
					u.count("thumbnail", "error")
					return
				}
				thumbs[i] = thumb
			}
		}(i)
	}
	wg.Wait()

	batch := ImageBatch{URLs: make([]string, 0, len(files))}
	for i := range files {
		if !ok[i] {
			continue
		}
		batch.URLs = append(batch.URLs, urls[i])
		if thumbs[i] != "" {
			batch.Thumbnails = append(batch.Thumbnails, thumbs[i])
		}
	}
	return batch
}

// UploadOne uploads a single video. It returns nil when file is nil or the
// upload failed.
func (u *Uploader) UploadOne(ctx context.Context, file *domain.MediaFile) *string {
	if file == nil {
		return nil
	}
	url, err := u.put(ctx, VideoPrefix, *file)
	if err != nil {
		u.logger.Warn("Uploader.UploadOne: video upload failed", zap.String("file", file.Name), zap.Error(err))
		u.count("video", "error")
		return nil
	}
	u.count("video", "success")
	return &url
}

func (u *Uploader) put(ctx context.Context, prefix string, f domain.MediaFile) (string, error) {
	r, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer r.Close()

	key := ObjectKey(prefix, u.now(), u.token(), f.Name)
	ref, err := u.storage.Put(ctx, key, f.ContentType, r, f.Size)
	if err != nil {
		return "", err
	}
	return u.storage.PublicURL(ctx, ref)
}

func (u *Uploader) thumbnail(ctx context.Context, f domain.MediaFile) (string, error) {
	img, err := decodeBounded(f)
	if err != nil {
		return "", err
	}
	small := resize.Resize(ThumbnailWidth, 0, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, small, &jpeg.Options{Quality: 80}); err != nil {
		return "", fmt.Errorf("encode thumbnail: %w", err)
	}

	name := strings.TrimSuffix(f.Name, pathExt(f.Name)) + ".jpg"
	key := ObjectKey(ThumbnailPrefix, u.now(), u.token(), name)
	ref, err := u.storage.Put(ctx, key, "image/jpeg", &buf, int64(buf.Len()))
	if err != nil {
		return "", err
	}
	u.count("thumbnail", "success")
	return u.storage.PublicURL(ctx, ref)
}

// decodeBounded reads the image header first and refuses to decode pictures
// whose pixel buffer would exceed MaxThumbnailPixels.
func decodeBounded(f domain.MediaFile) (image.Image, error) {
	r, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	cfg, _, err := image.DecodeConfig(r)
	r.Close()
	if err != nil {
		return nil, fmt.Errorf("decode header %s: %w", f.Name, err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxThumbnailPixels {
		return nil, fmt.Errorf("%w: %s is %dx%d", ErrImageTooLarge, f.Name, cfg.Width, cfg.Height)
	}

	r, err = f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer r.Close()
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.Name, err)
	}
	return img, nil
}

func pathExt(name string) string {
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[i:]
	}
	return ""
}

func (u *Uploader) count(kind, result string) {
	if u.metrics != nil {
		u.metrics.UploadsTotal.WithLabelValues(kind, result).Inc()
	}
}
