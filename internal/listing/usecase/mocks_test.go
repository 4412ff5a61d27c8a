package usecase

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/PartyAppOfficial/Partyapp/internal/listing/domain"
	"github.com/PartyAppOfficial/Partyapp/internal/notify"
	"github.com/PartyAppOfficial/Partyapp/internal/platform/logger"
	"github.com/stretchr/testify/mock"
)

type MockStorage struct{ mock.Mock }

func (m *MockStorage) Put(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error) {
	_, _ = io.Copy(io.Discard, r)
	args := m.Called(ctx, key, contentType, size)
	if fn, ok := args.Get(0).(func(context.Context, string, string, int64) string); ok {
		return fn(ctx, key, contentType, size), args.Error(1)
	}
	return args.String(0), args.Error(1)
}
func (m *MockStorage) PublicURL(ctx context.Context, ref string) (string, error) {
	args := m.Called(ctx, ref)
	if fn, ok := args.Get(0).(func(context.Context, string) string); ok {
		return fn(ctx, ref), args.Error(1)
	}
	return args.String(0), args.Error(1)
}

type MockListingRepository struct{ mock.Mock }

func (m *MockListingRepository) Create(ctx context.Context, listing *domain.BusinessListing) (string, error) {
	args := m.Called(ctx, listing)
	return args.String(0), args.Error(1)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) PublishBusinessRegistered(ctx context.Context, listing *domain.BusinessListing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

type MockMailer struct{ mock.Mock }

func (m *MockMailer) SendListingCreatedEmail(ctx context.Context, toEmail, ownerName, businessName string) error {
	args := m.Called(ctx, toEmail, ownerName, businessName)
	return args.Error(0)
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent map[string][]notify.Notification
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{sent: make(map[string][]notify.Notification)}
}

func (r *recordingNotifier) Notify(userID string, n notify.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent[userID] = append(r.sent[userID], n)
}

func (r *recordingNotifier) For(userID string) []notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Notification(nil), r.sent[userID]...)
}

func memFile(name, contentType string, data []byte) domain.MediaFile {
	return domain.MediaFile{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

var nopLogger = logger.NewNop()

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func fixedUploader(storage domain.Storage, thumbnails bool) *Uploader {
	u := NewUploader(storage, nil, nopLogger, thumbnails)
	u.now = func() time.Time { return fixedNow }
	u.token = func() string { return "abc1234" }
	return u
}
