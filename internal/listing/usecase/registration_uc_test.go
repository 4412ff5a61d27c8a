package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	authdomain "github.com/PartyAppOfficial/Partyapp/internal/auth/domain"
	"github.com/PartyAppOfficial/Partyapp/internal/listing/domain"
	"github.com/PartyAppOfficial/Partyapp/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type registrationFixture struct {
	uc       *RegistrationUsecase
	repo     *MockListingRepository
	storage  *MockStorage
	events   *MockEventPublisher
	mailer   *MockMailer
	guard    *MemorySubmitGuard
	notifier *recordingNotifier
}

func newRegistrationFixture() *registrationFixture {
	f := &registrationFixture{
		repo:     new(MockListingRepository),
		storage:  new(MockStorage),
		events:   new(MockEventPublisher),
		mailer:   new(MockMailer),
		guard:    NewMemorySubmitGuard(),
		notifier: newRecordingNotifier(),
	}
	f.uc = NewRegistrationUsecase(f.repo, fixedUploader(f.storage, false), f.guard, f.notifier, f.events, f.mailer, nil, nopLogger)
	f.uc.now = func() time.Time { return fixedNow }
	return f
}

// storeEverything makes every Put succeed except for names in failing.
func (f *registrationFixture) storeEverything(failing ...string) {
	fails := func(key string) bool {
		for _, name := range failing {
			if strings.HasSuffix(key, "_"+name) {
				return true
			}
		}
		return false
	}
	f.storage.On("Put", mock.Anything, mock.MatchedBy(fails), mock.Anything, mock.Anything).Return("", errors.New("upload failed"))
	f.storage.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool { return !fails(key) }), mock.Anything, mock.Anything).
		Return(func(_ context.Context, key, _ string, _ int64) string { return key }, nil)
	f.storage.On("PublicURL", mock.Anything, mock.AnythingOfType("string")).
		Return(func(_ context.Context, ref string) string { return "https://cdn.example.com/" + ref }, nil)
}

var session = &authdomain.Session{UserID: "u1", Email: "owner@example.com", DisplayName: "Ana"}

func validForm() domain.RegistrationForm {
	return domain.RegistrationForm{
		BusinessName:     "Tacos El Güero",
		BusinessType:     "restaurant",
		OwnerName:        "Ana López",
		Email:            "tacos@example.com",
		Phone:            "+52 55 1234 5678",
		Address:          "Av. Juárez 10",
		FormattedAddress: "Av. Juárez 10, Centro, CDMX, Mexico",
		Latitude:         "19.432608",
		Longitude:        "-99.133209",
		Description:      "Best tacos downtown",
	}
}

func TestRegister_GuestIsRejectedBeforeAnything(t *testing.T) {
	f := newRegistrationFixture()

	sub := &Submission{Form: validForm(), Media: domain.MediaSelection{Images: []domain.MediaFile{memFile("a.jpg", "image/jpeg", []byte("a"))}}}
	res, err := f.uc.Register(context.Background(), sub)

	assert.ErrorIs(t, err, domain.ErrAuthRequired)
	require.NotNil(t, res)
	assert.Equal(t, AuthTabLogin, res.OpenAuthTab)
	require.Len(t, res.Notifications, 1)
	assert.Equal(t, notify.KindError, res.Notifications[0].Kind)
	assert.Equal(t, "You must log in to register a business", res.Notifications[0].Message)
	assert.Equal(t, []State{StateIdle}, sub.History())
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.storage.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRegister_MissingFields(t *testing.T) {
	f := newRegistrationFixture()
	form := validForm()
	form.BusinessName = ""
	form.Latitude = "not-a-number"

	sub := &Submission{Session: session, Form: form}
	res, err := f.uc.Register(context.Background(), sub)

	assert.ErrorIs(t, err, domain.ErrInvalidListingData)
	assert.Equal(t, StateIdle, res.State)
	assert.Contains(t, res.FieldErrors, "businessName")
	assert.Contains(t, res.FieldErrors, "latitude")
	assert.Equal(t, []State{StateIdle, StateValidating, StateIdle}, sub.History())
	f.storage.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRegister_InvalidMedia(t *testing.T) {
	f := newRegistrationFixture()
	var imgs []domain.MediaFile
	for i := 0; i < 6; i++ {
		imgs = append(imgs, memFile(fmt.Sprintf("p%d.jpg", i), "image/jpeg", []byte("x")))
	}

	sub := &Submission{Session: session, Form: validForm(), Media: domain.MediaSelection{Images: imgs}}
	res, err := f.uc.Register(context.Background(), sub)

	assert.ErrorIs(t, err, domain.ErrInvalidMedia)
	require.Len(t, res.Notifications, 1)
	assert.Equal(t, "You can only upload maximum 5 images. You have selected 6.", res.Notifications[0].Message)
	assert.Equal(t, StateIdle, sub.State())
	assert.Empty(t, f.notifier.For("u1"))
	f.storage.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_Success(t *testing.T) {
	f := newRegistrationFixture()
	f.storeEverything("b.jpg")

	var saved *domain.BusinessListing
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.BusinessListing")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*domain.BusinessListing) }).
		Return("listing-1", nil)
	f.events.On("PublishBusinessRegistered", mock.Anything, mock.AnythingOfType("*domain.BusinessListing")).Return(nil)
	f.mailer.On("SendListingCreatedEmail", mock.Anything, "tacos@example.com", "Ana López", "Tacos El Güero").Return(nil)

	video := memFile("tour.mp4", "video/mp4", []byte("mp4"))
	sub := &Submission{
		Session: session,
		Form:    validForm(),
		Media: domain.MediaSelection{
			Images: []domain.MediaFile{
				memFile("a.jpg", "image/jpeg", []byte("a")),
				memFile("b.jpg", "image/jpeg", []byte("b")),
				memFile("c.png", "image/png", []byte("c")),
			},
			Videos: []domain.MediaFile{video},
		},
	}
	res, err := f.uc.Register(context.Background(), sub)
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.True(t, res.ResetForm)
	assert.Equal(t, StateDone, res.State)
	assert.Equal(t, []State{StateIdle, StateValidating, StateUploading, StatePersisting, StateDone}, sub.History())

	require.Len(t, res.Notifications, 2)
	assert.Equal(t, notify.Info("Uploading files..."), res.Notifications[0])
	assert.Equal(t, notify.Success("Business registered successfully!"), res.Notifications[1])
	assert.Equal(t, []notify.Notification{notify.Info("Uploading files...")}, f.notifier.For("u1"))

	require.NotNil(t, saved)
	assert.Equal(t, "listing-1", res.Listing.ID)
	assert.Len(t, saved.Images, 2, "one image failed and must be dropped")
	assert.True(t, strings.HasSuffix(saved.Images[0], "_a.jpg"))
	assert.True(t, strings.HasSuffix(saved.Images[1], "_c.png"))
	require.NotNil(t, saved.Video)
	assert.Contains(t, *saved.Video, "business-videos/")
	assert.InDelta(t, 19.432608, saved.Latitude, 1e-9)
	assert.InDelta(t, -99.133209, saved.Longitude, 1e-9)
	assert.Equal(t, "u1", saved.UserID)
	assert.Equal(t, "owner@example.com", saved.UserEmail)
	assert.Equal(t, domain.StatusPending, saved.Status)
	assert.Equal(t, fixedNow, saved.CreatedAt)

	f.events.AssertExpectations(t)
	f.mailer.AssertExpectations(t)

	_, ok, _ := f.guard.Acquire(context.Background(), "u1", time.Minute)
	assert.True(t, ok, "guard must be released after success")
}

func TestRegister_AllUploadsFailStillPersists(t *testing.T) {
	f := newRegistrationFixture()
	f.storeEverything("a.jpg", "tour.mp4")
	f.repo.On("Create", mock.Anything, mock.MatchedBy(func(l *domain.BusinessListing) bool {
		return len(l.Images) == 0 && l.Video == nil
	})).Return("listing-2", nil)
	f.events.On("PublishBusinessRegistered", mock.Anything, mock.Anything).Return(errors.New("nats down"))
	f.mailer.On("SendListingCreatedEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	sub := &Submission{Session: session, Form: validForm(), Media: domain.MediaSelection{
		Images: []domain.MediaFile{memFile("a.jpg", "image/jpeg", []byte("a"))},
		Videos: []domain.MediaFile{memFile("tour.mp4", "video/mp4", []byte("v"))},
	}}
	res, err := f.uc.Register(context.Background(), sub)

	require.NoError(t, err)
	assert.True(t, res.Success)
	f.repo.AssertExpectations(t)
}

func TestRegister_PersistFailure(t *testing.T) {
	f := newRegistrationFixture()
	f.repo.On("Create", mock.Anything, mock.Anything).Return("", errors.New("write concern timeout"))

	sub := &Submission{Session: session, Form: validForm()}
	res, err := f.uc.Register(context.Background(), sub)

	assert.ErrorIs(t, err, domain.ErrPersistFailed)
	assert.False(t, res.Success)
	assert.False(t, res.ResetForm)
	assert.Equal(t, StateDone, res.State)
	assert.Equal(t, notify.Error("Error saving. Please try again."), res.Notifications[len(res.Notifications)-1])
	f.events.AssertNotCalled(t, "PublishBusinessRegistered", mock.Anything, mock.Anything)
	f.mailer.AssertNotCalled(t, "SendListingCreatedEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	_, ok, _ := f.guard.Acquire(context.Background(), "u1", time.Minute)
	assert.True(t, ok, "guard must be released after failure")
}

func TestRegister_SecondSubmissionWhileInFlight(t *testing.T) {
	f := newRegistrationFixture()
	_, ok, err := f.guard.Acquire(context.Background(), "u1", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	res, err := f.uc.Register(context.Background(), &Submission{Session: session, Form: validForm()})

	assert.ErrorIs(t, err, domain.ErrSubmissionInProgress)
	assert.False(t, res.Success)
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCheckMedia(t *testing.T) {
	f := newRegistrationFixture()
	res := f.uc.CheckMedia(domain.MediaSelection{Images: []domain.MediaFile{memFile("a.jpg", "image/jpeg", []byte("a"))}})
	assert.True(t, res.Valid)
	assert.Equal(t, "1 image(s) selected", res.Message)
}

func TestMemorySubmitGuard_Expires(t *testing.T) {
	g := NewMemorySubmitGuard()
	now := fixedNow
	g.nowFunc = func() time.Time { return now }

	_, ok, _ := g.Acquire(context.Background(), "u1", time.Minute)
	assert.True(t, ok)
	_, ok, _ = g.Acquire(context.Background(), "u1", time.Minute)
	assert.False(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok, _ = g.Acquire(context.Background(), "u1", time.Minute)
	assert.True(t, ok)
}

func TestMemorySubmitGuard_StaleReleaseKeepsNewOwner(t *testing.T) {
	ctx := context.Background()
	g := NewMemorySubmitGuard()
	now := fixedNow
	g.nowFunc = func() time.Time { return now }

	first, ok, _ := g.Acquire(ctx, "u1", time.Minute)
	require.True(t, ok)

	now = now.Add(2 * time.Minute)
	second, ok, _ := g.Acquire(ctx, "u1", time.Minute)
	require.True(t, ok)
	require.NotEqual(t, first, second)

	require.NoError(t, g.Release(ctx, "u1", first))
	_, ok, _ = g.Acquire(ctx, "u1", time.Minute)
	assert.False(t, ok, "stale release must not free the new owner's slot")

	require.NoError(t, g.Release(ctx, "u1", second))
	_, ok, _ = g.Acquire(ctx, "u1", time.Minute)
	assert.True(t, ok)
}
