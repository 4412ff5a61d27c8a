package usecase

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	authdomain "github.com/PartyAppOfficial/Partyapp/internal/auth/domain"
	"github.com/PartyAppOfficial/Partyapp/internal/listing/domain"
	"github.com/PartyAppOfficial/Partyapp/internal/notify"
	"github.com/PartyAppOfficial/Partyapp/internal/platform/logger"
	"github.com/PartyAppOfficial/Partyapp/internal/platform/metrics"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("partyapp/registration")

// Notification texts of the registration flow.
const (
	MsgLoginRequired     = "You must log in to register a business"
	MsgUploading         = "Uploading files..."
	MsgRegistered        = "Business registered successfully!"
	MsgSaveFailed        = "Error saving. Please try again."
	MsgFieldsRequired    = "Please fill in all required fields"
	MsgAlreadySubmitting = "Your business is already being saved. Please wait."
)

// AuthTabLogin is the tab the page opens when a guest submits.
const AuthTabLogin = "login"

const submitGuardTTL = 2 * time.Minute

type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateUploading  State = "uploading"
	StatePersisting State = "persisting"
	StateDone       State = "done"
)

// Submission is one press of the submit button.
type Submission struct {
	Session *authdomain.Session
	Form    domain.RegistrationForm
	Media   domain.MediaSelection

	state   State
	history []State
}

func (s *Submission) State() State { return s.state }

// History lists every state the submission went through, starting at Idle.
func (s *Submission) History() []State { return append([]State(nil), s.history...) }

func (s *Submission) enter(st State) {
	s.state = st
	s.history = append(s.history, st)
}

// Result is what the page needs to render after a submission.
type Result struct {
	Success       bool                    `json:"success"`
	State         State                   `json:"state"`
	Listing       *domain.BusinessListing `json:"listing,omitempty"`
	Notifications []notify.Notification   `json:"notifications"`
	FieldErrors   map[string]string       `json:"fieldErrors,omitempty"`
	OpenAuthTab   string                  `json:"openAuthTab,omitempty"`
	ResetForm     bool                    `json:"resetForm"`
}

func (r *Result) add(n notify.Notification) {
	r.Notifications = append(r.Notifications, n)
}

type RegistrationUsecase struct {
	repo     domain.ListingRepository
	uploader *Uploader
	files    *FileValidator
	guard    domain.SubmitGuard
	notifier notify.Notifier
	events   domain.EventPublisher
	mailer   domain.Mailer
	metrics  *metrics.MetricsManager
	validate *validator.Validate
	logger   *logger.Logger
	now      func() time.Time
}

func NewRegistrationUsecase(
	repo domain.ListingRepository,
	uploader *Uploader,
	guard domain.SubmitGuard,
	notifier notify.Notifier,
	events domain.EventPublisher,
	mailer domain.Mailer,
	mm *metrics.MetricsManager,
	log *logger.Logger,
) *RegistrationUsecase {
	if guard == nil {
		guard = NewMemorySubmitGuard()
	}
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	return &RegistrationUsecase{
		repo:     repo,
		uploader: uploader,
		files:    NewFileValidator(),
		guard:    guard,
		notifier: notifier,
		events:   events,
		mailer:   mailer,
		metrics:  mm,
		validate: newFormValidator(),
		logger:   log.Named("RegistrationUsecase"),
		now:      time.Now,
	}
}

// newFormValidator reports field errors under the form's wire names.
func newFormValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Register runs one submission through the state machine. The returned
// Result is always non-nil; the error tells which step stopped it.
func (uc *RegistrationUsecase) Register(ctx context.Context, sub *Submission) (*Result, error) {
	ctx, span := tracer.Start(ctx, "Registration.Register")
	defer span.End()

	sub.state, sub.history = "", nil
	sub.enter(StateIdle)
	res := &Result{State: StateIdle}

	if sub.Session == nil {
		res.add(notify.Error(MsgLoginRequired))
		res.OpenAuthTab = AuthTabLogin
		uc.outcome("auth_required")
		return res, domain.ErrAuthRequired
	}
	userID := sub.Session.UserID
	span.SetAttributes(attribute.String("user_id", userID))

	guardToken, acquired, err := uc.guard.Acquire(ctx, userID, submitGuardTTL)
	if err != nil {
		uc.logger.Warn("RegistrationUsecase.Register: submit guard unavailable, continuing", zap.String("userID", userID), zap.Error(err))
	} else if !acquired {
		res.add(notify.Info(MsgAlreadySubmitting))
		uc.outcome("duplicate")
		return res, domain.ErrSubmissionInProgress
	}
	if acquired {
		defer func() {
			if err := uc.guard.Release(context.WithoutCancel(ctx), userID, guardToken); err != nil {
				uc.logger.Warn("RegistrationUsecase.Register: failed to release submit guard", zap.String("userID", userID), zap.Error(err))
			}
		}()
	}

	sub.enter(StateValidating)
	if fieldErrs := uc.validateForm(ctx, &sub.Form); len(fieldErrs) > 0 {
		sub.enter(StateIdle)
		res.State = StateIdle
		res.FieldErrors = fieldErrs
		res.add(notify.Error(MsgFieldsRequired))
		uc.outcome("invalid_form")
		return res, domain.ErrInvalidListingData
	}
	if check := uc.files.Validate(sub.Media.Images, sub.Media.Videos); !check.Valid {
		sub.enter(StateIdle)
		res.State = StateIdle
		res.add(notify.Error(check.Message))
		uc.outcome("invalid_media")
		return res, fmt.Errorf("%w: %s", domain.ErrInvalidMedia, check.Message)
	}

	sub.enter(StateUploading)
	uploading := notify.Info(MsgUploading)
	res.add(uploading)
	uc.notifier.Notify(userID, uploading)
	images, video := uc.upload(ctx, sub.Media)

	sub.enter(StatePersisting)
	listing := uc.assemble(sub, images, video)
	id, err := uc.persist(ctx, listing)

	sub.enter(StateDone)
	res.State = StateDone
	if err != nil {
		uc.logger.Error("RegistrationUsecase.Register: failed to save listing", zap.String("userID", userID), zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist failed")
		res.add(notify.Error(MsgSaveFailed))
		uc.outcome("error")
		return res, fmt.Errorf("%w: %v", domain.ErrPersistFailed, err)
	}
	listing.ID = id

	uc.logger.Info("RegistrationUsecase.Register: business registered",
		zap.String("listingID", id), zap.String("userID", userID), zap.Int("images", len(listing.Images)))
	res.Success = true
	res.Listing = listing
	res.ResetForm = true
	res.add(notify.Success(MsgRegistered))
	uc.outcome("success")

	uc.announce(ctx, listing)
	return res, nil
}

func (uc *RegistrationUsecase) validateForm(ctx context.Context, form *domain.RegistrationForm) map[string]string {
	_, span := tracer.Start(ctx, "Registration.Validate")
	defer span.End()

	form.Website = strings.TrimSpace(form.Website)
	err := uc.validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"form": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			out[fe.Field()] = "This field is required"
		case "email":
			out[fe.Field()] = "Invalid email address"
		case "url":
			out[fe.Field()] = "Invalid URL"
		default:
			out[fe.Field()] = fmt.Sprintf("Invalid value (%s)", fe.Tag())
		}
	}
	return out
}

// upload runs the image batch and the video upload concurrently.
func (uc *RegistrationUsecase) upload(ctx context.Context, media domain.MediaSelection) (ImageBatch, *string) {
	ctx, span := tracer.Start(ctx, "Registration.Upload", oteltrace.WithAttributes(
		attribute.Int("images", len(media.Images)),
		attribute.Bool("video", media.Video() != nil),
	))
	defer span.End()

	var (
		wg     sync.WaitGroup
		images ImageBatch
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		images = uc.uploader.UploadImages(ctx, media.Images)
	}()
	video := uc.uploader.UploadOne(ctx, media.Video())
	wg.Wait()

	span.SetAttributes(attribute.Int("uploaded_images", len(images.URLs)))
	return images, video
}

func (uc *RegistrationUsecase) assemble(sub *Submission, images ImageBatch, video *string) *domain.BusinessListing {
	lat, _ := strconv.ParseFloat(strings.TrimSpace(sub.Form.Latitude), 64)
	lng, _ := strconv.ParseFloat(strings.TrimSpace(sub.Form.Longitude), 64)
	f := sub.Form
	return &domain.BusinessListing{
		BusinessName:     f.BusinessName,
		BusinessType:     f.BusinessType,
		OwnerName:        f.OwnerName,
		Email:            f.Email,
		Phone:            f.Phone,
		Address:          f.Address,
		FormattedAddress: f.FormattedAddress,
		Latitude:         lat,
		Longitude:        lng,
		Description:      f.Description,
		Website:          f.Website,
		Images:           images.URLs,
		Thumbnails:       images.Thumbnails,
		Video:            video,
		CreatedAt:        uc.now().UTC(),
		UserID:           sub.Session.UserID,
		UserEmail:        sub.Session.Email,
		Status:           domain.StatusPending,
	}
}

func (uc *RegistrationUsecase) persist(ctx context.Context, listing *domain.BusinessListing) (string, error) {
	ctx, span := tracer.Start(ctx, "Registration.Persist")
	defer span.End()
	id, err := uc.repo.Create(ctx, listing)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	span.SetAttributes(attribute.String("listing_id", id))
	return id, nil
}

// announce publishes the event and mails the owner. Both are best-effort.
func (uc *RegistrationUsecase) announce(ctx context.Context, listing *domain.BusinessListing) {
	if uc.events != nil {
		if err := uc.events.PublishBusinessRegistered(ctx, listing); err != nil {
			uc.logger.Warn("RegistrationUsecase: failed to publish business.registered", zap.String("listingID", listing.ID), zap.Error(err))
		}
	}
	if uc.mailer != nil {
		if err := uc.mailer.SendListingCreatedEmail(ctx, listing.Email, listing.OwnerName, listing.BusinessName); err != nil {
			uc.logger.Warn("RegistrationUsecase: failed to send confirmation email", zap.String("listingID", listing.ID), zap.Error(err))
		}
	}
}

func (uc *RegistrationUsecase) outcome(o string) {
	if uc.metrics != nil {
		uc.metrics.RegistrationsTotal.WithLabelValues(o).Inc()
	}
}

// CheckMedia is the field-change check of the file inputs.
func (uc *RegistrationUsecase) CheckMedia(media domain.MediaSelection) ValidationResult {
	return uc.files.SelectionFeedback(media.Images, media.Videos)
}
