// Package contact delivers the site's contact form to the inbox.
package contact

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/PartyAppOfficial/Partyapp/internal/notify"
	"github.com/PartyAppOfficial/Partyapp/internal/platform/logger"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	MsgSent   = "Mensaje enviado correctamente. Te responderemos pronto."
	MsgFailed = "Error al enviar el mensaje. Por favor intenta de nuevo."
	MsgFields = "Please fill all fields"
)

var (
	ErrInvalidMessage = errors.New("invalid contact message")
	ErrDelivery       = errors.New("contact message delivery failed")
)

type Message struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=300"`
	Message string `json:"message" validate:"required,max=5000"`
}

type Sender interface {
	SendContactMessage(ctx context.Context, m Message) error
}

// InvalidError lists the rejected fields under their wire names.
type InvalidError struct {
	Fields map[string]string
}

func (e *InvalidError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	return fmt.Sprintf("%v: %s", ErrInvalidMessage, strings.Join(names, ", "))
}

func (e *InvalidError) Unwrap() error { return ErrInvalidMessage }

type Service struct {
	sender   Sender
	validate *validator.Validate
	logger   *logger.Logger
}

func NewService(sender Sender, log *logger.Logger) *Service {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})
	return &Service{sender: sender, validate: v, logger: log.Named("ContactService")}
}

// Submit validates m and hands it to the mailer. The notification is what
// the page shows in either case.
func (s *Service) Submit(ctx context.Context, m Message) (notify.Notification, error) {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.TrimSpace(m.Email)
	m.Subject = strings.TrimSpace(m.Subject)
	m.Message = strings.TrimSpace(m.Message)

	if err := s.validate.Struct(m); err != nil {
		fields := map[string]string{}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				if fe.Tag() == "email" {
					fields[fe.Field()] = "Invalid email address"
				} else {
					fields[fe.Field()] = "This field is required"
				}
			}
		}
		return notify.Error(MsgFields), &InvalidError{Fields: fields}
	}

	if s.sender == nil {
		s.logger.Error("ContactService.Submit: no mail transport configured", zap.String("from", m.Email))
		return notify.Error(MsgFailed), fmt.Errorf("%w: no mail transport", ErrDelivery)
	}
	if err := s.sender.SendContactMessage(ctx, m); err != nil {
		s.logger.Error("ContactService.Submit: failed to send message", zap.String("from", m.Email), zap.Error(err))
		return notify.Error(MsgFailed), fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	s.logger.Info("ContactService.Submit: message delivered", zap.String("from", m.Email))
	return notify.Success(MsgSent), nil
}
