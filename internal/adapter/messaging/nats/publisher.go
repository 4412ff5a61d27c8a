package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"time"

	authdomain "github.com/PartyAppOfficial/Partyapp/internal/auth/domain"
	"github.com/PartyAppOfficial/Partyapp/internal/listing/domain"
	"github.com/PartyAppOfficial/Partyapp/internal/platform/logger"
	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("partyapp/events")

// Publisher emits the directory events as JSON with the trace context in
// the message headers. It satisfies both the listing and the session
// event ports.
type Publisher struct {
	conn   *nats.Conn
	logger *logger.Logger
	now    func() time.Time
}

func NewPublisher(url string, log *logger.Logger, appName string) (*Publisher, error) {
	log = log.Named("EventPublisher")

	conn, err := nats.Connect(url, connOptions(appName, log)...)
	if err != nil {
		log.Error("EventPublisher.Connect: failed", zap.String("url", url), zap.Error(err))
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}
	log.Info("EventPublisher.Connect: connected", zap.String("url", conn.ConnectedUrl()))

	return &Publisher{conn: conn, logger: log, now: time.Now}, nil
}

func connOptions(appName string, log *logger.Logger) []nats.Option {
	return []nats.Option{
		nats.Name(appName + " events"),
		nats.Timeout(10 * time.Second),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.ErrorHandler(func(_ *nats.Conn, sub *nats.Subscription, err error) {
			fields := []zap.Field{zap.Error(err)}
			if sub != nil {
				fields = append(fields, zap.String("subject", sub.Subject))
			}
			log.Error("EventPublisher: async error", fields...)
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("EventPublisher: disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("EventPublisher: reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	}
}

// Publish marshals payload and sends it on subject.
func (p *Publisher) Publish(ctx context.Context, subject string, payload any) error {
	ctx, span := tracer.Start(ctx, "publish "+subject,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "nats"),
			attribute.String("messaging.destination.name", subject),
		),
	)
	defer span.End()

	body, err := json.Marshal(payload)
	if err != nil {
		span.SetStatus(codes.Error, "marshal")
		return fmt.Errorf("marshal %s event: %w", subject, err)
	}
	span.SetAttributes(attribute.Int("messaging.message.body.size", len(body)))

	msg := &nats.Msg{Subject: subject, Data: body, Header: nats.Header{}}
	otel.GetTextMapPropagator().Inject(ctx, HeaderCarrier(msg.Header))

	if err := p.conn.PublishMsg(msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "publish")
		p.logger.Error("Publisher.Publish: failed", zap.String("subject", subject), zap.Error(err))
		return fmt.Errorf("publish %s event: %w", subject, err)
	}
	p.logger.Debug("Publisher.Publish: sent", zap.String("subject", subject), zap.Int("bytes", len(body)))
	return nil
}

func (p *Publisher) PublishBusinessRegistered(ctx context.Context, listing *domain.BusinessListing) error {
	return p.Publish(ctx, SubjectBusinessRegistered, NewBusinessRegisteredEvent(listing))
}

func (p *Publisher) PublishSessionChanged(ctx context.Context, userID string, session *authdomain.Session) error {
	return p.Publish(ctx, SubjectSessionChanged, NewSessionChangedEvent(userID, session, p.now()))
}

// HeaderCarrier adapts nats.Header to the otel text map carrier.
type HeaderCarrier nats.Header

func (c HeaderCarrier) Get(key string) string { return nats.Header(c).Get(key) }

func (c HeaderCarrier) Set(key, value string) { nats.Header(c).Set(key, value) }

func (c HeaderCarrier) Keys() []string { return slices.Collect(maps.Keys(c)) }

// Close flushes pending messages before closing the connection.
func (p *Publisher) Close() {
	if p.conn == nil || p.conn.IsClosed() {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.logger.Warn("Publisher.Close: drain failed", zap.Error(err))
		p.conn.Close()
	}
}
