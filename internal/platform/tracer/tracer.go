package tracer

import (
	"context"
	"fmt"
	"time"

	"github.com/PartyAppOfficial/Partyapp/internal/platform/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const exporterSetupTimeout = 10 * time.Second

// InitTracer installs the global provider and the W3C propagators. The
// propagators are set even when export is off so trace headers still flow
// from the HTTP layer into published events.
func InitTracer(serviceName, otlpEndpoint string, appLogger *logger.Logger) *sdktrace.TracerProvider {
	log := appLogger.Named("Tracer")
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	opts := []sdktrace.TracerProviderOption{sdktrace.WithResource(serviceResource(serviceName))}
	if otlpEndpoint == "" {
		log.Info("Tracer.Init: export disabled, OTEL_EXPORTER_OTLP_ENDPOINT is empty")
	} else if exporter, err := newExporter(otlpEndpoint); err != nil {
		log.Error("Tracer.Init: exporter unavailable, spans stay local", zap.String("endpoint", otlpEndpoint), zap.Error(err))
	} else {
		opts = append(opts, sdktrace.WithBatcher(exporter))
		log.Info("Tracer.Init: exporting spans", zap.String("service_name", serviceName), zap.String("endpoint", otlpEndpoint))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	return tp
}

func newExporter(endpoint string) (sdktrace.SpanExporter, error) {
	conn, err := grpc.NewClient(endpoint, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("otlp grpc client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), exporterSetupTimeout)
	defer cancel()
	exporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("otlp trace exporter: %w", err)
	}
	return exporter, nil
}

func serviceResource(serviceName string) *resource.Resource {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(semconv.ServiceNameKey.String(serviceName)),
	)
	if err != nil {
		return resource.NewSchemaless(semconv.ServiceNameKey.String(serviceName))
	}
	return res
}
