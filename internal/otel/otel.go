package otel

import (
	"context"
	"sync"

	eventbus "github.com/hanpama/odmgraph/internal/eventbus"
	events "github.com/hanpama/odmgraph/internal/events"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
)

// Setup configures OpenTelemetry and attaches eventbus subscribers.
// If endpoint is empty, no telemetry is configured.
func Setup(endpoint, service string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	exp, err := otlptracegrpc.New(context.Background(),
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithDialOption(grpc.WithInsecure()))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(service),
		)),
	)
	otel.SetTracerProvider(tp)

	sub := newSubscriber(otel.Tracer("odmgraph"))
	sub.register()

	return tp.Shutdown, nil
}

// subscriber turns assembly events into one span per assembly. Registration
// and resolution events become span events on the active assembly span.
type subscriber struct {
	tracer trace.Tracer
	mu     sync.Mutex
	span   trace.Span
}

func newSubscriber(tracer trace.Tracer) *subscriber {
	return &subscriber{tracer: tracer}
}

func (s *subscriber) register() {
	eventbus.Subscribe(func(ctx context.Context, e events.AssemblyStart) {
		_, span := s.tracer.Start(ctx, "schema.assemble")
		span.SetAttributes(
			attribute.String("odmgraph.source", e.Source),
			attribute.Int("odmgraph.models", e.Models),
		)
		s.mu.Lock()
		s.span = span
		s.mu.Unlock()
	})

	eventbus.Subscribe(func(ctx context.Context, e events.TypeRegistered) {
		if span := s.active(); span != nil {
			span.AddEvent("type.registered", trace.WithAttributes(
				attribute.String("graphql.type", e.Type),
				attribute.String("odm.model", e.Model),
				attribute.Int("graphql.fields", e.Fields),
			))
		}
	})

	eventbus.Subscribe(func(ctx context.Context, e events.FieldsResolved) {
		if span := s.active(); span != nil {
			span.AddEvent("fields.resolved", trace.WithAttributes(
				attribute.String("graphql.type", e.Type),
				attribute.StringSlice("graphql.fields", e.Fields),
			))
		}
	})

	eventbus.Subscribe(func(ctx context.Context, e events.AssemblyFinish) {
		s.mu.Lock()
		span := s.span
		s.span = nil
		s.mu.Unlock()
		if span == nil {
			return
		}
		span.SetAttributes(
			attribute.Int("odmgraph.types", e.Types),
			attribute.Int("odmgraph.unresolved", e.Unresolved),
		)
		if e.Err != nil {
			span.RecordError(e.Err)
			span.SetStatus(codes.Error, e.Err.Error())
		}
		span.End()
	})
}

func (s *subscriber) active() trace.Span {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.span
}
