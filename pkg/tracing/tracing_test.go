package tracing

import (
	"context"
	"errors"
	"testing"

	. "github.com/onsi/gomega"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSpanWrapper(t *testing.T) {
	RegisterTestingT(t)

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	var traceID string
	err := SpanWrapper(context.Background(), "ok", []attribute.KeyValue{attribute.String("k", "v")}, func(ctx context.Context) error {
		traceID = GetTraceID(ctx)
		return nil
	})
	Expect(err).To(BeNil())
	Expect(traceID).ToNot(BeEmpty())

	boom := errors.New("boom")
	err = SpanWrapper(context.Background(), "fail", nil, func(ctx context.Context) error {
		return boom
	})
	Expect(err).To(MatchError(boom))

	spans := recorder.Ended()
	Expect(spans).To(HaveLen(2))
	Expect(spans[0].Name()).To(Equal("ok"))
	Expect(spans[1].Status().Code).To(Equal(codes.Error))
}

func TestGetTraceID_NoSpan(t *testing.T) {
	RegisterTestingT(t)

	Expect(GetTraceID(context.Background())).To(BeEmpty())
}
