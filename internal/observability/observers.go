package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/signalsfoundry/saturn-connectors/connector"
	"github.com/signalsfoundry/saturn-connectors/internal/logging"
)

const tracerName = "github.com/signalsfoundry/saturn-connectors/connector"

// TracingObserver emits one span per connector round trip.
type TracingObserver struct {
	ctx    context.Context
	tracer trace.Tracer
}

// NewTracingObserver uses the global tracer provider when tp is nil. Spans
// are parented on ctx.
func NewTracingObserver(ctx context.Context, tp trace.TracerProvider) *TracingObserver {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return &TracingObserver{ctx: ctx, tracer: tp.Tracer(tracerName)}
}

// Observe implements connector.Observer.
func (o *TracingObserver) Observe(ev connector.Event) {
	start := ev.Start
	if start.IsZero() {
		start = time.Now()
	}
	_, span := o.tracer.Start(o.ctx, ev.Name,
		trace.WithTimestamp(start),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("connector.channel", ev.Channel.String()),
			attribute.String("connector.direction", ev.Direction.String()),
			attribute.Int("connector.message_type", int(ev.Type)),
			attribute.String("connector.from", string(ev.From)),
			attribute.String("connector.to", string(ev.To)),
			attribute.String("connector.outcome", ev.Outcome.String()),
		),
	)
	if !ev.Outcome.OK() {
		span.SetStatus(codes.Error, ev.Outcome.String())
	}
	span.End(trace.WithTimestamp(start.Add(ev.Duration)))
}

// LogObserver writes round trips to a structured logger. Failed round
// trips are logged at debug; delivered ones only when Verbose is set.
type LogObserver struct {
	Log     logging.Logger
	Verbose bool
}

// Observe implements connector.Observer.
func (o LogObserver) Observe(ev connector.Event) {
	if o.Log == nil || (ev.Outcome.OK() && !o.Verbose) {
		return
	}
	o.Log.Debug(context.Background(), "connector round trip",
		logging.String("channel", ev.Channel.String()),
		logging.String("message", ev.Name),
		logging.String("outcome", ev.Outcome.String()),
		logging.String("from", string(ev.From)),
		logging.String("to", string(ev.To)),
		logging.Any("duration", ev.Duration),
	)
}
