package restyutil

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentOutput receives one dump per finished request, keyed by a
// sequential message id.
type InstrumentOutput interface {
	Write(id string, contents string)
}

type instrumentCtx struct {
	output    InstrumentOutput
	tracer    trace.Tracer
	idcounter *uint64
}

// InstrumentClient traces every request of the client and writes a dump of it
// to output. Credentials in query strings never reach the dump or the span.
//
// `tracer` can be nil, it will default to a library name of "resty"
// `output` can also be nil, if it is, then the function is a no-op
func InstrumentClient(client *resty.Client, tracer trace.Tracer, output InstrumentOutput) {
	if output == nil {
		return
	}
	if tracer == nil {
		tracer = otel.Tracer("resty")
	}

	var idcounter uint64
	i := instrumentCtx{output: output, tracer: tracer, idcounter: &idcounter}
	client.OnBeforeRequest(i.onBeforeRequest)
	client.OnAfterResponse(i.onAfterResponse)
	client.OnError(i.onError)
}

type messageIdKeyType int

var messageIdKey messageIdKeyType

func (i instrumentCtx) onBeforeRequest(_ *resty.Client, req *resty.Request) error {
	ctx, _ := i.tracer.Start(req.Context(), fmt.Sprintf("http %s", req.Method))

	messageId := strconv.FormatUint(atomic.AddUint64(i.idcounter, 1), 10)
	slog.DebugContext(
		ctx, "start request",
		"method", req.Method,
		"url", RedactUrl(req.URL),
		"message_id", messageId,
	)
	ctx = context.WithValue(ctx, messageIdKey, messageId)

	req.SetContext(ctx)
	return nil
}

func (i instrumentCtx) onAfterResponse(_ *resty.Client, res *resty.Response) error {
	ctx := res.Request.Context()
	span := trace.SpanFromContext(ctx)
	defer span.End()

	span.SetAttributes(
		attribute.String("http.method", res.Request.Method),
		attribute.String("http.url", RedactUrl(res.Request.URL)),
		attribute.Int("http.status_code", res.StatusCode()),
	)

	messageId, ok := ctx.Value(messageIdKey).(string)
	if !ok {
		panic("failed to retrieve message_id from context")
	}
	i.output.Write(messageId, formatDump(res))
	slog.DebugContext(
		ctx, "request finished",
		"method", res.Request.Method,
		"url", RedactUrl(res.Request.URL),
		"status", res.StatusCode(),
		"message_id", messageId,
	)

	return nil
}

func (i instrumentCtx) onError(req *resty.Request, err error) {
	ctx := req.Context()
	span := trace.SpanFromContext(ctx)
	defer span.End()

	span.RecordError(err)
	span.SetStatus(codes.Error, "request failed")
	span.SetAttributes(
		attribute.String("http.method", req.Method),
		attribute.String("http.url", RedactUrl(req.URL)),
	)

	messageId, _ := ctx.Value(messageIdKey).(string)
	slog.ErrorContext(
		ctx, "request failed",
		"method", req.Method,
		"url", RedactUrl(req.URL),
		"err", err,
		"message_id", messageId,
	)
}
