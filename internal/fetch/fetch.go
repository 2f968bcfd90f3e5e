package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"atlasref/internal/components/assert"
	"atlasref/internal/components/telemetry"
	"atlasref/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	report_client_get_json     = "client.get-json"
	report_client_get_document = "client.get-document"
)

var tracer = otel.Tracer("atlasref.internal.fetch")

// Client is everything the fetchers need from the network.
//
// note: fault injection point
type Client interface {
	// GetJSON decodes the JSON body at link into out.
	GetJSON(ctx context.Context, link string, out any) error
	// GetDocument parses the HTML body at link.
	GetDocument(ctx context.Context, link string) (*goquery.Document, error)
}

// StatusError is returned when the upstream answers with a non-2xx status,
// Url has its credentials redacted.
type StatusError struct {
	Url    string
	Status int
}

func (e StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.Url, e.Status)
}

type Options struct {
	// Timeout bounds every request, 0 disables it.
	Timeout   time.Duration
	UserAgent string
	// Dump receives a copy of every request/response, may be nil.
	Dump restyutil.InstrumentOutput
}

// RestyClient implements Client with a single sequential resty client.
type RestyClient struct {
	http *resty.Client
	tel  telemetry.API
}

func NewRestyClient(tel telemetry.API, opts Options) RestyClient {
	assert.NotNil(tel)
	tel = telemetry.NewScopedAPI("fetch", tel)

	httpClient := resty.New()
	httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	if opts.UserAgent != "" {
		httpClient.SetHeader("user-agent", opts.UserAgent)
	}
	if opts.Timeout > 0 {
		httpClient.SetTimeout(opts.Timeout)
	}

	telemetry.InstrumentResty(httpClient, tel)
	restyutil.InstrumentClient(httpClient, tracer, opts.Dump)

	return RestyClient{http: httpClient, tel: tel}
}

func (c RestyClient) get(ctx context.Context, link string) ([]byte, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", restyutil.RedactUrl(link), err)
	}
	if res.IsError() {
		return nil, StatusError{Url: restyutil.RedactUrl(link), Status: res.StatusCode()}
	}
	return res.Body(), nil
}

func (c RestyClient) GetJSON(ctx context.Context, link string, out any) error {
	ctx, span := tracer.Start(ctx, "GetJSON")
	defer span.End()
	span.SetAttributes(attribute.String("url", restyutil.RedactUrl(link)))

	body, err := c.get(ctx, link)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		c.tel.ReportBroken(report_client_get_json, err)
		return err
	}

	err = json.Unmarshal(body, out)
	if err != nil {
		err = fmt.Errorf("decode json from %s: %w", restyutil.RedactUrl(link), err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode json")
		c.tel.ReportBroken(report_client_get_json, err)
		return err
	}
	return nil
}

func (c RestyClient) GetDocument(ctx context.Context, link string) (*goquery.Document, error) {
	ctx, span := tracer.Start(ctx, "GetDocument")
	defer span.End()
	span.SetAttributes(attribute.String("url", restyutil.RedactUrl(link)))

	body, err := c.get(ctx, link)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		c.tel.ReportBroken(report_client_get_document, err)
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(body))
	if err != nil {
		err = fmt.Errorf("parse html from %s: %w", restyutil.RedactUrl(link), err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		c.tel.ReportBroken(report_client_get_document, err)
		return nil, err
	}
	return doc, nil
}
