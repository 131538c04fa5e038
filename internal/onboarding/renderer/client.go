// Package renderer is the HTTP client for the document rendering backend.
package renderer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"onboarding/internal/onboarding/submission"
	"onboarding/internal/onboarding/templates"
)

const (
	// DefaultSubmitPath is the backend route accepting render requests.
	DefaultSubmitPath = "/api/submit"
	// DefaultTimeout bounds one render call.
	DefaultTimeout = 30 * time.Second

	maxResponseBytes = 1 << 20
	tracerName       = "onboarding/internal/onboarding/renderer"
)

// FileSource opens uploaded blobs by FileRef ID.
type FileSource interface {
	Open(ctx context.Context, id string) (io.ReadCloser, error)
}

// Client implements submission.Renderer over HTTP.
type Client struct {
	baseURL    string
	submitPath string
	httpClient *http.Client
	timeout    time.Duration
	files      FileSource
	logger     *slog.Logger
	tracer     trace.Tracer
}

// Option configures a Client.
type Option func(*Client)

// WithSubmitPath overrides DefaultSubmitPath.
func WithSubmitPath(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.submitPath = path
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds each render call; zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithFileSource is required for templates that carry attachments.
func WithFileSource(fs FileSource) Option {
	return func(c *Client) {
		c.files = fs
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		submitPath: DefaultSubmitPath,
		httpClient: http.DefaultClient,
		timeout:    DefaultTimeout,
		logger:     slog.Default(),
		tracer:     otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ submission.Renderer = (*Client)(nil)

// Render posts one template and returns the backend's document reference.
func (c *Client) Render(ctx context.Context, req submission.Request) (submission.Response, error) {
	ctx, span := c.tracer.Start(ctx, "renderer.render",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("template.id", string(req.Payload.Template)),
			attribute.String("template.encoding", string(req.Payload.Encoding)),
		))
	defer span.End()

	resp, err := c.render(ctx, span, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return resp, err
}

func (c *Client) render(ctx context.Context, span trace.Span, req submission.Request) (submission.Response, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, contentType, err := c.encode(ctx, req)
	if err != nil {
		return submission.Response{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.submitPath, body)
	if err != nil {
		return submission.Response{}, requestError(err, "invalid render request: %v", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return submission.Response{}, &Error{Category: CategoryNetwork, Message: err.Error(), Err: err}
	}
	defer httpResp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", httpResp.StatusCode))

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return submission.Response{}, &Error{Category: CategoryNetwork, StatusCode: httpResp.StatusCode, Message: err.Error(), Err: err}
	}

	c.logger.DebugContext(ctx, "render call finished",
		"template_id", req.Payload.Template,
		"status", httpResp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return submission.Response{}, statusError(httpResp.StatusCode, raw)
	}

	var out submission.Response
	if err := json.Unmarshal(raw, &out); err != nil {
		return submission.Response{}, &Error{
			Category:   CategoryBadResponse,
			StatusCode: httpResp.StatusCode,
			Message:    fmt.Sprintf("malformed response: %v", err),
			Err:        err,
		}
	}
	return out, nil
}

// statusError prefers the backend's error, then its message, then the
// status line.
func statusError(code int, raw []byte) *Error {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(raw, &body)

	msg := body.Error
	if msg == "" {
		msg = body.Message
	}
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d: %s", code, http.StatusText(code))
	}
	return &Error{Category: CategoryHTTPStatus, StatusCode: code, Message: msg}
}

func (c *Client) encode(ctx context.Context, req submission.Request) (io.Reader, string, error) {
	switch req.Payload.Encoding {
	case templates.EncodingJSON:
		raw, err := json.Marshal(req.Payload)
		if err != nil {
			return nil, "", requestError(err, "encode %s: %v", req.Payload.Template, err)
		}
		return bytes.NewReader(raw), "application/json", nil
	case templates.EncodingMultipart:
		return c.multipart(ctx, req)
	default:
		return nil, "", requestError(nil, "unsupported encoding %q", req.Payload.Encoding)
	}
}

// multipart writes the template ID, then every field in contract order,
// then the attachments.
func (c *Client) multipart(ctx context.Context, req submission.Request) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("template", string(req.Payload.Template)); err != nil {
		return nil, "", requestError(err, "encode %s: %v", req.Payload.Template, err)
	}
	for _, f := range req.Payload.Fields {
		value := f.Value.Text
		if f.Value.Kind == templates.KindRows {
			raw, err := json.Marshal(f.Value.Rows)
			if err != nil {
				return nil, "", requestError(err, "encode %s %s: %v", req.Payload.Template, f.Key, err)
			}
			value = string(raw)
		}
		if err := mw.WriteField(f.Key, value); err != nil {
			return nil, "", requestError(err, "encode %s %s: %v", req.Payload.Template, f.Key, err)
		}
	}
	for _, a := range req.Attachments {
		if err := c.attach(ctx, mw, a); err != nil {
			return nil, "", err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", requestError(err, "encode %s: %v", req.Payload.Template, err)
	}
	return &buf, mw.FormDataContentType(), nil
}

func (c *Client) attach(ctx context.Context, mw *multipart.Writer, a submission.Attachment) error {
	if c.files == nil {
		return requestError(nil, "no file source configured for %s", a.Field)
	}
	rc, err := c.files.Open(ctx, a.File.ID)
	if err != nil {
		return requestError(err, "open %s: %v", a.Field, err)
	}
	defer rc.Close()

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, a.Field, a.File.Name))
	contentType := a.File.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return requestError(err, "attach %s: %v", a.Field, err)
	}
	if _, err := io.Copy(part, rc); err != nil {
		return requestError(err, "attach %s: %v", a.Field, err)
	}
	return nil
}

// IsCategory reports whether err is a renderer error of category c.
func IsCategory(err error, c Category) bool {
	var re *Error
	return errors.As(err, &re) && re.Category == c
}
