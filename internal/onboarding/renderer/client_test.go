package renderer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"onboarding/internal/onboarding/mapping"
	"onboarding/internal/onboarding/models"
	"onboarding/internal/onboarding/submission"
	"onboarding/internal/onboarding/templates"
)

type fakeFiles map[string]string

func (f fakeFiles) Open(_ context.Context, id string) (io.ReadCloser, error) {
	content, ok := f[id]
	if !ok {
		return nil, errors.New("no such file")
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

type ClientSuite struct {
	suite.Suite
	server  *httptest.Server
	handler http.HandlerFunc
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	s.handler = nil
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.handler(w, r)
	}))
}

func (s *ClientSuite) TearDownTest() {
	s.server.Close()
}

func (s *ClientSuite) client(opts ...Option) *Client {
	return New(s.server.URL+"/", opts...)
}

func ok(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"pdfPath":"/out/doc.pdf","submissionTimestamp":"2025-03-10T09:30:01Z"}`))
}

func multipartPayload() mapping.Payload {
	return mapping.Payload{
		Template:    templates.Identification,
		Encoding:    templates.EncodingMultipart,
		Attachments: true,
		Fields: []mapping.Field{
			{Key: "5", Value: mapping.Text("03/10/2025")},
			{Key: "6", Value: mapping.Text("Centi Test AG")},
			{Key: "12:1", Value: mapping.Flag(true)},
		},
	}
}

func jsonPayload() mapping.Payload {
	return mapping.Payload{
		Template: templates.FormA,
		Encoding: templates.EncodingJSON,
		Fields: []mapping.Field{
			{Key: "soleOwnership", Value: mapping.Text(" ")},
			{Key: "beneficialOwners", Value: mapping.Rows([]map[string]string{{"name": "Max Muster"}})},
		},
	}
}

// =============================================================================
// Request encoding
// =============================================================================

func (s *ClientSuite) TestMultipartRequest() {
	type part struct{ name, filename, contentType, body string }
	var parts []part

	s.handler = func(w http.ResponseWriter, r *http.Request) {
		s.Equal(http.MethodPost, r.Method)
		s.Equal("/api/submit", r.URL.Path)

		mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		s.Require().NoError(err)
		s.Equal("multipart/form-data", mediaType)

		mr := multipart.NewReader(r.Body, params["boundary"])
		for {
			p, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			s.Require().NoError(err)
			body, _ := io.ReadAll(p)
			parts = append(parts, part{p.FormName(), p.FileName(), p.Header.Get("Content-Type"), string(body)})
		}
		ok(w)
	}

	files := fakeFiles{"file-plan": "%PDF-plan"}
	resp, err := s.client(WithFileSource(files)).Render(context.Background(), submission.Request{
		Payload: multipartPayload(),
		Attachments: []submission.Attachment{{
			Field: string(models.SlotBusinessPlan),
			File:  &models.FileRef{ID: "file-plan", Name: "plan.pdf", ContentType: "application/pdf"},
		}},
	})
	s.Require().NoError(err)
	s.Equal("/out/doc.pdf", resp.PDFPath)
	s.Equal("2025-03-10T09:30:01Z", resp.SubmissionTimestamp)

	s.Require().Len(parts, 5)
	s.Equal(part{"template", "", "", "902.1e"}, parts[0])
	s.Equal("5", parts[1].name)
	s.Equal("03/10/2025", parts[1].body)
	s.Equal("Centi Test AG", parts[2].body)
	s.Equal("true", parts[3].body)
	s.Equal(part{"businessPlan", "plan.pdf", "application/pdf", "%PDF-plan"}, parts[4])
}

func (s *ClientSuite) TestJSONRequest() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		s.Equal("application/json", r.Header.Get("Content-Type"))
		var body map[string]any
		s.Require().NoError(json.NewDecoder(r.Body).Decode(&body))
		s.Equal("902.9e", body["template"])
		s.Equal(" ", body["soleOwnership"])
		owners, isList := body["beneficialOwners"].([]any)
		s.Require().True(isList)
		s.Len(owners, 1)
		ok(w)
	}

	_, err := s.client().Render(context.Background(), submission.Request{Payload: jsonPayload()})
	s.Require().NoError(err)
}

func (s *ClientSuite) TestCustomSubmitPath() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		s.Equal("/api/submit-form", r.URL.Path)
		ok(w)
	}
	_, err := s.client(WithSubmitPath("/api/submit-form")).Render(context.Background(), submission.Request{Payload: jsonPayload()})
	s.NoError(err)
}

func (s *ClientSuite) TestAttachmentWithoutFileSource() {
	s.handler = func(w http.ResponseWriter, _ *http.Request) { ok(w) }

	_, err := s.client().Render(context.Background(), submission.Request{
		Payload:     multipartPayload(),
		Attachments: []submission.Attachment{{Field: "businessPlan", File: &models.FileRef{ID: "x"}}},
	})
	s.True(IsCategory(err, CategoryRequest))
}

// =============================================================================
// Response handling
// =============================================================================

func (s *ClientSuite) TestErrorResponses() {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"error field", http.StatusBadRequest, `{"error":"Template not found"}`, "Template not found"},
		{"message field", http.StatusUnprocessableEntity, `{"message":"Missing field 6"}`, "Missing field 6"},
		{"error wins over message", http.StatusBadRequest, `{"error":"a","message":"b"}`, "a"},
		{"no body", http.StatusInternalServerError, ``, "HTTP 500: Internal Server Error"},
		{"html body", http.StatusBadGateway, `<html>bad gateway</html>`, "HTTP 502: Bad Gateway"},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.handler = func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}
			_, err := s.client().Render(context.Background(), submission.Request{Payload: jsonPayload()})
			s.Require().Error(err)
			s.Equal(tt.message, err.Error())

			var re *Error
			s.Require().ErrorAs(err, &re)
			s.Equal(CategoryHTTPStatus, re.Category)
			s.Equal(tt.status, re.StatusCode)
		})
	}
}

func (s *ClientSuite) TestMalformedSuccessBody() {
	s.handler = func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"pdfPath":`))
	}
	_, err := s.client().Render(context.Background(), submission.Request{Payload: jsonPayload()})
	s.True(IsCategory(err, CategoryBadResponse))
	s.Contains(err.Error(), "malformed response")
}

func (s *ClientSuite) TestNetworkError() {
	s.server.Close()
	_, err := s.client().Render(context.Background(), submission.Request{Payload: jsonPayload()})
	s.True(IsCategory(err, CategoryNetwork))
}

func (s *ClientSuite) TestTimeout() {
	release := make(chan struct{})
	s.handler = func(w http.ResponseWriter, _ *http.Request) {
		<-release
		ok(w)
	}
	defer close(release)

	_, err := s.client(WithTimeout(20*time.Millisecond)).Render(context.Background(), submission.Request{Payload: jsonPayload()})
	s.True(IsCategory(err, CategoryNetwork))
	s.ErrorIs(err, context.DeadlineExceeded)
}

func (s *ClientSuite) TestUnsupportedEncoding() {
	p := jsonPayload()
	p.Encoding = "xml"
	_, err := s.client().Render(context.Background(), submission.Request{Payload: p})
	s.True(IsCategory(err, CategoryRequest))
}
