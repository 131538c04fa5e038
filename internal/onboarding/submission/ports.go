package submission

import (
	"context"

	"onboarding/internal/onboarding/mapping"
	"onboarding/internal/onboarding/models"
	"onboarding/pkg/platform/audit"
)

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks Renderer,AuditPublisher

// Attachment is an uploaded file forwarded with a multipart request under
// the given form field name.
type Attachment struct {
	Field string
	File  *models.FileRef
}

// Request is one template render call.
type Request struct {
	Payload     mapping.Payload
	Attachments []Attachment
}

// Response is what the rendering backend reports for a generated document.
type Response struct {
	PDFPath             string `json:"pdfPath"`
	SubmissionTimestamp string `json:"submissionTimestamp"`
}

// Renderer submits a single template to the rendering backend. Errors carry
// the backend's message; Error() is what ends up in the per-template result.
type Renderer interface {
	Render(ctx context.Context, req Request) (Response, error)
}

// AuditPublisher persists compliance events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.ComplianceEvent) error
}
