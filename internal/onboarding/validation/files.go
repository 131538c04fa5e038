package validation

import (
	"fmt"
	"strings"

	"onboarding/internal/onboarding/models"
)

// DefaultMaxFileSize is the upload limit when none is configured.
const DefaultMaxFileSize int64 = 10 << 20

// FileKind selects which content types an upload slot accepts.
type FileKind int

const (
	// FileDocument accepts PDF and images: identity and registry documents.
	FileDocument FileKind = iota
	// FileAttachment additionally accepts Word documents.
	FileAttachment
)

const (
	mimePDF  = "application/pdf"
	mimeJPEG = "image/jpeg"
	mimePNG  = "image/png"
	mimeDoc  = "application/msword"
	mimeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var documentTypes = map[string]struct{}{
	mimePDF:  {},
	mimeJPEG: {},
	mimePNG:  {},
}

var attachmentTypes = map[string]struct{}{
	mimePDF:  {},
	mimeJPEG: {},
	mimePNG:  {},
	mimeDoc:  {},
	mimeDocx: {},
}

var extensionTypes = map[string]string{
	".pdf":  mimePDF,
	".jpg":  mimeJPEG,
	".jpeg": mimeJPEG,
	".png":  mimePNG,
	".doc":  mimeDoc,
	".docx": mimeDocx,
}

// ContentTypeOf returns the declared content type, falling back to the one
// implied by the file extension.
func ContentTypeOf(f *models.FileRef) string {
	if f == nil {
		return ""
	}
	if ct := strings.ToLower(strings.TrimSpace(f.ContentType)); ct != "" {
		if i := strings.IndexByte(ct, ';'); i >= 0 {
			ct = strings.TrimSpace(ct[:i])
		}
		return ct
	}
	return extensionTypes[f.Extension()]
}

// File checks size and type of an upload. Empty slots pass; required-ness
// is checked by the caller after the file itself is known to be acceptable.
func File(f *models.FileRef, maxSize int64, kind FileKind) string {
	if f == nil {
		return ""
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	if f.Size > maxSize {
		return SizeMessage(maxSize)
	}
	allowed, msg := documentTypes, "Only PDF, JPG, and PNG files are allowed"
	if kind == FileAttachment {
		allowed, msg = attachmentTypes, "Only PDF, JPG, PNG, DOC, and DOCX files are allowed"
	}
	if _, ok := allowed[ContentTypeOf(f)]; !ok {
		return msg
	}
	return ""
}

// SizeMessage is the error shown for uploads above maxSize.
func SizeMessage(maxSize int64) string {
	return fmt.Sprintf("File size must be less than %dMB", roundMB(maxSize))
}

func roundMB(n int64) int64 {
	const mb = 1 << 20
	return (n + mb/2) / mb
}

var requiredFileMessages = map[string]string{
	"registerFile": "Commercial register extract is required",
	"articlesFile": "Articles of association are required",
	"iddoc":        "ID document is required",
	"poa":          "Power of attorney document is required",
}

// RequiredFile runs File and then reports a missing upload with the slot's
// own message.
func RequiredFile(slot string, f *models.FileRef, maxSize int64) string {
	if msg := File(f, maxSize, FileDocument); msg != "" {
		return msg
	}
	if f == nil {
		if msg, ok := requiredFileMessages[slot]; ok {
			return msg
		}
		return "This file is required"
	}
	return ""
}
