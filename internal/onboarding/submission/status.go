package submission

import (
	"fmt"
	"time"

	"onboarding/internal/onboarding/templates"
)

// Status is the document generation lifecycle of one session.
type Status string

const (
	StatusIdle           Status = "idle"
	StatusSubmitting     Status = "submitting"
	StatusSuccess        Status = "success"
	StatusPartialFailure Status = "partial_failure"
	StatusFailure        Status = "failure"
)

// Terminal reports whether the run has finished.
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusPartialFailure || s == StatusFailure
}

// DocumentResult is the outcome of one template request.
type DocumentResult struct {
	Template            templates.ID `json:"template"`
	Success             bool         `json:"success"`
	PDFPath             string       `json:"pdfPath,omitempty"`
	SubmissionTimestamp string       `json:"submissionTimestamp,omitempty"`
	Error               string       `json:"error,omitempty"`
}

// Summary counts document outcomes.
type Summary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// Result aggregates a submission run in template order.
type Result struct {
	Status     Status           `json:"status"`
	Documents  []DocumentResult `json:"documents"`
	StartedAt  time.Time        `json:"startedAt"`
	FinishedAt time.Time        `json:"finishedAt"`
}

// Success reports whether every template was generated.
func (r *Result) Success() bool {
	return r.Status == StatusSuccess
}

// Summary counts the documents by outcome.
func (r *Result) Summary() Summary {
	sum := Summary{Total: len(r.Documents)}
	for _, d := range r.Documents {
		if d.Success {
			sum.Successful++
		} else {
			sum.Failed++
		}
	}
	return sum
}

// Errors returns "<templateId>: <message>" for each failed template.
func (r *Result) Errors() []string {
	var out []string
	for _, d := range r.Documents {
		if !d.Success {
			out = append(out, fmt.Sprintf("%s: %s", d.Template, d.Error))
		}
	}
	return out
}

// outcome derives the terminal status from the document results. A run with
// no failures succeeded; a run with no successes failed.
func outcome(docs []DocumentResult) Status {
	var ok, failed int
	for _, d := range docs {
		if d.Success {
			ok++
		} else {
			failed++
		}
	}
	switch {
	case failed == 0:
		return StatusSuccess
	case ok == 0:
		return StatusFailure
	default:
		return StatusPartialFailure
	}
}
