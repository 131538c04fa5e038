package state

import (
	"maps"

	"onboarding/internal/onboarding/models"
)

// Declarations in termsInfo.
const (
	TermPrivacy = "agreePrivacy"
	TermTerms   = "agreeTerms"
	TermTruth   = "confirmTruth"
)

// SetTerm accepts or withdraws one declaration.
type SetTerm struct {
	Term  string `json:"term"`
	Value bool   `json:"value"`
}

func (SetTerm) Type() string { return "set_term" }

func (a SetTerm) apply(s *models.FormState, _ env) error {
	t := &s.TermsInfo
	switch a.Term {
	case TermPrivacy:
		t.AgreePrivacy = a.Value
	case TermTerms:
		t.AgreeTerms = a.Value
	case TermTruth:
		t.ConfirmTruth = a.Value
	default:
		return invalid("unknown term %q", a.Term)
	}
	return nil
}

// SetVerificationMethod picks how identity is verified. Any method other
// than video drops the appointment.
type SetVerificationMethod struct {
	Method models.VerificationMethod `json:"method"`
}

func (SetVerificationMethod) Type() string { return "set_verification_method" }

func (a SetVerificationMethod) apply(s *models.FormState, _ env) error {
	if !a.Method.Valid() {
		return invalid("unknown verification method %q", a.Method)
	}
	v := &s.VerificationInfo
	v.Method = a.Method
	if a.Method != models.VerificationVideo {
		v.VideoDate = ""
		v.VideoTime = ""
	}
	return nil
}

// SetVideoSlot books the video appointment. The date window is checked by
// validation.
type SetVideoSlot struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

func (SetVideoSlot) Type() string { return "set_video_slot" }

func (a SetVideoSlot) apply(s *models.FormState, _ env) error {
	if s.VerificationInfo.Method != models.VerificationVideo {
		return invalid("video slot requires video verification")
	}
	s.VerificationInfo.VideoDate = a.Date
	s.VerificationInfo.VideoTime = a.Time
	return nil
}

// AttachAdditionalFile fills or empties an optional upload slot.
type AttachAdditionalFile struct {
	Slot models.AdditionalSlot `json:"slot"`
	File *models.FileRef       `json:"file"`
}

func (AttachAdditionalFile) Type() string { return "attach_additional_file" }

func (a AttachAdditionalFile) apply(s *models.FormState, _ env) error {
	if !a.Slot.Valid() {
		return invalid("unknown additional document slot %q", a.Slot)
	}
	s.AdditionalInfo.Set(a.Slot, copyFile(a.File))
	return nil
}

// SetValidationErrors replaces the error map wholesale.
type SetValidationErrors struct {
	Errors map[string]string `json:"errors"`
}

func (SetValidationErrors) Type() string { return "set_validation_errors" }

func (a SetValidationErrors) apply(s *models.FormState, _ env) error {
	s.ValidationErrors = maps.Clone(a.Errors)
	if s.ValidationErrors == nil {
		s.ValidationErrors = map[string]string{}
	}
	return nil
}

// SetFieldError records one field error.
type SetFieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (SetFieldError) Type() string { return "set_field_error" }

func (a SetFieldError) apply(s *models.FormState, _ env) error {
	if a.Path == "" {
		return invalid("field path is required")
	}
	if s.ValidationErrors == nil {
		s.ValidationErrors = map[string]string{}
	}
	s.ValidationErrors[a.Path] = a.Message
	return nil
}

// ClearFieldError drops one field error.
type ClearFieldError struct {
	Path string `json:"path"`
}

func (ClearFieldError) Type() string { return "clear_field_error" }

func (a ClearFieldError) apply(s *models.FormState, _ env) error {
	delete(s.ValidationErrors, a.Path)
	return nil
}

// SetCurrentStep jumps to a step, e.g. an edit link on the review page.
type SetCurrentStep struct {
	Step int `json:"step"`
}

func (SetCurrentStep) Type() string { return "set_current_step" }

func (a SetCurrentStep) apply(s *models.FormState, _ env) error {
	if a.Step < models.StepClientType || a.Step > models.TotalSteps {
		return invalid("step must be between 1 and %d", models.TotalSteps)
	}
	s.CurrentStep = a.Step
	return nil
}

// NextStep advances the cursor, stopping at review.
type NextStep struct{}

func (NextStep) Type() string { return "next_step" }

func (NextStep) apply(s *models.FormState, _ env) error {
	s.CurrentStep = min(s.CurrentStep+1, models.TotalSteps)
	return nil
}

// PrevStep moves the cursor back, stopping at the first step.
type PrevStep struct{}

func (PrevStep) Type() string { return "prev_step" }

func (PrevStep) apply(s *models.FormState, _ env) error {
	s.CurrentStep = max(s.CurrentStep-1, models.StepClientType)
	return nil
}

// Reset discards everything and starts over.
type Reset struct{}

func (Reset) Type() string { return "reset" }

func (Reset) apply(s *models.FormState, e env) error {
	*s = models.New(e.newID())
	return nil
}
