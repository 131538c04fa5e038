package state

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	dErrors "onboarding/pkg/domain-errors"
)

// Envelope is the wire form of an action: {"type": "...", "payload": {...}}.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

var registry = map[string]func() Action{}

func register(factories ...func() Action) {
	for _, f := range factories {
		registry[f().Type()] = f
	}
}

func init() {
	register(
		func() Action { return &SetClientType{} },
		func() Action { return &SetCompanyField{} },
		func() Action { return &SetSoleProprietorField{} },
		func() Action { return &SetEntityField{} },
		func() Action { return &AttachEntityFile{} },
		func() Action { return &AddEstablishingPerson{} },
		func() Action { return &UpdateEstablishingPerson{} },
		func() Action { return &RemoveEstablishingPerson{} },
		func() Action { return &AttachPersonFile{} },
		func() Action { return &SetControllingFlag{} },
		func() Action { return &AddControllingPerson{} },
		func() Action { return &UpdateControllingPerson{} },
		func() Action { return &RemoveControllingPerson{} },
		func() Action { return &SetManagingDirectorField{} },
		func() Action { return &SetSoleOwner{} },
		func() Action { return &AddBeneficialOwner{} },
		func() Action { return &UpdateBeneficialOwner{} },
		func() Action { return &RemoveBeneficialOwner{} },
		func() Action { return &SetBusinessActivityField{} },
		func() Action { return &AddMainCountry{} },
		func() Action { return &RemoveMainCountry{} },
		func() Action { return &SetFinancialField{} },
		func() Action { return &SetTransactionField{} },
		func() Action { return &SetMonthlyVolume{} },
		func() Action { return &ToggleOtherCategory{} },
		func() Action { return &AddBusinessPurpose{} },
		func() Action { return &RemoveBusinessPurpose{} },
		func() Action { return &SetPep{} },
		func() Action { return &SetPepDetail{} },
		func() Action { return &SetPepType{} },
		func() Action { return &SetPepRelationship{} },
		func() Action { return &SetSanctions{} },
		func() Action { return &SetSanctionsDetail{} },
		func() Action { return &AddSanctionedCountry{} },
		func() Action { return &RemoveSanctionedCountry{} },
		func() Action { return &SetTerm{} },
		func() Action { return &SetVerificationMethod{} },
		func() Action { return &SetVideoSlot{} },
		func() Action { return &AttachAdditionalFile{} },
		func() Action { return &SetValidationErrors{} },
		func() Action { return &SetFieldError{} },
		func() Action { return &ClearFieldError{} },
		func() Action { return &SetCurrentStep{} },
		func() Action { return &NextStep{} },
		func() Action { return &PrevStep{} },
		func() Action { return &Reset{} },
	)
}

// ActionTypes lists every registered wire name, sorted.
func ActionTypes() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// DecodeAction decodes a single action envelope.
func DecodeAction(data []byte) (Action, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid action envelope")
	}
	return env.Action()
}

// Action resolves the envelope into a typed action. Unknown payload fields
// are rejected so typos do not silently become no-ops.
func (e Envelope) Action() (Action, error) {
	factory, ok := registry[e.Type]
	if !ok {
		return nil, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("unknown action type %q", e.Type))
	}
	a := factory()
	if len(e.Payload) == 0 || bytes.Equal(bytes.TrimSpace(e.Payload), []byte("null")) {
		return a, nil
	}
	dec := json.NewDecoder(bytes.NewReader(e.Payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(a); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, fmt.Sprintf("invalid payload for %s", e.Type))
	}
	return a, nil
}

// Encode wraps an action into its envelope.
func Encode(a Action) (Envelope, error) {
	payload, err := json.Marshal(a)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Type: a.Type(), Payload: payload}, nil
}
