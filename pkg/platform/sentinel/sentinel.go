package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Session and file stores return
// these (optionally wrapped) so the onboarding service can translate them into
// domain errors.
//
//   - ErrNotFound: session or file does not exist (or its TTL elapsed)
//   - ErrConflict: a concurrent writer saved a newer session version
//   - ErrTooLarge: an uploaded blob exceeds the configured size cap
//
// For validation failures of form input use the validation package results.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	ErrTooLarge = errors.New("too large")
)
