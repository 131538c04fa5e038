package service

import (
	"context"
	"errors"
	"io"
	"slices"

	"onboarding/internal/onboarding/models"
	"onboarding/internal/onboarding/state"
	"onboarding/internal/onboarding/store"
	"onboarding/internal/onboarding/validation"
	dErrors "onboarding/pkg/domain-errors"
	"onboarding/pkg/platform/audit"
	"onboarding/pkg/platform/sentinel"
)

// Upload is one file posted for a document slot. PersonID selects the
// establishing person for the "iddoc" and "poa" slots.
type Upload struct {
	Slot        string
	PersonID    string
	Name        string
	ContentType string
	Body        io.Reader
}

// slotTarget is where an upload lands in the form.
type slotTarget struct {
	kind     validation.FileKind
	current  *models.FileRef
	attachTo func(f *models.FileRef) state.Action
}

func resolveSlot(st models.FormState, u Upload) (slotTarget, error) {
	switch u.Slot {
	case state.EntitySlotRegister, state.EntitySlotArticles:
		current := st.EntityInfo.RegisterFile
		if u.Slot == state.EntitySlotArticles {
			current = st.EntityInfo.ArticlesFile
		}
		return slotTarget{
			kind:    validation.FileDocument,
			current: current,
			attachTo: func(f *models.FileRef) state.Action {
				return state.AttachEntityFile{Slot: u.Slot, File: f}
			},
		}, nil
	case state.PersonSlotIDDocument, state.PersonSlotPowerOfAttorney:
		i := slices.IndexFunc(st.EstablishingPersons, func(p models.Person) bool { return p.ID == u.PersonID })
		if i < 0 {
			return slotTarget{}, dErrors.New(dErrors.CodeNotFound, "establishing person not found")
		}
		p := st.EstablishingPersons[i]
		current := p.IDDocument
		if u.Slot == state.PersonSlotPowerOfAttorney {
			current = p.PowerOfAttorney
		}
		return slotTarget{
			kind:    validation.FileDocument,
			current: current,
			attachTo: func(f *models.FileRef) state.Action {
				return state.AttachPersonFile{ID: u.PersonID, Slot: u.Slot, File: f}
			},
		}, nil
	}
	if slot := models.AdditionalSlot(u.Slot); slot.Valid() {
		return slotTarget{
			kind:    validation.FileAttachment,
			current: st.AdditionalInfo.Get(slot),
			attachTo: func(f *models.FileRef) state.Action {
				return state.AttachAdditionalFile{Slot: slot, File: f}
			},
		}, nil
	}
	return slotTarget{}, dErrors.New(dErrors.CodeBadRequest, "unknown document slot "+u.Slot)
}

// AttachFile stores an upload and references it from its slot. A file that
// was in the slot before is removed once the session is saved.
func (s *Service) AttachFile(ctx context.Context, id string, u Upload) (*models.FileRef, error) {
	if s.files == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "file uploads are not configured")
	}
	sess, err := s.editable(ctx, id)
	if err != nil {
		return nil, err
	}
	target, err := resolveSlot(sess.State, u)
	if err != nil {
		return nil, err
	}
	// Type is known before the body is read; size only after.
	probe := &models.FileRef{Name: u.Name, ContentType: u.ContentType}
	if msg := validation.File(probe, s.validator.MaxFileSize(), target.kind); msg != "" {
		return nil, dErrors.New(dErrors.CodeValidation, msg)
	}

	ref, err := s.files.Put(ctx, id, u.Name, u.ContentType, u.Body)
	if errors.Is(err, sentinel.ErrTooLarge) {
		return nil, dErrors.New(dErrors.CodeValidation, validation.SizeMessage(s.validator.MaxFileSize()))
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store file")
	}

	next, err := s.reducer.Reduce(sess.State, target.attachTo(ref))
	if err == nil {
		sess.State = next
		err = s.save(ctx, sess)
	}
	if err != nil {
		s.dropFiles(ctx, []*models.FileRef{ref})
		return nil, err
	}
	if target.current != nil {
		s.dropFiles(ctx, []*models.FileRef{target.current})
	}

	s.metrics.IncFilesAttached(u.Slot)
	s.track(ctx, id, audit.EventFileAttached, u.Slot)
	return ref, nil
}

// save persists sess and keeps its uploads alive for as long as the
// session now lives.
func (s *Service) save(ctx context.Context, sess *store.Session) error {
	if err := s.sessions.Save(ctx, sess); err != nil {
		return translate(err, "save session")
	}
	if s.files == nil {
		return nil
	}
	if err := s.files.Extend(ctx, sess.ID, sess.ExpiresAt); err != nil {
		s.logger.WarnContext(ctx, "failed to extend uploaded files",
			"session_id", sess.ID,
			"error", err,
		)
	}
	return nil
}

func (s *Service) dropFiles(ctx context.Context, refs []*models.FileRef) {
	if s.files == nil {
		return
	}
	for _, f := range refs {
		if err := s.files.Delete(ctx, f.ID); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			s.logger.WarnContext(ctx, "failed to delete uploaded file",
				"file_id", f.ID,
				"error", err,
			)
		}
	}
}

// fileRefs lists every upload referenced by st.
func fileRefs(st models.FormState) []*models.FileRef {
	var out []*models.FileRef
	add := func(f *models.FileRef) {
		if f != nil {
			out = append(out, f)
		}
	}
	add(st.EntityInfo.RegisterFile)
	add(st.EntityInfo.ArticlesFile)
	for _, p := range st.EstablishingPersons {
		add(p.IDDocument)
		add(p.PowerOfAttorney)
	}
	for _, slot := range models.AdditionalSlots {
		add(st.AdditionalInfo.Get(slot))
	}
	return out
}
