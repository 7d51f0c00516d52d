package service

import (
	"go.uber.org/zap"

	"github.com/noah-isme/matriculacion/internal/models"
	"github.com/noah-isme/matriculacion/internal/repository"
	appErrors "github.com/noah-isme/matriculacion/pkg/errors"
)

// SubjectService handles subject domain workflows.
type SubjectService struct {
	store  registryStore
	logger *zap.Logger
}

// NewSubjectService creates a new subject service.
func NewSubjectService(store registryStore, logger *zap.Logger) *SubjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{store: store, logger: logger}
}

// Create registers a subject. Its cycle must already be registered; the
// stored subject points at the registered cycle.
func (s *SubjectService) Create(subject *models.Subject) error {
	if err := subject.Validate(); err != nil {
		return err
	}
	err := s.store.Update(func(tx *repository.Tx) error {
		cycle, ok := tx.Cycles.FindByCode(subject.CycleCode())
		if !ok {
			return appErrors.Clonef(appErrors.ErrNotFound, "training cycle %s not found", subject.CycleCode())
		}
		stored := subject.Clone()
		stored.Cycle = cycle
		return tx.Subjects.Create(stored)
	})
	if err != nil {
		return err
	}
	s.logger.Info("subject registered", zap.String("code", subject.Code), zap.String("cycle", subject.CycleCode()))
	return nil
}

// Find returns the subject with the given code.
func (s *SubjectService) Find(code string) (*models.Subject, bool) {
	var (
		subject *models.Subject
		ok      bool
	)
	_ = s.store.View(func(tx *repository.Tx) error {
		subject, ok = tx.Subjects.FindByCode(normaliseKey(code))
		return nil
	})
	return subject, ok
}

// Delete removes a subject that no enrollment refers to.
func (s *SubjectService) Delete(code string) error {
	code = normaliseKey(code)
	err := s.store.Update(func(tx *repository.Tx) error {
		if !tx.Subjects.Exists(code) {
			return appErrors.Clonef(appErrors.ErrNotFound, "subject %s not found", code)
		}
		if tx.Enrollments.ReferencesSubject(code) {
			return appErrors.Clonef(appErrors.ErrReferentialIntegrity, "subject %s has enrollments", code)
		}
		return tx.Subjects.Delete(code)
	})
	if err != nil {
		return err
	}
	s.logger.Info("subject deleted", zap.String("code", code))
	return nil
}

// List returns all subjects in registration order.
func (s *SubjectService) List() []*models.Subject {
	var subjects []*models.Subject
	_ = s.store.View(func(tx *repository.Tx) error {
		subjects = tx.Subjects.List()
		return nil
	})
	return subjects
}
