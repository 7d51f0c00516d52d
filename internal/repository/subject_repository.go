package repository

import (
	"github.com/noah-isme/matriculacion/internal/models"
	appErrors "github.com/noah-isme/matriculacion/pkg/errors"
)

// SubjectRepository handles storage of subjects keyed by code.
type SubjectRepository struct {
	subjects *table[string, *models.Subject]
}

// NewSubjectRepository constructs the repository.
func NewSubjectRepository() *SubjectRepository {
	return &SubjectRepository{subjects: newTable[string, *models.Subject]()}
}

// Create stores a copy of the subject.
func (r *SubjectRepository) Create(subject *models.Subject) error {
	if !r.subjects.insert(subject.Clone()) {
		return appErrors.Clonef(appErrors.ErrDuplicateIdentity, "subject %s already exists", subject.Code)
	}
	return nil
}

// FindByCode returns a copy of the subject with the given code.
func (r *SubjectRepository) FindByCode(code string) (*models.Subject, bool) {
	s, ok := r.subjects.find(code)
	if !ok {
		return nil, false
	}
	return s.Clone(), true
}

// Exists reports whether a subject with the code is stored.
func (r *SubjectRepository) Exists(code string) bool {
	_, ok := r.subjects.find(code)
	return ok
}

// Delete removes the subject with the given code.
func (r *SubjectRepository) Delete(code string) error {
	if !r.subjects.remove(code) {
		return appErrors.Clonef(appErrors.ErrNotFound, "subject %s not found", code)
	}
	return nil
}

// List returns copies of all subjects in insertion order.
func (r *SubjectRepository) List() []*models.Subject {
	return r.subjects.collect(nil, (*models.Subject).Clone)
}

// CountByCycle returns how many subjects belong to the cycle.
func (r *SubjectRepository) CountByCycle(cycleCode string) int {
	n := 0
	r.subjects.each(func(s *models.Subject) bool {
		if s.CycleCode() == cycleCode {
			n++
		}
		return true
	})
	return n
}

// Count returns the number of stored subjects.
func (r *SubjectRepository) Count() int { return r.subjects.len() }
