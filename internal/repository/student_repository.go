package repository

import (
	"github.com/noah-isme/matriculacion/internal/models"
	appErrors "github.com/noah-isme/matriculacion/pkg/errors"
)

// StudentRepository handles storage of students keyed by DNI.
type StudentRepository struct {
	students *table[string, *models.Student]
}

// NewStudentRepository constructs the repository.
func NewStudentRepository() *StudentRepository {
	return &StudentRepository{students: newTable[string, *models.Student]()}
}

// Create stores a copy of the student.
func (r *StudentRepository) Create(student *models.Student) error {
	if !r.students.insert(student.Clone()) {
		return appErrors.Clonef(appErrors.ErrDuplicateIdentity, "student %s already exists", student.DNI)
	}
	return nil
}

// FindByDNI returns a copy of the student with the given DNI.
func (r *StudentRepository) FindByDNI(dni string) (*models.Student, bool) {
	s, ok := r.students.find(dni)
	if !ok {
		return nil, false
	}
	return s.Clone(), true
}

// Exists reports whether a student with the DNI is stored.
func (r *StudentRepository) Exists(dni string) bool {
	_, ok := r.students.find(dni)
	return ok
}

// Delete removes the student with the given DNI.
func (r *StudentRepository) Delete(dni string) error {
	if !r.students.remove(dni) {
		return appErrors.Clonef(appErrors.ErrNotFound, "student %s not found", dni)
	}
	return nil
}

// List returns copies of all students in insertion order.
func (r *StudentRepository) List() []*models.Student {
	return r.students.collect(nil, (*models.Student).Clone)
}

// Count returns the number of stored students.
func (r *StudentRepository) Count() int { return r.students.len() }
