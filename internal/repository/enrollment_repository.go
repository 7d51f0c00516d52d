package repository

import (
	"time"

	"github.com/noah-isme/matriculacion/internal/models"
	appErrors "github.com/noah-isme/matriculacion/pkg/errors"
)

// EnrollmentRepository handles storage of enrollments. It owns the ID
// sequence: IDs start at 1, grow by one per stored enrollment and are never
// reused.
type EnrollmentRepository struct {
	enrollments *table[int, *models.Enrollment]
	lastID      int
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository() *EnrollmentRepository {
	return &EnrollmentRepository{enrollments: newTable[int, *models.Enrollment]()}
}

// Create assigns the next ID, stores a copy and returns the stored copy.
// Any ID set by the caller is ignored.
func (r *EnrollmentRepository) Create(enrollment *models.Enrollment) (*models.Enrollment, error) {
	stored := enrollment.Clone()
	stored.ID = r.lastID + 1
	if !r.enrollments.insert(stored) {
		return nil, appErrors.Clonef(appErrors.ErrDuplicateIdentity, "enrollment %d already exists", stored.ID)
	}
	r.lastID = stored.ID
	return stored.Clone(), nil
}

// FindByID returns a copy of the enrollment with the given ID.
func (r *EnrollmentRepository) FindByID(id int) (*models.Enrollment, bool) {
	e, ok := r.enrollments.find(id)
	if !ok {
		return nil, false
	}
	return e.Clone(), true
}

// Annul sets the annulment date of a stored enrollment.
func (r *EnrollmentRepository) Annul(id int, on, now time.Time) (*models.Enrollment, error) {
	e, ok := r.enrollments.find(id)
	if !ok {
		return nil, appErrors.Clonef(appErrors.ErrNotFound, "enrollment %d not found", id)
	}
	if err := e.Annul(on, now); err != nil {
		return nil, err
	}
	return e.Clone(), nil
}

// List returns copies of all enrollments in insertion order.
func (r *EnrollmentRepository) List() []*models.Enrollment {
	return r.enrollments.collect(nil, (*models.Enrollment).Clone)
}

// Select returns copies of the enrollments matching fn, in insertion order.
func (r *EnrollmentRepository) Select(fn func(*models.Enrollment) bool) []*models.Enrollment {
	return r.enrollments.collect(fn, (*models.Enrollment).Clone)
}

// ReferencesStudent reports whether any enrollment, active or annulled,
// points at the student.
func (r *EnrollmentRepository) ReferencesStudent(dni string) bool {
	return r.enrollments.any(func(e *models.Enrollment) bool {
		return e.Student != nil && e.Student.DNI == dni
	})
}

// ReferencesSubject reports whether any enrollment points at the subject.
func (r *EnrollmentRepository) ReferencesSubject(code string) bool {
	return r.enrollments.any(func(e *models.Enrollment) bool {
		return e.Subject != nil && e.Subject.Code == code
	})
}

// ExistsActive checks if an active enrollment exists for the student,
// subject and academic year.
func (r *EnrollmentRepository) ExistsActive(dni, subjectCode, academicYear string) bool {
	return r.enrollments.any(func(e *models.Enrollment) bool {
		return e.Active() &&
			e.Student != nil && e.Student.DNI == dni &&
			e.Subject != nil && e.Subject.Code == subjectCode &&
			e.AcademicYear() == academicYear
	})
}

// CountActive returns the number of enrollments not yet annulled.
func (r *EnrollmentRepository) CountActive() int {
	n := 0
	r.enrollments.each(func(e *models.Enrollment) bool {
		if e.Active() {
			n++
		}
		return true
	})
	return n
}

// Count returns the number of stored enrollments.
func (r *EnrollmentRepository) Count() int { return r.enrollments.len() }

// LastID returns the most recently assigned ID, 0 before the first insert.
func (r *EnrollmentRepository) LastID() int { return r.lastID }
