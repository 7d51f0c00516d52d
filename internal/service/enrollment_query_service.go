package service

import (
	"github.com/noah-isme/matriculacion/internal/models"
	"github.com/noah-isme/matriculacion/internal/repository"
	appErrors "github.com/noah-isme/matriculacion/pkg/errors"
)

// EnrollmentQueryService answers read-only enrollment queries. Every result
// is a fresh slice in registration order; an unknown key is a not-found
// error, a known key without enrollments an empty slice.
type EnrollmentQueryService struct {
	store registryStore
}

// NewEnrollmentQueryService constructs the query service.
func NewEnrollmentQueryService(store registryStore) *EnrollmentQueryService {
	return &EnrollmentQueryService{store: store}
}

// ByStudent returns the enrollments of a registered student.
func (s *EnrollmentQueryService) ByStudent(dni string) ([]*models.Enrollment, error) {
	enrollments, _, err := s.Filter(models.EnrollmentFilter{StudentDNI: dni})
	return enrollments, err
}

// ByTrainingCycle returns the enrollments in subjects of a registered cycle.
func (s *EnrollmentQueryService) ByTrainingCycle(code string) ([]*models.Enrollment, error) {
	enrollments, _, err := s.Filter(models.EnrollmentFilter{CycleCode: code})
	return enrollments, err
}

// ByAcademicYear returns the enrollments whose date falls in the "YY-YY" year.
func (s *EnrollmentQueryService) ByAcademicYear(year string) ([]*models.Enrollment, error) {
	if err := models.ValidateAcademicYear(year); err != nil {
		return nil, err
	}
	enrollments, _, err := s.Filter(models.EnrollmentFilter{AcademicYear: year})
	return enrollments, err
}

// Filter applies every non-empty criterion of filter. A PageSize of zero
// returns all matches on one page.
func (s *EnrollmentQueryService) Filter(filter models.EnrollmentFilter) ([]*models.Enrollment, *models.Pagination, error) {
	filter.StudentDNI = normaliseKey(filter.StudentDNI)
	filter.CycleCode = normaliseKey(filter.CycleCode)
	filter.SubjectCode = normaliseKey(filter.SubjectCode)
	if filter.AcademicYear != "" {
		if err := models.ValidateAcademicYear(filter.AcademicYear); err != nil {
			return nil, nil, err
		}
	}
	switch filter.Status {
	case "", models.EnrollmentStatusActive, models.EnrollmentStatusAnnulled:
	default:
		return nil, nil, appErrors.Clonef(appErrors.ErrValidation, "unknown enrollment status %q", filter.Status)
	}

	var matches []*models.Enrollment
	err := s.store.View(func(tx *repository.Tx) error {
		if filter.StudentDNI != "" && !tx.Students.Exists(filter.StudentDNI) {
			return appErrors.Clonef(appErrors.ErrNotFound, "student %s not found", filter.StudentDNI)
		}
		if filter.CycleCode != "" && !tx.Cycles.Exists(filter.CycleCode) {
			return appErrors.Clonef(appErrors.ErrNotFound, "training cycle %s not found", filter.CycleCode)
		}
		if filter.SubjectCode != "" && !tx.Subjects.Exists(filter.SubjectCode) {
			return appErrors.Clonef(appErrors.ErrNotFound, "subject %s not found", filter.SubjectCode)
		}
		matches = tx.Enrollments.Select(func(e *models.Enrollment) bool {
			return matchesFilter(e, filter)
		})
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	page, pagination := paginate(matches, filter.Page, filter.PageSize)
	return page, pagination, nil
}

func matchesFilter(e *models.Enrollment, f models.EnrollmentFilter) bool {
	if f.StudentDNI != "" && (e.Student == nil || e.Student.DNI != f.StudentDNI) {
		return false
	}
	if f.SubjectCode != "" && (e.Subject == nil || e.Subject.Code != f.SubjectCode) {
		return false
	}
	if f.CycleCode != "" && e.Subject.CycleCode() != f.CycleCode {
		return false
	}
	if f.AcademicYear != "" && e.AcademicYear() != f.AcademicYear {
		return false
	}
	if f.Status != "" && e.Status() != f.Status {
		return false
	}
	return true
}

func paginate(all []*models.Enrollment, page, size int) ([]*models.Enrollment, *models.Pagination) {
	total := len(all)
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		return all, &models.Pagination{Page: 1, PageSize: total, TotalCount: total}
	}
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	out := make([]*models.Enrollment, end-start)
	copy(out, all[start:end])
	return out, &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}
