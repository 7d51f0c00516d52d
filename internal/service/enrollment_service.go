package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/matriculacion/internal/models"
	"github.com/noah-isme/matriculacion/internal/repository"
	appErrors "github.com/noah-isme/matriculacion/pkg/errors"
)

// EnrollmentService orchestrates enrollment workflows.
type EnrollmentService struct {
	store  registryStore
	cal    calendar
	logger *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService. Dates are judged against
// clock in loc; nil values fall back to time.Now and UTC.
func NewEnrollmentService(store registryStore, clock Clock, loc *time.Location, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{store: store, cal: newCalendar(clock, loc), logger: logger}
}

// Now returns the service clock in the registry time zone.
func (s *EnrollmentService) Now() time.Time { return s.cal.now() }

// Enroll stores a new active enrollment and returns it with its assigned ID.
// Student and subject must be registered and the student must not already
// hold an active enrollment for the subject in the same academic year.
func (s *EnrollmentService) Enroll(enrollment *models.Enrollment) (*models.Enrollment, error) {
	now := s.cal.now()
	if err := enrollment.Validate(now); err != nil {
		return nil, err
	}
	if enrollment.AnnulledOn != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid enrollment: new enrollments must be active")
	}

	var stored *models.Enrollment
	err := s.store.Update(func(tx *repository.Tx) error {
		student, ok := tx.Students.FindByDNI(enrollment.Student.DNI)
		if !ok {
			return appErrors.Clonef(appErrors.ErrNotFound, "student %s not found", enrollment.Student.DNI)
		}
		subject, ok := tx.Subjects.FindByCode(enrollment.Subject.Code)
		if !ok {
			return appErrors.Clonef(appErrors.ErrNotFound, "subject %s not found", enrollment.Subject.Code)
		}
		year := enrollment.AcademicYear()
		if tx.Enrollments.ExistsActive(student.DNI, subject.Code, year) {
			return appErrors.Clonef(appErrors.ErrActiveEnrollmentExists, "student %s already enrolled in %s for %s", student.DNI, subject.Code, year)
		}
		candidate := enrollment.Clone()
		candidate.Student = student
		candidate.Subject = subject
		candidate.EnrolledOn = models.DateOf(enrollment.EnrolledOn)
		var err error
		stored, err = tx.Enrollments.Create(candidate)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("enrollment registered",
		zap.Int("id", stored.ID),
		zap.String("dni", stored.Student.DNI),
		zap.String("subject", stored.Subject.Code),
		zap.String("academic_year", stored.AcademicYear()),
	)
	return stored, nil
}

// Find returns the enrollment with the given ID.
func (s *EnrollmentService) Find(id int) (*models.Enrollment, bool) {
	var (
		enrollment *models.Enrollment
		ok         bool
	)
	_ = s.store.View(func(tx *repository.Tx) error {
		enrollment, ok = tx.Enrollments.FindByID(id)
		return nil
	})
	return enrollment, ok
}

// Annul parses rawDate (dd/mm/yyyy or yyyy-mm-dd) and annuls the enrollment
// on that date.
func (s *EnrollmentService) Annul(id int, rawDate string) (*models.Enrollment, error) {
	on, err := models.ParseDate(rawDate)
	if err != nil {
		return nil, err
	}
	return s.AnnulOn(id, on)
}

// AnnulOn annuls the enrollment on the given date.
func (s *EnrollmentService) AnnulOn(id int, on time.Time) (*models.Enrollment, error) {
	now := s.cal.now()
	var annulled *models.Enrollment
	err := s.store.Update(func(tx *repository.Tx) error {
		var err error
		annulled, err = tx.Enrollments.Annul(id, on, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("enrollment annulled", zap.Int("id", id), zap.String("annulled_on", models.FormatDate(*annulled.AnnulledOn)))
	return annulled, nil
}

// Delete is not supported: enrollments are annulled, never removed.
func (s *EnrollmentService) Delete(id int) error {
	return appErrors.Clonef(appErrors.ErrNotSupported, "enrollment %d cannot be deleted, annul it instead", id)
}

// List returns all enrollments in registration order.
func (s *EnrollmentService) List() []*models.Enrollment {
	var enrollments []*models.Enrollment
	_ = s.store.View(func(tx *repository.Tx) error {
		enrollments = tx.Enrollments.List()
		return nil
	})
	return enrollments
}
