package service

import (
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/matriculacion/internal/models"
	"github.com/noah-isme/matriculacion/internal/repository"
	appErrors "github.com/noah-isme/matriculacion/pkg/errors"
)

// StudentService handles student use-cases.
type StudentService struct {
	store           registryStore
	strictDNILetter bool
	logger          *zap.Logger
}

// NewStudentService constructs the student service. With strictDNILetter the
// DNI control letter must match its number.
func NewStudentService(store registryStore, strictDNILetter bool, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{store: store, strictDNILetter: strictDNILetter, logger: logger}
}

// Create registers a new student.
func (s *StudentService) Create(student *models.Student) error {
	if err := student.Validate(); err != nil {
		return err
	}
	if s.strictDNILetter && !models.DNILetterValid(student.DNI) {
		return appErrors.Clonef(appErrors.ErrValidation, "invalid student: dni %s has a wrong control letter", student.DNI)
	}
	err := s.store.Update(func(tx *repository.Tx) error {
		return tx.Students.Create(student)
	})
	if err != nil {
		return err
	}
	s.logger.Info("student registered", zap.String("dni", student.DNI))
	return nil
}

// Find returns the student with the given DNI.
func (s *StudentService) Find(dni string) (*models.Student, bool) {
	var (
		student *models.Student
		ok      bool
	)
	_ = s.store.View(func(tx *repository.Tx) error {
		student, ok = tx.Students.FindByDNI(normaliseKey(dni))
		return nil
	})
	return student, ok
}

// Delete removes a student that no enrollment refers to.
func (s *StudentService) Delete(dni string) error {
	dni = normaliseKey(dni)
	err := s.store.Update(func(tx *repository.Tx) error {
		if !tx.Students.Exists(dni) {
			return appErrors.Clonef(appErrors.ErrNotFound, "student %s not found", dni)
		}
		if tx.Enrollments.ReferencesStudent(dni) {
			return appErrors.Clonef(appErrors.ErrReferentialIntegrity, "student %s has enrollments", dni)
		}
		return tx.Students.Delete(dni)
	})
	if err != nil {
		return err
	}
	s.logger.Info("student deleted", zap.String("dni", dni))
	return nil
}

// List returns all students in registration order.
func (s *StudentService) List() []*models.Student {
	var students []*models.Student
	_ = s.store.View(func(tx *repository.Tx) error {
		students = tx.Students.List()
		return nil
	})
	return students
}

func normaliseKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}
