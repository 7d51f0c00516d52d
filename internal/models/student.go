package models

import (
	"strconv"
	"strings"
)

const dniLetters = "TRWAGMYFPDXBNJZSQVHLCKE"

// Student represents a learner registered in the institution. DNI is the
// identity; the record is immutable once registered.
type Student struct {
	DNI   string `json:"dni" validate:"dni"`
	Name  string `json:"name" validate:"notblank"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
	Phone string `json:"phone,omitempty" validate:"omitempty,phone"`
}

// StudentOption sets optional contact details on a new student.
type StudentOption func(*Student)

// WithEmail sets the contact e-mail.
func WithEmail(email string) StudentOption {
	return func(s *Student) { s.Email = strings.TrimSpace(email) }
}

// WithPhone sets the contact phone number.
func WithPhone(phone string) StudentOption {
	return func(s *Student) { s.Phone = strings.TrimSpace(phone) }
}

// NewStudent builds a validated student. The DNI letter is upper-cased and
// the name trimmed before validation.
func NewStudent(dni, name string, opts ...StudentOption) (*Student, error) {
	s := &Student{
		DNI:  strings.ToUpper(strings.TrimSpace(dni)),
		Name: strings.TrimSpace(name),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the student's fields.
func (s *Student) Validate() error {
	if s == nil {
		return invalid("student is required")
	}
	return validateEntity("student", s)
}

// Key returns the identity key.
func (s *Student) Key() string { return s.DNI }

// Equal reports identity equality.
func (s *Student) Equal(other *Student) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.DNI == other.DNI
}

// Clone returns an independent copy.
func (s *Student) Clone() *Student {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// DNILetterValid reports whether the control letter matches the number.
func DNILetterValid(dni string) bool {
	if !dniPattern.MatchString(dni) {
		return false
	}
	n, err := strconv.Atoi(dni[:8])
	if err != nil {
		return false
	}
	return dni[8] == dniLetters[n%len(dniLetters)]
}
