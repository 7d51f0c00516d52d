package models

import "strings"

// Subject represents an academic subject taught within one training cycle.
type Subject struct {
	Code        string         `json:"code" validate:"subject_code"`
	Name        string         `json:"name" validate:"notblank"`
	Course      int            `json:"course" validate:"oneof=1 2"`
	AnnualHours int            `json:"annual_hours" validate:"gte=0,lte=500"`
	Cycle       *TrainingCycle `json:"cycle" validate:"required"`
}

// SubjectOption sets optional metadata on a new subject.
type SubjectOption func(*Subject)

// WithAnnualHours sets the yearly teaching hours.
func WithAnnualHours(hours int) SubjectOption {
	return func(s *Subject) { s.AnnualHours = hours }
}

// NewSubject builds a validated subject. The cycle must be a validated
// instance, not just a code.
func NewSubject(code, name string, course int, cycle *TrainingCycle, opts ...SubjectOption) (*Subject, error) {
	s := &Subject{
		Code:   strings.ToUpper(strings.TrimSpace(code)),
		Name:   strings.TrimSpace(name),
		Course: course,
		Cycle:  cycle,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the subject's fields, including its cycle.
func (s *Subject) Validate() error {
	if s == nil {
		return invalid("subject is required")
	}
	return validateEntity("subject", s)
}

// Key returns the identity key.
func (s *Subject) Key() string { return s.Code }

// CycleCode returns the owning cycle's code, or "" if unset.
func (s *Subject) CycleCode() string {
	if s == nil || s.Cycle == nil {
		return ""
	}
	return s.Cycle.Code
}

// Equal reports identity equality.
func (s *Subject) Equal(other *Subject) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.Code == other.Code
}

// Clone returns a copy sharing the immutable cycle reference.
func (s *Subject) Clone() *Subject {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
