package models

import (
	"time"

	appErrors "github.com/noah-isme/matriculacion/pkg/errors"
)

// EnrollmentStatus represents the lifecycle of an enrollment.
type EnrollmentStatus string

// Possible enrollment statuses.
const (
	EnrollmentStatusActive   EnrollmentStatus = "ACTIVE"
	EnrollmentStatusAnnulled EnrollmentStatus = "ANNULLED"
)

// Enrollment links a student to a subject. ID is assigned by the store.
type Enrollment struct {
	ID         int        `json:"id"`
	Student    *Student   `json:"student" validate:"required"`
	Subject    *Subject   `json:"subject" validate:"required"`
	EnrolledOn time.Time  `json:"enrolled_on" validate:"-"`
	AnnulledOn *time.Time `json:"annulled_on,omitempty" validate:"-"`
}

// NewEnrollment builds a validated, active enrollment. A zero enrolledOn
// means today; now is the caller's clock.
func NewEnrollment(student *Student, subject *Subject, enrolledOn, now time.Time) (*Enrollment, error) {
	if enrolledOn.IsZero() {
		enrolledOn = now
	}
	e := &Enrollment{
		Student:    student,
		Subject:    subject,
		EnrolledOn: DateOf(enrolledOn),
	}
	if err := e.Validate(now); err != nil {
		return nil, err
	}
	return e, nil
}

// Validate checks references and dates against the caller's clock.
func (e *Enrollment) Validate(now time.Time) error {
	if e == nil {
		return invalid("enrollment is required")
	}
	if err := validateEntity("enrollment", e); err != nil {
		return err
	}
	if e.EnrolledOn.IsZero() {
		return invalid("invalid enrollment: enrolled_on is required")
	}
	today := DateOf(now)
	enrolled := DateOf(e.EnrolledOn)
	if enrolled.After(today) {
		return invalid("invalid enrollment: enrolled_on %s is in the future", FormatDate(enrolled))
	}
	if e.AnnulledOn != nil {
		annulled := DateOf(*e.AnnulledOn)
		if annulled.Before(enrolled) || annulled.After(today) {
			return invalid("invalid enrollment: annulled_on %s is out of range", FormatDate(annulled))
		}
	}
	return nil
}

// Key returns the identity key.
func (e *Enrollment) Key() int { return e.ID }

// Equal reports identity equality.
func (e *Enrollment) Equal(other *Enrollment) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.ID == other.ID
}

// AcademicYear derives the school year from the enrollment date.
func (e *Enrollment) AcademicYear() string {
	return AcademicYearOf(e.EnrolledOn)
}

// Status reports whether the enrollment is still active.
func (e *Enrollment) Status() EnrollmentStatus {
	if e.AnnulledOn != nil {
		return EnrollmentStatusAnnulled
	}
	return EnrollmentStatusActive
}

// Active reports whether no annulment date is set.
func (e *Enrollment) Active() bool { return e.AnnulledOn == nil }

// Annul sets the annulment date. It is a one-way transition: the date must
// fall between the enrollment date and today, and a second call fails.
func (e *Enrollment) Annul(on, now time.Time) error {
	if e.AnnulledOn != nil {
		return appErrors.Clonef(appErrors.ErrAlreadyAnnulled, "enrollment %d was already annulled on %s", e.ID, FormatDate(*e.AnnulledOn))
	}
	if on.IsZero() {
		return appErrors.Clone(appErrors.ErrInvalidDate, "annulment date is required")
	}
	date := DateOf(on)
	if date.Before(DateOf(e.EnrolledOn)) {
		return appErrors.Clonef(appErrors.ErrInvalidDate, "annulment date %s is before enrollment date %s", FormatDate(date), FormatDate(e.EnrolledOn))
	}
	if date.After(DateOf(now)) {
		return appErrors.Clonef(appErrors.ErrInvalidDate, "annulment date %s is in the future", FormatDate(date))
	}
	e.AnnulledOn = &date
	return nil
}

// Clone returns a copy with its own annulment date; student and subject
// references are shared since they are immutable.
func (e *Enrollment) Clone() *Enrollment {
	if e == nil {
		return nil
	}
	c := *e
	if e.AnnulledOn != nil {
		d := *e.AnnulledOn
		c.AnnulledOn = &d
	}
	return &c
}

// EnrollmentFilter provides filters for listing enrollments. Empty fields
// match everything.
type EnrollmentFilter struct {
	StudentDNI   string
	CycleCode    string
	SubjectCode  string
	AcademicYear string
	Status       EnrollmentStatus
	Page         int
	PageSize     int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
