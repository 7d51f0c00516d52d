package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/matriculacion/internal/models"
	"github.com/noah-isme/matriculacion/internal/repository"
	appErrors "github.com/noah-isme/matriculacion/pkg/errors"
)

const (
	entityStudent    = "student"
	entityCycle      = "training_cycle"
	entitySubject    = "subject"
	entityEnrollment = "enrollment"
)

// RegistryOptions configures a Registry.
type RegistryOptions struct {
	StrictDNILetter bool
	Location        *time.Location
	Clock           Clock
}

// Counts summarises the stored records.
type Counts struct {
	Students          int
	Cycles            int
	Subjects          int
	Enrollments       int
	ActiveEnrollments int
}

// Registry is the entry point for callers: it owns one store and exposes
// insert, find, delete, list, annul and query operations for every entity,
// recording metrics for each call.
type Registry struct {
	store       *repository.Store
	students    *StudentService
	cycles      *TrainingCycleService
	subjects    *SubjectService
	enrollments *EnrollmentService
	queries     *EnrollmentQueryService
	metrics     *MetricsService
	logger      *zap.Logger
}

// NewRegistry wires a Registry over a fresh store. metrics may be nil.
func NewRegistry(opts RegistryOptions, metrics *MetricsService, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	store := repository.NewStore()
	r := &Registry{
		store:       store,
		students:    NewStudentService(store, opts.StrictDNILetter, logger.Named("students")),
		cycles:      NewTrainingCycleService(store, logger.Named("cycles")),
		subjects:    NewSubjectService(store, logger.Named("subjects")),
		enrollments: NewEnrollmentService(store, opts.Clock, opts.Location, logger.Named("enrollments")),
		queries:     NewEnrollmentQueryService(store),
		metrics:     metrics,
		logger:      logger,
	}
	r.metrics.SetCounts(Counts{})
	return r
}

// Now returns the registry clock in its time zone, for building enrollments.
func (r *Registry) Now() time.Time { return r.enrollments.Now() }

// InsertStudent registers a student.
func (r *Registry) InsertStudent(student *models.Student) error {
	return r.mutated(entityStudent, "insert", r.students.Create(student))
}

// InsertTrainingCycle registers a training cycle.
func (r *Registry) InsertTrainingCycle(cycle *models.TrainingCycle) error {
	return r.mutated(entityCycle, "insert", r.cycles.Create(cycle))
}

// InsertSubject registers a subject of an already registered cycle.
func (r *Registry) InsertSubject(subject *models.Subject) error {
	return r.mutated(entitySubject, "insert", r.subjects.Create(subject))
}

// InsertEnrollment registers an enrollment and returns it with its ID.
func (r *Registry) InsertEnrollment(enrollment *models.Enrollment) (*models.Enrollment, error) {
	stored, err := r.enrollments.Enroll(enrollment)
	return stored, r.mutated(entityEnrollment, "insert", err)
}

// FindStudent looks a student up by DNI.
func (r *Registry) FindStudent(dni string) (*models.Student, bool) {
	s, ok := r.students.Find(dni)
	r.observe(entityStudent, "find", nil)
	return s, ok
}

// FindTrainingCycle looks a training cycle up by code.
func (r *Registry) FindTrainingCycle(code string) (*models.TrainingCycle, bool) {
	c, ok := r.cycles.Find(code)
	r.observe(entityCycle, "find", nil)
	return c, ok
}

// FindSubject looks a subject up by code.
func (r *Registry) FindSubject(code string) (*models.Subject, bool) {
	s, ok := r.subjects.Find(code)
	r.observe(entitySubject, "find", nil)
	return s, ok
}

// FindEnrollment looks an enrollment up by ID.
func (r *Registry) FindEnrollment(id int) (*models.Enrollment, bool) {
	e, ok := r.enrollments.Find(id)
	r.observe(entityEnrollment, "find", nil)
	return e, ok
}

// DeleteStudent removes a student without enrollments.
func (r *Registry) DeleteStudent(dni string) error {
	return r.mutated(entityStudent, "delete", r.students.Delete(dni))
}

// DeleteTrainingCycle removes a cycle without subjects.
func (r *Registry) DeleteTrainingCycle(code string) error {
	return r.mutated(entityCycle, "delete", r.cycles.Delete(code))
}

// DeleteSubject removes a subject without enrollments.
func (r *Registry) DeleteSubject(code string) error {
	return r.mutated(entitySubject, "delete", r.subjects.Delete(code))
}

// DeleteEnrollment always fails: enrollments can only be annulled.
func (r *Registry) DeleteEnrollment(id int) error {
	return r.mutated(entityEnrollment, "delete", r.enrollments.Delete(id))
}

// AnnulEnrollment annuls an enrollment on rawDate (dd/mm/yyyy or yyyy-mm-dd).
func (r *Registry) AnnulEnrollment(id int, rawDate string) error {
	_, err := r.enrollments.Annul(id, rawDate)
	return r.mutated(entityEnrollment, "annul", err)
}

// ListStudents returns all students in registration order.
func (r *Registry) ListStudents() []*models.Student {
	r.observe(entityStudent, "list", nil)
	return r.students.List()
}

// ListTrainingCycles returns all training cycles in registration order.
func (r *Registry) ListTrainingCycles() []*models.TrainingCycle {
	r.observe(entityCycle, "list", nil)
	return r.cycles.List()
}

// ListSubjects returns all subjects in registration order.
func (r *Registry) ListSubjects() []*models.Subject {
	r.observe(entitySubject, "list", nil)
	return r.subjects.List()
}

// ListEnrollments returns all enrollments in registration order.
func (r *Registry) ListEnrollments() []*models.Enrollment {
	r.observe(entityEnrollment, "list", nil)
	return r.enrollments.List()
}

// EnrollmentsByStudent returns the enrollments of a registered student.
func (r *Registry) EnrollmentsByStudent(dni string) ([]*models.Enrollment, error) {
	out, err := r.queries.ByStudent(dni)
	return out, r.observe(entityEnrollment, "by_student", err)
}

// EnrollmentsByTrainingCycle returns the enrollments of a registered cycle.
func (r *Registry) EnrollmentsByTrainingCycle(code string) ([]*models.Enrollment, error) {
	out, err := r.queries.ByTrainingCycle(code)
	return out, r.observe(entityEnrollment, "by_cycle", err)
}

// EnrollmentsByAcademicYear returns the enrollments of a "YY-YY" year.
func (r *Registry) EnrollmentsByAcademicYear(year string) ([]*models.Enrollment, error) {
	out, err := r.queries.ByAcademicYear(year)
	return out, r.observe(entityEnrollment, "by_academic_year", err)
}

// FilterEnrollments combines every criterion set in filter.
func (r *Registry) FilterEnrollments(filter models.EnrollmentFilter) ([]*models.Enrollment, *models.Pagination, error) {
	out, pagination, err := r.queries.Filter(filter)
	return out, pagination, r.observe(entityEnrollment, "filter", err)
}

// Counts reports how many records each store holds.
func (r *Registry) Counts() Counts {
	var c Counts
	_ = r.store.View(func(tx *repository.Tx) error {
		c = Counts{
			Students:          tx.Students.Count(),
			Cycles:            tx.Cycles.Count(),
			Subjects:          tx.Subjects.Count(),
			Enrollments:       tx.Enrollments.Count(),
			ActiveEnrollments: tx.Enrollments.CountActive(),
		}
		return nil
	})
	return c
}

func (r *Registry) mutated(entity, operation string, err error) error {
	if err == nil {
		r.metrics.SetCounts(r.Counts())
	}
	return r.observe(entity, operation, err)
}

func (r *Registry) observe(entity, operation string, err error) error {
	r.metrics.ObserveOperation(entity, operation, err)
	if err != nil {
		r.logger.Debug("registry operation rejected",
			zap.String("entity", entity),
			zap.String("operation", operation),
			zap.String("code", appErrors.CodeOf(err)),
			zap.Error(err),
		)
	}
	return err
}
