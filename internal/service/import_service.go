package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/matriculacion/internal/models"
	appErrors "github.com/noah-isme/matriculacion/pkg/errors"
)

type importRegistry interface {
	Now() time.Time
	InsertStudent(student *models.Student) error
	InsertTrainingCycle(cycle *models.TrainingCycle) error
	InsertSubject(subject *models.Subject) error
	InsertEnrollment(enrollment *models.Enrollment) (*models.Enrollment, error)
	AnnulEnrollment(id int, rawDate string) error
	FindStudent(dni string) (*models.Student, bool)
	FindTrainingCycle(code string) (*models.TrainingCycle, bool)
	FindSubject(code string) (*models.Subject, bool)
}

// RowError reports a CSV row that could not be imported. Line is the
// 1-based line in the file, the header being line 1.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

func (e RowError) Unwrap() error { return e.Err }

// ImportResult summarises one imported file.
type ImportResult struct {
	BatchID  string
	Entity   string
	Imported int
	Failures []RowError
}

// ImportService loads registry entities from CSV files. Rows are inserted one
// by one; a rejected row is recorded and the batch carries on.
type ImportService struct {
	registry importRegistry
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewImportService constructs an ImportService. metrics may be nil.
func NewImportService(registry importRegistry, metrics *MetricsService, logger *zap.Logger) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{registry: registry, metrics: metrics, logger: logger}
}

// Students imports rows with columns dni, name and optionally email, phone.
func (s *ImportService) Students(r io.Reader) (*ImportResult, error) {
	return s.run(entityStudent, r, []string{"dni", "name"}, func(row csvRow) error {
		student, err := models.NewStudent(row.get("dni"), row.get("name"),
			models.WithEmail(row.get("email")), models.WithPhone(row.get("phone")))
		if err != nil {
			return err
		}
		return s.registry.InsertStudent(student)
	})
}

// TrainingCycles imports rows with columns code, name and optionally family,
// grade, hours.
func (s *ImportService) TrainingCycles(r io.Reader) (*ImportResult, error) {
	return s.run(entityCycle, r, []string{"code", "name"}, func(row csvRow) error {
		opts := []models.CycleOption{models.WithFamily(row.get("family"))}
		if grade := row.get("grade"); grade != "" {
			opts = append(opts, models.WithGrade(models.Grade(grade)))
		}
		hours, err := row.number("hours")
		if err != nil {
			return err
		}
		opts = append(opts, models.WithHours(hours))
		cycle, err := models.NewTrainingCycle(row.get("code"), row.get("name"), opts...)
		if err != nil {
			return err
		}
		return s.registry.InsertTrainingCycle(cycle)
	})
}

// Subjects imports rows with columns code, name, course, cycle_code and
// optionally annual_hours. The cycle must already be registered.
func (s *ImportService) Subjects(r io.Reader) (*ImportResult, error) {
	return s.run(entitySubject, r, []string{"code", "name", "course", "cycle_code"}, func(row csvRow) error {
		course, err := row.number("course")
		if err != nil {
			return err
		}
		hours, err := row.number("annual_hours")
		if err != nil {
			return err
		}
		cycle, ok := s.registry.FindTrainingCycle(row.get("cycle_code"))
		if !ok {
			return appErrors.Clonef(appErrors.ErrNotFound, "training cycle %s not found", strings.ToUpper(row.get("cycle_code")))
		}
		subject, err := models.NewSubject(row.get("code"), row.get("name"), course, cycle, models.WithAnnualHours(hours))
		if err != nil {
			return err
		}
		return s.registry.InsertSubject(subject)
	})
}

// Enrollments imports rows with columns dni, subject_code and optionally
// enrolled_on (empty means today) and annulled_on.
func (s *ImportService) Enrollments(r io.Reader) (*ImportResult, error) {
	return s.run(entityEnrollment, r, []string{"dni", "subject_code"}, func(row csvRow) error {
		student, ok := s.registry.FindStudent(row.get("dni"))
		if !ok {
			return appErrors.Clonef(appErrors.ErrNotFound, "student %s not found", strings.ToUpper(row.get("dni")))
		}
		subject, ok := s.registry.FindSubject(row.get("subject_code"))
		if !ok {
			return appErrors.Clonef(appErrors.ErrNotFound, "subject %s not found", strings.ToUpper(row.get("subject_code")))
		}
		var enrolledOn time.Time
		if raw := row.get("enrolled_on"); raw != "" {
			parsed, err := models.ParseDate(raw)
			if err != nil {
				return err
			}
			enrolledOn = parsed
		}
		enrollment, err := models.NewEnrollment(student, subject, enrolledOn, s.registry.Now())
		if err != nil {
			return err
		}
		stored, err := s.registry.InsertEnrollment(enrollment)
		if err != nil {
			return err
		}
		if raw := row.get("annulled_on"); raw != "" {
			return s.registry.AnnulEnrollment(stored.ID, raw)
		}
		return nil
	})
}

type csvRow struct {
	index  map[string]int
	record []string
}

func (r csvRow) get(column string) string {
	i, ok := r.index[column]
	if !ok || i >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[i])
}

func (r csvRow) number(column string) (int, error) {
	raw := r.get(column)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, appErrors.Clonef(appErrors.ErrValidation, "%s %q is not a number", column, raw)
	}
	return n, nil
}

func (s *ImportService) run(entity string, r io.Reader, required []string, insert func(csvRow) error) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, appErrors.Clonef(appErrors.ErrValidation, "%s csv is empty", entity)
		}
		return nil, fmt.Errorf("read %s csv header: %w", entity, err)
	}
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, column := range required {
		if _, ok := index[column]; !ok {
			return nil, appErrors.Clonef(appErrors.ErrValidation, "%s csv is missing column %q", entity, column)
		}
	}

	result := &ImportResult{BatchID: uuid.NewString(), Entity: entity}
	log := s.logger.With(zap.String("batch_id", result.BatchID), zap.String("entity", entity))
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return result, fmt.Errorf("read %s csv: %w", entity, err)
		}
		line, _ := reader.FieldPos(0)
		if blank(record) {
			continue
		}
		err = insert(csvRow{index: index, record: record})
		s.metrics.ObserveImportRow(entity, err)
		if err != nil {
			result.Failures = append(result.Failures, RowError{Line: line, Err: err})
			log.Warn("row rejected", zap.Int("line", line), zap.Error(err))
			continue
		}
		result.Imported++
	}
	log.Info("import finished", zap.Int("imported", result.Imported), zap.Int("failed", len(result.Failures)))
	return result, nil
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
