package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/matriculacion/internal/models"
	"github.com/noah-isme/matriculacion/pkg/export"
)

var enrollmentReportHeaders = []string{
	"ID", "DNI", "Student", "Subject", "Cycle", "Academic year", "Enrolled", "Annulled", "Status",
}

type enrollmentFilterer interface {
	FilterEnrollments(filter models.EnrollmentFilter) ([]*models.Enrollment, *models.Pagination, error)
}

type reportSaver interface {
	Save(filename string, data []byte) (string, error)
}

// ReportService turns enrollment queries into rendered reports.
type ReportService struct {
	registry enrollmentFilterer
	title    string
	logger   *zap.Logger
}

// NewReportService constructs a ReportService. An empty title defaults to
// "Enrollments".
func NewReportService(registry enrollmentFilterer, title string, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(title) == "" {
		title = "Enrollments"
	}
	return &ReportService{registry: registry, title: title, logger: logger}
}

// Enrollments builds the dataset of enrollments matching filter.
func (s *ReportService) Enrollments(filter models.EnrollmentFilter) (export.Dataset, error) {
	enrollments, _, err := s.registry.FilterEnrollments(filter)
	if err != nil {
		return export.Dataset{}, err
	}
	rows := make([][]string, 0, len(enrollments))
	for _, e := range enrollments {
		rows = append(rows, enrollmentRow(e))
	}
	return export.Dataset{
		Title:   reportTitle(s.title, filter),
		Headers: enrollmentReportHeaders,
		Rows:    rows,
	}, nil
}

// Render builds the dataset for filter and renders it in format.
func (s *ReportService) Render(filter models.EnrollmentFilter, format export.Format) ([]byte, error) {
	renderer, err := export.RendererFor(format)
	if err != nil {
		return nil, err
	}
	data, err := s.Enrollments(filter)
	if err != nil {
		return nil, err
	}
	out, err := renderer.Render(data)
	if err != nil {
		return nil, fmt.Errorf("render %s report: %w", format, err)
	}
	s.logger.Debug("report rendered", zap.String("format", string(format)), zap.Int("rows", len(data.Rows)))
	return out, nil
}

// Save renders the report and stores it under a generated file name.
func (s *ReportService) Save(store reportSaver, filter models.EnrollmentFilter, format export.Format, at time.Time) (string, error) {
	out, err := s.Render(filter, format)
	if err != nil {
		return "", err
	}
	path, err := store.Save(reportFilename(filter, format, at), out)
	if err != nil {
		return "", err
	}
	s.logger.Info("report saved", zap.String("path", path))
	return path, nil
}

func enrollmentRow(e *models.Enrollment) []string {
	annulled := ""
	if e.AnnulledOn != nil {
		annulled = models.FormatDate(*e.AnnulledOn)
	}
	return []string{
		strconv.Itoa(e.ID),
		e.Student.DNI,
		e.Student.Name,
		e.Subject.Code,
		e.Subject.CycleCode(),
		e.AcademicYear(),
		models.FormatDate(e.EnrolledOn),
		annulled,
		string(e.Status()),
	}
}

func reportTitle(base string, f models.EnrollmentFilter) string {
	var parts []string
	if f.StudentDNI != "" {
		parts = append(parts, "student "+normaliseKey(f.StudentDNI))
	}
	if f.CycleCode != "" {
		parts = append(parts, "cycle "+normaliseKey(f.CycleCode))
	}
	if f.SubjectCode != "" {
		parts = append(parts, "subject "+normaliseKey(f.SubjectCode))
	}
	if f.AcademicYear != "" {
		parts = append(parts, "year "+f.AcademicYear)
	}
	if f.Status != "" {
		parts = append(parts, strings.ToLower(string(f.Status)))
	}
	if len(parts) == 0 {
		return base
	}
	return base + " (" + strings.Join(parts, ", ") + ")"
}

func reportFilename(f models.EnrollmentFilter, format export.Format, at time.Time) string {
	scope := "all"
	switch {
	case f.StudentDNI != "":
		scope = "student-" + normaliseKey(f.StudentDNI)
	case f.CycleCode != "":
		scope = "cycle-" + normaliseKey(f.CycleCode)
	case f.AcademicYear != "":
		scope = "year-" + f.AcademicYear
	}
	ext := string(format)
	if format == export.FormatTable {
		ext = "txt"
	}
	return fmt.Sprintf("enrollments_%s_%s.%s", scope, at.UTC().Format("20060102_150405"), ext)
}
