package service

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/matriculacion/pkg/errors"
)

const (
	studentsCSV = `dni,name,email,phone
12345678A,Ana,ana@example.com,600111222
87654321B,Luis,,
12345678A,Ana again,,
1234,Broken,,
`
	cyclesCSV = `code,name,family,grade,hours
DAM,Desarrollo de Aplicaciones Multiplataforma,Informática,higher,2000
SMR,Sistemas Microinformáticos y Redes,Informática,MEDIUM,2000
`
	subjectsCSV = `code,name,course,annual_hours,cycle_code
DAM01,Programación,1,256,DAM
SMR01,Redes Locales,1,224,smr
ASIR01,Redes,1,200,ASIR
DAM02,Bases de Datos,three,,DAM
`
	enrollmentsCSV = `dni,subject_code,enrolled_on,annulled_on
12345678A,DAM01,01/09/2024,
87654321B,SMR01,2024-09-02,10/09/2024

12345678A,DAM01,05/09/2024,
99999999R,DAM01,05/09/2024,
87654321B,DAM01,31/12/2024,
`
)

func importAll(t *testing.T, svc *ImportService) []*ImportResult {
	t.Helper()
	var results []*ImportResult
	for _, step := range []struct {
		run  func(string) (*ImportResult, error)
		data string
	}{
		{func(s string) (*ImportResult, error) { return svc.Students(strings.NewReader(s)) }, studentsCSV},
		{func(s string) (*ImportResult, error) { return svc.TrainingCycles(strings.NewReader(s)) }, cyclesCSV},
		{func(s string) (*ImportResult, error) { return svc.Subjects(strings.NewReader(s)) }, subjectsCSV},
		{func(s string) (*ImportResult, error) { return svc.Enrollments(strings.NewReader(s)) }, enrollmentsCSV},
	} {
		result, err := step.run(step.data)
		require.NoError(t, err)
		results = append(results, result)
	}
	return results
}

func failedLines(result *ImportResult) []int {
	lines := make([]int, 0, len(result.Failures))
	for _, f := range result.Failures {
		lines = append(lines, f.Line)
	}
	return lines
}

func TestImportServiceLoadsAllEntities(t *testing.T) {
	r, metrics := newTestRegistry(t)
	svc := NewImportService(r, metrics, nil)

	results := importAll(t, svc)
	students, cycles, subjects, enrollments := results[0], results[1], results[2], results[3]

	assert.Equal(t, 2, students.Imported)
	assert.Equal(t, []int{4, 5}, failedLines(students))
	assert.ErrorIs(t, students.Failures[0], appErrors.ErrDuplicateIdentity)
	assert.ErrorIs(t, students.Failures[1], appErrors.ErrValidation)

	assert.Equal(t, 2, cycles.Imported)
	assert.Empty(t, cycles.Failures)

	assert.Equal(t, 2, subjects.Imported)
	assert.Equal(t, []int{4, 5}, failedLines(subjects))
	assert.ErrorIs(t, subjects.Failures[0], appErrors.ErrNotFound)
	assert.ErrorIs(t, subjects.Failures[1], appErrors.ErrValidation)

	assert.Equal(t, 2, enrollments.Imported)
	assert.Equal(t, []int{5, 6, 7}, failedLines(enrollments))
	assert.ErrorIs(t, enrollments.Failures[0], appErrors.ErrActiveEnrollmentExists)
	assert.ErrorIs(t, enrollments.Failures[1], appErrors.ErrNotFound)
	assert.ErrorIs(t, enrollments.Failures[2], appErrors.ErrValidation)

	for _, result := range results {
		_, err := uuid.Parse(result.BatchID)
		assert.NoError(t, err)
	}

	stored, ok := r.FindEnrollment(2)
	require.True(t, ok)
	require.NotNil(t, stored.AnnulledOn)
	assert.Equal(t, day(2024, 9, 10), *stored.AnnulledOn)

	cycle, ok := r.FindTrainingCycle("DAM")
	require.True(t, ok)
	assert.Equal(t, "HIGHER", string(cycle.Grade))
	assert.Equal(t, 2000, cycle.Hours)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.importRows.WithLabelValues(entityEnrollment, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.importRows.WithLabelValues(entityEnrollment, "not_found")))
}

func TestImportServiceRequiresColumns(t *testing.T) {
	r, _ := newTestRegistry(t)
	svc := NewImportService(r, nil, nil)

	_, err := svc.Students(strings.NewReader("dni,email\n12345678A,ana@example.com\n"))
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.ErrorContains(t, err, `"name"`)

	_, err = svc.TrainingCycles(strings.NewReader(""))
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestImportServiceHeaderIsCaseInsensitive(t *testing.T) {
	r, _ := newTestRegistry(t)
	svc := NewImportService(r, nil, nil)

	result, err := svc.Students(strings.NewReader("\ufeffDNI, Name\n12345678A, Ana\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	_, ok := r.FindStudent("12345678A")
	assert.True(t, ok)
}
