package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/matriculacion/internal/models"
	appErrors "github.com/noah-isme/matriculacion/pkg/errors"
	"github.com/noah-isme/matriculacion/pkg/export"
	"github.com/noah-isme/matriculacion/pkg/storage"
)

func TestReportServiceEnrollments(t *testing.T) {
	r := seedCatalog(t)
	svc := NewReportService(r, "", nil)

	data, err := svc.Enrollments(models.EnrollmentFilter{CycleCode: "asir"})
	require.NoError(t, err)
	assert.Equal(t, "Enrollments (cycle ASIR)", data.Title)
	assert.Equal(t, enrollmentReportHeaders, data.Headers)
	require.Len(t, data.Rows, 1)
	assert.Equal(t, []string{
		"3", "87654321B", "Luis", "ASIR01", "ASIR", "23-24", "10/02/2024", "01/03/2024", "ANNULLED",
	}, data.Rows[0])
}

func TestReportServiceRenderCSV(t *testing.T) {
	r := seedCatalog(t)
	svc := NewReportService(r, "Matrículas", nil)

	out, err := svc.Render(models.EnrollmentFilter{StudentDNI: "12345678A"}, export.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t,
		"ID,DNI,Student,Subject,Cycle,Academic year,Enrolled,Annulled,Status\n"+
			"1,12345678A,Ana,DAM01,DAM,23-24,15/09/2023,,ACTIVE\n"+
			"2,12345678A,Ana,DAM01,DAM,24-25,01/09/2024,,ACTIVE\n",
		string(out))
}

func TestReportServicePropagatesQueryErrors(t *testing.T) {
	r := seedCatalog(t)
	svc := NewReportService(r, "", nil)

	_, err := svc.Render(models.EnrollmentFilter{AcademicYear: "23-25"}, export.FormatTable)
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Render(models.EnrollmentFilter{}, export.Format("xlsx"))
	assert.Error(t, err)
}

func TestReportServiceSave(t *testing.T) {
	r := seedCatalog(t)
	svc := NewReportService(r, "", nil)
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	path, err := svc.Save(store, models.EnrollmentFilter{AcademicYear: "24-25"}, export.FormatTable, testNow)
	require.NoError(t, err)
	assert.Equal(t, store.Path("enrollments_year-24-25_20241014_090000.txt"), path)
	assert.FileExists(t, path)
}
