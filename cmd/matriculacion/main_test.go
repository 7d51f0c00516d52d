package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/matriculacion/internal/models"
	"github.com/noah-isme/matriculacion/pkg/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:      config.EnvDevelopment,
		Registry: config.RegistryConfig{Timezone: "UTC", Location: time.UTC},
		Report:   config.ReportConfig{Format: "table", Title: "Enrollments"},
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseReport(t *testing.T) {
	cases := []struct {
		raw  string
		want models.EnrollmentFilter
		ok   bool
	}{
		{"all", models.EnrollmentFilter{}, true},
		{"", models.EnrollmentFilter{}, true},
		{"none", models.EnrollmentFilter{}, false},
		{"student:12345678A", models.EnrollmentFilter{StudentDNI: "12345678A"}, true},
		{"Cycle: DAM", models.EnrollmentFilter{CycleCode: "DAM"}, true},
		{"subject:DAM01", models.EnrollmentFilter{SubjectCode: "DAM01"}, true},
		{"year:24-25", models.EnrollmentFilter{AcademicYear: "24-25"}, true},
	}
	for _, tc := range cases {
		got, ok, err := parseReport(tc.raw)
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.ok, ok, tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}

	for _, bad := range []string{"student", "course:1", "year:"} {
		_, _, err := parseReport(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseAnnul(t *testing.T) {
	id, date, err := parseAnnul("3=02/09/2024")
	require.NoError(t, err)
	assert.Equal(t, 3, id)
	assert.Equal(t, "02/09/2024", date)

	for _, bad := range []string{"3", "x=02/09/2024", "0=02/09/2024"} {
		_, _, err := parseAnnul(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseFlags(t *testing.T) {
	cfg := testConfig()
	opts, err := parseFlags([]string{"--students", "s.csv", "--annul", "1=02/09/2024", "--annul", "2=03/09/2024", "--format", "csv"}, cfg)
	require.NoError(t, err)
	assert.Equal(t, "s.csv", opts.students)
	assert.Equal(t, []string{"1=02/09/2024", "2=03/09/2024"}, opts.annul)
	assert.Equal(t, "csv", opts.format)
	assert.Equal(t, "all", opts.report)

	opts, err = parseFlags(nil, cfg)
	require.NoError(t, err)
	assert.Equal(t, "table", opts.format)

	_, err = parseFlags([]string{"-o", "a.csv", "--output-dir", "reports"}, cfg)
	assert.Error(t, err)
}

func TestRunImportsAnnulsAndReports(t *testing.T) {
	dir := t.TempDir()
	opts := options{
		cycles:      writeFile(t, dir, "cycles.csv", "code,name\nDAM,Desarrollo de Aplicaciones Multiplataforma\n"),
		subjects:    writeFile(t, dir, "subjects.csv", "code,name,course,cycle_code\nDAM01,Programación,1,DAM\n"),
		students:    writeFile(t, dir, "students.csv", "dni,name\n12345678A,Ana\n87654321B,Luis\n"),
		enrollments: writeFile(t, dir, "enrollments.csv", "dni,subject_code,enrolled_on\n12345678A,DAM01,01/09/2024\n87654321B,DAM01,02/09/2024\n"),
		annul:       []string{"1=02/09/2024", "9=02/09/2024"},
		report:      "all",
		status:      "active",
		format:      "csv",
		metricsFile: filepath.Join(dir, "registry.prom"),
	}
	var stdout, stderr bytes.Buffer

	require.NoError(t, run(testConfig(), opts, zap.NewNop(), &stdout, &stderr))

	assert.Equal(t,
		"ID,DNI,Student,Subject,Cycle,Academic year,Enrolled,Annulled,Status\n"+
			"2,87654321B,Luis,DAM01,DAM,24-25,02/09/2024,,ACTIVE\n",
		stdout.String())
	assert.Contains(t, stderr.String(), "enrollment 1 annulled on 02/09/2024")
	assert.Contains(t, stderr.String(), "annul 9: enrollment 9 not found")

	metrics, err := os.ReadFile(opts.metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `registry_active_enrollments 1`)
	assert.Contains(t, string(metrics), `registry_import_rows_total{entity="enrollment",outcome="ok"} 2`)
}

func TestRunWritesReportDirectory(t *testing.T) {
	dir := t.TempDir()
	opts := options{
		cycles:    writeFile(t, dir, "cycles.csv", "code,name\nDAM,Desarrollo\n"),
		report:    "cycle:DAM",
		format:    "pdf",
		outputDir: filepath.Join(dir, "reports"),
	}
	var stdout, stderr bytes.Buffer

	require.NoError(t, run(testConfig(), opts, zap.NewNop(), &stdout, &stderr))
	assert.Empty(t, stdout.String())

	matches, err := filepath.Glob(filepath.Join(dir, "reports", "enrollments_cycle-DAM_*.pdf"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestRunRejectsMissingFile(t *testing.T) {
	opts := options{students: filepath.Join(t.TempDir(), "missing.csv"), report: "none"}
	err := run(testConfig(), opts, zap.NewNop(), &bytes.Buffer{}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "missing.csv")
}
