package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/noah-isme/matriculacion/internal/models"
	"github.com/noah-isme/matriculacion/internal/service"
	"github.com/noah-isme/matriculacion/pkg/config"
	"github.com/noah-isme/matriculacion/pkg/export"
	"github.com/noah-isme/matriculacion/pkg/logger"
	"github.com/noah-isme/matriculacion/pkg/storage"
)

type options struct {
	students    string
	cycles      string
	subjects    string
	enrollments string
	annul       []string
	report      string
	status      string
	format      string
	output      string
	outputDir   string
	metricsFile string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	opts, err := parseFlags(os.Args[1:], cfg)
	if err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	runID := uuid.NewString()
	logr = logger.WithRun(logr, runID)
	if err := run(cfg, opts, logr, os.Stdout, os.Stderr); err != nil {
		logr.Error("run failed", zap.Error(err))
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, cfg *config.Config) (options, error) {
	var opts options
	fs := pflag.NewFlagSet("matriculacion", pflag.ContinueOnError)
	fs.StringVar(&opts.students, "students", "", "students CSV (dni,name[,email,phone])")
	fs.StringVar(&opts.cycles, "cycles", "", "training cycles CSV (code,name[,family,grade,hours])")
	fs.StringVar(&opts.subjects, "subjects", "", "subjects CSV (code,name,course,cycle_code[,annual_hours])")
	fs.StringVar(&opts.enrollments, "enrollments", "", "enrollments CSV (dni,subject_code[,enrolled_on,annulled_on])")
	fs.StringArrayVar(&opts.annul, "annul", nil, "annul an enrollment, as id=dd/mm/yyyy (repeatable)")
	fs.StringVar(&opts.report, "report", "all", "report scope: all, none, student:<dni>, cycle:<code> or year:<yy-yy>")
	fs.StringVar(&opts.status, "status", "", "only report ACTIVE or ANNULLED enrollments")
	fs.StringVar(&opts.format, "format", cfg.Report.Format, "report format: table, csv or pdf")
	fs.StringVarP(&opts.output, "output", "o", "", "write the report to this file instead of stdout")
	fs.StringVar(&opts.outputDir, "output-dir", "", "store the report under a generated name in this directory")
	fs.StringVar(&opts.metricsFile, "metrics-textfile", cfg.Metrics.TextfilePath, "write Prometheus metrics to this textfile")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.output != "" && opts.outputDir != "" {
		return options{}, fmt.Errorf("--output and --output-dir are mutually exclusive")
	}
	return opts, nil
}

func run(cfg *config.Config, opts options, logr *zap.Logger, stdout, stderr io.Writer) error {
	metrics := service.NewMetricsService()
	registry := service.NewRegistry(service.RegistryOptions{
		StrictDNILetter: cfg.Registry.StrictDNILetter,
		Location:        cfg.Registry.Location,
	}, metrics, logr.Named("registry"))
	importer := service.NewImportService(registry, metrics, logr.Named("import"))

	steps := []struct {
		path string
		load func(io.Reader) (*service.ImportResult, error)
	}{
		{opts.cycles, importer.TrainingCycles},
		{opts.subjects, importer.Subjects},
		{opts.students, importer.Students},
		{opts.enrollments, importer.Enrollments},
	}
	for _, step := range steps {
		if step.path == "" {
			continue
		}
		result, err := importFile(step.path, step.load)
		if err != nil {
			return err
		}
		printImport(stderr, step.path, result)
	}

	for _, raw := range opts.annul {
		id, date, err := parseAnnul(raw)
		if err != nil {
			return err
		}
		if err := registry.AnnulEnrollment(id, date); err != nil {
			color.New(color.FgYellow).Fprintf(stderr, "annul %d: %v\n", id, err)
			continue
		}
		color.New(color.FgGreen).Fprintf(stderr, "enrollment %d annulled on %s\n", id, date)
	}

	if err := writeReport(cfg, opts, registry, logr, stdout, stderr); err != nil {
		return err
	}

	counts := registry.Counts()
	logr.Info("run finished",
		zap.Int("students", counts.Students),
		zap.Int("cycles", counts.Cycles),
		zap.Int("subjects", counts.Subjects),
		zap.Int("enrollments", counts.Enrollments),
		zap.Int("active_enrollments", counts.ActiveEnrollments),
	)
	if err := metrics.WriteTextfile(opts.metricsFile); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

func importFile(path string, load func(io.Reader) (*service.ImportResult, error)) (*service.ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck
	return load(f)
}

func printImport(w io.Writer, path string, result *service.ImportResult) {
	color.New(color.FgCyan).Fprintf(w, "%s: %d %s rows imported (batch %s)\n", path, result.Imported, result.Entity, result.BatchID)
	for _, failure := range result.Failures {
		color.New(color.FgYellow).Fprintf(w, "  %v\n", failure)
	}
}

func writeReport(cfg *config.Config, opts options, registry *service.Registry, logr *zap.Logger, stdout, stderr io.Writer) error {
	filter, ok, err := parseReport(opts.report)
	if err != nil || !ok {
		return err
	}
	if opts.status != "" {
		filter.Status = models.EnrollmentStatus(strings.ToUpper(strings.TrimSpace(opts.status)))
	}
	format, err := export.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	reports := service.NewReportService(registry, cfg.Report.Title, logr.Named("report"))
	if opts.outputDir != "" {
		store, err := storage.NewLocalStorage(opts.outputDir)
		if err != nil {
			return err
		}
		path, err := reports.Save(store, filter, format, registry.Now())
		if err != nil {
			return err
		}
		color.New(color.FgGreen).Fprintf(stderr, "report written to %s\n", path)
		return nil
	}

	out, err := reports.Render(filter, format)
	if err != nil {
		return err
	}
	if opts.output == "" {
		_, err = stdout.Write(out)
		return err
	}
	if err := os.WriteFile(opts.output, out, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	color.New(color.FgGreen).Fprintf(stderr, "report written to %s\n", opts.output)
	return nil
}

// parseReport turns a --report value into a filter. ok is false for "none".
func parseReport(raw string) (filter models.EnrollmentFilter, ok bool, err error) {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "", "all":
		return filter, true, nil
	case "none":
		return filter, false, nil
	}
	kind, value, found := strings.Cut(raw, ":")
	value = strings.TrimSpace(value)
	if !found || value == "" {
		return filter, false, fmt.Errorf("invalid --report %q: want all, none, student:<dni>, cycle:<code> or year:<yy-yy>", raw)
	}
	switch strings.ToLower(kind) {
	case "student":
		filter.StudentDNI = value
	case "cycle":
		filter.CycleCode = value
	case "subject":
		filter.SubjectCode = value
	case "year":
		filter.AcademicYear = value
	default:
		return filter, false, fmt.Errorf("invalid --report scope %q", kind)
	}
	return filter, true, nil
}

func parseAnnul(raw string) (int, string, error) {
	rawID, date, found := strings.Cut(raw, "=")
	if !found {
		return 0, "", fmt.Errorf("invalid --annul %q: want id=dd/mm/yyyy", raw)
	}
	id, err := strconv.Atoi(strings.TrimSpace(rawID))
	if err != nil || id < 1 {
		return 0, "", fmt.Errorf("invalid --annul %q: enrollment id must be a positive number", raw)
	}
	return id, strings.TrimSpace(date), nil
}
