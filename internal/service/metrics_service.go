package service

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	appErrors "github.com/noah-isme/matriculacion/pkg/errors"
)

// MetricsService encapsulates Prometheus instrumentation for the registry.
type MetricsService struct {
	registry          *prometheus.Registry
	operations        *prometheus.CounterVec
	entities          *prometheus.GaugeVec
	activeEnrollments prometheus.Gauge
	importRows        *prometheus.CounterVec
}

// NewMetricsService registers the registry collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "registry_operations_total",
		Help: "Registry operations by entity, operation and outcome",
	}, []string{"entity", "operation", "outcome"})

	entities := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "registry_entities",
		Help: "Number of stored records per entity type",
	}, []string{"entity"})

	activeEnrollments := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "registry_active_enrollments",
		Help: "Number of enrollments not annulled",
	})

	importRows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "registry_import_rows_total",
		Help: "CSV rows processed by the importer",
	}, []string{"entity", "outcome"})

	registry.MustRegister(operations, entities, activeEnrollments, importRows)

	return &MetricsService{
		registry:          registry,
		operations:        operations,
		entities:          entities,
		activeEnrollments: activeEnrollments,
		importRows:        importRows,
	}
}

// Registry exposes the underlying Prometheus registry.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveOperation counts one registry call.
func (m *MetricsService) ObserveOperation(entity, operation string, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(entity, operation, outcome(err)).Inc()
}

// ObserveImportRow counts one imported CSV row.
func (m *MetricsService) ObserveImportRow(entity string, err error) {
	if m == nil {
		return
	}
	m.importRows.WithLabelValues(entity, outcome(err)).Inc()
}

// SetCounts refreshes the stored-record gauges.
func (m *MetricsService) SetCounts(c Counts) {
	if m == nil {
		return
	}
	m.entities.WithLabelValues(entityStudent).Set(float64(c.Students))
	m.entities.WithLabelValues(entityCycle).Set(float64(c.Cycles))
	m.entities.WithLabelValues(entitySubject).Set(float64(c.Subjects))
	m.entities.WithLabelValues(entityEnrollment).Set(float64(c.Enrollments))
	m.activeEnrollments.Set(float64(c.ActiveEnrollments))
}

// WriteTextfile dumps the metrics in the node exporter textfile format.
func (m *MetricsService) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return strings.ToLower(appErrors.CodeOf(err))
}
