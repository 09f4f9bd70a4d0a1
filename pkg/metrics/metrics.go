// Package metrics exports catalog gauges and the renewal counter in the
// Prometheus text format through an OpenTelemetry meter.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/lyflibrary/catalog/pkg/models"
	"github.com/pkg/errors"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Renewal outcomes.
const (
	OutcomeCommitted = "committed"
	OutcomeRejected  = "rejected"
	OutcomeForbidden = "forbidden"
)

// Collector reads the current catalog state for the observable gauges.
type Collector interface {
	CountBooks(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context) (map[models.LoanStatus]int, error)
	CountOverdue(ctx context.Context, today time.Time) (int, error)
}

// RenewalRecorder counts renewal attempts by outcome.
type RenewalRecorder interface {
	RecordRenewal(ctx context.Context, outcome string)
}

// Noop discards every measurement.
type Noop struct{}

func (Noop) RecordRenewal(context.Context, string) {}

type Exporter struct {
	registry      *promclient.Registry
	meterProvider *sdkmetric.MeterProvider
	collector     Collector
	now           func() time.Time

	renewals metric.Int64Counter
}

// New creates an exporter with its own Prometheus registry so that several
// exporters can coexist in one process.
func New(collector Collector) (*Exporter, error) {
	registry := promclient.NewRegistry()

	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, errors.Wrap(err, "creating prometheus exporter")
	}

	meterProvider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	meter := meterProvider.Meter("github.com/lyflibrary/catalog")

	e := &Exporter{
		registry:      registry,
		meterProvider: meterProvider,
		collector:     collector,
		now:           time.Now,
	}
	if err := e.registerInstruments(meter); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Exporter) registerInstruments(meter metric.Meter) error {
	var err error

	_, err = meter.Int64ObservableGauge(
		"catalog.books",
		metric.WithDescription("Number of books in the catalog"),
		metric.WithUnit("{books}"),
		metric.WithInt64Callback(e.observeBooks),
	)
	if err != nil {
		return errors.Wrap(err, "creating books gauge")
	}

	_, err = meter.Int64ObservableGauge(
		"catalog.instances",
		metric.WithDescription("Number of book instances by loan status"),
		metric.WithUnit("{instances}"),
		metric.WithInt64Callback(e.observeInstances),
	)
	if err != nil {
		return errors.Wrap(err, "creating instances gauge")
	}

	_, err = meter.Int64ObservableGauge(
		"catalog.instances.overdue",
		metric.WithDescription("Number of book instances past their due date"),
		metric.WithUnit("{instances}"),
		metric.WithInt64Callback(e.observeOverdue),
	)
	if err != nil {
		return errors.Wrap(err, "creating overdue gauge")
	}

	e.renewals, err = meter.Int64Counter(
		"catalog.renewals",
		metric.WithDescription("Renewal attempts by outcome"),
		metric.WithUnit("{renewals}"),
	)
	if err != nil {
		return errors.Wrap(err, "creating renewals counter")
	}

	return nil
}

func (e *Exporter) observeBooks(ctx context.Context, observer metric.Int64Observer) error {
	n, err := e.collector.CountBooks(ctx)
	if err != nil {
		return err
	}
	observer.Observe(int64(n))
	return nil
}

func (e *Exporter) observeInstances(ctx context.Context, observer metric.Int64Observer) error {
	counts, err := e.collector.CountByStatus(ctx)
	if err != nil {
		return err
	}
	for status, n := range counts {
		observer.Observe(int64(n), metric.WithAttributes(
			attribute.String("status", status.Label()),
		))
	}
	return nil
}

func (e *Exporter) observeOverdue(ctx context.Context, observer metric.Int64Observer) error {
	n, err := e.collector.CountOverdue(ctx, models.DateOf(e.now()))
	if err != nil {
		return err
	}
	observer.Observe(int64(n))
	return nil
}

func (e *Exporter) RecordRenewal(ctx context.Context, outcome string) {
	e.renewals.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// Handler serves the registry in the Prometheus text format.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

func (e *Exporter) Shutdown(ctx context.Context) error {
	return errors.WithStack(e.meterProvider.Shutdown(ctx))
}
