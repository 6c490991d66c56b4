// Copyright 2025 The Verso Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package verso

import (
	"context"
	"fmt"
	"net/http"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// meterName identifies this module's instrumentation scope.
const meterName = "github.com/verso-http/verso"

// Package-level cached context reused for metric recording. Counter adds do
// not use the context for cancellation, and the request context may already
// be done by the time a failure is recorded.
var bgCtx = context.Background()

// Metrics records resolution outcomes as OpenTelemetry counters. By default
// it owns a Prometheus registry and exposes it through Handler; pass
// WithMeterProvider to plug into an existing metrics stack instead.
type Metrics struct {
	resolutions   metric.Int64Counter
	conflicts     metric.Int64Counter
	failures      metric.Int64Counter
	deprecatedUse metric.Int64Counter

	ownProvider *sdkmetric.MeterProvider // nil when externally provided
	promReg     *promclient.Registry     // nil when externally provided
}

type metricsConfig struct {
	provider metric.MeterProvider
	promReg  *promclient.Registry
}

// MetricsOption configures NewMetrics.
type MetricsOption func(*metricsConfig)

// WithMeterProvider uses an externally managed meter provider. Handler
// returns nil in this mode; exposition belongs to the provider's owner.
func WithMeterProvider(mp metric.MeterProvider) MetricsOption {
	return func(cfg *metricsConfig) {
		cfg.provider = mp
	}
}

// WithPrometheusRegistry collects into an existing Prometheus registry
// instead of a fresh one.
func WithPrometheusRegistry(reg *promclient.Registry) MetricsOption {
	return func(cfg *metricsConfig) {
		cfg.promReg = reg
	}
}

// NewMetrics creates the metrics recorder.
//
// Example:
//
//	m, err := verso.NewMetrics()
//	http.Handle("/metrics", m.Handler())
//	p, err := verso.New(resolver, table, verso.WithMetrics(m))
func NewMetrics(opts ...MetricsOption) (*Metrics, error) {
	cfg := &metricsConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	m := &Metrics{}

	provider := cfg.provider
	if provider == nil {
		m.promReg = cfg.promReg
		if m.promReg == nil {
			m.promReg = promclient.NewRegistry()
		}
		exporter, err := otelprom.New(otelprom.WithRegisterer(m.promReg))
		if err != nil {
			return nil, fmt.Errorf("create prometheus exporter: %w", err)
		}
		m.ownProvider = sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
		provider = m.ownProvider
	}

	meter := provider.Meter(meterName)

	var err error
	if m.resolutions, err = meter.Int64Counter("verso.resolutions",
		metric.WithDescription("Version resolutions by token and source"),
	); err != nil {
		return nil, fmt.Errorf("create resolutions counter: %w", err)
	}
	if m.conflicts, err = meter.Int64Counter("verso.resolution.conflicts",
		metric.WithDescription("Resolutions where channels disagreed and precedence decided"),
	); err != nil {
		return nil, fmt.Errorf("create conflicts counter: %w", err)
	}
	if m.failures, err = meter.Int64Counter("verso.resolution.failures",
		metric.WithDescription("Rejected requests by error code"),
	); err != nil {
		return nil, fmt.Errorf("create failures counter: %w", err)
	}
	if m.deprecatedUse, err = meter.Int64Counter("verso.deprecated.use",
		metric.WithDescription("Requests served by deprecated or sunset versions"),
	); err != nil {
		return nil, fmt.Errorf("create deprecated use counter: %w", err)
	}

	return m, nil
}

// Handler returns the Prometheus scrape endpoint for the recorder's own
// registry, or nil when an external meter provider is in use.
func (m *Metrics) Handler() http.Handler {
	if m.promReg == nil {
		return nil
	}

	return promhttp.HandlerFor(m.promReg, promhttp.HandlerOpts{})
}

// Shutdown flushes and stops the recorder's own provider, if it has one.
func (m *Metrics) Shutdown(ctx context.Context) error {
	if m.ownProvider == nil {
		return nil
	}

	return m.ownProvider.Shutdown(ctx)
}

func (m *Metrics) recordResolution(ctx context.Context, token, source string) {
	m.resolutions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("version", token),
		attribute.String("source", source),
	))
}

func (m *Metrics) recordConflict(ctx context.Context, token string) {
	m.conflicts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("version", token),
	))
}

func (m *Metrics) recordFailure(ctx context.Context, code string) {
	m.failures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("code", code),
	))
}

func (m *Metrics) recordDeprecatedUse(ctx context.Context, token string) {
	m.deprecatedUse.Add(ctx, 1, metric.WithAttributes(
		attribute.String("version", token),
	))
}
