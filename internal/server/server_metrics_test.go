package server

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/preston-bernstein/game-catalog-service/internal/config"
	"github.com/preston-bernstein/game-catalog-service/internal/metrics"
	"github.com/preston-bernstein/game-catalog-service/internal/tracing"
)

func metricsSetupSuccess(ctx context.Context, cfg metrics.TelemetryConfig) (*metrics.Recorder, http.Handler, func(context.Context) error, error) {
	return metrics.NewRecorder(), http.NewServeMux(), func(context.Context) error { return nil }, nil
}

func TestBuildMetricsSuccessPathSetsServerAndShutdown(t *testing.T) {
	orig := metricsSetup
	defer func() { metricsSetup = orig }()
	metricsSetup = metricsSetupSuccess

	rec, srv, stop := buildMetrics(config.Config{
		Metrics: config.MetricsConfig{Enabled: true, Port: "9999"},
	}, nil, nil)

	if rec == nil || srv == nil || stop == nil {
		t.Fatalf("expected recorder, server, and shutdown to be set on success")
	}
	if srv.Addr() != ":9999" {
		t.Fatalf("expected metrics addr :9999, got %s", srv.Addr())
	}
}

func TestBuildMetricsFallsBackWhenSetupFails(t *testing.T) {
	orig := metricsSetup
	defer func() { metricsSetup = orig }()
	metricsSetup = func(context.Context, metrics.TelemetryConfig) (*metrics.Recorder, http.Handler, func(context.Context) error, error) {
		return nil, nil, nil, errors.New("exporter down")
	}

	rec, srv, stop := buildMetrics(config.Config{Metrics: config.MetricsConfig{Enabled: true}}, nil, nil)
	if rec == nil {
		t.Fatalf("expected fallback recorder")
	}
	if srv != nil || stop != nil {
		t.Fatalf("expected no metrics server or shutdown on failure")
	}
}

func TestBuildMetricsDisabledHasNoServer(t *testing.T) {
	rec, srv, _ := buildMetrics(config.Config{}, nil, nil)
	if rec == nil {
		t.Fatalf("expected recorder when metrics disabled")
	}
	if srv != nil {
		t.Fatalf("expected no metrics server when disabled")
	}
}

func TestBuildMetricsKeepsProvidedRecorder(t *testing.T) {
	given := metrics.NewRecorder()
	rec, srv, stop := buildMetrics(config.Config{Metrics: config.MetricsConfig{Enabled: true}}, nil, given)
	if rec != given || srv != nil || stop != nil {
		t.Fatalf("expected provided recorder to be used as-is")
	}
}

func TestBuildTracingPassesConfigAndSurvivesFailure(t *testing.T) {
	orig := tracingSetup
	defer func() { tracingSetup = orig }()

	var got tracing.Config
	tracingSetup = func(_ context.Context, cfg tracing.Config) (func(context.Context) error, error) {
		got = cfg
		return nil, errors.New("collector unreachable")
	}

	stop := buildTracing(context.Background(), config.Config{
		Version: "1.2.3",
		Metrics: config.MetricsConfig{ServiceName: "catalog"},
		Tracing: config.TracingConfig{Enabled: true, Endpoint: "localhost:4318", SampleRatio: 0.5},
	}, nil)

	if stop != nil {
		t.Fatalf("expected nil stop func after setup failure")
	}
	if got.ServiceName != "catalog" || got.ServiceVersion != "1.2.3" || got.SampleRatio != 0.5 || got.Endpoint != "localhost:4318" {
		t.Fatalf("unexpected tracing config %+v", got)
	}
}
