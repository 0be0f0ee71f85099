package health_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/ErlanBelekov/taskboard/internal/health"
	"github.com/prometheus/client_golang/prometheus"
)

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

func newTestChecker(deps ...health.Dependency) (*health.Checker, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return health.NewChecker(slog.Default(), reg, deps...), reg
}

func TestLiveness_AlwaysUp(t *testing.T) {
	c, _ := newTestChecker(health.Dependency{Name: "postgres", Ping: &mockPinger{err: errors.New("db down")}})

	result := c.Liveness(context.Background())
	if result.Status != "up" {
		t.Fatalf("expected status up, got %s", result.Status)
	}
	if result.Checks != nil {
		t.Fatalf("expected no checks, got %v", result.Checks)
	}
}

func TestReadiness_PostgresUp(t *testing.T) {
	c, reg := newTestChecker(health.Dependency{Name: "postgres", Ping: &mockPinger{}})

	result := c.Readiness(context.Background())
	if result.Status != "up" {
		t.Fatalf("expected status up, got %s", result.Status)
	}
	if pg := result.Checks["postgres"]; pg.Status != "up" {
		t.Fatalf("expected postgres up, got %q", pg.Status)
	}
	if g := gaugeValue(t, reg, "postgres"); g != 1 {
		t.Fatalf("expected gauge 1, got %f", g)
	}
}

func TestReadiness_OneDependencyDown(t *testing.T) {
	c, reg := newTestChecker(
		health.Dependency{Name: "postgres", Ping: &mockPinger{err: errors.New("connection refused")}},
		health.Dependency{Name: "replica", Ping: &mockPinger{}},
	)

	result := c.Readiness(context.Background())
	if result.Status != "down" {
		t.Fatalf("expected status down, got %s", result.Status)
	}
	pg := result.Checks["postgres"]
	if pg.Status != "down" || pg.Error == "" {
		t.Fatalf("expected postgres down with error, got %+v", pg)
	}
	if result.Checks["replica"].Status != "up" {
		t.Fatalf("replica should still be reported up")
	}
	if g := gaugeValue(t, reg, "postgres"); g != 0 {
		t.Fatalf("expected postgres gauge 0, got %f", g)
	}
	if g := gaugeValue(t, reg, "replica"); g != 1 {
		t.Fatalf("expected replica gauge 1, got %f", g)
	}
}

func gaugeValue(t *testing.T, reg *prometheus.Registry, dep string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() != "taskboard_health_check_up" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "dependency" && lp.GetValue() == dep {
					return m.GetGauge().GetValue()
				}
			}
		}
	}
	t.Fatalf("gauge for dependency %q not found", dep)
	return 0
}
