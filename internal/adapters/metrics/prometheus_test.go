package metrics

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder_Observe(t *testing.T) {
	r, err := NewRecorder(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewRecorder failed: %v", err)
	}
	ctx := context.Background()

	r.Observe(ctx, "create", "ok", 10*time.Millisecond)
	r.Observe(ctx, "create", "ok", 20*time.Millisecond)
	r.Observe(ctx, "get", "not_found", time.Millisecond)
	r.Observe(ctx, "", "ok", time.Millisecond)

	tests := []struct {
		op, outcome string
		want        float64
	}{
		{"create", "ok", 2},
		{"get", "not_found", 1},
		{"get", "ok", 0},
	}
	for _, tt := range tests {
		t.Run(tt.op+"/"+tt.outcome, func(t *testing.T) {
			got := testutil.ToFloat64(r.operations.WithLabelValues(tt.op, tt.outcome))
			if got != tt.want {
				t.Errorf("operations_total = %v, want %v", got, tt.want)
			}
		})
	}

	if n := testutil.CollectAndCount(r.durations); n != 2 {
		t.Errorf("duration series = %d, want 2", n)
	}
}

func TestRecorder_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewRecorder(reg); err != nil {
		t.Fatalf("first NewRecorder failed: %v", err)
	}
	if _, err := NewRecorder(reg); err == nil {
		t.Error("expected error registering twice on one registry")
	}
}

func TestRecorder_Handler(t *testing.T) {
	r, err := NewRecorder(nil)
	if err != nil {
		t.Fatalf("NewRecorder failed: %v", err)
	}
	r.ObserveRequest("/fish", "GET", 200)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	want := `fishery_http_requests_total{code="200",method="GET",route="/fish"} 1`
	if !strings.Contains(string(body), want) {
		t.Errorf("exposition missing %q", want)
	}
	if !strings.Contains(string(body), "go_goroutines") {
		t.Error("default registry should carry the Go collector")
	}
}
