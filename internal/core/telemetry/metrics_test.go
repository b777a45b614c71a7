package telemetry

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestAppMetrics_Counters(t *testing.T) {
	RegisterTestingT(t)

	metrics := NewAppMetrics(prometheus.NewRegistry())
	ctx := context.Background()

	metrics.RecordTodoOperation(ctx, "created")
	metrics.RecordTodoOperation(ctx, "created")
	metrics.RecordDatabaseOperation(ctx, "Insert", "todo")
	metrics.RecordRateLimitHit(ctx, "/api/todos")
	metrics.RecordRequest(ctx, "GET", "/api/todos", "200", 10*time.Millisecond)

	Expect(testutil.ToFloat64(metrics.todoOperations.WithLabelValues("created"))).To(Equal(2.0))
	Expect(testutil.ToFloat64(metrics.databaseOperations.WithLabelValues("Insert", "todo"))).To(Equal(1.0))
	Expect(testutil.ToFloat64(metrics.rateLimitHits.WithLabelValues("/api/todos"))).To(Equal(1.0))
	Expect(testutil.ToFloat64(metrics.requestTotal.WithLabelValues("GET", "/api/todos", "200"))).To(Equal(1.0))
}

func TestAppMetrics_ActiveConnections(t *testing.T) {
	RegisterTestingT(t)

	metrics := NewAppMetrics(prometheus.NewRegistry())
	ctx := context.Background()

	metrics.IncrementActiveConnections(ctx)
	metrics.IncrementActiveConnections(ctx)
	metrics.DecrementActiveConnections(ctx)

	Expect(testutil.ToFloat64(metrics.activeConnections)).To(Equal(1.0))
}
