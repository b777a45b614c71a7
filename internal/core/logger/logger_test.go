package logger

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_RejectsUnknownLevel(t *testing.T) {
	RegisterTestingT(t)

	_, err := New(Config{ServiceName: "todolist", Level: "chatty"})

	Expect(err).To(HaveOccurred())
}

func TestBuildLokiEntry(t *testing.T) {
	RegisterTestingT(t)

	l, err := New(Config{ServiceName: "todolist", LokiURL: "http://loki:3100/"})
	Expect(err).To(BeNil())
	defer l.Shutdown(t.Context())
	Expect(l.lokiURL).To(Equal("http://loki:3100/loki/api/v1/push"))

	now := time.Unix(1700000000, 0)
	entry, err := l.buildLokiEntry(trace.SpanContext{}, zapcore.ErrorLevel, "boom", []zap.Field{
		zap.String("method", "GET"),
		zap.Int("status", 500),
		zap.Error(errors.New("db down")),
	}, now)

	Expect(err).To(BeNil())
	Expect(entry.Streams).To(HaveLen(1))
	Expect(entry.Streams[0].Stream).To(HaveKeyWithValue("service", "todolist"))
	Expect(entry.Streams[0].Stream).To(HaveKeyWithValue("level", "error"))

	values := entry.Streams[0].Values[0]
	Expect(values[0]).To(Equal("1700000000000000000"))

	line := map[string]any{}
	Expect(json.Unmarshal([]byte(values[1]), &line)).To(Succeed())
	Expect(line).To(HaveKeyWithValue("message", "boom"))
	Expect(line).To(HaveKeyWithValue("method", "GET"))
	Expect(line).To(HaveKeyWithValue("status", BeNumerically("==", 500)))
	Expect(line).To(HaveKeyWithValue("error", "db down"))
	Expect(line).ToNot(HaveKey("trace_id"))
}

func TestErrorWithTrace_PushesToLoki(t *testing.T) {
	RegisterTestingT(t)

	received := make(chan LokiLogEntry, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		entry := LokiLogEntry{}
		json.Unmarshal(body, &entry)
		received <- entry
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	l, err := New(Config{ServiceName: "todolist", LokiURL: server.URL})
	Expect(err).To(BeNil())
	defer l.Shutdown(t.Context())

	l.ErrorWithTrace(t.Context(), "failed to save todo", zap.String("todo_id", "abc"))

	Eventually(received).Should(Receive(WithTransform(func(e LokiLogEntry) string {
		return e.Streams[0].Stream["level"]
	}, Equal("error"))))
}

func TestShutdown_DrainsQueuedEntries(t *testing.T) {
	RegisterTestingT(t)

	var pushed atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pushed.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	l, err := New(Config{ServiceName: "todolist", LokiURL: server.URL})
	Expect(err).To(BeNil())

	l.InfoWithTrace(t.Context(), "first")
	l.WarnWithTrace(t.Context(), "second")
	l.ErrorWithTrace(t.Context(), "third")

	Expect(l.Shutdown(t.Context())).To(Succeed())
	Expect(pushed.Load()).To(Equal(int32(3)))

	l.InfoWithTrace(t.Context(), "after shutdown")
	Expect(l.Shutdown(t.Context())).To(Succeed())
	Consistently(pushed.Load, 100*time.Millisecond).Should(Equal(int32(3)))
}

func TestEnqueue_DropsWhenQueueIsFull(t *testing.T) {
	RegisterTestingT(t)

	l := &Logger{
		lokiQueue: make(chan LokiLogEntry, 1),
		done:      make(chan struct{}),
	}

	l.enqueue(LokiLogEntry{})
	l.enqueue(LokiLogEntry{})

	Expect(l.lokiQueue).To(HaveLen(1))
}

func TestShutdown_WithoutLokiIsNoop(t *testing.T) {
	RegisterTestingT(t)

	Expect(NewNop().Shutdown(t.Context())).To(Succeed())
}
