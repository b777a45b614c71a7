package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// lokiQueueSize bounds the records waiting for the push worker. Records
// logged while the queue is full are dropped from Loki, never from stdout.
const lokiQueueSize = 256

type Config struct {
	ServiceName string
	Level       string
	LokiURL     string
}

// Logger writes structured logs through otelzap and optionally mirrors them
// to a Loki push endpoint.
type Logger struct {
	Logger      *otelzap.Logger
	serviceName string
	lokiURL     string
	httpClient  *http.Client

	lokiQueue chan LokiLogEntry
	done      chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

type LokiLogEntry struct {
	Streams []LokiStream `json:"streams"`
}

type LokiStream struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"`
}

func New(config Config) (*Logger, error) {
	zapConfig := zap.NewProductionConfig()
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.EncoderConfig.TimeKey = "timestamp"

	if config.Level != "" {
		level, err := zapcore.ParseLevel(config.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", config.Level, err)
		}
		zapConfig.Level = zap.NewAtomicLevelAt(level)
	}

	zapLogger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create zap logger: %w", err)
	}

	l := &Logger{
		Logger:      otelzap.New(zapLogger),
		serviceName: config.ServiceName,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}

	if config.LokiURL != "" {
		l.lokiURL = strings.TrimRight(config.LokiURL, "/") + "/loki/api/v1/push"
		l.lokiQueue = make(chan LokiLogEntry, lokiQueueSize)
		l.done = make(chan struct{})

		l.wg.Add(1)
		go l.runLokiWorker()
	}

	return l, nil
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{
		Logger:     otelzap.New(zap.NewNop()),
		httpClient: http.DefaultClient,
	}
}

func (l *Logger) Sync() error {
	return l.Logger.Sync()
}

// Shutdown stops the Loki worker after it has pushed what is already queued.
// It returns ctx.Err() if the queue does not drain in time.
func (l *Logger) Shutdown(ctx context.Context) error {
	if l.lokiQueue == nil {
		return nil
	}

	l.stopOnce.Do(func() { close(l.done) })

	drained := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Logger) Ctx(ctx context.Context) otelzap.LoggerWithCtx {
	return l.Logger.Ctx(ctx)
}

func (l *Logger) InfoWithTrace(ctx context.Context, msg string, fields ...zap.Field) {
	l.logWithTrace(ctx, zapcore.InfoLevel, msg, fields...)
}

func (l *Logger) WarnWithTrace(ctx context.Context, msg string, fields ...zap.Field) {
	l.logWithTrace(ctx, zapcore.WarnLevel, msg, fields...)
}

func (l *Logger) ErrorWithTrace(ctx context.Context, msg string, fields ...zap.Field) {
	l.logWithTrace(ctx, zapcore.ErrorLevel, msg, fields...)
}

func (l *Logger) logWithTrace(ctx context.Context, level zapcore.Level, msg string, fields ...zap.Field) {
	logFields := append(fields, zap.String("service", l.serviceName))

	switch level {
	case zapcore.ErrorLevel:
		l.Logger.Ctx(ctx).Error(msg, logFields...)
	case zapcore.WarnLevel:
		l.Logger.Ctx(ctx).Warn(msg, logFields...)
	default:
		l.Logger.Ctx(ctx).Info(msg, logFields...)
	}

	if l.lokiQueue != nil {
		entry, err := l.buildLokiEntry(trace.SpanContextFromContext(ctx), level, msg, logFields, time.Now())
		if err != nil {
			return
		}
		l.enqueue(entry)
	}
}

func (l *Logger) enqueue(entry LokiLogEntry) {
	select {
	case <-l.done:
		return
	default:
	}

	select {
	case l.lokiQueue <- entry:
	default:
	}
}

func (l *Logger) runLokiWorker() {
	defer l.wg.Done()

	for {
		select {
		case entry := <-l.lokiQueue:
			l.pushToLoki(entry)
		case <-l.done:
			for {
				select {
				case entry := <-l.lokiQueue:
					l.pushToLoki(entry)
				default:
					return
				}
			}
		}
	}
}

func (l *Logger) pushToLoki(entry LokiLogEntry) {
	body, err := json.Marshal(entry)
	if err != nil {
		return
	}

	req, err := http.NewRequest(http.MethodPost, l.lokiURL, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return
	}
	resp.Body.Close()
}

func (l *Logger) buildLokiEntry(spanCtx trace.SpanContext, level zapcore.Level, msg string, fields []zap.Field, now time.Time) (LokiLogEntry, error) {
	// MapObjectEncoder resolves every zap field type into plain values.
	enc := zapcore.NewMapObjectEncoder()
	for _, field := range fields {
		field.AddTo(enc)
	}

	logData := enc.Fields
	logData["timestamp"] = now.Format(time.RFC3339Nano)
	logData["level"] = level.String()
	logData["message"] = msg

	if spanCtx.IsValid() {
		logData["trace_id"] = spanCtx.TraceID().String()
		logData["span_id"] = spanCtx.SpanID().String()
	}

	line, err := json.Marshal(logData)
	if err != nil {
		return LokiLogEntry{}, err
	}

	return LokiLogEntry{
		Streams: []LokiStream{
			{
				Stream: map[string]string{
					"service": l.serviceName,
					"level":   level.String(),
				},
				Values: [][]string{
					{fmt.Sprintf("%d", now.UnixNano()), string(line)},
				},
			},
		},
	}, nil
}
