package vehpos

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/hupe1980/vehpos/finder"
	"github.com/hupe1980/vehpos/record"
)

// Logger wraps slog.Logger with vehpos-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithSource adds the dataset name to the logger.
func (l *Logger) WithSource(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("source", name),
	}
}

// WithQuery adds a query id field to the logger.
func (l *Logger) WithQuery(id int) *Logger {
	return &Logger{
		Logger: l.Logger.With("query", id),
	}
}

// LogLoad logs the read of a dataset blob.
func (l *Logger) LogLoad(ctx context.Context, bytes int64, compression string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "load completed",
		"bytes", bytes,
		"compression", compression,
	)
}

// LogDecode logs a decode pass. Truncated input and empty datasets are
// warnings; the dataset is still usable.
func (l *Logger) LogDecode(ctx context.Context, records int, err error) {
	var te *record.TruncatedRecordError
	switch {
	case errors.As(err, &te):
		l.WarnContext(ctx, "dataset truncated",
			"records", records,
			"offset", te.Offset,
			"field", te.Field,
		)
	case err != nil:
		l.ErrorContext(ctx, "decode failed",
			"records", records,
			"error", err,
		)
	case records == 0:
		l.WarnContext(ctx, "dataset is empty")
	default:
		l.DebugContext(ctx, "decode completed",
			"records", records,
		)
	}
}

// LogSummary logs dataset statistics.
func (l *Logger) LogSummary(ctx context.Context, s record.Summary) {
	if s.DuplicateIDs > 0 {
		l.WarnContext(ctx, "dataset has duplicate vehicle ids",
			"records", s.Records,
			"distinct_ids", s.DistinctIDs,
			"duplicates", s.DuplicateIDs,
		)
		return
	}
	l.InfoContext(ctx, "dataset loaded",
		"records", s.Records,
		"distinct_ids", s.DistinctIDs,
		"min_recorded_time", s.MinRecordedTime,
		"max_recorded_time", s.MaxRecordedTime,
	)
}

// LogSearch logs a single nearest-vehicle query.
func (l *Logger) LogSearch(ctx context.Context, res finder.Result, err error) {
	if err != nil {
		l.ErrorContext(ctx, "search failed",
			"query", res.Query.ID,
			"error", err,
		)
		return
	}
	if !res.Found {
		l.DebugContext(ctx, "search found nothing",
			"query", res.Query.ID,
		)
		return
	}
	l.DebugContext(ctx, "search completed",
		"query", res.Query.ID,
		"vehicle", res.VehicleID,
		"distance_km", res.DistanceKm,
		"evaluated", res.Evaluated,
	)
}

// LogBatchSearch logs a batch of queries.
func (l *Logger) LogBatchSearch(ctx context.Context, queries, evaluated int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "batch search failed",
			"queries", queries,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "batch search completed",
		"queries", queries,
		"evaluated", evaluated,
	)
}
