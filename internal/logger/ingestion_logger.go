// Package logger provides ingestion-specific logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// IngestionLogger provides dedicated logging for batch writes and imports.
type IngestionLogger struct {
	*logrus.Entry
}

// NewIngestionLogger creates a new ingestion logger.
func NewIngestionLogger(baseLogger *logrus.Logger) *IngestionLogger {
	return &IngestionLogger{
		Entry: baseLogger.WithField("component", "ingestion"),
	}
}

// LogBatchWritten logs a committed batch.
func (il *IngestionLogger) LogBatchWritten(table string, size, written int, duration time.Duration) {
	il.WithFields(logrus.Fields{
		"table":       table,
		"batch_size":  size,
		"written":     written,
		"skipped":     size - written,
		"duration_ms": duration.Milliseconds(),
	}).Debug("Batch committed")
}

// LogDuplicateIgnored logs a batch rolled back because of a duplicate key.
func (il *IngestionLogger) LogDuplicateIgnored(table, detail string) {
	il.WithFields(logrus.Fields{
		"table":  table,
		"detail": detail,
	}).Info("Duplicate ignored")
}

// LogWriteFailed logs a batch that failed for any other reason.
func (il *IngestionLogger) LogWriteFailed(table string, size int, err error) {
	il.WithFields(logrus.Fields{
		"table":      table,
		"batch_size": size,
	}).WithError(err).Error("Batch write failed")
}

// LogImportStep logs the completion of one table of a legacy import.
func (il *IngestionLogger) LogImportStep(runID, table string, read, rejected int, duration time.Duration) {
	il.WithFields(logrus.Fields{
		"run_id":      runID,
		"table":       table,
		"rows_read":   read,
		"rejected":    rejected,
		"duration_ms": duration.Milliseconds(),
		"event_type":  "import_step",
	}).Info("Import step completed")
}

// LogFeatureRefresh logs the completion of a feature rebuild.
func (il *IngestionLogger) LogFeatureRefresh(runID string, entries, upserted, failed int, duration time.Duration) {
	il.WithFields(logrus.Fields{
		"run_id":      runID,
		"entries":     entries,
		"upserted":    upserted,
		"failed":      failed,
		"duration_ms": duration.Milliseconds(),
		"event_type":  "feature_refresh",
	}).Info("Feature refresh completed")
}
