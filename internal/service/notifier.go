package service

import "go.uber.org/zap"

// Notifier receives scan lifecycle events. The UI/WebSocket layers implement
// this to stream progress; the core only emits.
type Notifier interface {
	ScanStarted(passID string)
	ScanProgress(passID string, outcomes int64)
	ScanCompleted(passID string, stats *ScanStats)
}

// LoggingNotifier writes scan events to the log. It is the default sink when
// no UI layer is attached.
type LoggingNotifier struct {
	logger *zap.Logger
}

// NewLoggingNotifier creates a notifier that logs events.
func NewLoggingNotifier(logger *zap.Logger) *LoggingNotifier {
	return &LoggingNotifier{logger: logger}
}

func (n *LoggingNotifier) ScanStarted(passID string) {
	n.logger.Info("scan started", zap.String("pass_id", passID))
}

func (n *LoggingNotifier) ScanProgress(passID string, outcomes int64) {
	n.logger.Debug("scan progress", zap.String("pass_id", passID), zap.Int64("outcomes", outcomes))
}

func (n *LoggingNotifier) ScanCompleted(passID string, stats *ScanStats) {
	n.logger.Info("scan completed",
		zap.String("pass_id", passID),
		zap.Int("indexed", stats.Indexed),
		zap.Int("skipped", stats.Skipped),
		zap.Int("unreadable", stats.Unreadable),
		zap.Int("unsupported", stats.Unsupported),
		zap.Int("added", stats.Added),
		zap.Int("updated", stats.Updated),
		zap.Int("removed", stats.Removed),
		zap.Uint64("generation", stats.Generation),
		zap.Duration("duration", stats.Duration))
}
