package events

import (
	"go.uber.org/zap"
)

// LoggingObserver writes every event to a zap logger.
type LoggingObserver struct {
	logger *zap.Logger
}

// NewLoggingObserver creates a logging observer.
func NewLoggingObserver(logger *zap.Logger) *LoggingObserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingObserver{logger: logger}
}

func (o *LoggingObserver) OnEvent(event Event) error {
	switch p := event.Payload.(type) {
	case CatalogReloadedEvent:
		o.logger.Info("catalog reloaded",
			zap.Int("cards", p.Cards),
			zap.Int("encounter_sets", p.EncounterSets),
			zap.Int("campaigns", p.Campaigns),
			zap.Int("search_entries", p.SearchEntries),
			zap.Duration("took", p.Took))
	case ReloadFailedEvent:
		o.logger.Error("catalog reload failed", zap.Error(p.Err))
	default:
		o.logger.Debug("event", zap.String("type", event.Type))
	}
	return nil
}

func (o *LoggingObserver) Name() string { return "logging" }

func (o *LoggingObserver) ShouldHandle(string) bool { return true }

// ReloadRecorder counts reload outcomes.
type ReloadRecorder interface {
	RecordReload(err error)
}

// MetricsObserver feeds reload outcomes into a recorder.
type MetricsObserver struct {
	recorder ReloadRecorder
}

// NewMetricsObserver creates an observer that records reloads.
func NewMetricsObserver(r ReloadRecorder) *MetricsObserver {
	return &MetricsObserver{recorder: r}
}

func (o *MetricsObserver) OnEvent(event Event) error {
	switch p := event.Payload.(type) {
	case CatalogReloadedEvent:
		o.recorder.RecordReload(nil)
	case ReloadFailedEvent:
		o.recorder.RecordReload(p.Err)
	}
	return nil
}

func (o *MetricsObserver) Name() string { return "metrics" }

func (o *MetricsObserver) ShouldHandle(eventType string) bool {
	return eventType == CatalogReloaded || eventType == ReloadFailed
}
