package editorial

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// NoopEventSink is a no-operation implementation of EventSink
// Useful for production when you don't need event handling or for testing
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-operation event sink
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

// ContentCreated does nothing and returns nil
func (n *NoopEventSink) ContentCreated(ctx context.Context, content *Content) error {
	return nil
}

// ContentPublished does nothing and returns nil
func (n *NoopEventSink) ContentPublished(ctx context.Context, content *Content) error {
	return nil
}

// ContentUpdated does nothing and returns nil
func (n *NoopEventSink) ContentUpdated(ctx context.Context, content *Content) error {
	return nil
}

// ContentDeleted does nothing and returns nil
func (n *NoopEventSink) ContentDeleted(ctx context.Context, contentID uuid.UUID) error {
	return nil
}

// LoggingEventSink is an event sink that logs events but takes no other action
// Useful for development and debugging
type LoggingEventSink struct {
	logger *slog.Logger
}

// NewLoggingEventSink creates a new logging event sink. A nil logger falls
// back to slog.Default.
func NewLoggingEventSink(logger *slog.Logger) EventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingEventSink{logger: logger}
}

// ContentCreated logs the content creation event
func (l *LoggingEventSink) ContentCreated(ctx context.Context, content *Content) error {
	l.logger.Info("content created", "content_id", content.ID(), "author_id", content.AuthorID(), "state", content.State())
	return nil
}

// ContentPublished logs the publish event
func (l *LoggingEventSink) ContentPublished(ctx context.Context, content *Content) error {
	l.logger.Info("content published", "content_id", content.ID(), "published_at", content.PublishedAt())
	return nil
}

// ContentUpdated logs the content update event
func (l *LoggingEventSink) ContentUpdated(ctx context.Context, content *Content) error {
	l.logger.Info("content updated", "content_id", content.ID(), "state", content.State())
	return nil
}

// ContentDeleted logs the content deletion event
func (l *LoggingEventSink) ContentDeleted(ctx context.Context, contentID uuid.UUID) error {
	l.logger.Info("content deleted", "content_id", contentID)
	return nil
}
