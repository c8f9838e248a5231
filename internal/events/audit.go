package events

import (
	"context"

	"go.uber.org/zap"
)

// AuditLog writes link lifecycle events to a structured log.
type AuditLog struct {
	logger *zap.Logger
}

// NewAuditLog creates an audit log writing through logger.
func NewAuditLog(logger *zap.Logger) *AuditLog {
	return &AuditLog{logger: logger.Named("audit")}
}

func (a *AuditLog) LinkCreated(_ context.Context, event *LinkCreatedEvent) error {
	a.logger.Info("link created",
		zap.String("code", event.Code),
		zap.String("url", event.URL),
		zap.Bool("generated", event.Generated),
		zap.Time("createdAt", event.CreatedAt),
		zap.String("clientIp", event.ClientIP),
	)

	return nil
}

func (a *AuditLog) LinkDeleted(_ context.Context, event *LinkDeletedEvent) error {
	a.logger.Info("link deleted",
		zap.String("code", event.Code),
		zap.Time("deletedAt", event.DeletedAt),
		zap.String("clientIp", event.ClientIP),
	)

	return nil
}

func (a *AuditLog) LinkClicked(_ context.Context, event *LinkClickedEvent) error {
	a.logger.Info("link clicked",
		zap.String("code", event.Code),
		zap.Time("clickedAt", event.ClickedAt),
		zap.String("referrer", event.Referrer),
		zap.String("userAgent", event.UserAgent),
	)

	return nil
}
