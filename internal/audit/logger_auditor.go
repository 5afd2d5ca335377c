// filepath: internal/audit/logger_auditor.go
package audit

import (
	"context"

	"archivehub/internal/logging"
	"archivehub/internal/services"

	"github.com/sirupsen/logrus"
)

var _ services.Auditor = (*LoggerAuditor)(nil)

// LoggerAuditor writes audit events to the application log.
type LoggerAuditor struct {
	enabled bool
	log     *logrus.Logger
}

// NewLoggerAuditor creates a new instance of LoggerAuditor using the global logger.
func NewLoggerAuditor(enabled bool) *LoggerAuditor {
	return &LoggerAuditor{enabled: enabled}
}

// WithLogger directs events to a specific logger instead of logging.Log.
func (a *LoggerAuditor) WithLogger(log *logrus.Logger) *LoggerAuditor {
	a.log = log
	return a
}

// Log records an event if auditing is enabled.
func (a *LoggerAuditor) Log(ctx context.Context, action string, actor string, resource string, details map[string]interface{}) {
	if !a.enabled {
		return
	}

	fields := logrus.Fields{
		"audit_action":   action,
		"audit_actor":    actor,
		"audit_resource": resource,
	}
	for k, v := range details {
		fields["detail."+k] = v
	}

	log := a.log
	if log == nil {
		log = logging.Log
	}
	// grep for "AUDIT EVENT"
	log.WithContext(ctx).WithFields(fields).Info("AUDIT EVENT")
}
