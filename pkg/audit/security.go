// Package audit provides input screening and security audit logging for SIEM
// consumption. Events are logged in structured JSON format for easy parsing
// and integration with security information and event management systems.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-blueprint/pkg/auth"
)

// SecurityEventType categorizes security-relevant events for filtering and alerting.
type SecurityEventType string

const (
	// EventInjectionAttempt is logged when libinjection flags a submitted idea.
	EventInjectionAttempt SecurityEventType = "injection_attempt"
	// EventProjectDeleted is logged when an owner deletes a project.
	EventProjectDeleted SecurityEventType = "project_deleted"
)

// SecurityEvent represents an auditable security event with all relevant context
// for SIEM ingestion and analysis.
type SecurityEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType SecurityEventType `json:"event_type"`
	ProjectID *uuid.UUID        `json:"project_id,omitempty"`
	UserID    string            `json:"user_id,omitempty"`
	UserEmail string            `json:"user_email,omitempty"`
	ClientIP  string            `json:"client_ip,omitempty"`
	Details   any               `json:"details"`
	Severity  string            `json:"severity"` // info, warning, critical
}

// SecurityAuditor logs security events for SIEM consumption.
type SecurityAuditor struct {
	logger *zap.Logger
}

// NewSecurityAuditor creates a new security auditor with a dedicated
// "security_audit" logger namespace for filtering in SIEM systems.
func NewSecurityAuditor(logger *zap.Logger) *SecurityAuditor {
	return &SecurityAuditor{logger: logger.Named("security_audit")}
}

// LogInjectionAttempt records input rejected by screening.
// This is logged at ERROR level with "critical" severity for immediate alerting.
// The submitted values are not logged, only the field names and fingerprints.
func (a *SecurityAuditor) LogInjectionAttempt(ctx context.Context, results []ScreenResult) {
	userID := auth.GetUserIDFromContext(ctx)
	clientIP := ClientIPFromContext(ctx)

	event := SecurityEvent{
		Timestamp: time.Now().UTC(),
		EventType: EventInjectionAttempt,
		UserID:    userID,
		UserEmail: auth.GetEmailFromContext(ctx),
		ClientIP:  clientIP,
		Details:   results,
		Severity:  "critical",
	}

	// Ignoring error as marshaling known types should never fail
	eventJSON, _ := json.Marshal(event)

	fields := make([]string, 0, len(results))
	for _, r := range results {
		fields = append(fields, r.Field+":"+r.Kind)
	}

	a.logger.Error("Injection attempt detected",
		zap.String("event_json", string(eventJSON)),
		zap.Strings("fields", fields),
		zap.String("client_ip", clientIP),
		zap.String("user_id", userID),
		zap.String("severity", "critical"),
	)
}

// LogProjectDeleted records the deletion of a project and its sub-resources.
func (a *SecurityAuditor) LogProjectDeleted(ctx context.Context, projectID uuid.UUID) {
	userID := auth.GetUserIDFromContext(ctx)
	clientIP := ClientIPFromContext(ctx)

	event := SecurityEvent{
		Timestamp: time.Now().UTC(),
		EventType: EventProjectDeleted,
		ProjectID: &projectID,
		UserID:    userID,
		UserEmail: auth.GetEmailFromContext(ctx),
		ClientIP:  clientIP,
		Details:   map[string]string{},
		Severity:  "info",
	}

	eventJSON, _ := json.Marshal(event)

	a.logger.Info("Project deleted",
		zap.String("event_json", string(eventJSON)),
		zap.String("project_id", projectID.String()),
		zap.String("client_ip", clientIP),
		zap.String("user_id", userID),
		zap.String("severity", "info"),
	)
}
