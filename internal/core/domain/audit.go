package domain

import "time"

// AuditEventType is the business category of an audit record.
type AuditEventType string

const (
	AuditLogin          AuditEventType = "login"
	AuditLogout         AuditEventType = "logout"
	AuditHandoff        AuditEventType = "session_handoff"
	AuditSessionPurged  AuditEventType = "session_purged"
	AuditAccessDenied   AuditEventType = "access_denied"
	AuditDegradedAccess AuditEventType = "degraded_access"
)

// AuditEvent is an immutable, append-only record of a security-relevant
// console event. Audit capture is best-effort: failures must never block the
// request that produced the event.
type AuditEvent struct {
	ID        string         `json:"id"`
	Type      AuditEventType `json:"type"`
	SubjectID string         `json:"subject_id,omitempty"`
	Email     string         `json:"email,omitempty"`
	Role      Role           `json:"role,omitempty"`
	Path      string         `json:"path,omitempty"`
	Decision  string         `json:"decision,omitempty"`
	Message   string         `json:"message,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
