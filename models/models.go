package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Roles known to the app.
const (
	RoleAdmin = "admin"
	RoleClerk = "clerk"
)

// User represents an authenticated app user. Clerks record survey answers
// for their store; admins manage users and review submitted results.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64     `bun:"id,pk,autoincrement"`
	Username     string    `bun:"username,unique,notnull"`
	PasswordHash string    `bun:"password_hash,notnull"`
	Role         string    `bun:"role,notnull"`
	Store        string    `bun:"store,notnull,default:''"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Session is used by middleware and auth handlers.
type Session struct {
	bun.BaseModel `bun:"table:sessions,alias:s"`

	ID        string    `bun:"id,pk"`
	UserID    int64     `bun:"user_id,notnull"`
	User      User      `bun:"rel:belongs-to,join:user_id=id"`
	ExpiresAt time.Time `bun:"expires_at,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Expired returns true when the session expiry time has passed.
func (s Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

// SubmissionRun records one submit of a survey batch. The UUID is the
// idempotency key: replaying a run retries only the remote leg and never
// duplicates rows already mirrored.
type SubmissionRun struct {
	bun.BaseModel `bun:"table:submission_runs,alias:sr"`

	ID          string    `bun:"id,pk"`
	UserID      int64     `bun:"user_id,notnull"`
	Survey      string    `bun:"survey,notnull"`
	RowCount    int64     `bun:"row_count,notnull"`
	LedgerOK    bool      `bun:"ledger_ok,notnull,default:false"`
	RemoteOK    bool      `bun:"remote_ok,notnull,default:false"`
	RemoteError string    `bun:"remote_error"`
	PayloadJSON string    `bun:"payload_json"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// ExportRun records admin download activity.
type ExportRun struct {
	bun.BaseModel `bun:"table:export_runs,alias:er"`

	ID         int64     `bun:"id,pk,autoincrement"`
	UserID     *int64    `bun:"user_id"`
	ExportType string    `bun:"export_type,notnull"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// AuditLog captures immutable change history for key operations.
type AuditLog struct {
	bun.BaseModel `bun:"table:audit_logs,alias:al"`

	ID         int64     `bun:"id,pk,autoincrement"`
	UserID     int64     `bun:"user_id,notnull"`
	Action     string    `bun:"action,notnull"`
	EntityType string    `bun:"entity_type,notnull"`
	EntityID   string    `bun:"entity_id,notnull"`
	BeforeJSON string    `bun:"before_json"`
	AfterJSON  string    `bun:"after_json"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
