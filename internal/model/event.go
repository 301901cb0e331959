package model

import (
	"database/sql"
	"time"
)

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategoryAuth      = "auth"
	EventCategoryAgenda    = "agenda"
	EventCategoryDocumento = "documento"
	EventCategoryNoticia   = "noticia"
	EventCategoryUser      = "user"
	EventCategoryConfig    = "config"
	EventCategorySystem    = "system"
)

// Event represents a system event log entry.
type Event struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	UserID    sql.NullInt64
	Metadata  string // JSON string
	CreatedAt time.Time
}
