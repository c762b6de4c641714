package dto

import (
	"time"

	"github.com/bravo68web/folio/internal/domain/models"
)

// ReloadResponse reports the outcome of an admin reload
type ReloadResponse struct {
	Trigger  string             `json:"trigger"`
	Changed  bool               `json:"changed"`
	Projects int                `json:"projects"`
	Summary  models.LoadSummary `json:"summary"`
}

// HealthResponse reports liveness and readiness
type HealthResponse struct {
	Status    string    `json:"status"`
	Dataset   bool      `json:"dataset"`
	Commits   int       `json:"commits"`
	LoadedAt  time.Time `json:"loaded_at,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorResponse is the body of every API error
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
