// Package model contains domain models passed between layers.
package model

import "time"

// DocumentStatus is the lifecycle state of a submitted proposal document.
// Transitions are owned by the results store and workers, never by the
// analysis core.
type DocumentStatus string

const (
	StatusUploaded   DocumentStatus = "uploaded"
	StatusProcessing DocumentStatus = "processing"
	StatusCompleted  DocumentStatus = "completed"
	StatusFailed     DocumentStatus = "failed"
)

// Document is one submitted Detailed Project Report. The core only ever sees
// its identifier and declared language; everything else is bookkeeping for
// the surrounding service.
type Document struct {
	ID         string         `json:"id"`
	Filename   string         `json:"filename"`
	Language   string         `json:"language"`
	UploadedAt time.Time      `json:"uploadedAt"`
	Status     DocumentStatus `json:"status"`
}
