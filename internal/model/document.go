package model

import "time"

const (
	// DefaultTitle is used when an upload carries no file name.
	DefaultTitle = "Untitled"
	// DefaultFileName is recorded when an upload carries no file name.
	DefaultFileName = "upload"
)

// Document represents one uploaded file and its (currently inert) processing results.
// Language, Summary and ExtractedDeadline are reserved for a real processing pipeline
// and are never populated by this service.
type Document struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	FileName          string    `json:"file_name"`
	Status            Status    `json:"status"`
	Language          string    `json:"language,omitempty"`
	Summary           string    `json:"summary,omitempty"`
	ExtractedDeadline string    `json:"extracted_deadline,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UploadPath        string    `json:"upload_path,omitempty"`
}
