package pdfrun

import "time"

// Step/overall status values recorded in the activity log.
const (
	StatusSuccess      = "success"
	StatusFailed       = "failed"
	StatusUploadFailed = "upload_failed"
)

// PromptResult records one prompt's outcome against a conversation.
type PromptResult struct {
	Prompt   string `json:"prompt"`
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
	Status   string `json:"status"`
}

// UploadResult records the upload step for one file.
type UploadResult struct {
	Status   string `json:"status"`
	Filename string `json:"filename"`
	Path     string `json:"path"`
	UploadID string `json:"upload_id,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Entry is the full record for one processed PDF. Entries are append-only
// and cumulative across runs.
type Entry struct {
	ID             string                  `json:"id"`
	Timestamp      time.Time               `json:"timestamp"`
	FileNumber     int                     `json:"file_number"`
	TotalFiles     int                     `json:"total_files"`
	PDFPath        string                  `json:"pdf_path"`
	PDFName        string                  `json:"pdf_name"`
	DeploymentID   string                  `json:"deployment_id"`
	ConversationID string                  `json:"conversation_id,omitempty"`
	Upload         UploadResult            `json:"upload"`
	Prompts        map[string]PromptResult `json:"prompts,omitempty"`
	OverallStatus  string                  `json:"overall_status"`
}

// Log is the on-disk activity log document.
type Log struct {
	ProcessedFiles []Entry   `json:"processed_files"`
	LastUpdated    time.Time `json:"last_updated"`
}
