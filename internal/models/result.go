package models

type UploadResponse struct {
	Key        string `json:"key"`
	DocumentID string `json:"documentId,omitempty"`
}

type ExtractRequest struct {
	FileID string `json:"fileId"`
}

// EmailResponse carries the ready-to-send plain-text email.
type EmailResponse struct {
	Email string `json:"email"`
}

type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
