package models

import (
	"time"

	"github.com/google/uuid"
)

// UploadedDocument is the multipart payload handed to the validator. It lives
// only for the duration of one validate-and-store call.
type UploadedDocument struct {
	Buffer           []byte
	DeclaredMimeType string
	OriginalFilename string
	DeclaredSize     int64
}

// Document is the registry row written for every upload that reached storage.
type Document struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	StorageKey       string    `gorm:"type:text;index" json:"storage_key"`
	Bucket           string    `gorm:"type:text" json:"bucket"`
	OriginalFileName string    `gorm:"type:text" json:"original_filename"`
	MimeType         string    `gorm:"type:text" json:"mime_type"`
	SizeBytes        int64     `json:"size_bytes"`
	CreatedAt        time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
}

func (d *Document) TableName() string {
	return "documents"
}
