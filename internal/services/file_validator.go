package services

import (
	"bytes"
	"fmt"
	"math"
	"path/filepath"
	"slices"
	"strings"

	"github.com/docker/go-units"

	"github.com/semwett0301/rcruit-flow-sub001/internal/models"
)

const (
	MimePDF  = "application/pdf"
	MimeDoc  = "application/msword"
	MimeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var (
	signaturePDF = []byte("%PDF")
	signatureZIP = []byte{0x50, 0x4B, 0x03, 0x04}
	signatureOLE = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// AllowedMimeTypes is the upload allow-list in display order.
var AllowedMimeTypes = []string{MimePDF, MimeDoc, MimeDocx}

// AllowedExtensions lists the extension that belongs to each allowed type.
var AllowedExtensions = []string{".pdf", ".doc", ".docx"}

var extensionMimeTypes = map[string]string{
	".pdf":  MimePDF,
	".doc":  MimeDoc,
	".docx": MimeDocx,
}

var mimeSignatures = map[string][]byte{
	MimePDF:  signaturePDF,
	MimeDoc:  signatureOLE,
	MimeDocx: signatureZIP,
}

// MimeTypeForFilename returns the allowed media type implied by the extension, or "".
func MimeTypeForFilename(filename string) string {
	return extensionMimeTypes[strings.ToLower(filepath.Ext(filename))]
}

type FileValidator interface {
	Validate(doc *models.UploadedDocument) error
}

type fileValidator struct {
	maxFileSize int64
}

func NewFileValidator(maxFileSize int64) FileValidator {
	return &fileValidator{maxFileSize: maxFileSize}
}

// Validate runs presence, type, extension, size and signature checks in that
// order and returns the first failure. It performs no I/O.
func (v *fileValidator) Validate(doc *models.UploadedDocument) error {
	if doc == nil {
		return NewCorruptedError("No file was received or the file is corrupted")
	}

	if !slices.Contains(AllowedMimeTypes, doc.DeclaredMimeType) {
		return NewInvalidTypeError(fmt.Sprintf("File type %q is not allowed", doc.DeclaredMimeType)).
			WithDetail("allowedTypes", AllowedMimeTypes).
			WithDetail("allowedExtensions", AllowedExtensions).
			WithDetail("receivedType", doc.DeclaredMimeType)
	}

	ext := strings.ToLower(filepath.Ext(doc.OriginalFilename))
	if extensionMimeTypes[ext] != doc.DeclaredMimeType {
		return NewInvalidTypeError(fmt.Sprintf("File extension %q does not match an allowed type", ext)).
			WithDetail("allowedTypes", AllowedMimeTypes).
			WithDetail("allowedExtensions", AllowedExtensions).
			WithDetail("receivedType", doc.DeclaredMimeType).
			WithDetail("receivedExtension", ext)
	}

	if doc.DeclaredSize > v.maxFileSize {
		return NewSizeExceededError(fmt.Sprintf(
			"File size %s exceeds the maximum of %s",
			units.BytesSize(float64(doc.DeclaredSize)),
			units.BytesSize(float64(v.maxFileSize)),
		)).
			WithDetail("currentSize", doc.DeclaredSize).
			WithDetail("maxSize", v.maxFileSize).
			WithDetail("currentSizeMB", toMB(doc.DeclaredSize)).
			WithDetail("maxSizeMB", toMB(v.maxFileSize))
	}

	if len(doc.Buffer) == 0 {
		return NewCorruptedError("The file is empty")
	}

	if !bytes.HasPrefix(doc.Buffer, mimeSignatures[doc.DeclaredMimeType]) {
		return NewCorruptedError("File content does not match its declared type").
			WithDetail("declaredType", doc.DeclaredMimeType).
			WithDetail("detectedType", SniffMimeType(doc.Buffer))
	}

	return nil
}

// SniffMimeType returns the allowed media type whose signature prefixes data,
// or "" when none matches. ZIP containers are reported as Word XML.
func SniffMimeType(data []byte) string {
	switch {
	case bytes.HasPrefix(data, signaturePDF):
		return MimePDF
	case bytes.HasPrefix(data, signatureZIP):
		return MimeDocx
	case bytes.HasPrefix(data, signatureOLE):
		return MimeDoc
	default:
		return ""
	}
}

func toMB(size int64) float64 {
	return math.Round(float64(size)/(1024*1024)*100) / 100
}
