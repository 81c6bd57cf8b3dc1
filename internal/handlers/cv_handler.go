package handlers

import (
	"io"
	"log"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/semwett0301/rcruit-flow-sub001/internal/models"
	"github.com/semwett0301/rcruit-flow-sub001/internal/services"
)

// DocumentRecorder is the part of the upload registry the handler writes to.
type DocumentRecorder interface {
	Create(document *models.Document) error
}

type CVHandler struct {
	cvService services.CVService
	docRepo   DocumentRecorder
	bucket    string
}

// NewCVHandler creates the CV handler. docRepo may be nil when no database is configured.
func NewCVHandler(
	cvService services.CVService,
	docRepo DocumentRecorder,
	bucket string,
) *CVHandler {
	return &CVHandler{
		cvService: cvService,
		docRepo:   docRepo,
		bucket:    bucket,
	}
}

// HandleSave handles POST /cvs/save
func (h *CVHandler) HandleSave(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return RespondError(c, services.NewCorruptedError("No file was received or the file is corrupted"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return RespondError(c, services.NewCorruptedError("The uploaded file could not be read"))
	}
	defer file.Close()

	buffer, err := io.ReadAll(file)
	declaredSize := partSize(fileHeader)
	if err != nil || int64(len(buffer)) < declaredSize {
		return RespondError(c, services.NewError(services.CodePartialUpload, "The file was only partially uploaded", err).
			WithDetail("receivedSize", len(buffer)).
			WithDetail("declaredSize", declaredSize))
	}

	doc := &models.UploadedDocument{
		Buffer:           buffer,
		DeclaredMimeType: declaredMimeType(fileHeader.Header.Get(fiber.HeaderContentType), fileHeader.Filename),
		OriginalFilename: fileHeader.Filename,
		DeclaredSize:     fileHeader.Size,
	}

	key, err := h.cvService.ValidateAndStore(c.UserContext(), doc)
	if err != nil {
		return RespondError(c, err)
	}

	resp := models.UploadResponse{Key: key}
	if id, ok := h.record(doc, key); ok {
		resp.DocumentID = id.String()
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// HandleExtract handles POST /cvs/extract
func (h *CVHandler) HandleExtract(c *fiber.Ctx) error {
	var req models.ExtractRequest
	if err := c.BodyParser(&req); err != nil {
		return RespondError(c, services.NewProcessingError("Invalid request payload", err))
	}

	profile, err := h.cvService.ExtractProfile(c.UserContext(), req.FileID)
	if err != nil {
		return RespondError(c, err)
	}

	return c.JSON(profile)
}

// record writes the upload registry row. The upload already reached storage,
// so a failure here is only logged.
func (h *CVHandler) record(doc *models.UploadedDocument, key string) (uuid.UUID, bool) {
	if h.docRepo == nil {
		return uuid.Nil, false
	}

	row := models.Document{
		ID:               uuid.New(),
		StorageKey:       key,
		Bucket:           h.bucket,
		OriginalFileName: doc.OriginalFilename,
		MimeType:         doc.DeclaredMimeType,
		SizeBytes:        int64(len(doc.Buffer)),
	}
	if err := h.docRepo.Create(&row); err != nil {
		log.Printf("⚠️  Failed to record upload %s: %v", key, err)
		return uuid.Nil, false
	}

	return row.ID, true
}

// partSize is the length the client declared for the file part. The parser
// sets Size from the bytes it received, so only a part Content-Length header
// can reveal a truncated body.
func partSize(fh *multipart.FileHeader) int64 {
	if cl := fh.Header.Get(fiber.HeaderContentLength); cl != "" {
		if n, err := strconv.ParseInt(cl, 10, 64); err == nil && n > fh.Size {
			return n
		}
	}
	return fh.Size
}

// declaredMimeType trusts the part's Content-Type unless the client sent a
// generic one, in which case the extension decides.
func declaredMimeType(contentType, filename string) string {
	contentType = strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	if contentType == "" || contentType == fiber.MIMEOctetStream {
		if mime := services.MimeTypeForFilename(filename); mime != "" {
			return mime
		}
	}
	return contentType
}
