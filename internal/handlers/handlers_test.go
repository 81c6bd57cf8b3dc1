package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semwett0301/rcruit-flow-sub001/internal/models"
	"github.com/semwett0301/rcruit-flow-sub001/internal/services"
)

type fakeCVService struct {
	key     string
	profile *models.ExtractedProfile
	err     error

	stored    *models.UploadedDocument
	extracted string
}

func (f *fakeCVService) ValidateAndStore(_ context.Context, doc *models.UploadedDocument) (string, error) {
	f.stored = doc
	return f.key, f.err
}

func (f *fakeCVService) ExtractProfile(_ context.Context, key string) (*models.ExtractedProfile, error) {
	f.extracted = key
	return f.profile, f.err
}

type fakeEmailService struct {
	email string
	err   error
	form  *models.CandidateForm
}

func (f *fakeEmailService) GenerateEmail(_ context.Context, form *models.CandidateForm) (*models.EmailResponse, error) {
	f.form = form
	if f.err != nil {
		return nil, f.err
	}
	return &models.EmailResponse{Email: f.email}, nil
}

type fakeDocumentRepository struct {
	created []*models.Document
	err     error
}

func (f *fakeDocumentRepository) Create(document *models.Document) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, document)
	return nil
}

func newTestApp(cv services.CVService, email services.EmailService, repo *fakeDocumentRepository) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	var docRepo DocumentRecorder
	if repo != nil {
		docRepo = repo
	}
	RegisterRoutes(app, NewCVHandler(cv, docRepo, "cv-uploads"), NewEmailHandler(email))
	return app
}

func multipartRequest(t *testing.T, field, filename, contentType string, content []byte) *http.Request {
	t.Helper()
	return multipartRequestWithHeader(t, field, filename, contentType, content, nil)
}

func multipartRequestWithHeader(t *testing.T, field, filename, contentType string, content []byte, extra textproto.MIMEHeader) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	for key, values := range extra {
		for _, v := range values {
			header.Add(key, v)
		}
	}
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cvs/save", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeError(t *testing.T, resp *http.Response) models.ErrorResponse {
	t.Helper()
	var body models.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHandleSave(t *testing.T) {
	cv := &fakeCVService{key: "1700000000000-cv.pdf"}
	repo := &fakeDocumentRepository{}
	app := newTestApp(cv, &fakeEmailService{}, repo)

	resp, err := app.Test(multipartRequest(t, "file", "cv.pdf", "application/pdf", []byte("%PDF-1.7 body")))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body models.UploadResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "1700000000000-cv.pdf", body.Key)
	assert.NotEmpty(t, body.DocumentID)

	require.NotNil(t, cv.stored)
	assert.Equal(t, "application/pdf", cv.stored.DeclaredMimeType)
	assert.Equal(t, "cv.pdf", cv.stored.OriginalFilename)
	assert.Equal(t, int64(len("%PDF-1.7 body")), cv.stored.DeclaredSize)

	require.Len(t, repo.created, 1)
	assert.Equal(t, "1700000000000-cv.pdf", repo.created[0].StorageKey)
	assert.Equal(t, "cv-uploads", repo.created[0].Bucket)
}

func TestHandleSave_GenericContentTypeUsesExtension(t *testing.T) {
	cv := &fakeCVService{key: "1-cv.docx"}
	app := newTestApp(cv, &fakeEmailService{}, nil)

	resp, err := app.Test(multipartRequest(t, "file", "cv.docx", "application/octet-stream", []byte{0x50, 0x4B, 0x03, 0x04}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, services.MimeDocx, cv.stored.DeclaredMimeType)
}

func TestHandleSave_RegistryFailureDoesNotFailUpload(t *testing.T) {
	app := newTestApp(&fakeCVService{key: "1-cv.pdf"}, &fakeEmailService{}, &fakeDocumentRepository{err: errors.New("db down")})

	resp, err := app.Test(multipartRequest(t, "file", "cv.pdf", "application/pdf", []byte("%PDF")))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body models.UploadResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "1-cv.pdf", body.Key)
	assert.Empty(t, body.DocumentID)
}

func TestHandleSave_MissingFile(t *testing.T) {
	cv := &fakeCVService{}
	app := newTestApp(cv, &fakeEmailService{}, nil)

	resp, err := app.Test(multipartRequest(t, "document", "cv.pdf", "application/pdf", []byte("%PDF")))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "CORRUPTED", decodeError(t, resp).Code)
	assert.Nil(t, cv.stored)
}

func TestHandleSave_TruncatedPart(t *testing.T) {
	cv := &fakeCVService{key: "1-cv.pdf"}
	app := newTestApp(cv, &fakeEmailService{}, nil)

	extra := textproto.MIMEHeader{}
	extra.Set("Content-Length", "4096")
	resp, err := app.Test(multipartRequestWithHeader(t, "file", "cv.pdf", "application/pdf", []byte("%PDF-1.7 cut"), extra))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body := decodeError(t, resp)
	assert.Equal(t, "PARTIAL_UPLOAD", body.Code)
	assert.Equal(t, float64(4096), body.Details["declaredSize"])
	assert.Nil(t, cv.stored)
}

func TestHandleSave_MatchingPartLength(t *testing.T) {
	cv := &fakeCVService{key: "1-cv.pdf"}
	app := newTestApp(cv, &fakeEmailService{}, nil)

	content := []byte("%PDF-1.7 whole")
	extra := textproto.MIMEHeader{}
	extra.Set("Content-Length", strconv.Itoa(len(content)))
	resp, err := app.Test(multipartRequestWithHeader(t, "file", "cv.pdf", "application/pdf", content, extra))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestHandleSave_ValidationErrorsAreExposed(t *testing.T) {
	cv := &fakeCVService{err: services.NewInvalidTypeError(`File type "image/png" is not allowed`).
		WithDetail("allowedTypes", services.AllowedMimeTypes)}
	app := newTestApp(cv, &fakeEmailService{}, nil)

	resp, err := app.Test(multipartRequest(t, "file", "cv.png", "image/png", []byte{0x89, 0x50}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body := decodeError(t, resp)
	assert.Equal(t, "INVALID_TYPE", body.Code)
	assert.Contains(t, body.Message, "image/png")
	assert.Len(t, body.Details["allowedTypes"], 3)
}

func TestHandleSave_InternalErrorsAreHidden(t *testing.T) {
	cv := &fakeCVService{err: services.NewStorageError("Failed to upload file to storage: secret-bucket 403", errors.New("403"))}
	app := newTestApp(cv, &fakeEmailService{}, nil)

	resp, err := app.Test(multipartRequest(t, "file", "cv.pdf", "application/pdf", []byte("%PDF")))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	body := decodeError(t, resp)
	assert.Equal(t, "STORAGE_ERROR", body.Code)
	assert.Equal(t, genericErrorMessage, body.Message)
	assert.Equal(t, true, body.Details["retryable"])
}

func TestHandleExtract(t *testing.T) {
	cv := &fakeCVService{profile: &models.ExtractedProfile{Name: "Jane Doe", YearsOfExperience: 7}}
	app := newTestApp(cv, &fakeEmailService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cvs/extract", bytes.NewBufferString(`{"fileId":"1-cv.pdf"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "1-cv.pdf", cv.extracted)

	var profile models.ExtractedProfile
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&profile))
	assert.Equal(t, "Jane Doe", profile.Name)
}

func TestHandleExtract_ParseFailure(t *testing.T) {
	cv := &fakeCVService{err: services.NewParseFailureError("Failed to parse Gemini response as JSON", nil)}
	app := newTestApp(cv, &fakeEmailService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cvs/extract", bytes.NewBufferString(`{"fileId":"1-cv.pdf"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "PARSE_FAILURE", decodeError(t, resp).Code)
}

func TestHandleGenerate(t *testing.T) {
	email := &fakeEmailService{email: "Dear Alex,"}
	app := newTestApp(&fakeCVService{}, email, nil)

	payload := `{"candidateName":"Jane Doe","age":30,"location":"Utrecht","recruiterName":"Sam","contactName":"Alex",
		"targetRoles":["Backend Engineer"],"travelOptions":[{"mode":"public transport","minutesOfRoad":40,"onSiteDays":2}],
		"grossSalary":60000,"salaryPeriod":"year","hoursAWeek":40,"jobDescriptionText":"Backend role"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/emails/generate", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"Dear Alex,"}`, string(raw))

	require.NotNil(t, email.form)
	assert.Equal(t, models.TravelModePublicTransport, email.form.TravelOptions[0].Mode)
	assert.Equal(t, 40, *email.form.TravelOptions[0].MinutesOfRoad)
}

func TestHandleGenerate_InvalidForm(t *testing.T) {
	email := &fakeEmailService{err: services.NewProcessingError("Candidate form is invalid", nil).
		WithDetail("fields", []string{"CandidateForm.age: gte=18"})}
	app := newTestApp(&fakeCVService{}, email, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/emails/generate", bytes.NewBufferString(`{"age":12}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	body := decodeError(t, resp)
	assert.Equal(t, "PROCESSING_ERROR", body.Code)
	assert.Equal(t, genericErrorMessage, body.Message)
	assert.Equal(t, []any{"CandidateForm.age: gte=18"}, body.Details["fields"])
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/too-large", func(c *fiber.Ctx) error {
		return fiber.ErrRequestEntityTooLarge
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("boom")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/too-large", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Equal(t, "SIZE_EXCEEDED", decodeError(t, resp).Code)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "UNKNOWN_ERROR", decodeError(t, resp).Code)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	body := decodeError(t, resp)
	assert.Equal(t, "SERVER_ERROR", body.Code)
	assert.Equal(t, genericErrorMessage, body.Message)
}

func TestHealth(t *testing.T) {
	app := newTestApp(&fakeCVService{}, &fakeEmailService{}, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
