package api

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/MikeSquared-Agency/wedsum/internal/analyzer"
)

const (
	// formOverhead is the slack allowed on top of the upload ceiling for
	// multipart boundaries and the other form fields.
	formOverhead = 64 << 10

	// memoryLimit is how much of a multipart form is kept in memory before
	// spilling to temporary files.
	memoryLimit = 1 << 20
)

var errNoFile = errors.New("no file uploaded")

// upload is a parsed multipart request. Close releases any temporary files.
type upload struct {
	req  analyzer.Request
	file multipart.File
	form *multipart.Form
}

func (u *upload) Close() {
	if u.file != nil {
		u.file.Close()
	}
	if u.form != nil {
		u.form.RemoveAll()
	}
}

// readUpload reads the "file" and "api_key" form fields. A body over the
// ceiling fails with *http.MaxBytesError before anything is parsed.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (*upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.analyzer.MaxUploadBytes()+formOverhead)
	if err := r.ParseMultipartForm(memoryLimit); err != nil {
		return nil, err
	}

	u := &upload{form: r.MultipartForm}
	file, header, err := r.FormFile("file")
	if err != nil {
		u.Close()
		if errors.Is(err, http.ErrMissingFile) {
			return nil, errNoFile
		}
		return nil, err
	}
	u.file = file
	u.req = analyzer.Request{
		Filename: header.Filename,
		Size:     header.Size,
		Body:     file,
		APIKey:   r.FormValue("api_key"),
	}
	return u, nil
}

// uploadFailure turns a form error into a failed outcome.
func uploadFailure(err error) (*analyzer.Outcome, int) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return failedOutcome(analyzer.ReasonTooLarge), http.StatusRequestEntityTooLarge
	}
	return nil, http.StatusBadRequest
}

func failedOutcome(reason analyzer.Reason) *analyzer.Outcome {
	return &analyzer.Outcome{
		Status:     analyzer.StatusFailed,
		Reason:     reason,
		Diagnostic: analyzer.Diagnostic(reason),
	}
}

// statusFor maps an outcome onto the HTTP status of the JSON API.
func statusFor(out *analyzer.Outcome) int {
	if !out.Failed() {
		return http.StatusOK
	}
	switch out.Reason {
	case analyzer.ReasonTooLarge:
		return http.StatusRequestEntityTooLarge
	case analyzer.ReasonUnsupportedType:
		return http.StatusUnsupportedMediaType
	case analyzer.ReasonMissingAPIKey:
		return http.StatusBadRequest
	case analyzer.ReasonModelFailed:
		return http.StatusBadGateway
	default:
		return http.StatusUnprocessableEntity
	}
}
