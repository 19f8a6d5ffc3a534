package web

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/JonMunkholm/policycheck/internal/core"
	"github.com/JonMunkholm/policycheck/internal/logging"
)

// multipartMemory is how much of a multipart body is held in memory before
// parts spill to temporary files.
const multipartMemory = 1 << 20

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status            string                       `json:"status"`
	Sessions          int                          `json:"sessions"`
	SubmissionEnabled bool                         `json:"submissionEnabled"`
	Validations       core.ValidationLimiterStatus `json:"validations"`
}

// handleHealth reports liveness and current validation capacity.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, HealthResponse{
		Status:            "ok",
		Sessions:          s.service.SessionCount(),
		SubmissionEnabled: s.service.SubmissionEnabled(),
		Validations:       s.service.Limiter().Status(),
	})
}

// handleValidate runs a one-shot validation of the uploaded file.
// An accepted file answers 200, a rejected one 422; both carry the report.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	file, cleanup, err := s.readUpload(w, r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	defer cleanup()

	report, err := s.service.Validate(withClient(r), file)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	status := http.StatusOK
	if !report.Accepted() {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, r, status, report)
}

// readUpload extracts the "file" part of a multipart request as a RawFile.
// The declared name, MIME type and size come from the part header; the
// body is the part itself. cleanup releases any temporary files.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (core.RawFile, func(), error) {
	r.Body = http.MaxBytesReader(w, r.Body, int64(s.cfg.Upload.MaxRequestSize))

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			return core.RawFile{}, nil, errBodyTooLarge
		}
		logging.FromContext(r.Context()).Debug("multipart parse failed", "error", err)
		return core.RawFile{}, nil, errNoFile
	}

	part, header, err := r.FormFile("file")
	if err != nil {
		r.MultipartForm.RemoveAll()
		return core.RawFile{}, nil, errNoFile
	}

	cleanup := func() {
		part.Close()
		r.MultipartForm.RemoveAll()
	}
	return rawFile(header, part), cleanup, nil
}

func rawFile(header *multipart.FileHeader, part multipart.File) core.RawFile {
	return core.RawFile{
		Name: header.Filename,
		Type: header.Header.Get("Content-Type"),
		Size: header.Size,
		Body: part,
	}
}
