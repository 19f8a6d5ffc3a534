package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/policycheck/internal/core"
)

// handleCreateSession starts an empty file form and returns its state.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.service.NewSession()
	w.Header().Set("Location", "/api/sessions/"+sess.ID())
	writeJSON(w, r, http.StatusCreated, sess.State())
}

// handleGetSession returns the current state snapshot.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.service.Session(chi.URLParam(r, "sessionID"))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, r, http.StatusOK, sess.State())
}

// handleDeleteSession drops the session.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteSession(chi.URLParam(r, "sessionID")); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleLoadFile selects a new file for the session and validates it. The
// answer is the new state, whether the file was accepted or rejected.
func (s *Server) handleLoadFile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if _, err := s.service.Session(id); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	file, cleanup, err := s.readUpload(w, r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	defer cleanup()

	st, err := s.service.LoadFile(withClient(r), id, file)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, r, http.StatusOK, st)
}

// handleClearFile deselects the session's file.
func (s *Server) handleClearFile(w http.ResponseWriter, r *http.Request) {
	st, err := s.service.ClearFile(chi.URLParam(r, "sessionID"))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, r, http.StatusOK, st)
}

// handleSubmit starts the submission and answers 202 with the submitting
// state. Poll GET .../submit for the outcome.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	st, err := s.service.Submit(withClient(r), chi.URLParam(r, "sessionID"))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	w.Header().Set("Location", r.URL.Path)
	writeJSON(w, r, http.StatusAccepted, st)
}

// handleSubmitStatus returns the state. With ?wait=true it first blocks
// until a pending submission resolves or the request times out.
func (s *Server) handleSubmitStatus(w http.ResponseWriter, r *http.Request) {
	sess, err := s.service.Session(chi.URLParam(r, "sessionID"))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	wait, _ := strconv.ParseBool(r.URL.Query().Get("wait"))
	if !wait {
		writeJSON(w, r, http.StatusOK, submissionResponse(sess.State()))
		return
	}

	st, err := sess.Wait(r.Context())
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, r, http.StatusOK, submissionResponse(st))
}

// SubmissionResponse pairs the outcome with the state it belongs to.
type SubmissionResponse struct {
	core.State
	Done bool `json:"done"`
}

func submissionResponse(st core.State) SubmissionResponse {
	return SubmissionResponse{
		State: st,
		Done:  st.Submission.Status != core.SubmissionSubmitting,
	}
}
