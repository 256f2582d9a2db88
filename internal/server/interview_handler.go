package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonathan/mock-interview/internal/server/middleware"
	"github.com/jonathan/mock-interview/internal/session"
	"github.com/jonathan/mock-interview/internal/types"
)

// InterviewHandler handles interview session requests.
type InterviewHandler struct {
	sessions  *session.Manager
	validator *validator.Validate
}

// NewInterviewHandler creates a new InterviewHandler.
func NewInterviewHandler(sessions *session.Manager) *InterviewHandler {
	return &InterviewHandler{sessions: sessions, validator: validator.New()}
}

// Questions starts a new interview session and returns its questions.
func (h *InterviewHandler) Questions(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not authorized.")
		return
	}

	var req types.StartInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, extractValidationError(err))
		return
	}

	// Malformed resume references are ignored, matching the best-effort
	// personalization contract: the interview still starts.
	var resumeRef *uuid.UUID
	if req.ResumeAnalysisID != "" {
		if id, err := uuid.Parse(req.ResumeAnalysisID); err == nil {
			resumeRef = &id
		}
	}

	result, err := h.sessions.Start(r.Context(), userID, req.Mode, resumeRef)
	if err != nil {
		writeError(w, HTTPStatus(err), sessionErrorMessage(err, "Starting the interview failed. Please try again."))
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// Evaluate scores one answer and records it on the session.
func (h *InterviewHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not authorized.")
		return
	}

	var req types.EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, extractValidationError(err))
		return
	}

	interviewID, err := uuid.Parse(req.InterviewID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Interview session not found. Start a new interview.")
		return
	}

	eval, err := h.sessions.SubmitAnswer(r.Context(), userID, interviewID, req.QuestionIndex, req.Question, req.UserAnswer)
	if err != nil {
		writeError(w, HTTPStatus(err), sessionErrorMessage(err, "Answer evaluation failed. Please try again."))
		return
	}

	writeJSON(w, http.StatusOK, eval)
}

// Feedback finalizes a session into scores and overall feedback.
func (h *InterviewHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not authorized.")
		return
	}

	var req types.FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, extractValidationError(err))
		return
	}

	interviewID, err := uuid.Parse(req.InterviewID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Interview session not found. Start a new interview.")
		return
	}

	result, err := h.sessions.Finalize(r.Context(), userID, interviewID)
	if err != nil {
		writeError(w, HTTPStatus(err), sessionErrorMessage(err, "Generating feedback failed. Please try again."))
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// History returns the user's sessions, most recent first.
func (h *InterviewHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not authorized.")
		return
	}

	history, err := h.sessions.History(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load interview history. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, history)
}

// Get returns a single session with its resume reference resolved.
func (h *InterviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not authorized.")
		return
	}

	interviewID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Interview not found.")
		return
	}

	detail, err := h.sessions.Get(r.Context(), userID, interviewID)
	if err != nil {
		writeError(w, HTTPStatus(err), sessionErrorMessage(err, "Failed to load interview. Please try again."))
		return
	}

	writeJSON(w, http.StatusOK, detail)
}
