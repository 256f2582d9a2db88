package server

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/mock-interview/internal/extract"
	"github.com/jonathan/mock-interview/internal/server/middleware"
	"github.com/jonathan/mock-interview/internal/store"
	"github.com/jonathan/mock-interview/internal/types"
)

// maxUploadBytes caps resume uploads at 5 MB.
const maxUploadBytes = 5 << 20

// minExtractedChars is the minimum amount of readable text a resume must
// yield; scanned image-only documents fall below this.
const minExtractedChars = 50

// ResumeAnalyzer is the AI collaborator contract for resume analysis.
type ResumeAnalyzer interface {
	AnalyzeResume(ctx context.Context, text string) (*types.Analysis, error)
}

// TextExtractor converts an uploaded document into plain text.
type TextExtractor func(data []byte, mime string) (string, error)

// ResumeHandler handles resume upload, analysis and retrieval requests.
type ResumeHandler struct {
	store     store.Store
	analyzer  ResumeAnalyzer
	extractor TextExtractor
}

// NewResumeHandler creates a new ResumeHandler with the given dependencies.
// A nil extractor defaults to the document extraction package.
func NewResumeHandler(st store.Store, analyzer ResumeAnalyzer, extractor TextExtractor) *ResumeHandler {
	if extractor == nil {
		extractor = extract.Resume
	}
	return &ResumeHandler{store: st, analyzer: analyzer, extractor: extractor}
}

type uploadUserRef struct {
	ID    uuid.UUID `json:"_id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type uploadResponse struct {
	ID               uuid.UUID      `json:"_id"`
	User             uploadUserRef  `json:"user"`
	OriginalFilename string         `json:"originalFilename"`
	ExtractedText    string         `json:"extractedText"`
	Analysis         types.Analysis `json:"analysis"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// Upload handles multipart resume uploads: extract text, analyze, store.
func (h *ResumeHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not authorized.")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded. Please choose a PDF or DOCX file.")
		return
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded. Please choose a PDF or DOCX file.")
		return
	}
	defer file.Close()

	mime := header.Header.Get("Content-Type")
	if !extract.SupportedMime(mime) {
		writeError(w, http.StatusBadRequest, "Only PDF and DOCX files are allowed.")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Could not read the file. It may be corrupted or not a valid PDF/DOCX. Try a different file.")
		return
	}

	text, err := h.extractor(data, mime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Could not read the file. It may be corrupted or not a valid PDF/DOCX. Try a different file.")
		return
	}
	if len(strings.TrimSpace(text)) < minExtractedChars {
		writeError(w, http.StatusBadRequest, "Could not extract enough text from the file. Make sure the document contains readable text (not only images).")
		return
	}

	analysis, err := h.analyzer.AnalyzeResume(r.Context(), text)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "Analysis service is temporarily unavailable. Please try again later.")
		return
	}

	user, err := h.store.FindUserByID(r.Context(), userID)
	if err != nil || user == nil {
		writeError(w, http.StatusUnauthorized, "User not found. Please sign in again.")
		return
	}

	doc, err := h.store.CreateResumeAnalysis(r.Context(), userID, header.Filename, text, *analysis)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Resume upload failed. Please try again.")
		return
	}

	writeJSON(w, http.StatusCreated, uploadResponse{
		ID:               doc.ID,
		User:             uploadUserRef{ID: user.ID, Name: user.Name, Email: user.Email},
		OriginalFilename: doc.OriginalFilename,
		ExtractedText:    doc.ExtractedText,
		Analysis:         doc.Analysis,
		CreatedAt:        doc.CreatedAt,
		UpdatedAt:        doc.UpdatedAt,
	})
}

// List returns the user's analyses, most recent first, without the
// extracted text.
func (h *ResumeHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not authorized.")
		return
	}

	list, err := h.store.FindResumeAnalysesByUser(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load analyses. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// Get returns one full analysis record, including the extracted text.
func (h *ResumeHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not authorized.")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Resume analysis not found. It may have been deleted.")
		return
	}

	doc, err := h.store.FindResumeAnalysisByIDAndUser(r.Context(), id, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load analysis. Please try again.")
		return
	}
	if doc == nil {
		writeError(w, http.StatusNotFound, "Resume analysis not found. It may have been deleted.")
		return
	}

	writeJSON(w, http.StatusOK, doc)
}
