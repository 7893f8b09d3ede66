package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/certiblock/verifier-node/internal/core/domain"
	"github.com/certiblock/verifier-node/internal/core/services"
	"github.com/certiblock/verifier-node/internal/log"
)

// maxUploadSize bounds the multipart body of file verifications
const maxUploadSize = 32 << 20

type startByCodeRequest struct {
	AccessCode string `json:"accessCode"`
}

// startByCode launches a verification run from a shareable access code
func (s *Server) startByCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req startByCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.AccessCode == "" {
		writeError(w, http.StatusBadRequest, "accessCode is required")
		return
	}

	runID, err := s.orchestrator.Start(ctx, domain.VerificationRequest{AccessCode: req.AccessCode})
	if err != nil {
		log.Error(ctx, "starting verification by code", "err", err)
		writeError(w, http.StatusInternalServerError, "cannot start verification")
		return
	}

	writeJSON(w, http.StatusAccepted, StartedResponse{RunID: runID.String()})
}

// startByFile launches a verification run from an uploaded document. The
// multipart form takes a mandatory "document" part, an optional "comparison"
// part and an optional "hintType" field.
func (s *Server) startByFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	document, documentMIME, err := formFile(r, "document")
	if err != nil {
		writeError(w, http.StatusBadRequest, "a document file is required")
		return
	}
	comparison, comparisonMIME, err := formFile(r, "comparison")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		writeError(w, http.StatusBadRequest, "cannot read comparison file")
		return
	}

	req := domain.VerificationRequest{
		Document:       document,
		DocumentMIME:   documentMIME,
		Comparison:     comparison,
		ComparisonMIME: comparisonMIME,
		HintType:       r.FormValue("hintType"),
	}

	runID, err := s.orchestrator.Start(ctx, req)
	if err != nil {
		log.Error(ctx, "starting verification by file", "err", err)
		writeError(w, http.StatusInternalServerError, "cannot start verification")
		return
	}

	writeJSON(w, http.StatusAccepted, StartedResponse{RunID: runID.String()})
}

// runStatus returns the last known snapshot of a run, verdict included once
// the run is done
func (s *Server) runStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	runID, err := uuid.Parse(chi.URLParam(r, "runID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid run id")
		return
	}

	snapshot, err := s.orchestrator.Status(ctx, runID)
	if err != nil {
		if errors.Is(err, services.ErrRunNotFound) {
			writeError(w, http.StatusNotFound, "verification run not found")
			return
		}
		log.Error(ctx, "loading run status", "err", err, "run", runID)
		writeError(w, http.StatusInternalServerError, "cannot load run status")
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

// cancelRun aborts an in-flight run
func (s *Server) cancelRun(w http.ResponseWriter, r *http.Request) {
	runID, err := uuid.Parse(chi.URLParam(r, "runID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid run id")
		return
	}

	if !s.orchestrator.Cancel(r.Context(), runID) {
		writeError(w, http.StatusNotFound, "verification run not found or already finished")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func formFile(r *http.Request, field string) ([]byte, string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = file.Close() }()

	raw, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		return nil, "", err
	}
	return raw, header.Header.Get("Content-Type"), nil
}
