package web

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/JonMunkholm/hireboard/internal/core"
	"github.com/JonMunkholm/hireboard/internal/logging"
)

// readCandidate accepts a JSON body or a form using the canonical field names.
func readCandidate(r *http.Request) (core.CandidateRecord, error) {
	var rec core.CandidateRecord
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			return rec, errBadRequest
		}
		return rec.Trimmed(), nil
	}

	if err := r.ParseForm(); err != nil {
		return rec, errBadRequest
	}
	for _, f := range core.CandidateFields {
		rec.Set(f, r.PostFormValue(string(f)))
	}
	return rec.Trimmed(), nil
}

// handleCreateCandidate validates one candidate and forwards it to the
// backend. Validation failures never reach the backend.
func (s *Server) handleCreateCandidate(w http.ResponseWriter, r *http.Request) {
	rec, err := readCandidate(r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	if errs := core.ValidateRecord(rec); len(errs) > 0 {
		err := &validationError{fields: errs}
		respondError(w, r, err, statusFor(err))
		return
	}

	client, err := s.backendFor(r)
	if err != nil {
		s.failRequest(w, r, err)
		return
	}

	id, err := client.AddCandidate(r.Context(), rec)
	if err != nil {
		s.failRequest(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("candidate created", "candidate_id", id)

	if isHTMX(r) {
		w.Header().Set("HX-Trigger", "candidate-created")
	}
	writeJSONStatus(w, http.StatusCreated, map[string]any{
		"id":        id,
		"candidate": rec,
	})
}
