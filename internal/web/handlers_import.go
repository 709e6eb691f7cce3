package web

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/hireboard/internal/core"
	"github.com/JonMunkholm/hireboard/internal/logging"
	"github.com/JonMunkholm/hireboard/internal/web/templates"
	"github.com/go-chi/chi/v5"
)

// multipartOverhead is the allowance for form boundaries and headers on top
// of the file size limit.
const multipartOverhead = 64 << 10

// readUpload extracts the "file" part of a multipart upload and decodes it
// to text.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (name, text string, err error) {
	maxSize := s.service.MaxFileSize()
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", "", fmt.Errorf("%w: exceeds %d bytes", core.ErrFileTooLarge, maxSize)
		}
		return "", "", errNoFile
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", "", errNoFile
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		return "", "", fmt.Errorf("%w: %s", errNotCSV, header.Filename)
	}

	text, err = core.DecodeImportText(file, maxSize)
	if err != nil {
		return "", "", err
	}
	return header.Filename, text, nil
}

// handleImportTemplate downloads an empty CSV with the canonical headers.
func (s *Server) handleImportTemplate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="candidate_import_template.csv"`)

	cw := csv.NewWriter(w)
	_ = cw.Write(core.TemplateHeaders())
	cw.Flush()
}

// handleImportPreview reports what an upload would do without submitting.
func (s *Server) handleImportPreview(w http.ResponseWriter, r *http.Request) {
	_, text, err := s.readUpload(w, r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	preview, err := s.service.Preview(text)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, preview)
}

// handleStartImport starts a background import of the uploaded file and
// returns its ID.
func (s *Server) handleStartImport(w http.ResponseWriter, r *http.Request) {
	sess, err := currentSession(r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	name, text, err := s.readUpload(w, r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	creator := s.backend.As(sess.Token)
	meta := core.ImportMeta{FileName: name, StartedBy: sess.Email}

	importID, err := s.service.StartImport(r.Context(), creator, meta, text)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrTooManyImports):
			w.Header().Set("Retry-After", "10")
		case errors.Is(err, core.ErrShuttingDown):
			w.Header().Set("Retry-After", "60")
		}
		respondError(w, r, err, statusFor(err))
		return
	}

	logging.WithFields(r.Context(), "import_id", importID, "file", name).Info("import accepted")

	writeJSONStatus(w, http.StatusAccepted, map[string]string{
		"importId":    importID,
		"progressUrl": "/api/import/" + importID + "/progress",
		"resultUrl":   "/api/import/" + importID + "/result",
	})
}

// ownedImport returns the {importID} route parameter when the session user
// started that import. Anyone else gets a 404.
func (s *Server) ownedImport(w http.ResponseWriter, r *http.Request) (string, bool) {
	importID := chi.URLParam(r, "importID")
	sess, err := currentSession(r)
	if err == nil {
		err = s.service.Authorize(r.Context(), importID, sess.Email)
	}
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return "", false
	}
	return importID, true
}

// handleImportProgress streams import progress via Server-Sent Events.
// Supports resumption via the lastEventId query parameter or the
// Last-Event-ID header; the event ID is the number of processed rows.
func (s *Server) handleImportProgress(w http.ResponseWriter, r *http.Request) {
	importID, ok := s.ownedImport(w, r)
	if !ok {
		return
	}

	lastEventID := -1
	if v := r.URL.Query().Get("lastEventId"); v != "" {
		lastEventID, _ = strconv.Atoi(v)
	} else if v := r.Header.Get("Last-Event-ID"); v != "" {
		lastEventID, _ = strconv.Atoi(v)
	}

	progressCh, err := s.service.SubscribeProgress(importID)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, r, errors.New("streaming not supported"), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	for {
		select {
		case progress, ok := <-progressCh:
			if !ok {
				s.writeCompleteEvent(w, importID)
				flusher.Flush()
				return
			}

			// Skip events the client already has, but always send terminal ones
			if progress.Processed <= lastEventID && !progress.Phase.Terminal() {
				continue
			}
			lastEventID = progress.Processed

			data, _ := json.Marshal(progress)
			fmt.Fprintf(w, "id: %d\nevent: progress\ndata: %s\n\n", progress.Processed, data)
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

// writeCompleteEvent sends the final result, or an empty object if it has
// already expired.
func (s *Server) writeCompleteEvent(w http.ResponseWriter, importID string) {
	data := []byte("{}")
	if res, err := s.service.Result(importID); err == nil {
		data, _ = json.Marshal(res)
	}
	fmt.Fprintf(w, "event: complete\ndata: %s\n\n", data)
}

// handleImportResult returns the final result of an import.
func (s *Server) handleImportResult(w http.ResponseWriter, r *http.Request) {
	importID, ok := s.ownedImport(w, r)
	if !ok {
		return
	}

	res, err := s.service.Result(importID)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := templates.ImportSummary(res).Render(r.Context(), w); err != nil {
			logging.FromContext(r.Context()).Error("render import summary", "error", err)
		}
		return
	}
	writeJSON(w, res)
}

// handleCancelImport cancels an in-progress import.
func (s *Server) handleCancelImport(w http.ResponseWriter, r *http.Request) {
	importID, ok := s.ownedImport(w, r)
	if !ok {
		return
	}
	if err := s.service.CancelImport(importID); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	logging.WithFields(r.Context(), "import_id", importID).Info("import cancel requested")
	writeJSON(w, map[string]string{"status": "cancelling"})
}

// handleImportHistory lists recent imports, newest first.
func (s *Server) handleImportHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.service.History(r.Context(), parseIntParam(r, "limit", 50))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, history)
}

// handleImportStatus reports import slot usage.
func (s *Server) handleImportStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.service.LimiterStatus())
}

// handleExportFailures exports the failed rows of an import as CSV: the
// line number and reason followed by the original cells.
func (s *Server) handleExportFailures(w http.ResponseWriter, r *http.Request) {
	importID, ok := s.ownedImport(w, r)
	if !ok {
		return
	}

	headers, failures, err := s.service.FailedRows(r.Context(), importID)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("failed_rows_%s.csv", timestamp)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	cw := csv.NewWriter(w)
	_ = cw.Write(append([]string{"_line", "_error"}, headers...))
	for _, f := range failures {
		_ = cw.Write(append([]string{strconv.Itoa(f.Row), f.Reason}, f.Data...))
	}
	cw.Flush()

	if err := cw.Error(); err != nil {
		logging.FromContext(r.Context()).Error("write failed rows export", "import_id", importID, "error", err)
	}
}
