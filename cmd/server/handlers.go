package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	contractcore "github.com/jihoonpark/contractcore"
)

const maxUploadBytes = 32 << 20 // 32MiB

type handler struct {
	engine    *contractcore.Engine
	uploadDir string
}

func newHandler(engine *contractcore.Engine, uploadDir string) *handler {
	return &handler{engine: engine, uploadDir: uploadDir}
}

// sessionKey identifies the caller for session-store purposes. The
// minimum compatible interface defined in spec.md has no auth model of
// its own, so the remote address stands in for a client identity.
func sessionKey(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

func (h *handler) saveUpload(r *http.Request, field string) (path, filename string, err error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return "", "", fmt.Errorf("parsing upload: %w", err)
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", "", fmt.Errorf("missing file field %q", field)
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		return "", "", fmt.Errorf("%w: %s", contractcore.ErrUnsupportedFormat, header.Filename)
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return "", "", err
	}
	dest := filepath.Join(h.uploadDir, uuid.NewString()+".pdf")
	out, err := os.Create(dest)
	if err != nil {
		return "", "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		os.Remove(dest)
		return "", "", err
	}
	return dest, header.Filename, nil
}

// POST /api/pdf/upload: ingest the document and return its summary and
// toxic-clause highlights.
func (h *handler) handlePDFUpload(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Minute)
	defer cancel()

	path, filename, err := h.saveUpload(r, "file")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := sessionKey(r)
	if err := h.engine.Sessions.SetFile(key, path, filename); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	record := h.engine.Sessions.NextUploadRecord(filename, path)

	result, err := h.engine.Ingest(ctx, path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		slog.Error("ingest error", "path", path, "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "success",
		"filename":  filename,
		"file_url":  "/files/" + filepath.Base(path),
		"pdf_id":    record.UUID,
		"summary":   result.Summary,
		"highlight": result.Highlights,
	})
}

// POST /api/user-query: route the query through the agent orchestrator.
func (h *handler) handleUserQuery(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	var query string
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			Query string `json:"query"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		query = body.Query
	} else {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid form body")
			return
		}
		query = r.FormValue("query")
	}
	if strings.TrimSpace(query) == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	sess := h.engine.Sessions.Get(sessionKey(r))
	resp := h.engine.Query(ctx, query, sess.PDFFilePath)
	writeJSON(w, http.StatusOK, resp)
}

// POST /upload: attach a file to the session without running the
// ingestion pipeline.
func (h *handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	path, filename, err := h.saveUpload(r, "file")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.engine.Sessions.SetFile(sessionKey(r), path, filename); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "filename": filename})
}

// POST /reset: clear the caller's session.
func (h *handler) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.Sessions.Reset(sessionKey(r)); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// GET /health
func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
