package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/svtemple/eventreg/internal/core"
	"github.com/svtemple/eventreg/internal/logging"
)

// maxBodySize bounds submission and delete request bodies (64KB).
// A full submission with ten family members is a few KB of JSON.
const maxBodySize = 64 * 1024

// handleForm serves the embedded registration form.
func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	data, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		respondError(w, r, &core.StorageError{Op: "read form asset", Err: err})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// handleHealthz is the liveness probe.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// handleSave accepts one submission: a primary respondent plus
// optional family members.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var sub core.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		respondError(w, r, &core.ValidationError{Reason: "invalid JSON body"})
		return
	}

	count, err := s.service.Submit(r.Context(), sub)
	if err != nil {
		respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("submission saved",
		"records", count,
		"family", len(sub.Family),
	)
	writeMessage(w, http.StatusOK, fmt.Sprintf("registration saved (%d records)", count))
}

// handleEditCount reports how many submissions an email has made.
// Unknown emails are 0, never an error.
func (s *Server) handleEditCount(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	writeJSON(w, map[string]int{"editCount": s.service.EditCount(email)})
}

// handleAdmin renders the filtered, sorted records table.
func (s *Server) handleAdmin(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r, r.URL.Query().Get("password")) {
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	records, err := s.service.Records(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.renderAdmin(w, r, filter, records)
}

// deleteRequest is the body of POST /delete.
type deleteRequest struct {
	Password string `json:"password"`
	Email    string `json:"email"`
}

// handleDelete removes all records for an email and resets its edit
// count, so a re-registration starts fresh.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, &core.ValidationError{Reason: "invalid JSON body"})
		return
	}

	if !s.requireAdmin(w, r, req.Password) {
		return
	}

	removed, err := s.service.DeleteIdentity(r.Context(), req.Email)
	if err != nil {
		respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("identity deleted",
		"email", core.IdentityKey(req.Email),
		"removed", removed,
	)
	writeJSON(w, map[string]interface{}{
		"message": fmt.Sprintf("deleted %d records", removed),
		"deleted": removed,
	})
}

// handleDownloadCSV streams the mirror file. If the backup has never
// been written, it is generated from the store first.
func (s *Server) handleDownloadCSV(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r, r.URL.Query().Get("password")) {
		return
	}

	path := s.mirror.Path()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.service.RefreshMirror(r.Context()); err != nil {
			respondError(w, r, err)
			return
		}
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="registrations.csv"`)
	http.ServeFile(w, r, path)
}

// parseFilter reads the optional month/year query parameters.
func parseFilter(r *http.Request) (core.ScanFilter, error) {
	var f core.ScanFilter

	if v := r.URL.Query().Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return f, &core.ValidationError{Reason: "month must be a number from 1 to 12"}
		}
		f.Month = m
	}
	if v := r.URL.Query().Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1 {
			return f, &core.ValidationError{Reason: "year must be a positive number"}
		}
		f.Year = y
	}
	return f, nil
}
