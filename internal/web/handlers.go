package web

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/quizforge/server/internal/bank"
	"github.com/quizforge/server/internal/ingest"
	"github.com/quizforge/server/internal/logging"
	"github.com/quizforge/server/internal/question"
)

// handleHealth is a liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// handleImport accepts a multipart batch of CSV files plus an optional
// JSON options part and runs them through the import pipeline.
//
// Recognized form parts:
//   - "files" (repeatable; "file" also accepted): the CSV attachments
//   - "options": JSON options payload
//   - "headersMap": JSON object merged over options.headersMap
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	maxRequest := s.cfg.Upload.MaxFileSize * int64(s.cfg.Upload.MaxFiles)
	r.Body = http.MaxBytesReader(w, r.Body, maxRequest)

	if err := r.ParseMultipartForm(s.cfg.Upload.MaxFileSize); err != nil {
		writeError(w, http.StatusBadRequest, "request too large or invalid form")
		return
	}

	parts := r.MultipartForm.File["files"]
	if len(parts) == 0 {
		parts = r.MultipartForm.File["file"]
	}
	if len(parts) == 0 {
		writeError(w, http.StatusBadRequest, "no files provided")
		return
	}
	if len(parts) > s.cfg.Upload.MaxFiles {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("too many files: %d (limit %d)", len(parts), s.cfg.Upload.MaxFiles))
		return
	}

	opts, err := ingest.ParseOptions(
		[]byte(r.FormValue("options")),
		[]byte(r.FormValue("headersMap")),
	)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	files := make([]ingest.FileUpload, 0, len(parts))
	for _, part := range parts {
		if part.Size > s.cfg.Upload.MaxFileSize {
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("file %s exceeds %dMB limit", part.Filename, s.cfg.Upload.MaxFileSize/(1024*1024)))
			return
		}

		f, err := part.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("open %s: %v", part.Filename, err))
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("read %s: %v", part.Filename, err))
			return
		}

		files = append(files, ingest.FileUpload{Name: part.Filename, Data: data})
	}

	logging.FromContext(r.Context()).Info("import request accepted",
		"files", len(files), "strategy", string(opts.MergeStrategy))

	result, err := s.service.Import(r.Context(), files, opts)
	if err != nil {
		switch {
		case errors.Is(err, ingest.ErrUploadInProgress):
			writeError(w, http.StatusConflict, err.Error())
		default:
			// Backup or persistence failure: the one unrecoverable case.
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, result)
}

// handleStats returns a read-only summary of the stored collection.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, stats)
}

// handleExport streams the full collection as JSON (default) or CSV.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	questions, err := s.service.Questions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	switch r.URL.Query().Get("format") {
	case "", "json":
		writeJSON(w, map[string]any{"questions": questions})
	case "csv":
		s.exportCSV(w, questions)
	default:
		writeError(w, http.StatusBadRequest, "format must be json or csv")
	}
}

// exportColumns is the canonical column order for CSV export. Round-trip
// safe: a file exported here imports cleanly with no headers map.
var exportColumns = []string{
	"question", "option_a", "option_b", "option_c", "option_d", "option_e", "option_f",
	"correct_answer", "type", "category", "difficulty", "explanation",
	"points", "time_limit", "owner",
}

func (s *Server) exportCSV(w http.ResponseWriter, questions []question.Question) {
	filename := fmt.Sprintf("questions_%s.csv", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))

	cw := csv.NewWriter(w)
	cw.Write(exportColumns)

	for _, q := range questions {
		record := make([]string, 0, len(exportColumns))
		record = append(record, q.Text)
		for i := 0; i < 6; i++ {
			if i < len(q.Options) {
				record = append(record, q.Options[i])
			} else {
				record = append(record, "")
			}
		}
		record = append(record,
			q.Answer, q.Type, q.Category, q.Difficulty, q.Explanation,
			strconv.Itoa(q.Points), strconv.Itoa(q.TimeLimitSec), q.Owner,
		)
		cw.Write(record)
	}

	cw.Flush()
}

// handleUploads returns the upload log, most recent first.
func (s *Server) handleUploads(w http.ResponseWriter, r *http.Request) {
	uploads, err := s.service.Uploads(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if uploads == nil {
		uploads = []bank.UploadRecord{}
	}
	writeJSON(w, map[string]any{"uploads": uploads})
}

// handlePresets lists the known question-type presets and the headers
// each one requires, so clients can validate before uploading.
func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	presets := make(map[string][]string)
	for _, name := range question.Presets() {
		presets[name] = question.PresetRequiredHeaders(name)
	}
	writeJSON(w, map[string]any{"presets": presets})
}
