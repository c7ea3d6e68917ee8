package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/examforge/question-extractor/internal/entity"
	"github.com/examforge/question-extractor/internal/pipeline"
)

// extractRequest is the JSON body of POST /v1/extract. Unset optional fields
// inherit the server's configured defaults.
type extractRequest struct {
	Text                string `json:"text"`
	UseAI               *bool  `json:"useAI,omitempty"`
	PreferLocal         *bool  `json:"preferLocal,omitempty"`
	ConfidenceThreshold int    `json:"confidenceThreshold,omitempty"`
	MaxQuestions        int    `json:"maxQuestions,omitempty"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("text is required"))
		return
	}

	result := s.extractor.Extract(r.Context(), req.Text, s.resolveOptions(req), nil)
	writeJSON(w, http.StatusOK, result)
}

// handleExtractFile accepts a multipart upload under the "file" field, runs it
// through ingest conversion, then extracts. Pipeline options come from query
// parameters with the same names as the JSON fields.
func (s *Server) handleExtractFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("parse upload: %w", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("file field is required: %w", err))
		return
	}
	defer file.Close()

	text, err := s.ingestor.Ingest(r.Context(), header.Filename, file)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	req := extractRequest{
		ConfidenceThreshold: queryInt(r, "confidenceThreshold"),
		MaxQuestions:        queryInt(r, "maxQuestions"),
	}
	if v := r.URL.Query().Get("useAI"); v != "" {
		b := v == "true" || v == "1"
		req.UseAI = &b
	}
	if v := r.URL.Query().Get("preferLocal"); v != "" {
		b := v == "true" || v == "1"
		req.PreferLocal = &b
	}

	result := s.extractor.Extract(r.Context(), text, s.resolveOptions(req), nil)
	writeJSON(w, http.StatusOK, result)
}

// handleExport renders a previously returned extraction result as XLSX.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var result entity.ExtractionResult
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)).Decode(&result); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode result: %w", err))
		return
	}

	b, err := s.exporter.BuildWorkbook(result)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	name := fmt.Sprintf("questions-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (s *Server) handleProviders(w http.ResponseWriter, r *http.Request) {
	out := make([]ProviderStatus, 0, len(s.statuses))
	for _, status := range s.statuses {
		out = append(out, status(r.Context()))
	}
	writeJSON(w, http.StatusOK, map[string]any{"providers": out})
}

// resolveOptions overlays request fields on the server defaults.
func (s *Server) resolveOptions(req extractRequest) pipeline.Options {
	opts := s.opts
	if req.UseAI != nil {
		opts.UseAI = *req.UseAI
	}
	if req.PreferLocal != nil {
		opts.PreferLocal = *req.PreferLocal
	}
	if req.ConfidenceThreshold > 0 {
		opts.ConfidenceThreshold = req.ConfidenceThreshold
	}
	if req.MaxQuestions > 0 {
		opts.MaxQuestions = req.MaxQuestions
	}
	return opts
}

func queryInt(r *http.Request, key string) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0
	}
	n := 0
	for _, c := range v {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
		if n > 1<<20 {
			return 0
		}
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
