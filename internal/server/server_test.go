package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/examforge/question-extractor/constants"
	"github.com/examforge/question-extractor/internal/config"
	"github.com/examforge/question-extractor/internal/entity"
	"github.com/examforge/question-extractor/internal/export"
	"github.com/examforge/question-extractor/internal/ingest"
	"github.com/examforge/question-extractor/internal/llm"
	"github.com/examforge/question-extractor/internal/parser"
	"github.com/examforge/question-extractor/internal/pipeline"
)

type stubProvider struct {
	questions []entity.Question
	err       error
}

func (s *stubProvider) Name() constants.ProviderID { return constants.ProviderGroq }
func (s *stubProvider) Extract(ctx context.Context, req llm.Request) ([]entity.Question, error) {
	return s.questions, s.err
}

func newTestServer(t *testing.T, provider llm.Extractor) *Server {
	t.Helper()
	v, err := llm.NewValidator(nil)
	if err != nil {
		t.Fatalf("validator: %v", err)
	}
	orch := pipeline.NewOrchestrator([]pipeline.Tier{{Provider: provider}}, nil)
	extractor := pipeline.NewExtractor(parser.New(nil), orch, v, nil)

	statuses := []StatusFunc{
		func(ctx context.Context) ProviderStatus {
			return ProviderStatus{Provider: "groq", Available: true, Message: "configured"}
		},
		func(ctx context.Context) ProviderStatus {
			return ProviderStatus{Provider: "ollama", Message: "daemon not responding"}
		},
	}

	return NewServer(
		config.ServerConfig{},
		pipeline.Options{UseAI: true},
		extractor,
		ingest.NewService(nil),
		export.NewService(nil),
		statuses,
		nil,
	)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, &stubProvider{err: llm.Unavailable("off")})
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestExtract_JSON(t *testing.T) {
	srv := newTestServer(t, &stubProvider{questions: []entity.Question{{
		Type:         constants.ShortAnswer,
		QuestionText: "Define osmosis in one sentence.",
		Points:       1,
	}}})

	body := `{"text":"Some unstructured study notes without clear markers."}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/extract", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var result entity.ExtractionResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !result.Metadata.UsedAI || result.Metadata.AIProvider != constants.ProviderGroq {
		t.Fatalf("metadata: %#v", result.Metadata)
	}
	if len(result.Questions) != 1 {
		t.Fatalf("questions: %#v", result.Questions)
	}
}

func TestExtract_MissingText(t *testing.T) {
	srv := newTestServer(t, &stubProvider{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/extract", strings.NewReader(`{}`))
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestExtractFile_Multipart(t *testing.T) {
	srv := newTestServer(t, &stubProvider{err: llm.Unavailable("off")})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "exam.txt")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = fw.Write([]byte("Q1: Which planet is the largest?\r\nA) Jupiter\r\nB) Mars\r\n"))
	_ = mw.Close()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/extract/file?useAI=false", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var result entity.ExtractionResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Metadata.UsedAI {
		t.Fatal("usedAI true with useAI=false")
	}
	if len(result.Questions) != 1 {
		t.Fatalf("questions: %#v", result.Questions)
	}
}

func TestExtractFile_RejectsBinary(t *testing.T) {
	srv := newTestServer(t, &stubProvider{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "exam.bin")
	_, _ = fw.Write([]byte{0x00, 0x01, 0x02, 0x03})
	_ = mw.Close()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/extract/file", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
}

func TestProviders(t *testing.T) {
	srv := newTestServer(t, &stubProvider{})
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/providers", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var out struct {
		Providers []ProviderStatus `json:"providers"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Providers) != 2 || !out.Providers[0].Available || out.Providers[1].Available {
		t.Fatalf("providers: %#v", out.Providers)
	}
}

func TestExport(t *testing.T) {
	srv := newTestServer(t, &stubProvider{})

	result := entity.ExtractionResult{
		Questions: []entity.Question{{
			Type:         constants.ShortAnswer,
			QuestionText: "Define inertia.",
			Points:       1,
		}},
		Metadata: entity.ExtractionMetadata{TotalExtracted: 1},
	}
	body, _ := json.Marshal(result)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/export", bytes.NewReader(body))
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Fatalf("content type %q", ct)
	}
	if rec.Body.Len() == 0 {
		t.Fatal("empty workbook body")
	}
}
