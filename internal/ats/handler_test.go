package ats

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-ats/internal/shared/server/middleware"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Identity())
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestScoreHandler(t *testing.T) {
	repo := NewMemoryRepo()
	r := newTestRouter(NewService(repo))

	body := `{"resumeId":"r1","resumeText":"built REST APIs using Java and Docker","jobText":"Java, Spring, Docker"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ats/score", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.UserIDHeader, "u1")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var payload struct {
		Score    int      `json:"score"`
		Matched  []string `json:"matched"`
		Missing  []string `json:"missing"`
		RecordID string   `json:"recordId"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Score != 67 || len(payload.Matched) != 2 || len(payload.Missing) != 1 || payload.RecordID == "" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestScoreHandlerRejectsBadJSON(t *testing.T) {
	r := newTestRouter(NewService(NewMemoryRepo()))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ats/score", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.UserIDHeader, "u1")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	var payload map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &payload)
	if payload["error"] == "" || payload["error"] == nil {
		t.Fatalf("expected error field, got %v", payload)
	}
}

func TestScoreUploadPlainText(t *testing.T) {
	r := newTestRouter(NewService(NewMemoryRepo()))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "resume.txt")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	_, _ = fw.Write([]byte("Python, SQL and AWS"))
	_ = mw.WriteField("jobText", "python sql aws docker")
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ats/score/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set(middleware.UserIDHeader, "u1")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var payload map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &payload)
	if payload["score"].(float64) != 75 {
		t.Fatalf("expected 75, got %v", payload["score"])
	}
}

func TestScoreHandlerEmptyBodyIsNeutral(t *testing.T) {
	repo := NewMemoryRepo()
	r := newTestRouter(NewService(repo))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ats/score", nil)
	req.Header.Set(middleware.UserIDHeader, "u1")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var payload map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["score"].(float64) != NeutralScore {
		t.Fatalf("expected neutral score, got %v", payload["score"])
	}
}

func TestHistoryDefaultPageSize(t *testing.T) {
	r := newTestRouter(NewService(NewMemoryRepo()))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ats/history", nil)
	req.Header.Set(middleware.UserIDHeader, "u1")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var payload struct {
		Size int `json:"size"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Size != 20 {
		t.Fatalf("expected default size 20, got %d", payload.Size)
	}
}
