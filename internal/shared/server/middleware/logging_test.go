package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-ats/internal/shared/telemetry"
)

func TestLoggingIncludesRequiredFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestID(), Identity(), Logging())
	router.GET("/test", func(c *gin.Context) {
		c.Set("aiEndpoint", "/ai/summary")
		c.Set("scoreId", "score-1")
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	var buf bytes.Buffer
	telemetry.SetOutput(&buf)
	defer telemetry.SetOutput(os.Stdout)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(UserIDHeader, "user1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	last := lines[len(lines)-1]
	var payload map[string]any
	if err := json.Unmarshal([]byte(last), &payload); err != nil {
		t.Fatalf("decode log json: %v", err)
	}

	required := []string{"request_id", "user_id", "ai_endpoint", "score_id", "duration_ms", "status"}
	for _, key := range required {
		if _, ok := payload[key]; !ok {
			t.Fatalf("missing log field: %s", key)
		}
	}
	if payload["user_id"] != "user1" {
		t.Fatalf("unexpected user_id: %v", payload["user_id"])
	}
	if payload["ai_endpoint"] != "/ai/summary" {
		t.Fatalf("unexpected ai_endpoint: %v", payload["ai_endpoint"])
	}
	if payload["request_id"] == "" || resp.Header().Get("X-Request-Id") != payload["request_id"] {
		t.Fatalf("request id mismatch: header=%q log=%v", resp.Header().Get("X-Request-Id"), payload["request_id"])
	}
}
