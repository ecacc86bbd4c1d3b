package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"meeting-parser-service/internal/extractor/entity"
	"meeting-parser-service/internal/extractor/replytype"
	"meeting-parser-service/internal/extractor/timeexpr"
	"meeting-parser-service/internal/service/parse"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	times, err := timeexpr.New("UTC", 16)
	require.NoError(t, err)
	ents := entity.New([]string{"zoom.", "meet."}, 500)
	svc := parse.NewService(times, replytype.NewClassifier(), ents, zap.NewNop())

	r := gin.New()
	r.POST("/parse", NewParseHandler(svc).ParseEmail)
	return r
}

func doParse(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestParseEmailOK(t *testing.T) {
	r := newTestRouter(t)
	body := `{"email_text":"Wednesday at 2pm works for me. https://meet.example.com/abc","sent_at":"2025-03-10T08:00:00Z"}`
	w := doParse(t, r, body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "accept", resp["reply_type"])
	assert.Equal(t, "2025-03-12T14:00:00Z", resp["proposed_time"])
	assert.Equal(t, "https://meet.example.com/abc", resp["meeting_link"])

	info, ok := resp["additional_info"].(map[string]any)
	require.True(t, ok)
	_, ok = info["proposed_times"].([]any)
	assert.True(t, ok, "proposed_times must be an array")

	scores, ok := resp["reply_type_scores"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, scores, 5)
}

func TestParseEmailEmptyBodyText(t *testing.T) {
	r := newTestRouter(t)
	w := doParse(t, r, `{"email_text":""}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "unclear", resp["reply_type"])
	assert.Nil(t, resp["proposed_time"])
}

func TestParseEmailMalformedJSON(t *testing.T) {
	r := newTestRouter(t)
	w := doParse(t, r, `{"email_text": `)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseEmailBadSentAt(t *testing.T) {
	r := newTestRouter(t)
	w := doParse(t, r, `{"email_text":"hi","sent_at":"yesterday"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
