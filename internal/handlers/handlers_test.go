package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"charity-chat-service/internal/models"
)

type stubAnswerer struct {
	got  models.ChatRequest
	resp models.ChatResponse
}

func (s *stubAnswerer) Answer(req models.ChatRequest) models.ChatResponse {
	s.got = req
	return s.resp
}

func post(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/charity_info", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestHandleCharityInfo_OK(t *testing.T) {
	stub := &stubAnswerer{resp: models.ChatResponse{
		Response:          "hi",
		ConversationState: models.ConversationState{Category: "Health", Offset: 7},
	}}
	h := &ChatHandlers{Chat: stub}

	rec := post(h.HandleCharityInfo, `{"message":"health","cause":"Cancer","offset":0}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "health", stub.got.Message)
	assert.Equal(t, "Cancer", stub.got.Cause)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]any{
		"response": "hi",
		"category": "Health",
		"cause":    "",
		"location": "",
		"offset":   float64(7),
	}, body)
}

func TestHandleCharityInfo_OptionalStateDefaults(t *testing.T) {
	stub := &stubAnswerer{}
	h := &ChatHandlers{Chat: stub}

	rec := post(h.HandleCharityInfo, `{"message":"more","category":null}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.ConversationState{}, stub.got.ConversationState)
}

func TestHandleCharityInfo_BadRequests(t *testing.T) {
	cases := map[string]struct {
		body string
		code string
	}{
		"malformed json":  {`{"message":`, "invalid_json"},
		"missing message": {`{"category":"Health"}`, "invalid_request"},
		"empty message":   {`{"message":"","offset":7}`, "invalid_request"},
		"negative offset": {`{"message":"more","offset":-7}`, "invalid_request"},
		"string offset":   {`{"message":"more","offset":"7"}`, "invalid_json"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			h := &ChatHandlers{Chat: &stubAnswerer{}}
			rec := post(h.HandleCharityInfo, tc.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.code, body["error"])
		})
	}
}

func TestValidateStruct_Messages(t *testing.T) {
	err := validateStruct(models.ChatRequest{ConversationState: models.ConversationState{Offset: -1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "message is required")
	assert.Contains(t, err.Error(), "offset must be at least 0")
}

func TestHandleIndex(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleIndex(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "/charity_info")
}

func TestHandleIndex_KeepsOffsetForIDLookups(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleIndex(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	body := rec.Body.String()
	assert.Contains(t, body, "lowered.includes('more') || lowered.startsWith('id:')")
	assert.Contains(t, body, "const offset = keepsOffset ? state.offset : 0;")
}

type fixedCount int

func (c fixedCount) Len() int { return int(c) }

func TestHandleHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleHealth(fixedCount(3))(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","charities":3}`, rec.Body.String())
}

func TestWithRequestID(t *testing.T) {
	var seen string
	h := WithRequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", seen)
}

func TestWithRequestLogging_DefaultStatus(t *testing.T) {
	var gotStatus int
	obs := observerFunc(func(_, _ string, status int) { gotStatus = status })
	h := WithRequestLogging(zap.NewNop(), obs)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, gotStatus)
}

type observerFunc func(method, route string, status int)

func (f observerFunc) ObserveHTTP(method, route string, status int, _ time.Duration) {
	f(method, route, status)
}
