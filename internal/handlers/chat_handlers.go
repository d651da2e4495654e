package handlers

import (
	"encoding/json"
	"net/http"

	"charity-chat-service/internal/models"
)

type Answerer interface {
	Answer(req models.ChatRequest) models.ChatResponse
}

type ChatHandlers struct {
	Chat Answerer
}

// HandleCharityInfo answers one chat turn. Query failures are reported inside the
// response text; only malformed requests get a non-200 status.
func (h *ChatHandlers) HandleCharityInfo(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_json"})
		return
	}
	if err := validateStruct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_request", "message": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, h.Chat.Answer(req))
}
