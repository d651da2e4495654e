package models

// Charity is one row of the dataset. Cities is derived at load time.
type Charity struct {
	ID       int64    `json:"charity_id"`
	Category string   `json:"category"`
	Cause    string   `json:"cause"`
	Tagline  string   `json:"tagline"`
	Mission  string   `json:"mission"`
	Cities   []string `json:"cities"`
}

// ConversationState is the continuation state the client carries between turns.
type ConversationState struct {
	Category string `json:"category"`
	Cause    string `json:"cause"`
	Location string `json:"location"`
	Offset   int    `json:"offset" validate:"min=0"`
}

type ChatRequest struct {
	Message string `json:"message" validate:"required"`
	ConversationState
}

type ChatResponse struct {
	Response string `json:"response"`
	ConversationState
}
