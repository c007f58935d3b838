// Package processing implements the request/response shaping layer: it turns
// a chat message plus caller-supplied conversation state into a model request,
// and recovers a JSON reply object from the model's text output.
package processing

import "encoding/json"

// HistoryEntry is one prior turn as the frontend stores it, oldest first.
type HistoryEntry struct {
	Role    string `json:"role"`    // "user" or "assistant"
	Content string `json:"content"` // entries with empty content are dropped
}

// ChatRequest is the body of POST /api/chat. State is kept as raw JSON so it
// round-trips to the response byte-for-byte; the relay parses a copy for
// prompt building but never rewrites what the caller sent.
type ChatRequest struct {
	Message string          `json:"message" validate:"required"`
	State   json.RawMessage `json:"state,omitempty"`
	History []HistoryEntry  `json:"history,omitempty"`
}

// ChatResponse pairs the extracted reply object with the caller's state,
// echoed back unchanged. Reply is whatever the extractor recovered, normally
// a map; the service does not validate its shape beyond JSON parseability.
type ChatResponse struct {
	Reply any             `json:"reply"`
	State json.RawMessage `json:"state,omitempty"`
}
