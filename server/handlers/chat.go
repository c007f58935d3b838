// Package handlers provides the HTTP handlers for the tutorgate relay.
//
// The handlers own the public wire contract: exact error bodies, the echoed
// state, and the status mapping from the error taxonomy. Everything between
// "valid request" and "reply object" lives in the processing package.
package handlers

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"tutorgate/errors"
	"tutorgate/server/extract"
	"tutorgate/server/middleware"
	"tutorgate/server/processing"
)

// Client-facing messages. These are part of the frontend contract and must
// not be reworded.
const (
	msgClientError = "message (string) is required"
	msgServerError = "Server error calling Gemini"
)

var validate = validator.New()

// ChatHandler handles POST /api/chat.
type ChatHandler struct {
	processor *processing.Processor
	logger    *zap.Logger
}

// NewChatHandler creates a chat handler with the given processor and logger.
func NewChatHandler(processor *processing.Processor, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		processor: processor,
		logger:    logger,
	}
}

// ServeHTTP implements http.Handler.
//
// Status mapping:
//   - missing/non-string message (or an undecodable body) → 400, no upstream call
//   - upstream or extraction failure → 500 with a generic message; the cause
//     is logged, never returned
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	logger := h.logger.With(
		zap.String("request_id", requestID),
		zap.String("path", r.URL.Path),
	)

	var req processing.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Undecodable chat request", zap.Error(err))
		errors.WriteError(w, errors.NewClientInputError(requestID, msgClientError))
		return
	}
	if err := validate.Struct(&req); err != nil {
		logger.Warn("Invalid chat request", zap.Error(err))
		errors.WriteError(w, errors.NewClientInputError(requestID, msgClientError))
		return
	}

	logger.Info("Processing chat request",
		zap.Int("history_len", len(req.History)),
		zap.Bool("has_state", len(req.State) > 0),
	)

	resp, err := h.processor.ProcessChat(r.Context(), &req)
	if err != nil {
		var malformed *extract.MalformedOutputError
		if stderrors.As(err, &malformed) {
			errors.WriteError(w, errors.NewMalformedOutputError(requestID, msgServerError, err))
		} else {
			errors.WriteError(w, errors.NewUpstreamCallError(requestID, msgServerError, err))
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}
