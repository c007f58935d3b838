package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestRelayErrorFormatting(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := NewUpstreamCallError("req-1", "Server error calling Gemini", cause)

	assert.Equal(t, "upstream_call: Server error calling Gemini: connection refused", err.Error())
	assert.Equal(t, cause, stderrors.Unwrap(err))
}

func TestRelayErrorIsMatchesOnType(t *testing.T) {
	a := NewMalformedOutputError("req-1", "Server error calling Gemini", fmt.Errorf("bad json"))
	b := NewMalformedOutputError("req-2", "other", nil)
	c := NewUpstreamCallError("req-1", "Server error calling Gemini", nil)

	assert.True(t, stderrors.Is(a, b))
	assert.False(t, stderrors.Is(a, c))
	assert.False(t, stderrors.Is(a, fmt.Errorf("plain")))
}

func TestConstructorDefaults(t *testing.T) {
	tests := []struct {
		name     string
		err      *RelayError
		wantType ErrorType
		wantCode int
	}{
		{"client input", NewClientInputError("r", "message (string) is required"), ClientInputError, http.StatusBadRequest},
		{"upstream", NewUpstreamCallError("r", "Server error calling Gemini", nil), UpstreamCallError, http.StatusInternalServerError},
		{"malformed output", NewMalformedOutputError("r", "Server error calling Gemini", nil), MalformedModelOutput, http.StatusInternalServerError},
		{"internal", NewInternalError("r", nil), InternalError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantCode, tt.err.Code)
		})
	}
}

func TestWriteErrorWireShape(t *testing.T) {
	SetLogger(zaptest.NewLogger(t))

	w := httptest.NewRecorder()
	WriteError(w, NewClientInputError("req-1", "message (string) is required"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{"error": "message (string) is required"}, body)
}

func TestSetLoggerIgnoresNil(t *testing.T) {
	orig := DefaultLogger
	SetLogger(nil)
	assert.Equal(t, orig, DefaultLogger)
}
