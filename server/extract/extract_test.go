package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractRoundTrip(t *testing.T) {
	objects := []map[string]any{
		{"message": "hello", "intent": "USER_MESSAGE"},
		{"message": "pick a topic", "topics": []any{map[string]any{"id": "t1", "label": "Fractions"}}},
		{"message": "nested {braces} in strings", "learningState": "IN_LESSON"},
		{},
	}

	for _, obj := range objects {
		raw, err := json.Marshal(obj)
		require.NoError(t, err)

		got, err := Extract(string(raw))
		require.NoError(t, err)
		assert.Equal(t, asAny(t, obj), got)
	}
}

func TestExtractFencedInput(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"json-tagged fence", "```json\n{\"a\":1}\n```"},
		{"untagged fence", "```\n{\"a\":1}\n```"},
		{"fence with surrounding whitespace", "  ```json\n{\"a\":1}\n```  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, map[string]any{"a": float64(1)}, got)
		})
	}
}

func TestExtractSurroundingProse(t *testing.T) {
	got, err := Extract("Here is your answer:\n{\"message\":\"hi\"}")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"message": "hi"}, got)
}

func TestExtractNoObject(t *testing.T) {
	for _, raw := range []string{"no json here", "", "   ", "[1,2,3]"} {
		_, err := Extract(raw)
		require.Error(t, err, "input %q", raw)

		var malformed *MalformedOutputError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, "No JSON object found", malformed.Reason)
	}
}

// The extractor slices to the last '}' in the whole text. When prose after
// the object contains a brace, the candidate slice is over-long and the
// parse fails. This asserts the documented behavior, not an idealized one.
func TestExtractLastBraceHeuristic(t *testing.T) {
	_, err := Extract(`{"a":1} trailing text with a } brace`)
	require.Error(t, err)

	var malformed *MalformedOutputError
	require.ErrorAs(t, err, &malformed)
	assert.NotEqual(t, "No JSON object found", malformed.Reason)
}

func TestExtractReversedBraces(t *testing.T) {
	_, err := Extract("} {")
	require.Error(t, err)

	var malformed *MalformedOutputError
	require.ErrorAs(t, err, &malformed)
}

func TestExtractInvalidObject(t *testing.T) {
	_, err := Extract(`{"a": }`)
	require.Error(t, err)

	var malformed *MalformedOutputError
	require.ErrorAs(t, err, &malformed)
	assert.NotEmpty(t, malformed.Reason)
}

// asAny round-trips obj through JSON so expected values carry the types
// encoding/json actually produces (float64 numbers, []any slices).
func asAny(t *testing.T, obj map[string]any) any {
	t.Helper()
	raw, err := json.Marshal(obj)
	require.NoError(t, err)
	var out any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}
