package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildIsPure(t *testing.T) {
	state := State{
		Name:          "Asha",
		Grade:         "6",
		Subject:       "Math",
		Topic:         "Fractions",
		Intent:        IntentUserMessage,
		LearningState: StateInLesson,
	}

	first := Build(state)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Build(state))
	}
}

func TestBuildEmbedsStateVerbatim(t *testing.T) {
	out := Build(State{
		Name:          "Ravi",
		Grade:         "4",
		Subject:       "Science",
		Topic:         "Plants",
		Intent:        IntentTopicSelected,
		LearningState: StateChoosingTopic,
	})

	assert.Contains(t, out, "Student name: Ravi")
	assert.Contains(t, out, "Grade: 4")
	assert.Contains(t, out, "Subject: Science")
	assert.Contains(t, out, "Topic: Plants")
	assert.Contains(t, out, "Intent: TOPIC_SELECTED")
	assert.Contains(t, out, "Learning state: CHOOSING_TOPIC")
}

func TestBuildSubstitutesPlaceholders(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  []string
	}{
		{
			name:  "completely empty state",
			state: State{},
			want: []string{
				"Student name: Unknown name",
				"Grade: Unknown grade",
				"Subject: Unknown subject",
				"Topic: Unknown topic",
				"Intent: SESSION_START",
				"Learning state: IDLE",
			},
		},
		{
			name:  "partial state keeps known values",
			state: State{Subject: "English", Intent: IntentSubjectSelected},
			want: []string{
				"Student name: Unknown name",
				"Subject: English",
				"Intent: SUBJECT_SELECTED",
				"Learning state: IDLE",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Build(tt.state)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestBuildDoesNotMutateInput(t *testing.T) {
	state := State{Name: "Asha"}
	Build(state)
	assert.Equal(t, State{Name: "Asha"}, state)
}

func TestBuildIncludesEveryRule(t *testing.T) {
	out := Build(State{})
	for _, rule := range Rules {
		assert.Contains(t, out, rule)
	}
}

func TestRulesAreNumberedFromOne(t *testing.T) {
	out := Build(State{})
	require.Contains(t, out, "1. ")
	lastNum := len(Rules)
	assert.Contains(t, out, strings.TrimSpace(string(rune('0'+lastNum)))+". ")
}

func TestRuleSetCoversContract(t *testing.T) {
	joined := strings.Join(Rules, "\n")

	// key contract points the frontend and extractor depend on
	assert.Contains(t, joined, `"message"`)
	assert.Contains(t, joined, "camelCase")
	assert.Contains(t, joined, `"learningState"`)
	assert.Contains(t, joined, "6 to 7")
	assert.Contains(t, joined, `{"id": string, "label": string}`)
	assert.Contains(t, joined, "confirm")
	assert.Contains(t, joined, "refuse politely")
}
