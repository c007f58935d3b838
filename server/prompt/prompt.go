// Package prompt builds the system instruction sent to the model on every
// call. The instruction is a pure function of the caller-supplied conversation
// state: the same state always renders byte-identical output.
//
// The instruction is represented as a template with slots rather than ad hoc
// concatenation so the governance rules stay independently testable. The rule
// set is a contract the frontend depends on: the model is told to produce a
// constrained camelCase JSON reply, and the relay's extractor assumes it
// mostly complies.
package prompt

import (
	"strings"
	"text/template"
)

// Intent is the client-declared conversational event driving the prompt rules.
type Intent string

const (
	IntentSessionStart    Intent = "SESSION_START"
	IntentSubjectSelected Intent = "SUBJECT_SELECTED"
	IntentTopicSelected   Intent = "TOPIC_SELECTED"
	IntentUserMessage     Intent = "USER_MESSAGE"
)

// LearningState is the coarse session phase the frontend tracks.
type LearningState string

const (
	StateIdle            LearningState = "IDLE"
	StateChoosingSubject LearningState = "CHOOSING_SUBJECT"
	StateChoosingTopic   LearningState = "CHOOSING_TOPIC"
	StateInLesson        LearningState = "IN_LESSON"
)

// State is the conversation state record supplied by the frontend with every
// request. All fields are optional at the call boundary; the relay never
// mutates or persists it.
type State struct {
	Name          string        `json:"name,omitempty"`
	Grade         string        `json:"grade,omitempty"`
	Subject       string        `json:"subject,omitempty"`
	Topic         string        `json:"topic,omitempty"`
	Intent        Intent        `json:"intent,omitempty"`
	LearningState LearningState `json:"learningState,omitempty"`
}

// normalized returns a copy with the documented placeholder defaults applied.
func (s State) normalized() State {
	if s.Name == "" {
		s.Name = "Unknown name"
	}
	if s.Grade == "" {
		s.Grade = "Unknown grade"
	}
	if s.Subject == "" {
		s.Subject = "Unknown subject"
	}
	if s.Topic == "" {
		s.Topic = "Unknown topic"
	}
	if s.Intent == "" {
		s.Intent = IntentSessionStart
	}
	if s.LearningState == "" {
		s.LearningState = StateIdle
	}
	return s
}

// Rules is the fixed governance rule set embedded in every instruction.
// The downstream model depends on these for producing a parseable,
// policy-compliant reply, so none of them may be dropped.
var Rules = []string{
	`Always respond with a single JSON object using camelCase keys. It must contain a "message" string, plus "intent" and "learningState" keys that track the conversation, and may include "grade", "subject" and "topic" when known. Output nothing outside the JSON object.`,
	`If the student asks to switch to a different subject or grade than the current state, ask them to confirm the switch before changing anything.`,
	`If the topic is unknown or too generic, suggest specific topics appropriate to the student's grade and subject instead of starting a lesson.`,
	`Never end your message with open-ended filler like "Let me know if you need anything else" or "Feel free to ask". End every message with either practice questions, a list of topics to choose from, or exactly one guiding question.`,
	`When the intent is SESSION_START, greet the student warmly and keep the message short; the frontend renders subject chips for the student to pick from, so do not enumerate subjects in prose.`,
	`When the intent is SUBJECT_SELECTED, your reply must include a "topics" array of 6 to 7 objects of the form {"id": string, "label": string}, each appropriate to the student's grade and the selected subject.`,
	`If the student asks for anything unsafe, harmful or inappropriate, refuse politely in age-appropriate language and steer the conversation back to learning.`,
}

const instructionText = `You are a patient, encouraging tutor for K-12 students. Speak in simple, age-appropriate language for the student's grade. Stay in English; use limited code-switching only when it helps clarify a concept the student did not understand.

Current session state:
- Student name: {{.State.Name}}
- Grade: {{.State.Grade}}
- Subject: {{.State.Subject}}
- Topic: {{.State.Topic}}
- Intent: {{.State.Intent}}
- Learning state: {{.State.LearningState}}

Rules you must always follow:
{{range $i, $rule := .Rules}}{{num $i}}. {{$rule}}
{{end}}`

// instructionTmpl is compiled once at init; an invalid template is a
// programmer error and fails fast.
var instructionTmpl = template.Must(
	template.New("instruction").
		Funcs(template.FuncMap{"num": func(i int) int { return i + 1 }}).
		Parse(instructionText),
)

// Build renders the system instruction for the given state. It is pure:
// no I/O, no randomness, no hidden state.
func Build(state State) string {
	var b strings.Builder
	data := struct {
		State State
		Rules []string
	}{state.normalized(), Rules}

	// The template is static and the data is plain strings; execution
	// cannot fail at runtime.
	if err := instructionTmpl.Execute(&b, data); err != nil {
		panic(err)
	}
	return b.String()
}
