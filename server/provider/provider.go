// Package provider defines the boundary to the external generative model.
// Handlers and the processor depend only on the Generator interface, so they
// can be unit-tested against a mock without a live network call.
package provider

import "context"

// Turn roles as the model API understands them. Frontend "assistant" entries
// are mapped to RoleModel before they reach this package.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Turn is one role-tagged message in the conversation sequence sent to
// the model.
type Turn struct {
	Role string
	Text string
}

// ModelRequest carries everything for a single model call: the system
// instruction, the conversation turns in order, and generation parameters.
type ModelRequest struct {
	SystemInstruction string
	Turns             []Turn

	Temperature     float32
	TopP            float32
	MaxOutputTokens int32

	// ForceJSON requests the provider's JSON output mode.
	ForceJSON bool
}

// Generator is the substitutable model call. Generate blocks until the model
// responds or the context is done; it returns the raw text payload. No
// retries are attempted at this layer or above.
type Generator interface {
	Generate(ctx context.Context, req *ModelRequest) (string, error)
}
